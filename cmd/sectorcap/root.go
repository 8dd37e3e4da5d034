package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"airspace-analytics/sectorcap/internal/api"
	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/db"
	"airspace-analytics/sectorcap/internal/logging"
)

// app holds what the subcommands share; it is filled by the root pre-run
type app struct {
	cfg  *config.Config
	conn *sqlx.DB
	deps *api.Dependencies
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	conn, err := db.InitDuckDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}

	// one-shot commands gain nothing from a result cache
	deps, err := api.InitDependencies(cfg, conn, common.NewResultCache(nil, 0), nil)
	if err != nil {
		conn.Close()
		return err
	}

	a.cfg, a.conn, a.deps = cfg, conn, deps
	return nil
}

func (a *app) close() {
	if a.conn != nil {
		a.conn.Close()
	}
	logging.Close()
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "sectorcap",
		Short:        "Air traffic capacity and demand analytics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	root.AddCommand(
		newIngestCmd(a),
		newResetCmd(a),
		newHistoryCmd(a),
		newDeleteFileCmd(a),
		newHealthCmd(a),
		newCapacityCmd(a),
		newLoadRegionsCmd(a),
	)
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
