package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/filters"
)

func newIngestCmd(a *app) *cobra.Command {
	var force bool
	var file string
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load new exports from the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := a.deps.Services.Ingest.Ingest(cmd.Context(), force, file)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "reload files that were already completed")
	cmd.Flags().StringVar(&file, "file", "", "load only this file of the data directory")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop all flights and the ingestion history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("reset deletes every loaded flight; pass --yes to confirm")
			}
			if err := a.deps.Services.Ingest.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "flights and ingestion history cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List ingestion ledger rows, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			history, err := a.deps.Services.Ingest.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), history)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum rows to list")
	return cmd
}

func newDeleteFileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-file NAME",
		Short: "Remove a file, its ledger row and its flights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.deps.Services.Ingest.DeleteFile(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted\n", args[0])
			return nil
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Run the model health check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.deps.Services.Health.Check(cmd.Context()))
		},
	}
}

func newCapacityCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "capacity SECTOR_ID",
		Short: "Compute the hourly capacity of a sector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := parseFilter(filter)
			if err != nil {
				return err
			}
			result, err := a.deps.Services.Capacity.Compute(cmd.Context(), args[0], spec)
			if result != nil {
				if perr := printJSON(cmd.OutOrStdout(), result); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", `filter as JSON, e.g. '{"start_date":"2024-01-01"}'`)
	return cmd
}

func newLoadRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load-regions PATH",
		Short: "Replace the region reference data with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := common.NewRegionLoaderService(a.deps.Repo.Regions)
			count, err := loader.LoadFromFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d regions loaded\n", count)
			return nil
		},
	}
}

func parseFilter(raw string) (filters.FilterSpec, error) {
	var spec filters.FilterSpec
	if raw == "" {
		return spec, nil
	}
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return spec, fmt.Errorf("invalid --filter: %w", err)
	}
	return spec, nil
}
