package ingestion

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/models/entities"

	"gopkg.in/yaml.v3"
)

//go:embed column_aliases.yaml
var defaultAliases []byte

// ColumnMap maps source header variants to canonical flight column names
type ColumnMap struct {
	aliases map[string]string
}

// DefaultColumnMap returns the embedded alias table
func DefaultColumnMap() *ColumnMap {
	m, err := ParseColumnMap(defaultAliases)
	if err != nil {
		panic("embedded column_aliases.yaml is invalid: " + err.Error())
	}
	return m
}

// LoadColumnMap reads an alias table from path, or the embedded table when path is empty
func LoadColumnMap(path string) (*ColumnMap, error) {
	if path == "" {
		return DefaultColumnMap(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read column alias file: %w", err)
	}
	return ParseColumnMap(data)
}

// ParseColumnMap decodes a YAML document of canonical -> [variants]
func ParseColumnMap(data []byte) (*ColumnMap, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse column aliases: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("column alias table is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("column alias table must be a mapping")
	}

	canonical := make(map[string]bool, len(entities.FlightColumns))
	for _, c := range entities.FlightColumns {
		canonical[c.Name] = true
	}

	m := &ColumnMap{aliases: make(map[string]string)}
	// yaml.Node keeps document order, which makes "first definition wins" well defined
	for i := 0; i+1 < len(root.Content); i += 2 {
		target := root.Content[i].Value
		if !canonical[target] || target == entities.ColFileID {
			return nil, fmt.Errorf("column alias table names unknown target %q", target)
		}
		var variants []string
		if err := root.Content[i+1].Decode(&variants); err != nil {
			return nil, fmt.Errorf("aliases of %s: %w", target, err)
		}
		for _, v := range variants {
			v = strings.TrimSpace(v)
			if _, taken := m.aliases[v]; taken || v == "" {
				continue
			}
			m.aliases[v] = target
		}
	}
	return m, nil
}

// Lookup returns the canonical name of a header
func (m *ColumnMap) Lookup(header string) (string, bool) {
	c, ok := m.aliases[strings.TrimSpace(header)]
	return c, ok
}

// Resolve maps each header position to a canonical column. Positions whose header
// is unknown, or whose canonical column was already claimed by an earlier header,
// map to "". The dropped headers are returned for logging.
func (m *ColumnMap) Resolve(headers []string) (targets []string, dropped []string) {
	targets = make([]string, len(headers))
	claimed := make(map[string]bool)
	for i, h := range headers {
		c, ok := m.Lookup(h)
		if !ok || claimed[c] {
			dropped = append(dropped, h)
			continue
		}
		claimed[c] = true
		targets[i] = c
	}
	return targets, dropped
}

// logDropped warns once per unmapped header
func logDropped(fileName string, dropped []string) {
	for _, h := range dropped {
		logging.Warn("Dropping unmapped column", "file_name", fileName, "header", h)
	}
}
