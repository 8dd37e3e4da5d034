package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "reset", "history", "delete-file", "health", "capacity", "load-regions"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestParseFilter(t *testing.T) {
	spec, err := parseFilter(`{"start_date":"2024-01-01","empresa":["IBE"]}`)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", spec.StartDate)
	assert.Equal(t, []string{"IBE"}, []string(spec.Empresa))

	spec, err = parseFilter("")
	require.NoError(t, err)
	assert.False(t, spec.HasDateWindow())

	_, err = parseFilter("{")
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"regions": 3}))
	assert.Equal(t, "{\n  \"regions\": 3\n}\n", buf.String())
}
