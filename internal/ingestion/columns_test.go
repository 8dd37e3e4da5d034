package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultColumnMap_Lookup(t *testing.T) {
	m := DefaultColumnMap()

	tests := map[string]string{
		"Fecha":            "fecha",
		"  Matrícula ":     "matricula",
		"Aeródromo Origen": "origen",
		"ADES":             "destino",
		"Hora de Salida":   "hora_salida",
		"Duración":         "duracion",
		"Tipo de Aeronave": "tipo_aeronave",
		"Categoría Estela": "categoria_estela",
	}
	for header, want := range tests {
		got, ok := m.Lookup(header)
		assert.True(t, ok, header)
		assert.Equal(t, want, got, header)
	}

	_, ok := m.Lookup("fecha ") // trimmed, matches
	assert.True(t, ok)
	_, ok = m.Lookup("FeChA") // case-sensitive
	assert.False(t, ok)
}

func TestColumnMap_ResolveFirstMatchWins(t *testing.T) {
	m := DefaultColumnMap()

	targets, dropped := m.Resolve([]string{"Fecha", "Comentario", "Date", "Origen"})

	assert.Equal(t, []string{"fecha", "", "", "origen"}, targets)
	assert.Equal(t, []string{"Comentario", "Date"}, dropped)
}

func TestParseColumnMap_DuplicateVariantKeepsFirst(t *testing.T) {
	doc := []byte("origen:\n  - Aeropuerto\ndestino:\n  - Aeropuerto\n  - Llegada\n")
	m, err := ParseColumnMap(doc)
	require.NoError(t, err)

	got, _ := m.Lookup("Aeropuerto")
	assert.Equal(t, "origen", got)
	got, _ = m.Lookup("Llegada")
	assert.Equal(t, "destino", got)
}

func TestParseColumnMap_RejectsUnknownTarget(t *testing.T) {
	_, err := ParseColumnMap([]byte("altitude:\n  - Alt\n"))
	assert.Error(t, err)

	_, err = ParseColumnMap([]byte("file_id:\n  - File\n"))
	assert.Error(t, err)
}
