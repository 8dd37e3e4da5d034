package entities

// ColumnKind is the storage type a canonical flight column is coerced to
type ColumnKind int

const (
	KindString ColumnKind = iota
	KindInteger
	KindDate
	KindTime
	KindTimestamp
)

// SQLType returns the DuckDB type used in casts of this kind
func (k ColumnKind) SQLType() string {
	switch k {
	case KindInteger:
		return "BIGINT"
	case KindDate:
		return "DATE"
	case KindTime:
		return "TIME"
	case KindTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// FlightColumn describes one column of the canonical flights schema
type FlightColumn struct {
	Name string
	Kind ColumnKind
}

// Column names referenced directly by the core
const (
	ColID            = "id"
	ColFileID        = "file_id"
	ColFecha         = "fecha"
	ColSID           = "sid"
	ColTiempoInicial = "tiempo_inicial"
)

// FlightColumns is the canonical 27-column schema in insert order.
var FlightColumns = []FlightColumn{
	{ColID, KindInteger},
	{ColFileID, KindInteger},
	{ColFecha, KindDate},
	{ColSID, KindString},
	{"callsign", KindString},
	{"matricula", KindString},
	{"tipo_aeronave", KindString},
	{"empresa", KindString},
	{"tipo_vuelo", KindString},
	{"numero_vuelo", KindInteger},
	{"nivel", KindInteger},
	{ColTiempoInicial, KindTimestamp},
	{"origen", KindString},
	{"destino", KindString},
	{"fecha_salida", KindDate},
	{"fecha_llegada", KindDate},
	{"hora_salida", KindTime},
	{"hora_pv", KindTime},
	{"hora_llegada", KindTime},
	{"duracion", KindInteger},
	{"distancia", KindInteger},
	{"velocidad", KindInteger},
	{"ruta", KindString},
	{"regla_vuelo", KindString},
	{"categoria_estela", KindString},
	{"punto_entrada", KindString},
	{"punto_salida", KindString},
}

// FlightColumnNames returns the canonical column names in insert order
func FlightColumnNames() []string {
	names := make([]string, len(FlightColumns))
	for i, c := range FlightColumns {
		names[i] = c.Name
	}
	return names
}

// FlightRow is one typed row ready for insertion, aligned with FlightColumns.
// A nil entry is stored as NULL.
type FlightRow []any
