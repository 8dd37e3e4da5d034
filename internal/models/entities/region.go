package entities

// Region groups aerodromes for report enrichment
type Region struct {
	ID       string   `db:"id" json:"id"`
	Name     string   `db:"name" json:"name"`
	Airports []string `db:"-" json:"airports"`
}
