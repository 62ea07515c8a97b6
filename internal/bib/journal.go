package bib

// Journal is a canonical publication venue. Lookup may match any of
// the three name forms; entries store the id relationally and the full
// name for presentation.
type Journal struct {
	ID        int64
	Name      string
	Abbr      string
	AbbrNoDot string
}
