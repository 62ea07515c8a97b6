package bib

// EntryType is the bibtex entry type of an Entry.
type EntryType string

const (
	Article       EntryType = "article"
	Book          EntryType = "book"
	Booklet       EntryType = "booklet"
	Inbook        EntryType = "inbook"
	Incollection  EntryType = "incollection"
	Inproceedings EntryType = "inproceedings"
	Manual        EntryType = "manual"
	Masterthesis  EntryType = "masterthesis"
	Misc          EntryType = "misc"
	Phdthesis     EntryType = "phdthesis"
	Proceedings   EntryType = "proceedings"
	Techreport    EntryType = "techreport"
	Unpublished   EntryType = "unpublished"
)

// entryTypes is the closed set of recognized entry types.
var entryTypes = map[EntryType]bool{
	Article:       true,
	Book:          true,
	Booklet:       true,
	Inbook:        true,
	Incollection:  true,
	Inproceedings: true,
	Manual:        true,
	Masterthesis:  true,
	Misc:          true,
	Phdthesis:     true,
	Proceedings:   true,
	Techreport:    true,
	Unpublished:   true,
}

// ParseEntryType maps a bibtex type string to an EntryType.
// Unrecognized types fall back to Misc.
func ParseEntryType(s string) EntryType {
	if t := EntryType(s); entryTypes[t] {
		return t
	}
	return Misc
}

func (t EntryType) String() string {
	if t == "" {
		return string(Misc)
	}
	return string(t)
}
