package corpus

// Language is the Currier classification of the text region a token sits in.
type Language string

const (
	CurrierA     Language = "A"
	CurrierB     Language = "B"
	Unclassified Language = "unclassified"
)

// ParseLanguage maps transcription language codes to a Language.
// Anything outside A/B is treated as unclassified.
func ParseLanguage(code string) Language {
	switch code {
	case "A", "a":
		return CurrierA
	case "B", "b":
		return CurrierB
	default:
		return Unclassified
	}
}

// Section is the manuscript section code for a folio.
type Section string

const (
	SectionHerbal         Section = "H"
	SectionAstronomical   Section = "A"
	SectionZodiac         Section = "Z"
	SectionCosmological   Section = "C"
	SectionBiological     Section = "B"
	SectionPharmaceutical Section = "P"
	SectionStars          Section = "S"
	SectionText           Section = "T"
)

// IsAZC reports whether the section belongs to the combined
// astronomical/zodiac/cosmological group used by several analyses.
func (s Section) IsAZC() bool {
	return s == SectionAstronomical || s == SectionZodiac || s == SectionCosmological
}

// Token is one transcribed word occurrence with its positional metadata.
type Token struct {
	Word        string   `json:"word"`
	Folio       string   `json:"folio"`
	Line        int      `json:"line"`
	Section     Section  `json:"section"`
	Language    Language `json:"language"`
	Placement   string   `json:"placement"`
	Transcriber string   `json:"transcriber"`
	ParInitial  bool     `json:"par_initial"`
	ParFinal    bool     `json:"par_final"`
}

// LineKey identifies a single transcription line within a folio.
type LineKey struct {
	Folio string
	Line  int
}
