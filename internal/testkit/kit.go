// Package testkit generates synthetic transcription corpora with known
// structure, so probes can be tested against effects that are planted
// rather than hoped for.
package testkit

import (
	"math/rand"
	"strconv"

	"voynstat/domain/corpus"
)

// Options controls the synthetic corpus shape
type Options struct {
	Seed          int64
	Folios        int
	LinesPerFolio int
	TokensPerLine int
	// Planted effects
	LanguageContrast   bool // Currier B words run longer and favor qo-/edy
	PositionalEffect   bool // line-initial tokens favor the da- prefix
	SectionLengthSkew  bool // AZC sections run shorter
	PrefixSuffixCouple bool // qo- prefixes attract -dy suffixes
}

// DefaultOptions plants every effect, sized for fast tests
func DefaultOptions() Options {
	return Options{
		Seed:               1,
		Folios:             20,
		LinesPerFolio:      8,
		TokensPerLine:      9,
		LanguageContrast:   true,
		PositionalEffect:   true,
		SectionLengthSkew:  true,
		PrefixSuffixCouple: true,
	}
}

var (
	middlesShort = []string{"e", "a", "o", "k", "t", "ke", "te"}
	middlesLong  = []string{"eke", "eote", "kee", "otee", "eeke", "okee"}
	prefixes     = []string{"qo", "ch", "sh", "da", "ok", "ot", ""}
	suffixes     = []string{"dy", "in", "aiin", "y", "ol", "ar", ""}
	sections     = []corpus.Section{
		corpus.SectionHerbal,
		corpus.SectionBiological,
		corpus.SectionAstronomical,
		corpus.SectionZodiac,
		corpus.SectionStars,
	}
)

// Generate builds a synthetic corpus according to the options
func Generate(opts Options) *corpus.Corpus {
	rng := rand.New(rand.NewSource(opts.Seed))
	var tokens []corpus.Token

	for f := 0; f < opts.Folios; f++ {
		folio := folioID(f)
		section := sections[f%len(sections)]
		language := corpus.CurrierA
		if f%2 == 1 {
			language = corpus.CurrierB
		}
		if section.IsAZC() {
			language = corpus.Unclassified
		}

		for line := 1; line <= opts.LinesPerFolio; line++ {
			for pos := 0; pos < opts.TokensPerLine; pos++ {
				word := synthesizeWord(rng, opts, language, section, pos, opts.TokensPerLine)
				tokens = append(tokens, corpus.Token{
					Word:        word,
					Folio:       folio,
					Line:        line,
					Section:     section,
					Language:    language,
					Placement:   "P",
					Transcriber: "H",
					ParInitial:  line == 1 && pos == 0,
					ParFinal:    line == opts.LinesPerFolio && pos == opts.TokensPerLine-1,
				})
			}
		}
	}

	return corpus.New(tokens)
}

func synthesizeWord(rng *rand.Rand, opts Options, language corpus.Language, section corpus.Section, pos, lineLen int) string {
	prefix := prefixes[rng.Intn(len(prefixes))]

	if opts.PositionalEffect && pos == 0 && rng.Float64() < 0.6 {
		prefix = "da"
	}
	if opts.LanguageContrast && language == corpus.CurrierB && rng.Float64() < 0.5 {
		prefix = "qo"
	}

	suffix := suffixes[rng.Intn(len(suffixes))]
	if opts.PrefixSuffixCouple && prefix == "qo" && rng.Float64() < 0.7 {
		suffix = "dy"
	}

	middlePool := middlesShort
	longBias := 0.2
	if opts.LanguageContrast && language == corpus.CurrierB {
		longBias = 0.6
	}
	if opts.SectionLengthSkew && section.IsAZC() {
		longBias = 0.05
	}
	if rng.Float64() < longBias {
		middlePool = middlesLong
	}
	middle := middlePool[rng.Intn(len(middlePool))]

	return prefix + middle + suffix
}

func folioID(i int) string {
	side := "r"
	if i%2 == 1 {
		side = "v"
	}
	return "f" + strconv.Itoa(i/2+1) + side
}

// RegimeMap derives a folio->regime cache aligned with the planted language
// contrast, mimicking the output of an earlier clustering run.
func RegimeMap(c *corpus.Corpus) map[string]string {
	regimes := make(map[string]string)
	for folio, toks := range c.ByFolio() {
		switch toks[0].Language {
		case corpus.CurrierA:
			regimes[folio] = "regime-1"
		case corpus.CurrierB:
			regimes[folio] = "regime-2"
		default:
			regimes[folio] = "regime-3"
		}
	}
	return regimes
}

// ClassMap derives a word->class cache from first letters, mimicking a
// token-role classification produced by an earlier run.
func ClassMap(c *corpus.Corpus) map[string]string {
	classes := make(map[string]string)
	for _, tok := range c.Tokens() {
		if _, ok := classes[tok.Word]; ok {
			continue
		}
		switch tok.Word[0] {
		case 'q':
			classes[tok.Word] = "connector"
		case 'd', 's':
			classes[tok.Word] = "opener"
		default:
			classes[tok.Word] = "content"
		}
	}
	return classes
}
