package corpus

import (
	"sort"
	"strings"

	"voynstat/domain/core"
)

// Corpus is the immutable token set one analysis run operates on.
// All grouping views preserve transcription order within a group.
type Corpus struct {
	tokens []Token
}

// New builds a corpus from tokens in transcription order.
func New(tokens []Token) *Corpus {
	return &Corpus{tokens: tokens}
}

// Len returns the token count.
func (c *Corpus) Len() int {
	return len(c.tokens)
}

// Tokens returns the tokens in transcription order.
// Callers must not mutate the returned slice.
func (c *Corpus) Tokens() []Token {
	return c.tokens
}

// Words returns just the word strings in transcription order.
func (c *Corpus) Words() []string {
	words := make([]string, len(c.tokens))
	for i, tok := range c.tokens {
		words[i] = tok.Word
	}
	return words
}

// ByFolio groups tokens by folio id.
func (c *Corpus) ByFolio() map[string][]Token {
	groups := make(map[string][]Token)
	for _, tok := range c.tokens {
		groups[tok.Folio] = append(groups[tok.Folio], tok)
	}
	return groups
}

// Folios returns the sorted list of folio ids present in the corpus.
func (c *Corpus) Folios() []string {
	seen := make(map[string]bool)
	var folios []string
	for _, tok := range c.tokens {
		if !seen[tok.Folio] {
			seen[tok.Folio] = true
			folios = append(folios, tok.Folio)
		}
	}
	sort.Strings(folios)
	return folios
}

// ByLine groups tokens by (folio, line).
func (c *Corpus) ByLine() map[LineKey][]Token {
	groups := make(map[LineKey][]Token)
	for _, tok := range c.tokens {
		key := LineKey{Folio: tok.Folio, Line: tok.Line}
		groups[key] = append(groups[key], tok)
	}
	return groups
}

// Lines returns the line keys sorted by folio then line number.
func (c *Corpus) Lines() []LineKey {
	groups := c.ByLine()
	keys := make([]LineKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Folio != keys[j].Folio {
			return keys[i].Folio < keys[j].Folio
		}
		return keys[i].Line < keys[j].Line
	})
	return keys
}

// BySection groups tokens by manuscript section.
func (c *Corpus) BySection() map[Section][]Token {
	groups := make(map[Section][]Token)
	for _, tok := range c.tokens {
		groups[tok.Section] = append(groups[tok.Section], tok)
	}
	return groups
}

// ByLanguage groups tokens by Currier classification.
func (c *Corpus) ByLanguage() map[Language][]Token {
	groups := make(map[Language][]Token)
	for _, tok := range c.tokens {
		groups[tok.Language] = append(groups[tok.Language], tok)
	}
	return groups
}

// AZCSplit partitions tokens into the astronomical/zodiac/cosmological group
// and everything else.
func (c *Corpus) AZCSplit() (azc, rest []Token) {
	for _, tok := range c.tokens {
		if tok.Section.IsAZC() {
			azc = append(azc, tok)
		} else {
			rest = append(rest, tok)
		}
	}
	return azc, rest
}

// Fingerprint hashes the ordered word sequence so reports can be tied to the
// exact transcription they were computed from.
func (c *Corpus) Fingerprint() core.Hash {
	return core.NewHash([]byte(strings.Join(c.Words(), " ")))
}
