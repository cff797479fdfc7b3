// Package morph segments transcribed tokens into prefix, middle and suffix
// substrings by greedy longest-match stripping against fixed affix tables.
package morph

import (
	"sort"
	"strings"
)

// Decomposition is the (prefix, middle, suffix) split of a single token.
// Prefix and Suffix are empty when no listed affix matched; Middle is never
// empty for a non-empty token.
type Decomposition struct {
	Prefix string `json:"prefix"`
	Middle string `json:"middle"`
	Suffix string `json:"suffix"`
}

// HasPrefix reports whether a listed prefix was stripped.
func (d Decomposition) HasPrefix() bool { return d.Prefix != "" }

// HasSuffix reports whether a listed suffix was stripped.
func (d Decomposition) HasSuffix() bool { return d.Suffix != "" }

// IsSegmented reports whether any affix matched at all.
func (d Decomposition) IsSegmented() bool { return d.HasPrefix() || d.HasSuffix() }

// Decomposer strips affixes from tokens using fixed inventories.
type Decomposer struct {
	prefixes []string // sorted longest-first
	suffixes []string // sorted longest-first
}

// NewDecomposer builds a decomposer with the default EVA affix tables.
func NewDecomposer() *Decomposer {
	return NewDecomposerWithTables(defaultPrefixes, defaultSuffixes)
}

// NewDecomposerWithTables builds a decomposer with caller-supplied affix
// inventories. Tables are copied and ordered longest-first so greedy
// matching is independent of input order.
func NewDecomposerWithTables(prefixes, suffixes []string) *Decomposer {
	d := &Decomposer{
		prefixes: append([]string(nil), prefixes...),
		suffixes: append([]string(nil), suffixes...),
	}
	longestFirst(d.prefixes)
	longestFirst(d.suffixes)
	return d
}

func longestFirst(affixes []string) {
	sort.SliceStable(affixes, func(i, j int) bool {
		if len(affixes[i]) != len(affixes[j]) {
			return len(affixes[i]) > len(affixes[j])
		}
		return affixes[i] < affixes[j]
	})
}

// Decompose splits word into prefix, middle, suffix. The longest listed
// prefix that leaves at least one character is stripped first, then the
// longest listed suffix that leaves at least one character of middle.
// A word matching no affix comes back whole as the middle.
func (d *Decomposer) Decompose(word string) Decomposition {
	if word == "" {
		return Decomposition{}
	}

	rest := word
	dec := Decomposition{}

	for _, p := range d.prefixes {
		if len(p) < len(rest) && strings.HasPrefix(rest, p) {
			dec.Prefix = p
			rest = rest[len(p):]
			break
		}
	}

	for _, s := range d.suffixes {
		if len(s) < len(rest) && strings.HasSuffix(rest, s) {
			dec.Suffix = s
			rest = rest[:len(rest)-len(s)]
			break
		}
	}

	dec.Middle = rest
	return dec
}

// DecomposeAll decomposes every word, preserving order.
func (d *Decomposer) DecomposeAll(words []string) []Decomposition {
	out := make([]Decomposition, len(words))
	for i, w := range words {
		out[i] = d.Decompose(w)
	}
	return out
}

// Prefixes returns the prefix inventory, longest-first.
func (d *Decomposer) Prefixes() []string {
	return append([]string(nil), d.prefixes...)
}

// Suffixes returns the suffix inventory, longest-first.
func (d *Decomposer) Suffixes() []string {
	return append([]string(nil), d.suffixes...)
}
