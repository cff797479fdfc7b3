package corpus

import (
	"testing"
)

func testTokens() []Token {
	return []Token{
		{Word: "daiin", Folio: "f1r", Line: 1, Section: SectionHerbal, Language: CurrierA, Placement: "P", Transcriber: "H", ParInitial: true},
		{Word: "qokedy", Folio: "f1r", Line: 1, Section: SectionHerbal, Language: CurrierA, Placement: "P", Transcriber: "H"},
		{Word: "chol", Folio: "f1r", Line: 2, Section: SectionHerbal, Language: CurrierA, Placement: "P", Transcriber: "H", ParFinal: true},
		{Word: "okaiin", Folio: "f68r", Line: 1, Section: SectionAstronomical, Language: Unclassified, Placement: "L", Transcriber: "H"},
		{Word: "shedy", Folio: "f75r", Line: 1, Section: SectionBiological, Language: CurrierB, Placement: "P", Transcriber: "H"},
		{Word: "qokeedy", Folio: "f75r", Line: 1, Section: SectionBiological, Language: CurrierB, Placement: "P", Transcriber: "H"},
	}
}

func TestCorpus_Groupings(t *testing.T) {
	c := New(testTokens())

	if c.Len() != 6 {
		t.Fatalf("expected 6 tokens, got %d", c.Len())
	}

	byFolio := c.ByFolio()
	if len(byFolio["f1r"]) != 3 {
		t.Errorf("expected 3 tokens on f1r, got %d", len(byFolio["f1r"]))
	}

	folios := c.Folios()
	want := []string{"f1r", "f68r", "f75r"}
	if len(folios) != len(want) {
		t.Fatalf("expected %d folios, got %d", len(want), len(folios))
	}
	for i := range want {
		if folios[i] != want[i] {
			t.Errorf("folio %d: expected %s, got %s", i, want[i], folios[i])
		}
	}

	byLine := c.ByLine()
	if len(byLine[LineKey{Folio: "f1r", Line: 1}]) != 2 {
		t.Error("expected 2 tokens on f1r line 1")
	}

	// Order within a line must follow transcription order
	line := byLine[LineKey{Folio: "f75r", Line: 1}]
	if line[0].Word != "shedy" || line[1].Word != "qokeedy" {
		t.Errorf("line order not preserved: %v", line)
	}
}

func TestCorpus_LanguageAndSection(t *testing.T) {
	c := New(testTokens())

	byLang := c.ByLanguage()
	if len(byLang[CurrierA]) != 3 || len(byLang[CurrierB]) != 2 || len(byLang[Unclassified]) != 1 {
		t.Errorf("language split wrong: A=%d B=%d U=%d",
			len(byLang[CurrierA]), len(byLang[CurrierB]), len(byLang[Unclassified]))
	}

	azc, rest := c.AZCSplit()
	if len(azc) != 1 {
		t.Errorf("expected 1 AZC token, got %d", len(azc))
	}
	if len(rest) != 5 {
		t.Errorf("expected 5 non-AZC tokens, got %d", len(rest))
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{
		"A": CurrierA,
		"b": CurrierB,
		"":  Unclassified,
		"?": Unclassified,
	}
	for code, want := range cases {
		if got := ParseLanguage(code); got != want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", code, got, want)
		}
	}
}

func TestCorpus_FingerprintTracksContent(t *testing.T) {
	a := New(testTokens())
	b := New(testTokens())
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical corpora should share a fingerprint")
	}

	mutated := testTokens()
	mutated[0].Word = "dain"
	if a.Fingerprint() == New(mutated).Fingerprint() {
		t.Error("changing a word should change the fingerprint")
	}
}
