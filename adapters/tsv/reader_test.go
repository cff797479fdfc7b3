package tsv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voynstat/domain/core"
	"voynstat/domain/corpus"
)

const sampleTranscription = "word\tfolio\tline\tsection\tlanguage\tplacement\ttranscriber\tpar_initial\tpar_final\n" +
	"daiin\tf1r\t1\tH\tA\tP\tH\t1\t0\n" +
	"qokedy\tf1r\t1\tH\tA\tP\tH\t0\t0\n" +
	"\tf1r\t2\tH\tA\tP\tH\t0\t0\n" +
	"shedy\tf75r\t1\tB\tB\tP\tH\t0\t1\n"

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transcription.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReader_ParsesTranscription(t *testing.T) {
	path := writeTemp(t, sampleTranscription)
	c, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The blank word row is skipped
	if c.Len() != 3 {
		t.Fatalf("expected 3 tokens, got %d", c.Len())
	}

	first := c.Tokens()[0]
	if first.Word != "daiin" || first.Folio != "f1r" || first.Line != 1 {
		t.Errorf("first token parsed wrong: %+v", first)
	}
	if !first.ParInitial || first.ParFinal {
		t.Errorf("paragraph flags parsed wrong: %+v", first)
	}
	if first.Language != corpus.CurrierA {
		t.Errorf("expected Currier A, got %s", first.Language)
	}

	last := c.Tokens()[2]
	if last.Section != corpus.SectionBiological || !last.ParFinal {
		t.Errorf("last token parsed wrong: %+v", last)
	}
}

func TestReader_IgnoresExtraColumns(t *testing.T) {
	content := "word\tfolio\tline\tsection\tlanguage\tplacement\ttranscriber\textra_col\n" +
		"daiin\tf1r\t1\tH\tA\tP\tH\tsomething\n"
	path := writeTemp(t, content)
	c, err := NewReader(path).Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 token, got %d", c.Len())
	}
	// Optional paragraph flags default to false when absent
	if c.Tokens()[0].ParInitial {
		t.Error("par_initial should default to false")
	}
}

func TestReader_MissingColumn(t *testing.T) {
	content := "word\tfolio\tline\n" + "daiin\tf1r\t1\n"
	path := writeTemp(t, content)
	_, err := NewReader(path).Read()
	if !errors.Is(err, core.ErrColumnMissing) {
		t.Errorf("expected ErrColumnMissing, got %v", err)
	}
}

func TestReader_BadLineNumber(t *testing.T) {
	content := "word\tfolio\tline\tsection\tlanguage\tplacement\ttranscriber\n" +
		"daiin\tf1r\tnot-a-number\tH\tA\tP\tH\n"
	path := writeTemp(t, content)
	_, err := NewReader(path).Read()
	if !errors.Is(err, core.ErrBadRecord) {
		t.Errorf("expected ErrBadRecord, got %v", err)
	}
}

func TestReader_EmptyCorpus(t *testing.T) {
	content := "word\tfolio\tline\tsection\tlanguage\tplacement\ttranscriber\n"
	path := writeTemp(t, content)
	_, err := NewReader(path).Read()
	if !errors.Is(err, core.ErrEmptyCorpus) {
		t.Errorf("expected ErrEmptyCorpus, got %v", err)
	}
}

func TestReader_MissingFile(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.tsv")).Read()
	if err == nil {
		t.Error("expected error for missing file")
	}
}
