// Package tsv loads the tab-separated transcription file into a corpus.
package tsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"voynstat/domain/core"
	"voynstat/domain/corpus"
	apperrors "voynstat/internal/errors"
)

// Required transcription columns. Extra columns in richer interlinear
// exports are ignored; the paragraph flags are optional.
var requiredColumns = []string{"word", "folio", "line", "section", "language", "placement", "transcriber"}

// Reader loads a transcription TSV file
type Reader struct {
	path string
}

// NewReader creates a reader for the given transcription file
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Read parses the transcription into a corpus. The first row must be a
// header naming at least the required columns.
func (r *Reader) Read() (*corpus.Corpus, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, err, fmt.Sprintf("cannot open transcription %s", r.path))
	}
	defer f.Close()

	return r.parse(f)
}

func (r *Reader) parse(src io.Reader) (*corpus.Corpus, error) {
	cr := csv.NewReader(src)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, err, "cannot read transcription header")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, core.ErrColumnMissing, fmt.Sprintf("column %q", required))
		}
	}

	var tokens []corpus.Token
	rowNum := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, err, fmt.Sprintf("row %d", rowNum+1))
		}
		rowNum++

		tok, err := parseToken(record, cols)
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, err, fmt.Sprintf("row %d", rowNum))
		}
		if tok.Word == "" {
			// Blank word cells occur where transcribers disagreed; skip them.
			continue
		}
		tokens = append(tokens, tok)
	}

	if len(tokens) == 0 {
		return nil, apperrors.WithCode(apperrors.CodeCorpusLoad, core.ErrEmptyCorpus, r.path)
	}
	return corpus.New(tokens), nil
}

func parseToken(record []string, cols map[string]int) (corpus.Token, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	lineStr := field("line")
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return corpus.Token{}, fmt.Errorf("%w: line number %q", core.ErrBadRecord, lineStr)
	}

	return corpus.Token{
		Word:        field("word"),
		Folio:       field("folio"),
		Line:        line,
		Section:     corpus.Section(field("section")),
		Language:    corpus.ParseLanguage(field("language")),
		Placement:   field("placement"),
		Transcriber: field("transcriber"),
		ParInitial:  parseFlag(field("par_initial")),
		ParFinal:    parseFlag(field("par_final")),
	}, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "y", "yes":
		return true
	default:
		return false
	}
}
