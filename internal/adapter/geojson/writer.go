// Package geojson writes the shelter feature collection to disk and checks
// that Swedish characters survived serialization.
package geojson

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
)

// maxSampleAddresses caps how many diacritic-bearing addresses the
// verification pass reports.
const maxSampleAddresses = 5

// sampleAddressRe matches the serialized adresse property when it contains
// a Swedish character. The pattern depends on the two-space indent the
// writer produces.
var sampleAddressRe = regexp.MustCompile(`"adresse": "([^"]*[åäöÅÄÖ][^"]*)"`)

// Writer serializes a shelter collection to a file. It implements
// pipeline.Loader.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// Load writes the collection pretty-printed with non-ASCII characters kept
// verbatim, then re-reads the file to confirm the encoding survived. The
// read-back is a smoke test of character encoding, not a schema validator.
func (w *Writer) Load(_ context.Context, col domain.ShelterCollection) error {
	if err := w.write(col); err != nil {
		return err
	}

	verification, err := w.Verify()
	if err != nil {
		return err
	}

	if len(verification.FoundChars) == 0 {
		w.logger.Warn("no Swedish characters found in output", "path", w.path)
	} else {
		w.logger.Info("Swedish characters preserved",
			"chars", string(verification.FoundChars),
			"sample_addresses", verification.SampleAddresses,
		)
	}

	w.logger.Info("output written",
		"path", w.path,
		"features", len(col.Features),
		"size_bytes", verification.SizeBytes,
	)
	return nil
}

func (w *Writer) write(col domain.ShelterCollection) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	enc := json.NewEncoder(f)
	// Keeps å/ä/ö (and &, <, >) as literal UTF-8 instead of \uXXXX escapes.
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(col); err != nil {
		f.Close()
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}

// Verification summarizes the read-back pass over a written file.
type Verification struct {
	FoundChars      []rune   // which of åäöÅÄÖ occur anywhere in the file
	SampleAddresses []string // up to five adresse values containing them
	SizeBytes       int64
}

// Verify re-reads the written file and scans it for Swedish characters.
func (w *Writer) Verify() (Verification, error) {
	content, err := os.ReadFile(w.path)
	if err != nil {
		return Verification{}, fmt.Errorf("re-read output file: %w", err)
	}

	v := Verification{SizeBytes: int64(len(content))}

	text := string(content)
	for _, r := range "åäöÅÄÖ" {
		if strings.ContainsRune(text, r) {
			v.FoundChars = append(v.FoundChars, r)
		}
	}

	for _, m := range sampleAddressRe.FindAllStringSubmatch(text, maxSampleAddresses) {
		v.SampleAddresses = append(v.SampleAddresses, m[1])
	}

	return v, nil
}

// ReadCollection parses a previously written output file.
func ReadCollection(path string) (domain.ShelterCollection, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ShelterCollection{}, fmt.Errorf("read collection: %w", err)
	}
	var col domain.ShelterCollection
	if err := json.Unmarshal(content, &col); err != nil {
		return domain.ShelterCollection{}, fmt.Errorf("parse collection: %w", err)
	}
	return col, nil
}
