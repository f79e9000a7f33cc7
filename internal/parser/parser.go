// Package parser streams drug-label documents out of a large JSON label
// file. The file is a single top-level array; the parser decodes it
// token-by-token so one document at a time is in memory, never the
// whole collection.
package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pharmadex/labelseed/internal/core/domain"
	"github.com/pharmadex/labelseed/internal/core/ports/driven"
	"github.com/pharmadex/labelseed/internal/logger"
)

// Ensure Parser implements the interface.
var _ driven.LabelSource = (*Parser)(nil)

// clinicalFields is the admission-filter field set: a document's label must
// carry at least one of these to be worth transforming.
var clinicalFields = []string{
	"indicationsAndUsage",
	"dosageAndAdministration",
	"warningsAndPrecautions",
	"adverseReactions",
}

// Parser streams RawLabel documents from a label file.
type Parser struct {
	path string
}

// Open creates a parser for the given label file.
// Returns domain.ErrInputNotFound if the file does not exist.
func Open(path string) (*Parser, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat label file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInputNotFound, path)
	}

	return &Parser{path: path}, nil
}

// Documents streams admissible documents from the file. Documents failing
// the admission filter are dropped with a diagnostic, not surfaced as
// errors. A malformed byte stream aborts the whole sequence with
// domain.ErrMalformedInput; there is no partial-document recovery.
func (p *Parser) Documents(ctx context.Context) (<-chan domain.RawLabel, <-chan error) {
	docsCh := make(chan domain.RawLabel)
	errsCh := make(chan error, 1)

	go func() {
		defer close(docsCh)
		defer close(errsCh)

		file, err := os.Open(p.path)
		if err != nil {
			errsCh <- fmt.Errorf("opening label file: %w", err)
			return
		}
		defer file.Close()

		dec := json.NewDecoder(file)
		if err := expectArrayStart(dec); err != nil {
			errsCh <- err
			return
		}

		for dec.More() {
			var raw domain.RawLabel
			if err := dec.Decode(&raw); err != nil {
				errsCh <- fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
				return
			}

			if !admissible(raw) {
				logger.Debug("Skipping invalid drug record: %v", nameOf(raw))
				continue
			}

			select {
			case docsCh <- raw:
			case <-ctx.Done():
				return
			}
		}
	}()

	return docsCh, errsCh
}

// Count makes a full pass over the file and returns the total document
// count, admissible or not. Document bodies are decoded transiently and
// discarded.
func (p *Parser) Count(ctx context.Context) (int, error) {
	file, err := os.Open(p.path)
	if err != nil {
		return 0, fmt.Errorf("opening label file: %w", err)
	}
	defer file.Close()

	dec := json.NewDecoder(file)
	if err := expectArrayStart(dec); err != nil {
		return 0, err
	}

	count := 0
	for dec.More() {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return count, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
		count++
	}

	return count, nil
}

// expectArrayStart consumes the opening '[' of the top-level array.
func expectArrayStart(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("%w: empty input", domain.ErrMalformedInput)
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("%w: expected top-level array, got %v", domain.ErrMalformedInput, tok)
	}
	return nil
}

// admissible checks the minimum field set: a drug name, a labeler, and a
// label mapping with at least one clinical content field.
func admissible(raw domain.RawLabel) bool {
	if !hasValue(raw["drugName"]) || !hasValue(raw["labeler"]) {
		return false
	}

	label := raw.Label()
	if label == nil {
		return false
	}

	for _, field := range clinicalFields {
		if hasValue(label[field]) {
			return true
		}
	}
	return false
}

// hasValue reports whether a decoded JSON value is non-empty.
func hasValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case map[string]any:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case bool:
		return val
	default:
		return true
	}
}

// nameOf extracts a display name for diagnostics.
func nameOf(raw domain.RawLabel) any {
	if name, ok := raw["drugName"]; ok && hasValue(name) {
		return name
	}
	return "Unknown"
}
