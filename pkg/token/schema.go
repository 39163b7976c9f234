package token

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidDocument is returned when a token document does not match
// the token document schema.
var ErrInvalidDocument = errors.New("invalid token document")

//go:embed document.schema.json
var documentSchemaJSON string

const documentSchemaURL = "document.schema.json"

//nolint:gochecknoglobals // Compiled once on first use.
var documentSchema = sync.OnceValue(func() *jsonschema.Schema {
	return jsonschema.MustCompileString(documentSchemaURL, documentSchemaJSON)
})

// Issue is one schema violation.
type Issue struct {
	// Location is a JSON pointer into the document, "" for the root.
	Location string
	Message  string
}

// DocumentError lists every schema violation of a token document.
type DocumentError struct {
	Issues []Issue
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		loc := issue.Location
		if loc == "" {
			loc = "/"
		}
		parts = append(parts, loc+": "+issue.Message)
	}
	return ErrInvalidDocument.Error() + ": " + strings.Join(parts, "; ")
}

func (e *DocumentError) Unwrap() error {
	return ErrInvalidDocument
}

// Schema returns the JSON schema token documents are checked against.
func Schema() string {
	return documentSchemaJSON
}

// ValidateDocument checks raw JSON against the token document schema.
// Violations are reported as a *DocumentError.
func ValidateDocument(data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	err := documentSchema().Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return &DocumentError{Issues: leafIssues(verr)}
	}
	return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
}

// DecodeDocument validates data and decodes it into a Document.
func DecodeDocument(data []byte) (Document, error) {
	if err := ValidateDocument(data); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return doc, nil
}

// leafIssues flattens the cause tree to its leaves, which carry the
// specific failures.
func leafIssues(err *jsonschema.ValidationError) []Issue {
	if len(err.Causes) == 0 {
		return []Issue{{
			Location: err.InstanceLocation,
			Message:  strings.TrimSpace(err.Message),
		}}
	}

	var issues []Issue
	for _, cause := range err.Causes {
		issues = append(issues, leafIssues(cause)...)
	}
	return issues
}
