// internal/validate/validate.go
package validate

import (
	"encoding/json"

	"github.com/calder/rulecanvas/internal/catalog"
)

/*
 * Validation engine entry point.
 *
 * Validate checks a serialized rule document against the wire contract
 * (structural layer) and against rule semantics (semantic layer) and returns
 * every problem found as an addressed, typed error. Malformed data is always
 * a reported error, never a panic or a Go error; the engine keeps walking
 * remaining siblings and subtrees after a failure so the caller can surface
 * all problems at once.
 *
 * Modes:
 *   - Strict promotes advisory checks (naming convention, duplicate case
 *     result names) to hard errors.
 *   - Draft waives completeness checks (empty child lists, empty operand
 *     slots, missing description) for documents mid-edit.
 *   - With both set, draft wins on completeness and strict wins on
 *     everything else.
 *
 * Errors are ordered structural first, then semantic, each layer in
 * document order.
 */

// ErrorType tags a validation error with its stable category.
type ErrorType string

const (
	// Structural categories.
	MissingField        ErrorType = "MISSING_FIELD"
	ShapeMismatch       ErrorType = "SHAPE_MISMATCH"
	ArrayLengthMismatch ErrorType = "ARRAY_LENGTH_MISMATCH"

	// Semantic categories.
	TypeMismatch        ErrorType = "TYPE_MISMATCH"
	InvalidOperator     ErrorType = "INVALID_OPERATOR"
	UnresolvedReference ErrorType = "UNRESOLVED_REFERENCE"
)

// Error is one addressed validation failure. Path uses the path-key scheme
// of internal/tree for tree nodes, with a ".field" suffix for field-level
// problems; document-level fields use bare dotted names ("uuid",
// "metadata.description").
type Error struct {
	Type    ErrorType `json:"type"`
	Path    string    `json:"path"`
	Message string    `json:"message"`
}

// Options select the validation mode.
type Options struct {
	Strict bool
	Draft  bool
}

// Result is the ordered, exhaustive error list of one validation pass.
type Result struct {
	Errors []Error `json:"errors"`
}

// OK reports whether the document passed with no errors.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks raw against the wire contract and rule semantics,
// resolving references through cat. A nil catalog behaves as an empty one.
func Validate(raw json.RawMessage, cat catalog.Provider, opts Options) Result {
	if cat == nil {
		cat = catalog.NewInMemory()
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return Result{Errors: []Error{{
			Type:    ShapeMismatch,
			Path:    "",
			Message: "document is not a JSON object",
		}}}
	}

	sv := &structuralValidator{opts: opts}
	sv.checkDocument(doc)

	mv := &semanticValidator{opts: opts, cat: cat}
	mv.checkDocument(doc)

	errs := make([]Error, 0, len(sv.errs)+len(mv.errs))
	errs = append(errs, sv.errs...)
	errs = append(errs, mv.errs...)
	return Result{Errors: errs}
}
