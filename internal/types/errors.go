package types

import "errors"

// Sentinel errors for rulecanvas model operations.
//
// These signal contract violations (programmer error or unparseable input at
// the model boundary). Data-quality problems in a document never surface as
// Go errors; the validation engine reports them as addressed entries in its
// result instead.
var (
	// ErrUnknownNodeType indicates a nodeType tag outside the closed variant set.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrUnknownExprKind indicates an exprType tag outside the expression kinds.
	ErrUnknownExprKind = errors.New("unknown expression kind")

	// ErrNotAStructure indicates a node kind not allowed at the document root.
	ErrNotAStructure = errors.New("node kind not allowed as document structure")

	// ErrNotAConditionNode indicates a node kind not allowed inside a condition group.
	ErrNotAConditionNode = errors.New("node kind not allowed in a condition group")

	// ErrNilNode indicates a nil node passed where a node is required.
	ErrNilNode = errors.New("nil node")

	// ErrMalformedPath indicates a path key that does not parse as
	// alternating type-tag/index tokens.
	ErrMalformedPath = errors.New("malformed path key")
)
