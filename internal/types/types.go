// Package types provides the rule document model shared across rulecanvas
// components.
//
// Zero-dependency design: types.go and rules.go use only encoding/json so the
// model can be embedded without pulling in engine code. ID utilities in
// ids.go import uuid but are isolated for selective inclusion.
//
// The node variant set is closed: Condition, ConditionGroup, Expression,
// ExpressionGroup, WhenClause and CaseBlock are the only node kinds. Engines
// dispatch on the node type tag rather than on behavior attached to the
// nodes; the model carries shape and invariants only.
package types

import "encoding/json"

// NodeType tags one of the closed set of node kinds. The tag doubles as the
// type token in path keys (see internal/tree) and as the "nodeType"
// discriminator in the wire format.
type NodeType string

const (
	NodeCondition       NodeType = "condition"
	NodeConditionGroup  NodeType = "conditionGroup"
	NodeExpression      NodeType = "expression"
	NodeExpressionGroup NodeType = "expressionGroup"
	NodeWhen            NodeType = "when"
	NodeCase            NodeType = "case"
)

// ValueType is the type domain of expression operands and rule results.
type ValueType string

const (
	ValueBoolean ValueType = "boolean"
	ValueNumber  ValueType = "number"
	ValueText    ValueType = "text"
	ValueDate    ValueType = "date"
	ValueAny     ValueType = "any"
)

// KnownValueType reports whether s is a member of the value type enum.
func KnownValueType(s string) bool {
	switch ValueType(s) {
	case ValueBoolean, ValueNumber, ValueText, ValueDate, ValueAny:
		return true
	}
	return false
}

// Conjunction combines the children of a condition group.
type Conjunction string

const (
	ConjunctionAnd Conjunction = "and"
	ConjunctionOr  Conjunction = "or"
)

// CompareOp is the comparison operator of a condition.
type CompareOp string

const (
	OpEq         CompareOp = "eq"
	OpNeq        CompareOp = "neq"
	OpLt         CompareOp = "lt"
	OpLte        CompareOp = "lte"
	OpGt         CompareOp = "gt"
	OpGte        CompareOp = "gte"
	OpContains   CompareOp = "contains"
	OpStartsWith CompareOp = "startsWith"
	OpEndsWith   CompareOp = "endsWith"
)

// ArithOp combines adjacent expressions inside an expression group,
// left to right.
type ArithOp string

const (
	OpAdd      ArithOp = "add"
	OpSubtract ArithOp = "subtract"
	OpMultiply ArithOp = "multiply"
	OpDivide   ArithOp = "divide"
	OpModulo   ArithOp = "modulo"
	OpConcat   ArithOp = "concat"
)

// RuleType classifies the top-level structure of a document.
type RuleType string

const (
	RuleDecision   RuleType = "decision"
	RuleExpression RuleType = "expression"
	RuleCase       RuleType = "case"
)

// ExprKind discriminates the payload of a leaf expression.
type ExprKind string

const (
	ExprValue    ExprKind = "value"
	ExprField    ExprKind = "field"
	ExprFunction ExprKind = "function"
	ExprRuleRef  ExprKind = "ruleRef"
)

// Resource limits enforced by the validation engine. Limits are checked at
// validation time so malformed documents cannot drive unbounded recursion.
const (
	// MaxNodeDepth bounds structure nesting during recursive walks.
	MaxNodeDepth = 32

	// MaxFunctionArgs bounds the argument list of a function expression.
	MaxFunctionArgs = 16

	// MaxGroupChildren bounds the child list of any group node.
	MaxGroupChildren = 256
)

// Metadata carries the user-facing identity of a rule document.
type Metadata struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Document is the top-level rule document. Structure holds the rule body;
// its concrete type is ConditionGroup, ExpressionGroup or CaseBlock
// depending on RuleType. This shape is the wire and storage contract.
type Document struct {
	Structure  Structure `json:"structure"`
	ReturnType ValueType `json:"returnType"`
	RuleType   RuleType  `json:"ruleType"`
	UUID       string    `json:"uuid"`
	Version    string    `json:"version"`
	Metadata   Metadata  `json:"metadata"`
	Definition string    `json:"definition"`
}

// UnmarshalJSON decodes the polymorphic structure field by its nodeType tag.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	aux := struct {
		Structure json.RawMessage `json:"structure"`
		*alias
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Structure) == 0 || string(aux.Structure) == "null" {
		d.Structure = nil
		return nil
	}
	node, err := UnmarshalNode(aux.Structure)
	if err != nil {
		return err
	}
	s, ok := node.(Structure)
	if !ok {
		return ErrNotAStructure
	}
	d.Structure = s
	return nil
}
