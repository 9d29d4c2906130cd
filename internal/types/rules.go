// internal/types/rules.go
package types

import (
	"encoding/json"
	"fmt"
)

/*
 * Node variants of the rule tree.
 *
 * Provides the closed tagged-union node set used by the naming, expansion
 * and validation engines. Each variant is a plain struct; Node/ConditionNode/
 * Structure are marker interfaces so containers can hold the permitted
 * subsets without class-hierarchy polymorphism.
 *
 * Key types:
 *   - Condition: left/right expression groups joined by a comparison operator
 *   - ConditionGroup: and/or (optionally negated) list of conditions/groups
 *   - Expression: leaf operand (value, field, function or ruleRef payload)
 *   - ExpressionGroup: operand list combined left-to-right by operators
 *   - WhenClause / CaseBlock: case-style branching
 *
 * Wire format: every node is a JSON object carrying a "nodeType" tag;
 * expressions carry an "exprType" tag. Nodes are owned exclusively by their
 * parent; cross-rule references are values (id/uuid/version), never pointers.
 */

// Node is implemented by every node variant.
type Node interface {
	NodeType() NodeType
}

// ConditionNode is a node allowed inside a condition group:
// Condition or ConditionGroup.
type ConditionNode interface {
	Node
	isConditionNode()
}

// Structure is a node allowed at the top of a document:
// ConditionGroup, ExpressionGroup or CaseBlock.
type Structure interface {
	Node
	isStructure()
}

// Condition compares two expression groups. Its return type is always
// boolean.
type Condition struct {
	Name     string           `json:"name"`
	Left     *ExpressionGroup `json:"left"`
	Operator CompareOp        `json:"operator"`
	Right    *ExpressionGroup `json:"right"`
}

func (*Condition) NodeType() NodeType { return NodeCondition }
func (*Condition) isConditionNode()   {}

// ConditionGroup combines child conditions with a single conjunction.
// Not negates the combined result.
type ConditionGroup struct {
	Name        string          `json:"name"`
	Conjunction Conjunction     `json:"conjunction"`
	Not         bool            `json:"not"`
	Conditions  []ConditionNode `json:"conditions"`
}

func (*ConditionGroup) NodeType() NodeType { return NodeConditionGroup }
func (*ConditionGroup) isConditionNode()   {}
func (*ConditionGroup) isStructure()       {}

// LiteralValue is the payload of a value expression.
type LiteralValue struct {
	Type ValueType `json:"type"`
	Data any       `json:"data"`
}

// FunctionCall is the payload of a function expression. Args are full
// expression groups so nested arithmetic can appear in argument position.
type FunctionCall struct {
	Name string             `json:"name"`
	Args []*ExpressionGroup `json:"args"`
}

// RuleRef is the payload of a rule-reference expression. It is a value
// reference resolved against the external catalog, never a live pointer.
type RuleRef struct {
	ID      string `json:"id"`
	UUID    string `json:"uuid"`
	Version string `json:"version"`
}

// Expression is a leaf operand. Exactly one payload field is set, matching
// Kind.
type Expression struct {
	Kind     ExprKind      `json:"exprType"`
	Value    *LiteralValue `json:"value,omitempty"`
	Field    string        `json:"field,omitempty"`
	Function *FunctionCall `json:"function,omitempty"`
	RuleRef  *RuleRef      `json:"ruleRef,omitempty"`
}

func (*Expression) NodeType() NodeType { return NodeExpression }

// ExpressionGroup combines expressions left to right with the operator list.
// Invariant: len(Operators) == len(Expressions)-1 once finalized. A group of
// length 1 is semantically equivalent to its sole expression.
type ExpressionGroup struct {
	ReturnType  ValueType     `json:"returnType"`
	Expressions []*Expression `json:"expressions"`
	Operators   []ArithOp     `json:"operators"`
}

func (*ExpressionGroup) NodeType() NodeType { return NodeExpressionGroup }
func (*ExpressionGroup) isStructure()       {}

// WhenClause is a single case branch: when the condition group holds, the
// then group is the result.
type WhenClause struct {
	ResultName string           `json:"resultName"`
	When       *ConditionGroup  `json:"when"`
	Then       *ExpressionGroup `json:"then"`
}

func (*WhenClause) NodeType() NodeType { return NodeWhen }

// CaseBlock is the container of case-style rules: ordered when clauses plus
// an optional else result.
type CaseBlock struct {
	Whens []*WhenClause    `json:"whens"`
	Else  *ExpressionGroup `json:"else,omitempty"`
}

func (*CaseBlock) NodeType() NodeType { return NodeCase }
func (*CaseBlock) isStructure()       {}

// MarshalJSON implementations inject the nodeType tag. The alias type drops
// the custom marshaler to avoid recursion.

func (c *Condition) MarshalJSON() ([]byte, error) {
	type alias Condition
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeCondition, (*alias)(c)})
}

func (g *ConditionGroup) MarshalJSON() ([]byte, error) {
	type alias ConditionGroup
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeConditionGroup, (*alias)(g)})
}

func (e *Expression) MarshalJSON() ([]byte, error) {
	type alias Expression
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeExpression, (*alias)(e)})
}

func (g *ExpressionGroup) MarshalJSON() ([]byte, error) {
	type alias ExpressionGroup
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeExpressionGroup, (*alias)(g)})
}

func (w *WhenClause) MarshalJSON() ([]byte, error) {
	type alias WhenClause
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeWhen, (*alias)(w)})
}

func (c *CaseBlock) MarshalJSON() ([]byte, error) {
	type alias CaseBlock
	return json.Marshal(struct {
		NodeType NodeType `json:"nodeType"`
		*alias
	}{NodeCase, (*alias)(c)})
}

// UnmarshalJSON decodes the polymorphic child list of a condition group.
func (g *ConditionGroup) UnmarshalJSON(data []byte) error {
	type alias ConditionGroup
	aux := struct {
		Conditions []json.RawMessage `json:"conditions"`
		*alias
	}{alias: (*alias)(g)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	g.Conditions = make([]ConditionNode, 0, len(aux.Conditions))
	for i, raw := range aux.Conditions {
		node, err := UnmarshalNode(raw)
		if err != nil {
			return fmt.Errorf("conditions[%d]: %w", i, err)
		}
		cn, ok := node.(ConditionNode)
		if !ok {
			return fmt.Errorf("conditions[%d]: %w", i, ErrNotAConditionNode)
		}
		g.Conditions = append(g.Conditions, cn)
	}
	return nil
}

// UnmarshalNode decodes a node of any kind by its nodeType tag.
func UnmarshalNode(data []byte) (Node, error) {
	var probe struct {
		NodeType NodeType `json:"nodeType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	switch probe.NodeType {
	case NodeCondition:
		n := &Condition{}
		type alias Condition
		if err := json.Unmarshal(data, (*alias)(n)); err != nil {
			return nil, err
		}
		return n, nil
	case NodeConditionGroup:
		n := &ConditionGroup{}
		if err := json.Unmarshal(data, n); err != nil {
			return nil, err
		}
		return n, nil
	case NodeExpression:
		n := &Expression{}
		type alias Expression
		if err := json.Unmarshal(data, (*alias)(n)); err != nil {
			return nil, err
		}
		return n, nil
	case NodeExpressionGroup:
		n := &ExpressionGroup{}
		type alias ExpressionGroup
		if err := json.Unmarshal(data, (*alias)(n)); err != nil {
			return nil, err
		}
		return n, nil
	case NodeWhen:
		n := &WhenClause{}
		type alias WhenClause
		if err := json.Unmarshal(data, (*alias)(n)); err != nil {
			return nil, err
		}
		return n, nil
	case NodeCase:
		n := &CaseBlock{}
		type alias CaseBlock
		if err := json.Unmarshal(data, (*alias)(n)); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, probe.NodeType)
	}
}
