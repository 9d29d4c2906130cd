// internal/types/factory.go
package types

/*
 * Node factories.
 *
 * Every constructor returns a well-formed default, never a partially
 * initialized shape: group nodes start with one child so the non-empty
 * invariant holds from birth, and expression groups always satisfy
 * len(Operators) == len(Expressions)-1.
 *
 * The editing layer mutates nodes in place and removes them from their
 * parent's child list to destroy them; path keys are recomputed from tree
 * position, never stored on nodes.
 */

// NewExpression returns a value expression holding an untyped empty literal.
func NewExpression() *Expression {
	return &Expression{
		Kind:  ExprValue,
		Value: &LiteralValue{Type: ValueAny},
	}
}

// NewFieldExpression returns an expression referencing a catalog field.
func NewFieldExpression(field string) *Expression {
	return &Expression{Kind: ExprField, Field: field}
}

// NewFunctionExpression returns an expression calling the named function
// with empty argument slots, one group per expected argument.
func NewFunctionExpression(name string, arity int) *Expression {
	args := make([]*ExpressionGroup, arity)
	for i := range args {
		args[i] = NewExpressionGroup(ValueAny)
	}
	return &Expression{Kind: ExprFunction, Function: &FunctionCall{Name: name, Args: args}}
}

// NewRuleRefExpression returns an expression referencing another rule by
// value.
func NewRuleRefExpression(id, uuid, version string) *Expression {
	return &Expression{Kind: ExprRuleRef, RuleRef: &RuleRef{ID: id, UUID: uuid, Version: version}}
}

// NewExpressionGroup returns a group holding a single empty expression and
// no operators.
func NewExpressionGroup(returnType ValueType) *ExpressionGroup {
	return &ExpressionGroup{
		ReturnType:  returnType,
		Expressions: []*Expression{NewExpression()},
		Operators:   []ArithOp{},
	}
}

// NewCondition returns a condition comparing two empty expression groups
// for equality.
func NewCondition(name string) *Condition {
	return &Condition{
		Name:     name,
		Left:     NewExpressionGroup(ValueAny),
		Operator: OpEq,
		Right:    NewExpressionGroup(ValueAny),
	}
}

// NewConditionGroup returns an AND group holding a single default condition.
func NewConditionGroup(name string) *ConditionGroup {
	return &ConditionGroup{
		Name:        name,
		Conjunction: ConjunctionAnd,
		Conditions:  []ConditionNode{NewCondition("")},
	}
}

// NewWhenClause returns a case branch with a default condition group and an
// empty result group.
func NewWhenClause(resultName string, returnType ValueType) *WhenClause {
	return &WhenClause{
		ResultName: resultName,
		When:       NewConditionGroup(""),
		Then:       NewExpressionGroup(returnType),
	}
}

// NewCaseBlock returns a case block with one branch and an else result.
func NewCaseBlock(returnType ValueType) *CaseBlock {
	return &CaseBlock{
		Whens: []*WhenClause{NewWhenClause("", returnType)},
		Else:  NewExpressionGroup(returnType),
	}
}

// NewDocument returns a document with a fresh UUIDv7, version 1 and a
// default structure matching the rule type.
func NewDocument(ruleType RuleType, returnType ValueType) *Document {
	doc := &Document{
		ReturnType: returnType,
		RuleType:   ruleType,
		UUID:       NewDocumentUUID(),
		Version:    "1",
	}
	switch ruleType {
	case RuleExpression:
		doc.Structure = NewExpressionGroup(returnType)
	case RuleCase:
		doc.Structure = NewCaseBlock(returnType)
	default:
		doc.Structure = NewConditionGroup("")
		doc.ReturnType = ValueBoolean
	}
	return doc
}
