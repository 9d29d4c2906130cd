// internal/validate/operators.go
package validate

import (
	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Operator domain tables.
 *
 * Maps each operator to the value-type domain it is defined over. The
 * semantic layer consults these tables instead of hard-coding per-operator
 * switches in the tree walk.
 *
 * Arithmetic operators are defined over numbers only; concat over text.
 * Comparison operators fall into three classes: equality (any compatible
 * pair), ordering (numbers and dates) and text matching.
 */

// compareClass groups comparison operators by the operand domain they
// require.
type compareClass int

const (
	classEquality compareClass = iota
	classOrdering
	classText
)

// arithDomain returns the operand/result type an expression-group operator
// is defined over. ok is false for unknown operators.
func arithDomain(op types.ArithOp) (types.ValueType, bool) {
	switch op {
	case types.OpAdd, types.OpSubtract, types.OpMultiply, types.OpDivide, types.OpModulo:
		return types.ValueNumber, true
	case types.OpConcat:
		return types.ValueText, true
	default:
		return "", false
	}
}

// compareDomain classifies a condition operator. ok is false for unknown
// operators.
func compareDomain(op types.CompareOp) (compareClass, bool) {
	switch op {
	case types.OpEq, types.OpNeq:
		return classEquality, true
	case types.OpLt, types.OpLte, types.OpGt, types.OpGte:
		return classOrdering, true
	case types.OpContains, types.OpStartsWith, types.OpEndsWith:
		return classText, true
	default:
		return 0, false
	}
}

// orderable reports whether ordering comparisons are defined for t.
func orderable(t types.ValueType) bool {
	return t == types.ValueNumber || t == types.ValueDate || t == types.ValueAny
}

// compatible reports whether two operand types may meet in a comparison or
// combination. ValueAny is compatible with everything; unresolved types
// (empty string) never produce a second error here.
func compatible(a, b types.ValueType) bool {
	if a == "" || b == "" {
		return true
	}
	if a == types.ValueAny || b == types.ValueAny {
		return true
	}
	return a == b
}
