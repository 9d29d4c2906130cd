// internal/validate/semantic.go
package validate

import (
	"fmt"
	"regexp"

	"github.com/calder/rulecanvas/internal/catalog"
	"github.com/calder/rulecanvas/internal/tree"
	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Semantic validation layer.
 *
 * Checks meaning beyond shape: operand and return-type compatibility inside
 * expression groups, operator validity for the combined type, and
 * referential validity of field, function and ruleRef expressions against
 * the external catalog.
 *
 * The layer walks the same parsed JSON as the structural layer but tolerates
 * structural damage: nodes missing required pieces are skipped silently here
 * because the structural layer already reported them. A length-1 expression
 * group is transparent to type checking - it is never flagged for being
 * wrapped.
 *
 * Type inference is conservative: unresolved references and empty draft
 * slots infer as "" (unknown) and suppress follow-on mismatch errors, so one
 * root cause produces one error.
 */

// numberedName matches the "<Label> N" / "<Label> N.M" naming convention.
var numberedName = regexp.MustCompile(`^\S.* \d+(\.\d+)*$`)

type semanticValidator struct {
	opts Options
	cat  catalog.Provider
	errs []Error
}

func (v *semanticValidator) report(t ErrorType, path, format string, args ...any) {
	v.errs = append(v.errs, Error{Type: t, Path: path, Message: fmt.Sprintf(format, args...)})
}

// checkDocument cross-checks the document header against the structure and
// descends into the structure tree.
func (v *semanticValidator) checkDocument(doc map[string]any) {
	structure, ok := doc["structure"].(map[string]any)
	if !ok {
		return
	}
	tag, ok := nodeTag(structure)
	if !ok || !structureTags[tag] {
		return
	}

	docReturn := types.ValueType("")
	if s, ok := rawString(doc, "returnType"); ok && types.KnownValueType(s) {
		docReturn = types.ValueType(s)
	}

	if rt, ok := rawString(doc, "ruleType"); ok && knownRuleType(rt) {
		if want := structureTagFor(types.RuleType(rt)); want != tag {
			v.report(ShapeMismatch, "structure", "rule type %q expects a %s structure, got %s", rt, want, tag)
		}
	}

	path := tree.Key(tag, 0)
	switch tag {
	case types.NodeConditionGroup:
		if docReturn != "" && !compatible(docReturn, types.ValueBoolean) {
			v.report(TypeMismatch, "returnType", "decision rules return boolean, document declares %q", docReturn)
		}
		v.checkConditionGroup(structure, path)
	case types.NodeExpressionGroup:
		got := v.checkExpressionGroup(structure, path)
		if docReturn != "" && !compatible(docReturn, got) {
			v.report(TypeMismatch, "returnType", "document declares %q but structure produces %q", docReturn, got)
		}
	case types.NodeCase:
		v.checkCaseBlock(structure, path, docReturn)
	}
}

func (v *semanticValidator) checkConditionGroup(node map[string]any, path string) {
	v.checkNameConvention(node, path)
	for i, child := range rawSlice(node, "conditions") {
		childMap, ok := child.(map[string]any)
		if !ok {
			continue
		}
		switch tag, _ := nodeTag(childMap); tag {
		case types.NodeCondition:
			v.checkCondition(childMap, tree.Child(path, types.NodeCondition, i))
		case types.NodeConditionGroup:
			v.checkConditionGroup(childMap, tree.Child(path, types.NodeConditionGroup, i))
		}
	}
}

func (v *semanticValidator) checkCondition(node map[string]any, path string) {
	v.checkNameConvention(node, path)

	var left, right types.ValueType
	if m, ok := node["left"].(map[string]any); ok && isTag(m, types.NodeExpressionGroup) {
		left = v.checkExpressionGroup(m, tree.Child(path, types.NodeExpressionGroup, 0))
	}
	if m, ok := node["right"].(map[string]any); ok && isTag(m, types.NodeExpressionGroup) {
		right = v.checkExpressionGroup(m, tree.Child(path, types.NodeExpressionGroup, 1))
	}

	opStr, ok := rawString(node, "operator")
	if !ok {
		return
	}
	class, known := compareDomain(types.CompareOp(opStr))
	if !known {
		v.report(InvalidOperator, path+".operator", "unknown comparison operator %q", opStr)
		return
	}
	switch class {
	case classEquality:
		if !compatible(left, right) {
			v.report(TypeMismatch, path, "cannot compare %q with %q", left, right)
		}
	case classOrdering:
		if left != "" && !orderable(left) || right != "" && !orderable(right) {
			v.report(TypeMismatch, path, "operator %q requires number or date operands, got %q and %q", opStr, left, right)
		} else if !compatible(left, right) {
			v.report(TypeMismatch, path, "cannot compare %q with %q", left, right)
		}
	case classText:
		if left != "" && !compatible(left, types.ValueText) || right != "" && !compatible(right, types.ValueText) {
			v.report(TypeMismatch, path, "operator %q requires text operands, got %q and %q", opStr, left, right)
		}
	}
}

// checkExpressionGroup infers the group's combined type, reports operator
// and operand mismatches, and checks the declared returnType. Returns the
// resolved type ("" when unknown).
func (v *semanticValidator) checkExpressionGroup(node map[string]any, path string) types.ValueType {
	declared := types.ValueType("")
	if s, ok := rawString(node, "returnType"); ok && types.KnownValueType(s) {
		declared = types.ValueType(s)
	}

	exprs := rawSlice(node, "expressions")
	if len(exprs) == 0 {
		return declared
	}

	operands := make([]types.ValueType, 0, len(exprs))
	for i, child := range exprs {
		childMap, ok := child.(map[string]any)
		if !ok {
			operands = append(operands, "")
			continue
		}
		operands = append(operands, v.typeOfExpression(childMap, tree.Child(path, types.NodeExpression, i)))
	}

	// A group of length 1 is its sole expression; the wrapper itself is
	// never an error.
	if len(exprs) == 1 {
		got := operands[0]
		if declared != "" && got != "" && !compatible(declared, got) {
			v.report(TypeMismatch, path, "declared return type %q but expression is %q", declared, got)
		}
		return resolve(declared, got)
	}

	ops := rawSlice(node, "operators")
	combined := operands[0]
	mismatch := false
	for i, op := range ops {
		opStr, _ := op.(string)
		domain, known := arithDomain(types.ArithOp(opStr))
		if !known {
			v.report(InvalidOperator, path+".operators", "unknown operator %q", opStr)
			combined = ""
			continue
		}
		if !mismatch && !compatible(combined, domain) {
			v.report(TypeMismatch, path, "operator %q requires %s operands, got %q", opStr, domain, combined)
			mismatch = true
		}
		if i+1 < len(operands) && !mismatch && !compatible(operands[i+1], domain) {
			v.report(TypeMismatch, path, "operator %q requires %s operands, got %q", opStr, domain, operands[i+1])
			mismatch = true
		}
		combined = domain
	}

	if declared != "" && combined != "" && !compatible(declared, combined) {
		v.report(TypeMismatch, path, "declared return type %q but operators produce %q", declared, combined)
	}
	return resolve(declared, combined)
}

// typeOfExpression resolves a leaf expression's type, reporting unresolved
// references and literal/declared mismatches.
func (v *semanticValidator) typeOfExpression(node map[string]any, path string) types.ValueType {
	kind, _ := rawString(node, "exprType")
	switch types.ExprKind(kind) {
	case types.ExprValue:
		m, ok := node["value"].(map[string]any)
		if !ok {
			return ""
		}
		declared := types.ValueType("")
		if s, ok := rawString(m, "type"); ok && types.KnownValueType(s) {
			declared = types.ValueType(s)
		}
		if data, present := m["data"]; present && data != nil && declared != "" {
			got := literalType(data)
			// String literals satisfy both text and date.
			dateAsText := declared == types.ValueDate && got == types.ValueText
			if got != "" && !dateAsText && !compatible(declared, got) {
				v.report(TypeMismatch, path+".value", "literal declared %q but holds a %s value", declared, got)
			}
		}
		return declared

	case types.ExprField:
		name, ok := rawString(node, "field")
		if !ok || name == "" {
			return ""
		}
		f, found := v.cat.Field(name)
		if !found {
			v.report(UnresolvedReference, path+".field", "unknown field %q", name)
			return ""
		}
		return f.Type

	case types.ExprFunction:
		m, ok := node["function"].(map[string]any)
		if !ok {
			return ""
		}
		name, _ := rawString(m, "name")
		args := rawSlice(m, "args")
		sig, found := catalog.Signature{}, false
		if name != "" {
			sig, found = v.cat.Function(name)
			if !found {
				v.report(UnresolvedReference, path+".function", "unknown function %q", name)
			}
		}
		if found && len(args) != len(sig.Args) {
			v.report(TypeMismatch, path+".function", "function %q takes %d arguments, got %d", name, len(sig.Args), len(args))
		}
		for i, arg := range args {
			argMap, ok := arg.(map[string]any)
			if !ok || !isTag(argMap, types.NodeExpressionGroup) {
				continue
			}
			argPath := tree.Child(path, types.NodeExpressionGroup, i)
			got := v.checkExpressionGroup(argMap, argPath)
			if found && i < len(sig.Args) && got != "" && !compatible(got, sig.Args[i]) {
				v.report(TypeMismatch, argPath, "function %q argument %d expects %q, got %q", name, i+1, sig.Args[i], got)
			}
		}
		if !found {
			return ""
		}
		return sig.ReturnType

	case types.ExprRuleRef:
		m, ok := node["ruleRef"].(map[string]any)
		if !ok {
			return ""
		}
		id, _ := rawString(m, "id")
		if id == "" {
			return ""
		}
		ref, found := v.cat.Rule(id)
		if !found {
			v.report(UnresolvedReference, path+".ruleRef", "unknown rule %q", id)
			return ""
		}
		if u, ok := rawString(m, "uuid"); ok && ref.UUID != "" && u != ref.UUID {
			v.report(UnresolvedReference, path+".ruleRef.uuid", "rule %q resolves to uuid %s, reference carries %s", id, ref.UUID, u)
		}
		if ver, ok := rawString(m, "version"); ok && ref.Version != "" && ver != ref.Version {
			v.report(UnresolvedReference, path+".ruleRef.version", "rule %q resolves to version %s, reference carries %s", id, ref.Version, ver)
		}
		return ref.ReturnType
	}
	return ""
}

func (v *semanticValidator) checkCaseBlock(node map[string]any, path string, docReturn types.ValueType) {
	whens := rawSlice(node, "whens")
	seen := make(map[string]bool, len(whens))
	for i, child := range whens {
		childMap, ok := child.(map[string]any)
		if !ok || !isTag(childMap, types.NodeWhen) {
			continue
		}
		whenPath := tree.Child(path, types.NodeWhen, i)

		if name, ok := rawString(childMap, "resultName"); ok && name != "" && v.opts.Strict {
			if seen[name] {
				v.report(ShapeMismatch, whenPath+".resultName", "duplicate result name %q", name)
			}
			seen[name] = true
		}

		if m, ok := childMap["when"].(map[string]any); ok && isTag(m, types.NodeConditionGroup) {
			v.checkConditionGroup(m, tree.Child(whenPath, types.NodeConditionGroup, 0))
		}
		if m, ok := childMap["then"].(map[string]any); ok && isTag(m, types.NodeExpressionGroup) {
			thenPath := tree.Child(whenPath, types.NodeExpressionGroup, 1)
			got := v.checkExpressionGroup(m, thenPath)
			if docReturn != "" && got != "" && !compatible(docReturn, got) {
				v.report(TypeMismatch, thenPath, "branch produces %q but document declares %q", got, docReturn)
			}
		}
	}
	if m, ok := node["else"].(map[string]any); ok && isTag(m, types.NodeExpressionGroup) {
		elsePath := tree.Child(path, types.NodeExpressionGroup, len(whens))
		got := v.checkExpressionGroup(m, elsePath)
		if docReturn != "" && got != "" && !compatible(docReturn, got) {
			v.report(TypeMismatch, elsePath, "else produces %q but document declares %q", got, docReturn)
		}
	}
}

// checkNameConvention is advisory; strict mode promotes it to an error.
// The root container carries no number by convention and is skipped.
func (v *semanticValidator) checkNameConvention(node map[string]any, path string) {
	if !v.opts.Strict || tree.Depth(path) <= 1 {
		return
	}
	name, ok := rawString(node, "name")
	if !ok || name == "" {
		return
	}
	if !numberedName.MatchString(name) {
		v.report(ShapeMismatch, path+".name", "name %q does not follow the numbered naming convention", name)
	}
}

// literalType maps a decoded JSON value to the value type it carries on the
// wire. Strings infer as text; the caller accepts them for date as well.
func literalType(data any) types.ValueType {
	switch data.(type) {
	case bool:
		return types.ValueBoolean
	case float64:
		return types.ValueNumber
	case string:
		return types.ValueText
	default:
		return ""
	}
}

// resolve prefers a concrete inferred type over the declared one.
func resolve(declared, got types.ValueType) types.ValueType {
	if got == "" || got == types.ValueAny {
		if declared != "" {
			return declared
		}
	}
	return got
}

// structureTagFor maps a rule type to the structure node kind it requires.
func structureTagFor(rt types.RuleType) types.NodeType {
	switch rt {
	case types.RuleExpression:
		return types.NodeExpressionGroup
	case types.RuleCase:
		return types.NodeCase
	default:
		return types.NodeConditionGroup
	}
}

func isTag(m map[string]any, want types.NodeType) bool {
	tag, _ := nodeTag(m)
	return tag == want
}
