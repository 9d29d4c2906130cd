// internal/validate/structural.go
package validate

import (
	"fmt"

	"github.com/calder/rulecanvas/internal/tree"
	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Structural validation layer.
 *
 * Checks presence and basic shape of the document fields and, recursively,
 * that every node matches one of the closed variant shapes: required keys
 * present, operator count one less than the expression count, non-empty
 * child lists. Works on the parsed JSON (maps and slices), not on live model
 * objects, so a byte stream from any source can be checked before decoding.
 *
 * Recursion is bounded by types.MaxNodeDepth; deeper nesting is reported and
 * not descended into.
 */

// structureTags is the set of node kinds allowed at the document root.
var structureTags = map[types.NodeType]bool{
	types.NodeConditionGroup:  true,
	types.NodeExpressionGroup: true,
	types.NodeCase:            true,
}

type structuralValidator struct {
	opts Options
	errs []Error
}

func (v *structuralValidator) report(t ErrorType, path, format string, args ...any) {
	v.errs = append(v.errs, Error{Type: t, Path: path, Message: fmt.Sprintf(format, args...)})
}

// checkDocument validates the top-level document shape, then descends into
// the structure tree.
func (v *structuralValidator) checkDocument(doc map[string]any) {
	v.requireString(doc, "returnType", false)
	if s, ok := rawString(doc, "returnType"); ok && !types.KnownValueType(s) {
		v.report(ShapeMismatch, "returnType", "unknown return type %q", s)
	}

	v.requireString(doc, "ruleType", false)
	if s, ok := rawString(doc, "ruleType"); ok && !knownRuleType(s) {
		v.report(ShapeMismatch, "ruleType", "unknown rule type %q", s)
	}

	v.requireString(doc, "uuid", false)
	if s, ok := rawString(doc, "uuid"); ok && !types.ValidUUID(s) {
		v.report(ShapeMismatch, "uuid", "%q is not a valid UUID", s)
	}

	v.requireString(doc, "version", false)
	v.requireString(doc, "definition", v.opts.Draft)

	meta, ok := doc["metadata"]
	if !ok {
		v.report(MissingField, "metadata", "required field metadata is missing")
	} else if m, isMap := meta.(map[string]any); !isMap {
		v.report(ShapeMismatch, "metadata", "metadata must be an object")
	} else {
		v.requireStringAt(m, "id", "metadata.id", false)
		v.requireStringAt(m, "description", "metadata.description", v.opts.Draft)
	}

	structure, ok := doc["structure"]
	if !ok {
		v.report(MissingField, "structure", "required field structure is missing")
		return
	}
	node, isMap := structure.(map[string]any)
	if !isMap {
		v.report(ShapeMismatch, "structure", "structure must be an object")
		return
	}
	tag, ok := nodeTag(node)
	if !ok {
		v.report(ShapeMismatch, "structure", "structure node carries no nodeType tag")
		return
	}
	if !structureTags[tag] {
		v.report(ShapeMismatch, "structure", "node type %q not allowed as document structure", tag)
		return
	}
	v.checkNode(node, tree.Key(tag, 0), 1)
}

// checkNode dispatches on the node's type tag and validates its variant
// shape, recursing into children. Errors never stop the walk; remaining
// siblings are still checked.
func (v *structuralValidator) checkNode(node map[string]any, path string, depth int) {
	if depth > types.MaxNodeDepth {
		v.report(ShapeMismatch, path, "structure nesting exceeds %d levels", types.MaxNodeDepth)
		return
	}

	tag, ok := nodeTag(node)
	if !ok {
		v.report(ShapeMismatch, path, "node carries no nodeType tag")
		return
	}

	switch tag {
	case types.NodeCondition:
		v.checkCondition(node, path, depth)
	case types.NodeConditionGroup:
		v.checkConditionGroup(node, path, depth)
	case types.NodeExpression:
		v.checkExpression(node, path, depth)
	case types.NodeExpressionGroup:
		v.checkExpressionGroup(node, path, depth)
	case types.NodeWhen:
		v.checkWhenClause(node, path, depth)
	case types.NodeCase:
		v.checkCaseBlock(node, path, depth)
	default:
		v.report(ShapeMismatch, path, "unknown node type %q", tag)
	}
}

func (v *structuralValidator) checkCondition(node map[string]any, path string, depth int) {
	v.requireStringAt(node, "name", path+".name", v.opts.Draft)
	v.requireStringAt(node, "operator", path+".operator", false)
	v.checkChildNode(node, "left", types.NodeExpressionGroup, tree.Child(path, types.NodeExpressionGroup, 0), path, depth)
	v.checkChildNode(node, "right", types.NodeExpressionGroup, tree.Child(path, types.NodeExpressionGroup, 1), path, depth)
}

func (v *structuralValidator) checkConditionGroup(node map[string]any, path string, depth int) {
	v.requireStringAt(node, "name", path+".name", v.opts.Draft)

	if c, ok := rawString(node, "conjunction"); !ok {
		if _, present := node["conjunction"]; present {
			v.report(ShapeMismatch, path+".conjunction", "conjunction must be a string")
		} else {
			v.report(MissingField, path+".conjunction", "required field conjunction is missing")
		}
	} else if types.Conjunction(c) != types.ConjunctionAnd && types.Conjunction(c) != types.ConjunctionOr {
		v.report(ShapeMismatch, path+".conjunction", "conjunction must be \"and\" or \"or\", got %q", c)
	}

	if n, present := node["not"]; present {
		if _, isBool := n.(bool); !isBool {
			v.report(ShapeMismatch, path+".not", "not must be a boolean")
		}
	}

	children, ok := node["conditions"]
	if !ok {
		v.report(MissingField, path+".conditions", "required field conditions is missing")
		return
	}
	list, isList := children.([]any)
	if !isList {
		v.report(ShapeMismatch, path+".conditions", "conditions must be an array")
		return
	}
	if len(list) == 0 && !v.opts.Draft {
		v.report(ShapeMismatch, path+".conditions", "condition group must contain at least one condition")
	}
	if len(list) > types.MaxGroupChildren {
		v.report(ShapeMismatch, path+".conditions", "condition group exceeds %d children", types.MaxGroupChildren)
		return
	}
	for i, child := range list {
		childMap, isMap := child.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path, "conditions[%d] must be an object", i)
			continue
		}
		tag, ok := nodeTag(childMap)
		if !ok {
			v.report(ShapeMismatch, path, "conditions[%d] carries no nodeType tag", i)
			continue
		}
		if tag != types.NodeCondition && tag != types.NodeConditionGroup {
			v.report(ShapeMismatch, tree.Child(path, tag, i), "node type %q not allowed in a condition group", tag)
			continue
		}
		v.checkNode(childMap, tree.Child(path, tag, i), depth+1)
	}
}

func (v *structuralValidator) checkExpressionGroup(node map[string]any, path string, depth int) {
	if s, ok := rawString(node, "returnType"); !ok {
		if _, present := node["returnType"]; present {
			v.report(ShapeMismatch, path+".returnType", "returnType must be a string")
		} else {
			v.report(MissingField, path+".returnType", "required field returnType is missing")
		}
	} else if !types.KnownValueType(s) {
		v.report(ShapeMismatch, path+".returnType", "unknown return type %q", s)
	}

	exprs, exprsPresent := node["expressions"]
	if !exprsPresent {
		if !v.opts.Draft {
			v.report(MissingField, path+".expressions", "required field expressions is missing")
		}
		return
	}
	list, isList := exprs.([]any)
	if !isList {
		v.report(ShapeMismatch, path+".expressions", "expressions must be an array")
		return
	}
	if len(list) == 0 {
		if !v.opts.Draft {
			v.report(ShapeMismatch, path+".expressions", "expression group must contain at least one expression")
		}
		return
	}
	if len(list) > types.MaxGroupChildren {
		v.report(ShapeMismatch, path+".expressions", "expression group exceeds %d children", types.MaxGroupChildren)
		return
	}

	ops := rawSlice(node, "operators")
	if len(ops) != len(list)-1 {
		v.report(ArrayLengthMismatch, path+".operators",
			"expected %d operators for %d expressions, got %d", len(list)-1, len(list), len(ops))
	}

	for i, child := range list {
		childMap, isMap := child.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path, "expressions[%d] must be an object", i)
			continue
		}
		v.checkNode(childMap, tree.Child(path, types.NodeExpression, i), depth+1)
	}
}

func (v *structuralValidator) checkExpression(node map[string]any, path string, depth int) {
	kind, ok := rawString(node, "exprType")
	if !ok {
		v.report(MissingField, path+".exprType", "required field exprType is missing")
		return
	}

	switch types.ExprKind(kind) {
	case types.ExprValue:
		payload, present := node["value"]
		if !present {
			if !v.opts.Draft {
				v.report(MissingField, path+".value", "value expression carries no value payload")
			}
			return
		}
		m, isMap := payload.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path+".value", "value payload must be an object")
			return
		}
		if s, ok := rawString(m, "type"); !ok {
			v.report(MissingField, path+".value.type", "required field type is missing")
		} else if !types.KnownValueType(s) {
			v.report(ShapeMismatch, path+".value.type", "unknown value type %q", s)
		}
		if _, present := m["data"]; !present && !v.opts.Draft {
			v.report(MissingField, path+".value.data", "required field data is missing")
		}

	case types.ExprField:
		if s, ok := rawString(node, "field"); !ok || s == "" {
			if !v.opts.Draft {
				v.report(MissingField, path+".field", "field expression carries no field name")
			}
		}

	case types.ExprFunction:
		payload, present := node["function"]
		if !present {
			if !v.opts.Draft {
				v.report(MissingField, path+".function", "function expression carries no function payload")
			}
			return
		}
		m, isMap := payload.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path+".function", "function payload must be an object")
			return
		}
		if s, ok := rawString(m, "name"); !ok || s == "" {
			v.report(MissingField, path+".function.name", "required field name is missing")
		}
		args := rawSlice(m, "args")
		if len(args) > types.MaxFunctionArgs {
			v.report(ShapeMismatch, path+".function", "function exceeds %d arguments", types.MaxFunctionArgs)
			return
		}
		for i, arg := range args {
			argMap, isMap := arg.(map[string]any)
			if !isMap {
				v.report(ShapeMismatch, path, "function args[%d] must be an object", i)
				continue
			}
			v.checkNode(argMap, tree.Child(path, types.NodeExpressionGroup, i), depth+1)
		}

	case types.ExprRuleRef:
		payload, present := node["ruleRef"]
		if !present {
			if !v.opts.Draft {
				v.report(MissingField, path+".ruleRef", "ruleRef expression carries no reference payload")
			}
			return
		}
		m, isMap := payload.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path+".ruleRef", "ruleRef payload must be an object")
			return
		}
		v.requireStringAt(m, "id", path+".ruleRef.id", false)
		v.requireStringAt(m, "version", path+".ruleRef.version", false)
		if s, ok := rawString(m, "uuid"); !ok {
			v.report(MissingField, path+".ruleRef.uuid", "required field uuid is missing")
		} else if !types.ValidUUID(s) {
			v.report(ShapeMismatch, path+".ruleRef.uuid", "%q is not a valid UUID", s)
		}

	default:
		v.report(ShapeMismatch, path+".exprType", "unknown expression kind %q", kind)
	}
}

func (v *structuralValidator) checkWhenClause(node map[string]any, path string, depth int) {
	v.requireStringAt(node, "resultName", path+".resultName", v.opts.Draft)
	v.checkChildNode(node, "when", types.NodeConditionGroup, tree.Child(path, types.NodeConditionGroup, 0), path, depth)
	v.checkChildNode(node, "then", types.NodeExpressionGroup, tree.Child(path, types.NodeExpressionGroup, 1), path, depth)
}

func (v *structuralValidator) checkCaseBlock(node map[string]any, path string, depth int) {
	whens, ok := node["whens"]
	if !ok {
		v.report(MissingField, path+".whens", "required field whens is missing")
		return
	}
	list, isList := whens.([]any)
	if !isList {
		v.report(ShapeMismatch, path+".whens", "whens must be an array")
		return
	}
	if len(list) == 0 && !v.opts.Draft {
		v.report(ShapeMismatch, path+".whens", "case block must contain at least one when clause")
	}
	if len(list) > types.MaxGroupChildren {
		v.report(ShapeMismatch, path+".whens", "case block exceeds %d branches", types.MaxGroupChildren)
		return
	}
	for i, child := range list {
		childMap, isMap := child.(map[string]any)
		if !isMap {
			v.report(ShapeMismatch, path, "whens[%d] must be an object", i)
			continue
		}
		tag, _ := nodeTag(childMap)
		if tag != types.NodeWhen {
			v.report(ShapeMismatch, tree.Child(path, types.NodeWhen, i), "case branches must be when clauses, got %q", tag)
			continue
		}
		v.checkNode(childMap, tree.Child(path, types.NodeWhen, i), depth+1)
	}
	if elseBody, present := node["else"]; present && elseBody != nil {
		elseMap, isMap := elseBody.(map[string]any)
		elsePath := tree.Child(path, types.NodeExpressionGroup, len(list))
		if !isMap {
			v.report(ShapeMismatch, elsePath, "else must be an expression group")
			return
		}
		if tag, _ := nodeTag(elseMap); tag != types.NodeExpressionGroup {
			v.report(ShapeMismatch, elsePath, "else must be an expression group, got %q", tag)
			return
		}
		v.checkNode(elseMap, elsePath, depth+1)
	}
}

// checkChildNode validates a single required child slot holding a node of
// one fixed kind.
func (v *structuralValidator) checkChildNode(node map[string]any, key string, want types.NodeType, childPath, parentPath string, depth int) {
	child, present := node[key]
	if !present || child == nil {
		if !v.opts.Draft {
			v.report(MissingField, parentPath+"."+key, "required field %s is missing", key)
		}
		return
	}
	childMap, isMap := child.(map[string]any)
	if !isMap {
		v.report(ShapeMismatch, childPath, "%s must be an object", key)
		return
	}
	if tag, _ := nodeTag(childMap); tag != want {
		v.report(ShapeMismatch, childPath, "%s must be a %s node, got %q", key, want, tag)
		return
	}
	v.checkNode(childMap, childPath, depth+1)
}

// requireString checks a required top-level string field, addressing errors
// by the bare field name.
func (v *structuralValidator) requireString(doc map[string]any, key string, waive bool) {
	v.requireStringAt(doc, key, key, waive)
}

// requireStringAt checks a required string field addressed at path. waive
// suppresses the missing-field error (draft mode completeness relaxation);
// a present value of the wrong type is always an error.
func (v *structuralValidator) requireStringAt(m map[string]any, key, path string, waive bool) {
	val, present := m[key]
	if !present {
		if !waive {
			v.report(MissingField, path, "required field %s is missing", key)
		}
		return
	}
	if _, isString := val.(string); !isString {
		v.report(ShapeMismatch, path, "%s must be a string", key)
	}
}

// rawString fetches a string-typed key from a raw map.
func rawString(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// rawSlice fetches an array-typed key from a raw map, nil when absent or
// mistyped.
func rawSlice(m map[string]any, key string) []any {
	s, _ := m[key].([]any)
	return s
}

// nodeTag reads the nodeType discriminator of a raw node.
func nodeTag(m map[string]any) (types.NodeType, bool) {
	s, ok := rawString(m, "nodeType")
	if !ok || s == "" {
		return "", false
	}
	return types.NodeType(s), true
}

func knownRuleType(s string) bool {
	switch types.RuleType(s) {
	case types.RuleDecision, types.RuleExpression, types.RuleCase:
		return true
	}
	return false
}
