// internal/tree/naming.go
package tree

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Naming engine.
 *
 * Derives display names for nodes from their path keys: a type label plus a
 * hierarchical number ("Condition 2", "Condition 1.3"). Stateless - every
 * operation takes explicit inputs and returns a new name, so identical tree
 * shapes always produce identical names.
 *
 * Key functions:
 *   - NameForNew: next free name among the siblings of an insertion point
 *   - RenameOnTypeChange: swap the label, keep a recoverable number
 *   - ResultName/ElseName: fixed-pattern case branch names
 *   - Renumber: full-tree canonical renaming in document order, idempotent
 *
 * Sibling names with foreign numbering (different parent number, or no
 * numeric suffix at all) are ignored when computing the next ordinal.
 */

// labels maps node type tags to their display labels.
var labels = map[types.NodeType]string{
	types.NodeCondition:       "Condition",
	types.NodeConditionGroup:  "Condition Group",
	types.NodeExpression:      "Expression",
	types.NodeExpressionGroup: "Expression Group",
	types.NodeWhen:            "Result",
	types.NodeCase:            "Case",
}

// suffixPattern matches a trailing dotted number ("3", "1.3", "2.4.1").
var suffixPattern = regexp.MustCompile(`(\d+(?:\.\d+)*)\s*$`)

// Label returns the display label for a node type tag. Unknown tags fall
// back to the tag itself so a name is always produced.
func Label(nt types.NodeType) string {
	if l, ok := labels[nt]; ok {
		return l
	}
	return string(nt)
}

// NameForNew derives the name for a node being inserted at path, given the
// current names of its siblings. The ordinal is one greater than the highest
// suffix found among siblings numbered under the same parent number.
func NameForNew(nt types.NodeType, path string, siblingNames []string) string {
	parentNumber := ParentNumber(path)
	next := highestOrdinal(siblingNames, parentNumber) + 1
	return formatName(Label(nt), parentNumber, next)
}

// RenameOnTypeChange re-derives the label portion of a name after the node's
// type changed, preserving the numeric suffix when one is recoverable from
// the current name. Without a recoverable suffix the name is re-derived
// positionally from the path.
func RenameOnTypeChange(current string, oldType, newType types.NodeType, path string) string {
	if m := suffixPattern.FindString(strings.TrimSpace(current)); m != "" {
		return Label(newType) + " " + m
	}
	return CanonicalName(newType, path)
}

// ResultName returns the fixed-pattern name of the case branch at whenIndex.
func ResultName(whenIndex int) string {
	return fmt.Sprintf("Result %d", whenIndex+1)
}

// ElseName returns the fixed name of the else branch.
func ElseName() string {
	return "Else"
}

// CanonicalName derives a node's name purely from its position: the parent
// number followed by the node's own ordinal. The root container carries no
// number and is named by its label alone.
func CanonicalName(nt types.NodeType, path string) string {
	pos, ok := PositionInParent(path)
	if !ok {
		return Label(nt)
	}
	return formatName(Label(nt), ParentNumber(path), pos)
}

// Renumber rewrites every condition, condition group and when clause name in
// the document to its canonical positional form. The walk visits a node
// before its children and children in list order, so repeated application is
// idempotent.
func Renumber(doc *types.Document) {
	if doc == nil || doc.Structure == nil {
		return
	}
	renumberNode(doc.Structure, Key(doc.Structure.NodeType(), 0))
}

func renumberNode(n types.Node, path string) {
	switch node := n.(type) {
	case *types.ConditionGroup:
		node.Name = CanonicalName(types.NodeConditionGroup, path)
		for i, child := range node.Conditions {
			if child == nil {
				continue
			}
			renumberNode(child, Child(path, child.NodeType(), i))
		}
	case *types.Condition:
		node.Name = CanonicalName(types.NodeCondition, path)
	case *types.CaseBlock:
		for i, when := range node.Whens {
			if when == nil {
				continue
			}
			renumberNode(when, Child(path, types.NodeWhen, i))
		}
	case *types.WhenClause:
		pos, ok := PositionInParent(path)
		if !ok {
			pos = 1
		}
		node.ResultName = ResultName(pos - 1)
		if node.When != nil {
			renumberNode(node.When, Child(path, types.NodeConditionGroup, 0))
		}
	}
}

// formatName assembles "<label> <parentNumber.><ordinal>".
func formatName(label, parentNumber string, ordinal int) string {
	if parentNumber == "" {
		return label + " " + strconv.Itoa(ordinal)
	}
	return label + " " + parentNumber + "." + strconv.Itoa(ordinal)
}

// highestOrdinal scans sibling names for suffixes scoped to parentNumber and
// returns the largest final ordinal found, 0 when none match.
func highestOrdinal(names []string, parentNumber string) int {
	max := 0
	for _, name := range names {
		suffix := suffixPattern.FindString(strings.TrimSpace(name))
		if suffix == "" {
			continue
		}
		var last string
		if parentNumber == "" {
			if strings.Contains(suffix, ".") {
				continue
			}
			last = suffix
		} else {
			rest, ok := strings.CutPrefix(suffix, parentNumber+".")
			if !ok || strings.Contains(rest, ".") {
				continue
			}
			last = rest
		}
		if n, err := strconv.Atoi(last); err == nil && n > max {
			max = n
		}
	}
	return max
}
