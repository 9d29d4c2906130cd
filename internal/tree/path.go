// internal/tree/path.go
package tree

import (
	"strconv"
	"strings"

	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Path key algebra.
 *
 * A path key encodes a node's structural position as alternating type-tag /
 * sibling-index tokens joined by "-", e.g. "conditionGroup-0-condition-2".
 * The key identifies a position at a point in time; it is not stable across
 * structural edits elsewhere in the tree. Keys are recomputed from tree
 * shape, never stored on nodes.
 *
 * Key functions:
 *   - Key/Child: codec construction
 *   - OrdinalChain: (tag, index) pairs to 1-based sibling ordinals
 *   - ParentNumber: dotted number of the enclosing numbered ancestor
 *   - PositionInParent: final 1-based ordinal, absent for root-level nodes
 *
 * Malformed input is handled defensively: a token that does not parse as a
 * non-negative integer halts the ordinal chain at that segment rather than
 * failing. Callers that need hard failures use ParseKey.
 */

// separator joins path key tokens. Node type tags contain no separator by
// construction of the closed tag set.
const separator = "-"

// Segment is one decoded (tag, index) pair of a path key.
type Segment struct {
	Tag   types.NodeType
	Index int
}

// Key returns the path key of a root-level node.
func Key(tag types.NodeType, index int) string {
	return string(tag) + separator + strconv.Itoa(index)
}

// Child extends a parent path key with one more (tag, index) pair.
// An empty parent yields a root-level key.
func Child(parent string, tag types.NodeType, index int) string {
	if parent == "" {
		return Key(tag, index)
	}
	return parent + separator + Key(tag, index)
}

// Join builds a path key from a full segment chain.
func Join(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 {
			b.WriteString(separator)
		}
		b.WriteString(string(s.Tag))
		b.WriteString(separator)
		b.WriteString(strconv.Itoa(s.Index))
	}
	return b.String()
}

// ParseKey decodes a path key into its segment chain. Unlike the numbering
// helpers it is strict: odd token counts and non-numeric or negative index
// tokens are contract violations.
func ParseKey(path string) ([]Segment, error) {
	if path == "" {
		return nil, nil
	}
	tokens := strings.Split(path, separator)
	if len(tokens)%2 != 0 {
		return nil, types.ErrMalformedPath
	}
	segs := make([]Segment, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		idx, err := strconv.Atoi(tokens[i+1])
		if err != nil || idx < 0 {
			return nil, types.ErrMalformedPath
		}
		segs = append(segs, Segment{Tag: types.NodeType(tokens[i]), Index: idx})
	}
	return segs, nil
}

// OrdinalChain converts a path key to 1-based sibling ordinals, one per
// (tag, index) pair. A non-numeric or negative index token halts the chain
// at that segment.
func OrdinalChain(path string) []int {
	if path == "" {
		return nil
	}
	tokens := strings.Split(path, separator)
	chain := make([]int, 0, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		idx, err := strconv.Atoi(tokens[i+1])
		if err != nil || idx < 0 {
			break
		}
		chain = append(chain, idx+1)
	}
	return chain
}

// Depth returns the number of (tag, index) pairs in the path key.
func Depth(path string) int {
	return len(OrdinalChain(path))
}

// ParentNumber returns the dotted number identifying the enclosing numbered
// ancestor: the ordinal chain with the final ordinal (self) and the first
// ordinal (root container, which carries no numeric prefix) dropped.
// Empty for the root and for direct children of the root.
func ParentNumber(path string) string {
	chain := OrdinalChain(path)
	if len(chain) <= 2 {
		return ""
	}
	parts := make([]string, 0, len(chain)-2)
	for _, n := range chain[1 : len(chain)-1] {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, ".")
}

// PositionInParent returns the final 1-based ordinal of the path key.
// Root-level nodes have no renderable position; ok is false for them and
// for malformed or empty paths.
func PositionInParent(path string) (pos int, ok bool) {
	chain := OrdinalChain(path)
	if len(chain) <= 1 {
		return 0, false
	}
	return chain[len(chain)-1], true
}
