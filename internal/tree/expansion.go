// internal/tree/expansion.go
package tree

import (
	"maps"

	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Expansion state engine.
 *
 * Per-session store of collapsed/expanded state keyed by path key. A path
 * without an explicit entry resolves through the default policy: freshly
 * authored documents (isNew) default every path to expanded; loaded
 * documents default only the root container path to expanded.
 *
 * The root container's visibility is a policy floor, not a togglable item:
 * CollapseAll clears overrides instead of forcing every path to false, so
 * the root still resolves expanded afterwards.
 *
 * Not safe for concurrent use; the owning editing session serializes access.
 * Persistence of snapshots is the host's concern (Snapshot/Restore).
 */

// ExpansionState tracks per-path visibility for one open document.
type ExpansionState struct {
	entries         map[string]bool
	rootType        types.NodeType
	defaultExpanded bool
}

// NewExpansionState creates a store for a document whose top-level node has
// the given type tag. isNew selects the all-expanded default policy used for
// freshly authored documents.
func NewExpansionState(rootType types.NodeType, isNew bool) *ExpansionState {
	return &ExpansionState{
		entries:         make(map[string]bool),
		rootType:        rootType,
		defaultExpanded: isNew,
	}
}

// RootPath returns the path key of the root container.
func (s *ExpansionState) RootPath() string {
	return Key(s.rootType, 0)
}

// IsExpanded resolves the visibility of path: the explicit entry when one
// exists, otherwise the policy default.
func (s *ExpansionState) IsExpanded(path string) bool {
	if v, ok := s.entries[path]; ok {
		return v
	}
	if s.defaultExpanded {
		return true
	}
	return path == s.RootPath()
}

// Set stores an explicit override for path. Overrides persist regardless of
// later policy evaluation.
func (s *ExpansionState) Set(path string, expanded bool) {
	s.entries[path] = expanded
}

// Toggle negates the currently resolved value of path, stores it explicitly
// and returns the new value.
func (s *ExpansionState) Toggle(path string) bool {
	v := !s.IsExpanded(path)
	s.entries[path] = v
	return v
}

// ExpandAll clears all overrides and switches the default policy to
// expanded.
func (s *ExpansionState) ExpandAll() {
	clear(s.entries)
	s.defaultExpanded = true
}

// CollapseAll clears all overrides and switches the default policy to
// collapsed. The root container still resolves expanded afterwards; root
// visibility is a policy floor.
func (s *ExpansionState) CollapseAll() {
	clear(s.entries)
	s.defaultExpanded = false
}

// Reset clears all overrides and reinitializes the policy parameters. Used
// when switching documents or toggling between new and loaded mode.
func (s *ExpansionState) Reset(rootType types.NodeType, isNew bool) {
	clear(s.entries)
	s.rootType = rootType
	s.defaultExpanded = isNew
}

// Snapshot returns a copy of the explicit overrides for external
// persistence.
func (s *ExpansionState) Snapshot() map[string]bool {
	return maps.Clone(s.entries)
}

// Restore replaces the explicit overrides with a previously taken snapshot.
func (s *ExpansionState) Restore(snapshot map[string]bool) {
	s.entries = make(map[string]bool, len(snapshot))
	maps.Copy(s.entries, snapshot)
}
