package tree

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/calder/rulecanvas/internal/types"
)

func TestExpansionDefaults_New(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, true)

	for _, path := range []string{
		"conditionGroup-0",
		"conditionGroup-0-condition-1",
		"conditionGroup-0-conditionGroup-2-condition-0",
	} {
		if !s.IsExpanded(path) {
			t.Errorf("IsExpanded(%q) = false, want true for new document", path)
		}
	}
}

func TestExpansionDefaults_Loaded(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, false)

	if !s.IsExpanded("conditionGroup-0") {
		t.Error("root container should resolve expanded for loaded documents")
	}
	for _, path := range []string{
		"conditionGroup-0-condition-0",
		"conditionGroup-0-conditionGroup-1",
		"conditionGroup-1",
	} {
		if s.IsExpanded(path) {
			t.Errorf("IsExpanded(%q) = true, want false for loaded document", path)
		}
	}
}

func TestExpansionSet(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, false)
	path := "conditionGroup-0-condition-3"

	s.Set(path, true)
	if !s.IsExpanded(path) {
		t.Error("explicit override not honored")
	}
	s.Set(path, false)
	if s.IsExpanded(path) {
		t.Error("explicit collapse not honored")
	}
}

func TestExpansionToggle(t *testing.T) {
	s := NewExpansionState(types.NodeCase, false)
	path := "case-0-when-1"

	if got := s.Toggle(path); !got {
		t.Error("first toggle of a collapsed path should expand it")
	}
	if got := s.Toggle(path); got {
		t.Error("second toggle should collapse it again")
	}
}

func TestCollapseAll_RootFloor(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, true)
	s.Set("conditionGroup-0-condition-0", true)
	s.Set("conditionGroup-0-condition-1", false)

	s.CollapseAll()

	if !s.IsExpanded("conditionGroup-0") {
		t.Error("root container must stay expanded after CollapseAll")
	}
	if s.IsExpanded("conditionGroup-0-condition-0") {
		t.Error("override should be cleared by CollapseAll")
	}
	if s.IsExpanded("conditionGroup-0-conditionGroup-5") {
		t.Error("non-root paths should collapse")
	}
}

func TestExpandAll(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, false)
	s.Set("conditionGroup-0-condition-0", false)

	s.ExpandAll()

	if !s.IsExpanded("conditionGroup-0-condition-0") {
		t.Error("override should be cleared by ExpandAll")
	}
	if !s.IsExpanded("conditionGroup-0-condition-9") {
		t.Error("all paths should resolve expanded after ExpandAll")
	}
}

func TestReset(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, true)
	s.Set("conditionGroup-0-condition-0", false)

	s.Reset(types.NodeCase, false)

	if got := s.RootPath(); got != "case-0" {
		t.Errorf("RootPath() = %q, want %q", got, "case-0")
	}
	if !s.IsExpanded("case-0") {
		t.Error("new root container should resolve expanded")
	}
	if s.IsExpanded("conditionGroup-0-condition-0") {
		t.Error("Reset should clear overrides and policy")
	}
}

func TestSnapshotRestore(t *testing.T) {
	s := NewExpansionState(types.NodeConditionGroup, false)
	s.Set("conditionGroup-0-condition-0", true)
	s.Set("conditionGroup-0-condition-1", false)

	snap := s.Snapshot()
	s.CollapseAll()
	if s.IsExpanded("conditionGroup-0-condition-0") {
		t.Fatal("override survived CollapseAll")
	}

	s.Restore(snap)
	if !s.IsExpanded("conditionGroup-0-condition-0") {
		t.Error("Restore did not bring back the expanded override")
	}

	// Snapshot is a copy, not an aliased map.
	snap["conditionGroup-0-condition-2"] = true
	if s.IsExpanded("conditionGroup-0-condition-2") {
		t.Error("mutating the snapshot leaked into the store")
	}
}

// Property-based test: toggling twice restores the resolved value
func TestToggle_PropertyRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("double toggle restores IsExpanded", prop.ForAll(
		func(isNew bool, depth int, preSet bool, preValue bool) bool {
			s := NewExpansionState(types.NodeConditionGroup, isNew)
			path := "conditionGroup-0"
			for i := 0; i < depth; i++ {
				path = Child(path, types.NodeCondition, i)
			}
			if preSet {
				s.Set(path, preValue)
			}

			before := s.IsExpanded(path)
			s.Toggle(path)
			s.Toggle(path)
			return s.IsExpanded(path) == before
		},
		gen.Bool(),
		gen.IntRange(0, 6),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
