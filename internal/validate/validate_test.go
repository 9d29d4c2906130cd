package validate

import (
	"encoding/json"
	"testing"

	"github.com/calder/rulecanvas/internal/catalog"
	"github.com/calder/rulecanvas/internal/types"
)

const docUUID = "0191d8a0-5f2b-7cc3-8f41-9a6b1f2e3d4c"
const refUUID = "0191d8a0-6a01-7cc3-8f41-9a6b1f2e3d4c"

// testCatalog returns the catalog used throughout the validation tests.
func testCatalog(t *testing.T) *catalog.InMemory {
	t.Helper()
	c := catalog.NewInMemory()
	for _, f := range []catalog.Field{
		{Name: "amount", Type: types.ValueNumber},
		{Name: "country", Type: types.ValueText},
		{Name: "created", Type: types.ValueDate},
	} {
		if err := c.AddField(f); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.AddFunction(catalog.Signature{
		Name:       "round",
		Args:       []types.ValueType{types.ValueNumber, types.ValueNumber},
		ReturnType: types.ValueNumber,
	}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddRule(catalog.RuleRef{
		ID:         "orders.discount",
		UUID:       refUUID,
		Version:    "2",
		ReturnType: types.ValueNumber,
	}); err != nil {
		t.Fatal(err)
	}
	return c
}

const validDecision = `{
	"structure": {
		"nodeType": "conditionGroup",
		"name": "Condition Group",
		"conjunction": "and",
		"not": false,
		"conditions": [
			{
				"nodeType": "condition",
				"name": "Condition 1",
				"left": {
					"nodeType": "expressionGroup",
					"returnType": "number",
					"expressions": [{"nodeType": "expression", "exprType": "field", "field": "amount"}],
					"operators": []
				},
				"operator": "gt",
				"right": {
					"nodeType": "expressionGroup",
					"returnType": "number",
					"expressions": [{"nodeType": "expression", "exprType": "value", "value": {"type": "number", "data": 100}}],
					"operators": []
				}
			}
		]
	},
	"returnType": "boolean",
	"ruleType": "decision",
	"uuid": "0191d8a0-5f2b-7cc3-8f41-9a6b1f2e3d4c",
	"version": "1",
	"metadata": {"id": "orders.high-value", "description": "High value order check"},
	"definition": "amount > 100"
}`

// mutate parses the valid document, applies fn and re-serializes it.
func mutate(t *testing.T, src string, fn func(doc map[string]any)) json.RawMessage {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatal(err)
	}
	fn(doc)
	out, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func structureOf(doc map[string]any) map[string]any {
	return doc["structure"].(map[string]any)
}

func firstCondition(doc map[string]any) map[string]any {
	return structureOf(doc)["conditions"].([]any)[0].(map[string]any)
}

func TestValidate_ValidDocument(t *testing.T) {
	result := Validate(json.RawMessage(validDecision), testCatalog(t), Options{})
	if !result.OK() {
		t.Fatalf("expected zero errors, got %+v", result.Errors)
	}
}

func TestValidate_MissingDescription(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		delete(doc["metadata"].(map[string]any), "description")
	})

	result := Validate(raw, testCatalog(t), Options{})
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", result.Errors)
	}
	e := result.Errors[0]
	if e.Type != MissingField || e.Path != "metadata.description" {
		t.Errorf("error = %+v, want MISSING_FIELD at metadata.description", e)
	}
}

func TestValidate_NotJSON(t *testing.T) {
	result := Validate(json.RawMessage(`[1, 2`), nil, Options{})
	if len(result.Errors) != 1 || result.Errors[0].Type != ShapeMismatch {
		t.Fatalf("expected single SHAPE_MISMATCH, got %+v", result.Errors)
	}
}

func TestValidate_MissingTopLevelFields(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		delete(doc, "uuid")
		delete(doc, "version")
	})

	result := Validate(raw, testCatalog(t), Options{})
	if len(result.Errors) != 2 {
		t.Fatalf("expected two errors, got %+v", result.Errors)
	}
	paths := map[string]bool{}
	for _, e := range result.Errors {
		if e.Type != MissingField {
			t.Errorf("error type = %s, want MISSING_FIELD", e.Type)
		}
		paths[e.Path] = true
	}
	if !paths["uuid"] || !paths["version"] {
		t.Errorf("errors addressed at %v, want uuid and version", paths)
	}
}

func TestValidate_BadUUID(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		doc["uuid"] = "not-a-uuid"
	})

	result := Validate(raw, testCatalog(t), Options{})
	if len(result.Errors) != 1 || result.Errors[0].Type != ShapeMismatch || result.Errors[0].Path != "uuid" {
		t.Fatalf("expected SHAPE_MISMATCH at uuid, got %+v", result.Errors)
	}
}

func TestValidate_OperatorCountMismatch(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		left := firstCondition(doc)["left"].(map[string]any)
		left["operators"] = []any{"add"}
	})

	result := Validate(raw, testCatalog(t), Options{})
	found := false
	for _, e := range result.Errors {
		if e.Type == ArrayLengthMismatch {
			found = true
			if e.Path != "conditionGroup-0-condition-0-expressionGroup-0.operators" {
				t.Errorf("error path = %q", e.Path)
			}
		}
	}
	if !found {
		t.Fatalf("expected ARRAY_LENGTH_MISMATCH, got %+v", result.Errors)
	}
}

func TestValidate_EmptyGroup(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		structureOf(doc)["conditions"] = []any{}
	})

	result := Validate(raw, testCatalog(t), Options{})
	if len(result.Errors) != 1 || result.Errors[0].Type != ShapeMismatch {
		t.Fatalf("expected one SHAPE_MISMATCH, got %+v", result.Errors)
	}

	// Draft mode tolerates the empty list mid-edit.
	draft := Validate(raw, testCatalog(t), Options{Draft: true})
	if !draft.OK() {
		t.Fatalf("draft mode should allow empty groups, got %+v", draft.Errors)
	}
}

func TestValidate_AccumulatesAcrossSiblings(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		cond := firstCondition(doc)
		delete(cond, "operator")
		conditions := structureOf(doc)["conditions"].([]any)
		second := map[string]any{
			"nodeType": "condition",
			"name":     "Condition 2",
		}
		structureOf(doc)["conditions"] = append(conditions, second)
	})

	result := Validate(raw, testCatalog(t), Options{})
	if len(result.Errors) < 3 {
		t.Fatalf("expected errors from both siblings, got %+v", result.Errors)
	}
	// Errors must arrive in document order: first condition before second.
	sawFirst := false
	for _, e := range result.Errors {
		if e.Path == "conditionGroup-0-condition-0.operator" {
			sawFirst = true
		}
		if e.Path == "conditionGroup-0-condition-1.operator" && !sawFirst {
			t.Error("second sibling reported before first")
		}
	}
	if !sawFirst {
		t.Errorf("missing operator error for first condition: %+v", result.Errors)
	}
}

func TestValidate_DraftStrictMatrix(t *testing.T) {
	// Incomplete (no description) and badly named (no numeric suffix).
	raw := mutate(t, validDecision, func(doc map[string]any) {
		delete(doc["metadata"].(map[string]any), "description")
		firstCondition(doc)["name"] = "my favourite condition"
	})

	tests := []struct {
		name         string
		opts         Options
		wantMissing  bool
		wantAdvisory bool
	}{
		{"default", Options{}, true, false},
		{"strict", Options{Strict: true}, true, true},
		{"draft", Options{Draft: true}, false, false},
		{"draft and strict", Options{Draft: true, Strict: true}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(raw, testCatalog(t), tt.opts)
			var missing, advisory bool
			for _, e := range result.Errors {
				if e.Type == MissingField && e.Path == "metadata.description" {
					missing = true
				}
				if e.Type == ShapeMismatch && e.Path == "conditionGroup-0-condition-0.name" {
					advisory = true
				}
			}
			if missing != tt.wantMissing {
				t.Errorf("missing description reported = %v, want %v", missing, tt.wantMissing)
			}
			if advisory != tt.wantAdvisory {
				t.Errorf("naming advisory reported = %v, want %v", advisory, tt.wantAdvisory)
			}
		})
	}
}

func TestValidate_UnknownNodeType(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		structureOf(doc)["nodeType"] = "banana"
	})

	result := Validate(raw, testCatalog(t), Options{})
	if result.OK() {
		t.Fatal("expected an error for unknown structure node type")
	}
	if result.Errors[0].Type != ShapeMismatch || result.Errors[0].Path != "structure" {
		t.Errorf("error = %+v", result.Errors[0])
	}
}

func TestValidate_RuleTypeStructureMismatch(t *testing.T) {
	raw := mutate(t, validDecision, func(doc map[string]any) {
		doc["ruleType"] = "case"
	})

	result := Validate(raw, testCatalog(t), Options{})
	found := false
	for _, e := range result.Errors {
		if e.Type == ShapeMismatch && e.Path == "structure" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected structure/ruleType mismatch, got %+v", result.Errors)
	}
}
