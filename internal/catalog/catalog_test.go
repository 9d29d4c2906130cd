package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"

	"github.com/calder/rulecanvas/internal/types"
)

func TestInMemory(t *testing.T) {
	is := is.New(t)
	c := NewInMemory()

	is.NoErr(c.AddField(Field{Name: "amount", Type: types.ValueNumber}))
	is.NoErr(c.AddField(Field{Name: "country", Type: types.ValueText}))

	f, ok := c.Field("amount")
	is.True(ok)
	is.Equal(f.Type, types.ValueNumber)

	_, ok = c.Field("missing")
	is.True(!ok)

	is.Equal(c.FieldNames(), []string{"amount", "country"}) // sorted

	is.NoErr(c.AddFunction(Signature{
		Name:       "round",
		Args:       []types.ValueType{types.ValueNumber, types.ValueNumber},
		ReturnType: types.ValueNumber,
	}))
	sig, ok := c.Function("round")
	is.True(ok)
	is.Equal(len(sig.Args), 2)

	is.NoErr(c.AddRule(RuleRef{
		ID:      "orders.discount",
		UUID:    "0191d8a0-6a01-7cc3-8f41-9a6b1f2e3d4c",
		Version: "2",
	}))
	r, ok := c.Rule("orders.discount")
	is.True(ok)
	is.Equal(r.ReturnType, types.ValueAny) // defaults when unset
}

func TestInMemory_Rejects(t *testing.T) {
	is := is.New(t)
	c := NewInMemory()

	is.True(c.AddField(Field{Name: ""}) != nil)
	is.True(c.AddField(Field{Name: "x", Type: "decimal"}) != nil)
	is.True(c.AddFunction(Signature{Name: ""}) != nil)
	is.True(c.AddFunction(Signature{Name: "f", Args: []types.ValueType{"decimal"}, ReturnType: types.ValueNumber}) != nil)
	is.True(c.AddRule(RuleRef{ID: "r", UUID: "nope"}) != nil)
}

func TestInMemory_UntypedFieldIsAny(t *testing.T) {
	is := is.New(t)
	c := NewInMemory()

	is.NoErr(c.AddField(Field{Name: "blob"}))
	f, ok := c.Field("blob")
	is.True(ok)
	is.Equal(f.Type, types.ValueAny)
}

func TestLoad(t *testing.T) {
	is := is.New(t)

	path := filepath.Join(t.TempDir(), "catalog.json")
	is.NoErr(os.WriteFile(path, []byte(`{
		"fields": [{"name": "amount", "type": "number"}],
		"functions": [{"name": "round", "args": ["number", "number"], "returnType": "number"}],
		"rules": [{"id": "orders.discount", "uuid": "0191d8a0-6a01-7cc3-8f41-9a6b1f2e3d4c", "version": "2", "returnType": "number"}]
	}`), 0o600))

	c, err := Load(path)
	is.NoErr(err)

	_, ok := c.Field("amount")
	is.True(ok)
	_, ok = c.Function("round")
	is.True(ok)
	_, ok = c.Rule("orders.discount")
	is.True(ok)
}

func TestLoad_Errors(t *testing.T) {
	is := is.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	is.True(err != nil)

	bad := filepath.Join(t.TempDir(), "bad.json")
	is.NoErr(os.WriteFile(bad, []byte(`{"fields": [{"name": "x", "type": "decimal"}]}`), 0o600))
	_, err = Load(bad)
	is.True(err != nil)
}
