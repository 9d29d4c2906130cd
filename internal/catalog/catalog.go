// internal/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/uuid"

	"github.com/calder/rulecanvas/internal/types"
)

/*
 * Schema/catalog provider.
 *
 * Supplies the known field names, function signatures and rule references
 * the semantic validation layer resolves against. The engines consume the
 * Provider interface read-only; the in-memory implementation and the JSON
 * file loader exist for hosts and for the CLI.
 */

// Field describes a data field available to field expressions.
type Field struct {
	Name        string          `json:"name"`
	Type        types.ValueType `json:"type"`
	Description string          `json:"description,omitempty"`
}

// Signature describes a callable function: ordered argument types and a
// return type.
type Signature struct {
	Name       string            `json:"name"`
	Args       []types.ValueType `json:"args"`
	ReturnType types.ValueType   `json:"returnType"`
}

// RuleRef describes another rule that documents may reference by value.
type RuleRef struct {
	ID         string          `json:"id"`
	UUID       string          `json:"uuid"`
	Version    string          `json:"version"`
	ReturnType types.ValueType `json:"returnType"`
}

// Provider is the read-only lookup interface consumed by the semantic
// validation layer.
type Provider interface {
	Field(name string) (Field, bool)
	Function(name string) (Signature, bool)
	Rule(id string) (RuleRef, bool)
}

// InMemory is a map-backed Provider.
type InMemory struct {
	fields    map[string]Field
	functions map[string]Signature
	rules     map[string]RuleRef
}

// NewInMemory returns an empty catalog.
func NewInMemory() *InMemory {
	return &InMemory{
		fields:    make(map[string]Field),
		functions: make(map[string]Signature),
		rules:     make(map[string]RuleRef),
	}
}

// AddField registers a field. Later registrations replace earlier ones.
func (c *InMemory) AddField(f Field) error {
	if f.Name == "" {
		return fmt.Errorf("field name must not be empty")
	}
	if f.Type == "" {
		f.Type = types.ValueAny
	}
	if !types.KnownValueType(string(f.Type)) {
		return fmt.Errorf("field %s: unknown type %q", f.Name, f.Type)
	}
	c.fields[f.Name] = f
	return nil
}

// AddFunction registers a function signature.
func (c *InMemory) AddFunction(s Signature) error {
	if s.Name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	if len(s.Args) > types.MaxFunctionArgs {
		return fmt.Errorf("function %s: more than %d arguments", s.Name, types.MaxFunctionArgs)
	}
	for i, a := range s.Args {
		if !types.KnownValueType(string(a)) {
			return fmt.Errorf("function %s: argument %d has unknown type %q", s.Name, i, a)
		}
	}
	if !types.KnownValueType(string(s.ReturnType)) {
		return fmt.Errorf("function %s: unknown return type %q", s.Name, s.ReturnType)
	}
	c.functions[s.Name] = s
	return nil
}

// AddRule registers a referencable rule. The uuid must parse.
func (c *InMemory) AddRule(r RuleRef) error {
	if r.ID == "" {
		return fmt.Errorf("rule id must not be empty")
	}
	if _, err := uuid.Parse(r.UUID); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	if r.ReturnType == "" {
		r.ReturnType = types.ValueAny
	}
	c.rules[r.ID] = r
	return nil
}

// Field implements Provider.
func (c *InMemory) Field(name string) (Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Function implements Provider.
func (c *InMemory) Function(name string) (Signature, bool) {
	s, ok := c.functions[name]
	return s, ok
}

// Rule implements Provider.
func (c *InMemory) Rule(id string) (RuleRef, bool) {
	r, ok := c.rules[id]
	return r, ok
}

// FieldNames returns the registered field names in sorted order.
func (c *InMemory) FieldNames() []string {
	names := make([]string, 0, len(c.fields))
	for n := range c.fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// file is the JSON shape of a catalog file.
type file struct {
	Fields    []Field     `json:"fields"`
	Functions []Signature `json:"functions"`
	Rules     []RuleRef   `json:"rules"`
}

// Load reads a catalog from a JSON file. Used by the CLI; the core engines
// never touch the filesystem.
func Load(path string) (*InMemory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	c := NewInMemory()
	for _, fl := range f.Fields {
		if err := c.AddField(fl); err != nil {
			return nil, err
		}
	}
	for _, fn := range f.Functions {
		if err := c.AddFunction(fn); err != nil {
			return nil, err
		}
	}
	for _, r := range f.Rules {
		if err := c.AddRule(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}
