package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Output != OutputTable {
		t.Errorf("default output = %q, want %q", cfg.Output, OutputTable)
	}
	if cfg.Strict || cfg.Draft {
		t.Error("modes must default to off")
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output != OutputTable {
		t.Errorf("output = %q, want %q", cfg.Output, OutputTable)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rulecanvas.yaml")
	if err := os.WriteFile(path, []byte("catalog: /etc/rulecanvas/catalog.json\nstrict: true\noutput: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.CatalogPath != "/etc/rulecanvas/catalog.json" {
		t.Errorf("catalog = %q", cfg.CatalogPath)
	}
	if !cfg.Strict {
		t.Error("strict not read from file")
	}
	if cfg.Output != OutputJSON {
		t.Errorf("output = %q, want %q", cfg.Output, OutputJSON)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		output  string
		wantErr bool
	}{
		{OutputTable, false},
		{OutputJSON, false},
		{"xml", true},
		{"", true},
	}
	for _, tt := range tests {
		cfg := &Config{Output: tt.output}
		if err := Validate(cfg); (err != nil) != tt.wantErr {
			t.Errorf("Validate(output=%q) error = %v, wantErr %v", tt.output, err, tt.wantErr)
		}
	}
}
