package wizard

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWorkflowsCoverShippedTypes(t *testing.T) {
	ws := DefaultWorkflows()
	for _, typ := range []string{"general", "cosmos", "chainlink", "substrate"} {
		if _, ok := ws.Lookup(typ); !ok {
			t.Errorf("type %q missing from default workflows", typ)
		}
	}
	if got := ws.Types(); len(got) != 4 || got[0] != "general" {
		t.Errorf("Types() = %v, want general first of 4", got)
	}
}

func TestGeneralWorkflowSkipsRepositories(t *testing.T) {
	steps, ok := DefaultWorkflows().StepsFor("general")
	if !ok {
		t.Fatal("general workflow missing")
	}
	for _, s := range steps {
		if s == StepRepositories {
			t.Fatalf("general steps %v include repositories", steps)
		}
	}
}

func TestParseWorkflowsRejectsBadTables(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{"empty", ``},
		{"unknown step", `[[workflow]]
type = "x"
steps = ["name", "teleport", "review"]`},
		{"missing review", `[[workflow]]
type = "x"
steps = ["name", "nodes"]`},
		{"first not name", `[[workflow]]
type = "x"
steps = ["nodes", "review"]`},
		{"duplicate type", `[[workflow]]
type = "x"
steps = ["name", "review"]
[[workflow]]
type = "x"
steps = ["name", "review"]`},
		{"unknown channel kind", `[[workflow]]
type = "x"
steps = ["name", "review"]
channels = ["carrier-pigeon"]`},
		{"repeated step", `[[workflow]]
type = "x"
steps = ["name", "nodes", "nodes", "review"]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseWorkflows([]byte(tc.toml)); err == nil {
				t.Fatalf("ParseWorkflows accepted:\n%s", tc.toml)
			}
		})
	}
}

func TestParseWorkflowsNormalizesType(t *testing.T) {
	ws, err := ParseWorkflows([]byte(`[[workflow]]
type = " Cosmos "
steps = ["name", "nodes", "review"]
channels = ["telegram"]`))
	if err != nil {
		t.Fatalf("ParseWorkflows: %v", err)
	}
	if _, ok := ws.Lookup("cosmos"); !ok {
		t.Error("normalized type lookup failed")
	}
	if _, ok := ws.Lookup("COSMOS"); !ok {
		t.Error("case-insensitive lookup failed")
	}
	if kinds := ws.ChannelKindsFor("cosmos"); len(kinds) != 1 || kinds[0] != "telegram" {
		t.Errorf("channel kinds = %v", kinds)
	}
}

func TestLoadWorkflowsFallsBackWhenFileMissing(t *testing.T) {
	ws, err := LoadWorkflows(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadWorkflows: %v", err)
	}
	if _, ok := ws.Lookup("cosmos"); !ok {
		t.Error("fallback workflows missing cosmos")
	}
}

func TestLoadWorkflowsReadsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workflows.toml")
	override := `[[workflow]]
type = "cosmos"
label = "Only cosmos"
steps = ["name", "nodes", "review"]
channels = ["slack"]`
	if err := os.WriteFile(path, []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}
	ws, err := LoadWorkflows(path)
	if err != nil {
		t.Fatalf("LoadWorkflows: %v", err)
	}
	if got := ws.Types(); len(got) != 1 || got[0] != "cosmos" {
		t.Errorf("Types() = %v, want [cosmos]", got)
	}
	steps, _ := ws.StepsFor("cosmos")
	if len(steps) != 3 {
		t.Errorf("steps = %v, want 3 steps", steps)
	}
}
