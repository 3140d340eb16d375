package tools

import (
	"strings"
	"testing"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	tool := &fakeTool{name: "echo", description: "Echo input"}
	if err := registry.Register(tool); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	got, exists := registry.Get("echo")
	if !exists {
		t.Fatal("tool not found after registration")
	}
	if got.Name() != "echo" {
		t.Errorf("got tool %q, want echo", got.Name())
	}
	if !registry.Has("echo") {
		t.Error("Has should report registered tool")
	}
	if registry.Len() != 1 {
		t.Errorf("Len = %d, want 1", registry.Len())
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&fakeTool{name: "echo"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := registry.Register(&fakeTool{name: "echo"}); err == nil {
		t.Fatal("expected error for duplicate name")
	}
}

func TestRegistryEmptyName(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(&fakeTool{name: ""}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := registry.Register(&fakeTool{name: name}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	names := registry.Names()
	want := []string{"alpha", "mid", "zeta"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestRegistryCatalogue(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&fakeTool{
		name:        "execute_sql",
		description: "Execute a SQL query",
		schema: map[string]ParamSpec{
			"sql_query": {Type: "string", Required: true, Description: "SQL query to execute"},
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	err = registry.Register(&fakeTool{
		name:        "list_tables",
		description: "List available tables",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	catalogue := registry.Catalogue()

	if !strings.Contains(catalogue, "- **execute_sql**: Execute a SQL query") {
		t.Errorf("catalogue missing execute_sql entry:\n%s", catalogue)
	}
	if !strings.Contains(catalogue, "- sql_query (string, required): SQL query to execute") {
		t.Errorf("catalogue missing parameter line:\n%s", catalogue)
	}
	if !strings.Contains(catalogue, "- No parameters") {
		t.Errorf("catalogue missing no-parameters marker:\n%s", catalogue)
	}

	// Registration order, not alphabetical.
	if strings.Index(catalogue, "execute_sql") > strings.Index(catalogue, "list_tables") {
		t.Error("catalogue should preserve registration order")
	}
}

func TestRegistryCatalogueEmpty(t *testing.T) {
	if got := NewRegistry().Catalogue(); got != "No tools available." {
		t.Errorf("empty catalogue = %q", got)
	}
}
