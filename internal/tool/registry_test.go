package tool

import (
	"sort"
	"testing"

	"github.com/devmate-ai/devmate/internal/agent"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry(t.TempDir(), nil)

	want := []string{
		"analysis_issues",
		"analyze_code",
		"fetch_doc",
		"list_dir",
		"preview_patch",
		"read_file",
		"run_command",
	}

	ids := r.IDs()
	sort.Strings(ids)
	if len(ids) != len(want) {
		t.Fatalf("Expected %d tools, got %d: %v", len(want), len(ids), ids)
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("Expected tool %s, got %s", id, ids[i])
		}
	}
}

func TestRegistry_GetAndRegister(t *testing.T) {
	r := NewRegistry(t.TempDir())
	if _, ok := r.Get("read_file"); ok {
		t.Fatal("Empty registry should have no tools")
	}

	r.Register(NewReadFileTool("."))
	tool, ok := r.Get("read_file")
	if !ok {
		t.Fatal("Expected read_file after registration")
	}
	if tool.ID() != "read_file" {
		t.Errorf("Unexpected tool ID: %s", tool.ID())
	}
}

func TestRegistry_ForAgent(t *testing.T) {
	r := DefaultRegistry(t.TempDir(), nil)

	def := &agent.Definition{
		Name:  "code_quality",
		Tools: []string{"read_file", "analyze_code", "analysis_issues"},
	}

	tools := r.ForAgent(def)
	if len(tools) != 3 {
		t.Fatalf("Expected 3 tools, got %d", len(tools))
	}
	// Order follows the definition's tool list.
	if tools[0].ID() != "read_file" || tools[1].ID() != "analyze_code" {
		t.Errorf("Tool order should follow the definition: %v", []string{tools[0].ID(), tools[1].ID()})
	}
}

func TestRegistry_ForAgent_SkipsUnknown(t *testing.T) {
	r := DefaultRegistry(t.TempDir(), nil)

	def := &agent.Definition{
		Name:  "custom",
		Tools: []string{"read_file", "no_such_tool"},
	}

	tools := r.ForAgent(def)
	if len(tools) != 1 {
		t.Fatalf("Unknown tools must be skipped, got %d tools", len(tools))
	}
}

func TestRegistry_EinoToolsFor(t *testing.T) {
	r := DefaultRegistry(t.TempDir(), nil)

	def := &agent.Definition{Name: "devops", Tools: []string{"read_file", "run_command"}}
	adapted := r.EinoToolsFor(def, testContext())
	if len(adapted) != 2 {
		t.Fatalf("Expected 2 adapted tools, got %d", len(adapted))
	}
}

func TestRegistry_ToolInfos(t *testing.T) {
	r := DefaultRegistry(t.TempDir(), nil)

	infos := r.ToolInfos()
	if len(infos) != 7 {
		t.Fatalf("Expected 7 tool infos, got %d", len(infos))
	}
	for _, info := range infos {
		if info.Name == "" || info.Desc == "" {
			t.Errorf("Tool info incomplete: %+v", info)
		}
	}
}
