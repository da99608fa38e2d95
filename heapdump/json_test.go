// ABOUTME: Tests for the JSON snapshot format
// ABOUTME: Validates parsing, detection, error handling and writing

package heapdump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prateek/schemeheap/graph"
)

func TestJSONParse(t *testing.T) {
	jsonData := `{
		"objects": [
			{"id": 1, "kind": "environment", "label": "scope x", "size": 56, "ptrs": [2]},
			{"id": 2, "kind": "value", "label": "cons", "size": 80, "ptrs": [3, 3]},
			{"id": 3, "kind": "value", "size": 80}
		],
		"roots": [1]
	}`

	g, err := (&JSON{}).Parse(strings.NewReader(jsonData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if g.NumObjects() != 3 {
		t.Errorf("Expected 3 objects, got %d", g.NumObjects())
	}

	env := g.GetObject(1)
	if env == nil {
		t.Fatal("Object 1 not found")
	}
	if env.Kind != graph.KindEnvironment || env.Label != "scope x" || env.Size != 56 {
		t.Errorf("Unexpected object 1: %+v", env)
	}

	if leaf := g.GetObject(3); leaf.Ptrs == nil {
		t.Error("Expected empty, non-nil ptrs for leaf")
	}

	roots := g.GetRoots()
	if len(roots.IDs) != 1 || roots.IDs[0] != 1 {
		t.Errorf("Expected roots [1], got %v", roots.IDs)
	}
}

func TestJSONCanParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "snapshot", content: `{"objects": [], "roots": []}`, want: true},
		{name: "roots first", content: `{"roots": [1], "objects": []}`, want: true},
		{name: "truncated preview", content: `{"objects": [{"id": 1, "kind": "val`, want: true},
		{name: "other object", content: `{"name": "x"}`, want: false},
		{name: "array", content: `[1, 2]`, want: false},
		{name: "yaml", content: "objects:\n- id: 1\n", want: false},
		{name: "empty", content: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (&JSON{}).CanParse(strings.NewReader(tt.content)); got != tt.want {
				t.Errorf("CanParse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed", content: `{"objects": [`},
		{name: "missing id", content: `{"objects": [{"kind": "value", "size": 1}], "roots": []}`},
		{name: "unknown kind", content: `{"objects": [{"id": 1, "kind": "port"}], "roots": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (&JSON{}).Parse(strings.NewReader(tt.content)); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestJSONWrite(t *testing.T) {
	g := graph.NewMemGraph()
	g.AddObject(&graph.Object{ID: 2, Kind: graph.KindValue, Label: "int 7", Size: 80})
	g.AddObject(&graph.Object{ID: 1, Kind: graph.KindEnvironment, Size: 56, Ptrs: []graph.ObjID{2}})
	g.SetRoots(graph.Roots{IDs: []graph.ObjID{1}})

	var buf bytes.Buffer
	if err := (&JSON{}).Write(&buf, g); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "{\n  \"objects\"") {
		t.Errorf("Expected objects key first, got %q", out[:20])
	}
	if strings.Index(out, `"id": 1`) > strings.Index(out, `"id": 2`) {
		t.Error("Expected objects in ascending ID order")
	}

	back, err := Open(&buf)
	if err != nil {
		t.Fatalf("Open of written dump failed: %v", err)
	}
	if back.NumObjects() != 2 || back.GetObject(2).Label != "int 7" {
		t.Errorf("Unexpected graph after reading back: %d objects", back.NumObjects())
	}
}
