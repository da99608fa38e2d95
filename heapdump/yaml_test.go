// ABOUTME: Tests for the YAML snapshot format
// ABOUTME: Validates parsing, detection and writing

package heapdump

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prateek/schemeheap/graph"
)

func TestYAMLParse(t *testing.T) {
	yamlData := `# snapshot
objects:
- id: 1
  kind: environment
  size: 56
  ptrs: [2]
- id: 2
  kind: lambda
  label: native
  size: 64
roots: [1]
`

	g, err := (&YAML{}).Parse(strings.NewReader(yamlData))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if g.NumObjects() != 2 {
		t.Errorf("Expected 2 objects, got %d", g.NumObjects())
	}
	if f := g.GetObject(2); f == nil || f.Kind != graph.KindLambda || f.Label != "native" {
		t.Errorf("Unexpected object 2: %+v", f)
	}
	if roots := g.GetRoots(); len(roots.IDs) != 1 || roots.IDs[0] != 1 {
		t.Errorf("Expected roots [1], got %v", roots.IDs)
	}
}

func TestYAMLCanParse(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{name: "snapshot", content: "objects:\n- id: 1\n", want: true},
		{name: "comment and marker", content: "# dump\n---\nroots: []\n", want: true},
		{name: "json", content: `{"objects": []}`, want: false},
		{name: "other mapping", content: "policy: always\n", want: false},
		{name: "empty", content: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (&YAML{}).CanParse(strings.NewReader(tt.content)); got != tt.want {
				t.Errorf("CanParse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYAMLRejectsUnknownFields(t *testing.T) {
	_, err := (&YAML{}).Parse(strings.NewReader("objects: []\nroots: []\nextra: 1\n"))
	if err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestYAMLWrite(t *testing.T) {
	g := graph.NewMemGraph()
	g.AddObject(&graph.Object{ID: 1, Kind: graph.KindEnvironment, Label: "scope f", Size: 56, Ptrs: []graph.ObjID{2}})
	g.AddObject(&graph.Object{ID: 2, Kind: graph.KindValue, Label: "closure", Size: 80})
	g.SetRoots(graph.Roots{IDs: []graph.ObjID{1}})

	var buf bytes.Buffer
	if err := Write(&buf, "yaml", g); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "objects:") {
		t.Errorf("Expected objects key first, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "ptrs: [2]") {
		t.Errorf("Expected flow-style ptrs, got %q", buf.String())
	}

	back, err := Open(&buf)
	if err != nil {
		t.Fatalf("Open of written dump failed: %v", err)
	}
	if back.GetObject(1).Label != "scope f" {
		t.Errorf("Unexpected label after reading back: %q", back.GetObject(1).Label)
	}
}
