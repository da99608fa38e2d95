// ABOUTME: YAML encoding of heap snapshots
// ABOUTME: Same document shape as the JSON format, easier to read by hand

package heapdump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"

	"github.com/prateek/schemeheap/graph"
)

// YAML is the YAML snapshot format
type YAML struct{}

// Name returns "yaml"
func (p *YAML) Name() string { return "yaml" }

// CanParse looks for a top-level objects or roots key on the first line that
// is not blank, a comment or a document marker. JSON is left to the JSON
// format even though it is valid YAML.
func (p *YAML) CanParse(r io.Reader) bool {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := bytes.TrimRight(sc.Bytes(), " \t\r")
		if len(line) == 0 || line[0] == '#' || string(line) == "---" {
			continue
		}
		return bytes.HasPrefix(line, []byte("objects:")) || bytes.HasPrefix(line, []byte("roots:"))
	}
	return false
}

// Parse reads the YAML dump and builds a graph
func (p *YAML) Parse(r io.Reader) (graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var d dump
	if err := yaml.UnmarshalStrict(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode YAML: %w", err)
	}

	return fromDump(d)
}

// Write encodes the graph as YAML
func (p *YAML) Write(w io.Writer, g graph.Graph) error {
	data, err := yaml.Marshal(toDump(g))
	if err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	Register(&YAML{})
}
