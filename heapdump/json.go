// ABOUTME: JSON encoding of heap snapshots
// ABOUTME: Objects with kind, size and outgoing references, plus the root set

package heapdump

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prateek/schemeheap/graph"
)

// JSON is the JSON snapshot format
type JSON struct{}

// Name returns "json"
func (p *JSON) Name() string { return "json" }

// CanParse checks that the document is an object whose first key is one of
// the snapshot keys. Only the head of the dump is inspected, so large dumps
// that do not fit the preview are still recognized.
func (p *JSON) CanParse(r io.Reader) bool {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return false
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return false
	}

	tok, err = dec.Token()
	if err != nil {
		return false
	}
	key, ok := tok.(string)
	return ok && (key == "objects" || key == "roots")
}

// Parse reads the JSON dump and builds a graph
func (p *JSON) Parse(r io.Reader) (graph.Graph, error) {
	var d dump

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	return fromDump(d)
}

// Write encodes the graph as indented JSON
func (p *JSON) Write(w io.Writer, g graph.Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDump(g)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func init() {
	Register(&JSON{})
}
