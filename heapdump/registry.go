// ABOUTME: Registry for heap snapshot formats
// ABOUTME: Detects the format of a dump on read and selects a writer by name

package heapdump

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/prateek/schemeheap/graph"
)

var (
	// ErrNoParser is returned when no format can handle the dump
	ErrNoParser = errors.New("no parser found for dump format")

	// ErrUnknownFormat is returned when writing with an unregistered name
	ErrUnknownFormat = errors.New("unknown dump format")
)

// detectSize is how much of a dump formats see in CanParse
const detectSize = 4096

// formatRegistry holds registered formats in registration order
type formatRegistry struct {
	mu      sync.RWMutex
	formats []Format
}

var registry = &formatRegistry{
	formats: make([]Format, 0),
}

// Register adds a format to the registry
func Register(f Format) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.formats = append(registry.formats, f)
}

// Lookup returns the most recently registered format with the given name
func Lookup(name string) (Format, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	for i := len(registry.formats) - 1; i >= 0; i-- {
		if registry.formats[i].Name() == name {
			return registry.formats[i], true
		}
	}
	return nil, false
}

// Open reads a dump and returns its graph. Formats are tried in
// registration order; the first whose CanParse accepts the head wins.
func Open(r io.Reader) (graph.Graph, error) {
	br := bufio.NewReaderSize(r, detectSize)
	head, err := br.Peek(detectSize)
	if err != nil && err != io.EOF && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, err
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	for _, f := range registry.formats {
		if f.CanParse(bytes.NewReader(head)) {
			return f.Parse(br)
		}
	}

	return nil, ErrNoParser
}

// Write serializes g with the named format
func Write(w io.Writer, name string, g graph.Graph) error {
	f, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	return f.Write(w, g)
}
