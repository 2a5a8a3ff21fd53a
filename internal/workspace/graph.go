// Package workspace models the solution graph, the set of documents known
// to the current session, and maps resolved ranges back onto its documents.
package workspace

import (
	"sync"

	"defnav/internal/document"
	"defnav/internal/paths"
)

// Graph is the set of open documents, in registration order. Multiple
// documents may share a path (e.g. one file referenced by two projects).
type Graph struct {
	mu   sync.RWMutex
	docs []*document.Document
}

// NewGraph creates an empty solution graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Add registers a document. Registration order is preserved; it is the
// locator's tie-break of last resort.
func (g *Graph) Add(doc *document.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.docs = append(g.docs, doc)
}

// Documents returns the registered documents in order.
func (g *Graph) Documents() []*document.Document {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*document.Document, len(g.docs))
	copy(out, g.docs)
	return out
}

// Len returns the number of registered documents.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.docs)
}

// FindByPath returns all documents whose path matches after
// canonicalization, in registration order.
func (g *Graph) FindByPath(path string) []*document.Document {
	canonical := paths.Canonicalize(path)

	g.mu.RLock()
	defer g.mu.RUnlock()

	var matches []*document.Document
	for _, doc := range g.docs {
		if paths.Canonicalize(doc.Path()) == canonical {
			matches = append(matches, doc)
		}
	}
	return matches
}
