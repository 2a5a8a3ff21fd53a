package workspace

import (
	"defnav/internal/document"
	"defnav/internal/oracle"
	"defnav/internal/position"
)

// NavigableTarget is a resolved range bound to a concrete document: the
// triple the host needs to display and navigate.
type NavigableTarget struct {
	// Document is the matched document in the solution graph.
	Document *document.Document

	// Span is the range mapped into the document's current text.
	Span position.Span

	// Text is the document text covered by the span.
	Text string
}

// Locate maps a resolved range onto a document in the solution graph.
//
// Returns nil when the range's file is outside the known document set:
// cross-project navigation needs wider project-system integration and is
// out of scope here. When several documents share the path, one tagged
// with preferProject wins; otherwise the first registered match does.
func Locate(rng oracle.Range, graph *Graph, preferProject string) *NavigableTarget {
	matches := graph.FindByPath(rng.Path)
	if len(matches) == 0 {
		return nil
	}

	doc := matches[0]
	if preferProject != "" {
		for _, m := range matches {
			if m.Project() == preferProject {
				doc = m
				break
			}
		}
	}

	snap := doc.Snapshot()
	span, err := position.ToDocumentSpan(snap, rng)
	if err != nil {
		// The range no longer fits the document (it changed since the
		// oracle answered). Degrade to "nothing navigable".
		return nil
	}

	return &NavigableTarget{
		Document: doc,
		Span:     span,
		Text:     snap.Text[span.Start:span.End],
	}
}
