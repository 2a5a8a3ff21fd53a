// Package document models the versioned text documents owned by the host.
// Snapshots are immutable; everything downstream of the host works against a
// snapshot taken at request time.
package document

import (
	"sync"

	"github.com/google/uuid"
)

// Document is a text document identified by the host. The text is versioned:
// every SetText bumps a monotonically increasing stamp, which the oracle uses
// to detect stale requests.
type Document struct {
	id      string
	path    string
	project string

	mu      sync.Mutex
	version int64
	snap    *Snapshot
}

// New creates a document at version 1 with the given text.
// The project tag is optional and only used for locator tie-breaking.
func New(path, project, text string) *Document {
	d := &Document{
		id:      uuid.NewString(),
		path:    path,
		project: project,
		version: 1,
	}
	d.snap = NewSnapshot(path, 1, text)
	return d
}

// ID returns the host-opaque document identifier.
func (d *Document) ID() string {
	return d.id
}

// Path returns the document's file path.
func (d *Document) Path() string {
	return d.path
}

// Project returns the project tag, or "" if the host did not assign one.
func (d *Document) Project() string {
	return d.project
}

// Version returns the current version stamp.
func (d *Document) Version() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Snapshot returns the current immutable snapshot.
func (d *Document) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

// SetText replaces the document text and bumps the version stamp.
func (d *Document) SetText(text string) *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.version++
	d.snap = NewSnapshot(d.path, d.version, text)
	return d.snap
}

// Snapshot is an immutable view of a document's text at one version.
type Snapshot struct {
	Path    string
	Version int64
	Text    string

	// lineStarts[i] is the byte offset of the start of line i+1.
	lineStarts []int
}

// NewSnapshot builds a snapshot and its line index.
func NewSnapshot(path string, version int64, text string) *Snapshot {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Snapshot{
		Path:       path,
		Version:    version,
		Text:       text,
		lineStarts: starts,
	}
}

// LineCount returns the number of lines. The empty document has one line.
func (s *Snapshot) LineCount() int {
	return len(s.lineStarts)
}

// LineStart returns the byte offset at which the 1-based line begins.
// The line must be in [1, LineCount()].
func (s *Snapshot) LineStart(line int) int {
	return s.lineStarts[line-1]
}

// LineEnd returns the byte offset just past the last content byte of the
// 1-based line, excluding the line terminator.
func (s *Snapshot) LineEnd(line int) int {
	end := len(s.Text)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1 // strip '\n'
	}
	if end > s.lineStarts[line-1] && end <= len(s.Text) && end > 0 && s.Text[end-1] == '\r' {
		end--
	}
	return end
}

// LineText returns the 1-based line's content without its terminator.
func (s *Snapshot) LineText(line int) string {
	return s.Text[s.LineStart(line):s.LineEnd(line)]
}

// ValidOffset reports whether offset addresses the text, including the
// end-of-document position.
func (s *Snapshot) ValidOffset(offset int) bool {
	return offset >= 0 && offset <= len(s.Text)
}
