// Package position converts between flat document offsets and the oracle's
// (line, column) coordinate space: 1-based lines, 0-based columns.
package position

import (
	"fmt"
	"sort"

	"defnav/internal/document"
	"defnav/internal/errors"
	"defnav/internal/oracle"
)

// SourcePosition is a cursor position in the oracle's convention.
type SourcePosition struct {
	// Line is 1-based.
	Line int `json:"line"`

	// Column is 0-based, in bytes from the line start.
	Column int `json:"column"`
}

// Span is a half-open [Start, End) byte range in a document's text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// ToOraclePosition maps a flat offset into the snapshot onto an oracle
// position. The offset must lie within [0, len(text)]; the end-of-document
// position is valid so a cursor at EOF can still resolve.
func ToOraclePosition(snap *document.Snapshot, offset int) (SourcePosition, error) {
	if !snap.ValidOffset(offset) {
		return SourcePosition{}, errors.New(errors.InvalidOffset,
			fmt.Sprintf("offset %d outside document %s (len %d)", offset, snap.Path, len(snap.Text)))
	}

	// Find the last line start <= offset.
	line := sort.Search(snap.LineCount(), func(i int) bool {
		return snap.LineStart(i+1) > offset
	})
	// line is now the count of line starts <= offset, i.e. the 1-based line.

	return SourcePosition{
		Line:   line,
		Column: offset - snap.LineStart(line),
	}, nil
}

// ToDocumentSpan maps an oracle range back onto a snapshot, which need not be
// the one the range was produced from. Lines beyond the snapshot fail with
// RangeOutOfDocument; columns beyond a line's content are clamped.
func ToDocumentSpan(snap *document.Snapshot, rng oracle.Range) (Span, error) {
	if rng.StartLine < 1 || rng.EndLine < rng.StartLine || rng.EndLine > snap.LineCount() {
		return Span{}, errors.New(errors.RangeOutOfDocument,
			fmt.Sprintf("range %d:%d-%d:%d does not fit document %s (%d lines)",
				rng.StartLine, rng.StartColumn, rng.EndLine, rng.EndColumn, snap.Path, snap.LineCount()))
	}

	start := offsetAt(snap, rng.StartLine, rng.StartColumn)
	end := offsetAt(snap, rng.EndLine, rng.EndColumn)
	if end < start {
		end = start
	}

	return Span{Start: start, End: end}, nil
}

// offsetAt clamps the column into the line's content before flattening.
func offsetAt(snap *document.Snapshot, line, column int) int {
	start := snap.LineStart(line)
	width := snap.LineEnd(line) - start
	if column < 0 {
		column = 0
	}
	if column > width {
		column = width
	}
	return start + column
}
