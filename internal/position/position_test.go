package position

import (
	"testing"

	"defnav/internal/document"
	"defnav/internal/errors"
	"defnav/internal/oracle"
)

func snapshot(text string) *document.Snapshot {
	return document.NewSnapshot("test.fs", 1, text)
}

func TestToOraclePosition(t *testing.T) {
	snap := snapshot("let x = 1\nlet y = x + 1")

	t.Run("first line", func(t *testing.T) {
		pos, err := ToOraclePosition(snap, 4)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Line != 1 || pos.Column != 4 {
			t.Fatalf("got %d:%d, want 1:4", pos.Line, pos.Column)
		}
	})

	t.Run("second line", func(t *testing.T) {
		// Offset 18 is the `x` in `let y = x + 1`.
		pos, err := ToOraclePosition(snap, 18)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Line != 2 || pos.Column != 8 {
			t.Fatalf("got %d:%d, want 2:8", pos.Line, pos.Column)
		}
	})

	t.Run("line boundary", func(t *testing.T) {
		// Offset 10 is the first byte of line 2.
		pos, err := ToOraclePosition(snap, 10)
		if err != nil {
			t.Fatal(err)
		}
		if pos.Line != 2 || pos.Column != 0 {
			t.Fatalf("got %d:%d, want 2:0", pos.Line, pos.Column)
		}
	})

	t.Run("end of document", func(t *testing.T) {
		pos, err := ToOraclePosition(snap, len(snap.Text))
		if err != nil {
			t.Fatal(err)
		}
		if pos.Line != 2 {
			t.Fatalf("EOF position on line %d, want 2", pos.Line)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := ToOraclePosition(snap, len(snap.Text)+1)
		if !errors.HasCode(err, errors.InvalidOffset) {
			t.Fatalf("expected INVALID_OFFSET, got %v", err)
		}
		_, err = ToOraclePosition(snap, -1)
		if !errors.HasCode(err, errors.InvalidOffset) {
			t.Fatalf("expected INVALID_OFFSET, got %v", err)
		}
	})
}

func TestToDocumentSpan(t *testing.T) {
	snap := snapshot("let x = 1\nlet y = x + 1")

	t.Run("maps range to span", func(t *testing.T) {
		span, err := ToDocumentSpan(snap, oracle.Range{
			Path: "test.fs", StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 5,
		})
		if err != nil {
			t.Fatal(err)
		}
		if snap.Text[span.Start:span.End] != "x" {
			t.Fatalf("span covers %q, want %q", snap.Text[span.Start:span.End], "x")
		}
	})

	t.Run("line out of document", func(t *testing.T) {
		_, err := ToDocumentSpan(snap, oracle.Range{StartLine: 3, EndLine: 3})
		if !errors.HasCode(err, errors.RangeOutOfDocument) {
			t.Fatalf("expected RANGE_OUT_OF_DOCUMENT, got %v", err)
		}
	})

	t.Run("column clamped to line width", func(t *testing.T) {
		span, err := ToDocumentSpan(snap, oracle.Range{
			StartLine: 1, StartColumn: 0, EndLine: 1, EndColumn: 500,
		})
		if err != nil {
			t.Fatal(err)
		}
		if snap.Text[span.Start:span.End] != "let x = 1" {
			t.Fatalf("span covers %q", snap.Text[span.Start:span.End])
		}
	})
}

func TestRoundTrip(t *testing.T) {
	snap := snapshot("first line\nsecond line\n\nfourth")

	for offset := 0; offset <= len(snap.Text); offset++ {
		pos, err := ToOraclePosition(snap, offset)
		if err != nil {
			t.Fatalf("offset %d: %v", offset, err)
		}

		// Skip positions that sit on a line terminator: the span mapper
		// clamps to line content, so only content offsets round-trip.
		if pos.Column > snap.LineEnd(pos.Line)-snap.LineStart(pos.Line) {
			continue
		}

		span, err := ToDocumentSpan(snap, oracle.Range{
			StartLine: pos.Line, StartColumn: pos.Column,
			EndLine: pos.Line, EndColumn: pos.Column,
		})
		if err != nil {
			t.Fatalf("offset %d: %v", offset, err)
		}
		if span.Start != offset {
			t.Fatalf("offset %d round-tripped to %d (pos %d:%d)", offset, span.Start, pos.Line, pos.Column)
		}
	}
}
