// Package island extracts the dotted-identifier expression under a cursor.
// An island is the maximal contiguous identifier-or-dot run containing the
// cursor column, split into qualifiers; double-backtick quoted identifiers
// form a single qualifier regardless of embedded dots.
package island

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// QuoteDelimiter delimits quoted identifiers, e.g. ``a.b``.
const QuoteDelimiter = "``"

// Island is the identifier expression found at a cursor position.
type Island struct {
	// Text is the island as written on the line, without quote delimiters.
	Text string `json:"text"`

	// Column is the 0-based byte column of the island's first qualifier.
	// For quoted islands it points at the opening delimiter.
	Column int `json:"column"`

	// Qualifiers are the dot-separated segments, left to right. Never empty
	// when an island is found; quoted islands have exactly one.
	Qualifiers []string `json:"qualifiers"`

	// Quoted marks islands delimited by backtick quoting.
	Quoted bool `json:"quoted"`
}

// Extract finds the island containing column on lineText, or nil when the
// cursor is not within any identifier-like span.
func Extract(lineText string, column int) *Island {
	if column < 0 || column > len(lineText) {
		return nil
	}

	if isl := extractQuoted(lineText, column); isl != nil {
		return isl
	}
	return extractDotted(lineText, column)
}

// extractQuoted handles ``...`` identifiers. The cursor counts as inside the
// island anywhere from the opening delimiter through the closing one.
func extractQuoted(lineText string, column int) *Island {
	search := 0
	for {
		open := strings.Index(lineText[search:], QuoteDelimiter)
		if open < 0 {
			return nil
		}
		open += search

		innerStart := open + len(QuoteDelimiter)
		closeRel := strings.Index(lineText[innerStart:], QuoteDelimiter)
		if closeRel < 0 {
			return nil // unterminated quote, not an island
		}
		closeAt := innerStart + closeRel

		if column >= open && column <= closeAt+len(QuoteDelimiter) {
			inner := lineText[innerStart:closeAt]
			if inner == "" {
				return nil
			}
			return &Island{
				Text:       inner,
				Column:     open,
				Qualifiers: []string{inner},
				Quoted:     true,
			}
		}

		search = closeAt + len(QuoteDelimiter)
	}
}

// extractDotted handles unquoted dotted paths like System.Text.Encoding.
func extractDotted(lineText string, column int) *Island {
	// A cursor sitting immediately after the island still addresses it.
	if column == len(lineText) || !isIslandByteAt(lineText, column) {
		if column == 0 || !isIslandByteAt(lineText, column-1) {
			return nil
		}
		column--
	}

	start := column
	for start > 0 && isIslandByteAt(lineText, start-1) {
		start--
	}
	end := column + 1
	for end < len(lineText) && isIslandByteAt(lineText, end) {
		end++
	}

	// Trim dots that have no identifier on their outer side.
	for start < end && lineText[start] == '.' {
		start++
	}
	for end > start && lineText[end-1] == '.' {
		end--
	}
	if start >= end {
		return nil
	}
	// The cursor was on a trimmed leading dot: nothing under it.
	if column < start {
		return nil
	}

	text := lineText[start:end]
	qualifiers := strings.Split(text, ".")
	for _, q := range qualifiers {
		if q == "" {
			return nil // malformed run like a..b
		}
	}

	return &Island{
		Text:       text,
		Column:     start,
		Qualifiers: qualifiers,
	}
}

// isIslandByteAt reports whether the byte at i belongs to an island:
// an identifier rune or a dot.
func isIslandByteAt(s string, i int) bool {
	if s[i] == '.' {
		return true
	}
	// Step back to the start of the rune covering byte i.
	j := i
	for j > 0 && !utf8.RuneStart(s[j]) {
		j--
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return isIdentRune(r)
}

// isIdentRune matches identifier characters: letters, digits, underscore,
// and apostrophe (legal in the oracle's identifier grammar).
func isIdentRune(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
