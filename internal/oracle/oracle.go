// Package oracle defines the boundary to the external parse/typecheck/
// declaration-lookup service. The pipeline treats the oracle as a black box:
// it owns all parse and typecheck caching, and its handles are opaque.
package oracle

import (
	"context"

	"defnav/internal/document"
	"defnav/internal/project"
)

// Range is a resolved source range in the oracle's coordinate space:
// 1-based lines, 0-based columns.
type Range struct {
	// Path is the file the range points into, as reported by the oracle.
	Path string `json:"path"`

	// StartLine is the starting line (1-based)
	StartLine int `json:"startLine"`

	// StartColumn is the starting column (0-based)
	StartColumn int `json:"startColumn"`

	// EndLine is the ending line (1-based)
	EndLine int `json:"endLine"`

	// EndColumn is the ending column (0-based, exclusive)
	EndColumn int `json:"endColumn"`
}

// ParseHandle is an opaque reference to a parse result held by the oracle.
type ParseHandle interface{}

// TypecheckHandle is an opaque reference to a typecheck result.
type TypecheckHandle interface{}

// TypecheckStatus reports how the typecheck stage ended.
type TypecheckStatus string

const (
	// TypecheckCompleted means the typecheck result is usable.
	TypecheckCompleted TypecheckStatus = "completed"
	// TypecheckAborted means the oracle gave up (stale snapshot, cancelled
	// internally). Terminal for the current request; the caller re-issues.
	TypecheckAborted TypecheckStatus = "aborted"
)

// DeclQuery identifies the symbol whose declaration is requested.
type DeclQuery struct {
	// Line is the cursor line (1-based).
	Line int

	// Column is the cursor column (0-based).
	Column int

	// LineText is the full text of the cursor line.
	LineText string

	// Qualifiers are the island's dot-separated segments, left to right.
	Qualifiers []string

	// ExactPosition requires the declaration lookup to match the cursor
	// position exactly rather than the nearest enclosing symbol.
	ExactPosition bool
}

// Oracle is the external resolution service. Implementations must be safe
// for concurrent use; every method must honor context cancellation.
type Oracle interface {
	// Parse submits document text plus compilation configuration.
	Parse(ctx context.Context, snap *document.Snapshot, cfg *project.CompilationConfig) (ParseHandle, error)

	// Typecheck submits a parse handle together with the document version
	// the caller saw. A stale version yields TypecheckAborted.
	Typecheck(ctx context.Context, parse ParseHandle, version int64) (TypecheckHandle, TypecheckStatus, error)

	// FindDeclaration asks for the declaration of the symbol identified by
	// the query. A nil range with nil error means "no declaration found",
	// a normal negative outcome, not a fault.
	FindDeclaration(ctx context.Context, tc TypecheckHandle, q DeclQuery) (*Range, error)
}
