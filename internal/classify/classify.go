// Package classify gates resolution on the lexical category of the span
// under the cursor, so definitions are never resolved inside comments,
// strings, or keywords.
package classify

import (
	"context"

	"defnav/internal/document"
)

// Category is the lexical category of a classified span.
type Category string

const (
	CategoryIdentifier Category = "identifier"
	CategoryKeyword    Category = "keyword"
	CategoryComment    Category = "comment"
	CategoryString     Category = "string"
	CategoryNumber     Category = "number"
	CategoryOperator   Category = "operator"
	CategoryUnknown    Category = "unknown"
)

// Classifier tags the span containing an offset with its lexical category.
// Implementations must be safe for concurrent use.
type Classifier interface {
	CategoryAt(ctx context.Context, snap *document.Snapshot, offset int) (Category, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, snap *document.Snapshot, offset int) (Category, error)

// CategoryAt implements Classifier.
func (f Func) CategoryAt(ctx context.Context, snap *document.Snapshot, offset int) (Category, error) {
	return f(ctx, snap, offset)
}

// IsIdentifierSpan reports whether the span at offset is a referenceable
// identifier. This is the gate the coordinator runs before island extraction.
func IsIdentifierSpan(ctx context.Context, c Classifier, snap *document.Snapshot, offset int) (bool, error) {
	category, err := c.CategoryAt(ctx, snap, offset)
	if err != nil {
		return false, err
	}
	return category == CategoryIdentifier, nil
}
