//go:build !cgo

package classify

import (
	"context"
	"fmt"

	"defnav/internal/document"
)

// TreeSitterClassifier is unavailable without cgo; CategoryAt always errors.
// Hosts built without cgo supply their own Classifier.
type TreeSitterClassifier struct{}

// NewTreeSitterClassifier returns the no-op stub.
func NewTreeSitterClassifier() *TreeSitterClassifier {
	return &TreeSitterClassifier{}
}

// CategoryAt implements Classifier.
func (c *TreeSitterClassifier) CategoryAt(ctx context.Context, snap *document.Snapshot, offset int) (Category, error) {
	return CategoryUnknown, fmt.Errorf("tree-sitter classifier requires cgo")
}
