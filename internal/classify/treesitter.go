//go:build cgo

package classify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"defnav/internal/document"
)

// TreeSitterClassifier classifies spans by parsing the snapshot with
// tree-sitter and inspecting the smallest node containing the offset.
// The language is picked from the snapshot's file extension.
type TreeSitterClassifier struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewTreeSitterClassifier creates a tree-sitter backed classifier.
func NewTreeSitterClassifier() *TreeSitterClassifier {
	return &TreeSitterClassifier{
		parser: sitter.NewParser(),
	}
}

// CategoryAt implements Classifier.
func (c *TreeSitterClassifier) CategoryAt(ctx context.Context, snap *document.Snapshot, offset int) (Category, error) {
	if offset < 0 || offset > len(snap.Text) {
		return CategoryUnknown, fmt.Errorf("offset %d outside document %s", offset, snap.Path)
	}

	lang, ok := languageForPath(snap.Path)
	if !ok {
		return CategoryUnknown, fmt.Errorf("no grammar for %s", snap.Path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.parser.SetLanguage(lang)
	tree, err := c.parser.ParseCtx(ctx, nil, []byte(snap.Text))
	if err != nil {
		return CategoryUnknown, fmt.Errorf("parse %s: %w", snap.Path, err)
	}
	defer tree.Close()

	node := smallestNodeAt(tree.RootNode(), uint32(offset))
	if node == nil {
		return CategoryUnknown, nil
	}
	return categorize(node), nil
}

// languageForPath maps a file extension to a tree-sitter grammar.
func languageForPath(path string) (*sitter.Language, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return golang.GetLanguage(), true
	case ".py":
		return python.GetLanguage(), true
	case ".js", ".jsx", ".mjs":
		return javascript.GetLanguage(), true
	case ".ts":
		return typescript.GetLanguage(), true
	default:
		return nil, false
	}
}

// smallestNodeAt descends to the smallest node whose byte range covers offset.
func smallestNodeAt(root *sitter.Node, offset uint32) *sitter.Node {
	if root == nil || offset < root.StartByte() || offset >= root.EndByte() {
		return nil
	}

	node := root
	for {
		var next *sitter.Node
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if offset >= child.StartByte() && offset < child.EndByte() {
				next = child
				break
			}
		}
		if next == nil {
			return node
		}
		node = next
	}
}

// categorize maps a tree-sitter node to a lexical category.
func categorize(node *sitter.Node) Category {
	nodeType := node.Type()

	switch {
	case strings.Contains(nodeType, "comment"):
		return CategoryComment
	case strings.Contains(nodeType, "string") || nodeType == "rune_literal" || nodeType == "char_literal" || nodeType == "escape_sequence":
		return CategoryString
	case strings.Contains(nodeType, "identifier"):
		return CategoryIdentifier
	case nodeType == "int_literal" || nodeType == "float_literal" ||
		nodeType == "imaginary_literal" || nodeType == "integer" ||
		nodeType == "float" || nodeType == "number":
		return CategoryNumber
	}

	if !node.IsNamed() {
		// Anonymous nodes are the grammar's literal tokens: keywords if they
		// start with a letter, operators/punctuation otherwise.
		r, _ := utf8.DecodeRuneInString(nodeType)
		if unicode.IsLetter(r) {
			return CategoryKeyword
		}
		return CategoryOperator
	}

	return CategoryUnknown
}
