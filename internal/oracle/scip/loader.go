package scip

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"
	scippb "github.com/sourcegraph/scip/bindings/go/scip"
	"google.golang.org/protobuf/proto"

	"defnav/internal/errors"
)

// occurrence is one symbol occurrence within an indexed document, with its
// range decoded from SCIP's packed form. Coordinates are SCIP-native:
// 0-based lines and columns.
type occurrence struct {
	startLine, startCol int32
	endLine, endCol     int32
	symbol              string
	roles               int32
}

// covers reports whether the occurrence contains the given position.
func (o *occurrence) covers(line, col int32) bool {
	if line < o.startLine || line > o.endLine {
		return false
	}
	if line == o.startLine && col < o.startCol {
		return false
	}
	if line == o.endLine && col >= o.endCol {
		return false
	}
	return true
}

// definition is the declaration site of a symbol.
type definition struct {
	relPath string
	occ     occurrence
}

// Index is a loaded SCIP index, preprocessed for position lookups.
type Index struct {
	// Path is where the index was loaded from.
	Path string

	// LoadedAt is when the index was loaded.
	LoadedAt time.Time

	// ToolName identifies the indexer that produced the index.
	ToolName string

	// ProjectRoot is the root recorded by the indexer.
	ProjectRoot string

	// DocumentCount is the number of indexed documents.
	DocumentCount int

	// docs maps relative paths to their occurrences, sorted by position.
	docs map[string][]occurrence

	// defs maps symbols to their declaration sites.
	defs map[string]definition
}

// LoadIndex reads a SCIP protobuf index from path. Gzip-compressed indexes
// are detected by magic bytes and decompressed transparently.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.IndexMissing,
				fmt.Sprintf("SCIP index not found at %s", path), err)
		}
		return nil, errors.Wrap(errors.InternalError,
			fmt.Sprintf("failed to read SCIP index from %s", path), err)
	}

	if isGzip(data) {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, errors.Wrap(errors.InternalError,
				fmt.Sprintf("failed to open gzip index %s", path), err)
		}
		data, err = io.ReadAll(gz)
		if cerr := gz.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, errors.Wrap(errors.InternalError,
				fmt.Sprintf("failed to decompress index %s", path), err)
		}
	}

	var raw scippb.Index
	if err := proto.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.InternalError,
			fmt.Sprintf("failed to parse SCIP index from %s", path), err)
	}

	idx := &Index{
		Path:          path,
		LoadedAt:      time.Now(),
		DocumentCount: len(raw.Documents),
		docs:          make(map[string][]occurrence, len(raw.Documents)),
		defs:          make(map[string]definition),
	}
	if raw.Metadata != nil {
		idx.ProjectRoot = raw.Metadata.ProjectRoot
		if raw.Metadata.ToolInfo != nil {
			idx.ToolName = raw.Metadata.ToolInfo.Name
		}
	}

	for _, doc := range raw.Documents {
		occs := make([]occurrence, 0, len(doc.Occurrences))
		for _, rawOcc := range doc.Occurrences {
			occ, ok := decodeOccurrence(rawOcc)
			if !ok {
				continue
			}
			occs = append(occs, occ)

			if occ.roles&int32(scippb.SymbolRole_Definition) != 0 {
				// First definition wins when an index repeats one.
				if _, seen := idx.defs[occ.symbol]; !seen {
					idx.defs[occ.symbol] = definition{relPath: doc.RelativePath, occ: occ}
				}
			}
		}

		sort.Slice(occs, func(i, j int) bool {
			if occs[i].startLine != occs[j].startLine {
				return occs[i].startLine < occs[j].startLine
			}
			return occs[i].startCol < occs[j].startCol
		})
		idx.docs[doc.RelativePath] = occs
	}

	return idx, nil
}

// HasDocument reports whether the index covers a relative path.
func (i *Index) HasDocument(relPath string) bool {
	_, ok := i.docs[relPath]
	return ok
}

// OccurrenceAt finds the occurrence covering a SCIP-native position in a
// document, or nil.
func (i *Index) OccurrenceAt(relPath string, line, col int32) *occurrence {
	occs := i.docs[relPath]
	for idx := range occs {
		if occs[idx].covers(line, col) {
			return &occs[idx]
		}
	}
	return nil
}

// DefinitionOf returns the declaration site of a symbol, or nil.
func (i *Index) DefinitionOf(symbol string) *definition {
	if def, ok := i.defs[symbol]; ok {
		return &def
	}
	return nil
}

// SymbolCount returns the number of symbols with known declaration sites.
func (i *Index) SymbolCount() int {
	return len(i.defs)
}

// decodeOccurrence unpacks SCIP's compressed range encoding: 3 elements for
// a single-line range [line, startCol, endCol], 4 for a multi-line one
// [startLine, startCol, endLine, endCol].
func decodeOccurrence(raw *scippb.Occurrence) (occurrence, bool) {
	r := raw.Range
	switch len(r) {
	case 3:
		return occurrence{
			startLine: r[0], startCol: r[1],
			endLine: r[0], endCol: r[2],
			symbol: raw.Symbol,
			roles:  raw.SymbolRoles,
		}, true
	case 4:
		return occurrence{
			startLine: r[0], startCol: r[1],
			endLine: r[2], endCol: r[3],
			symbol: raw.Symbol,
			roles:  raw.SymbolRoles,
		}, true
	default:
		return occurrence{}, false
	}
}

func isGzip(data []byte) bool {
	return len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b
}
