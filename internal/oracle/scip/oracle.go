// Package scip implements the resolution oracle against a SCIP protobuf
// index. Parse and typecheck are admission stages over the index rather than
// real compiler passes: Parse binds a snapshot to its indexed document, and
// Typecheck aborts when the snapshot has gone stale, mirroring the contract
// of a live typechecking service.
package scip

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"defnav/internal/document"
	"defnav/internal/errors"
	"defnav/internal/logging"
	"defnav/internal/oracle"
	"defnav/internal/paths"
	"defnav/internal/project"
	"defnav/internal/storage"
)

// Config configures the SCIP oracle.
type Config struct {
	// IndexPath is the location of the .scip index (optionally gzipped).
	IndexPath string

	// Root anchors relative document paths. Defaults to the index's
	// project root directory semantics: paths are joined onto it.
	Root string

	// Cache is the optional declaration cache. Nil disables caching.
	Cache *storage.DeclCache

	// CacheTTL bounds how long cached declaration lookups stay valid.
	CacheTTL time.Duration
}

// Oracle answers declaration queries from a loaded SCIP index.
type Oracle struct {
	index  *Index
	cfg    Config
	logger *logging.Logger
}

// New loads the index at cfg.IndexPath and returns an oracle over it.
func New(cfg Config, logger *logging.Logger) (*Oracle, error) {
	index, err := LoadIndex(cfg.IndexPath)
	if err != nil {
		return nil, err
	}

	logger.Info("SCIP index loaded", map[string]interface{}{
		"path":      cfg.IndexPath,
		"documents": index.DocumentCount,
		"symbols":   index.SymbolCount(),
		"tool":      index.ToolName,
	})

	return &Oracle{index: index, cfg: cfg, logger: logger}, nil
}

// Index exposes the loaded index for status reporting.
func (o *Oracle) Index() *Index {
	return o.index
}

type parseHandle struct {
	relPath string
	snap    *document.Snapshot
	cfg     *project.CompilationConfig
}

type typecheckHandle struct {
	relPath string
	snap    *document.Snapshot
}

// Parse implements oracle.Oracle. It binds the snapshot to its indexed
// document; a document outside the index cannot be resolved against.
func (o *Oracle) Parse(ctx context.Context, snap *document.Snapshot, cfg *project.CompilationConfig) (oracle.ParseHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.Cancelled, "parse cancelled", err)
	}

	relPath, err := o.relativize(snap.Path)
	if err != nil {
		return nil, err
	}
	if !o.index.HasDocument(relPath) {
		return nil, errors.New(errors.DocumentUnknown,
			fmt.Sprintf("document %s is not covered by the index", relPath))
	}

	return &parseHandle{relPath: relPath, snap: snap, cfg: cfg}, nil
}

// Typecheck implements oracle.Oracle. The version the caller saw must still
// be current; otherwise the result would describe text that no longer
// exists, and the stage aborts.
func (o *Oracle) Typecheck(ctx context.Context, parse oracle.ParseHandle, version int64) (oracle.TypecheckHandle, oracle.TypecheckStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, oracle.TypecheckAborted, errors.Wrap(errors.Cancelled, "typecheck cancelled", err)
	}

	h, ok := parse.(*parseHandle)
	if !ok {
		return nil, oracle.TypecheckAborted, errors.New(errors.InternalError, "foreign parse handle")
	}

	if version != h.snap.Version {
		o.logger.Debug("Typecheck aborted on stale snapshot", map[string]interface{}{
			"path":    h.relPath,
			"parsed":  h.snap.Version,
			"current": version,
		})
		return nil, oracle.TypecheckAborted, nil
	}

	return &typecheckHandle{relPath: h.relPath, snap: h.snap}, oracle.TypecheckCompleted, nil
}

// FindDeclaration implements oracle.Oracle: occurrence lookup at the query
// position, then the symbol's recorded definition site.
func (o *Oracle) FindDeclaration(ctx context.Context, tc oracle.TypecheckHandle, q oracle.DeclQuery) (*oracle.Range, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.Cancelled, "declaration lookup cancelled", err)
	}

	h, ok := tc.(*typecheckHandle)
	if !ok {
		return nil, errors.New(errors.InternalError, "foreign typecheck handle")
	}

	if o.cfg.Cache != nil {
		if rng, hit, err := o.cfg.Cache.Get(h.relPath, h.snap.Version, q.Line, q.Column); err == nil && hit {
			return rng, nil
		}
	}

	// SCIP coordinates are 0-based on both axes.
	occ := o.index.OccurrenceAt(h.relPath, int32(q.Line-1), int32(q.Column))
	if occ == nil {
		return nil, nil
	}

	def := o.index.DefinitionOf(occ.symbol)
	if def == nil {
		return nil, nil
	}

	rng := &oracle.Range{
		Path:        o.absolutize(def.relPath),
		StartLine:   int(def.occ.startLine) + 1,
		StartColumn: int(def.occ.startCol),
		EndLine:     int(def.occ.endLine) + 1,
		EndColumn:   int(def.occ.endCol),
	}

	if o.cfg.Cache != nil {
		ttl := o.cfg.CacheTTL
		if ttl <= 0 {
			ttl = 5 * time.Minute
		}
		if err := o.cfg.Cache.Put(h.relPath, h.snap.Version, q.Line, q.Column, *rng, ttl); err != nil {
			o.logger.Warn("Failed to cache declaration", map[string]interface{}{
				"path":  h.relPath,
				"error": err.Error(),
			})
		}
	}

	return rng, nil
}

// relativize maps a snapshot path onto the index's document key space.
func (o *Oracle) relativize(path string) (string, error) {
	root := o.cfg.Root
	if root == "" {
		return paths.ToSlash(path), nil
	}

	rel, err := filepath.Rel(paths.Canonicalize(root), paths.Canonicalize(path))
	if err != nil {
		return "", errors.Wrap(errors.DocumentUnknown,
			fmt.Sprintf("cannot relativize %s against %s", path, root), err)
	}
	return paths.ToSlash(rel), nil
}

// absolutize turns an index-relative path back into a host path.
func (o *Oracle) absolutize(relPath string) string {
	if o.cfg.Root == "" {
		return relPath
	}
	return filepath.Join(o.cfg.Root, filepath.FromSlash(relPath))
}
