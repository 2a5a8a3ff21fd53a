// Package resolve coordinates the definition-resolution pipeline:
// classify, extract the island, then parse, typecheck and declaration-lookup
// against the oracle. Every stage observes cancellation; a cancelled request
// yields no result, never a partial one.
package resolve

import (
	"context"
	"time"

	"github.com/google/uuid"

	"defnav/internal/classify"
	"defnav/internal/document"
	"defnav/internal/errors"
	"defnav/internal/island"
	"defnav/internal/logging"
	"defnav/internal/oracle"
	"defnav/internal/position"
	"defnav/internal/project"
)

// Result is the outcome of one resolution request. At most one range is
// produced; the oracle's answer is taken as-is, never ranked.
type Result struct {
	// Found reports whether a declaration range was produced.
	Found bool `json:"found"`

	// Range is the declaration range when Found.
	Range oracle.Range `json:"range,omitempty"`

	// Island is the extracted identifier expression, when one was found.
	Island *island.Island `json:"island,omitempty"`

	// RequestID correlates log lines for this request.
	RequestID string `json:"requestId"`
}

// Resolver runs the resolution pipeline. All state is request-scoped; the
// resolver itself only holds collaborators and is safe for concurrent use.
type Resolver struct {
	classifier  classify.Classifier
	oracle      oracle.Oracle
	compilation *project.CompilationConfig
	logger      *logging.Logger
}

// New creates a resolver over the given collaborators. A nil compilation
// config is replaced with the empty default.
func New(classifier classify.Classifier, orc oracle.Oracle, compilation *project.CompilationConfig, logger *logging.Logger) *Resolver {
	if compilation == nil {
		compilation = project.Default()
	}
	return &Resolver{
		classifier:  classifier,
		oracle:      orc,
		compilation: compilation,
		logger:      logger,
	}
}

// FindDefinition resolves the definition of the symbol at offset.
//
// Negative outcomes that are part of normal operation (offset not on an
// identifier, no island, oracle reporting no declaration) return a
// not-found Result with a nil error. Faults (invalid offset, aborted
// typecheck, oracle errors, cancellation) return a non-nil error; callers
// that only care about the two observable outcomes can ignore the
// distinction, which is exactly what TryFindDefinition does.
func (r *Resolver) FindDefinition(ctx context.Context, doc *document.Document, offset int) (Result, error) {
	requestID := uuid.NewString()
	result := Result{RequestID: requestID}
	snap := doc.Snapshot()

	// Stage 1: gate on classification before any oracle work.
	isIdentifier, err := classify.IsIdentifierSpan(ctx, r.classifier, snap, offset)
	if err != nil {
		return result, errors.Wrap(errors.InternalError, "classification failed", err)
	}
	if !isIdentifier {
		r.logger.Debug("Offset not classified as identifier", map[string]interface{}{
			"requestId": requestID,
			"path":      snap.Path,
			"offset":    offset,
		})
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(errors.Cancelled, "resolution cancelled", err)
	}

	// Stage 2: position mapping and island extraction.
	pos, err := position.ToOraclePosition(snap, offset)
	if err != nil {
		return result, err
	}
	lineText := snap.LineText(pos.Line)
	isl := island.Extract(lineText, pos.Column)
	if isl == nil {
		return result, nil
	}
	result.Island = isl

	// Stage 3: parse.
	parse, err := r.oracle.Parse(ctx, snap, r.compilation)
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(errors.Cancelled, "resolution cancelled", err)
	}

	// Stage 4: typecheck against the document's current version. An edit
	// that landed after the snapshot was taken makes the parse stale and
	// must abort rather than answer against text that no longer exists.
	tc, status, err := r.oracle.Typecheck(ctx, parse, doc.Version())
	if err != nil {
		return result, err
	}
	if status == oracle.TypecheckAborted {
		// Terminal for this request; the host re-triggers on the next
		// user action rather than retrying here.
		return result, errors.New(errors.TypecheckAborted, "oracle aborted typecheck")
	}
	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(errors.Cancelled, "resolution cancelled", err)
	}

	// Stage 5: declaration lookup.
	rng, err := r.oracle.FindDeclaration(ctx, tc, oracle.DeclQuery{
		Line:          pos.Line,
		Column:        pos.Column,
		LineText:      lineText,
		Qualifiers:    isl.Qualifiers,
		ExactPosition: true,
	})
	if err != nil {
		return result, err
	}
	if rng == nil {
		r.logger.Debug("No declaration for island", map[string]interface{}{
			"requestId":  requestID,
			"qualifiers": isl.Qualifiers,
		})
		return result, nil
	}

	result.Found = true
	result.Range = *rng
	r.logger.Debug("Declaration resolved", map[string]interface{}{
		"requestId": requestID,
		"path":      rng.Path,
		"line":      rng.StartLine,
	})
	return result, nil
}

// TryFindDefinition is the blocking entry point for hosts that cannot
// await. It runs the pipeline under a timeout and inspects completion:
// unless the pipeline ran to completion with a found range, it reports
// false. No error or panic crosses this boundary.
func (r *Resolver) TryFindDefinition(doc *document.Document, offset int, timeout time.Duration) (Result, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	type outcome struct {
		result Result
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{err: errors.New(errors.InternalError, "resolution panicked")}
			}
		}()
		result, err := r.FindDefinition(ctx, doc, offset)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			r.logger.Debug("Blocking resolution failed", map[string]interface{}{
				"error": out.err.Error(),
			})
			return out.result, false
		}
		return out.result, out.result.Found
	case <-ctx.Done():
		// The pipeline did not run to completion; report failure even if
		// the oracle would eventually have produced a range.
		return Result{}, false
	}
}
