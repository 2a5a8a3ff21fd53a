package resolve

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"defnav/internal/classify"
	"defnav/internal/document"
	"defnav/internal/errors"
	"defnav/internal/logging"
	"defnav/internal/oracle"
	"defnav/internal/project"
)

// fakeOracle counts stage invocations and serves canned answers.
type fakeOracle struct {
	parseCalls     atomic.Int64
	typecheckCalls atomic.Int64
	declCalls      atomic.Int64

	declRange       *oracle.Range
	typecheckStatus oracle.TypecheckStatus
	blockTypecheck  chan struct{} // when set, Typecheck waits for ctx or close
	parseHook       func()        // runs during Parse, before it returns

	parsedSnap *document.Snapshot
	lastQuery  oracle.DeclQuery
}

func (f *fakeOracle) Parse(ctx context.Context, snap *document.Snapshot, cfg *project.CompilationConfig) (oracle.ParseHandle, error) {
	f.parseCalls.Add(1)
	f.parsedSnap = snap
	if f.parseHook != nil {
		f.parseHook()
	}
	return snap, nil
}

func (f *fakeOracle) Typecheck(ctx context.Context, parse oracle.ParseHandle, version int64) (oracle.TypecheckHandle, oracle.TypecheckStatus, error) {
	f.typecheckCalls.Add(1)
	if f.blockTypecheck != nil {
		select {
		case <-ctx.Done():
			return nil, oracle.TypecheckAborted, errors.Wrap(errors.Cancelled, "typecheck cancelled", ctx.Err())
		case <-f.blockTypecheck:
		}
	}
	if f.typecheckStatus != "" {
		return parse, f.typecheckStatus, nil
	}
	// Same staleness admission the real oracle applies.
	if f.parsedSnap != nil && version != f.parsedSnap.Version {
		return nil, oracle.TypecheckAborted, nil
	}
	return parse, oracle.TypecheckCompleted, nil
}

func (f *fakeOracle) FindDeclaration(ctx context.Context, tc oracle.TypecheckHandle, q oracle.DeclQuery) (*oracle.Range, error) {
	f.declCalls.Add(1)
	f.lastQuery = q
	return f.declRange, nil
}

func classifierOf(category classify.Category) classify.Classifier {
	return classify.Func(func(ctx context.Context, snap *document.Snapshot, offset int) (classify.Category, error) {
		return category, nil
	})
}

func testLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel})
}

func TestFindDefinitionEndToEnd(t *testing.T) {
	// Cursor on the second `x` (line 2, column 8): the oracle answers with
	// the binding on line 1.
	doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
	fake := &fakeOracle{
		declRange: &oracle.Range{Path: "main.fs", StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 5},
	}
	r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

	result, err := r.FindDefinition(context.Background(), doc, 18)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Found {
		t.Fatal("expected a definition")
	}
	if result.Range.StartLine != 1 || result.Range.StartColumn != 4 {
		t.Fatalf("range = %+v", result.Range)
	}
	if result.Island == nil || len(result.Island.Qualifiers) != 1 || result.Island.Qualifiers[0] != "x" {
		t.Fatalf("island = %+v", result.Island)
	}
	if fake.lastQuery.Line != 2 || fake.lastQuery.Column != 8 {
		t.Fatalf("query position = %d:%d", fake.lastQuery.Line, fake.lastQuery.Column)
	}
	if !fake.lastQuery.ExactPosition {
		t.Fatal("query should request exact position")
	}
	if result.RequestID == "" {
		t.Fatal("request id missing")
	}
}

func TestCommentShortCircuitsBeforeOracle(t *testing.T) {
	doc := document.New("main.fs", "app", "// let x = 1")
	fake := &fakeOracle{}
	r := New(classifierOf(classify.CategoryComment), fake, nil, testLogger())

	result, err := r.FindDefinition(context.Background(), doc, 4)
	if err != nil {
		t.Fatal(err)
	}
	if result.Found {
		t.Fatal("comment resolved to a definition")
	}
	if fake.parseCalls.Load() != 0 || fake.typecheckCalls.Load() != 0 || fake.declCalls.Load() != 0 {
		t.Fatalf("oracle touched for a comment: parse=%d typecheck=%d decl=%d",
			fake.parseCalls.Load(), fake.typecheckCalls.Load(), fake.declCalls.Load())
	}
}

func TestNoIslandShortCircuits(t *testing.T) {
	doc := document.New("main.fs", "app", "let x = 1")
	fake := &fakeOracle{}
	r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

	// Offset 7 is the space after `=`: classified identifier by the fake,
	// but no island exists there.
	result, err := r.FindDefinition(context.Background(), doc, 7)
	if err != nil {
		t.Fatal(err)
	}
	if result.Found {
		t.Fatal("whitespace resolved to a definition")
	}
	if fake.parseCalls.Load() != 0 {
		t.Fatal("parse invoked without an island")
	}
}

func TestInvalidOffset(t *testing.T) {
	doc := document.New("main.fs", "app", "let x = 1")
	r := New(classifierOf(classify.CategoryIdentifier), &fakeOracle{}, nil, testLogger())

	_, err := r.FindDefinition(context.Background(), doc, 99)
	if err == nil {
		t.Fatal("expected error for out-of-range offset")
	}
}

func TestTypecheckAbortedIsTerminal(t *testing.T) {
	doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
	fake := &fakeOracle{typecheckStatus: oracle.TypecheckAborted}
	r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

	result, err := r.FindDefinition(context.Background(), doc, 18)
	if !errors.HasCode(err, errors.TypecheckAborted) {
		t.Fatalf("expected TYPECHECK_ABORTED, got %v", err)
	}
	if result.Found {
		t.Fatal("aborted typecheck produced a result")
	}
	if fake.declCalls.Load() != 0 {
		t.Fatal("declaration lookup ran after aborted typecheck")
	}
}

func TestEditDuringRequestAborts(t *testing.T) {
	doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
	fake := &fakeOracle{
		declRange: &oracle.Range{Path: "main.fs", StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 5},
	}
	// The edit lands while the oracle holds the parse of the old text.
	fake.parseHook = func() {
		doc.SetText("let renamed = 1\nlet y = renamed + 1")
	}
	r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

	result, err := r.FindDefinition(context.Background(), doc, 18)
	if !errors.HasCode(err, errors.TypecheckAborted) {
		t.Fatalf("expected TYPECHECK_ABORTED after mid-request edit, got %v", err)
	}
	if result.Found {
		t.Fatal("stale parse produced a result")
	}
	if fake.declCalls.Load() != 0 {
		t.Fatal("declaration lookup ran against stale text")
	}
}

func TestNegativeOutcome(t *testing.T) {
	doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
	fake := &fakeOracle{declRange: nil}
	r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

	result, err := r.FindDefinition(context.Background(), doc, 18)
	if err != nil {
		t.Fatal(err)
	}
	if result.Found {
		t.Fatal("nil oracle range reported as found")
	}
}

func TestBlockingEntryPoint(t *testing.T) {
	t.Run("reports success on completion", func(t *testing.T) {
		doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
		fake := &fakeOracle{
			declRange: &oracle.Range{Path: "main.fs", StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 5},
		}
		r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

		result, ok := r.TryFindDefinition(doc, 18, time.Second)
		if !ok || !result.Found {
			t.Fatalf("ok=%v result=%+v", ok, result)
		}
	})

	t.Run("reports failure when cancelled mid-typecheck", func(t *testing.T) {
		doc := document.New("main.fs", "app", "let x = 1\nlet y = x + 1")
		block := make(chan struct{})
		defer close(block)
		fake := &fakeOracle{
			blockTypecheck: block,
			declRange:      &oracle.Range{Path: "main.fs", StartLine: 1, StartColumn: 4, EndLine: 1, EndColumn: 5},
		}
		r := New(classifierOf(classify.CategoryIdentifier), fake, nil, testLogger())

		result, ok := r.TryFindDefinition(doc, 18, 50*time.Millisecond)
		if ok || result.Found {
			t.Fatalf("cancelled pipeline reported success: ok=%v result=%+v", ok, result)
		}
		if fake.declCalls.Load() != 0 {
			t.Fatal("declaration lookup ran despite cancellation")
		}
	})

	t.Run("reports failure on non-identifier", func(t *testing.T) {
		doc := document.New("main.fs", "app", "// comment")
		r := New(classifierOf(classify.CategoryComment), &fakeOracle{}, nil, testLogger())

		if _, ok := r.TryFindDefinition(doc, 4, time.Second); ok {
			t.Fatal("comment reported as found")
		}
	})
}
