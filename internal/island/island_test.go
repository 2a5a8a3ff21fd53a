package island

import (
	"reflect"
	"strings"
	"testing"
)

func TestQuotedIsland(t *testing.T) {
	line := "let ``a.b`` = 1"

	t.Run("inside quotes keeps dots", func(t *testing.T) {
		// Any column from the opening delimiter through the closing one.
		for col := 4; col <= 10; col++ {
			isl := Extract(line, col)
			if isl == nil {
				t.Fatalf("col %d: expected island", col)
			}
			if !isl.Quoted {
				t.Fatalf("col %d: island not marked quoted", col)
			}
			if !reflect.DeepEqual(isl.Qualifiers, []string{"a.b"}) {
				t.Fatalf("col %d: qualifiers = %v", col, isl.Qualifiers)
			}
			if isl.Column != 4 {
				t.Fatalf("col %d: island column = %d, want 4", col, isl.Column)
			}
		}
	})

	t.Run("outside quotes falls through", func(t *testing.T) {
		isl := Extract(line, 0) // on "let"
		if isl == nil || isl.Quoted {
			t.Fatalf("expected unquoted island for let, got %+v", isl)
		}
	})

	t.Run("unterminated quote falls back to plain extraction", func(t *testing.T) {
		isl := Extract("x ``broken", 4)
		if isl == nil || isl.Quoted || isl.Text != "broken" {
			t.Fatalf("got %+v", isl)
		}
	})

	t.Run("empty quote", func(t *testing.T) {
		if isl := Extract("````", 2); isl != nil {
			t.Fatalf("empty quote produced island %+v", isl)
		}
	})
}

func TestDottedIsland(t *testing.T) {
	line := "System.Text.Encoding"

	t.Run("cursor on middle segment", func(t *testing.T) {
		isl := Extract(line, strings.Index(line, "Text")+1)
		if isl == nil {
			t.Fatal("expected island")
		}
		want := []string{"System", "Text", "Encoding"}
		if !reflect.DeepEqual(isl.Qualifiers, want) {
			t.Fatalf("qualifiers = %v, want %v", isl.Qualifiers, want)
		}
		if isl.Column != 0 {
			t.Fatalf("island column = %d, want 0 (start of System)", isl.Column)
		}
		if isl.Quoted {
			t.Fatal("dotted island marked quoted")
		}
	})

	t.Run("cursor on dot", func(t *testing.T) {
		isl := Extract(line, 6)
		if isl == nil || len(isl.Qualifiers) != 3 {
			t.Fatalf("cursor on interior dot should find the island, got %+v", isl)
		}
	})

	t.Run("single segment", func(t *testing.T) {
		isl := Extract("let y = x + 1", 8)
		if isl == nil || !reflect.DeepEqual(isl.Qualifiers, []string{"x"}) {
			t.Fatalf("got %+v", isl)
		}
		if isl.Column != 8 {
			t.Fatalf("column = %d, want 8", isl.Column)
		}
	})

	t.Run("cursor just after identifier", func(t *testing.T) {
		isl := Extract("foo bar", 3)
		if isl == nil || isl.Text != "foo" {
			t.Fatalf("got %+v", isl)
		}
	})

	t.Run("cursor at end of line", func(t *testing.T) {
		isl := Extract("foo", 3)
		if isl == nil || isl.Text != "foo" {
			t.Fatalf("got %+v", isl)
		}
	})
}

func TestNoIsland(t *testing.T) {
	cases := []struct {
		name string
		line string
		col  int
	}{
		{"whitespace", "let x = 1", 7},
		{"operator", "a + b", 2},
		{"empty line", "", 0},
		{"lone dot", " . ", 1},
		{"dot run", "..", 1},
		{"leading dot before space", ".  x", 0},
		{"negative column", "abc", -1},
		{"column past end", "abc", 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if isl := Extract(tc.line, tc.col); isl != nil {
				t.Fatalf("expected no island, got %+v", isl)
			}
		})
	}
}

func TestMalformedDotRun(t *testing.T) {
	if isl := Extract("a..b", 0); isl != nil {
		t.Fatalf("a..b should not form an island, got %+v", isl)
	}
}

func TestTrailingDot(t *testing.T) {
	// Cursor on a trailing dot with an identifier on its left: the
	// identifier is the island; the dot is trimmed.
	isl := Extract("consoleWriter.", 13)
	if isl == nil || isl.Text != "consoleWriter" {
		t.Fatalf("got %+v", isl)
	}
}

func TestPrimeAndUnderscore(t *testing.T) {
	isl := Extract("let x' = my_value", 11)
	if isl == nil || isl.Text != "my_value" {
		t.Fatalf("underscore identifier: got %+v", isl)
	}

	isl = Extract("let x' = 1", 5)
	if isl == nil || isl.Text != "x'" {
		t.Fatalf("prime identifier: got %+v", isl)
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	line := "let héllo = 1"
	isl := Extract(line, strings.Index(line, "héllo")+2)
	if isl == nil || isl.Text != "héllo" {
		t.Fatalf("got %+v", isl)
	}
}
