package repl

import (
	"slices"
	"strings"
	"testing"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/saiyan/lang/object"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_bang", "!tr", 3, "tr", 1, 3},
		{"comparison", "a<fo", 4, "fo", 2, 4},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"underscore", "my_var", 6, "my_var", 0, 6},
		{"digits_break", "x1", 2, "", 2, 2},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
		{"inside_block", "fn(x) { ret", 11, "ret", 8, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestEvalCandidates(t *testing.T) {
	outer := object.NewEnvironment()
	outer.Set("total", &object.Integer{Value: 1})
	outer.Set("let", object.True) // listed once even though it is also a keyword

	inner := object.NewEnclosedEnvironment(outer)
	inner.Set("tally", object.False)

	got := evalCandidates(inner)

	for _, want := range []string{"fn", "let", "return", "total", "tally"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates %v missing %q", got, want)
		}
	}

	if !slices.IsSorted(got) || len(slices.Compact(slices.Clone(got))) != len(got) {
		t.Errorf("candidates %v not sorted and unique", got)
	}
}

func TestRenderCandidateBar(t *testing.T) {
	matches := fuzzy.Find("t", []string{"total", "tally", "true", "return"})
	isFunc := func(s string) bool { return s == "tally" }

	bar := renderCandidateBar(matches, -1, false, 200, isFunc)
	for _, want := range []string{"o", "()", "u"} {
		if !strings.Contains(bar, want) {
			t.Errorf("bar %q missing %q", bar, want)
		}
	}

	narrow := renderCandidateBar(matches, -1, false, 12, isFunc)
	if !strings.Contains(narrow, "...") {
		t.Errorf("narrow bar %q not ellipsized", narrow)
	}

	if renderCandidateBar(nil, 0, false, 80, isFunc) != "" {
		t.Error("empty matches rendered")
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		obj  object.Object
		want string
	}{
		{"nil", nil, "<nil>"},
		{"integer", &object.Integer{Value: 42}, "42"},
		{"null", object.Null, "null"},
		{"error", &object.Error{Message: "boom"}, "ERROR: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.obj); got != tt.want {
				t.Errorf("preview = %q, want %q", got, tt.want)
			}
		})
	}

	long := &object.Error{Message: strings.Repeat("x", 100)}
	if got := preview(long); len(got) != 40 || !strings.HasSuffix(got, "...") {
		t.Errorf("long preview = %q", got)
	}
}
