package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/saiyan/lang/object"
	"github.com/ardnew/saiyan/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "env", "edit", "reset", "clear", "quit"}

// isWordRune reports whether r can appear in an identifier, the unit of
// completion. Everything else (operators, delimiters, spaces, digits) ends a
// word.
func isWordRune(r rune) bool { return r == '_' || unicode.IsLetter(r) }

// wordBounds returns the word around cursor and its byte offsets in input.
// The word is empty when the cursor is not touching an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isWordRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isWordRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// evalCandidates returns the keywords and every name bound in env, sorted and
// without duplicates.
func evalCandidates(env *object.Environment) []string {
	names := token.Keywords()

	for e := env; e != nil; e = e.Outer() {
		names = append(names, e.Names()...)
	}

	slices.Sort(names)

	return slices.Compact(names)
}

// computeMatches ranks the candidates for the word at the cursor, best first.
// An empty word has no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = evalCandidates(m.session.Env())
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, cut with an
// ellipsis to fit width. The selected candidate is highlighted while tabbing.
// isFunc reports candidates bound to functions, which get a "()" suffix.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		last := i == len(matches)-1
		if i > 0 && ((used+w > room && !last) || used+w > width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched runes emphasized.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base := suggestionStyle
	emph := suggestionStyle.Bold(true)

	if selected {
		base = selectedStyle
		emph = selectedStyle.Bold(true)
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(emph.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// preview is a one-line summary of a bound value for the env listing.
func preview(obj object.Object) string {
	const limit = 40

	if obj == nil {
		return "<nil>"
	}

	s := strings.Join(strings.Fields(obj.Inspect()), " ")
	if utf8.RuneCountInString(s) > limit {
		s = string([]rune(s)[:limit-3]) + "..."
	}

	return s
}
