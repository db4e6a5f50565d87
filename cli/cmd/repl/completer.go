package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ecoscript/lang"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "names", "reset", "clear", "quit"}

// isWordBoundary reports whether r delimits identifiers for completion.
// Identifiers are letters, digits and underscores.
func isWordBoundary(r rune) bool {
	return r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// wordBounds returns the word under the cursor and its byte boundaries
// within input. The word is empty when the cursor sits between two
// boundaries.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// computeMatches ranks the completion candidates against the word under the
// cursor. An empty word has no matches, which leaves the hint line visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.session.Names()
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. The selected candidate is highlighted while cycling.
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

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		reserve := ellipsisWidth
		if last {
			reserve = 0
		}

		if i > 0 && used+entryWidth+reserve > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// emphasized. Callables get a "()" suffix that is not part of the
// completion.
func renderCandidate(
	match fuzzy.Match,
	selected bool,
	isFunc func(string) bool,
) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if isFunc != nil && isFunc(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isCallable reports whether name is bound to a callable in the session's
// root environment.
func (m model) isCallable(name string) bool {
	v, ok := m.session.Evaluator().Global().Lookup(name)
	if !ok {
		return false
	}

	_, ok = v.(lang.Callable)

	return ok
}
