package repl

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
)

func newCompletionModel(value string, cursor int, mode inputMode, symbols []string) model {
	ti := textinput.New()
	ti.SetValue(value)
	ti.SetCursor(cursor)

	return model{
		input:   ti,
		mode:    mode,
		symbols: symbols,
	}
}

func TestIsWordBoundary(t *testing.T) {
	boundaries := []rune{' ', '\t', '\n', '(', ')', '[', ']', '{', '}', '\'', '`', '~', '^', '@', '"'}
	for _, r := range boundaries {
		if !isWordBoundary(r) {
			t.Errorf("isWordBoundary(%q) = false, want true", r)
		}
	}

	nonBoundaries := []rune{'+', '-', '!', '?', '<', '>', '=', 'a', '1', '_'}
	for _, r := range nonBoundaries {
		if isWordBoundary(r) {
			t.Errorf("isWordBoundary(%q) = true, want false", r)
		}
	}
}

func TestWordBoundsSymbolWithPunctuation(t *testing.T) {
	for _, word := range []string{"list?", "set!", "+", "empty?", "*ARGV*"} {
		t.Run(word, func(t *testing.T) {
			input := "(" + word + " "
			got, start, end := wordBounds(input, len(input)-1)
			if got != word {
				t.Fatalf("wordBounds(%q) = %q, want %q", input, got, word)
			}

			if start != 1 || end != len(input)-1 {
				t.Fatalf("bounds = [%d:%d], want [1:%d]", start, end, len(input)-1)
			}
		})
	}
}

func TestWordBoundsEmptyAtBoundary(t *testing.T) {
	got, start, end := wordBounds("()", 1)
	if got != "" || start != 1 || end != 1 {
		t.Fatalf("wordBounds at boundary = %q [%d:%d], want empty", got, start, end)
	}
}

func TestComputeMatchesEvalMode(t *testing.T) {
	m := newCompletionModel("(lis", 4, modeEval, []string{"list", "list?", "cons", "count"})

	matches, candidates, ws, we := m.computeMatches()

	if ws != 1 || we != 4 {
		t.Fatalf("word bounds = [%d:%d], want [1:4]", ws, we)
	}

	if len(candidates) != 4 {
		t.Fatalf("candidates = %v, want 4 entries", candidates)
	}

	if len(matches) == 0 {
		t.Fatal("expected fuzzy matches for \"lis\" against list/list?")
	}
}

func TestComputeMatchesCtrlMode(t *testing.T) {
	m := newCompletionModel("he", 2, modeCtrl, nil)

	matches, candidates, _, _ := m.computeMatches()

	if len(candidates) != len(ctrlCommands) {
		t.Fatalf("candidates = %v, want %v", candidates, ctrlCommands)
	}

	found := false

	for _, match := range matches {
		if match.Str == "help" {
			found = true
		}
	}

	if !found {
		t.Fatalf("expected \"help\" among matches, got %v", matches)
	}
}

func TestComputeMatchesEmptyWord(t *testing.T) {
	m := newCompletionModel("()", 1, modeEval, []string{"foo"})

	matches, candidates, _, _ := m.computeMatches()
	if matches != nil || candidates != nil {
		t.Fatalf("expected no matches at a word boundary, got matches=%v candidates=%v", matches, candidates)
	}
}

func TestComputeMatchesNoSymbols(t *testing.T) {
	m := newCompletionModel("foo", 3, modeEval, nil)

	matches, candidates, _, _ := m.computeMatches()
	if matches != nil || candidates != nil {
		t.Fatalf("expected no matches with empty symbol table, got matches=%v candidates=%v", matches, candidates)
	}
}
