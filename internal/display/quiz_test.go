package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ramonehamilton/cardquiz/internal/quiz"
	"github.com/ramonehamilton/cardquiz/internal/scryfall"
)

func testRound(submitted, correct, skipped bool, guess string) *quiz.Round {
	return &quiz.Round{
		Card: &scryfall.Card{
			ID:      "abc",
			Name:    "Lightning Bolt",
			SetCode: "m21",
			ImageURIs: &scryfall.ImageURIs{
				Normal: "https://cards.example/bolt.jpg",
			},
		},
		Submitted: submitted,
		Correct:   correct,
		Skipped:   skipped,
		Guess:     guess,
	}
}

func TestQuizDisplayer_DisplayPrompt(t *testing.T) {
	var buf bytes.Buffer
	d := NewQuizDisplayerTo(&buf)

	d.DisplayPrompt(testRound(false, false, false, ""))

	out := buf.String()
	if !strings.Contains(out, "https://cards.example/bolt.jpg") {
		t.Errorf("prompt missing image URL:\n%s", out)
	}
	if !strings.Contains(out, "M21") {
		t.Errorf("prompt missing upper-cased set code:\n%s", out)
	}
	if strings.Contains(out, "Lightning Bolt") {
		t.Errorf("prompt leaks the answer:\n%s", out)
	}
}

func TestQuizDisplayer_DisplayPromptWithOptions(t *testing.T) {
	var buf bytes.Buffer
	d := NewQuizDisplayerTo(&buf)

	round := testRound(false, false, false, "")
	round.Options = []quiz.Option{
		{Text: "Lightning Bolt", IsCorrect: true},
		{Text: "Counterspell"},
		{Text: "Giant Growth"},
		{Text: "Dark Ritual"},
	}
	d.DisplayPrompt(round)

	out := buf.String()
	for _, want := range []string{"[1]", "[2]", "[3]", "[4]", "Counterspell"} {
		if !strings.Contains(out, want) {
			t.Errorf("options output missing %q:\n%s", want, out)
		}
	}
}

func TestQuizDisplayer_DisplayVerdict(t *testing.T) {
	tests := []struct {
		name  string
		round *quiz.Round
		want  string
	}{
		{name: "correct", round: testRound(true, true, false, "lightning bolt"), want: "Correct!"},
		{name: "skipped", round: testRound(true, false, true, ""), want: "Skipped."},
		{name: "incorrect", round: testRound(true, false, false, "Shock"), want: `Incorrect (you guessed "Shock")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := NewQuizDisplayerTo(&buf)

			d.DisplayVerdict(tt.round, quiz.Totals{Score: 3, Streak: 1, TotalGuesses: 4})

			out := buf.String()
			if !strings.Contains(out, tt.want) {
				t.Errorf("verdict missing %q:\n%s", tt.want, out)
			}
			if !strings.Contains(out, "Accuracy: 75%") {
				t.Errorf("verdict missing accuracy:\n%s", out)
			}
		})
	}
}

func TestQuizDisplayer_DisplayVerdictUnsubmitted(t *testing.T) {
	var buf bytes.Buffer
	d := NewQuizDisplayerTo(&buf)

	d.DisplayVerdict(testRound(false, false, false, ""), quiz.Totals{})

	if buf.Len() != 0 {
		t.Errorf("unsubmitted round produced output:\n%s", buf.String())
	}
}

func TestQuizDisplayer_DisplaySets(t *testing.T) {
	var buf bytes.Buffer
	d := NewQuizDisplayerTo(&buf)

	d.DisplaySets([]scryfall.Set{
		{Code: "neo", Name: "Kamigawa: Neon Dynasty", CardCount: 302, ReleasedAt: "2022-02-18"},
	})

	out := buf.String()
	if !strings.Contains(out, "neo") || !strings.Contains(out, "302") {
		t.Errorf("set table missing fields:\n%s", out)
	}
}

func TestQuizDisplayer_DisplaySuggestions(t *testing.T) {
	var buf bytes.Buffer
	d := NewQuizDisplayerTo(&buf)

	d.DisplaySuggestions(nil)
	if !strings.Contains(buf.String(), "no suggestions") {
		t.Errorf("empty suggestions output = %q", buf.String())
	}

	buf.Reset()
	d.DisplaySuggestions([]string{"Lightning Bolt", "Lightning Helix"})
	if !strings.Contains(buf.String(), "Lightning Helix") {
		t.Errorf("suggestions output = %q", buf.String())
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "no truncation needed", input: "Short", maxLen: 10, expected: "Short"},
		{name: "exact length", input: "Exactly10!", maxLen: 10, expected: "Exactly10!"},
		{name: "needs truncation", input: "This is a very long card name", maxLen: 15, expected: "This is a ve..."},
		{name: "very short maxLen", input: "Hello", maxLen: 3, expected: "Hel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateString(tt.input, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, result, tt.expected)
			}
		})
	}
}
