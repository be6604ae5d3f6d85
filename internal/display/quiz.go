// Package display renders quiz state for the terminal front end.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ramonehamilton/cardquiz/internal/quiz"
	"github.com/ramonehamilton/cardquiz/internal/scryfall"
)

// QuizDisplayer handles displaying quiz rounds in a readable format.
type QuizDisplayer struct {
	out io.Writer
}

// NewQuizDisplayer creates a displayer writing to stdout.
func NewQuizDisplayer() *QuizDisplayer {
	return &QuizDisplayer{out: os.Stdout}
}

// NewQuizDisplayerTo creates a displayer writing to the given writer.
func NewQuizDisplayerTo(out io.Writer) *QuizDisplayer {
	return &QuizDisplayer{out: out}
}

// DisplayBanner displays the application header and the active sets.
func (d *QuizDisplayer) DisplayBanner(filters quiz.FilterSet, totals quiz.Totals) {
	fmt.Fprintf(d.out, "cardquiz - guess the card name\n")
	fmt.Fprintf(d.out, "══════════════════════════════\n")
	fmt.Fprintf(d.out, "Sets: %s\n", filters)
	if totals.TotalGuesses > 0 {
		fmt.Fprintf(d.out, "Resuming session: %d/%d correct\n", totals.Score, totals.TotalGuesses)
	}
	fmt.Fprintln(d.out)
}

// DisplayPrompt displays the current card prompt and, in multiple-choice
// mode, the numbered options.
func (d *QuizDisplayer) DisplayPrompt(round *quiz.Round) {
	fmt.Fprintf(d.out, "What's the name of this card?\n")
	if url := round.Card.ImageURL("normal"); url != "" {
		fmt.Fprintf(d.out, "├─ Image: %s\n", url)
	}
	fmt.Fprintf(d.out, "└─ Set:   %s\n", strings.ToUpper(round.Card.SetCode))

	for i, opt := range round.Options {
		fmt.Fprintf(d.out, "  [%d] %s\n", i+1, opt.Text)
	}
}

// DisplaySuggestions displays autocomplete suggestions, one per line.
func (d *QuizDisplayer) DisplaySuggestions(names []string) {
	if len(names) == 0 {
		fmt.Fprintf(d.out, "  (no suggestions)\n")
		return
	}
	for _, name := range names {
		fmt.Fprintf(d.out, "  %s\n", name)
	}
}

// DisplayVerdict displays the outcome of a resolved round along with the
// running session totals.
func (d *QuizDisplayer) DisplayVerdict(round *quiz.Round, totals quiz.Totals) {
	if round == nil || !round.Submitted {
		return
	}

	switch {
	case round.Correct:
		fmt.Fprintf(d.out, "Correct! The card is %s\n", round.Card.Name)
	case round.Skipped:
		fmt.Fprintf(d.out, "Skipped. The card is %s\n", round.Card.Name)
	default:
		fmt.Fprintf(d.out, "Incorrect (you guessed %q). The card is %s\n", round.Guess, round.Card.Name)
	}
	fmt.Fprintf(d.out, "Score: %d  Streak: %d  Accuracy: %d%%\n",
		totals.Score, totals.Streak, totals.Accuracy())
}

// DisplaySets displays the available sets in a table.
func (d *QuizDisplayer) DisplaySets(sets []scryfall.Set) {
	if len(sets) == 0 {
		fmt.Fprintf(d.out, "No sets available.\n")
		return
	}

	fmt.Fprintf(d.out, "%-6s %-40s %-8s %s\n", "Code", "Name", "Cards", "Released")
	fmt.Fprintf(d.out, "%s\n", strings.Repeat("─", 68))
	for _, s := range sets {
		fmt.Fprintf(d.out, "%-6s %-40s %-8d %s\n",
			s.Code, truncateString(s.Name, 38), s.CardCount, s.ReleasedAt)
	}
}

// truncateString truncates a string to the specified length, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
