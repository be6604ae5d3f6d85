package quiz

import "github.com/ramonehamilton/cardquiz/internal/scryfall"

// Phase is the engine's position in the round lifecycle.
type Phase int

const (
	// PhaseNoCard means no card is loaded and none is being fetched.
	PhaseNoCard Phase = iota
	// PhaseLoading means a card fetch is in flight.
	PhaseLoading
	// PhaseActive means a card is shown and awaiting an answer.
	PhaseActive
	// PhaseAnswered means the round has been resolved by a submission
	// or a skip.
	PhaseAnswered
)

func (p Phase) String() string {
	switch p {
	case PhaseNoCard:
		return "NoCard"
	case PhaseLoading:
		return "Loading"
	case PhaseActive:
		return "Active"
	case PhaseAnswered:
		return "Answered"
	default:
		return "Unknown"
	}
}

// Round is the ephemeral state for one sampled card. A round is created
// each time a card is drawn and finalized exactly once, by a submission
// or a skip.
type Round struct {
	Card *scryfall.Card

	// Options is the generated multiple-choice set; nil in free-text mode.
	Options []Option

	Submitted bool
	Guess     string
	Correct   bool
	Skipped   bool
}

// Totals are the monotonically updated session counters. Streak resets to
// zero on any incorrect answer or skip; everything else only grows until
// an explicit reset.
type Totals struct {
	Score        int
	Streak       int
	TotalGuesses int
}

// Accuracy returns the session accuracy as a whole percentage, 0 when no
// guesses have been made.
func (t Totals) Accuracy() int {
	if t.TotalGuesses == 0 {
		return 0
	}
	return int(float64(t.Score)/float64(t.TotalGuesses)*100 + 0.5)
}
