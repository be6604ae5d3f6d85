package quiz

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/ramonehamilton/cardquiz/internal/scryfall"
	"github.com/ramonehamilton/cardquiz/internal/store"
)

// brokenStore fails every operation, standing in for an unavailable
// database.
type brokenStore struct{}

func (brokenStore) Load(context.Context) (*store.Snapshot, error) {
	return nil, errors.New("database unavailable")
}

func (brokenStore) Save(context.Context, *store.Snapshot) error {
	return errors.New("database unavailable")
}

func (brokenStore) Clear(context.Context) error { return errors.New("database unavailable") }
func (brokenStore) Close() error                { return nil }

func newTestEngine(t *testing.T, cfg EngineConfig) *Engine {
	t.Helper()
	if cfg.Searcher == nil {
		cfg.Searcher = &pagedCorpus{cards: makeCards("neo", 30), pageSize: 175}
	}
	if cfg.Suggester == nil {
		cfg.Suggester = suggestFunc(noSuggestions)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(1))
	}
	if cfg.Filters.Empty() {
		cfg.Filters = NewFilterSet("neo")
	}

	engine, err := NewEngine(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func TestNewEngine_RequiresClients(t *testing.T) {
	ctx := context.Background()
	searcher := &pagedCorpus{cards: makeCards("neo", 5), pageSize: 175}

	if _, err := NewEngine(ctx, EngineConfig{Suggester: suggestFunc(noSuggestions)}); err == nil {
		t.Error("expected error without a searcher")
	}
	if _, err := NewEngine(ctx, EngineConfig{Searcher: searcher}); err == nil {
		t.Error("expected error without a suggester")
	}
}

func TestEngine_StartsWithNoCard(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})

	if engine.Phase() != PhaseNoCard {
		t.Errorf("initial phase = %v, want %v", engine.Phase(), PhaseNoCard)
	}
	if engine.Round() != nil {
		t.Error("expected no round before the first draw")
	}
}

func TestEngine_CorrectGuess(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if engine.Phase() != PhaseActive {
		t.Fatalf("phase after draw = %v, want %v", engine.Phase(), PhaseActive)
	}

	resolved, err := engine.SubmitGuess(ctx, round.Card.Name)
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	if !resolved.Correct {
		t.Error("exact guess judged incorrect")
	}
	if engine.Phase() != PhaseAnswered {
		t.Errorf("phase after answer = %v, want %v", engine.Phase(), PhaseAnswered)
	}
	if got := engine.Totals(); got.Score != 1 || got.Streak != 1 || got.TotalGuesses != 1 {
		t.Errorf("totals = %+v, want score 1, streak 1, guesses 1", got)
	}
}

func TestEngine_GuessMatchingIsLenient(t *testing.T) {
	searcher := searchFunc(func(ctx context.Context, query string, page int) (*scryfall.SearchPage, error) {
		return &scryfall.SearchPage{
			Object:     "list",
			TotalCards: 1,
			Data:       []scryfall.Card{{ID: "1", Name: "Jace, the Mind Sculptor", SetCode: "wwk"}},
		}, nil
	})
	engine := newTestEngine(t, EngineConfig{Searcher: searcher, Filters: NewFilterSet("wwk")})
	ctx := context.Background()

	if _, err := engine.NextCard(ctx); err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}

	round, err := engine.SubmitGuess(ctx, "  jace the mind sculptor ")
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if !round.Correct {
		t.Error("normalized guess judged incorrect")
	}
}

func TestEngine_WrongGuessResetsStreak(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	if _, err := engine.NextCard(ctx); err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	resolved, err := engine.SubmitGuess(ctx, "definitely wrong")
	if err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	if resolved.Correct {
		t.Error("wrong guess judged correct")
	}
	if got := engine.Totals(); got.Score != 1 || got.Streak != 0 || got.TotalGuesses != 2 {
		t.Errorf("totals = %+v, want score 1, streak 0, guesses 2", got)
	}
}

func TestEngine_Skip(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	if _, err := engine.NextCard(ctx); err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}

	round, err := engine.Skip(ctx)
	if err != nil {
		t.Fatalf("Skip failed: %v", err)
	}

	if !round.Skipped || round.Correct {
		t.Errorf("round = %+v, want skipped and incorrect", round)
	}
	if round.Guess != "" {
		t.Errorf("skip recorded guess %q, want empty", round.Guess)
	}
	if got := engine.Totals(); got.Score != 0 || got.Streak != 0 || got.TotalGuesses != 1 {
		t.Errorf("totals = %+v, want score 0, streak 0, guesses 1", got)
	}
}

func TestEngine_EmptyGuessRejected(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	if _, err := engine.NextCard(ctx); err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}

	if _, err := engine.SubmitGuess(ctx, "   "); !errors.Is(err, ErrEmptyGuess) {
		t.Fatalf("SubmitGuess(blank) error = %v, want ErrEmptyGuess", err)
	}

	// The round stays open and the totals are untouched.
	if engine.Phase() != PhaseActive {
		t.Errorf("phase after rejected guess = %v, want %v", engine.Phase(), PhaseActive)
	}
	if got := engine.Totals(); got.TotalGuesses != 0 {
		t.Errorf("rejected guess counted: totals = %+v", got)
	}
}

func TestEngine_SubmitWithoutRound(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	if _, err := engine.SubmitGuess(ctx, "anything"); !errors.Is(err, ErrNoActiveRound) {
		t.Errorf("SubmitGuess error = %v, want ErrNoActiveRound", err)
	}
	if _, err := engine.Skip(ctx); !errors.Is(err, ErrNoActiveRound) {
		t.Errorf("Skip error = %v, want ErrNoActiveRound", err)
	}

	// Double-submit: the second resolution must be rejected.
	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); !errors.Is(err, ErrNoActiveRound) {
		t.Errorf("second SubmitGuess error = %v, want ErrNoActiveRound", err)
	}
}

func TestEngine_MultipleChoice(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{Mode: ModeMultipleChoice})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if len(round.Options) != OptionCount {
		t.Fatalf("got %d options, want %d", len(round.Options), OptionCount)
	}

	if _, err := engine.SubmitChoice(ctx, OptionCount); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("out-of-range choice error = %v, want ErrInvalidChoice", err)
	}
	if _, err := engine.SubmitChoice(ctx, -1); !errors.Is(err, ErrInvalidChoice) {
		t.Errorf("negative choice error = %v, want ErrInvalidChoice", err)
	}

	correctIdx := -1
	for i, opt := range round.Options {
		if opt.IsCorrect {
			correctIdx = i
		}
	}
	resolved, err := engine.SubmitChoice(ctx, correctIdx)
	if err != nil {
		t.Fatalf("SubmitChoice failed: %v", err)
	}
	if !resolved.Correct {
		t.Error("correct choice judged incorrect")
	}
	if resolved.Guess != round.Card.Name {
		t.Errorf("choice recorded guess %q, want %q", resolved.Guess, round.Card.Name)
	}
}

func TestEngine_FreeTextRoundHasNoOptions(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{Mode: ModeFreeText})

	round, err := engine.NextCard(context.Background())
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if len(round.Options) != 0 {
		t.Errorf("free-text round has %d options, want 0", len(round.Options))
	}
}

func TestEngine_SamplingErrorReturnsToNoCard(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{Filters: NewFilterSet("neo")})
	engine.SetFilters(NewFilterSet())

	_, err := engine.NextCard(context.Background())
	if !IsEmptyPool(err) {
		t.Fatalf("NextCard error = %v, want EmptyPoolError", err)
	}
	if engine.Phase() != PhaseNoCard {
		t.Errorf("phase after failed draw = %v, want %v", engine.Phase(), PhaseNoCard)
	}
	if engine.Round() != nil {
		t.Error("round left behind after failed draw")
	}
}

func TestEngine_PersistsAfterResolution(t *testing.T) {
	mem := store.NewMemoryStore()
	engine := newTestEngine(t, EngineConfig{Store: mem})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	snap, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Score != 1 || snap.Streak != 1 || snap.TotalGuesses != 1 {
		t.Errorf("persisted snapshot = %+v, want score 1, streak 1, guesses 1", snap)
	}
	if snap.LastCardName != round.Card.Name || !snap.LastCorrect {
		t.Errorf("last round not persisted: %+v", snap)
	}
}

func TestEngine_RestoresPersistedTotals(t *testing.T) {
	mem := store.NewMemoryStore()
	snap := store.NewSnapshot()
	snap.Score = 7
	snap.Streak = 3
	snap.TotalGuesses = 12
	if err := mem.Save(context.Background(), snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	engine := newTestEngine(t, EngineConfig{Store: mem})

	if got := engine.Totals(); got.Score != 7 || got.Streak != 3 || got.TotalGuesses != 12 {
		t.Errorf("restored totals = %+v, want score 7, streak 3, guesses 12", got)
	}
}

func TestEngine_BrokenStoreDegradesToMemory(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{Store: brokenStore{}})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); err != nil {
		t.Fatalf("SubmitGuess failed despite broken store: %v", err)
	}

	if got := engine.Totals(); got.Score != 1 {
		t.Errorf("totals not tracked in memory: %+v", got)
	}
}

func TestEngine_Reset(t *testing.T) {
	mem := store.NewMemoryStore()
	filters := NewFilterSet("neo")
	engine := newTestEngine(t, EngineConfig{Store: mem, Filters: filters})
	ctx := context.Background()

	round, err := engine.NextCard(ctx)
	if err != nil {
		t.Fatalf("NextCard failed: %v", err)
	}
	if _, err := engine.SubmitGuess(ctx, round.Card.Name); err != nil {
		t.Fatalf("SubmitGuess failed: %v", err)
	}

	fresh, err := engine.Reset(ctx)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if got := engine.Totals(); got != (Totals{}) {
		t.Errorf("totals after reset = %+v, want zeros", got)
	}
	if fresh == nil || fresh.Submitted {
		t.Errorf("reset round = %+v, want a fresh unsubmitted round", fresh)
	}
	if engine.Phase() != PhaseActive {
		t.Errorf("phase after reset = %v, want %v", engine.Phase(), PhaseActive)
	}
	if engine.Filters().Key() != filters.Key() {
		t.Errorf("filters changed by reset: %v", engine.Filters())
	}

	snap, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Score != 0 || snap.TotalGuesses != 0 {
		t.Errorf("persisted totals survived reset: %+v", snap)
	}
}

func TestEngine_AccuracyOverSession(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{})
	ctx := context.Background()

	if got := engine.Totals().Accuracy(); got != 0 {
		t.Errorf("accuracy with no guesses = %d, want 0", got)
	}

	// Two correct out of three resolutions.
	for i := 0; i < 3; i++ {
		round, err := engine.NextCard(ctx)
		if err != nil {
			t.Fatalf("NextCard failed: %v", err)
		}
		guess := round.Card.Name
		if i == 1 {
			guess = "wrong"
		}
		if _, err := engine.SubmitGuess(ctx, guess); err != nil {
			t.Fatalf("SubmitGuess failed: %v", err)
		}
	}

	if got := engine.Totals().Accuracy(); got != 67 {
		t.Errorf("accuracy = %d, want 67", got)
	}
}

func TestEngine_SuggestUsesActiveFilters(t *testing.T) {
	searcher := searchFunc(func(ctx context.Context, query string, page int) (*scryfall.SearchPage, error) {
		if query != "set:neo" {
			t.Errorf("suggestion rebuild used query %q, want %q", query, "set:neo")
		}
		return &scryfall.SearchPage{
			Object:     "list",
			TotalCards: 1,
			Data:       []scryfall.Card{{ID: "1", Name: "Lightning Bolt", SetCode: "neo"}},
		}, nil
	})
	engine := newTestEngine(t, EngineConfig{Searcher: searcher, Filters: NewFilterSet("neo")})

	got := engine.Suggest(context.Background(), "light")
	if len(got) != 1 || got[0] != "Lightning Bolt" {
		t.Errorf("Suggest() = %v", got)
	}
}
