package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ramonehamilton/cardquiz/internal/store"
)

// Mode selects how answers are submitted.
type Mode int

const (
	// ModeFreeText accepts typed card names, with autocomplete support.
	ModeFreeText Mode = iota
	// ModeMultipleChoice presents four options per card.
	ModeMultipleChoice
)

var (
	// ErrNoActiveRound is returned when an answer arrives outside an
	// active round.
	ErrNoActiveRound = errors.New("no active round")
	// ErrEmptyGuess is returned for a free-text submission that is empty
	// after trimming.
	ErrEmptyGuess = errors.New("guess is empty")
	// ErrInvalidChoice is returned for an out-of-range option index.
	ErrInvalidChoice = errors.New("invalid option index")
)

// Engine owns one quiz session: the active FilterSet, the current round,
// and the session totals. It wires the sampler, options generator, name
// cache, and session store together and drives the round state machine
// (NoCard → Loading → Active → Answered → Loading → ...).
//
// Totals are written to the session store after every resolution; store
// failures degrade to in-memory-only operation and never surface to the
// caller.
type Engine struct {
	sampler *Sampler
	options *OptionsGenerator
	names   *NameCache
	store   store.Store
	logger  *slog.Logger

	mu      sync.Mutex
	filters FilterSet
	mode    Mode
	phase   Phase
	round   *Round
	totals  Totals
}

// EngineConfig configures a quiz engine.
type EngineConfig struct {
	// Searcher and Suggester are usually the same *scryfall.Client.
	Searcher  CardSearcher
	Suggester Suggester

	// Store persists session totals; defaults to an in-memory store.
	Store store.Store

	Logger  *slog.Logger
	Filters FilterSet
	Mode    Mode

	// Rand overrides the random source, used by tests.
	Rand *rand.Rand

	// CacheCapacity bounds the name cache's LRU; 0 uses the default.
	CacheCapacity int
}

// NewEngine creates an engine and restores any persisted session totals.
func NewEngine(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	if cfg.Searcher == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	if cfg.Suggester == nil {
		return nil, fmt.Errorf("suggester is required")
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	var samplerOpts []SamplerOption
	var optionsOpts []OptionsOption
	if cfg.Rand != nil {
		samplerOpts = append(samplerOpts, WithSamplerRand(cfg.Rand))
		optionsOpts = append(optionsOpts, WithOptionsRand(cfg.Rand))
	}
	optionsOpts = append(optionsOpts, WithOptionsLogger(cfg.Logger))

	cacheOpts := []NameCacheOption{WithCacheLogger(cfg.Logger)}
	if cfg.CacheCapacity > 0 {
		cacheOpts = append(cacheOpts, WithCacheCapacity(cfg.CacheCapacity))
	}

	e := &Engine{
		sampler: NewSampler(cfg.Searcher, samplerOpts...),
		options: NewOptionsGenerator(cfg.Searcher, optionsOpts...),
		names:   NewNameCache(cfg.Searcher, cfg.Suggester, cacheOpts...),
		store:   cfg.Store,
		logger:  cfg.Logger,
		filters: cfg.Filters,
		mode:    cfg.Mode,
		phase:   PhaseNoCard,
	}

	snap, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("failed to load session, starting fresh", "error", err)
		return e, nil
	}
	e.totals = Totals{
		Score:        snap.Score,
		Streak:       snap.Streak,
		TotalGuesses: snap.TotalGuesses,
	}

	return e, nil
}

// Filters returns the active FilterSet.
func (e *Engine) Filters() FilterSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filters
}

// SetFilters replaces the active FilterSet. Totals are untouched; the next
// sampled card comes from the new pool.
func (e *Engine) SetFilters(fs FilterSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters = fs
}

// Mode returns the active input mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// SetMode changes the input mode; it applies from the next drawn card.
func (e *Engine) SetMode(m Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = m
}

// Phase returns the current round phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// Round returns the current round, or nil before the first draw.
func (e *Engine) Round() *Round {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// Totals returns the session counters.
func (e *Engine) Totals() Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totals
}

// NextCard samples a fresh card from the active pool and starts a new
// round. Sampling errors propagate to the caller so the UI can offer a
// retry; the engine returns to NoCard in that case.
func (e *Engine) NextCard(ctx context.Context) (*Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = PhaseLoading
	e.round = nil

	card, err := e.sampler.SampleCard(ctx, e.filters)
	if err != nil {
		e.phase = PhaseNoCard
		return nil, err
	}

	round := &Round{Card: card}
	if e.mode == ModeMultipleChoice {
		round.Options = e.options.GenerateOptions(ctx, card, e.filters)
	}

	e.round = round
	e.phase = PhaseActive
	return round, nil
}

// SubmitGuess resolves the active round with a free-text guess. The guess
// must be non-empty after trimming.
func (e *Engine) SubmitGuess(ctx context.Context, guess string) (*Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || e.round == nil {
		return nil, ErrNoActiveRound
	}
	if strings.TrimSpace(guess) == "" {
		return nil, ErrEmptyGuess
	}

	correct := Matches(guess, e.round.Card.Name)
	e.resolve(ctx, guess, correct, false)
	return e.round, nil
}

// SubmitChoice resolves the active round with a multiple-choice selection
// by option index.
func (e *Engine) SubmitChoice(ctx context.Context, index int) (*Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || e.round == nil {
		return nil, ErrNoActiveRound
	}
	if index < 0 || index >= len(e.round.Options) {
		return nil, ErrInvalidChoice
	}

	opt := e.round.Options[index]
	e.resolve(ctx, opt.Text, opt.IsCorrect, false)
	return e.round, nil
}

// Skip resolves the active round as incorrect with an empty guess.
func (e *Engine) Skip(ctx context.Context) (*Round, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseActive || e.round == nil {
		return nil, ErrNoActiveRound
	}

	e.resolve(ctx, "", false, true)
	return e.round, nil
}

// Reset clears the session counters and persisted state, then draws a
// fresh card for the unchanged FilterSet.
func (e *Engine) Reset(ctx context.Context) (*Round, error) {
	e.mu.Lock()
	e.totals = Totals{}
	e.round = nil
	e.phase = PhaseLoading
	if err := e.store.Clear(ctx); err != nil {
		e.logger.Warn("failed to clear persisted session", "error", err)
	}
	e.mu.Unlock()

	return e.NextCard(ctx)
}

// Suggest returns autocomplete suggestions scoped to the active FilterSet.
func (e *Engine) Suggest(ctx context.Context, prefix string) []string {
	e.mu.Lock()
	fs := e.filters
	e.mu.Unlock()
	return e.names.Suggest(ctx, prefix, fs)
}

// resolve finalizes the active round exactly once and persists the
// session. Callers must hold mu.
func (e *Engine) resolve(ctx context.Context, guess string, correct, skipped bool) {
	e.round.Submitted = true
	e.round.Guess = guess
	e.round.Correct = correct
	e.round.Skipped = skipped

	e.totals.TotalGuesses++
	if correct {
		e.totals.Score++
		e.totals.Streak++
	} else {
		e.totals.Streak = 0
	}

	e.phase = PhaseAnswered
	e.persist(ctx)
}

// persist writes the session snapshot. Failures degrade to
// in-memory-only operation for this session; they never reach the caller.
func (e *Engine) persist(ctx context.Context) {
	snap := store.NewSnapshot()
	snap.Score = e.totals.Score
	snap.Streak = e.totals.Streak
	snap.TotalGuesses = e.totals.TotalGuesses
	snap.UpdatedAt = time.Now().UTC()
	if e.round != nil {
		snap.LastCardID = e.round.Card.ID
		snap.LastCardName = e.round.Card.Name
		snap.LastGuess = e.round.Guess
		snap.LastCorrect = e.round.Correct
		snap.LastSubmitted = e.round.Submitted
	}

	if err := e.store.Save(ctx, snap); err != nil {
		e.logger.Warn("failed to persist session, continuing in memory", "error", err)
	}
}
