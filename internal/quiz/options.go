package quiz

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ramonehamilton/cardquiz/internal/scryfall"
)

// OptionCount is the fixed size of a multiple-choice option set.
const OptionCount = 4

// Option is one multiple-choice answer: a card name and whether it is the
// correct one.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// fallbackNames fills distractor slots when the corpus is too small or the
// fetch fails. Well-known card names, so options still look plausible.
var fallbackNames = []string{
	"Lightning Bolt",
	"Counterspell",
	"Llanowar Elves",
	"Giant Growth",
	"Serra Angel",
	"Shivan Dragon",
	"Dark Ritual",
	"Wrath of God",
}

// OptionsGenerator builds multiple-choice option sets: one correct name and
// three distractors drawn from the active corpus, cost-bounded to a single
// page fetch. GenerateOptions never fails; on any error the distractor
// slots fill from fallbackNames so the caller always gets four usable
// options.
type OptionsGenerator struct {
	searcher CardSearcher
	rng      *rand.Rand
	logger   *slog.Logger
}

// OptionsOption configures an OptionsGenerator.
type OptionsOption func(*OptionsGenerator)

// WithOptionsRand injects a deterministic random source, used by tests.
func WithOptionsRand(rng *rand.Rand) OptionsOption {
	return func(g *OptionsGenerator) {
		g.rng = rng
	}
}

// WithOptionsLogger sets the logger used for degraded-mode events.
func WithOptionsLogger(logger *slog.Logger) OptionsOption {
	return func(g *OptionsGenerator) {
		g.logger = logger
	}
}

// NewOptionsGenerator creates an OptionsGenerator over the given search
// client.
func NewOptionsGenerator(searcher CardSearcher, opts ...OptionsOption) *OptionsGenerator {
	g := &OptionsGenerator{
		searcher: searcher,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateOptions produces exactly four options for the correct card, with
// exactly one marked correct and no duplicate texts. The assembled list is
// itself shuffled so the correct answer's position carries no bias.
func (g *OptionsGenerator) GenerateOptions(ctx context.Context, correct *scryfall.Card, fs FilterSet) []Option {
	var candidates []string
	page, err := g.searcher.SearchCards(ctx, BuildQuery(fs), 1)
	if err != nil {
		g.logger.Warn("distractor fetch failed, using fallback names",
			"filters", fs.Key(),
			"error", err)
	} else {
		for _, card := range page.Data {
			if card.Name != correct.Name {
				candidates = append(candidates, card.Name)
			}
		}
	}

	shuffle(g.rng, candidates)

	wrong := make([]string, 0, OptionCount-1)
	used := map[string]struct{}{correct.Name: {}}
	for _, name := range candidates {
		if len(wrong) == OptionCount-1 {
			break
		}
		if _, ok := used[name]; ok {
			continue
		}
		used[name] = struct{}{}
		wrong = append(wrong, name)
	}

	// Small pool or failed fetch: top up from the fixed fallback list.
	for _, name := range fallbackNames {
		if len(wrong) == OptionCount-1 {
			break
		}
		if _, ok := used[name]; ok {
			continue
		}
		used[name] = struct{}{}
		wrong = append(wrong, name)
	}

	options := make([]Option, 0, OptionCount)
	options = append(options, Option{Text: correct.Name, IsCorrect: true})
	for _, name := range wrong {
		options = append(options, Option{Text: name})
	}
	shuffle(g.rng, options)

	return options
}

// shuffle performs an unbiased in-place Durstenfeld shuffle.
func shuffle[T any](rng *rand.Rand, s []T) {
	for i := len(s) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		s[i], s[j] = s[j], s[i]
	}
}
