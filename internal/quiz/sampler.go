package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/ramonehamilton/cardquiz/internal/scryfall"
)

// CardSearcher fetches one page of card search results.
// *scryfall.Client satisfies this.
type CardSearcher interface {
	SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchPage, error)
}

// Sampler draws a random card from the corpus matched by a FilterSet
// without downloading the whole corpus: one fetch to learn the total and
// page size, one fetch of a uniformly chosen page, then a uniform pick
// from that page.
//
// Known bias: if the last page is undersized, its cards have a slightly
// higher per-card selection probability than cards on full pages. This
// approximation is accepted; do not change it silently.
type Sampler struct {
	searcher CardSearcher
	rng      *rand.Rand
}

// SamplerOption configures a Sampler.
type SamplerOption func(*Sampler)

// WithSamplerRand injects a deterministic random source, used by tests.
func WithSamplerRand(rng *rand.Rand) SamplerOption {
	return func(s *Sampler) {
		s.rng = rng
	}
}

// NewSampler creates a Sampler over the given search client.
func NewSampler(searcher CardSearcher, opts ...SamplerOption) *Sampler {
	s := &Sampler{
		searcher: searcher,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SampleCard draws one random card from the FilterSet's corpus. It fails
// with EmptyPoolError when the filter is empty or matches zero cards, and
// with NoCardsOnPageError when the chosen page unexpectedly has no items.
// All other errors come from the underlying client and propagate as-is;
// there is no silent recovery here.
func (s *Sampler) SampleCard(ctx context.Context, fs FilterSet) (*scryfall.Card, error) {
	query := BuildQuery(fs)
	if fs.Empty() {
		return nil, &EmptyPoolError{Query: query}
	}

	first, err := s.searcher.SearchCards(ctx, query, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch first page: %w", err)
	}
	if first.TotalCards == 0 || len(first.Data) == 0 {
		return nil, &EmptyPoolError{Query: query}
	}

	pageSize := len(first.Data)
	totalPages := (first.TotalCards + pageSize - 1) / pageSize

	targetPage := 1
	if totalPages > 1 {
		targetPage = 1 + s.rng.Intn(totalPages)
	}

	page := first
	if targetPage != 1 {
		page, err = s.searcher.SearchCards(ctx, query, targetPage)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", targetPage, err)
		}
	}
	if len(page.Data) == 0 {
		return nil, &NoCardsOnPageError{Query: query, Page: targetPage}
	}

	card := page.Data[s.rng.Intn(len(page.Data))]
	return &card, nil
}
