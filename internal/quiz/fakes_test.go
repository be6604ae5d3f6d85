package quiz

import (
	"context"
	"fmt"

	"github.com/ramonehamilton/cardquiz/internal/scryfall"
)

// searchFunc adapts a function to the CardSearcher interface.
type searchFunc func(ctx context.Context, query string, page int) (*scryfall.SearchPage, error)

func (f searchFunc) SearchCards(ctx context.Context, query string, page int) (*scryfall.SearchPage, error) {
	return f(ctx, query, page)
}

// suggestFunc adapts a function to the Suggester interface.
type suggestFunc func(ctx context.Context, prefix string) []string

func (f suggestFunc) Autocomplete(ctx context.Context, prefix string) []string {
	return f(ctx, prefix)
}

// makeCards builds n cards named "<set> Card <i>" belonging to the set.
func makeCards(setCode string, n int) []scryfall.Card {
	cards := make([]scryfall.Card, n)
	for i := range cards {
		cards[i] = scryfall.Card{
			ID:      fmt.Sprintf("%s-%d", setCode, i+1),
			Name:    fmt.Sprintf("%s Card %d", setCode, i+1),
			SetCode: setCode,
		}
	}
	return cards
}

// pagedCorpus serves a fixed card list through the paginated search
// contract with the given page size.
type pagedCorpus struct {
	cards    []scryfall.Card
	pageSize int
	calls    []int // pages requested, in order
}

func (p *pagedCorpus) SearchCards(_ context.Context, _ string, page int) (*scryfall.SearchPage, error) {
	p.calls = append(p.calls, page)

	start := (page - 1) * p.pageSize
	end := start + p.pageSize
	if start > len(p.cards) {
		start = len(p.cards)
	}
	if end > len(p.cards) {
		end = len(p.cards)
	}

	return &scryfall.SearchPage{
		Object:     "list",
		TotalCards: len(p.cards),
		HasMore:    end < len(p.cards),
		Data:       p.cards[start:end],
	}, nil
}
