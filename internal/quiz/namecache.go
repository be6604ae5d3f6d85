package quiz

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// minPrefixLen is the shortest prefix that triggers suggestions.
	minPrefixLen = 2
	// maxSuggestions caps the number of returned names.
	maxSuggestions = 8
	// maxWarmupPages is how many result pages a cache rebuild accumulates.
	maxWarmupPages = 3
	// defaultCacheEntries bounds how many FilterSet keys stay cached.
	defaultCacheEntries = 4
)

// Suggester provides unscoped card name suggestions.
// *scryfall.Client satisfies this.
type Suggester interface {
	Autocomplete(ctx context.Context, prefix string) []string
}

// NameCache serves corpus-scoped autocomplete: card names known to belong
// to the active FilterSet, accumulated from up to three result pages per
// key. Entries are kept in a small bounded LRU map keyed by the FilterSet
// cache key; a rebuild fully replaces the entry for its key, never merges.
//
// Suggest never fails. Rebuild failures fall back to the global suggestion
// endpoint, and that failing too yields an empty list.
type NameCache struct {
	searcher  CardSearcher
	suggester Suggester
	logger    *slog.Logger
	collator  *collate.Collator

	// mu also serializes rebuilds, so a rebuild in progress cannot
	// interleave with one for a different key.
	mu       sync.Mutex
	capacity int
	entries  map[string][]string
	order    []string // LRU order, most recently used last
}

// NameCacheOption configures a NameCache.
type NameCacheOption func(*NameCache)

// WithCacheCapacity bounds how many FilterSet keys the cache retains.
func WithCacheCapacity(n int) NameCacheOption {
	return func(c *NameCache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithCacheLogger sets the logger used for degraded-mode events.
func WithCacheLogger(logger *slog.Logger) NameCacheOption {
	return func(c *NameCache) {
		c.logger = logger
	}
}

// NewNameCache creates a NameCache over the given clients.
func NewNameCache(searcher CardSearcher, suggester Suggester, opts ...NameCacheOption) *NameCache {
	c := &NameCache{
		searcher:  searcher,
		suggester: suggester,
		logger:    slog.Default(),
		collator:  collate.New(language.English, collate.IgnoreCase),
		capacity:  defaultCacheEntries,
		entries:   make(map[string][]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest returns up to 8 card names from the FilterSet's corpus matching
// the prefix. Names starting with the prefix sort before substring-only
// matches; ties break by locale-aware lexical order. Prefixes shorter than
// two runes or an empty FilterSet yield an empty list without any network
// traffic.
func (c *NameCache) Suggest(ctx context.Context, prefix string, fs FilterSet) []string {
	if len([]rune(prefix)) < minPrefixLen || fs.Empty() {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := fs.Key()
	names, ok := c.entries[key]
	if !ok {
		rebuilt, err := c.rebuild(ctx, fs)
		if err != nil {
			c.logger.Warn("name cache rebuild failed, using global autocomplete",
				"key", key,
				"error", err)
			return c.globalFallback(ctx, prefix)
		}
		c.put(key, rebuilt)
		names = rebuilt
	} else {
		c.touch(key)
	}

	return c.filter(names, prefix)
}

// Invalidate drops the cached entry for a FilterSet, forcing the next
// Suggest call to rebuild it.
func (c *NameCache) Invalidate(fs FilterSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := fs.Key()
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	c.removeFromOrder(key)
}

// rebuild fetches up to maxWarmupPages result pages for the filter and
// accumulates distinct card names, materialized as a collated sorted list.
func (c *NameCache) rebuild(ctx context.Context, fs FilterSet) ([]string, error) {
	query := BuildQuery(fs)

	seen := make(map[string]struct{})
	page := 1
	for {
		result, err := c.searcher.SearchCards(ctx, query, page)
		if err != nil {
			return nil, err
		}
		for _, card := range result.Data {
			seen[card.Name] = struct{}{}
		}
		if !result.HasMore || page >= maxWarmupPages {
			break
		}
		page++
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	c.collator.SortStrings(names)
	return names, nil
}

// filter applies the case-insensitive substring match and the
// prefix-before-substring ordering, truncated to maxSuggestions.
func (c *NameCache) filter(names []string, prefix string) []string {
	needle := strings.ToLower(prefix)

	var prefixed, substrings []string
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, needle):
			prefixed = append(prefixed, name)
		case strings.Contains(lower, needle):
			substrings = append(substrings, name)
		}
	}

	out := append(prefixed, substrings...)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// globalFallback serves suggestions from the unscoped endpoint. The
// client already degrades to an empty list on failure.
func (c *NameCache) globalFallback(ctx context.Context, prefix string) []string {
	names := c.suggester.Autocomplete(ctx, prefix)
	if len(names) > maxSuggestions {
		names = names[:maxSuggestions]
	}
	return names
}

// put stores a fully rebuilt entry, evicting the least recently used key
// when the cache is at capacity. Callers must hold mu.
func (c *NameCache) put(key string, names []string) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = names
		c.touch(key)
		return
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = names
	c.order = append(c.order, key)
}

// touch marks a key as most recently used. Callers must hold mu.
func (c *NameCache) touch(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *NameCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
