// Package catalog - Catalog source contract and in-memory catalog
// A source only pre-filters coarsely; fine matching and ranking stay in the engine.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// Filter is the coarse pre-filter a source applies
type Filter struct {
	// Category is mandatory
	Category types.Category

	// Location keeps entries of this location and global entries, empty for all
	Location string

	// TermPrefixes keep termless entries and entries whose term name matches
	TermPrefixes []string

	// Engine keeps database entries of this engine, empty for all
	Engine string

	// Edition keeps entries of this edition and editionless entries, empty for all
	Edition string
}

// FilterFor builds the coarse filter of a requirement
func FilterFor(req *types.Requirement) Filter {
	return Filter{
		Category:     req.Category,
		Location:     req.Location,
		TermPrefixes: req.TermPrefixes,
		Engine:       req.Engine,
		Edition:      req.Edition,
	}
}

// Accepts reports whether an entry passes the coarse filter
func (f Filter) Accepts(e *types.Entry) bool {
	if e.Category != f.Category {
		return false
	}
	if f.Location != "" && e.Location != "" && !strings.EqualFold(e.Location, f.Location) {
		return false
	}
	if f.Engine != "" && !strings.EqualFold(e.Engine, f.Engine) {
		return false
	}
	if f.Edition != "" && e.Edition != "" && !strings.EqualFold(e.Edition, f.Edition) {
		return false
	}
	if e.Term != nil && len(f.TermPrefixes) > 0 {
		req := types.Requirement{TermPrefixes: f.TermPrefixes}
		return req.AcceptsTerm(e.Term.Name)
	}
	return true
}

// Source supplies catalog entries
type Source interface {
	// Entries returns the entries passing the filter in a stable order
	Entries(ctx context.Context, filter Filter) ([]*types.Entry, error)
}

// Catalog is an in-memory source
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]*types.Entry
	order   []string
}

// NewCatalog creates a new catalog
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[string]*types.Entry),
	}
}

// Register adds an entry, rejecting duplicates and integrity defects
func (c *Catalog) Register(entry *types.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[entry.ID]; exists {
		return errors.Conflict("duplicate catalog entry " + entry.ID).WithContext("entry", entry.ID)
	}
	c.entries[entry.ID] = entry
	c.order = append(c.order, entry.ID)
	return nil
}

// Get returns an entry by id
func (c *Catalog) Get(id string) (*types.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry, ok
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// All returns every entry in registration order
func (c *Catalog) All() []*types.Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]*types.Entry, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.entries[id])
	}
	return result
}

// Entries returns the entries passing the filter in registration order
func (c *Catalog) Entries(ctx context.Context, filter Filter) ([]*types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []*types.Entry
	for _, id := range c.order {
		if entry := c.entries[id]; filter.Accepts(entry) {
			result = append(result, entry)
		}
	}
	return result, nil
}

// Stats returns catalog statistics
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{ByCategory: make(map[types.Category]CategoryStats)}
	for _, entry := range c.entries {
		stats.Total++

		categoryStats := stats.ByCategory[entry.Category]
		categoryStats.Total++
		if entry.Kind == types.KindDynamic {
			categoryStats.Dynamic++
		} else {
			categoryStats.Fixed++
		}
		if entry.Location == "" {
			categoryStats.Global++
		}
		stats.ByCategory[entry.Category] = categoryStats
	}
	return stats
}

// Stats holds catalog statistics
type Stats struct {
	Total      int
	ByCategory map[types.Category]CategoryStats
}

// CategoryStats holds per-category statistics
type CategoryStats struct {
	Total   int
	Fixed   int
	Dynamic int
	Global  int
}

// Categories returns the categories present, in recompute order
func (s Stats) Categories() []types.Category {
	var result []types.Category
	for _, c := range types.Categories {
		if _, ok := s.ByCategory[c]; ok {
			result = append(result, c)
		}
	}
	return result
}

// Locations returns the distinct non-global locations, sorted
func (c *Catalog) Locations() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, entry := range c.entries {
		if entry.Location != "" {
			seen[entry.Location] = struct{}{}
		}
	}
	result := make([]string, 0, len(seen))
	for l := range seen {
		result = append(result, l)
	}
	sort.Strings(result)
	return result
}
