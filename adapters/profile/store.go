// Package profile - In-memory store of usage and budget profiles
package profile

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// Store keeps named usages and budgets, and the quotes referencing them.
//
// Every read returns a copy and every write happens under the lock, so
// profiles handed out can be used by concurrent recomputes. A budget shared
// by several quotes keeps the required initial cost of the most recent
// recompute recorded through RecordRequired; each recompute's own figure is
// in its result and history snapshot.
type Store struct {
	mu      sync.RWMutex
	usages  map[string]*types.Usage
	budgets map[string]*types.Budget
	quotes  map[string]*types.Quote
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		usages:  make(map[string]*types.Usage),
		budgets: make(map[string]*types.Budget),
		quotes:  make(map[string]*types.Quote),
	}
}

// CreateUsage validates and stores a usage, assigning an id when missing
func (s *Store) CreateUsage(u *types.Usage) (*types.Usage, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.usageByName(u.Name) != nil {
		return nil, errors.Conflict("usage already exists: " + u.Name)
	}
	stored := *u
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	} else if _, exists := s.usages[stored.ID]; exists {
		return nil, errors.Conflict("usage id already exists: " + stored.ID)
	}
	s.usages[stored.ID] = &stored

	logging.Debug("usage created", logging.Entry(stored.ID))
	return stored.Clone(), nil
}

// UpdateUsage replaces the name, rate and duration of a usage,
// so quotes holding the profile see the new values on their next recompute
func (s *Store) UpdateUsage(u *types.Usage) (*types.Usage, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.usages[u.ID]
	if !ok {
		return nil, errors.NotFound("usage", u.ID)
	}
	if other := s.usageByName(u.Name); other != nil && other.ID != u.ID {
		return nil, errors.Conflict("usage already exists: " + u.Name)
	}
	current.Name = u.Name
	current.RatePercent = u.RatePercent
	current.DurationMonths = u.DurationMonths
	return current.Clone(), nil
}

// Usage returns a usage by id
func (s *Store) Usage(id string) (*types.Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usages[id]
	if !ok {
		return nil, errors.NotFound("usage", id)
	}
	return u.Clone(), nil
}

// UsageByName returns a usage by case-insensitive name
func (s *Store) UsageByName(name string) (*types.Usage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u := s.usageByName(name); u != nil {
		return u.Clone(), nil
	}
	return nil, errors.NotFound("usage", name)
}

// Usages lists usages sorted by name
func (s *Store) Usages() []*types.Usage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*types.Usage, 0, len(s.usages))
	for _, u := range s.usages {
		list = append(list, u.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// DeleteUsage removes a usage, refusing while a quote or resource references it
func (s *Store) DeleteUsage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usages[id]; !ok {
		return errors.NotFound("usage", id)
	}
	if quoteID, ok := s.usageReference(id); ok {
		return errors.Conflict("usage is still referenced").
			WithContext("usage", id).
			WithContext("quote", quoteID)
	}
	delete(s.usages, id)
	return nil
}

// CreateBudget validates and stores a budget, assigning an id when missing
func (s *Store) CreateBudget(b *types.Budget) (*types.Budget, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.budgetByName(b.Name) != nil {
		return nil, errors.Conflict("budget already exists: " + b.Name)
	}
	stored := *b
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	} else if _, exists := s.budgets[stored.ID]; exists {
		return nil, errors.Conflict("budget id already exists: " + stored.ID)
	}
	s.budgets[stored.ID] = &stored
	return stored.Clone(), nil
}

// Budget returns a budget by id
func (s *Store) Budget(id string) (*types.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[id]
	if !ok {
		return nil, errors.NotFound("budget", id)
	}
	return b.Clone(), nil
}

// BudgetByName returns a budget by case-insensitive name
func (s *Store) BudgetByName(name string) (*types.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b := s.budgetByName(name); b != nil {
		return b.Clone(), nil
	}
	return nil, errors.NotFound("budget", name)
}

// Budgets lists budgets sorted by name
func (s *Store) Budgets() []*types.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*types.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		list = append(list, b.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// DeleteBudget removes a budget. Resources referencing it fall back to unlimited.
func (s *Store) DeleteBudget(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[id]; !ok {
		return errors.NotFound("budget", id)
	}
	for _, q := range s.quotes {
		if q.Budget != nil && q.Budget.ID == id {
			q.Budget = nil
		}
		for _, r := range q.Resources {
			if r.Budget != nil && r.Budget.ID == id {
				r.Budget = nil
			}
		}
	}
	delete(s.budgets, id)
	return nil
}

// RecordRequired writes back the required initial cost of the budgets a pass
// returned. Unknown budgets are ignored; the last recorded pass wins.
func (s *Store) RecordRequired(budgets []*types.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range budgets {
		if stored, ok := s.budgets[b.ID]; ok {
			stored.RequiredInitialCost = b.RequiredInitialCost
		}
	}
}

// SaveQuote registers a copy of a quote so its profile references are tracked.
// Missing quote and resource ids are assigned on q. Profiles the quote
// carries are adopted when the store does not know them.
func (s *Store) SaveQuote(q *types.Quote) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	for _, r := range q.Resources {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
	}
	stored := q.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored.Usage = s.adoptUsage(stored.Usage)
	stored.Budget = s.adoptBudget(stored.Budget)
	for _, r := range stored.Resources {
		r.Usage = s.adoptUsage(r.Usage)
		r.Budget = s.adoptBudget(r.Budget)
	}
	s.quotes[stored.ID] = stored
	return nil
}

// Quote returns a copy of a saved quote by id, profiles included
func (s *Store) Quote(id string) (*types.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFound("quote", id)
	}
	return q.Clone(), nil
}

// DeleteQuote forgets a quote, releasing its profile references
func (s *Store) DeleteQuote(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[id]; !ok {
		return errors.NotFound("quote", id)
	}
	delete(s.quotes, id)
	return nil
}

func (s *Store) usageByName(name string) *types.Usage {
	for _, u := range s.usages {
		if strings.EqualFold(u.Name, name) {
			return u
		}
	}
	return nil
}

func (s *Store) budgetByName(name string) *types.Budget {
	for _, b := range s.budgets {
		if strings.EqualFold(b.Name, name) {
			return b
		}
	}
	return nil
}

func (s *Store) usageReference(id string) (string, bool) {
	for _, q := range s.quotes {
		if q.Usage != nil && q.Usage.ID == id {
			return q.ID, true
		}
		for _, r := range q.Resources {
			if r.Usage != nil && r.Usage.ID == id {
				return q.ID, true
			}
		}
	}
	return "", false
}

// adoptUsage returns the stored usage of the same id or name, storing new ones
func (s *Store) adoptUsage(u *types.Usage) *types.Usage {
	if u == nil {
		return nil
	}
	if stored, ok := s.usages[u.ID]; ok {
		return stored
	}
	if stored := s.usageByName(u.Name); stored != nil {
		return stored
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.usages[u.ID] = u
	return u
}

func (s *Store) adoptBudget(b *types.Budget) *types.Budget {
	if b == nil {
		return nil
	}
	if stored, ok := s.budgets[b.ID]; ok {
		return stored
	}
	if stored := s.budgetByName(b.Name); stored != nil {
		return stored
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	s.budgets[b.ID] = b
	return b
}
