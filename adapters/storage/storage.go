// Package storage keeps the history of quote recomputes.
// Supports two backends: file and memory.
package storage

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

// Store is the storage interface
type Store interface {
	// Save stores a snapshot, assigning its id and time when missing
	Save(ctx context.Context, snapshot *Snapshot) error

	// Get retrieves a snapshot by id
	Get(ctx context.Context, id string) (*Snapshot, error)

	// List lists snapshots, newest first
	List(ctx context.Context, filter *ListFilter) ([]*Snapshot, error)

	// Delete removes a snapshot
	Delete(ctx context.Context, id string) error

	io.Closer
}

// Snapshot is the recorded outcome of one quote recompute
type Snapshot struct {
	ID string `json:"id"`

	// QuoteID groups snapshots
	QuoteID   string `json:"quote_id"`
	QuoteName string `json:"quote_name,omitempty"`

	Total types.FloatingCost `json:"total"`

	Lines []Line `json:"lines"`

	// Budgets are the required initial costs after the pass, by name
	Budgets map[string]decimal.Decimal `json:"budgets,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Line is one resource of a snapshot
type Line struct {
	Resource string `json:"resource"`

	// EntryID is empty when nothing matched
	EntryID    string          `json:"entry_id,omitempty"`
	Min        decimal.Decimal `json:"min"`
	Max        decimal.Decimal `json:"max"`
	OverBudget bool            `json:"over_budget,omitempty"`
}

// NewSnapshot records a quote result
func NewSnapshot(result *types.QuoteResult) *Snapshot {
	s := &Snapshot{
		QuoteID: result.QuoteID,
		Total:   result.Total,
		Lines:   make([]Line, 0, len(result.Resources)),
	}
	if result.Quote != nil {
		s.QuoteName = result.Quote.Name
	}
	for _, r := range result.Resources {
		line := Line{
			Resource:   r.Resource.Name,
			Min:        r.Floating.Min,
			Max:        r.Floating.Max,
			OverBudget: r.OverBudget,
		}
		if r.Price != nil {
			line.EntryID = r.Price.Entry.ID
		}
		s.Lines = append(s.Lines, line)
	}
	if len(result.Budgets) > 0 {
		s.Budgets = make(map[string]decimal.Decimal, len(result.Budgets))
		for _, b := range result.Budgets {
			s.Budgets[b.Name] = b.RequiredInitialCost
		}
	}
	return s
}

// ListFilter filters snapshot listing
type ListFilter struct {
	QuoteID string
	Since   time.Time
	Until   time.Time
	Limit   int
	Offset  int
}

func (f *ListFilter) accepts(s *Snapshot) bool {
	if f == nil {
		return true
	}
	if f.QuoteID != "" && s.QuoteID != f.QuoteID {
		return false
	}
	if !f.Since.IsZero() && s.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && s.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

// page sorts newest first, then applies offset and limit
func (f *ListFilter) page(snapshots []*Snapshot) []*Snapshot {
	sort.Slice(snapshots, func(i, j int) bool {
		if !snapshots[i].CreatedAt.Equal(snapshots[j].CreatedAt) {
			return snapshots[i].CreatedAt.After(snapshots[j].CreatedAt)
		}
		return snapshots[i].ID < snapshots[j].ID
	})
	if f == nil {
		return snapshots
	}
	if f.Offset > 0 {
		if f.Offset >= len(snapshots) {
			return nil
		}
		snapshots = snapshots[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(snapshots) {
		snapshots = snapshots[:f.Limit]
	}
	return snapshots
}

func prepare(s *Snapshot) error {
	if s.QuoteID == "" {
		return errors.Validation("quote_id", "snapshot without quote")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return nil
}

// Latest returns the newest snapshot of a quote
func Latest(ctx context.Context, store Store, quoteID string) (*Snapshot, error) {
	snapshots, err := store.List(ctx, &ListFilter{QuoteID: quoteID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, errors.NotFound("snapshot of quote", quoteID)
	}
	return snapshots[0], nil
}

// Comparison is the difference between two snapshots
type Comparison struct {
	OldID string `json:"old_id"`
	NewID string `json:"new_id"`

	MinDelta decimal.Decimal `json:"min_delta"`
	MaxDelta decimal.Decimal `json:"max_delta"`

	// MinDeltaPercent is zero when the old minimum is zero
	MinDeltaPercent decimal.Decimal `json:"min_delta_percent"`

	// Changed lists the resources whose winning entry changed
	Changed []string `json:"changed,omitempty"`
}

// Compare compares two snapshots of a store
func Compare(ctx context.Context, store Store, oldID, newID string) (*Comparison, error) {
	older, err := store.Get(ctx, oldID)
	if err != nil {
		return nil, err
	}
	newer, err := store.Get(ctx, newID)
	if err != nil {
		return nil, err
	}
	return Diff(older, newer), nil
}

// Diff compares two snapshots
func Diff(older, newer *Snapshot) *Comparison {
	c := &Comparison{
		OldID:    older.ID,
		NewID:    newer.ID,
		MinDelta: newer.Total.Min.Sub(older.Total.Min),
		MaxDelta: newer.Total.Max.Sub(older.Total.Max),
	}
	if !older.Total.Min.IsZero() {
		c.MinDeltaPercent = c.MinDelta.Div(older.Total.Min).Mul(decimal.NewFromInt(100)).Round(2)
	}

	previous := make(map[string]string, len(older.Lines))
	for _, l := range older.Lines {
		previous[l.Resource] = l.EntryID
	}
	for _, l := range newer.Lines {
		if entry, ok := previous[l.Resource]; !ok || entry != l.EntryID {
			c.Changed = append(c.Changed, l.Resource)
		}
	}
	return c
}

// New creates a store by backend type
func New(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendMemory, "":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Config("unsupported history backend: "+string(backend), nil)
	}
}
