// Package postgres provides a catalog source backed by PostgreSQL.
// The database only pre-filters; matching, pricing and ranking stay in the engine.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloud-quote/core/catalog"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// Schema creates the catalog table
const Schema = `
CREATE TABLE IF NOT EXISTS catalog_entries (
	seq          BIGSERIAL,
	id           TEXT PRIMARY KEY,
	category     TEXT NOT NULL,
	kind         TEXT NOT NULL,
	location     TEXT,
	license      TEXT,
	os           TEXT,
	engine       TEXT,
	edition      TEXT,
	software     TEXT,
	term_name    TEXT,
	cost         NUMERIC NOT NULL DEFAULT 0,
	cost_period  NUMERIC NOT NULL DEFAULT 0,
	initial_cost NUMERIC,
	co2          NUMERIC NOT NULL DEFAULT 0,
	co2_period   NUMERIC NOT NULL DEFAULT 0,
	type         JSONB,
	term         JSONB,
	dynamic      JSONB,
	function     JSONB,
	storage      JSONB,
	support      JSONB
);
CREATE INDEX IF NOT EXISTS catalog_entries_filter ON catalog_entries (category, location);
`

const selectColumns = `id, category, kind,
	COALESCE(location, ''), COALESCE(license, ''), COALESCE(os, ''),
	COALESCE(engine, ''), COALESCE(edition, ''), COALESCE(software, ''),
	cost, cost_period, initial_cost, co2, co2_period,
	type, term, dynamic, function, storage, support`

// DB is the subset of pgxpool.Pool the source uses
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Source reads catalog entries from PostgreSQL
type Source struct {
	db     DB
	logger *zap.Logger
}

var _ catalog.Source = (*Source)(nil)

// NewSource creates a source over a pool or any compatible connection
func NewSource(db DB) *Source {
	return &Source{db: db, logger: logging.Named("catalog.postgres")}
}

// Connect opens and pings a pool
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, errors.Config("invalid database url", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.TypeInternal, "database unreachable", err)
	}
	return pool, nil
}

// Migrate creates the catalog table when missing
func (s *Source) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return errors.Wrap(errors.TypeInternal, "failed to create catalog schema", err)
	}
	return nil
}

// BuildQuery builds the coarse pre-filter query of a filter
func BuildQuery(filter catalog.Filter) (string, []any) {
	var sb strings.Builder
	args := []any{string(filter.Category)}

	sb.WriteString("SELECT ")
	sb.WriteString(selectColumns)
	sb.WriteString("\nFROM catalog_entries\nWHERE category = $1")

	if filter.Location != "" {
		args = append(args, filter.Location)
		fmt.Fprintf(&sb, "\n  AND (location IS NULL OR location = '' OR lower(location) = lower($%d))", len(args))
	}
	if len(filter.TermPrefixes) > 0 {
		patterns := make([]string, len(filter.TermPrefixes))
		for i, p := range filter.TermPrefixes {
			patterns[i] = escapeLike(p) + "%"
		}
		args = append(args, patterns)
		fmt.Fprintf(&sb, "\n  AND (term_name IS NULL OR term_name ILIKE ANY($%d))", len(args))
	}
	if filter.Engine != "" {
		args = append(args, filter.Engine)
		fmt.Fprintf(&sb, "\n  AND lower(engine) = lower($%d)", len(args))
	}
	if filter.Edition != "" {
		args = append(args, filter.Edition)
		fmt.Fprintf(&sb, "\n  AND (edition IS NULL OR edition = '' OR lower(edition) = lower($%d))", len(args))
	}

	sb.WriteString("\nORDER BY seq, id")
	return sb.String(), args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Entries returns the entries passing the filter in insertion order
func (s *Source) Entries(ctx context.Context, filter catalog.Filter) ([]*types.Entry, error) {
	query, args := BuildQuery(filter)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "catalog query failed", err)
	}
	defer rows.Close()

	var entries []*types.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "catalog query failed", err)
	}

	s.logger.Debug("catalog fetched",
		logging.Category(filter.Category.String()),
		zap.Int("entries", len(entries)),
	)
	return entries, nil
}

// payloads are the JSONB columns of a row
type payloads struct {
	Type     []byte
	Term     []byte
	Dynamic  []byte
	Function []byte
	Storage  []byte
	Support  []byte
}

func scanEntry(row pgx.Row) (*types.Entry, error) {
	var (
		entry       types.Entry
		category    string
		kind        string
		initialCost decimal.NullDecimal
		p           payloads
	)
	err := row.Scan(
		&entry.ID, &category, &kind,
		&entry.Location, &entry.License, &entry.OS,
		&entry.Engine, &entry.Edition, &entry.Software,
		&entry.Cost, &entry.CostPeriod, &initialCost, &entry.CO2, &entry.CO2Period,
		&p.Type, &p.Term, &p.Dynamic, &p.Function, &p.Storage, &p.Support,
	)
	if err != nil {
		return nil, errors.Wrap(errors.TypeInternal, "failed to scan catalog entry", err)
	}

	entry.Category = types.Category(category)
	switch kind {
	case types.KindFixed.String():
		entry.Kind = types.KindFixed
	case types.KindDynamic.String():
		entry.Kind = types.KindDynamic
	default:
		return nil, errors.Integrity(entry.ID, "unknown price kind "+kind)
	}
	if initialCost.Valid {
		entry.InitialCost = &initialCost.Decimal
	}
	if err := p.decode(&entry); err != nil {
		return nil, errors.Integrity(entry.ID, "malformed catalog payload").WithContext("cause", err.Error())
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	return &entry, nil
}

// decode unmarshals the non-empty payloads onto the entry
func (p payloads) decode(e *types.Entry) error {
	targets := []struct {
		raw    []byte
		target any
	}{
		{p.Type, &e.Type},
		{p.Term, &e.Term},
		{p.Dynamic, &e.Dynamic},
		{p.Function, &e.Function},
		{p.Storage, &e.Storage},
		{p.Support, &e.Support},
	}
	for _, t := range targets {
		if len(t.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(t.raw, t.target); err != nil {
			return err
		}
	}
	return nil
}

// encode marshals the payloads of an entry, nil for absent ones
func encode(e *types.Entry) (payloads, error) {
	var p payloads
	var err error
	marshal := func(v any, isNil bool) []byte {
		if err != nil || isNil {
			return nil
		}
		var raw []byte
		raw, err = json.Marshal(v)
		return raw
	}
	p.Type = marshal(e.Type, e.Type == nil)
	p.Term = marshal(e.Term, e.Term == nil)
	p.Dynamic = marshal(e.Dynamic, e.Dynamic == nil)
	p.Function = marshal(e.Function, e.Function == nil)
	p.Storage = marshal(e.Storage, e.Storage == nil)
	p.Support = marshal(e.Support, e.Support == nil)
	return p, err
}

const upsert = `
INSERT INTO catalog_entries (id, category, kind, location, license, os, engine, edition, software, term_name,
	cost, cost_period, initial_cost, co2, co2_period, type, term, dynamic, function, storage, support)
VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''), $10,
	$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT (id) DO UPDATE SET
	category = EXCLUDED.category, kind = EXCLUDED.kind, location = EXCLUDED.location,
	license = EXCLUDED.license, os = EXCLUDED.os, engine = EXCLUDED.engine,
	edition = EXCLUDED.edition, software = EXCLUDED.software, term_name = EXCLUDED.term_name,
	cost = EXCLUDED.cost, cost_period = EXCLUDED.cost_period, initial_cost = EXCLUDED.initial_cost,
	co2 = EXCLUDED.co2, co2_period = EXCLUDED.co2_period, type = EXCLUDED.type, term = EXCLUDED.term,
	dynamic = EXCLUDED.dynamic, function = EXCLUDED.function, storage = EXCLUDED.storage, support = EXCLUDED.support`

// Put inserts or replaces entries, rejecting integrity defects
func (s *Source) Put(ctx context.Context, entries ...*types.Entry) error {
	for _, e := range entries {
		args, err := upsertArgs(e)
		if err != nil {
			return err
		}
		if _, err := s.db.Exec(ctx, upsert, args...); err != nil {
			return errors.Wrap(errors.TypeInternal, "failed to store catalog entry", err).WithContext("entry", e.ID)
		}
	}
	s.logger.Info("catalog entries stored", zap.Int("entries", len(entries)))
	return nil
}

func upsertArgs(e *types.Entry) ([]any, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	p, err := encode(e)
	if err != nil {
		return nil, errors.Integrity(e.ID, "cannot encode catalog payload").WithContext("cause", err.Error())
	}

	var termName *string
	if e.Term != nil {
		termName = &e.Term.Name
	}
	var initialCost decimal.NullDecimal
	if e.InitialCost != nil {
		initialCost = decimal.NewNullDecimal(*e.InitialCost)
	}

	return []any{
		e.ID, string(e.Category), e.Kind.String(), e.Location, e.License, e.OS, e.Engine, e.Edition, e.Software, termName,
		e.Cost, e.CostPeriod, initialCost, e.CO2, e.CO2Period,
		p.Type, p.Term, p.Dynamic, p.Function, p.Storage, p.Support,
	}, nil
}
