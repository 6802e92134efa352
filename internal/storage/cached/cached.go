// Package cached wraps a storage.Store with an LRU of recently used ledgers.
// Writes go through to the wrapped store before the cache is updated.
package cached

import (
	"context"
	"time"

	"moneyz/internal/cache"
	"moneyz/internal/core"
	"moneyz/internal/log"
	"moneyz/internal/storage"
)

type Store struct {
	next    storage.Store
	ledgers *cache.LRUCache[*core.MonthlyBudget]
	logger  *log.Logger
}

var _ storage.Store = (*Store)(nil)

// New caches up to size ledgers of next for ttl each.
func New(next storage.Store, size int, ttl time.Duration, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{
		next:    next,
		ledgers: cache.NewLRUCache[*core.MonthlyBudget](size, ttl),
		logger:  logger.WithComponent(log.ComponentCache),
	}
}

// Cache exposes the underlying LRU, for stats and tests.
func (s *Store) Cache() *cache.LRUCache[*core.MonthlyBudget] { return s.ledgers }

// LoadCategories is passed through; the registry is loaded once per session.
func (s *Store) LoadCategories(ctx context.Context) (*core.Registry, error) {
	return s.next.LoadCategories(ctx)
}

// SaveCategories is passed through.
func (s *Store) SaveCategories(ctx context.Context, reg *core.Registry) error {
	return s.next.SaveCategories(ctx, reg)
}

// LoadMonthlyBudget serves p from the cache when possible. Callers get a
// copy they may mutate freely.
func (s *Store) LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error) {
	if err := storage.CheckPeriod(p); err != nil {
		return nil, err
	}
	if b, ok := s.ledgers.Get(p.Key()); ok {
		s.logger.DebugContext(ctx, "Ledger served from cache", log.FieldPeriod, p.String(), log.FieldCacheHit, true)
		return b.Clone(), nil
	}
	b, err := s.next.LoadMonthlyBudget(ctx, p)
	if err != nil {
		return nil, err
	}
	s.ledgers.Set(p.Key(), b.Clone())
	s.logger.DebugContext(ctx, "Ledger loaded", log.FieldPeriod, p.String(), log.FieldCacheHit, false)
	return b, nil
}

// SaveMonthlyBudget writes through. On failure the cached copy is dropped so
// the next load reflects whatever the backend holds.
func (s *Store) SaveMonthlyBudget(ctx context.Context, p core.Period, b *core.MonthlyBudget) error {
	if err := s.next.SaveMonthlyBudget(ctx, p, b); err != nil {
		s.ledgers.Delete(p.Key())
		return err
	}
	stored := b.Clone()
	stored.Spendings = b.Committed()
	if len(stored.Spendings) == 0 {
		stored.Spendings = nil
	}
	s.ledgers.CleanExpired()
	s.ledgers.Set(p.Key(), stored)
	return nil
}

// Close drops the cache and closes the wrapped store.
func (s *Store) Close() error {
	s.ledgers.Clear()
	return s.next.Close()
}
