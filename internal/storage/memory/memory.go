// Package memory is a process-local storage backend, used for tests and
// throwaway sessions. Every value crossing its boundary is copied.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"moneyz/internal/core"
	"moneyz/internal/storage"
)

// SeedFile lists one category name per line; blank lines and lines starting
// with '#' are skipped.
const SeedFile = "seed_categories.txt"

type Store struct {
	mu      sync.Mutex
	reg     *core.Registry
	ledgers map[core.Period]*core.MonthlyBudget
}

// New returns a store whose registry holds cats, in order, with duplicates
// and blanks removed.
func New(cats ...string) *Store {
	reg := core.NewRegistry()
	for _, name := range dedupe(cats) {
		reg.Add(name)
	}
	return &Store{reg: reg, ledgers: map[core.Period]*core.MonthlyBudget{}}
}

// NewFromFiles seeds the registry from base/seed_categories.txt, falling back
// to a small default set when the file is missing or empty.
func NewFromFiles(base string) *Store {
	cats := readLines(filepath.Join(base, SeedFile))
	if len(cats) == 0 {
		cats = []string{"Housing", "Food", "Transport"}
	}
	return New(cats...)
}

// LoadCategories implements storage.CategoryStore.
func (s *Store) LoadCategories(_ context.Context) (*core.Registry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Clone(), nil
}

// SaveCategories implements storage.CategoryStore.
func (s *Store) SaveCategories(_ context.Context, reg *core.Registry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg = reg.Clone()
	return nil
}

// LoadMonthlyBudget implements storage.BudgetStore.
func (s *Store) LoadMonthlyBudget(_ context.Context, p core.Period) (*core.MonthlyBudget, error) {
	if err := storage.CheckPeriod(p); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.ledgers[p]
	if !ok {
		return core.NewMonthlyBudget(), nil
	}
	return b.Clone(), nil
}

// SaveMonthlyBudget implements storage.BudgetStore.
func (s *Store) SaveMonthlyBudget(_ context.Context, p core.Period, b *core.MonthlyBudget) error {
	if err := storage.CheckPeriod(p); err != nil {
		return err
	}
	stored := b.Clone()
	stored.Spendings = b.Committed()
	if len(stored.Spendings) == 0 {
		stored.Spendings = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledgers[p] = stored
	return nil
}

// Periods returns how many ledgers are held.
func (s *Store) Periods() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ledgers)
}

// Close implements storage.Store.
func (s *Store) Close() error { return nil }

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeated names, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
