// Package jsonfile stores the registry and every monthly ledger as JSON
// documents in one data directory, in the file layout the desktop tool used:
// budget_categories.json and one YYYY_MM.json per month.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"moneyz/internal/core"
	"moneyz/internal/log"
	"moneyz/internal/storage"
)

// CategoriesFile is the registry document inside the data directory.
const CategoriesFile = "budget_categories.json"

type Store struct {
	dir    string
	logger *log.Logger
}

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string, logger *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{dir: dir, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// LedgerPath returns the file holding the ledger of p.
func (s *Store) LedgerPath(p core.Period) string {
	return filepath.Join(s.dir, p.Key()+".json")
}

func (s *Store) categoriesPath() string {
	return filepath.Join(s.dir, CategoriesFile)
}

// LoadCategories implements storage.CategoryStore.
func (s *Store) LoadCategories(ctx context.Context) (*core.Registry, error) {
	reg := core.NewRegistry()
	found, err := s.load(ctx, s.categoriesPath(), reg)
	if err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Categories loaded", log.FieldPath, s.categoriesPath(), log.FieldCount, reg.Len(), "found", found)
	return reg, nil
}

// SaveCategories implements storage.CategoryStore.
func (s *Store) SaveCategories(ctx context.Context, reg *core.Registry) error {
	return s.save(ctx, s.categoriesPath(), reg)
}

// LoadMonthlyBudget implements storage.BudgetStore.
func (s *Store) LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error) {
	if err := storage.CheckPeriod(p); err != nil {
		return nil, err
	}
	b := core.NewMonthlyBudget()
	if _, err := s.load(ctx, s.LedgerPath(p), b); err != nil {
		return nil, err
	}
	if err := storage.CheckLedger(p, b); err != nil {
		return nil, fmt.Errorf("%s: %w", s.LedgerPath(p), err)
	}
	return b, nil
}

// SaveMonthlyBudget implements storage.BudgetStore.
func (s *Store) SaveMonthlyBudget(ctx context.Context, p core.Period, b *core.MonthlyBudget) error {
	if err := storage.CheckPeriod(p); err != nil {
		return err
	}
	return s.save(ctx, s.LedgerPath(p), b)
}

// Close implements storage.Store. There is nothing to release.
func (s *Store) Close() error { return nil }

// load decodes path into v. A missing file leaves v untouched and reports
// false.
func (s *Store) load(ctx context.Context, path string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", storage.ErrCorrupt, path, err)
	}
	return true, nil
}

// save writes v to a temporary file next to path and renames it into place,
// so a failed write never truncates the previous document.
func (s *Store) save(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	s.logger.DebugContext(ctx, "Document saved", log.FieldPath, path, "bytes", len(data))
	return nil
}
