// Package storage defines the persistence ports of the budget. Backends live
// in the subpackages: jsonfile, memory, sqlite, and cached as a decorator.
package storage

import (
	"context"
	"errors"
	"fmt"

	"moneyz/internal/core"
)

// ErrCorrupt marks stored data that exists but cannot be decoded.
var ErrCorrupt = errors.New("corrupt data")

// Ports for the persistence backends.
type (
	// CategoryStore persists the category registry. A store with no
	// registry yet returns an empty one.
	CategoryStore interface {
		LoadCategories(ctx context.Context) (*core.Registry, error)
		SaveCategories(ctx context.Context, reg *core.Registry) error
	}

	// BudgetStore persists one ledger per period. A period never saved
	// loads as an empty ledger.
	BudgetStore interface {
		LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error)
		SaveMonthlyBudget(ctx context.Context, p core.Period, b *core.MonthlyBudget) error
	}

	// Store is a complete backend.
	Store interface {
		CategoryStore
		BudgetStore
		Close() error
	}
)

// CheckPeriod rejects periods with an invalid month before they reach a
// backend.
func CheckPeriod(p core.Period) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %d", core.ErrInvalidMonth, int(p.Month))
	}
	return nil
}

// CheckLedger rejects a loaded ledger with a spending dated on a day that p
// does not have.
func CheckLedger(p core.Period, b *core.MonthlyBudget) error {
	for i, s := range b.Spendings {
		if _, err := core.ValidateDay(int(s.Day), p.Month, p.Year); err != nil {
			return fmt.Errorf("%w: spending %d of %s: %w", ErrCorrupt, i, p, err)
		}
	}
	return nil
}
