package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/core"
	"moneyz/internal/storage"
	"moneyz/internal/storage/storagetest"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	r, err := NewRepository(filepath.Join(t.TempDir(), "db", "moneyz.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRepository(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return newTestRepository(t) })
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "moneyz.db")
	ctx := context.Background()
	p := core.NewPeriod(2025, core.February)

	r, err := NewRepository(path, nil)
	require.NoError(t, err)
	reg := core.NewRegistry()
	reg.Add("Food")
	require.NoError(t, r.SaveCategories(ctx, reg))
	require.NoError(t, r.SaveMonthlyBudget(ctx, p, storagetest.SampleLedger()))
	require.NoError(t, r.Close())

	// migrations are idempotent on an existing database
	r, err = NewRepository(path, nil)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.LoadCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, reg.All(), got.All())

	b, err := r.LoadMonthlyBudget(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, storagetest.SampleLedger(), b)
}

func TestSpendingOrderIsKept(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	p := core.NewPeriod(2024, core.August)

	b := core.NewMonthlyBudget()
	for i, name := range []string{"c", "a", "b"} {
		b.Commit(core.Spending{Name: name, Category: core.CategoryRef{ID: 1, Name: "x"}, Amount: core.FromMinorUnits(int64(-i)), Day: core.Day(10 - i)})
	}
	require.NoError(t, r.SaveMonthlyBudget(ctx, p, b))

	got, err := r.LoadMonthlyBudget(ctx, p)
	require.NoError(t, err)
	require.Len(t, got.Spendings, 3)
	assert.Equal(t, "c", got.Spendings[0].Name)
	assert.Equal(t, "a", got.Spendings[1].Name)
	assert.Equal(t, "b", got.Spendings[2].Name)
}

func TestImpossibleDayIsCorrupt(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	p := core.NewPeriod(2023, core.February)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO spendings (year, month, position, name, category_id, category_name, amount_minor, day)
		 VALUES (2023, 2, 0, 'x', 0, 'Food', -100, 29)`)
	require.NoError(t, err)

	_, err = r.LoadMonthlyBudget(ctx, p)
	assert.ErrorIs(t, err, storage.ErrCorrupt)
	assert.ErrorIs(t, err, core.ErrInvalidDay)
}
