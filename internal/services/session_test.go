package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/config"
	"moneyz/internal/core"
	"moneyz/internal/i18n"
	"moneyz/internal/log"
	"moneyz/internal/storage"
	"moneyz/internal/storage/memory"
)

var feb2024 = core.NewPeriod(2024, core.February)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
}

func openSession(t *testing.T, store storage.Store) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		Store:  store,
		Logger: log.Discard(),
		Now:    fixedNow,
	}, feb2024)
	require.NoError(t, err)
	return s
}

type failingStore struct {
	storage.Store
	err error
}

func (f failingStore) SaveCategories(context.Context, *core.Registry) error { return f.err }

func (f failingStore) SaveMonthlyBudget(context.Context, core.Period, *core.MonthlyBudget) error {
	return f.err
}

// partialStore fails the saves whose error is set and passes the rest on.
type partialStore struct {
	storage.Store
	categoriesErr error
	ledgerErr     error
}

func (p partialStore) SaveCategories(ctx context.Context, reg *core.Registry) error {
	if p.categoriesErr != nil {
		return p.categoriesErr
	}
	return p.Store.SaveCategories(ctx, reg)
}

func (p partialStore) SaveMonthlyBudget(ctx context.Context, period core.Period, b *core.MonthlyBudget) error {
	if p.ledgerErr != nil {
		return p.ledgerErr
	}
	return p.Store.SaveMonthlyBudget(ctx, period, b)
}

func TestOpen(t *testing.T) {
	s := openSession(t, memory.New("Food", "Rent"))
	assert.Equal(t, feb2024, s.Period())
	assert.Equal(t, 2, s.Registry().Len())
	assert.Empty(t, s.Ledger().Spendings)
	assert.Equal(t, core.Day(29), s.Today(), "today is capped to the length of the period")
	assert.Equal(t, i18n.DefaultLanguage, s.Translator().(*i18n.Locale).ID())

	_, err := Open(context.Background(), Options{Store: memory.New()}, core.NewPeriod(2024, 13))
	assert.ErrorIs(t, err, core.ErrInvalidMonth)

	_, err = Open(context.Background(), Options{}, feb2024)
	assert.Error(t, err)
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food")
	s := openSession(t, store)

	id, err := s.CreateCategory(ctx, "Travel")
	require.NoError(t, err)
	assert.Equal(t, core.CategoryID(1), id)

	stored, err := store.LoadCategories(ctx)
	require.NoError(t, err)
	c, ok := stored.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Travel", c.Name)

	_, err = s.CreateCategory(ctx, "Food")
	assert.ErrorIs(t, err, core.ErrDuplicateName)
	assert.Equal(t, 2, s.Registry().Len())
}

func TestRenameCategoryUpdatesStoredSpendings(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food", "Rent")
	s := openSession(t, store)

	_, err := s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-3.50", Day: "3"})
	require.NoError(t, err)
	_, err = s.AddSpending(ctx, NewSpending{Name: "flat", Category: 1, Amount: "-900", Day: "1"})
	require.NoError(t, err)

	require.NoError(t, s.RenameCategory(ctx, 0, "Groceries"))

	reg, err := store.LoadCategories(ctx)
	require.NoError(t, err)
	c, _ := reg.Get(0)
	assert.Equal(t, "Groceries", c.Name)

	b, err := store.LoadMonthlyBudget(ctx, feb2024)
	require.NoError(t, err)
	require.Len(t, b.Spendings, 2)
	assert.Equal(t, "Groceries", b.Spendings[0].Category.Name)
	assert.Equal(t, "Rent", b.Spendings[1].Category.Name)
	assert.Equal(t, core.Unchanged, core.Reconcile(b.Spendings[0], reg).State)

	assert.ErrorIs(t, s.RenameCategory(ctx, 1, "Groceries"), core.ErrDuplicateName)
	assert.ErrorIs(t, s.RenameCategory(ctx, 9, "Other"), core.ErrUnknownCategory)
}

func TestDeleteCategoryKeepsSpendings(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New("Food"))

	require.NoError(t, s.SetAllocationText(ctx, 0, "100"))
	_, err := s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-3.50", Day: "3"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory(ctx, 0))
	assert.ErrorIs(t, s.DeleteCategory(ctx, 0), core.ErrUnknownCategory)

	require.Len(t, s.Ledger().Spendings, 1)
	assert.Equal(t, core.OrphanedCategory, core.Reconcile(s.Ledger().Spendings[0], s.Registry()).State)
	assert.Equal(t, int64(-350), s.Overview().Orphaned.MinorUnits())
}

func TestSetAllocationText(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food")
	fr, err := i18n.Lookup("fr_FR")
	require.NoError(t, err)

	s, err := Open(ctx, Options{Store: store, Translator: fr, Logger: log.Discard(), Now: fixedNow}, feb2024)
	require.NoError(t, err)

	require.NoError(t, s.SetAllocationText(ctx, 0, "1 234,50"))
	b, err := store.LoadMonthlyBudget(ctx, feb2024)
	require.NoError(t, err)
	assert.Equal(t, int64(123450), b.Allocation(0).MinorUnits())

	assert.ErrorIs(t, s.SetAllocationText(ctx, 0, "12.34.5"), core.ErrInvalidAmount)
	assert.ErrorIs(t, s.SetAllocationText(ctx, 7, "1"), core.ErrUnknownCategory)
	assert.Equal(t, int64(123450), s.Ledger().Allocation(0).MinorUnits())
}

func TestAddSpendingValidates(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New("Food"))

	idx, err := s.AddSpending(ctx, NewSpending{Name: "leap", Category: 0, Amount: "-1", Day: "29"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	_, err = s.AddSpending(ctx, NewSpending{Name: "bad", Category: 0, Amount: "-1", Day: "30"})
	assert.ErrorIs(t, err, core.ErrInvalidDay)
	_, err = s.AddSpending(ctx, NewSpending{Name: "bad", Category: 0, Amount: "x", Day: "1"})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
	_, err = s.AddSpending(ctx, NewSpending{Name: "bad", Category: 5, Amount: "1", Day: "1"})
	assert.ErrorIs(t, err, core.ErrUnknownCategory)

	assert.Len(t, s.Ledger().Spendings, 1)
}

func TestEditSpending(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food", "Rent")
	s := openSession(t, store)

	_, err := s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-3.50", Day: "3"})
	require.NoError(t, err)

	require.NoError(t, s.EditSpendingName(ctx, 0, "baguette"))
	require.NoError(t, s.EditSpendingAmount(ctx, 0, "-4"))
	require.NoError(t, s.EditSpendingDay(ctx, 0, "28"))
	require.NoError(t, s.EditSpendingCategory(ctx, 0, 1))

	b, err := store.LoadMonthlyBudget(ctx, feb2024)
	require.NoError(t, err)
	require.Len(t, b.Spendings, 1)
	got := b.Spendings[0]
	assert.Equal(t, "baguette", got.Name)
	assert.Equal(t, int64(-400), got.Amount.MinorUnits())
	assert.Equal(t, core.Day(28), got.Day)
	assert.Equal(t, core.CategoryRef{ID: 1, Name: "Rent"}, got.Category)
}

func TestRejectedEditLeavesLedgerUnchanged(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New("Food"))

	_, err := s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-3.50", Day: "3"})
	require.NoError(t, err)
	before := s.Ledger().Clone()

	assert.ErrorIs(t, s.EditSpendingDay(ctx, 0, "30"), core.ErrInvalidDay)
	assert.ErrorIs(t, s.EditSpendingDay(ctx, 0, "x"), core.ErrInvalidDayText)
	assert.ErrorIs(t, s.EditSpendingAmount(ctx, 0, "1.2.3"), core.ErrInvalidAmount)
	assert.ErrorIs(t, s.EditSpendingCategory(ctx, 0, 3), core.ErrUnknownCategory)
	assert.ErrorIs(t, s.EditSpendingName(ctx, 5, "nope"), core.ErrSpendingIndex)
	assert.ErrorIs(t, s.RemoveSpending(ctx, 1), core.ErrSpendingIndex)

	assert.Equal(t, before, s.Ledger())
}

func TestEditPlaceholderCommitsSpending(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New("Food"))

	require.NoError(t, s.EditSpendingName(ctx, 0, "coffee"))
	require.Len(t, s.Ledger().Spendings, 1)
	got := s.Ledger().Spendings[0]
	assert.False(t, got.IsPlaceholder())
	assert.Equal(t, "coffee", got.Name)
	assert.Equal(t, core.NoCategory, got.Category.ID)
	assert.Equal(t, s.Today(), got.Day)
	assert.True(t, got.Amount.IsZero())

	require.NoError(t, s.EditSpendingAmount(ctx, 1, "-2.20"))
	require.Len(t, s.Ledger().Spendings, 2)
	assert.Equal(t, int64(-220), core.TotalForMonth(s.Ledger()))
}

func TestRemoveSpending(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food")
	s := openSession(t, store)

	for _, name := range []string{"a", "b", "c"} {
		_, err := s.AddSpending(ctx, NewSpending{Name: name, Category: 0, Amount: "-1", Day: "1"})
		require.NoError(t, err)
	}
	require.NoError(t, s.RemoveSpending(ctx, 1))

	b, err := store.LoadMonthlyBudget(ctx, feb2024)
	require.NoError(t, err)
	require.Len(t, b.Spendings, 2)
	assert.Equal(t, "a", b.Spendings[0].Name)
	assert.Equal(t, "c", b.Spendings[1].Name)
}

func TestFailedSaveLeavesSessionUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	s := openSession(t, failingStore{Store: memory.New("Food"), err: boom})

	_, err := s.CreateCategory(ctx, "Rent")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Registry().Len())

	_, err = s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-1", Day: "1"})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Ledger().Spendings)

	assert.ErrorIs(t, s.RenameCategory(ctx, 0, "Groceries"), boom)
	c, _ := s.Registry().Get(0)
	assert.Equal(t, "Food", c.Name)
}

func TestFailedRenameLeavesSessionAndStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")

	cases := map[string]func(storage.Store) storage.Store{
		"ledger save fails": func(inner storage.Store) storage.Store {
			return partialStore{Store: inner, ledgerErr: boom}
		},
		"categories save fails": func(inner storage.Store) storage.Store {
			return partialStore{Store: inner, categoriesErr: boom}
		},
	}
	for name, wrap := range cases {
		t.Run(name, func(t *testing.T) {
			inner := memory.New("Food")
			_, err := openSession(t, inner).AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-3", Day: "3"})
			require.NoError(t, err)

			s := openSession(t, wrap(inner))
			assert.ErrorIs(t, s.RenameCategory(ctx, 0, "Groceries"), boom)

			c, _ := s.Registry().Get(0)
			assert.Equal(t, "Food", c.Name)
			assert.Equal(t, "Food", s.Ledger().Spendings[0].Category.Name)

			reg, err := inner.LoadCategories(ctx)
			require.NoError(t, err)
			c, _ = reg.Get(0)
			assert.Equal(t, "Food", c.Name)

			b, err := inner.LoadMonthlyBudget(ctx, feb2024)
			require.NoError(t, err)
			assert.Equal(t, "Food", b.Spendings[0].Category.Name)
			assert.Equal(t, core.Unchanged, core.Reconcile(b.Spendings[0], reg).State)
		})
	}
}

func TestSelectPeriod(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, memory.New("Food"))

	_, err := s.AddSpending(ctx, NewSpending{Name: "bread", Category: 0, Amount: "-1", Day: "1"})
	require.NoError(t, err)

	require.NoError(t, s.SelectPeriod(ctx, feb2024.Next()))
	assert.Empty(t, s.Ledger().Spendings)
	assert.Equal(t, core.Day(31), s.Today())

	require.NoError(t, s.SelectPeriod(ctx, feb2024))
	assert.Len(t, s.Ledger().Spendings, 1)

	assert.ErrorIs(t, s.SelectPeriod(ctx, core.NewPeriod(2024, 0)), core.ErrInvalidMonth)
	assert.Equal(t, feb2024, s.Period())
}

func TestSetLanguage(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(ctx, Options{Store: memory.New(), Logger: log.Discard(), DataDir: dir}, feb2024)
	require.NoError(t, err)

	loc, err := s.SetLanguage(ctx, "fr-FR")
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", loc.ID())
	assert.Equal(t, ".", s.Translator().DecimalSeparator(), "the running session keeps its language")

	settings, err := config.LoadSettings(dir)
	require.NoError(t, err)
	assert.Equal(t, "fr_FR", settings.Language)

	_, err = s.SetLanguage(ctx, "xx_YY")
	assert.ErrorIs(t, err, i18n.ErrUnknownLanguage)

	noDir := openSession(t, memory.New())
	_, err = noDir.SetLanguage(ctx, "de_DE")
	assert.ErrorIs(t, err, ErrNoDataDir)
}
