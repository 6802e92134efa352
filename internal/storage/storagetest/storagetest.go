// Package storagetest holds the behaviour every storage.Store must share,
// run by each backend's tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/core"
	"moneyz/internal/storage"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.Store

// SampleLedger returns a ledger exercising every stored field: credits and
// debits, an allocation, a renamed snapshot and an unassigned spending.
func SampleLedger() *core.MonthlyBudget {
	b := core.NewMonthlyBudget()
	b.SetAllocation(0, core.FromMinorUnits(30000))
	b.SetAllocation(7, core.FromMinorUnits(-150))
	b.Commit(core.Spending{Name: "bread", Category: core.CategoryRef{ID: 0, Name: "Food"}, Amount: core.FromMinorUnits(-350), Day: 3})
	b.Commit(core.Spending{Name: "refund", Category: core.CategoryRef{ID: 0, Name: "Groceries"}, Amount: core.FromMinorUnits(1200), Day: 28})
	b.Commit(core.Spending{Name: "", Category: core.CategoryRef{ID: core.NoCategory}, Amount: core.Money{}, Day: 1})
	return b
}

// Run executes the shared store tests.
func Run(t *testing.T, open Factory) {
	ctx := context.Background()
	may := core.NewPeriod(2024, core.May)
	june := core.NewPeriod(2024, core.June)

	t.Run("empty registry", func(t *testing.T) {
		s := open(t)
		reg, err := s.LoadCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("registry round trip", func(t *testing.T) {
		s := open(t)
		reg := core.NewRegistry()
		reg.Add("Food")
		rent := reg.Add("Rent")
		reg.Add("Travel")
		reg.Delete(rent)
		require.NoError(t, s.SaveCategories(ctx, reg))

		got, err := s.LoadCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, reg.All(), got.All())
		assert.Equal(t, core.CategoryID(3), got.NextID())
	})

	t.Run("empty ledger", func(t *testing.T) {
		s := open(t)
		b, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Empty(t, b.Allocations)
		assert.Empty(t, b.Spendings)
		assert.Equal(t, int64(0), core.TotalForMonth(b))
	})

	t.Run("ledger round trip", func(t *testing.T) {
		s := open(t)
		want := SampleLedger()
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, want))

		got, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("periods are independent", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, SampleLedger()))

		other, err := s.LoadMonthlyBudget(ctx, june)
		require.NoError(t, err)
		assert.Empty(t, other.Spendings)

		other.SetAllocation(1, core.FromMinorUnits(5))
		require.NoError(t, s.SaveMonthlyBudget(ctx, june, other))

		got, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, SampleLedger(), got)
	})

	t.Run("save replaces the previous ledger", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, SampleLedger()))

		smaller := SampleLedger()
		smaller.ClearAllocation(7)
		require.NoError(t, smaller.RemoveSpending(1))
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, smaller))

		got, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, smaller, got)
	})

	t.Run("stored ledger is not aliased", func(t *testing.T) {
		s := open(t)
		b := SampleLedger()
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, b))
		b.Spendings[0].Name = "changed"
		b.SetAllocation(0, core.FromMinorUnits(1))

		got, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, "bread", got.Spendings[0].Name)
		assert.Equal(t, int64(30000), got.Allocation(0).MinorUnits())

		got.Spendings[0].Name = "changed again"
		again, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, "bread", again.Spendings[0].Name)
	})

	t.Run("placeholders are not stored", func(t *testing.T) {
		s := open(t)
		b := SampleLedger()
		b.Spendings = append(b.Spendings, core.DefaultSpending(9))
		require.NoError(t, s.SaveMonthlyBudget(ctx, may, b))

		got, err := s.LoadMonthlyBudget(ctx, may)
		require.NoError(t, err)
		assert.Equal(t, SampleLedger(), got)
	})

	t.Run("invalid period", func(t *testing.T) {
		s := open(t)
		bad := core.NewPeriod(2024, core.Month(13))
		assert.ErrorIs(t, s.SaveMonthlyBudget(ctx, bad, core.NewMonthlyBudget()), core.ErrInvalidMonth)
		_, err := s.LoadMonthlyBudget(ctx, bad)
		assert.ErrorIs(t, err, core.ErrInvalidMonth)
	})
}
