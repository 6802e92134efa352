package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/core"
	"moneyz/internal/storage"
	"moneyz/internal/storage/memory"
)

type brokenLoads struct {
	storage.Store
	bad core.Month
	err error
}

func (b brokenLoads) LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error) {
	if p.Month == b.bad {
		return nil, b.err
	}
	return b.Store.LoadMonthlyBudget(ctx, p)
}

func TestYearOverview(t *testing.T) {
	ctx := context.Background()
	store := memory.New("Food")
	reg, err := store.LoadCategories(ctx)
	require.NoError(t, err)
	food, _ := reg.Get(0)

	jan := core.NewMonthlyBudget()
	jan.SetAllocation(0, core.FromMinorUnits(20000))
	jan.Commit(core.Spending{Name: "bread", Category: core.RefOf(food), Amount: core.FromMinorUnits(-500), Day: 2})
	require.NoError(t, store.SaveMonthlyBudget(ctx, core.NewPeriod(2024, core.January), jan))

	mar := core.NewMonthlyBudget()
	mar.Commit(core.Spending{Name: "refund", Category: core.RefOf(food), Amount: core.FromMinorUnits(1200), Day: 9})
	require.NoError(t, store.SaveMonthlyBudget(ctx, core.NewPeriod(2024, core.March), mar))

	months, err := YearOverview(ctx, store, reg, 2024)
	require.NoError(t, err)
	require.Len(t, months, 12)

	for i, m := range months {
		assert.Equal(t, core.NewPeriod(2024, core.Month(i+1)), m.Period)
	}
	assert.Equal(t, int64(20000), months[0].Allocated.MinorUnits())
	assert.Equal(t, int64(-500), months[0].Total.MinorUnits())
	assert.Equal(t, int64(1200), months[2].Total.MinorUnits())
	assert.True(t, months[5].Total.IsZero())

	totals, err := SumYear(months)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), totals.Allocated.MinorUnits())
	assert.Equal(t, int64(700), totals.Total.MinorUnits())
}

func TestYearOverviewPropagatesErrors(t *testing.T) {
	boom := errors.New("unreadable")
	store := brokenLoads{Store: memory.New("Food"), bad: core.June, err: boom}

	_, err := YearOverview(context.Background(), store, core.NewRegistry(), 2024)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "2024-06")
}
