package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	reg := NewRegistry()
	food := reg.Add("Food")
	rent := reg.Add("Rent")
	foodCat, _ := reg.Get(food)
	rentCat, _ := reg.Get(rent)

	b := NewMonthlyBudget()
	b.SetAllocation(food, FromMinorUnits(30000))
	b.SetAllocation(rent, FromMinorUnits(90000))
	b.Commit(spend("bread", foodCat, -1500, 2))
	b.Commit(spend("flat", rentCat, -90000, 1))

	reg.Delete(rent)
	p := NewPeriod(2024, May)
	ov := b.Overview(p, reg)

	assert.Equal(t, p, ov.Period)
	assert.Equal(t, int64(30000), ov.Allocated.MinorUnits(), "allocations of deleted categories are not counted")
	assert.Equal(t, int64(-91500), ov.Total.MinorUnits())
	assert.Equal(t, int64(-90000), ov.Orphaned.MinorUnits())

	require.Len(t, ov.Lines, 1)
	line := ov.Lines[0]
	assert.Equal(t, foodCat, line.Category)
	assert.Equal(t, int64(30000), line.Allocated.MinorUnits())
	assert.Equal(t, int64(-1500), line.Spent.MinorUnits())
	assert.Equal(t, int64(28500), line.Balance.MinorUnits())
	assert.False(t, line.IsPlaceholder())
}

func TestDefaultCategoryAllocation(t *testing.T) {
	l := DefaultCategoryAllocation()
	assert.True(t, l.IsPlaceholder())
	assert.Equal(t, NoCategory, l.Category.ID)
	assert.True(t, l.Allocated.IsZero())
}
