package core

// BudgetLine is the per-category view of a ledger: what was allocated, what
// was spent and what is left.
type BudgetLine struct {
	Category  Category
	Allocated Money
	Spent     Money
	Balance   Money

	placeholder bool
}

// DefaultCategoryAllocation returns the blank category row a front end shows
// below the category list so the user can create a category. It is not
// backed by the registry and takes part in no computation.
func DefaultCategoryAllocation() BudgetLine {
	return BudgetLine{
		Category:    Category{ID: NoCategory},
		placeholder: true,
	}
}

// IsPlaceholder reports whether l is the blank default row.
func (l BudgetLine) IsPlaceholder() bool {
	return l.placeholder
}

// MonthOverview is a compact summary of one period.
type MonthOverview struct {
	Period    Period
	Allocated Money
	Total     Money // signed sum of all spendings
	// Orphaned is the part of Total booked on categories that no longer exist.
	Orphaned Money
	Lines    []BudgetLine
}

// Lines returns one BudgetLine per live category of reg, in id order.
func (b *MonthlyBudget) Lines(reg *Registry) []BudgetLine {
	cats := reg.All()
	lines := make([]BudgetLine, 0, len(cats))
	for _, c := range cats {
		lines = append(lines, BudgetLine{
			Category:  c,
			Allocated: b.Allocation(c.ID),
			Spent:     FromMinorUnits(b.Spent(c.ID)),
			Balance:   FromMinorUnits(b.BalanceOf(c.ID)),
		})
	}
	return lines
}

// Overview summarizes b for period p against reg. Its sums are clamped like
// BalanceOf.
func (b *MonthlyBudget) Overview(p Period, reg *Registry) MonthOverview {
	var allocated, orphaned int64
	for _, c := range reg.All() {
		allocated = clampedAdd(allocated, b.Allocation(c.ID).MinorUnits())
	}
	for _, s := range b.Spendings {
		if s.placeholder {
			continue
		}
		if _, ok := reg.Get(s.Category.ID); !ok {
			orphaned = clampedAdd(orphaned, s.Amount.MinorUnits())
		}
	}
	return MonthOverview{
		Period:    p,
		Allocated: FromMinorUnits(allocated),
		Total:     FromMinorUnits(TotalForMonth(b)),
		Orphaned:  FromMinorUnits(orphaned),
		Lines:     b.Lines(reg),
	}
}
