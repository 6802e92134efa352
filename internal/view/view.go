// Package view projects the registry and a ledger into display rows. It is
// one-way: rows are built from the domain and never written back.
package view

import (
	"slices"
	"strconv"

	"moneyz/internal/core"
	"moneyz/internal/i18n"
)

// Highlight tells a front end how to style a row.
type Highlight uint8

const (
	Normal Highlight = iota
	// Placeholder marks the blank row used to enter a new item.
	Placeholder
	// Renamed marks a spending whose category was renamed since it was
	// recorded.
	Renamed
	// Orphaned marks a spending whose category was deleted.
	Orphaned
)

func (h Highlight) String() string {
	switch h {
	case Placeholder:
		return "placeholder"
	case Renamed:
		return "renamed"
	case Orphaned:
		return "orphaned"
	default:
		return "normal"
	}
}

// Tone is the color class of an amount.
type Tone uint8

const (
	Null Tone = iota
	Credit
	Debit
)

func (t Tone) String() string {
	switch t {
	case Credit:
		return "credit"
	case Debit:
		return "debit"
	default:
		return "null"
	}
}

// ToneOf classifies m: zero is Null whatever its sign.
func ToneOf(m core.Money) Tone {
	switch {
	case m.IsZero():
		return Null
	case m.Sign() == core.Debit:
		return Debit
	default:
		return Credit
	}
}

// CategoryRow is one line of the category table.
type CategoryRow struct {
	ID        core.CategoryID
	Name      string
	Allocated string
	Balance   string
	Tone      Tone // of Balance
	Highlight Highlight
}

// CategoryRows returns one row per live category in id order, followed by
// the placeholder row.
func CategoryRows(reg *core.Registry, b *core.MonthlyBudget, tr i18n.Translator) []CategoryRow {
	lines := append(b.Lines(reg), core.DefaultCategoryAllocation())
	rows := make([]CategoryRow, 0, len(lines))
	for _, l := range lines {
		row := CategoryRow{
			ID:        l.Category.ID,
			Name:      l.Category.Name,
			Allocated: i18n.FormatMoney(tr, l.Allocated),
			Balance:   i18n.FormatMoney(tr, l.Balance),
			Tone:      ToneOf(l.Balance),
		}
		if l.IsPlaceholder() {
			row.Highlight = Placeholder
		}
		rows = append(rows, row)
	}
	return rows
}

// SpendingRow is one line of the spending table.
type SpendingRow struct {
	// Index addresses the spending in the ledger. The placeholder row has
	// Index == len(ledger.Spendings).
	Index      int
	Name       string
	CategoryID core.CategoryID
	Category   string
	Amount     string
	Day        string
	Tone       Tone
	Highlight  Highlight
}

// SpendingRows returns the spendings of b ordered by day, ties kept in entry
// order, followed by a placeholder row dated today.
func SpendingRows(reg *core.Registry, b *core.MonthlyBudget, tr i18n.Translator, today core.Day) []SpendingRow {
	order := make([]int, 0, len(b.Spendings))
	for i, s := range b.Spendings {
		if !s.IsPlaceholder() {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return int(b.Spendings[i].Day) - int(b.Spendings[j].Day)
	})

	rows := make([]SpendingRow, 0, len(order)+1)
	for _, i := range order {
		s := b.Spendings[i]
		row := SpendingRow{
			Index:      i,
			Name:       s.Name,
			CategoryID: s.Category.ID,
			Amount:     i18n.FormatMoney(tr, s.Amount),
			Day:        strconv.Itoa(int(s.Day)),
			Tone:       ToneOf(s.Amount),
		}
		row.Category, row.Highlight = categoryCell(s, reg, tr)
		rows = append(rows, row)
	}

	p := core.DefaultSpending(today)
	return append(rows, SpendingRow{
		Index:      len(b.Spendings),
		Name:       p.Name,
		CategoryID: p.Category.ID,
		Category:   tr.Label(i18n.KeyNoCategory),
		Amount:     i18n.FormatMoney(tr, p.Amount),
		Day:        strconv.Itoa(int(p.Day)),
		Tone:       Null,
		Highlight:  Placeholder,
	})
}

func categoryCell(s core.Spending, reg *core.Registry, tr i18n.Translator) (string, Highlight) {
	if s.Category.ID == core.NoCategory {
		return tr.Label(i18n.KeyNoCategory), Normal
	}
	d := core.Reconcile(s, reg)
	switch d.State {
	case core.Renamed:
		return d.Name, Renamed
	case core.OrphanedCategory:
		return tr.Label(i18n.KeyOrphaned, d.Name), Orphaned
	default:
		return d.Name, Normal
	}
}

// DayChoices lists the days of p, 1 to the last day of the month.
func DayChoices(p core.Period) []core.Day {
	n := p.Days()
	days := make([]core.Day, n)
	for i := range days {
		days[i] = core.Day(i + 1)
	}
	return days
}

// Total is the month total line.
type Total struct {
	Label  string
	Amount string
	Tone   Tone
}

// MonthTotal labels and formats the total of b for period p.
func MonthTotal(b *core.MonthlyBudget, p core.Period, tr i18n.Translator) Total {
	m := core.FromMinorUnits(core.TotalForMonth(b))
	return Total{
		Label:  tr.Label(i18n.KeyMonthTotal, tr.Label(i18n.MonthKey(p.Month))),
		Amount: i18n.FormatMoney(tr, m),
		Tone:   ToneOf(m),
	}
}
