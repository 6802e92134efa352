// Package report turns overviews into JSON documents for export.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"moneyz/internal/core"
)

// Line is the report of one category.
type Line struct {
	CategoryID uint32          `json:"category_id"`
	Category   string          `json:"category"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Balance    decimal.Decimal `json:"balance"`
}

// Month is the report of one period.
type Month struct {
	Period    string          `json:"period"`
	Currency  string          `json:"currency,omitempty"`
	Allocated decimal.Decimal `json:"allocated"`
	Total     decimal.Decimal `json:"total"`
	Orphaned  decimal.Decimal `json:"orphaned"`
	Lines     []Line          `json:"lines"`
}

// Year is the report of twelve periods.
type Year struct {
	Year      int             `json:"year"`
	Currency  string          `json:"currency,omitempty"`
	Allocated decimal.Decimal `json:"allocated"`
	Total     decimal.Decimal `json:"total"`
	Months    []Month         `json:"months"`
}

// NewMonthReport converts ov. currency is an ISO 4217 code, or empty.
func NewMonthReport(ov core.MonthOverview, currency string) Month {
	m := Month{
		Period:    ov.Period.String(),
		Currency:  currency,
		Allocated: ov.Allocated.Decimal(),
		Total:     ov.Total.Decimal(),
		Orphaned:  ov.Orphaned.Decimal(),
		Lines:     make([]Line, 0, len(ov.Lines)),
	}
	for _, l := range ov.Lines {
		if l.IsPlaceholder() {
			continue
		}
		m.Lines = append(m.Lines, Line{
			CategoryID: uint32(l.Category.ID),
			Category:   l.Category.Name,
			Allocated:  l.Allocated.Decimal(),
			Spent:      l.Spent.Decimal(),
			Balance:    l.Balance.Decimal(),
		})
	}
	return m
}

// NewYearReport converts the overviews of year. Sums are exact, so they
// cannot overflow the way int64 minor units can.
func NewYearReport(year core.Year, months []core.MonthOverview, currency string) Year {
	y := Year{
		Year:      int(year),
		Currency:  currency,
		Allocated: decimal.Zero,
		Total:     decimal.Zero,
		Months:    make([]Month, 0, len(months)),
	}
	for _, ov := range months {
		m := NewMonthReport(ov, "")
		y.Allocated = y.Allocated.Add(m.Allocated)
		y.Total = y.Total.Add(m.Total)
		y.Months = append(y.Months, m)
	}
	return y
}

// Write encodes v as indented JSON.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
