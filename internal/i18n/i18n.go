// Package i18n supplies the locale-specific pieces the budget needs: the
// decimal and grouping separators used to parse and format Money, and the
// translated labels shown by the front end.
package i18n

import (
	"errors"
	"strconv"

	"moneyz/internal/core"
)

// Translator is what formatting code needs from a language.
type Translator interface {
	DecimalSeparator() string
	ThousandsSeparator() string
	Label(key string, args ...any) string
}

// Label keys.
const (
	KeyBudgetCategory  = "budget.category"
	KeyBudgetAmount    = "budget.amount"
	KeyBudgetBalance   = "budget.balance"
	KeySpendingName    = "spending.name"
	KeySpendingCat     = "spending.category"
	KeySpendingAmount  = "spending.amount"
	KeySpendingDay     = "spending.day"
	KeyMonthTotal      = "month.total"
	KeyOrphaned        = "category.orphaned"
	KeyNoCategory      = "category.none"
	KeyRestartRequired = "restart.required"
	KeyAllocated       = "overview.allocated"
	KeyYearTotal       = "overview.year_total"
)

// DefaultLanguage is used when no language is configured or the configured
// one is unknown.
const DefaultLanguage = "en_GB"

// ErrUnknownLanguage is returned by Lookup for ids with no translation.
var ErrUnknownLanguage = errors.New("unknown language")

// MonthKey returns the label key of month m.
func MonthKey(m core.Month) string {
	return "month." + strconv.Itoa(int(m))
}

// FormatMoney renders m with the translator's separators, e.g. "-1,234.05".
func FormatMoney(t Translator, m core.Money) string {
	return m.SignGlyph() + m.FormatWhole(t.ThousandsSeparator()) + t.DecimalSeparator() + m.FormatCents()
}

// ParseMoney parses user input formatted for t. Grouping separators are
// accepted between thousands only, so "1,234.50" is valid for en_GB while
// "12,5.00" is not.
func ParseMoney(t Translator, text string) (core.Money, error) {
	plain, err := stripGrouping(text, t.ThousandsSeparator(), t.DecimalSeparator())
	if err != nil {
		return core.Money{}, err
	}
	return core.ParseMoney(plain, t.DecimalSeparator())
}
