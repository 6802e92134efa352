package cli

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"moneyz/internal/core"
	"moneyz/internal/i18n"
	"moneyz/internal/view"
)

const (
	colorGreen   lipgloss.Color = "#a6e3a1"
	colorRed     lipgloss.Color = "#f38ba8"
	colorYellow  lipgloss.Color = "#f9e2af"
	colorOverlay lipgloss.Color = "#6c7086"
	colorAccent  lipgloss.Color = "#f5c2e7"
)

// theme holds the styles of one output. Colors are dropped when the output
// is not a terminal.
type theme struct {
	header      lipgloss.Style
	cell        lipgloss.Style
	credit      lipgloss.Style
	debit       lipgloss.Style
	placeholder lipgloss.Style
	renamed     lipgloss.Style
	orphaned    lipgloss.Style
	title       lipgloss.Style
}

func newTheme(w io.Writer) theme {
	r := lipgloss.NewRenderer(w)
	cell := r.NewStyle().Padding(0, 1)
	return theme{
		header:      cell.Bold(true).Foreground(colorAccent),
		cell:        cell,
		credit:      cell.Foreground(colorGreen),
		debit:       cell.Foreground(colorRed),
		placeholder: cell.Foreground(colorOverlay).Italic(true),
		renamed:     cell.Foreground(colorYellow),
		orphaned:    cell.Foreground(colorOverlay).Strikethrough(true),
		title:       r.NewStyle().Bold(true),
	}
}

func (t theme) tone(tone view.Tone) lipgloss.Style {
	switch tone {
	case view.Credit:
		return t.credit
	case view.Debit:
		return t.debit
	default:
		return t.cell
	}
}

func (t theme) highlight(h view.Highlight) lipgloss.Style {
	switch h {
	case view.Placeholder:
		return t.placeholder
	case view.Renamed:
		return t.renamed
	case view.Orphaned:
		return t.orphaned
	default:
		return t.cell
	}
}

func (t theme) newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(t.cell.Foreground(colorOverlay)).
		Headers(headers...)
}

func renderCategoryTable(t theme, tr i18n.Translator, rows []view.CategoryRow) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Highlight == view.Placeholder {
			continue
		}
		data = append(data, []string{strconv.FormatUint(uint64(r.ID), 10), r.Name, r.Allocated, r.Balance})
	}
	return t.newTable("#", tr.Label(i18n.KeyBudgetCategory), tr.Label(i18n.KeyBudgetAmount), tr.Label(i18n.KeyBudgetBalance)).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return t.header
			case col == 3:
				return t.tone(rows[row].Tone)
			default:
				return t.cell
			}
		}).
		String()
}

func renderSpendingTable(t theme, tr i18n.Translator, rows []view.SpendingRow) string {
	data := make([][]string, 0, len(rows))
	shown := make([]view.SpendingRow, 0, len(rows))
	for _, r := range rows {
		if r.Highlight == view.Placeholder {
			continue
		}
		shown = append(shown, r)
		data = append(data, []string{strconv.Itoa(r.Index), r.Day, r.Name, r.Category, r.Amount})
	}
	return t.newTable("#", tr.Label(i18n.KeySpendingDay), tr.Label(i18n.KeySpendingName), tr.Label(i18n.KeySpendingCat), tr.Label(i18n.KeySpendingAmount)).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return t.header
			case col == 3:
				return t.highlight(shown[row].Highlight)
			case col == 4:
				return t.tone(shown[row].Tone)
			default:
				return t.cell
			}
		}).
		String()
}

func renderYearTable(t theme, loc *i18n.Locale, months []core.MonthOverview, totals []string) string {
	data := make([][]string, 0, len(months)+1)
	tones := make([]view.Tone, 0, len(months)+1)
	for _, m := range months {
		data = append(data, []string{loc.MonthName(m.Period.Month), loc.FormatMoney(m.Allocated), loc.FormatMoney(m.Total)})
		tones = append(tones, view.ToneOf(m.Total))
	}
	data = append(data, totals)
	tones = append(tones, view.Null)

	return t.newTable("", loc.Label(i18n.KeyAllocated), loc.Label(i18n.KeySpendingAmount)).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return t.header
			case row == len(data)-1:
				return t.cell.Bold(true)
			case col == 2:
				return t.tone(tones[row])
			default:
				return t.cell
			}
		}).
		String()
}
