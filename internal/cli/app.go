package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"moneyz/internal/core"
	"moneyz/internal/i18n"
	"moneyz/internal/log"
	"moneyz/internal/report"
	"moneyz/internal/services"
	"moneyz/internal/storage"
	"moneyz/internal/view"
)

// ErrUsage reports a command line that does not match any command.
var ErrUsage = errors.New("usage error")

// Usage lists the commands.
const Usage = `usage: moneyz [-data-dir DIR] <command> [args]

commands:
  categories                              list categories
  add-category NAME                       create a category
  rename-category ID NAME                 rename a category
  delete-category ID                      delete a category
  allocate PERIOD ID AMOUNT               set the budget of a category
  spend PERIOD NAME CATEGORY AMOUNT DAY   record a spending
  edit-spending PERIOD INDEX FIELD VALUE  change name, amount, day or category
  remove-spending PERIOD INDEX            delete a spending
  show PERIOD                             show categories, spendings and total
  year YEAR                               show the totals of each month
  report PERIOD|YEAR                      print a JSON report
  language [ID]                           list languages or choose one

PERIOD is YYYY-MM. CATEGORY is an id or a name. Amounts use the separators
of the configured language.`

// App runs one command against a store.
type App struct {
	Out     io.Writer
	Logger  *log.Logger
	Store   storage.Store
	Locale  *i18n.Locale
	DataDir string
	Now     func() time.Time
}

type command struct {
	args int // exact count, or -1 for "0 or 1"
	run  func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"categories":      {0, (*App).categories},
	"add-category":    {1, (*App).addCategory},
	"rename-category": {2, (*App).renameCategory},
	"delete-category": {1, (*App).deleteCategory},
	"allocate":        {3, (*App).allocate},
	"spend":           {5, (*App).spend},
	"edit-spending":   {4, (*App).editSpending},
	"remove-spending": {2, (*App).removeSpending},
	"show":            {1, (*App).show},
	"year":            {1, (*App).year},
	"report":          {1, (*App).report},
	"language":        {-1, (*App).language},
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command", ErrUsage)
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	rest := args[1:]
	if (cmd.args >= 0 && len(rest) != cmd.args) || (cmd.args < 0 && len(rest) > 1) {
		return fmt.Errorf("%w: wrong number of arguments for %s", ErrUsage, args[0])
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.Locale == nil {
		a.Locale = i18n.Default()
	}
	if a.Logger == nil {
		a.Logger = log.Discard()
	}
	ctx = log.NewContext(ctx, a.Logger)
	return cmd.run(a, ctx, rest)
}

func (a *App) open(ctx context.Context, p core.Period) (*services.Session, error) {
	return services.Open(ctx, services.Options{
		Store:      a.Store,
		Translator: a.Locale,
		Logger:     a.Logger,
		DataDir:    a.DataDir,
		Now:        a.Now,
	}, p)
}

func (a *App) openPeriod(ctx context.Context, text string) (*services.Session, error) {
	p, err := core.ParsePeriod(text)
	if err != nil {
		return nil, err
	}
	return a.open(ctx, p)
}

func (a *App) openCurrent(ctx context.Context) (*services.Session, error) {
	return a.open(ctx, core.PeriodOf(a.Now()))
}

func (a *App) categories(ctx context.Context, _ []string) error {
	s, err := a.openCurrent(ctx)
	if err != nil {
		return err
	}
	for _, c := range s.Registry().All() {
		fmt.Fprintf(a.Out, "%d\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *App) addCategory(ctx context.Context, args []string) error {
	s, err := a.openCurrent(ctx)
	if err != nil {
		return err
	}
	id, err := s.CreateCategory(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, id)
	return nil
}

func (a *App) renameCategory(ctx context.Context, args []string) error {
	id, err := parseCategoryID(args[0])
	if err != nil {
		return err
	}
	s, err := a.openCurrent(ctx)
	if err != nil {
		return err
	}
	return s.RenameCategory(ctx, id, args[1])
}

func (a *App) deleteCategory(ctx context.Context, args []string) error {
	id, err := parseCategoryID(args[0])
	if err != nil {
		return err
	}
	s, err := a.openCurrent(ctx)
	if err != nil {
		return err
	}
	return s.DeleteCategory(ctx, id)
}

func (a *App) allocate(ctx context.Context, args []string) error {
	id, err := parseCategoryID(args[1])
	if err != nil {
		return err
	}
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	return s.SetAllocationText(ctx, id, args[2])
}

func (a *App) spend(ctx context.Context, args []string) error {
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	c, err := resolveCategory(s.Registry(), args[2])
	if err != nil {
		return err
	}
	idx, err := s.AddSpending(ctx, services.NewSpending{
		Name:     args[1],
		Category: c.ID,
		Amount:   args[3],
		Day:      args[4],
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, idx)
	return nil
}

func (a *App) editSpending(ctx context.Context, args []string) error {
	i, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	value := args[3]
	switch args[2] {
	case "name":
		return s.EditSpendingName(ctx, i, value)
	case "amount":
		return s.EditSpendingAmount(ctx, i, value)
	case "day":
		return s.EditSpendingDay(ctx, i, value)
	case "category":
		c, err := resolveCategory(s.Registry(), value)
		if err != nil {
			return err
		}
		return s.EditSpendingCategory(ctx, i, c.ID)
	default:
		return fmt.Errorf("%w: unknown field %q", ErrUsage, args[2])
	}
}

func (a *App) removeSpending(ctx context.Context, args []string) error {
	i, err := parseIndex(args[1])
	if err != nil {
		return err
	}
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	return s.RemoveSpending(ctx, i)
}

func (a *App) show(ctx context.Context, args []string) error {
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	t := newTheme(a.Out)
	reg, b, p := s.Registry(), s.Ledger(), s.Period()

	fmt.Fprintln(a.Out, t.title.Render(a.Locale.MonthName(p.Month)+" "+strconv.Itoa(int(p.Year))))
	fmt.Fprintln(a.Out, renderCategoryTable(t, a.Locale, view.CategoryRows(reg, b, a.Locale)))
	fmt.Fprintln(a.Out, renderSpendingTable(t, a.Locale, view.SpendingRows(reg, b, a.Locale, s.Today())))

	total := view.MonthTotal(b, p, a.Locale)
	fmt.Fprintln(a.Out, t.title.Render(total.Label+":")+" "+t.tone(total.Tone).UnsetPadding().Render(total.Amount))
	return nil
}

func (a *App) loadYear(ctx context.Context, text string) (core.Year, []core.MonthOverview, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: year %q", core.ErrParse, text)
	}
	reg, err := a.Store.LoadCategories(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("load categories: %w", err)
	}
	months, err := services.YearOverview(ctx, a.Store, reg, core.Year(n))
	if err != nil {
		return 0, nil, err
	}
	return core.Year(n), months, nil
}

func (a *App) year(ctx context.Context, args []string) error {
	y, months, err := a.loadYear(ctx, args[0])
	if err != nil {
		return err
	}
	sum, err := services.SumYear(months)
	if err != nil {
		return err
	}
	t := newTheme(a.Out)
	fmt.Fprintln(a.Out, t.title.Render(strconv.Itoa(int(y))))
	fmt.Fprintln(a.Out, renderYearTable(t, a.Locale, months, []string{
		a.Locale.Label(i18n.KeyYearTotal),
		a.Locale.FormatMoney(sum.Allocated),
		a.Locale.FormatMoney(sum.Total),
	}))
	return nil
}

func (a *App) report(ctx context.Context, args []string) error {
	if !strings.Contains(args[0], "-") {
		y, months, err := a.loadYear(ctx, args[0])
		if err != nil {
			return err
		}
		return report.Write(a.Out, report.NewYearReport(y, months, a.Locale.Currency()))
	}
	s, err := a.openPeriod(ctx, args[0])
	if err != nil {
		return err
	}
	return report.Write(a.Out, report.NewMonthReport(s.Overview(), a.Locale.Currency()))
}

func (a *App) language(ctx context.Context, args []string) error {
	if len(args) == 0 {
		for _, opt := range i18n.Languages() {
			mark := " "
			if opt.ID == a.Locale.ID() {
				mark = "*"
			}
			fmt.Fprintf(a.Out, "%s %s\t%s\n", mark, opt.ID, opt.Display)
		}
		return nil
	}
	s, err := a.openCurrent(ctx)
	if err != nil {
		return err
	}
	loc, err := s.SetLanguage(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, loc.Label(i18n.KeyRestartRequired))
	return nil
}

func parseCategoryID(text string) (core.CategoryID, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil || core.CategoryID(n) == core.NoCategory {
		return 0, fmt.Errorf("%w: category id %q", core.ErrParse, text)
	}
	return core.CategoryID(n), nil
}

func parseIndex(text string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", core.ErrParse, text)
	}
	return n, nil
}

// resolveCategory accepts a category id or an exact name.
func resolveCategory(reg *core.Registry, text string) (core.Category, error) {
	if id, err := parseCategoryID(text); err == nil {
		if c, ok := reg.Get(id); ok {
			return c, nil
		}
	}
	if c, ok := reg.Lookup(strings.TrimSpace(text)); ok {
		return c, nil
	}
	return core.Category{}, fmt.Errorf("%w: %q", core.ErrUnknownCategory, text)
}
