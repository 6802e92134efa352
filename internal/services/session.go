package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneyz/internal/config"
	"moneyz/internal/core"
	"moneyz/internal/i18n"
	"moneyz/internal/log"
	"moneyz/internal/storage"
)

// ErrNoDataDir is returned by SetLanguage when the session has nowhere to
// write the settings file.
var ErrNoDataDir = errors.New("session has no data directory")

// Options configures a Session.
type Options struct {
	Store      storage.Store
	Translator i18n.Translator
	Logger     *log.Logger
	// DataDir holds settings.toml. Only SetLanguage needs it.
	DataDir string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Session owns the category registry and the ledger of the selected period.
// Every mutation is applied to a copy, persisted, and only then made
// current, so a rejected or failed edit leaves the session unchanged.
//
// A Session is not safe for concurrent use.
type Session struct {
	store   storage.Store
	tr      i18n.Translator
	logger  *log.Logger
	dataDir string
	now     func() time.Time

	reg    *core.Registry
	period core.Period
	ledger *core.MonthlyBudget
}

// Open loads the registry and the ledger of period p.
func Open(ctx context.Context, opts Options, p core.Period) (*Session, error) {
	if opts.Store == nil {
		return nil, errors.New("open session: nil store")
	}
	s := &Session{
		store:   opts.Store,
		tr:      opts.Translator,
		logger:  opts.Logger,
		dataDir: opts.DataDir,
		now:     opts.Now,
	}
	if s.tr == nil {
		s.tr = i18n.Default()
	}
	if s.logger == nil {
		s.logger = log.FromContext(ctx)
	}
	s.logger = s.logger.WithComponent(log.ComponentSession)
	if s.now == nil {
		s.now = time.Now
	}

	reg, err := s.store.LoadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	s.reg = reg
	if err := s.SelectPeriod(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Session opened",
		log.FieldPeriod, p.String(),
		log.FieldCount, reg.Len())
	return s, nil
}

// SelectPeriod loads the ledger of p and makes it current.
func (s *Session) SelectPeriod(ctx context.Context, p core.Period) error {
	if err := storage.CheckPeriod(p); err != nil {
		return err
	}
	b, err := s.store.LoadMonthlyBudget(ctx, p)
	if err != nil {
		return fmt.Errorf("load ledger %s: %w", p, err)
	}
	s.period = p
	s.ledger = b
	return nil
}

// Registry returns the live registry. Callers must not modify it.
func (s *Session) Registry() *core.Registry { return s.reg }

// Ledger returns the ledger of the selected period. Callers must not modify it.
func (s *Session) Ledger() *core.MonthlyBudget { return s.ledger }

// Period returns the selected period.
func (s *Session) Period() core.Period { return s.period }

// Translator returns the language the session parses amounts with.
func (s *Session) Translator() i18n.Translator { return s.tr }

// Today is the day new spendings default to: the current day of the month,
// capped to the length of the selected period.
func (s *Session) Today() core.Day {
	d := s.now().Day()
	if n := s.period.Days(); d > n {
		d = n
	}
	return core.Day(d)
}

// Overview summarizes the selected period.
func (s *Session) Overview() core.MonthOverview {
	return s.ledger.Overview(s.period, s.reg)
}

// CreateCategory adds a category and saves the registry.
func (s *Session) CreateCategory(ctx context.Context, name string) (core.CategoryID, error) {
	next := s.reg.Clone()
	id, err := next.Create(name)
	if err != nil {
		return 0, err
	}
	if err := s.saveRegistry(ctx, next); err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Category created",
		log.NewFields().WithOperation(log.OpCreate).WithCategory(uint32(id), name).ToSlice()...)
	return id, nil
}

// RenameCategory renames category id, rewrites the captured name of the
// selected ledger's spendings, and saves both.
func (s *Session) RenameCategory(ctx context.Context, id core.CategoryID, name string) error {
	reg := s.reg.Clone()
	if err := reg.Rename(id, name); err != nil {
		return err
	}
	live, _ := reg.Get(id)

	ledger := s.ledger.Clone()
	n := core.ApplyRename(id, live.Name, ledger)

	// The ledger goes first: a registry that fails to save can be undone by
	// writing the previous ledger back.
	prev := s.ledger
	if err := s.saveLedger(ctx, ledger); err != nil {
		return err
	}
	if err := s.saveRegistry(ctx, reg); err != nil {
		s.ledger = prev
		if rerr := s.store.SaveMonthlyBudget(ctx, s.period, prev); rerr != nil {
			s.logger.ErrorContext(ctx, "Failed to restore ledger after rename",
				log.FieldPeriod, s.period.String(),
				log.FieldError, rerr)
			return errors.Join(err, fmt.Errorf("restore ledger %s: %w", s.period, rerr))
		}
		return err
	}
	s.logger.InfoContext(ctx, "Category renamed",
		log.NewFields().WithOperation(log.OpRename).WithCategory(uint32(id), live.Name).ToSlice()...)
	s.logger.DebugContext(ctx, "Spendings updated after rename", log.FieldCount, n)
	return nil
}

// DeleteCategory removes category id from the registry. Spendings and
// allocations recorded against it are kept; they show as orphaned.
func (s *Session) DeleteCategory(ctx context.Context, id core.CategoryID) error {
	next := s.reg.Clone()
	if !next.Delete(id) {
		return fmt.Errorf("%w: %d", core.ErrUnknownCategory, id)
	}
	if err := s.saveRegistry(ctx, next); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldCategoryID, uint32(id))
	return nil
}

// SetAllocation gives amount to category id in the selected period.
func (s *Session) SetAllocation(ctx context.Context, id core.CategoryID, amount core.Money) error {
	if _, ok := s.reg.Get(id); !ok {
		return fmt.Errorf("%w: %d", core.ErrUnknownCategory, id)
	}
	err := s.updateLedger(ctx, func(b *core.MonthlyBudget) error {
		b.SetAllocation(id, amount)
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Allocation set",
		log.NewFields().WithOperation(log.OpAllocate).
			WithPeriod(s.period.String()).
			WithAmount(amount.MinorUnits()).ToSlice()...)
	return nil
}

// SetAllocationText parses text in the session's language and allocates it.
func (s *Session) SetAllocationText(ctx context.Context, id core.CategoryID, text string) error {
	amount, err := i18n.ParseMoney(s.tr, text)
	if err != nil {
		return err
	}
	return s.SetAllocation(ctx, id, amount)
}

// NewSpending is the user input for AddSpending.
type NewSpending struct {
	Name     string
	Category core.CategoryID
	Amount   string
	Day      string
}

// AddSpending parses in, commits it to the selected ledger and returns its
// index.
func (s *Session) AddSpending(ctx context.Context, in NewSpending) (int, error) {
	c, ok := s.reg.Get(in.Category)
	if !ok {
		return 0, fmt.Errorf("%w: %d", core.ErrUnknownCategory, in.Category)
	}
	amount, err := i18n.ParseMoney(s.tr, in.Amount)
	if err != nil {
		return 0, err
	}
	day, err := core.ParseDay(in.Day, s.period.Month, s.period.Year)
	if err != nil {
		return 0, err
	}

	var idx int
	err = s.updateLedger(ctx, func(b *core.MonthlyBudget) error {
		idx = b.Commit(core.Spending{
			Name:     in.Name,
			Category: core.RefOf(c),
			Amount:   amount,
			Day:      day,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "Spending added",
		log.NewFields().WithOperation(log.OpSpend).
			WithPeriod(s.period.String()).
			WithCategory(uint32(c.ID), c.Name).
			WithAmount(amount.MinorUnits()).ToSlice()...)
	return idx, nil
}

// EditSpendingName renames spending i. Index len(Ledger().Spendings)
// addresses the placeholder row: editing it commits a new spending.
func (s *Session) EditSpendingName(ctx context.Context, i int, name string) error {
	return s.editSpending(ctx, i, func(sp *core.Spending) error {
		sp.Name = name
		return nil
	})
}

// EditSpendingAmount parses text in the session's language and sets it as
// the amount of spending i.
func (s *Session) EditSpendingAmount(ctx context.Context, i int, text string) error {
	amount, err := i18n.ParseMoney(s.tr, text)
	if err != nil {
		return err
	}
	return s.editSpending(ctx, i, func(sp *core.Spending) error {
		sp.Amount = amount
		return nil
	})
}

// EditSpendingDay sets the day of spending i. The day must exist in the
// selected period.
func (s *Session) EditSpendingDay(ctx context.Context, i int, text string) error {
	day, err := core.ParseDay(text, s.period.Month, s.period.Year)
	if err != nil {
		return err
	}
	return s.editSpending(ctx, i, func(sp *core.Spending) error {
		sp.Day = day
		return nil
	})
}

// EditSpendingCategory books spending i on category id.
func (s *Session) EditSpendingCategory(ctx context.Context, i int, id core.CategoryID) error {
	c, ok := s.reg.Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", core.ErrUnknownCategory, id)
	}
	return s.editSpending(ctx, i, func(sp *core.Spending) error {
		sp.Category = core.RefOf(c)
		return nil
	})
}

// RemoveSpending deletes spending i from the selected ledger.
func (s *Session) RemoveSpending(ctx context.Context, i int) error {
	err := s.updateLedger(ctx, func(b *core.MonthlyBudget) error {
		return b.RemoveSpending(i)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Spending removed",
		log.FieldOperation, log.OpRemove,
		log.FieldPeriod, s.period.String(),
		log.FieldSpending, i)
	return nil
}

// SetLanguage stores id as the configured language. The session keeps its
// current translator; the change applies from the next start.
func (s *Session) SetLanguage(ctx context.Context, id string) (*i18n.Locale, error) {
	loc, err := i18n.Lookup(id)
	if err != nil {
		return nil, err
	}
	if s.dataDir == "" {
		return nil, ErrNoDataDir
	}
	if err := config.SaveSettings(s.dataDir, config.Settings{Language: loc.ID()}); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	s.logger.InfoContext(ctx, "Language changed", log.FieldLanguage, loc.ID())
	return loc, nil
}

func (s *Session) editSpending(ctx context.Context, i int, fn func(*core.Spending) error) error {
	err := s.updateLedger(ctx, func(b *core.MonthlyBudget) error {
		if i == len(b.Spendings) {
			sp := core.DefaultSpending(s.Today())
			if err := fn(&sp); err != nil {
				return err
			}
			b.Commit(sp)
			return nil
		}
		return b.UpdateSpending(i, fn)
	})
	if err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Spending edited",
		log.FieldOperation, log.OpEdit,
		log.FieldPeriod, s.period.String(),
		log.FieldSpending, i)
	return nil
}

func (s *Session) updateLedger(ctx context.Context, fn func(*core.MonthlyBudget) error) error {
	next := s.ledger.Clone()
	if err := fn(next); err != nil {
		return err
	}
	return s.saveLedger(ctx, next)
}

func (s *Session) saveLedger(ctx context.Context, b *core.MonthlyBudget) error {
	if err := s.store.SaveMonthlyBudget(ctx, s.period, b); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save ledger",
			log.FieldPeriod, s.period.String(),
			log.FieldError, err)
		return fmt.Errorf("save ledger %s: %w", s.period, err)
	}
	s.ledger = b
	return nil
}

func (s *Session) saveRegistry(ctx context.Context, reg *core.Registry) error {
	if err := s.store.SaveCategories(ctx, reg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save categories", log.FieldError, err)
		return fmt.Errorf("save categories: %w", err)
	}
	s.reg = reg
	return nil
}
