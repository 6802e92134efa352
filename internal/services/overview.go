package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"moneyz/internal/core"
	"moneyz/internal/log"
	"moneyz/internal/storage"
)

// overviewWorkers bounds the ledgers loaded at once by YearOverview.
const overviewWorkers = 4

// YearOverview loads the twelve ledgers of year concurrently and summarizes
// each against reg. The result is ordered January to December. reg is only
// read.
func YearOverview(ctx context.Context, store storage.BudgetStore, reg *core.Registry, year core.Year) ([]core.MonthOverview, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	out := make([]core.MonthOverview, 12)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overviewWorkers)
	for m := core.January; m <= core.December; m++ {
		p := core.NewPeriod(year, m)
		g.Go(func() error {
			b, err := store.LoadMonthlyBudget(gctx, p)
			if err != nil {
				return fmt.Errorf("load ledger %s: %w", p, err)
			}
			out[m-1] = b.Overview(p, reg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.ErrorContext(ctx, "Year overview failed",
			log.FieldYear, int(year),
			log.FieldError, err)
		return nil, err
	}

	logger.DebugContext(ctx, "Year overview loaded",
		log.FieldYear, int(year),
		log.FieldDuration, time.Since(start).Milliseconds())
	return out, nil
}

// YearTotals sums the monthly overviews of a year.
type YearTotals struct {
	Allocated core.Money
	Total     core.Money
}

// SumYear adds up months. It fails only when a sum leaves the Money range.
func SumYear(months []core.MonthOverview) (YearTotals, error) {
	var t YearTotals
	for _, m := range months {
		var err error
		if t.Allocated, err = t.Allocated.Add(m.Allocated); err != nil {
			return YearTotals{}, err
		}
		if t.Total, err = t.Total.Add(m.Total); err != nil {
			return YearTotals{}, err
		}
	}
	return t, nil
}
