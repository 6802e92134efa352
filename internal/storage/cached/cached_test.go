package cached

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyz/internal/core"
	"moneyz/internal/storage"
	"moneyz/internal/storage/memory"
	"moneyz/internal/storage/storagetest"
)

// countingStore counts ledger loads and can be told to fail saves.
type countingStore struct {
	storage.Store
	loads    atomic.Int32
	failSave bool
}

func (c *countingStore) LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error) {
	c.loads.Add(1)
	return c.Store.LoadMonthlyBudget(ctx, p)
}

func (c *countingStore) SaveMonthlyBudget(ctx context.Context, p core.Period, b *core.MonthlyBudget) error {
	if c.failSave {
		return errors.New("disk full")
	}
	return c.Store.SaveMonthlyBudget(ctx, p, b)
}

func TestStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New(memory.New(), 4, time.Minute, nil)
	})
}

func TestSavedLedgerServedFromCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: memory.New()}
	s := New(backend, 4, time.Minute, nil)
	p := core.NewPeriod(2024, core.May)

	require.NoError(t, s.SaveMonthlyBudget(ctx, p, storagetest.SampleLedger()))
	got, err := s.LoadMonthlyBudget(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, storagetest.SampleLedger(), got)
	assert.Equal(t, int32(0), backend.loads.Load())

	got.Spendings[0].Name = "mutated"
	again, err := s.LoadMonthlyBudget(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "bread", again.Spendings[0].Name)
}

func TestMissLoadsOnce(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: memory.New()}
	s := New(backend, 4, time.Minute, nil)
	p := core.NewPeriod(2024, core.June)

	for i := 0; i < 3; i++ {
		_, err := s.LoadMonthlyBudget(ctx, p)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), backend.loads.Load())
	assert.Equal(t, 2, s.Cache().Stats().Hits)
}

func TestFailedSaveInvalidates(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Store: memory.New()}
	s := New(backend, 4, time.Minute, nil)
	p := core.NewPeriod(2024, core.July)

	require.NoError(t, s.SaveMonthlyBudget(ctx, p, storagetest.SampleLedger()))

	backend.failSave = true
	assert.Error(t, s.SaveMonthlyBudget(ctx, p, core.NewMonthlyBudget()))
	assert.Equal(t, 0, s.Cache().Size())

	got, err := s.LoadMonthlyBudget(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, storagetest.SampleLedger(), got)
	assert.Equal(t, int32(1), backend.loads.Load())
}

func TestCloseClearsCache(t *testing.T) {
	s := New(memory.New(), 4, time.Minute, nil)
	_, err := s.LoadMonthlyBudget(context.Background(), core.NewPeriod(2024, core.May))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cache().Size())
	require.NoError(t, s.Close())
	assert.Equal(t, 0, s.Cache().Size())
}
