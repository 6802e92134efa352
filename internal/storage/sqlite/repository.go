// Package sqlite stores the registry and the monthly ledgers in a SQLite
// database through modernc.org/sqlite, with the schema managed by embedded
// golang-migrate migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"moneyz/internal/core"
	"moneyz/internal/log"
	"moneyz/internal/storage"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db     *sql.DB
	logger *log.Logger
}

// NewRepository opens (creating if needed) the database at dbPath and runs
// the migrations.
func NewRepository(dbPath string, logger *log.Logger) (*Repository, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; concurrent loads queue on the pool
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	logger.Debug("SQLite repository ready", log.FieldPath, dbPath, log.FieldOperation, log.OpMigrate)
	return &Repository{db: db, logger: logger}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadCategories implements storage.CategoryStore.
func (r *Repository) LoadCategories(ctx context.Context) (*core.Registry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cid, err := categoryID(id)
		if err != nil {
			return nil, err
		}
		cats = append(cats, core.Category{ID: cid, Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return core.NewRegistry(cats...), nil
}

// SaveCategories implements storage.CategoryStore. The table is replaced as
// a whole inside one transaction.
func (r *Repository) SaveCategories(ctx context.Context, reg *core.Registry) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare category insert: %w", err)
		}
		defer stmt.Close()
		for _, c := range reg.All() {
			if _, err := stmt.ExecContext(ctx, int64(c.ID), c.Name); err != nil {
				return fmt.Errorf("insert category %d: %w", c.ID, err)
			}
		}
		r.logger.DebugContext(ctx, "Categories saved", log.FieldCount, reg.Len())
		return nil
	})
}

// LoadMonthlyBudget implements storage.BudgetStore.
func (r *Repository) LoadMonthlyBudget(ctx context.Context, p core.Period) (*core.MonthlyBudget, error) {
	if err := storage.CheckPeriod(p); err != nil {
		return nil, err
	}
	b := core.NewMonthlyBudget()

	allocRows, err := r.db.QueryContext(ctx,
		`SELECT category_id, amount_minor FROM allocations WHERE year = ? AND month = ?`,
		int64(p.Year), int64(p.Month))
	if err != nil {
		return nil, fmt.Errorf("query allocations %s: %w", p, err)
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var id, minor int64
		if err := allocRows.Scan(&id, &minor); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		cid, err := categoryID(id)
		if err != nil {
			return nil, err
		}
		b.SetAllocation(cid, core.FromMinorUnits(minor))
	}
	if err := allocRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate allocations: %w", err)
	}
	allocRows.Close()

	rows, err := r.db.QueryContext(ctx,
		`SELECT name, category_id, category_name, amount_minor, day
		   FROM spendings WHERE year = ? AND month = ? ORDER BY position`,
		int64(p.Year), int64(p.Month))
	if err != nil {
		return nil, fmt.Errorf("query spendings %s: %w", p, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			s         core.Spending
			id, minor int64
			day       int64
		)
		if err := rows.Scan(&s.Name, &id, &s.Category.Name, &minor, &day); err != nil {
			return nil, fmt.Errorf("scan spending: %w", err)
		}
		if s.Category.ID, err = categoryID(id); err != nil {
			return nil, err
		}
		s.Amount = core.FromMinorUnits(minor)
		s.Day = core.Day(day)
		b.Commit(s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spendings: %w", err)
	}
	if err := storage.CheckLedger(p, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SaveMonthlyBudget implements storage.BudgetStore. The period's rows are
// replaced inside one transaction; placeholder spendings are skipped.
func (r *Repository) SaveMonthlyBudget(ctx context.Context, p core.Period, b *core.MonthlyBudget) error {
	if err := storage.CheckPeriod(p); err != nil {
		return err
	}
	year, month := int64(p.Year), int64(p.Month)
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM allocations WHERE year = ? AND month = ?`, year, month); err != nil {
			return fmt.Errorf("clear allocations: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM spendings WHERE year = ? AND month = ?`, year, month); err != nil {
			return fmt.Errorf("clear spendings: %w", err)
		}

		for id, amount := range b.Allocations {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO allocations (year, month, category_id, amount_minor) VALUES (?, ?, ?, ?)`,
				year, month, int64(id), amount.MinorUnits()); err != nil {
				return fmt.Errorf("insert allocation %d: %w", id, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO spendings (year, month, position, name, category_id, category_name, amount_minor, day)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare spending insert: %w", err)
		}
		defer stmt.Close()
		for i, s := range b.Committed() {
			if _, err := stmt.ExecContext(ctx, year, month, i, s.Name,
				int64(s.Category.ID), s.Category.Name, s.Amount.MinorUnits(), int64(s.Day)); err != nil {
				return fmt.Errorf("insert spending %d: %w", i, err)
			}
		}

		r.logger.DebugContext(ctx, "Ledger saved",
			log.FieldPeriod, p.String(),
			"allocations", len(b.Allocations),
			"spendings", len(b.Spendings))
		return nil
	})
}

func (r *Repository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func categoryID(v int64) (core.CategoryID, error) {
	if v < 0 || v > int64(core.NoCategory) {
		return 0, fmt.Errorf("%w: category id %d out of range", storage.ErrCorrupt, v)
	}
	return core.CategoryID(v), nil
}
