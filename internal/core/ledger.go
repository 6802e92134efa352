package core

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// CategoryRef is the category of a spending as it was when the spending was
// recorded. It is a copy, not a reference: renaming or deleting the category
// later does not touch it, except through ApplyRename.
type CategoryRef struct {
	ID   CategoryID
	Name string
}

// RefOf captures c.
func RefOf(c Category) CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name}
}

// Spending is one dated entry of a monthly ledger.
type Spending struct {
	Name     string
	Category CategoryRef
	Amount   Money
	Day      Day

	placeholder bool
}

// DefaultSpending returns the blank row a front end shows below the ledger so
// the user can start a new entry. It stays out of every computation until it
// is stored with MonthlyBudget.Commit.
func DefaultSpending(today Day) Spending {
	return Spending{
		Category:    CategoryRef{ID: NoCategory},
		Day:         today,
		placeholder: true,
	}
}

// IsPlaceholder reports whether s is an uncommitted default row.
func (s Spending) IsPlaceholder() bool {
	return s.placeholder
}

type spendingJSON struct {
	Name         string     `json:"name"`
	CategoryID   CategoryID `json:"budget_category_id"`
	CategoryName string     `json:"budget_category_name"`
	Amount       Money      `json:"amount"`
	Day          Day        `json:"day"`
}

// MarshalJSON implements json.Marshaler.
func (s Spending) MarshalJSON() ([]byte, error) {
	return json.Marshal(spendingJSON{
		Name:         s.Name,
		CategoryID:   s.Category.ID,
		CategoryName: s.Category.Name,
		Amount:       s.Amount,
		Day:          s.Day,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Spending) UnmarshalJSON(data []byte) error {
	var v spendingJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Day < 1 || v.Day > MaxDay {
		return fmt.Errorf("%w: day %d", ErrInvalidDay, v.Day)
	}
	*s = Spending{
		Name:     v.Name,
		Category: CategoryRef{ID: v.CategoryID, Name: v.CategoryName},
		Amount:   v.Amount,
		Day:      v.Day,
	}
	return nil
}

// MonthlyBudget is the ledger of one period: what each category was given
// and what was spent.
type MonthlyBudget struct {
	Allocations map[CategoryID]Money
	Spendings   []Spending
}

// NewMonthlyBudget returns an empty ledger.
func NewMonthlyBudget() *MonthlyBudget {
	return &MonthlyBudget{Allocations: map[CategoryID]Money{}}
}

// Clone returns a deep copy of b.
func (b *MonthlyBudget) Clone() *MonthlyBudget {
	c := &MonthlyBudget{
		Allocations: maps.Clone(b.Allocations),
		Spendings:   slices.Clone(b.Spendings),
	}
	if c.Allocations == nil {
		c.Allocations = map[CategoryID]Money{}
	}
	return c
}

// Allocation returns the amount given to category id, zero if none.
func (b *MonthlyBudget) Allocation(id CategoryID) Money {
	return b.Allocations[id]
}

// SetAllocation gives amount to category id.
func (b *MonthlyBudget) SetAllocation(id CategoryID, amount Money) {
	if b.Allocations == nil {
		b.Allocations = map[CategoryID]Money{}
	}
	b.Allocations[id] = amount
}

// ClearAllocation removes the allocation of category id.
func (b *MonthlyBudget) ClearAllocation(id CategoryID) {
	delete(b.Allocations, id)
}

// Commit stores s as a committed spending and returns its index.
func (b *MonthlyBudget) Commit(s Spending) int {
	s.placeholder = false
	b.Spendings = append(b.Spendings, s)
	return len(b.Spendings) - 1
}

// Spending returns the spending at index i.
func (b *MonthlyBudget) Spending(i int) (Spending, error) {
	if i < 0 || i >= len(b.Spendings) {
		return Spending{}, fmt.Errorf("%w: %d", ErrSpendingIndex, i)
	}
	return b.Spendings[i], nil
}

// UpdateSpending applies fn to a copy of spending i and stores the copy only
// if fn succeeds, so a failed edit leaves the ledger as it was.
func (b *MonthlyBudget) UpdateSpending(i int, fn func(*Spending) error) error {
	s, err := b.Spending(i)
	if err != nil {
		return err
	}
	if err := fn(&s); err != nil {
		return err
	}
	s.placeholder = false
	b.Spendings[i] = s
	return nil
}

// Committed returns the spendings of b that are not placeholders, in order.
func (b *MonthlyBudget) Committed() []Spending {
	out := make([]Spending, 0, len(b.Spendings))
	for _, s := range b.Spendings {
		if !s.placeholder {
			out = append(out, s)
		}
	}
	return out
}

// RemoveSpending deletes spending i, keeping the order of the others.
func (b *MonthlyBudget) RemoveSpending(i int) error {
	if i < 0 || i >= len(b.Spendings) {
		return fmt.Errorf("%w: %d", ErrSpendingIndex, i)
	}
	b.Spendings = slices.Delete(b.Spendings, i, i+1)
	return nil
}

// BalanceOf returns the allocation of category id (0 if absent) plus the
// signed sum of every spending captured with that id, in minor units.
// Spendings count whether or not the category still exists. A sum beyond the
// int64 range is clamped to the nearest bound.
func BalanceOf(id CategoryID, allocations map[CategoryID]Money, spendings []Spending) int64 {
	return clampedAdd(allocations[id].MinorUnits(), spentOn(id, spendings))
}

func spentOn(id CategoryID, spendings []Spending) int64 {
	var sum int64
	for _, s := range spendings {
		if s.placeholder || s.Category.ID != id {
			continue
		}
		sum = clampedAdd(sum, s.Amount.MinorUnits())
	}
	return sum
}

// BalanceOf is BalanceOf over b.
func (b *MonthlyBudget) BalanceOf(id CategoryID) int64 {
	return BalanceOf(id, b.Allocations, b.Spendings)
}

// Spent returns the signed sum of the spendings of category id.
func (b *MonthlyBudget) Spent(id CategoryID) int64 {
	return spentOn(id, b.Spendings)
}

// TotalForMonth returns the signed sum of all spendings of b, in minor units,
// clamped to the int64 range like BalanceOf.
func TotalForMonth(b *MonthlyBudget) int64 {
	var sum int64
	for _, s := range b.Spendings {
		if s.placeholder {
			continue
		}
		sum = clampedAdd(sum, s.Amount.MinorUnits())
	}
	return sum
}

// ReconcileState classifies a spending's captured category against the
// live registry.
type ReconcileState uint8

const (
	// Unchanged: the category exists under the captured name.
	Unchanged ReconcileState = iota
	// Renamed: the category exists under another name.
	Renamed
	// OrphanedCategory: the category no longer exists.
	OrphanedCategory
)

func (s ReconcileState) String() string {
	switch s {
	case Unchanged:
		return "unchanged"
	case Renamed:
		return "renamed"
	case OrphanedCategory:
		return "orphaned"
	default:
		return fmt.Sprintf("ReconcileState(%d)", uint8(s))
	}
}

// DisplayCategory is the category name to show for a spending and why.
type DisplayCategory struct {
	State ReconcileState
	Name  string
}

// Reconcile compares the category captured in s with reg. A renamed
// category displays its live name; a deleted one keeps the captured name.
// A placeholder has no category to compare and is always Unchanged.
// Neither s nor reg is modified.
func Reconcile(s Spending, reg *Registry) DisplayCategory {
	live, ok := reg.Get(s.Category.ID)
	switch {
	case s.placeholder:
		return DisplayCategory{State: Unchanged, Name: s.Category.Name}
	case !ok:
		return DisplayCategory{State: OrphanedCategory, Name: s.Category.Name}
	case live.Name != s.Category.Name:
		return DisplayCategory{State: Renamed, Name: live.Name}
	default:
		return DisplayCategory{State: Unchanged, Name: s.Category.Name}
	}
}

// ApplyRename rewrites the captured name of every spending of category id to
// newName and returns how many were changed. Called after a rename in the
// registry so stored history shows the latest name.
func ApplyRename(id CategoryID, newName string, b *MonthlyBudget) int {
	n := 0
	for i := range b.Spendings {
		if b.Spendings[i].Category.ID == id && b.Spendings[i].Category.Name != newName {
			b.Spendings[i].Category.Name = newName
			n++
		}
	}
	return n
}

type monthlyBudgetJSON struct {
	Budgets   map[CategoryID]int64 `json:"budgets"`
	Spendings []Spending           `json:"spendings"`
}

// MarshalJSON encodes allocations as minor units keyed by category id.
// Placeholder spendings are not written.
func (b MonthlyBudget) MarshalJSON() ([]byte, error) {
	v := monthlyBudgetJSON{
		Budgets:   make(map[CategoryID]int64, len(b.Allocations)),
		Spendings: b.Committed(),
	}
	for id, m := range b.Allocations {
		v.Budgets[id] = m.MinorUnits()
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *MonthlyBudget) UnmarshalJSON(data []byte) error {
	var v monthlyBudgetJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	b.Allocations = make(map[CategoryID]Money, len(v.Budgets))
	for id, minor := range v.Budgets {
		b.Allocations[id] = FromMinorUnits(minor)
	}
	b.Spendings = nil
	if len(v.Spendings) > 0 {
		b.Spendings = v.Spendings
	}
	return nil
}
