package core

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
)

// CategoryID identifies a budget category for its whole life, across renames.
type CategoryID uint32

// NoCategory is carried by spendings that have not been assigned a category.
// The registry never hands it out.
const NoCategory CategoryID = math.MaxUint32

// Category is a named budget category.
type Category struct {
	ID   CategoryID
	Name string
}

// Registry is the set of budget categories, ordered by id.
// The zero value is an empty registry ready to use.
type Registry struct {
	cats []Category
}

// NewRegistry builds a registry from cats in any order. When two entries
// share an id the later one wins.
func NewRegistry(cats ...Category) *Registry {
	r := &Registry{}
	for _, c := range cats {
		r.put(c)
	}
	return r
}

func (r *Registry) index(id CategoryID) (int, bool) {
	i := sort.Search(len(r.cats), func(i int) bool { return r.cats[i].ID >= id })
	return i, i < len(r.cats) && r.cats[i].ID == id
}

func (r *Registry) put(c Category) {
	i, found := r.index(c.ID)
	if found {
		r.cats[i] = c
		return
	}
	r.cats = slices.Insert(r.cats, i, c)
}

// NextID returns the id Add would assign: the current maximum plus one,
// or 0 for an empty registry. Ids therefore follow the maximum and are not
// recycled from a free list; exhausting the uint32 space is not handled.
func (r *Registry) NextID() CategoryID {
	if len(r.cats) == 0 {
		return 0
	}
	return r.cats[len(r.cats)-1].ID + 1
}

// Add inserts a category named name and returns its id. It does not check
// the name; see Create for the checked variant.
func (r *Registry) Add(name string) CategoryID {
	id := r.NextID()
	r.cats = append(r.cats, Category{ID: id, Name: name})
	return id
}

// Create adds a category after rejecting a blank name or one already in use.
func (r *Registry) Create(name string) (CategoryID, error) {
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	if existing, ok := r.Lookup(name); ok {
		return 0, fmt.Errorf("%w: %q is category %d", ErrDuplicateName, name, existing.ID)
	}
	return r.Add(name), nil
}

// Rename changes the name of category id, keeping its id.
// Renaming a category to its current name succeeds and changes nothing.
func (r *Registry) Rename(id CategoryID, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return ErrEmptyName
	}
	i, found := r.index(id)
	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownCategory, id)
	}
	if other, ok := r.Lookup(newName); ok && other.ID != id {
		return fmt.Errorf("%w: %q is category %d", ErrDuplicateName, newName, other.ID)
	}
	r.cats[i].Name = newName
	return nil
}

// Delete removes category id and reports whether it existed.
func (r *Registry) Delete(id CategoryID) bool {
	i, found := r.index(id)
	if !found {
		return false
	}
	r.cats = slices.Delete(r.cats, i, i+1)
	return true
}

// Get returns the category with the given id.
func (r *Registry) Get(id CategoryID) (Category, bool) {
	i, found := r.index(id)
	if !found {
		return Category{}, false
	}
	return r.cats[i], true
}

// Lookup returns the lowest-id category named name.
func (r *Registry) Lookup(name string) (Category, bool) {
	for _, c := range r.cats {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// All returns the categories in ascending id order. The slice is a copy.
func (r *Registry) All() []Category {
	return slices.Clone(r.cats)
}

// Len returns the number of categories.
func (r *Registry) Len() int {
	return len(r.cats)
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	return &Registry{cats: slices.Clone(r.cats)}
}

// MarshalJSON encodes the registry as an object from id to name.
func (r Registry) MarshalJSON() ([]byte, error) {
	m := make(map[CategoryID]string, len(r.cats))
	for _, c := range r.cats {
		m[c.ID] = c.Name
	}
	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Registry) UnmarshalJSON(data []byte) error {
	var m map[CategoryID]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	r.cats = make([]Category, 0, len(m))
	for id, name := range m {
		r.cats = append(r.cats, Category{ID: id, Name: name})
	}
	slices.SortFunc(r.cats, func(a, b Category) int { return cmp.Compare(a.ID, b.ID) })
	return nil
}
