package core

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// RefKind selects one of the two reference tables.
type RefKind string

const (
	RefCategory  RefKind = "category"
	RefWarehouse RefKind = "warehouse"
)

// ReferenceCatalog holds the current snapshot of the Category and Warehouse
// reference tables and resolves names and ids against it. Resolution never
// fails: unknown ids yield the null identity, unknown names a synthetic entry
// carrying the orphaned name. The catalog grows append-only; there is no
// rename or delete within one process lifetime.
type ReferenceCatalog struct {
	store TableStore

	mu         sync.RWMutex
	categories []Entry
	warehouses []Entry
}

func NewReferenceCatalog(ts TableStore) *ReferenceCatalog {
	return &ReferenceCatalog{store: ts}
}

// Refresh reloads both reference tables in full. The two loads are
// independent: a failure in one keeps that half of the snapshot stale while
// the other is still replaced. Both failures are reported joined.
func (c *ReferenceCatalog) Refresh(ctx context.Context) error {
	catErr := c.refreshKind(ctx, RefCategory)
	whErr := c.refreshKind(ctx, RefWarehouse)
	return errors.Join(catErr, whErr)
}

func (c *ReferenceCatalog) refreshKind(ctx context.Context, kind RefKind) error {
	var entries []Entry
	var err error
	if kind == RefCategory {
		entries, err = c.store.ListCategories(ctx)
	} else {
		entries, err = c.store.ListWarehouses(ctx)
	}
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	c.mu.Lock()
	defer c.mu.Unlock()
	if kind == RefCategory {
		c.categories = entries
	} else {
		c.warehouses = entries
	}
	return nil
}

// List returns the snapshot of one table, ordered by name ascending.
func (c *ReferenceCatalog) List(kind RefKind) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	src := c.entries(kind)
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// ResolveByID returns the entry with the given id, or the null identity if no
// entry matches. It never fails.
func (c *ReferenceCatalog) ResolveByID(kind RefKind, id int64) Ref {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries(kind) {
		if e.ID == id {
			eID, name := e.ID, e.Name
			return Ref{ID: &eID, Name: &name}
		}
	}
	return Ref{}
}

// ResolveByName returns the entry with the given name, or a synthetic entry
// with a nil id that still carries the name. The synthetic path is what lets
// a stock row reference a category that has since disappeared without
// breaking the view.
func (c *ReferenceCatalog) ResolveByName(kind RefKind, name string) Ref {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries(kind) {
		if e.Name == name {
			eID, eName := e.ID, e.Name
			return Ref{ID: &eID, Name: &eName}
		}
	}
	orphan := name
	return Ref{Name: &orphan}
}

// Append inserts a new entry with a server-assigned id and adds it to the
// snapshot so subsequent List and Resolve calls see it. A name the backing
// store rejects as duplicate surfaces unchanged, so callers can match its
// error class.
func (c *ReferenceCatalog) Append(ctx context.Context, kind RefKind, name string) (Entry, error) {
	var entry Entry
	var err error
	if kind == RefCategory {
		entry, err = c.store.InsertCategory(ctx, name)
	} else {
		entry, err = c.store.InsertWarehouse(ctx, name)
	}
	if err != nil {
		return Entry{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if kind == RefCategory {
		c.categories = insertSorted(c.categories, entry)
	} else {
		c.warehouses = insertSorted(c.warehouses, entry)
	}
	return entry, nil
}

// entries must be called with c.mu held.
func (c *ReferenceCatalog) entries(kind RefKind) []Entry {
	if kind == RefCategory {
		return c.categories
	}
	return c.warehouses
}

func insertSorted(entries []Entry, e Entry) []Entry {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Name >= e.Name })
	entries = append(entries, Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}
