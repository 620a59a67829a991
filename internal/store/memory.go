package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"storen/internal/core"
)

// Memory is an in-process core.TableStore and core.BlobStore with the same
// query semantics as Postgres. It backs the test suite and local development
// without a database.
type Memory struct {
	mu          sync.Mutex
	stock       []core.StockItem
	categories  []core.Entry
	warehouses  []core.Entry
	nextStockID int64
	nextRefID   int64
	blobs       map[string][]byte
	baseURL     string

	// FailReads/FailWrites force the corresponding error class on every call,
	// letting tests exercise failure paths.
	FailReads  bool
	FailWrites bool
}

var (
	_ core.TableStore = (*Memory)(nil)
	_ core.BlobStore  = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		nextStockID: 1,
		nextRefID:   1,
		blobs:       make(map[string][]byte),
		baseURL:     "memory://assets",
	}
}

func (m *Memory) SelectStock(_ context.Context, q core.StockQuery) ([]core.StockItem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, 0, fmt.Errorf("%w: memory store: reads disabled", ErrRemoteRead)
	}

	var matched []core.StockItem
	needle := strings.ToLower(q.Search)
	for _, it := range m.stock {
		if needle != "" && !strings.Contains(strings.ToLower(it.Name), needle) {
			continue
		}
		if q.Category != "" && (it.Category == nil || *it.Category != q.Category) {
			continue
		}
		if q.Warehouse != "" && (it.Warehouse == nil || *it.Warehouse != q.Warehouse) {
			continue
		}
		matched = append(matched, it)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	if q.From >= total {
		return nil, total, nil
	}
	to := q.To + 1
	if to > total {
		to = total
	}
	page := make([]core.StockItem, to-q.From)
	copy(page, matched[q.From:to])
	return page, total, nil
}

func (m *Memory) InsertStock(_ context.Context, row core.StockItem) (core.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return core.StockItem{}, fmt.Errorf("%w: memory store: writes disabled", ErrRemoteWrite)
	}
	row.ID = m.nextStockID
	m.nextStockID++
	m.stock = append(m.stock, row)
	return row, nil
}

func (m *Memory) UpdateStock(_ context.Context, id int64, row core.StockItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: memory store: writes disabled", ErrRemoteWrite)
	}
	for i := range m.stock {
		if m.stock[i].ID == id {
			row.ID = id
			m.stock[i] = row
			return nil
		}
	}
	return fmt.Errorf("%w: update stock %d: no such row", ErrRemoteWrite, id)
}

func (m *Memory) DeleteStock(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: memory store: writes disabled", ErrRemoteWrite)
	}
	for i := range m.stock {
		if m.stock[i].ID == id {
			m.stock = append(m.stock[:i], m.stock[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *Memory) ListCategories(_ context.Context) ([]core.Entry, error) {
	return m.listEntries(&m.categories)
}

func (m *Memory) InsertCategory(_ context.Context, name string) (core.Entry, error) {
	return m.insertEntry(&m.categories, name)
}

func (m *Memory) ListWarehouses(_ context.Context) ([]core.Entry, error) {
	return m.listEntries(&m.warehouses)
}

func (m *Memory) InsertWarehouse(_ context.Context, name string) (core.Entry, error) {
	return m.insertEntry(&m.warehouses, name)
}

func (m *Memory) listEntries(table *[]core.Entry) ([]core.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return nil, fmt.Errorf("%w: memory store: reads disabled", ErrRemoteRead)
	}
	out := make([]core.Entry, len(*table))
	copy(out, *table)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) insertEntry(table *[]core.Entry, name string) (core.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return core.Entry{}, fmt.Errorf("%w: memory store: writes disabled", ErrRemoteWrite)
	}
	for _, e := range *table {
		if e.Name == name {
			return core.Entry{}, fmt.Errorf("%w: %q already exists", ErrDuplicateName, name)
		}
	}
	e := core.Entry{ID: m.nextRefID, Name: name}
	m.nextRefID++
	*table = append(*table, e)
	return e, nil
}

func (m *Memory) Upload(_ context.Context, objectName string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("%w: memory store: writes disabled", ErrRemoteWrite)
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[objectName] = stored
	return nil
}

func (m *Memory) PublicURL(objectName string) string {
	return m.baseURL + "/" + objectName
}

// Blob returns the stored bytes for an object name, for test assertions.
func (m *Memory) Blob(objectName string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[objectName]
	return b, ok
}
