package core

import "github.com/shopspring/decimal"

// StockStatus is the derived availability label shown next to each item.
type StockStatus string

const (
	LowStock StockStatus = "Low Stock"
	InStock  StockStatus = "In Stock"
)

// Entry is a row of one of the two reference tables (categories, warehouses).
// Both tables share the same shape: a server-assigned id and a unique name.
type Entry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Ref is the result of resolving a reference by name or id. A nil ID with a
// non-nil Name is the synthetic form for an orphaned name: a stock row that
// still carries a category or warehouse string no live reference row matches.
// Both fields nil is the null identity returned for an unknown id.
type Ref struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// StockItem is the stored form of an inventory record. Category and Warehouse
// are denormalized display names, not foreign keys; the relationship to the
// reference tables is by name equality only and may be stale.
type StockItem struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Threshold int             `json:"threshold"`
	Category  *string         `json:"category"`
	Warehouse *string         `json:"warehouse"`
	Thumbnail *string         `json:"thumbnail"`
}

// EnrichedStockItem is the in-memory form of a stock row after name
// resolution. It is rebuilt on every fetch and never persisted directly.
// CategoryID/WarehouseID mirror the resolved ids for edit-form binding.
type EnrichedStockItem struct {
	StockItem
	CategoryRef  Ref         `json:"category_ref"`
	WarehouseRef Ref         `json:"warehouse_ref"`
	CategoryID   *int64      `json:"category_id"`
	WarehouseID  *int64      `json:"warehouse_id"`
	Status       StockStatus `json:"status"`
}

// statusFor derives the availability label. Quantity equal to the threshold
// counts as low stock.
func statusFor(quantity, threshold int) StockStatus {
	if quantity <= threshold {
		return LowStock
	}
	return InStock
}

// PendingAsset is a user-selected image that has not been uploaded yet. It is
// owned by a single submit call: compressed and uploaded before the row write,
// then discarded.
type PendingAsset struct {
	Filename string
	Data     []byte
}

// ItemForm carries the raw values of a create/edit submission. Numeric fields
// arrive as strings and are coerced during reconciliation; references arrive
// as ids from the form's select inputs.
type ItemForm struct {
	Name        string        `json:"name"`
	Quantity    string        `json:"quantity"`
	Price       string        `json:"price"`
	Threshold   string        `json:"threshold"`
	CategoryID  *int64        `json:"category_id"`
	WarehouseID *int64        `json:"warehouse_id"`
	Thumbnail   *string       `json:"thumbnail"`
	Asset       *PendingAsset `json:"-"`
}

// QueryState is the immutable description of one view of the stock table.
// Transitions (filter edits, page changes) produce a new value; the previous
// value is never mutated in place.
type QueryState struct {
	Search    string
	Category  string
	Warehouse string
	Page      int // 1-based
	PageSize  int
}

// WithSearch returns a copy with a new search term, reset to the first page.
func (q QueryState) WithSearch(term string) QueryState {
	q.Search = term
	q.Page = 1
	return q
}

// WithFilters returns a copy with new category/warehouse filters, reset to the
// first page. Empty strings mean "no constraint".
func (q QueryState) WithFilters(category, warehouse string) QueryState {
	q.Category = category
	q.Warehouse = warehouse
	q.Page = 1
	return q
}

// WithPage returns a copy positioned on page n.
func (q QueryState) WithPage(n int) QueryState {
	q.Page = n
	return q
}
