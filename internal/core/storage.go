package core

import "context"

// StockQuery describes one read of the stock table: an optional
// case-insensitive substring match on name, optional exact matches on the
// denormalized category/warehouse names, and an inclusive [From, To] row
// window. Ordering is always by name ascending; it is part of the contract,
// not a parameter, so pagination stays stable for a static dataset.
type StockQuery struct {
	Search    string
	Category  string // exact match if non-empty
	Warehouse string // exact match if non-empty
	From      int    // zero-based, inclusive
	To        int    // inclusive
}

// Limit returns the window size implied by the [From, To] range.
func (q StockQuery) Limit() int {
	return q.To - q.From + 1
}

// TableStore is the opaque CRUD API of the remote relational store. A window
// past the end of the filtered set yields an empty slice, not an error; the
// returned total is the filtered count, not the window size.
type TableStore interface {
	SelectStock(ctx context.Context, q StockQuery) (rows []StockItem, total int, err error)
	InsertStock(ctx context.Context, row StockItem) (StockItem, error)
	UpdateStock(ctx context.Context, id int64, row StockItem) error
	DeleteStock(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Entry, error)
	InsertCategory(ctx context.Context, name string) (Entry, error)
	ListWarehouses(ctx context.Context) ([]Entry, error)
	InsertWarehouse(ctx context.Context, name string) (Entry, error)
}

// BlobStore is the opaque object storage API. Object names are chosen by the
// caller and must be collision-resistant; Upload overwrites silently.
type BlobStore interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) error
	PublicURL(objectName string) string
}
