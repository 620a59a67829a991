package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Enrich converts a stored stock row into its in-memory form by resolving the
// denormalized category/warehouse names against the catalog. It never fails:
// an absent name resolves to the null identity, an orphaned name to a
// synthetic ref that keeps the name with a nil id.
func Enrich(row StockItem, catalog *ReferenceCatalog) EnrichedStockItem {
	item := EnrichedStockItem{
		StockItem: row,
		Status:    statusFor(row.Quantity, row.Threshold),
	}
	if row.Category != nil {
		item.CategoryRef = catalog.ResolveByName(RefCategory, *row.Category)
	}
	if row.Warehouse != nil {
		item.WarehouseRef = catalog.ResolveByName(RefWarehouse, *row.Warehouse)
	}
	item.CategoryID = item.CategoryRef.ID
	item.WarehouseID = item.WarehouseRef.ID
	return item
}

// ToStorageRow converts a form submission back into the stored shape.
// Reference ids are resolved back to names; an id that fails to resolve drops
// the field entirely, so the stored name becomes null rather than keeping the
// previous value. Numeric fields are coerced leniently: unparseable input
// becomes zero, never a failed save.
func ToStorageRow(form ItemForm, catalog *ReferenceCatalog) StockItem {
	row := StockItem{
		Name:      form.Name,
		Quantity:  coerceInt(form.Quantity),
		Price:     coercePrice(form.Price),
		Threshold: coerceInt(form.Threshold),
		Thumbnail: form.Thumbnail,
	}
	if form.CategoryID != nil {
		if ref := catalog.ResolveByID(RefCategory, *form.CategoryID); ref.Name != nil {
			row.Category = ref.Name
		}
	}
	if form.WarehouseID != nil {
		if ref := catalog.ResolveByID(RefWarehouse, *form.WarehouseID); ref.Name != nil {
			row.Warehouse = ref.Name
		}
	}
	return row
}

// FormFromItem seeds an edit form from an enriched item. The resolved ids
// drive the form's select inputs; the numeric fields go back to their string
// input form.
func FormFromItem(item EnrichedStockItem) ItemForm {
	return ItemForm{
		Name:        item.Name,
		Quantity:    strconv.Itoa(item.Quantity),
		Price:       item.Price.String(),
		Threshold:   strconv.Itoa(item.Threshold),
		CategoryID:  item.CategoryID,
		WarehouseID: item.WarehouseID,
		Thumbnail:   item.Thumbnail,
	}
}

// coerceInt parses form input as a float and truncates, matching the lenient
// handling of numeric fields on the edit form.
func coerceInt(s string) int {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func coercePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
