package store_test

import (
	"context"
	"errors"
	"testing"

	"storen/internal/core"
	"storen/internal/store"
)

func seedStock(t *testing.T, mem *store.Memory) {
	t.Helper()
	ctx := context.Background()
	tools := "Tools"
	kitchen := "Kitchen"
	rows := []core.StockItem{
		{Name: "Anvil", Category: &tools},
		{Name: "Hammer", Category: &tools},
		{Name: "Mug", Category: &kitchen},
		{Name: "Saw", Category: &tools},
		{Name: "Whisk", Category: &kitchen},
	}
	for _, r := range rows {
		if _, err := mem.InsertStock(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", r.Name, err)
		}
	}
}

func TestMemory_SelectOrderedByName(t *testing.T) {
	mem := store.NewMemory()
	seedStock(t, mem)

	rows, total, err := mem.SelectStock(context.Background(), core.StockQuery{From: 0, To: 9})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, expected 5", total)
	}
	want := []string{"Anvil", "Hammer", "Mug", "Saw", "Whisk"}
	for i, w := range want {
		if rows[i].Name != w {
			t.Errorf("row %d = %q, expected %q", i, rows[i].Name, w)
		}
	}
}

func TestMemory_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	mem := store.NewMemory()
	seedStock(t, mem)

	rows, total, err := mem.SelectStock(context.Background(), core.StockQuery{Search: "Am", From: 0, To: 9})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Name != "Hammer" {
		t.Errorf("expected the single Hammer match, got total=%d rows=%v", total, rows)
	}
}

func TestMemory_FiltersCompose(t *testing.T) {
	mem := store.NewMemory()
	seedStock(t, mem)

	rows, total, err := mem.SelectStock(context.Background(),
		core.StockQuery{Search: "a", Category: "Tools", From: 0, To: 9})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	// "a" matches Anvil, Hammer, Saw; all three are Tools.
	if total != 3 {
		t.Errorf("total = %d, expected 3", total)
	}
	if len(rows) != 3 {
		t.Errorf("rows = %d, expected 3", len(rows))
	}
}

func TestMemory_WindowPastEnd(t *testing.T) {
	mem := store.NewMemory()
	seedStock(t, mem)

	rows, total, err := mem.SelectStock(context.Background(), core.StockQuery{From: 8, To: 15})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("window past the end must be empty, got %d rows", len(rows))
	}
	if total != 5 {
		t.Errorf("total must still reflect the filtered count, got %d", total)
	}
}

func TestMemory_WindowClampsAtEnd(t *testing.T) {
	mem := store.NewMemory()
	seedStock(t, mem)

	rows, _, err := mem.SelectStock(context.Background(), core.StockQuery{From: 3, To: 10})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected the final 2 rows, got %d", len(rows))
	}
}

func TestMemory_DuplicateEntryName(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	if _, err := mem.InsertCategory(ctx, "Tools"); err != nil {
		t.Fatalf("InsertCategory failed: %v", err)
	}
	if _, err := mem.InsertCategory(ctx, "Tools"); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	// The same name is fine on the other table.
	if _, err := mem.InsertWarehouse(ctx, "Tools"); err != nil {
		t.Errorf("warehouse names are independent of category names: %v", err)
	}
}

func TestMemory_ServesCoreContracts(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	// The stores are consumed only through the core-owned interfaces; the
	// concrete types must satisfy them and behave identically behind them.
	var tables core.TableStore = mem
	var blobs core.BlobStore = mem

	if _, err := tables.InsertStock(ctx, core.StockItem{Name: "Anvil"}); err != nil {
		t.Fatalf("InsertStock failed: %v", err)
	}
	rows, total, err := tables.SelectStock(ctx, core.StockQuery{From: 0, To: 7})
	if err != nil {
		t.Fatalf("SelectStock failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Name != "Anvil" {
		t.Errorf("expected the inserted row back, got total=%d rows=%v", total, rows)
	}

	if err := blobs.Upload(ctx, "a.png", []byte{1, 2, 3}, "image/png"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if got := blobs.PublicURL("a.png"); got == "" {
		t.Error("PublicURL must be non-empty for an uploaded object")
	}
}

func TestMemory_UpdateMissingRow(t *testing.T) {
	mem := store.NewMemory()
	err := mem.UpdateStock(context.Background(), 42, core.StockItem{Name: "Ghost"})
	if !errors.Is(err, store.ErrRemoteWrite) {
		t.Errorf("expected ErrRemoteWrite for a missing row, got %v", err)
	}
}
