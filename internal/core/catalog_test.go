package core_test

import (
	"context"
	"errors"
	"testing"

	"storen/internal/core"
	"storen/internal/store"
)

func setupCatalog(t *testing.T) (*core.ReferenceCatalog, *store.Memory, context.Context) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	for _, name := range []string{"Tools", "Drinks", "Apparel"} {
		if _, err := mem.InsertCategory(ctx, name); err != nil {
			t.Fatalf("seed category %s: %v", name, err)
		}
	}
	if _, err := mem.InsertWarehouse(ctx, "Main"); err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}

	catalog := core.NewReferenceCatalog(mem)
	if err := catalog.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	return catalog, mem, ctx
}

func TestCatalog_ListOrdered(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	entries := catalog.List(core.RefCategory)
	if len(entries) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(entries))
	}
	for i, want := range []string{"Apparel", "Drinks", "Tools"} {
		if entries[i].Name != want {
			t.Errorf("entry %d = %q, expected %q", i, entries[i].Name, want)
		}
	}
}

func TestCatalog_ResolveByName(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	ref := catalog.ResolveByName(core.RefCategory, "Drinks")
	if ref.ID == nil || ref.Name == nil || *ref.Name != "Drinks" {
		t.Fatalf("expected resolved ref for Drinks, got %+v", ref)
	}

	// Orphaned name: id is nil but the name must survive.
	orphan := catalog.ResolveByName(core.RefCategory, "Ghosts")
	if orphan.ID != nil {
		t.Error("orphaned name must resolve with a nil id")
	}
	if orphan.Name == nil || *orphan.Name != "Ghosts" {
		t.Errorf("orphaned name must be preserved, got %+v", orphan.Name)
	}
}

func TestCatalog_ResolveByID(t *testing.T) {
	catalog, _, _ := setupCatalog(t)

	entries := catalog.List(core.RefWarehouse)
	ref := catalog.ResolveByID(core.RefWarehouse, entries[0].ID)
	if ref.ID == nil || *ref.ID != entries[0].ID {
		t.Fatalf("expected resolved ref, got %+v", ref)
	}

	// Unknown id: null identity, never an error.
	missing := catalog.ResolveByID(core.RefWarehouse, 9999)
	if missing.ID != nil || missing.Name != nil {
		t.Errorf("unknown id must yield the null identity, got %+v", missing)
	}
}

func TestCatalog_Append(t *testing.T) {
	catalog, _, ctx := setupCatalog(t)

	entry, err := catalog.Append(ctx, core.RefCategory, "Books")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if entry.ID == 0 {
		t.Error("appended entry must carry a server-assigned id")
	}

	if ref := catalog.ResolveByName(core.RefCategory, "Books"); ref.ID == nil {
		t.Error("appended entry must be visible to subsequent resolution")
	}
	entries := catalog.List(core.RefCategory)
	if len(entries) != 4 || entries[1].Name != "Books" {
		t.Errorf("appended entry must keep the name ordering, got %v", entries)
	}

	if _, err := catalog.Append(ctx, core.RefCategory, "Books"); !errors.Is(err, store.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
}

// halfFailingStore fails category reads only, so one catalog half can be
// tested independently of the other.
type halfFailingStore struct {
	*store.Memory
}

func (s *halfFailingStore) ListCategories(context.Context) ([]core.Entry, error) {
	return nil, errors.New("categories unavailable")
}

func TestCatalog_PartialRefresh(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	if _, err := mem.InsertWarehouse(ctx, "Main"); err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}

	catalog := core.NewReferenceCatalog(&halfFailingStore{mem})
	err := catalog.Refresh(ctx)
	if err == nil {
		t.Fatal("expected an error from the failing half")
	}
	if got := catalog.List(core.RefWarehouse); len(got) != 1 {
		t.Errorf("warehouse refresh must not be blocked by the category failure, got %v", got)
	}
}
