package reference

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreLookups(t *testing.T) {
	store := NewMemoryStore(
		[]ProductType{{ID: 2, Name: "Laminate", Coefficient: 2.35}, {ID: 1, Name: "Parquet", Coefficient: 1.5}},
		[]MaterialType{{ID: 7, Name: "Oak", WastePercentage: 0.8}},
	)
	ctx := context.Background()

	pt, err := store.LookupProductType(ctx, 2)
	if err != nil {
		t.Fatalf("LookupProductType: %v", err)
	}
	if pt.Coefficient != 2.35 {
		t.Fatalf("coefficient = %v, want 2.35", pt.Coefficient)
	}

	mt, err := store.LookupMaterialType(ctx, 7)
	if err != nil {
		t.Fatalf("LookupMaterialType: %v", err)
	}
	if mt.WastePercentage != 0.8 {
		t.Fatalf("waste = %v, want 0.8", mt.WastePercentage)
	}

	if _, err := store.LookupProductType(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.LookupMaterialType(ctx, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreListsOrderedByID(t *testing.T) {
	store := NewMemoryStore(
		[]ProductType{{ID: 3}, {ID: 1}, {ID: 2}},
		[]MaterialType{{ID: 9}, {ID: 4}},
	)

	pts, err := store.ListProductTypes(context.Background())
	if err != nil {
		t.Fatalf("ListProductTypes: %v", err)
	}
	if len(pts) != 3 || pts[0].ID != 1 || pts[1].ID != 2 || pts[2].ID != 3 {
		t.Fatalf("unexpected order: %+v", pts)
	}

	mts, err := store.ListMaterialTypes(context.Background())
	if err != nil {
		t.Fatalf("ListMaterialTypes: %v", err)
	}
	if len(mts) != 2 || mts[0].ID != 4 || mts[1].ID != 9 {
		t.Fatalf("unexpected order: %+v", mts)
	}
}
