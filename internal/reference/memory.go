package reference

import (
	"context"
	"fmt"
	"sort"
)

// MemoryStore is an immutable in-memory Catalog.
type MemoryStore struct {
	productTypes  map[int64]ProductType
	materialTypes map[int64]MaterialType
}

var _ Catalog = (*MemoryStore)(nil)

// NewMemoryStore indexes the given entries by id. Later duplicates win.
func NewMemoryStore(productTypes []ProductType, materialTypes []MaterialType) *MemoryStore {
	s := &MemoryStore{
		productTypes:  make(map[int64]ProductType, len(productTypes)),
		materialTypes: make(map[int64]MaterialType, len(materialTypes)),
	}
	for _, pt := range productTypes {
		s.productTypes[pt.ID] = pt
	}
	for _, mt := range materialTypes {
		s.materialTypes[mt.ID] = mt
	}
	return s
}

func (s *MemoryStore) LookupProductType(_ context.Context, id int64) (ProductType, error) {
	pt, ok := s.productTypes[id]
	if !ok {
		return ProductType{}, fmt.Errorf("product type %d: %w", id, ErrNotFound)
	}
	return pt, nil
}

func (s *MemoryStore) LookupMaterialType(_ context.Context, id int64) (MaterialType, error) {
	mt, ok := s.materialTypes[id]
	if !ok {
		return MaterialType{}, fmt.Errorf("material type %d: %w", id, ErrNotFound)
	}
	return mt, nil
}

func (s *MemoryStore) ListProductTypes(_ context.Context) ([]ProductType, error) {
	out := make([]ProductType, 0, len(s.productTypes))
	for _, pt := range s.productTypes {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) ListMaterialTypes(_ context.Context) ([]MaterialType, error) {
	out := make([]MaterialType, 0, len(s.materialTypes))
	for _, mt := range s.materialTypes {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
