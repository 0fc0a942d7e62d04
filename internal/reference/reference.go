// Package reference exposes the product-type coefficients and material-type
// waste percentages the material calculator depends on. Population is done
// elsewhere (migrations and seed); this package only reads.
package reference

import (
	"context"
	"errors"
)

// ErrNotFound is returned when an identifier does not resolve.
var ErrNotFound = errors.New("reference: not found")

// ProductType scales the material needed per unit of product.
type ProductType struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Coefficient float64 `json:"coefficient"`
}

// MaterialType carries the expected scrap as a percentage.
type MaterialType struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	WastePercentage float64 `json:"waste_percentage"`
}

// Store resolves reference entries by identifier.
type Store interface {
	LookupProductType(ctx context.Context, id int64) (ProductType, error)
	LookupMaterialType(ctx context.Context, id int64) (MaterialType, error)
}

// Catalog is a Store that can also enumerate its entries, ordered by id.
type Catalog interface {
	Store
	ListProductTypes(ctx context.Context) ([]ProductType, error)
	ListMaterialTypes(ctx context.Context) ([]MaterialType, error)
}
