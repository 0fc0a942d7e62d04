package reference

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQLStore reads reference data from the product_types and material_types tables.
type SQLStore struct {
	db *sql.DB
}

var _ Catalog = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) LookupProductType(ctx context.Context, id int64) (ProductType, error) {
	var pt ProductType
	err := s.db.QueryRowContext(ctx, `
		SELECT product_type_id, product_type_name, coefficient
		FROM product_types
		WHERE product_type_id = ?
	`, id).Scan(&pt.ID, &pt.Name, &pt.Coefficient)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProductType{}, fmt.Errorf("product type %d: %w", id, ErrNotFound)
		}
		return ProductType{}, fmt.Errorf("query product type %d: %w", id, err)
	}
	return pt, nil
}

func (s *SQLStore) LookupMaterialType(ctx context.Context, id int64) (MaterialType, error) {
	var mt MaterialType
	err := s.db.QueryRowContext(ctx, `
		SELECT material_type_id, material_type_name, waste_percentage
		FROM material_types
		WHERE material_type_id = ?
	`, id).Scan(&mt.ID, &mt.Name, &mt.WastePercentage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MaterialType{}, fmt.Errorf("material type %d: %w", id, ErrNotFound)
		}
		return MaterialType{}, fmt.Errorf("query material type %d: %w", id, err)
	}
	return mt, nil
}

func (s *SQLStore) ListProductTypes(ctx context.Context) ([]ProductType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_type_id, product_type_name, coefficient
		FROM product_types
		ORDER BY product_type_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query product types: %w", err)
	}
	defer rows.Close()

	productTypes := make([]ProductType, 0)
	for rows.Next() {
		var pt ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.Coefficient); err != nil {
			return nil, fmt.Errorf("scan product type: %w", err)
		}
		productTypes = append(productTypes, pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product types: %w", err)
	}

	return productTypes, nil
}

func (s *SQLStore) ListMaterialTypes(ctx context.Context) ([]MaterialType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT material_type_id, material_type_name, waste_percentage
		FROM material_types
		ORDER BY material_type_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query material types: %w", err)
	}
	defer rows.Close()

	materialTypes := make([]MaterialType, 0)
	for rows.Next() {
		var mt MaterialType
		if err := rows.Scan(&mt.ID, &mt.Name, &mt.WastePercentage); err != nil {
			return nil, fmt.Errorf("scan material type: %w", err)
		}
		materialTypes = append(materialTypes, mt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate material types: %w", err)
	}

	return materialTypes, nil
}
