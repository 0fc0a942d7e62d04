package seed

import (
	"context"
	"database/sql"
	"fmt"
)

type productType struct {
	Name        string
	Coefficient float64
}

type materialType struct {
	Name            string
	WastePercentage float64
}

type namedRef struct {
	Name   string
	Parent string
}

type demoPartner struct {
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
}

type demoSale struct {
	Partner  string
	Product  string
	Quantity int64
	SaleDate string
}

var defaultProductTypes = []productType{
	{Name: "Laminate", Coefficient: 2.35},
	{Name: "Engineered board", Coefficient: 5.15},
	{Name: "Parquet board", Coefficient: 4.34},
	{Name: "Solid board", Coefficient: 1.5},
}

var defaultMaterialTypes = []materialType{
	{Name: "Oak", WastePercentage: 0.55},
	{Name: "Ash", WastePercentage: 0.34},
	{Name: "Pine", WastePercentage: 0.15},
	{Name: "Birch", WastePercentage: 0.2},
}

var defaultMaterials = []namedRef{
	{Name: "Oak veneer", Parent: "Oak"},
	{Name: "Ash lamella", Parent: "Ash"},
	{Name: "Pine plank stock", Parent: "Pine"},
	{Name: "Birch plywood", Parent: "Birch"},
}

var defaultProducts = []namedRef{
	{Name: "Classic oak laminate", Parent: "Laminate"},
	{Name: "Engineered ash board", Parent: "Engineered board"},
	{Name: "Herringbone parquet", Parent: "Parquet board"},
	{Name: "Pine floor plank", Parent: "Solid board"},
}

var demoPartners = []demoPartner{
	{Name: "Northwood Flooring", ContactPerson: "Anna Petrova", Phone: "+7 495 555 0101", Email: "anna@northwood.example", Address: "12 Forest Lane"},
	{Name: "Parquet House", ContactPerson: "Igor Smirnov", Phone: "+7 812 555 0202", Email: "igor@parquethouse.example", Address: "4 Harbour Street"},
	{Name: "Timber & Co", ContactPerson: "Maria Lebedeva", Phone: "+7 343 555 0303", Email: "maria@timber.example", Address: "90 Mill Road"},
}

var demoSales = []demoSale{
	{Partner: "Northwood Flooring", Product: "Classic oak laminate", Quantity: 15500, SaleDate: "2024-01-15"},
	{Partner: "Northwood Flooring", Product: "Herringbone parquet", Quantity: 12350, SaleDate: "2024-03-02"},
	{Partner: "Parquet House", Product: "Herringbone parquet", Quantity: 250000, SaleDate: "2024-02-20"},
	{Partner: "Parquet House", Product: "Engineered ash board", Quantity: 75000, SaleDate: "2024-04-11"},
	{Partner: "Timber & Co", Product: "Pine floor plank", Quantity: 3500, SaleDate: "2024-05-07"},
}

// Config selects the optional parts of the startup seed.
type Config struct {
	// DemoPartners also inserts sample partners and their sales.
	DemoPartners bool
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	steps := []func(context.Context, *sql.Tx, *Stats) error{
		ensureProductTypes,
		ensureMaterialTypes,
		ensureMaterials,
		ensureProducts,
	}
	if cfg.DemoPartners {
		steps = append(steps, ensureDemoPartners)
	}

	for _, step := range steps {
		if err := step(ctx, tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureProductTypes(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, pt := range defaultProductTypes {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM product_types WHERE product_type_name = ? LIMIT 1)`, pt.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check product type %q existence: %w", pt.Name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO product_types (product_type_name, coefficient)
			VALUES (?, ?)
		`, pt.Name, pt.Coefficient); err != nil {
			return fmt.Errorf("insert product type %q: %w", pt.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureMaterialTypes(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, mt := range defaultMaterialTypes {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM material_types WHERE material_type_name = ? LIMIT 1)`, mt.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check material type %q existence: %w", mt.Name, err)
		}
		if exists {
			continue
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO material_types (material_type_name, waste_percentage)
			VALUES (?, ?)
		`, mt.Name, mt.WastePercentage); err != nil {
			return fmt.Errorf("insert material type %q: %w", mt.Name, err)
		}
		stats.Inserts++
	}
	return nil
}

func ensureMaterials(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, m := range defaultMaterials {
		// The parent lookup doubles as the existence check.
		result, err := tx.ExecContext(ctx, `
			INSERT INTO materials (material_name, material_type_id)
			SELECT ?, material_type_id
			FROM material_types
			WHERE material_type_name = ?
				AND NOT EXISTS(SELECT 1 FROM materials WHERE material_name = ?)
		`, m.Name, m.Parent, m.Name)
		if err != nil {
			return fmt.Errorf("insert material %q: %w", m.Name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert material %q: %w", m.Name, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}

func ensureProducts(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	for _, p := range defaultProducts {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO products (product_name, product_type_id)
			SELECT ?, product_type_id
			FROM product_types
			WHERE product_type_name = ?
				AND NOT EXISTS(SELECT 1 FROM products WHERE product_name = ?)
		`, p.Name, p.Parent, p.Name)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
		stats.Inserts += int(affected)
	}
	return nil
}

// ensureDemoPartners inserts sample partners once. Sales are only added for
// partners created in this run so restarts do not inflate totals.
func ensureDemoPartners(ctx context.Context, tx *sql.Tx, stats *Stats) error {
	created := make(map[string]int64)
	for _, p := range demoPartners {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partners WHERE partner_name = ? LIMIT 1)`, p.Name).Scan(&exists); err != nil {
			return fmt.Errorf("check partner %q existence: %w", p.Name, err)
		}
		if exists {
			continue
		}

		result, err := tx.ExecContext(ctx, `
			INSERT INTO partners (partner_name, contact_person, phone, email, address)
			VALUES (?, ?, ?, ?, ?)
		`, p.Name, p.ContactPerson, p.Phone, p.Email, p.Address)
		if err != nil {
			return fmt.Errorf("insert partner %q: %w", p.Name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("read partner %q id: %w", p.Name, err)
		}
		created[p.Name] = id
		stats.Inserts++
	}

	for _, s := range demoSales {
		partnerID, ok := created[s.Partner]
		if !ok {
			continue
		}

		var productID int64
		if err := tx.QueryRowContext(ctx, `SELECT product_id FROM products WHERE product_name = ?`, s.Product).Scan(&productID); err != nil {
			return fmt.Errorf("query product %q: %w", s.Product, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sales (partner_id, product_id, quantity, sale_date)
			VALUES (?, ?, ?, ?)
		`, partnerID, productID, s.Quantity, s.SaleDate); err != nil {
			return fmt.Errorf("insert sale for %q: %w", s.Partner, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO partner_products (partner_id, product_id)
			VALUES (?, ?)
		`, partnerID, productID); err != nil {
			return fmt.Errorf("link %q to %q: %w", s.Partner, s.Product, err)
		}
		stats.Inserts++
	}
	return nil
}
