package seed

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Simplici0/partnerdesk/internal/db"
	"github.com/Simplici0/partnerdesk/internal/migrations"
)

func newSeedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "seed-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(ctx, database); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()

	database := newSeedTestDB(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		stats, err := Run(ctx, database, Config{})
		if err != nil {
			t.Fatalf("run seed (iteration=%d): %v", i, err)
		}
		if i == 0 {
			if stats.Inserts != 16 {
				t.Fatalf("expected 16 inserts in first run, got %d", stats.Inserts)
			}
			continue
		}
		if stats.Inserts != 0 {
			t.Fatalf("expected 0 inserts in iteration %d, got %d", i, stats.Inserts)
		}
	}

	assertCount(t, database, `SELECT COUNT(*) FROM product_types`, nil, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM material_types`, nil, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM materials`, nil, 4)
	assertCount(t, database, `SELECT COUNT(*) FROM products WHERE product_name = ?`, "Herringbone parquet", 1)
	assertCount(t, database, `SELECT COUNT(*) FROM partners`, nil, 0)

	var coefficient float64
	if err := database.QueryRow(`SELECT coefficient FROM product_types WHERE product_type_name = ?`, "Laminate").Scan(&coefficient); err != nil {
		t.Fatalf("query laminate coefficient: %v", err)
	}
	if coefficient != 2.35 {
		t.Fatalf("expected laminate coefficient 2.35, got %v", coefficient)
	}
}

func TestRunDemoPartnersDoesNotDuplicateSales(t *testing.T) {
	t.Parallel()

	database := newSeedTestDB(t)
	ctx := context.Background()

	first, err := Run(ctx, database, Config{DemoPartners: true})
	if err != nil {
		t.Fatalf("run seed: %v", err)
	}
	if first.Inserts != 16+3+5 {
		t.Fatalf("expected 24 inserts in first run, got %d", first.Inserts)
	}

	second, err := Run(ctx, database, Config{DemoPartners: true})
	if err != nil {
		t.Fatalf("run seed again: %v", err)
	}
	if second.Inserts != 0 {
		t.Fatalf("expected 0 inserts in second run, got %d", second.Inserts)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM partners`, nil, 3)
	assertCount(t, database, `SELECT COUNT(*) FROM sales`, nil, 5)
	assertCount(t, database, `SELECT COALESCE(SUM(quantity), 0) FROM sales s JOIN partners p ON p.partner_id = s.partner_id WHERE p.partner_name = ?`, "Parquet House", 325000)
	assertCount(t, database, `SELECT COUNT(*) FROM partner_products`, nil, 5)
}

func assertCount(t *testing.T, database *sql.DB, query string, args any, expected int) {
	t.Helper()

	var count int
	var err error
	switch v := args.(type) {
	case nil:
		err = database.QueryRow(query).Scan(&count)
	case []any:
		err = database.QueryRow(query, v...).Scan(&count)
	default:
		err = database.QueryRow(query, v).Scan(&count)
	}
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != expected {
		t.Fatalf("expected count %d, got %d", expected, count)
	}
}
