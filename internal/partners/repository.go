package partners

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/partnerdesk/internal/db"
	"github.com/Simplici0/partnerdesk/internal/pricing"
)

// Repository stores partners and sales in SQLite.
type Repository struct {
	db    *sql.DB
	tiers pricing.Table
	now   func() time.Time
}

type Option func(*Repository)

// WithTiers replaces the default discount table.
func WithTiers(t pricing.Table) Option {
	return func(r *Repository) { r.tiers = t }
}

// WithClock overrides the clock used for default sale dates.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func NewRepository(database *sql.DB, opts ...Option) *Repository {
	r := &Repository{db: database, tiers: pricing.DefaultTable, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const partnerSelect = `
	SELECT
		p.partner_id,
		p.partner_name,
		COALESCE(p.contact_person, ''),
		COALESCE(p.phone, ''),
		COALESCE(p.email, ''),
		COALESCE(p.address, ''),
		p.registration_date,
		COALESCE(SUM(s.quantity), 0)
	FROM partners p
	LEFT JOIN sales s ON s.partner_id = p.partner_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanPartner(row rowScanner) (Partner, error) {
	var (
		p          Partner
		registered string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.ContactPerson, &p.Phone, &p.Email, &p.Address, &registered, &p.CumulativeSales); err != nil {
		return Partner{}, err
	}
	t, err := parseStoredTime(registered)
	if err != nil {
		return Partner{}, fmt.Errorf("parse registration date of partner %d: %w", p.ID, err)
	}
	p.RegisteredAt = t
	p.DiscountPercentage = r.tiers.Resolve(p.CumulativeSales)
	return p, nil
}

// List returns every partner ordered by name with derived totals.
func (r *Repository) List(ctx context.Context) ([]Partner, error) {
	rows, err := r.db.QueryContext(ctx, partnerSelect+`
		GROUP BY p.partner_id
		ORDER BY p.partner_name
	`)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w", err)
	}
	defer rows.Close()

	partners := make([]Partner, 0)
	for rows.Next() {
		p, err := r.scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate partners: %w", err)
	}

	return partners, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Partner, error) {
	row := r.db.QueryRowContext(ctx, partnerSelect+`
		WHERE p.partner_id = ?
		GROUP BY p.partner_id
	`, id)
	p, err := r.scanPartner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Partner{}, ErrNotFound
		}
		return Partner{}, fmt.Errorf("query partner %d: %w", id, err)
	}
	return p, nil
}

func (r *Repository) Create(ctx context.Context, in Input) (Partner, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return Partner{}, err
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO partners (partner_name, contact_person, phone, email, address)
		VALUES (?, ?, ?, ?, ?)
	`, in.Name, in.ContactPerson, in.Phone, in.Email, in.Address)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Partner{}, ErrDuplicateName
		}
		return Partner{}, fmt.Errorf("insert partner: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return Partner{}, fmt.Errorf("read partner id: %w", err)
	}
	return r.Get(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id int64, in Input) (Partner, error) {
	in = in.normalized()
	if err := in.validate(); err != nil {
		return Partner{}, err
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE partners
		SET
			partner_name = ?,
			contact_person = ?,
			phone = ?,
			email = ?,
			address = ?
		WHERE partner_id = ?
	`, in.Name, in.ContactPerson, in.Phone, in.Email, in.Address, id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Partner{}, ErrDuplicateName
		}
		return Partner{}, fmt.Errorf("update partner %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Partner{}, fmt.Errorf("update partner %d: %w", id, err)
	}
	if affected == 0 {
		return Partner{}, ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes the partner together with its sales and product links.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete partner transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM partner_products WHERE partner_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete partner products: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE partner_id = ?`, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete partner sales: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM partners WHERE partner_id = ?`, id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete partner %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("delete partner %d: %w", id, err)
	}
	if affected == 0 {
		_ = tx.Rollback()
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete partner transaction: %w", err)
	}
	return nil
}

// SalesHistory lists the partner's sales, newest first.
func (r *Repository) SalesHistory(ctx context.Context, partnerID int64) ([]Sale, error) {
	if err := r.ensurePartner(ctx, partnerID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.sale_id, s.partner_id, s.product_id, p.product_name, s.quantity, s.sale_date
		FROM sales s
		JOIN products p ON p.product_id = s.product_id
		WHERE s.partner_id = ?
		ORDER BY s.sale_date DESC, s.sale_id DESC
	`, partnerID)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	sales := make([]Sale, 0)
	for rows.Next() {
		var (
			s    Sale
			date string
		)
		if err := rows.Scan(&s.ID, &s.PartnerID, &s.ProductID, &s.ProductName, &s.Quantity, &date); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if s.SaleDate, err = parseStoredTime(date); err != nil {
			return nil, fmt.Errorf("parse date of sale %d: %w", s.ID, err)
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sales: %w", err)
	}

	return sales, nil
}

// RecordSale stores a sale and links the product to the partner.
func (r *Repository) RecordSale(ctx context.Context, partnerID int64, in SaleInput) (Sale, error) {
	if in.Quantity <= 0 {
		return Sale{}, ErrInvalidQuantity
	}
	saleDate := r.now().UTC().Truncate(24 * time.Hour)
	if in.SaleDate != "" {
		d, err := time.Parse(saleDateLayout, in.SaleDate)
		if err != nil {
			return Sale{}, ErrInvalidSaleDate
		}
		saleDate = d
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Sale{}, fmt.Errorf("begin record sale transaction: %w", err)
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partners WHERE partner_id = ?)`, partnerID).Scan(&exists); err != nil {
		_ = tx.Rollback()
		return Sale{}, fmt.Errorf("check partner existence: %w", err)
	}
	if !exists {
		_ = tx.Rollback()
		return Sale{}, ErrNotFound
	}

	sale := Sale{PartnerID: partnerID, ProductID: in.ProductID, Quantity: in.Quantity, SaleDate: saleDate}
	err = tx.QueryRowContext(ctx, `SELECT product_name FROM products WHERE product_id = ?`, in.ProductID).Scan(&sale.ProductName)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return Sale{}, ErrUnknownProduct
		}
		return Sale{}, fmt.Errorf("query product %d: %w", in.ProductID, err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sales (partner_id, product_id, quantity, sale_date)
		VALUES (?, ?, ?, ?)
	`, partnerID, in.ProductID, in.Quantity, saleDate.Format(saleDateLayout))
	if err != nil {
		_ = tx.Rollback()
		return Sale{}, fmt.Errorf("insert sale: %w", err)
	}
	if sale.ID, err = result.LastInsertId(); err != nil {
		_ = tx.Rollback()
		return Sale{}, fmt.Errorf("read sale id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO partner_products (partner_id, product_id)
		VALUES (?, ?)
	`, partnerID, in.ProductID); err != nil {
		_ = tx.Rollback()
		return Sale{}, fmt.Errorf("link partner product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Sale{}, fmt.Errorf("commit record sale transaction: %w", err)
	}
	return sale, nil
}

// Products lists the products a partner has been linked to.
func (r *Repository) Products(ctx context.Context, partnerID int64) ([]Product, error) {
	if err := r.ensurePartner(ctx, partnerID); err != nil {
		return nil, err
	}
	return r.queryProducts(ctx, `
		SELECT p.product_id, p.product_name, p.product_type_id
		FROM partner_products pp
		JOIN products p ON p.product_id = pp.product_id
		WHERE pp.partner_id = ?
		ORDER BY p.product_name
	`, partnerID)
}

// ListProducts returns the product catalog that sales can reference.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, `
		SELECT product_id, product_name, product_type_id
		FROM products
		ORDER BY product_name
	`)
}

func (r *Repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductTypeID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

func (r *Repository) ensurePartner(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM partners WHERE partner_id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check partner existence: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}
