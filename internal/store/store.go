package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// ProductFilter narrows ListProducts. Query matches name or SKU,
// case-insensitive substring.
type ProductFilter struct {
	Query      string
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListProducts retrieves a filtered, paginated product page plus the total
// count for that filter.
func (s *Store) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", n, n))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}

	cond := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM products WHERE " + cond
	if err := s.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf("SELECT * FROM products WHERE %s ORDER BY name LIMIT $%d OFFSET $%d",
		cond, len(args)-1, len(args))

	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	return products, total, nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU retrieves a product by SKU
func (s *Store) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE sku = $1", sku)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %q: %w", sku, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	query, args, err := sqlx.In("SELECT * FROM products WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	query = s.db.Rebind(query)

	var products []models.Product
	err = s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CreateProduct creates a new product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (sku, name, price, category, stock_quantity, low_stock_threshold, is_active, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, p, query,
		p.SKU, p.Name, p.Price, p.Category, p.StockQuantity, p.LowStockThreshold, p.IsActive, p.ImageURL)
}

// UpdateProduct updates product fields. Stock is not touched here; stock
// changes go through AdjustStockTx or order submission only.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET sku = $1, name = $2, price = $3, category = $4,
		    low_stock_threshold = $5, is_active = $6, image_url = $7, updated_at = NOW()
		WHERE id = $8`,
		p.SKU, p.Name, p.Price, p.Category, p.LowStockThreshold, p.IsActive, p.ImageURL, p.ID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("product %d: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// DeactivateProduct soft-deletes a product so past orders keep a valid reference.
func (s *Store) DeactivateProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("product %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// AdjustStockTx applies a manual stock delta under a row lock, refusing any
// adjustment that would drive stock negative, and records an audit row.
func (s *Store) AdjustStockTx(ctx context.Context, productID int64, delta int, reason string, actorID int64) (*models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current int
	err = tx.GetContext(ctx, &current,
		"SELECT stock_quantity FROM products WHERE id = $1 FOR UPDATE", productID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", productID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	if current+delta < 0 {
		return nil, fmt.Errorf("adjust by %d with stock %d: %w", delta, current, models.ErrInsufficientStock)
	}

	var product models.Product
	err = tx.GetContext(ctx, &product, `
		UPDATE products SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING *`, delta, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO stock_adjustments (product_id, delta, reason, actor_id) VALUES ($1, $2, $3, $4)",
		productID, delta, reason, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to record adjustment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetStockAdjustments retrieves the adjustment history for a product
func (s *Store) GetStockAdjustments(ctx context.Context, productID int64, limit int) ([]models.StockAdjustment, error) {
	if limit <= 0 {
		limit = 50
	}
	var adjustments []models.StockAdjustment
	err := s.db.SelectContext(ctx, &adjustments,
		"SELECT * FROM stock_adjustments WHERE product_id = $1 ORDER BY created_at DESC LIMIT $2",
		productID, limit)
	return adjustments, err
}
