package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-console/internal/models"

	"github.com/google/uuid"
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

// ListProducts retrieves a page of products, optionally filtered by a name
// or SKU substring. Returns the page and the unfiltered-match total.
func (s *Store) ListProducts(ctx context.Context, q string, limit, offset int) ([]models.Product, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	pattern := "%" + q + "%"

	var total int
	err := s.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM products WHERE name ILIKE $1 OR sku ILIKE $1", pattern)
	if err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err = s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE name ILIKE $1 OR sku ILIKE $1 ORDER BY name LIMIT $2 OFFSET $3",
		pattern, limit, offset)
	return products, total, err
}

// GetProduct retrieves a product by ID
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductsBySupplier retrieves the catalog scoped to one supplier
func (s *Store) GetProductsBySupplier(ctx context.Context, supplierID string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE supplier_id = $1 ORDER BY name", supplierID)
	return products, err
}

// GetAllProducts retrieves the full catalog in name order
func (s *Store) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products, "SELECT * FROM products ORDER BY name")
	return products, err
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
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

// CreateProduct inserts a product and fills generated fields
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO products (id, sku, name, price, stock, category_id, supplier_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		p.ID, p.SKU, p.Name, p.Price, p.Stock, p.CategoryID, p.SupplierID).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// UpdateProduct updates mutable product fields
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET sku = $1, name = $2, price = $3, stock = $4,
		    category_id = NULLIF($5, ''), supplier_id = NULLIF($6, ''), updated_at = NOW()
		WHERE id = $7`,
		p.SKU, p.Name, p.Price, p.Stock, p.CategoryID, p.SupplierID, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "product", p.ID)
}

// DeleteProduct removes a product
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "product", id)
}

// ListStockLevels retrieves the stock view for all products
func (s *Store) ListStockLevels(ctx context.Context) ([]models.StockLevel, error) {
	var levels []models.StockLevel
	err := s.db.SelectContext(ctx, &levels,
		"SELECT id AS product_id, sku, name, stock, updated_at FROM products ORDER BY name")
	return levels, err
}

// AdjustStock applies a signed stock delta within a transaction. Sales
// deltas are negative and must not drive stock below zero.
func (s *Store) AdjustStock(ctx context.Context, productID string, delta int) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stock int
	err = tx.GetContext(ctx, &stock,
		"SELECT stock FROM products WHERE id = $1 FOR UPDATE", productID)
	if err != nil {
		return fmt.Errorf("failed to lock product stock: %w", err)
	}

	if stock+delta < 0 {
		return fmt.Errorf("insufficient stock for product %s: have %d, delta %d", productID, stock, delta)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE products SET stock = stock + $1, updated_at = NOW() WHERE id = $2",
		delta, productID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	return tx.Commit()
}

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.SelectContext(ctx, &categories, "SELECT * FROM categories ORDER BY name")
	return categories, err
}

// CreateCategory inserts a category
func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO categories (id, name, description) VALUES ($1, $2, $3) RETURNING created_at",
		c.ID, c.Name, c.Description).Scan(&c.CreatedAt)
}

// UpdateCategory updates a category
func (s *Store) UpdateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE categories SET name = $1, description = $2 WHERE id = $3",
		c.Name, c.Description, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "category", c.ID)
}

// DeleteCategory removes a category
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "category", id)
}

func requireRow(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s not found: %s", resource, id)
	}
	return nil
}
