package store

import (
	"context"
	"database/sql"
	"fmt"

	"inventory-console/internal/models"

	"github.com/google/uuid"
)

// ListSuppliers retrieves all suppliers
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.SelectContext(ctx, &suppliers, "SELECT * FROM suppliers ORDER BY name")
	return suppliers, err
}

// GetSupplier retrieves a supplier by ID
func (s *Store) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.GetContext(ctx, &supplier, "SELECT * FROM suppliers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("supplier not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// CreateSupplier inserts a supplier
func (s *Store) CreateSupplier(ctx context.Context, sp *models.Supplier) error {
	if sp.ID == "" {
		sp.ID = uuid.New().String()
	}
	if sp.Status == "" {
		sp.Status = models.PartyStatusActive
	}
	query := `
		INSERT INTO suppliers (id, name, company_name, email, phone, address, status, supplier_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	return s.db.QueryRowxContext(ctx, query,
		sp.ID, sp.Name, sp.CompanyName, sp.Email, sp.Phone, sp.Address, sp.Status, sp.SupplierType).
		Scan(&sp.CreatedAt)
}

// UpdateSupplier updates a supplier
func (s *Store) UpdateSupplier(ctx context.Context, sp *models.Supplier) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE suppliers
		SET name = $1, company_name = $2, email = $3, phone = $4,
		    address = $5, status = $6, supplier_type = $7
		WHERE id = $8`,
		sp.Name, sp.CompanyName, sp.Email, sp.Phone, sp.Address, sp.Status, sp.SupplierType, sp.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "supplier", sp.ID)
}

// DeleteSupplier removes a supplier
func (s *Store) DeleteSupplier(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "supplier", id)
}

// ListCustomers retrieves all customers
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY name")
	return customers, err
}

// GetCustomer retrieves a customer by ID
func (s *Store) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer inserts a customer
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = models.PartyStatusActive
	}
	query := `
		INSERT INTO customers (id, name, company_name, email, phone, address, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	return s.db.QueryRowxContext(ctx, query,
		c.ID, c.Name, c.CompanyName, c.Email, c.Phone, c.Address, c.Status).
		Scan(&c.CreatedAt)
}

// UpdateCustomer updates a customer
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE customers
		SET name = $1, company_name = $2, email = $3, phone = $4, address = $5, status = $6
		WHERE id = $7`,
		c.Name, c.CompanyName, c.Email, c.Phone, c.Address, c.Status, c.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "customer", c.ID)
}

// DeleteCustomer removes a customer
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "customer", id)
}

// ListUsers retrieves all console users
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY name")
	return users, err
}

// GetUser retrieves a user by ID
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts a user
func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Status == "" {
		u.Status = models.PartyStatusActive
	}
	return s.db.QueryRowxContext(ctx,
		"INSERT INTO users (id, name, email, role, status) VALUES ($1, $2, $3, $4, $5) RETURNING created_at",
		u.ID, u.Name, u.Email, u.Role, u.Status).Scan(&u.CreatedAt)
}

// UpdateUser updates a user
func (s *Store) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = $1, email = $2, role = $3, status = $4 WHERE id = $5",
		u.Name, u.Email, u.Role, u.Status, u.ID)
	if err != nil {
		return err
	}
	return requireRow(res, "user", u.ID)
}

// DeleteUser removes a user
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, "user", id)
}
