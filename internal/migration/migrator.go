package migration

import (
	"context"

	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

const migrationsDir = "db/migrations/sql"

// Migrator wraps goose operations over the store's connection.
type Migrator struct {
	store  *store.Store
	logger *zap.Logger
}

// New constructs a goose-backed migrator
func New(s *store.Store) (*Migrator, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return &Migrator{
		store:  s,
		logger: util.NamedLogger("migration"),
	}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.store.GetDB().DB, migrationsDir); err != nil {
		return err
	}
	m.logger.Info("migrations applied")
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.store.GetDB().DB, migrationsDir); err != nil {
		return err
	}
	m.logger.Info("migration rolled back")
	return nil
}
