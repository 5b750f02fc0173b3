package app

import (
	"context"
	"fmt"

	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/domain"
	"github.com/Elangosridhar/Smarttask-analysis/internal/analysis/infrastructure/persistence"
	sharedApplication "github.com/Elangosridhar/Smarttask-analysis/internal/shared/application"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/database"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/migrations"
	"github.com/Elangosridhar/Smarttask-analysis/internal/shared/infrastructure/outbox"
)

// RepositoryFactory creates the run history repositories over one
// connection, whichever driver it uses.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// Migrate applies the embedded schema for the connection's driver.
func (f *RepositoryFactory) Migrate(ctx context.Context) error {
	if err := migrations.Run(ctx, f.conn); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", f.driver, err)
	}
	return nil
}

// RunRepository creates the analysis run repository.
func (f *RepositoryFactory) RunRepository() domain.RunRepository {
	return persistence.NewSQLRunRepository(f.conn)
}

// OutboxRepository creates the outbox repository.
func (f *RepositoryFactory) OutboxRepository() outbox.Repository {
	return outbox.NewSQLRepository(f.conn)
}

// UnitOfWork creates a unit of work whose transactions the repositories join.
func (f *RepositoryFactory) UnitOfWork() sharedApplication.UnitOfWork {
	return database.NewUnitOfWork(f.conn)
}

// Driver returns the database driver type.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.driver
}

// Connection returns the underlying database connection.
func (f *RepositoryFactory) Connection() database.Connection {
	return f.conn
}
