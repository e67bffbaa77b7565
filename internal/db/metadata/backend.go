// Package metadata lists schema objects for the tree: databases, tables and
// columns, one query per level, fetched lazily as rows expand.
package metadata

import (
	"context"
	"fmt"
	"time"

	"github.com/workgrid/workgrid-studio/internal/db/connection"
	"github.com/workgrid/workgrid-studio/internal/models"
)

// toString safely converts an interface{} to string
func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	}
	return 0
}

// Backend serves the schema cache's listing interface from live connections.
// Each call resolves the right pool through the manager, so listings for a
// database other than the profile's default transparently get a session
// bound to that database.
type Backend struct {
	manager *connection.Manager
	timeout time.Duration
}

// NewBackend creates a backend reading through the connection manager.
// timeout bounds each listing query; zero means no bound beyond the caller's
// context.
func NewBackend(manager *connection.Manager, timeout time.Duration) *Backend {
	return &Backend{manager: manager, timeout: timeout}
}

func (b *Backend) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.timeout)
}

// ListDatabases returns the database names visible on the connection.
func (b *Backend) ListDatabases(ctx context.Context, connectionID string) ([]string, error) {
	ctx, cancel := b.queryCtx(ctx)
	defer cancel()

	pool, err := b.manager.PoolFor(ctx, connectionID, "")
	if err != nil {
		return nil, err
	}
	return listDatabases(ctx, pool)
}

// ListTables returns the table names of one database.
func (b *Backend) ListTables(ctx context.Context, connectionID, database string) ([]string, error) {
	ctx, cancel := b.queryCtx(ctx)
	defer cancel()

	pool, err := b.manager.PoolFor(ctx, connectionID, database)
	if err != nil {
		return nil, err
	}
	return listTables(ctx, pool)
}

// ListColumns returns the column metadata of one table.
func (b *Backend) ListColumns(ctx context.Context, connectionID, database, table string) ([]models.ColumnInfo, error) {
	ctx, cancel := b.queryCtx(ctx)
	defer cancel()

	pool, err := b.manager.PoolFor(ctx, connectionID, database)
	if err != nil {
		return nil, err
	}
	return listColumns(ctx, pool, table)
}

// DatabaseInfos returns the overview rows for the database manager view.
func (b *Backend) DatabaseInfos(ctx context.Context, connectionID string) ([]models.DatabaseInfo, error) {
	ctx, cancel := b.queryCtx(ctx)
	defer cancel()

	pool, err := b.manager.PoolFor(ctx, connectionID, "")
	if err != nil {
		return nil, err
	}
	return databaseInfos(ctx, pool)
}

// TableInfos returns the overview rows for one database's tables.
func (b *Backend) TableInfos(ctx context.Context, connectionID, database string) ([]models.TableInfo, error) {
	ctx, cancel := b.queryCtx(ctx)
	defer cancel()

	pool, err := b.manager.PoolFor(ctx, connectionID, database)
	if err != nil {
		return nil, err
	}
	return tableInfos(ctx, pool)
}
