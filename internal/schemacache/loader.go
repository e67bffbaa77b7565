package schemacache

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// Backend lists schema objects for a connection. Implementations talk to the
// server; errors come back as plain messages that the cache stores verbatim.
type Backend interface {
	ListDatabases(ctx context.Context, connectionID string) ([]string, error)
	ListTables(ctx context.Context, connectionID, database string) ([]string, error)
	ListColumns(ctx context.Context, connectionID, database, table string) ([]models.ColumnInfo, error)
}

// Loader populates the cache from a Backend on demand. Each Load method is
// meant to run on its own goroutine when a tree row expands; the cache's
// loading flags guarantee at most one fetch per key is in flight, and
// results arriving after their connection was removed are dropped by the
// cache writers.
type Loader struct {
	cache   *Cache
	backend Backend
}

// NewLoader creates a loader writing into cache.
func NewLoader(cache *Cache, backend Backend) *Loader {
	return &Loader{cache: cache, backend: backend}
}

// LoadDatabases fetches the database listing for a connection. Returns false
// without fetching when a load for that key is already in flight.
func (l *Loader) LoadDatabases(ctx context.Context, connectionID string) bool {
	if !l.cache.BeginLoad(connectionID) {
		return false
	}
	defer l.cache.EndLoad(connectionID)

	databases, err := l.backend.ListDatabases(ctx, connectionID)
	if err != nil {
		l.cache.SetError(connectionID, connectionID, err.Error())
		return true
	}
	l.cache.SetDatabases(connectionID, databases)
	return true
}

// LoadTables fetches the table listing for one database.
func (l *Loader) LoadTables(ctx context.Context, connectionID, database string) bool {
	key := TablesKey(connectionID, database)
	if !l.cache.BeginLoad(key) {
		return false
	}
	defer l.cache.EndLoad(key)

	tables, err := l.backend.ListTables(ctx, connectionID, database)
	if err != nil {
		l.cache.SetError(connectionID, key, err.Error())
		return true
	}
	l.cache.SetTables(connectionID, database, tables)
	return true
}

// LoadColumns fetches the column listing for one table.
func (l *Loader) LoadColumns(ctx context.Context, connectionID, database, table string) bool {
	key := ColumnsKey(connectionID, database, table)
	if !l.cache.BeginLoad(key) {
		return false
	}
	defer l.cache.EndLoad(key)

	columns, err := l.backend.ListColumns(ctx, connectionID, database, table)
	if err != nil {
		l.cache.SetError(connectionID, key, err.Error())
		return true
	}
	l.cache.SetColumns(connectionID, database, table, columns)
	return true
}

// Retry clears the error recorded at a key and re-issues the fetch for it.
func (l *Loader) RetryDatabases(ctx context.Context, connectionID string) bool {
	l.cache.ClearError(connectionID)
	return l.LoadDatabases(ctx, connectionID)
}

// WarmConnections loads the database level for several connections
// concurrently, typically right after the app reconnects saved profiles.
// Fetch failures land in the cache per key; only context cancellation is
// returned.
func (l *Loader) WarmConnections(ctx context.Context, connectionIDs []string) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, id := range connectionIDs {
		id := id
		g.Go(func() error {
			l.LoadDatabases(ctx, id)
			return ctx.Err()
		})
	}
	return g.Wait()
}
