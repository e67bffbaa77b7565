// Package schemacache caches the database → table → column listings shown in
// the schema tree. Each level is populated lazily when the user expands a
// row, tracks its own loading and error state per key, and is evicted as a
// whole when the owning connection goes away.
package schemacache

import (
	"strings"
	"sync"

	"github.com/workgrid/workgrid-studio/internal/models"
)

const keySep = "::"

// TablesKey is the cache key for the table listing of one database.
func TablesKey(connectionID, database string) string {
	return connectionID + keySep + database
}

// ColumnsKey is the cache key for the column listing of one table.
func ColumnsKey(connectionID, database, table string) string {
	return connectionID + keySep + database + keySep + table
}

// Cache holds schema listings for every open connection. Reads and writes
// are point operations guarded by one lock, so a cascade eviction is atomic
// to observers: no read ever sees a connection half removed.
type Cache struct {
	mu sync.RWMutex

	connections map[string]bool
	databases   map[string][]string
	tables      map[string][]string
	columns     map[string][]models.ColumnInfo
	loading     map[string]bool
	errors      map[string]string
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		connections: make(map[string]bool),
		databases:   make(map[string][]string),
		tables:      make(map[string][]string),
		columns:     make(map[string][]models.ColumnInfo),
		loading:     make(map[string]bool),
		errors:      make(map[string]string),
	}
}

// AddConnection registers a connection so late fetch results can tell
// whether their owner is still present.
func (c *Cache) AddConnection(connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connections[connectionID] = true
}

// HasConnection reports whether the connection is still registered.
func (c *Cache) HasConnection(connectionID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connections[connectionID]
}

// RemoveConnection evicts the connection and every cache entry scoped under
// it (databases, tables, columns, loading flags and errors) in one locked
// step.
func (c *Cache) RemoveConnection(connectionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.connections, connectionID)
	prefix := connectionID + keySep

	evict := func(key string) bool {
		return key == connectionID || strings.HasPrefix(key, prefix)
	}
	for key := range c.databases {
		if evict(key) {
			delete(c.databases, key)
		}
	}
	for key := range c.tables {
		if evict(key) {
			delete(c.tables, key)
		}
	}
	for key := range c.columns {
		if evict(key) {
			delete(c.columns, key)
		}
	}
	for key := range c.loading {
		if evict(key) {
			delete(c.loading, key)
		}
	}
	for key := range c.errors {
		if evict(key) {
			delete(c.errors, key)
		}
	}
}

// BeginLoad atomically checks and sets the loading flag for a key. It
// returns false when a fetch for that key is already in flight, in which
// case the caller must not issue another.
func (c *Cache) BeginLoad(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loading[key] {
		return false
	}
	c.loading[key] = true
	return true
}

// EndLoad clears the loading flag for a key.
func (c *Cache) EndLoad(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.loading, key)
}

// Loading reports whether a fetch for the key is in flight.
func (c *Cache) Loading(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading[key]
}

// SetDatabases stores the database listing for a connection. The write is
// dropped when the connection was removed while the fetch was in flight.
func (c *Cache) SetDatabases(connectionID string, databases []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections[connectionID] {
		return
	}
	c.databases[connectionID] = databases
	delete(c.errors, connectionID)
}

// SetTables stores the table listing for one database.
func (c *Cache) SetTables(connectionID, database string, tables []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections[connectionID] {
		return
	}
	key := TablesKey(connectionID, database)
	c.tables[key] = tables
	delete(c.errors, key)
}

// SetColumns stores the column listing for one table.
func (c *Cache) SetColumns(connectionID, database, table string, columns []models.ColumnInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections[connectionID] {
		return
	}
	key := ColumnsKey(connectionID, database, table)
	c.columns[key] = columns
	delete(c.errors, key)
}

// SetError records a fetch failure verbatim at the key. The message stays
// until ClearError, a successful re-fetch, or cascade eviction.
func (c *Cache) SetError(connectionID, key, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connections[connectionID] {
		return
	}
	c.errors[key] = message
}

// ClearError removes the error recorded at the key, typically right before
// a retry.
func (c *Cache) ClearError(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.errors, key)
}

// Error returns the error recorded at the key, if any.
func (c *Cache) Error(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msg, ok := c.errors[key]
	return msg, ok
}

// Databases returns the cached database listing for a connection.
func (c *Cache) Databases(connectionID string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	dbs, ok := c.databases[connectionID]
	return dbs, ok
}

// Tables returns the cached table listing for one database.
func (c *Cache) Tables(connectionID, database string) ([]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tables, ok := c.tables[TablesKey(connectionID, database)]
	return tables, ok
}

// Columns returns the cached column listing for one table.
func (c *Cache) Columns(connectionID, database, table string) ([]models.ColumnInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cols, ok := c.columns[ColumnsKey(connectionID, database, table)]
	return cols, ok
}

// EntryState is the render-time view of one cache key.
type EntryState struct {
	Loaded  bool
	Loading bool
	Error   string
}

// State returns the combined loading/error/loaded view of a key, for the
// tree rows to render spinners and error badges from.
func (c *Cache) State(key string) EntryState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, loadedDB := c.databases[key]
	_, loadedTables := c.tables[key]
	_, loadedCols := c.columns[key]
	return EntryState{
		Loaded:  loadedDB || loadedTables || loadedCols,
		Loading: c.loading[key],
		Error:   c.errors[key],
	}
}
