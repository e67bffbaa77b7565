package connection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// LifecycleListener is notified after a connection is established or torn
// down. The schema cache hangs off these events: connected adds the
// connection, disconnected cascade-evicts everything under it.
type LifecycleListener interface {
	Connected(connectionID string)
	Disconnected(connectionID string)
}

// Manager manages multiple database connections
type Manager struct {
	connections map[string]*Connection
	dbPools     map[string]*Pool // per-database pools, keyed id + "::" + database
	listeners   []LifecycleListener
	mu          sync.RWMutex
}

// Connection wraps a pool with metadata
type Connection struct {
	ID          string
	Config      models.ConnectionConfig
	Pool        *Pool
	Connected   bool
	ConnectedAt time.Time
	LastPing    time.Time
	Error       error
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		connections: make(map[string]*Connection),
		dbPools:     make(map[string]*Pool),
	}
}

// AddListener registers a lifecycle listener. Listeners run synchronously
// after the manager's own state change, outside the lock.
func (m *Manager) AddListener(l LifecycleListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Connect establishes a new connection
func (m *Manager) Connect(ctx context.Context, config models.ConnectionConfig) (string, error) {
	id := generateConnectionID(config)

	pool, err := NewPool(ctx, config)

	m.mu.Lock()
	if err != nil {
		m.connections[id] = &Connection{
			ID:        id,
			Config:    config,
			Connected: false,
			Error:     err,
		}
		m.mu.Unlock()
		return id, err
	}

	// Reconnecting under the same id replaces the old pool.
	if old, ok := m.connections[id]; ok && old.Pool != nil {
		old.Pool.Close()
	}
	m.connections[id] = &Connection{
		ID:          id,
		Config:      config,
		Pool:        pool,
		Connected:   true,
		ConnectedAt: time.Now(),
		LastPing:    time.Now(),
	}
	listeners := append([]LifecycleListener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l.Connected(id)
	}
	return id, nil
}

// Disconnect closes a connection and every per-database pool derived from it
func (m *Manager) Disconnect(id string) error {
	m.mu.Lock()
	conn, ok := m.connections[id]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("connection %s not found", id)
	}

	if conn.Pool != nil {
		conn.Pool.Close()
	}
	delete(m.connections, id)

	prefix := id + "::"
	for key, pool := range m.dbPools {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			pool.Close()
			delete(m.dbPools, key)
		}
	}
	listeners := append([]LifecycleListener(nil), m.listeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		l.Disconnected(id)
	}
	return nil
}

// Get returns a connection by id
func (m *Manager) Get(id string) (*Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conn, ok := m.connections[id]
	if !ok {
		return nil, fmt.Errorf("connection %s not found", id)
	}
	return conn, nil
}

// GetAll returns all connections
func (m *Manager) GetAll() []*Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conns := make([]*Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		conns = append(conns, conn)
	}
	return conns
}

// Describe returns a display snapshot of one connection.
func (m *Manager) Describe(id string) (models.Connection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	conn, ok := m.connections[id]
	if !ok {
		return models.Connection{}, fmt.Errorf("connection %s not found", id)
	}
	return snapshotOf(conn), nil
}

// Snapshots returns display snapshots of every connection, for the
// connection list.
func (m *Manager) Snapshots() []models.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]models.Connection, 0, len(m.connections))
	for _, conn := range m.connections {
		snaps = append(snaps, snapshotOf(conn))
	}
	return snaps
}

// snapshotOf converts the live record to its view form. The pool stays
// behind and the password never crosses the boundary.
func snapshotOf(c *Connection) models.Connection {
	cfg := c.Config
	cfg.Password = ""

	state := models.Disconnected
	switch {
	case c.Error != nil:
		state = models.Failed
	case c.Connected:
		state = models.Connected
	}

	snap := models.Connection{
		ID:          c.ID,
		Config:      cfg,
		State:       state,
		ConnectedAt: c.ConnectedAt,
		LastPing:    c.LastPing,
	}
	if c.Error != nil {
		snap.Error = c.Error.Error()
	}
	return snap
}

// PoolFor returns a pool bound to one database of the connection, creating
// it on first use. Listing tables or columns of a database other than the
// profile's default needs a pool whose session is attached to that database.
func (m *Manager) PoolFor(ctx context.Context, id, database string) (*Pool, error) {
	m.mu.RLock()
	conn, ok := m.connections[id]
	if ok && database == "" || ok && database == conn.Config.Database {
		m.mu.RUnlock()
		if conn.Pool == nil {
			return nil, fmt.Errorf("not connected. Please connect first")
		}
		return conn.Pool, nil
	}
	key := id + "::" + database
	if pool, cached := m.dbPools[key]; cached {
		m.mu.RUnlock()
		return pool, nil
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("connection %s not found", id)
	}

	dbConfig := conn.Config
	dbConfig.Database = database
	pool, err := NewPool(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, stillThere := m.connections[id]; !stillThere {
		pool.Close()
		return nil, fmt.Errorf("connection %s not found", id)
	}
	if existing, raced := m.dbPools[key]; raced {
		pool.Close()
		return existing, nil
	}
	m.dbPools[key] = pool
	return pool, nil
}

// Ping tests a connection and records the outcome
func (m *Manager) Ping(ctx context.Context, id string) error {
	conn, err := m.Get(id)
	if err != nil {
		return err
	}
	if conn.Pool == nil {
		return fmt.Errorf("connection pool not initialized")
	}

	if err := conn.Pool.Ping(ctx); err != nil {
		m.mu.Lock()
		conn.Error = err
		conn.Connected = false
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	conn.LastPing = time.Now()
	conn.Connected = true
	conn.Error = nil
	m.mu.Unlock()
	return nil
}

// Close disconnects everything, for shutdown
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, conn := range m.connections {
		if conn.Pool != nil {
			conn.Pool.Close()
		}
		delete(m.connections, id)
	}
	for key, pool := range m.dbPools {
		pool.Close()
		delete(m.dbPools, key)
	}
}

// generateConnectionID creates a unique connection ID
func generateConnectionID(config models.ConnectionConfig) string {
	if config.Name != "" {
		return config.Name
	}
	return fmt.Sprintf("%s@%s:%d/%s", config.User, config.Host, config.Port, config.Database)
}
