package models

import (
	"time"
)

// ConnectionConfig represents a server connection profile
type ConnectionConfig struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	// MaxConns caps the pool size; zero means the application default.
	MaxConns int `yaml:"max_conns,omitempty"`
}

// Connection is a point-in-time snapshot of one managed connection, safe to
// hand across the view boundary: no pool handle, and the password is
// scrubbed from the config.
type Connection struct {
	ID          string
	Config      ConnectionConfig
	State       ConnectionState
	ConnectedAt time.Time
	LastPing    time.Time
	Error       string
}

// ConnectionState represents the current connection state
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Failed
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "disconnected"
	}
}

// ConnectionHistoryEntry represents a saved connection from history
type ConnectionHistoryEntry struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"` // User-friendly name (auto-generated or custom)
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	// Note: Password is NOT stored for security reasons
	SSLMode    string    `yaml:"ssl_mode"`
	LastUsed   time.Time `yaml:"last_used"`
	UsageCount int       `yaml:"usage_count"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// ToConnectionConfig converts a history entry to a ConnectionConfig (without password)
func (e *ConnectionHistoryEntry) ToConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		Name:     e.Name,
		Host:     e.Host,
		Port:     e.Port,
		Database: e.Database,
		User:     e.User,
		Password: "", // Password not stored in history
		SSLMode:  e.SSLMode,
	}
}
