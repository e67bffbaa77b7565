package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// Manager manages saved connection profiles
type Manager struct {
	path          string
	profiles      []models.ConnectionHistoryEntry
	passwordStore *PasswordStore
}

// NewManager creates a new profile manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "profiles.yaml")

	store, err := NewPasswordStore(configDir)
	if err != nil {
		// Password storage is optional; profiles still work without it
		store = nil
	}

	m := &Manager{
		path:          path,
		profiles:      []models.ConnectionHistoryEntry{},
		passwordStore: store,
	}

	// Load existing profiles if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load profiles: %w", err)
		}
	}

	return m, nil
}

// Load loads profiles from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read profiles file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.profiles); err != nil {
		return fmt.Errorf("failed to parse profiles: %w", err)
	}

	return nil
}

// Save saves profiles to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profiles: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0600); err != nil { // 0600 for security (connection info)
		return fmt.Errorf("failed to write profiles file: %w", err)
	}

	return nil
}

// Add adds or updates a profile
func (m *Manager) Add(config models.ConnectionConfig) error {
	// Save password to secure keyring (if provided)
	if config.Password != "" && m.passwordStore != nil {
		if err := m.passwordStore.Save(config.Host, config.Port, config.Database, config.User, config.Password); err != nil {
			// Log error but don't fail - password storage is optional
			fmt.Printf("Warning: Failed to save password to keyring: %v\n", err)
		}
	}

	// Check if this profile already exists (match by host, port, database, user)
	for i, entry := range m.profiles {
		if entry.Host == config.Host &&
			entry.Port == config.Port &&
			entry.Database == config.Database &&
			entry.User == config.User {
			// Update existing entry
			m.profiles[i].LastUsed = time.Now()
			m.profiles[i].UsageCount++
			m.profiles[i].SSLMode = config.SSLMode
			// Update name if config has one
			if config.Name != "" {
				m.profiles[i].Name = config.Name
			}
			return m.Save()
		}
	}

	// Create new entry
	name := config.Name
	if name == "" {
		name = fmt.Sprintf("%s@%s:%d/%s", config.User, config.Host, config.Port, config.Database)
	}

	entry := models.ConnectionHistoryEntry{
		ID:         uuid.New().String(),
		Name:       name,
		Host:       config.Host,
		Port:       config.Port,
		Database:   config.Database,
		User:       config.User,
		SSLMode:    config.SSLMode,
		LastUsed:   time.Now(),
		UsageCount: 1,
		CreatedAt:  time.Now(),
	}

	m.profiles = append(m.profiles, entry)

	return m.Save()
}

// GetAll returns all profiles
func (m *Manager) GetAll() []models.ConnectionHistoryEntry {
	return m.profiles
}

// GetRecent returns the most recently used profiles
func (m *Manager) GetRecent(limit int) []models.ConnectionHistoryEntry {
	sorted := make([]models.ConnectionHistoryEntry, len(m.profiles))
	copy(sorted, m.profiles)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetMostUsed returns the most frequently used profiles
func (m *Manager) GetMostUsed(limit int) []models.ConnectionHistoryEntry {
	sorted := make([]models.ConnectionHistoryEntry, len(m.profiles))
	copy(sorted, m.profiles)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// Get returns a profile by ID
func (m *Manager) Get(id string) (*models.ConnectionHistoryEntry, bool) {
	for i := range m.profiles {
		if m.profiles[i].ID == id {
			return &m.profiles[i], true
		}
	}
	return nil, false
}

// Delete removes a profile by ID
func (m *Manager) Delete(id string) error {
	for i, entry := range m.profiles {
		if entry.ID == id {
			// Also delete password from keyring
			if m.passwordStore != nil {
				_ = m.passwordStore.Delete(entry.Host, entry.Port, entry.Database, entry.User)
			}
			m.profiles = append(m.profiles[:i], m.profiles[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("profile with ID '%s' not found", id)
}

// GetConnectionConfigWithPassword returns a ConnectionConfig with password retrieved from keyring
func (m *Manager) GetConnectionConfigWithPassword(entry *models.ConnectionHistoryEntry) models.ConnectionConfig {
	config := entry.ToConnectionConfig()

	// Try to get password from keyring
	if m.passwordStore != nil {
		password, err := m.passwordStore.Get(entry.Host, entry.Port, entry.Database, entry.User)
		if err == nil {
			config.Password = password
		}
	}

	return config
}
