// Package savedqueries persists named SQL snippets to a YAML file in the
// config directory.
package savedqueries

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/workgrid/workgrid-studio/internal/export"
	"github.com/workgrid/workgrid-studio/internal/models"
)

// Manager manages saved queries
type Manager struct {
	path    string
	queries []models.SavedQuery
}

// NewManager creates a new saved query manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "saved_queries.yaml")

	m := &Manager{
		path:    path,
		queries: []models.SavedQuery{},
	}

	// Load existing queries if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved queries: %w", err)
		}
	}

	return m, nil
}

// Load loads saved queries from YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved queries file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.queries); err != nil {
		return fmt.Errorf("failed to parse saved queries: %w", err)
	}

	return nil
}

// Save saves queries to YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.queries)
	if err != nil {
		return fmt.Errorf("failed to marshal saved queries: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved queries file: %w", err)
	}

	return nil
}

// Add adds a new saved query
func (m *Manager) Add(name, description, statement, profileID, database string, tags []string) (*models.SavedQuery, error) {
	name = strings.TrimSpace(name)
	statement = strings.TrimSpace(statement)

	if name == "" {
		return nil, fmt.Errorf("saved query name cannot be empty")
	}
	if statement == "" {
		return nil, fmt.Errorf("saved query statement cannot be empty")
	}

	// Names are unique, case-insensitive
	for _, q := range m.queries {
		if strings.EqualFold(q.Name, name) {
			return nil, fmt.Errorf("a saved query with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	query := models.SavedQuery{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Statement:   statement,
		Tags:        tags,
		ProfileID:   profileID,
		Database:    database,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		UsageCount:  0,
		LastUsed:    time.Time{},
	}

	m.queries = append(m.queries, query)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save query: %w", err)
	}

	return &query, nil
}

// Update updates an existing saved query
func (m *Manager) Update(id string, name, description, statement string, tags []string) error {
	name = strings.TrimSpace(name)
	statement = strings.TrimSpace(statement)

	if name == "" {
		return fmt.Errorf("saved query name cannot be empty")
	}
	if statement == "" {
		return fmt.Errorf("saved query statement cannot be empty")
	}

	for _, q := range m.queries {
		if q.ID != id && strings.EqualFold(q.Name, name) {
			return fmt.Errorf("a saved query with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	for i, q := range m.queries {
		if q.ID == id {
			m.queries[i].Name = name
			m.queries[i].Description = strings.TrimSpace(description)
			m.queries[i].Statement = statement
			m.queries[i].Tags = tags
			m.queries[i].UpdatedAt = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save query: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved query with ID '%s' was not found", id)
}

// Delete deletes a saved query by ID
func (m *Manager) Delete(id string) error {
	for i, q := range m.queries {
		if q.ID == id {
			m.queries = append(m.queries[:i], m.queries[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save queries after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved query with ID '%s' was not found", id)
}

// Get returns a saved query by ID
func (m *Manager) Get(id string) (*models.SavedQuery, error) {
	for _, q := range m.queries {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, fmt.Errorf("saved query with ID '%s' was not found", id)
}

// GetAll returns all saved queries
func (m *Manager) GetAll() []models.SavedQuery {
	return m.queries
}

// Search searches saved queries by name, description, or tags
func (m *Manager) Search(query string) []models.SavedQuery {
	if query == "" {
		return m.queries
	}

	query = strings.ToLower(query)
	var results []models.SavedQuery

	for _, q := range m.queries {
		if strings.Contains(strings.ToLower(q.Name), query) {
			results = append(results, q)
			continue
		}

		if strings.Contains(strings.ToLower(q.Description), query) {
			results = append(results, q)
			continue
		}

		for _, tag := range q.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, q)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a saved query
func (m *Manager) RecordUsage(id string) error {
	for i, q := range m.queries {
		if q.ID == id {
			m.queries[i].UsageCount++
			m.queries[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved query with ID '%s' was not found", id)
}

// GetMostUsed returns the most frequently used saved queries
func (m *Manager) GetMostUsed(limit int) []models.SavedQuery {
	sorted := make([]models.SavedQuery, len(m.queries))
	copy(sorted, m.queries)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// GetRecent returns the most recently used saved queries
func (m *Manager) GetRecent(limit int) []models.SavedQuery {
	sorted := make([]models.SavedQuery, len(m.queries))
	copy(sorted, m.queries)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// ExportToCSV exports all saved queries to a CSV file
func (m *Manager) ExportToCSV(customPath ...string) (string, error) {
	if len(m.queries) == 0 {
		return "", fmt.Errorf("no saved queries to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "saved_queries.csv")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.SavedQueriesToCSV(m.queries, path); err != nil {
		return "", fmt.Errorf("failed to export saved queries to CSV: %w", err)
	}

	return path, nil
}

// ExportToJSON exports all saved queries to a JSON file
func (m *Manager) ExportToJSON(customPath ...string) (string, error) {
	if len(m.queries) == 0 {
		return "", fmt.Errorf("no saved queries to export")
	}

	path := filepath.Join(filepath.Dir(m.path), "saved_queries.json")
	if len(customPath) > 0 && customPath[0] != "" {
		path = customPath[0]
	}

	if err := export.SavedQueriesToJSON(m.queries, path); err != nil {
		return "", fmt.Errorf("failed to export saved queries to JSON: %w", err)
	}

	return path, nil
}
