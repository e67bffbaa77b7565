package models

import "time"

// SavedQuery is a named SQL snippet the user keeps for reuse
type SavedQuery struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Statement   string    `yaml:"statement"`
	Tags        []string  `yaml:"tags,omitempty"`
	ProfileID   string    `yaml:"profile_id,omitempty"`
	Database    string    `yaml:"database,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
	LastUsed    time.Time `yaml:"last_used,omitempty"`
	UsageCount  int       `yaml:"usage_count"`
}
