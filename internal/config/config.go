package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	General     GeneralConfig     `mapstructure:"general"`
	Workbench   WorkbenchConfig   `mapstructure:"workbench"`
	History     HistoryConfig     `mapstructure:"history"`
	Performance PerformanceConfig `mapstructure:"performance"`
}

// GeneralConfig holds app-wide behavior. ConfirmDestructiveOps and
// DefaultLimit are enforced by the view layer when it builds statements.
type GeneralConfig struct {
	Debug                 bool `mapstructure:"debug"`
	AutoConnectLast       bool `mapstructure:"auto_connect_last"`
	ConfirmDestructiveOps bool `mapstructure:"confirm_destructive_ops"`
	DefaultLimit          int  `mapstructure:"default_limit"`
}

// WorkbenchConfig holds layout and tab behavior. MaxTabsPerPane and the
// confirm knob are enforced by the view layer; DefaultSplit feeds
// App.DefaultSplitDirection.
type WorkbenchConfig struct {
	MaxTabsPerPane       int    `mapstructure:"max_tabs_per_pane"`
	ConfirmCloseDirtyTab bool   `mapstructure:"confirm_close_dirty_tab"`
	DefaultSplit         string `mapstructure:"default_split"`
}

type HistoryConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	MaxEntries        int  `mapstructure:"max_entries"`
	SaveFailedQueries bool `mapstructure:"save_failed_queries"`
}

// PerformanceConfig holds timeouts and pool sizing, in milliseconds.
// QueryTimeout bounds user statements and is applied by their executor.
type PerformanceConfig struct {
	ConnectionPoolSize int `mapstructure:"connection_pool_size"`
	QueryTimeout       int `mapstructure:"query_timeout"`
	MetadataTimeout    int `mapstructure:"metadata_timeout"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		General: GeneralConfig{
			Debug:                 false,
			AutoConnectLast:       false,
			ConfirmDestructiveOps: true,
			DefaultLimit:          100,
		},
		Workbench: WorkbenchConfig{
			MaxTabsPerPane:       20,
			ConfirmCloseDirtyTab: true,
			DefaultSplit:         "vertical",
		},
		History: HistoryConfig{
			Enabled:           true,
			MaxEntries:        1000,
			SaveFailedQueries: true,
		},
		Performance: PerformanceConfig{
			ConnectionPoolSize: 5,
			QueryTimeout:       30000,
			MetadataTimeout:    10000,
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths in priority order
	// 1. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "workgrid-studio"))
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	v.SetDefault("general.debug", false)
	v.SetDefault("general.auto_connect_last", false)
	v.SetDefault("general.confirm_destructive_ops", true)
	v.SetDefault("general.default_limit", 100)
	v.SetDefault("workbench.max_tabs_per_pane", 20)
	v.SetDefault("workbench.confirm_close_dirty_tab", true)
	v.SetDefault("workbench.default_split", "vertical")
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.save_failed_queries", true)
	v.SetDefault("performance.connection_pool_size", 5)
	v.SetDefault("performance.query_timeout", 30000)
	v.SetDefault("performance.metadata_timeout", 10000)

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "workgrid-studio"), nil
}
