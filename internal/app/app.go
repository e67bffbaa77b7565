// Package app wires the workbench, connection manager, schema cache and the
// persistence layers into one running application.
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/workgrid/workgrid-studio/internal/appdata"
	"github.com/workgrid/workgrid-studio/internal/config"
	"github.com/workgrid/workgrid-studio/internal/db/connection"
	"github.com/workgrid/workgrid-studio/internal/db/metadata"
	"github.com/workgrid/workgrid-studio/internal/history"
	"github.com/workgrid/workgrid-studio/internal/logging"
	"github.com/workgrid/workgrid-studio/internal/models"
	"github.com/workgrid/workgrid-studio/internal/profiles"
	"github.com/workgrid/workgrid-studio/internal/savedqueries"
	"github.com/workgrid/workgrid-studio/internal/schemacache"
	"github.com/workgrid/workgrid-studio/internal/workbench"
)

const lastConnectionFile = "last_connection"

// App owns the long-lived state of a running instance: the workbench pane
// tree, the live connections, the schema cache fed by connection lifecycle
// events, and the stores backing profiles and query history.
type App struct {
	cfg    *config.Config
	logger zerolog.Logger

	logsMu      sync.Mutex
	profileLogs map[string]*logging.ProfileLogs

	Workbench    *workbench.Store
	Connections  *connection.Manager
	SchemaCache  *schemacache.Cache
	SchemaLoad   *schemacache.Loader
	Profiles     *profiles.Manager
	SavedQueries *savedqueries.Manager
	History      *history.Store
}

// New builds the application container. It ensures the app data directory
// exists, opens the history database and loads saved profiles.
func New(cfg *config.Config) (*App, error) {
	logger := logging.NewAppLogger(cfg.General.Debug)

	dataDir, err := appdata.Ensure()
	if err != nil {
		return nil, fmt.Errorf("failed to prepare app data dir: %w", err)
	}

	configDir, err := config.GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}

	profileMgr, err := profiles.NewManager(configDir)
	if err != nil {
		return nil, err
	}

	savedMgr, err := savedqueries.NewManager(configDir)
	if err != nil {
		return nil, err
	}

	var historyStore *history.Store
	if cfg.History.Enabled {
		historyStore, err = history.NewStore(filepath.Join(dataDir, "data", "history.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open history store: %w", err)
		}
	}

	manager := connection.NewManager()
	cache := schemacache.New()
	timeout := time.Duration(cfg.Performance.MetadataTimeout) * time.Millisecond
	loader := schemacache.NewLoader(cache, metadata.NewBackend(manager, timeout))

	// Connection lifecycle drives cache membership: connect registers the
	// connection, disconnect cascade-evicts everything cached under it.
	manager.AddListener(&cacheBridge{cache: cache, logger: logger})

	if historyStore != nil && cfg.History.MaxEntries > 0 {
		if err := historyStore.Prune(cfg.History.MaxEntries); err != nil {
			logger.Warn().Err(err).Msg("failed to prune query history")
		}
	}

	return &App{
		cfg:          cfg,
		logger:       logger,
		profileLogs:  make(map[string]*logging.ProfileLogs),
		Workbench:    workbench.NewStore(),
		Connections:  manager,
		SchemaCache:  cache,
		SchemaLoad:   loader,
		Profiles:     profileMgr,
		SavedQueries: savedMgr,
		History:      historyStore,
	}, nil
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Connect establishes a connection, records the usage in the profile store
// and warms the schema cache with the database list.
func (a *App) Connect(ctx context.Context, cfg models.ConnectionConfig) (string, error) {
	if cfg.MaxConns == 0 {
		cfg.MaxConns = a.cfg.Performance.ConnectionPoolSize
	}
	id, err := a.Connections.Connect(ctx, cfg)
	if err != nil {
		a.logger.Error().Err(err).Str("host", cfg.Host).Msg("connect failed")
		return "", err
	}
	a.logger.Info().Str("connection", id).Msg("connected")

	if err := a.Profiles.Add(cfg); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record profile")
	}

	if logs, err := logging.OpenProfileLogs(profileLogID(id)); err != nil {
		a.logger.Warn().Err(err).Str("connection", id).Msg("failed to open profile logs")
	} else {
		logs.Info("connected")
		a.logsMu.Lock()
		a.profileLogs[id] = logs
		a.logsMu.Unlock()
	}

	if err := appdata.WriteDataFile(lastConnectionFile, id); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record last connection")
	}

	a.SchemaLoad.LoadDatabases(ctx, id)
	return id, nil
}

// LastConnectionID returns the ID of the most recently established
// connection, persisted across restarts for auto-connect.
func (a *App) LastConnectionID() (string, error) {
	id, err := appdata.ReadDataFile(lastConnectionFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(id), nil
}

// AutoConnect re-establishes the previous session's connection when
// general.auto_connect_last is set. Failures are logged, not fatal: the
// user can still connect by hand.
func (a *App) AutoConnect(ctx context.Context) {
	if !a.cfg.General.AutoConnectLast {
		return
	}
	last, err := a.LastConnectionID()
	if err != nil || last == "" {
		return
	}

	entries := a.Profiles.GetAll()
	for i := range entries {
		if !profileMatchesConnectionID(&entries[i], last) {
			continue
		}
		cfg := a.Profiles.GetConnectionConfigWithPassword(&entries[i])
		if _, err := a.Connect(ctx, cfg); err != nil {
			a.logger.Warn().Err(err).Str("connection", last).Msg("auto-connect failed")
		}
		return
	}
	a.logger.Debug().Str("connection", last).Msg("no profile matches last connection")
}

// profileMatchesConnectionID reports whether connecting from the entry
// would produce the given connection id. Named profiles connect under
// their name, unnamed ones under user@host:port/database.
func profileMatchesConnectionID(entry *models.ConnectionHistoryEntry, id string) bool {
	if entry.Name != "" && entry.Name == id {
		return true
	}
	derived := fmt.Sprintf("%s@%s:%d/%s", entry.User, entry.Host, entry.Port, entry.Database)
	return derived == id
}

// RecordQuery appends an executed statement to the query history and the
// profile's log files. Failed statements are kept out of the history when
// history.save_failed_queries is off; the logs always get them.
func (a *App) RecordQuery(entry history.Entry) {
	if logs, ok := a.ProfileLogs(entry.ProfileID); ok {
		if entry.Success {
			logs.QueryResult(entry.Query, int(entry.RowsAffected))
		} else {
			logs.Error(entry.ErrorMessage)
		}
	}

	if a.History == nil {
		return
	}
	if !entry.Success && !a.cfg.History.SaveFailedQueries {
		return
	}
	if err := a.History.Add(entry); err != nil {
		a.logger.Warn().Err(err).Msg("failed to record query history")
	}
}

// ProfileLogs returns the open query/error logs for a live connection.
func (a *App) ProfileLogs(id string) (*logging.ProfileLogs, bool) {
	a.logsMu.Lock()
	defer a.logsMu.Unlock()
	logs, ok := a.profileLogs[id]
	return logs, ok
}

// Disconnect tears down a connection. The lifecycle listener evicts its
// cache entries.
func (a *App) Disconnect(id string) error {
	if err := a.Connections.Disconnect(id); err != nil {
		return err
	}

	a.logsMu.Lock()
	logs := a.profileLogs[id]
	delete(a.profileLogs, id)
	a.logsMu.Unlock()
	if logs != nil {
		logs.Info("disconnected")
		_ = logs.Close()
	}

	a.logger.Info().Str("connection", id).Msg("disconnected")
	return nil
}

// Run blocks until the context is cancelled, then releases all resources.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info().Msg("workgrid-studio started")
	a.AutoConnect(ctx)
	<-ctx.Done()
	return a.Close()
}

// Close releases connections, profile logs and the history store.
func (a *App) Close() error {
	a.Connections.Close()

	a.logsMu.Lock()
	for id, logs := range a.profileLogs {
		_ = logs.Close()
		delete(a.profileLogs, id)
	}
	a.logsMu.Unlock()

	if a.History != nil {
		if err := a.History.Close(); err != nil {
			return err
		}
	}
	a.logger.Info().Msg("workgrid-studio stopped")
	return nil
}

// DefaultSplitDirection maps the workbench.default_split setting to a
// split direction. Anything but "horizontal" means vertical.
func (a *App) DefaultSplitDirection() models.SplitDirection {
	if a.cfg.Workbench.DefaultSplit == string(models.SplitHorizontal) {
		return models.SplitHorizontal
	}
	return models.SplitVertical
}

// profileLogID flattens a connection ID into a directory-safe name.
func profileLogID(id string) string {
	r := strings.NewReplacer("/", "_", ":", "_", "@", "_")
	return r.Replace(id)
}

// cacheBridge forwards connection lifecycle events to the schema cache.
type cacheBridge struct {
	cache  *schemacache.Cache
	logger zerolog.Logger
}

func (b *cacheBridge) Connected(connectionID string) {
	b.cache.AddConnection(connectionID)
	b.logger.Debug().Str("connection", connectionID).Msg("schema cache tracking connection")
}

func (b *cacheBridge) Disconnected(connectionID string) {
	b.cache.RemoveConnection(connectionID)
	b.logger.Debug().Str("connection", connectionID).Msg("schema cache evicted connection")
}
