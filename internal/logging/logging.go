// Package logging provides the application logger and the per-profile query
// and error logs that the log viewer reads back.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/workgrid/workgrid-studio/internal/appdata"
)

const (
	queryLogFile = "query.log"
	errorLogFile = "error.log"
)

// NewAppLogger returns the process-wide logger writing to stderr.
func NewAppLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

// ProfileLogs writes the query and error logs of one connection profile.
// Every statement the app runs against the profile is appended to the query
// log; failures additionally land in the error log so the error view has the
// full timeline without parsing.
type ProfileLogs struct {
	mu        sync.Mutex
	profileID string
	query     zerolog.Logger
	errs      zerolog.Logger
	files     []*os.File
}

// OpenProfileLogs opens (appending) the log files for a profile under the
// app data dir.
func OpenProfileLogs(profileID string) (*ProfileLogs, error) {
	dir, err := appdata.LogDir(profileID)
	if err != nil {
		return nil, err
	}

	queryFile, err := openAppend(filepath.Join(dir, queryLogFile))
	if err != nil {
		return nil, err
	}
	errorFile, err := openAppend(filepath.Join(dir, errorLogFile))
	if err != nil {
		_ = queryFile.Close()
		return nil, err
	}

	mkLogger := func(f *os.File) zerolog.Logger {
		out := zerolog.ConsoleWriter{Out: f, NoColor: true, TimeFormat: time.DateTime}
		return zerolog.New(out).With().Timestamp().Logger()
	}

	return &ProfileLogs{
		profileID: profileID,
		query:     mkLogger(queryFile),
		errs:      mkLogger(errorFile),
		files:     []*os.File{queryFile, errorFile},
	}, nil
}

func openAppend(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Info records a lifecycle message (connect, disconnect) in the query log.
func (p *ProfileLogs) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Info().Msg(message)
}

// Query records an executed statement.
func (p *ProfileLogs) Query(statement string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Info().Str("query", statement).Msg("query")
}

// QueryResult records an executed statement together with its row count.
func (p *ProfileLogs) QueryResult(statement string, rows int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Info().Str("query", statement).Int("rows", rows).Msg("query")
}

// Error records a failure in both logs, keeping the query log a complete
// timeline.
func (p *ProfileLogs) Error(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs.Error().Msg(message)
	p.query.Error().Msg(message)
}

// Close closes the underlying log files.
func (p *ProfileLogs) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for _, f := range p.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.files = nil
	return firstErr
}

// LogKind selects which per-profile log a read or clear addresses.
type LogKind string

const (
	LogKindQuery LogKind = "query"
	LogKindError LogKind = "error"
	LogKindAll   LogKind = "all"
)

func fileForKind(kind LogKind) (string, error) {
	switch kind {
	case LogKindQuery:
		return queryLogFile, nil
	case LogKindError:
		return errorLogFile, nil
	default:
		return "", fmt.Errorf("unknown log kind %q", kind)
	}
}

// ReadProfileLog returns the raw contents of one profile log. A log that was
// never written reads as empty.
func ReadProfileLog(profileID string, kind LogKind) (string, error) {
	filename, err := fileForKind(kind)
	if err != nil {
		return "", err
	}
	dir, err := appdata.LogDir(profileID)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}
	return string(data), nil
}

// ClearProfileLog deletes one profile log, or both for LogKindAll.
func ClearProfileLog(profileID string, kind LogKind) error {
	dir, err := appdata.LogDir(profileID)
	if err != nil {
		return err
	}
	names := []string{}
	if kind == LogKindAll {
		names = append(names, queryLogFile, errorLogFile)
	} else {
		name, err := fileForKind(kind)
		if err != nil {
			return err
		}
		names = append(names, name)
	}
	for _, name := range names {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("delete error: %w", err)
		}
	}
	return nil
}
