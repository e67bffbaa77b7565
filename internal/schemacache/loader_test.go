package schemacache

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// stubBackend counts fetches and can be made to block or fail per call.
type stubBackend struct {
	dbCalls   atomic.Int64
	tblCalls  atomic.Int64
	colCalls  atomic.Int64
	fail      error
	block     chan struct{} // when set, ListTables waits until closed
	databases []string
}

func (s *stubBackend) ListDatabases(_ context.Context, _ string) ([]string, error) {
	s.dbCalls.Add(1)
	if s.fail != nil {
		return nil, s.fail
	}
	return s.databases, nil
}

func (s *stubBackend) ListTables(_ context.Context, _, _ string) ([]string, error) {
	s.tblCalls.Add(1)
	if s.block != nil {
		<-s.block
	}
	if s.fail != nil {
		return nil, s.fail
	}
	return []string{"users"}, nil
}

func (s *stubBackend) ListColumns(_ context.Context, _, _, _ string) ([]models.ColumnInfo, error) {
	s.colCalls.Add(1)
	if s.fail != nil {
		return nil, s.fail
	}
	return []models.ColumnInfo{{Name: "id", DataType: "bigint"}}, nil
}

func TestLoaderPopulatesCache(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	backend := &stubBackend{databases: []string{"shop"}}
	loader := NewLoader(cache, backend)

	if !loader.LoadDatabases(context.Background(), "c1") {
		t.Fatal("first load should run")
	}
	if dbs, ok := cache.Databases("c1"); !ok || dbs[0] != "shop" {
		t.Error("databases should be cached after load")
	}
	loader.LoadTables(context.Background(), "c1", "shop")
	loader.LoadColumns(context.Background(), "c1", "shop", "users")
	if _, ok := cache.Tables("c1", "shop"); !ok {
		t.Error("tables should be cached after load")
	}
	if _, ok := cache.Columns("c1", "shop", "users"); !ok {
		t.Error("columns should be cached after load")
	}
	if cache.Loading("c1") {
		t.Error("loading flag should be cleared when the fetch completes")
	}
}

func TestLoaderRefusesDuplicateInFlightFetch(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	backend := &stubBackend{block: make(chan struct{})}
	loader := NewLoader(cache, backend)

	done := make(chan struct{})
	go func() {
		loader.LoadTables(context.Background(), "c1", "shop")
		close(done)
	}()

	// Wait for the first fetch to be in flight.
	for !cache.Loading(TablesKey("c1", "shop")) {
		runtime.Gosched()
	}

	if loader.LoadTables(context.Background(), "c1", "shop") {
		t.Error("second load while in flight should be refused")
	}
	if got := backend.tblCalls.Load(); got != 1 {
		t.Errorf("backend fetches = %d, want 1", got)
	}

	close(backend.block)
	<-done
}

func TestLoaderRecordsErrorVerbatim(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	backend := &stubBackend{fail: errors.New("connection refused")}
	loader := NewLoader(cache, backend)

	loader.LoadTables(context.Background(), "c1", "shop")
	msg, ok := cache.Error(TablesKey("c1", "shop"))
	if !ok || msg != "connection refused" {
		t.Errorf("error = %q, want verbatim backend message", msg)
	}
	if cache.Loading(TablesKey("c1", "shop")) {
		t.Error("loading flag should clear after a failed fetch")
	}
}

func TestLoaderRetryAfterError(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	backend := &stubBackend{fail: errors.New("boom")}
	loader := NewLoader(cache, backend)

	loader.LoadDatabases(context.Background(), "c1")
	if _, ok := cache.Error("c1"); !ok {
		t.Fatal("error should be recorded")
	}

	backend.fail = nil
	backend.databases = []string{"shop"}
	loader.RetryDatabases(context.Background(), "c1")

	if _, ok := cache.Error("c1"); ok {
		t.Error("retry should clear the error")
	}
	if dbs, ok := cache.Databases("c1"); !ok || len(dbs) != 1 {
		t.Error("retry should populate the key")
	}
	if got := backend.dbCalls.Load(); got != 2 {
		t.Errorf("backend fetches = %d, want 2", got)
	}
}

func TestLoaderDiscardsResultForRemovedConnection(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	backend := &stubBackend{block: make(chan struct{})}
	loader := NewLoader(cache, backend)

	done := make(chan struct{})
	go func() {
		loader.LoadTables(context.Background(), "c1", "shop")
		close(done)
	}()
	for !cache.Loading(TablesKey("c1", "shop")) {
		runtime.Gosched()
	}

	// Disconnect while the fetch is in flight, then let it finish.
	cache.RemoveConnection("c1")
	close(backend.block)
	<-done

	if _, ok := cache.Tables("c1", "shop"); ok {
		t.Error("late result for a removed connection must not reappear in the cache")
	}
}

func TestWarmConnections(t *testing.T) {
	cache := New()
	cache.AddConnection("c1")
	cache.AddConnection("c2")
	backend := &stubBackend{databases: []string{"shop"}}
	loader := NewLoader(cache, backend)

	if err := loader.WarmConnections(context.Background(), []string{"c1", "c2"}); err != nil {
		t.Fatalf("WarmConnections: %v", err)
	}
	if _, ok := cache.Databases("c1"); !ok {
		t.Error("c1 should be warmed")
	}
	if _, ok := cache.Databases("c2"); !ok {
		t.Error("c2 should be warmed")
	}
	if got := backend.dbCalls.Load(); got != 2 {
		t.Errorf("backend fetches = %d, want 2", got)
	}
}
