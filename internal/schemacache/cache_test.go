package schemacache

import (
	"testing"

	"github.com/workgrid/workgrid-studio/internal/models"
)

func TestCacheKeys(t *testing.T) {
	if got := TablesKey("c1", "shop"); got != "c1::shop" {
		t.Errorf("TablesKey = %q", got)
	}
	if got := ColumnsKey("c1", "shop", "users"); got != "c1::shop::users" {
		t.Errorf("ColumnsKey = %q", got)
	}
}

func TestCachePopulateAndRead(t *testing.T) {
	c := New()
	c.AddConnection("c1")

	c.SetDatabases("c1", []string{"shop", "crm"})
	c.SetTables("c1", "shop", []string{"users", "orders"})
	c.SetColumns("c1", "shop", "users", []models.ColumnInfo{{Name: "id", DataType: "bigint", Key: "PRI"}})

	if dbs, ok := c.Databases("c1"); !ok || len(dbs) != 2 {
		t.Error("databases should be cached")
	}
	if tables, ok := c.Tables("c1", "shop"); !ok || len(tables) != 2 {
		t.Error("tables should be cached")
	}
	if cols, ok := c.Columns("c1", "shop", "users"); !ok || cols[0].Name != "id" {
		t.Error("columns should be cached")
	}
}

func TestCacheWriteForUnknownConnectionIsDropped(t *testing.T) {
	c := New()
	// Connection never added (or already removed): a late result must not
	// repopulate evicted keys.
	c.SetDatabases("ghost", []string{"shop"})
	c.SetTables("ghost", "shop", []string{"users"})
	c.SetError("ghost", "ghost", "boom")

	if _, ok := c.Databases("ghost"); ok {
		t.Error("late database write should be discarded")
	}
	if _, ok := c.Tables("ghost", "shop"); ok {
		t.Error("late table write should be discarded")
	}
	if _, ok := c.Error("ghost"); ok {
		t.Error("late error write should be discarded")
	}
}

func TestCascadeEviction(t *testing.T) {
	c := New()
	c.AddConnection("c1")
	c.AddConnection("c2")

	c.SetDatabases("c1", []string{"shop"})
	c.SetTables("c1", "shop", []string{"users"})
	c.SetColumns("c1", "shop", "users", []models.ColumnInfo{{Name: "id"}})
	c.SetError("c1", TablesKey("c1", "crm"), "permission denied")
	c.BeginLoad(ColumnsKey("c1", "shop", "orders"))

	c.SetDatabases("c2", []string{"inventory"})
	c.SetTables("c2", "inventory", []string{"items"})

	c.RemoveConnection("c1")

	if c.HasConnection("c1") {
		t.Error("connection should be gone")
	}
	if _, ok := c.Databases("c1"); ok {
		t.Error("databases for c1 should be evicted")
	}
	if _, ok := c.Tables("c1", "shop"); ok {
		t.Error("tables for c1 should be evicted")
	}
	if _, ok := c.Columns("c1", "shop", "users"); ok {
		t.Error("columns for c1 should be evicted")
	}
	if _, ok := c.Error(TablesKey("c1", "crm")); ok {
		t.Error("errors for c1 should be evicted")
	}
	if c.Loading(ColumnsKey("c1", "shop", "orders")) {
		t.Error("loading flags for c1 should be evicted")
	}

	// Sibling connection untouched.
	if _, ok := c.Databases("c2"); !ok {
		t.Error("c2 databases should survive")
	}
	if _, ok := c.Tables("c2", "inventory"); !ok {
		t.Error("c2 tables should survive")
	}
}

func TestCascadeEvictionDoesNotMatchIDPrefixes(t *testing.T) {
	c := New()
	c.AddConnection("c1")
	c.AddConnection("c10")
	c.SetDatabases("c1", []string{"a"})
	c.SetDatabases("c10", []string{"b"})
	c.SetTables("c10", "b", []string{"t"})

	c.RemoveConnection("c1")

	if _, ok := c.Databases("c10"); !ok {
		t.Error(`removing "c1" must not evict "c10"`)
	}
	if _, ok := c.Tables("c10", "b"); !ok {
		t.Error(`removing "c1" must not evict "c10::b"`)
	}
}

func TestBeginLoadGuardsDuplicates(t *testing.T) {
	c := New()
	key := TablesKey("c1", "shop")

	if !c.BeginLoad(key) {
		t.Fatal("first BeginLoad should succeed")
	}
	if c.BeginLoad(key) {
		t.Error("second BeginLoad while in flight should be refused")
	}
	c.EndLoad(key)
	if !c.BeginLoad(key) {
		t.Error("BeginLoad should succeed again after EndLoad")
	}
}

func TestErrorLifecycle(t *testing.T) {
	c := New()
	c.AddConnection("c1")
	key := TablesKey("c1", "shop")

	c.SetError("c1", key, "timeout contacting server")
	if msg, ok := c.Error(key); !ok || msg != "timeout contacting server" {
		t.Error("error should be stored verbatim")
	}

	// A successful fetch for the key clears the error.
	c.SetTables("c1", "shop", []string{"users"})
	if _, ok := c.Error(key); ok {
		t.Error("populating a key should clear its error")
	}

	c.SetError("c1", key, "boom")
	c.ClearError(key)
	if _, ok := c.Error(key); ok {
		t.Error("ClearError should remove the message")
	}
}

func TestState(t *testing.T) {
	c := New()
	c.AddConnection("c1")
	key := TablesKey("c1", "shop")

	if st := c.State(key); st.Loaded || st.Loading || st.Error != "" {
		t.Error("fresh key should be empty")
	}
	c.BeginLoad(key)
	if st := c.State(key); !st.Loading {
		t.Error("key should report loading")
	}
	c.EndLoad(key)
	c.SetTables("c1", "shop", []string{"users"})
	if st := c.State(key); !st.Loaded || st.Loading {
		t.Error("key should report loaded")
	}
}
