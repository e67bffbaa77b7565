package models

import (
	"testing"
)

func leafWithTabs(titles ...string) *Leaf {
	leaf := NewLeaf()
	for _, title := range titles {
		leaf.Tabs = append(leaf.Tabs, NewTab(title, TabTypeQueryEditor, nil))
	}
	if len(leaf.Tabs) > 0 {
		leaf.ActiveTabID = leaf.Tabs[0].ID
	}
	return leaf
}

func TestLeavesDepthFirstWithUniqueIDs(t *testing.T) {
	a, b, c := NewLeaf(), NewLeaf(), NewLeaf()
	tree := &Node{
		ID:        "root",
		Direction: SplitVertical,
		Ratio:     0.5,
		ChildA:    &Node{ID: "inner", Direction: SplitHorizontal, Ratio: 0.5, ChildA: a, ChildB: b},
		ChildB:    c,
	}

	leaves := Leaves(tree)
	if len(leaves) != 3 {
		t.Fatalf("Leaves returned %d leaves, want 3", len(leaves))
	}
	if leaves[0] != a || leaves[1] != b || leaves[2] != c {
		t.Error("Leaves should enumerate depth-first, ChildA before ChildB")
	}

	seen := make(map[string]bool)
	for _, leaf := range leaves {
		if leaf.ID == "" {
			t.Error("leaf has empty ID")
		}
		if seen[leaf.ID] {
			t.Errorf("duplicate leaf ID %q", leaf.ID)
		}
		seen[leaf.ID] = true
	}
}

func TestFirstLeaf(t *testing.T) {
	leaf := NewLeaf()
	if got := FirstLeaf(leaf); got != leaf {
		t.Error("FirstLeaf on a leaf should return the leaf itself")
	}

	// Nested: first leaf is the deepest ChildA.
	target := NewLeaf()
	tree := &Node{
		ID:        "n1",
		Direction: SplitVertical,
		Ratio:     0.5,
		ChildA: &Node{
			ID:        "n2",
			Direction: SplitHorizontal,
			Ratio:     0.5,
			ChildA:    target,
			ChildB:    NewLeaf(),
		},
		ChildB: NewLeaf(),
	}
	if got := FirstLeaf(tree); got != target {
		t.Error("FirstLeaf should descend through ChildA")
	}
}

func TestFindLeaf(t *testing.T) {
	a, b := NewLeaf(), NewLeaf()
	tree := &Node{ID: "n", Direction: SplitVertical, Ratio: 0.5, ChildA: a, ChildB: b}

	if got := FindLeaf(tree, b.ID); got != b {
		t.Error("FindLeaf did not locate ChildB leaf")
	}
	if got := FindLeaf(tree, "missing"); got != nil {
		t.Error("FindLeaf should return nil for unknown id")
	}
	if got := FindLeaf(tree, "n"); got != nil {
		t.Error("FindLeaf should not match node ids")
	}
}

func TestUpdateLeafPathCopying(t *testing.T) {
	a, b := leafWithTabs("one"), leafWithTabs("two")
	tree := &Node{ID: "root", Direction: SplitVertical, Ratio: 0.5, ChildA: a, ChildB: b}

	updated := UpdateLeaf(tree, a.ID, func(leaf *Leaf) *Leaf {
		copied := *leaf
		copied.ActiveTabID = ""
		return &copied
	})

	newRoot, ok := updated.(*Node)
	if !ok {
		t.Fatal("expected a node after update")
	}
	if newRoot == tree {
		t.Error("root should be rebuilt when a descendant changes")
	}
	if newRoot.ChildB != b {
		t.Error("untouched sibling subtree should be shared, not copied")
	}
	if newRoot.ChildA == PaneTree(a) {
		t.Error("updated leaf should be a new value")
	}
	// Prior snapshot unchanged.
	if a.ActiveTabID == "" {
		t.Error("original leaf mutated in place")
	}
}

func TestUpdateLeafNotFoundIsNoop(t *testing.T) {
	a, b := NewLeaf(), NewLeaf()
	tree := &Node{ID: "root", Direction: SplitVertical, Ratio: 0.5, ChildA: a, ChildB: b}

	updated := UpdateLeaf(tree, "missing", func(leaf *Leaf) *Leaf {
		t.Error("updater should not run for missing leaf")
		return leaf
	})
	if updated != PaneTree(tree) {
		t.Error("not-found update should return the same tree")
	}
}

func TestReplaceLeaf(t *testing.T) {
	a := NewLeaf()
	replacement := &Node{ID: "inner", Direction: SplitHorizontal, Ratio: 0.5, ChildA: a, ChildB: NewLeaf()}

	updated := ReplaceLeaf(a, a.ID, func(leaf *Leaf) PaneTree {
		if leaf != a {
			t.Error("replacer should receive the located leaf")
		}
		return replacement
	})
	if updated != PaneTree(replacement) {
		t.Error("ReplaceLeaf should substitute the returned subtree")
	}
}

func TestUpdateNodeClampsRatio(t *testing.T) {
	tree := &Node{ID: "n", Direction: SplitVertical, Ratio: 0.5, ChildA: NewLeaf(), ChildB: NewLeaf()}

	for ratio, want := range map[float64]float64{
		0.05: 0.1,
		0.3:  0.3,
		1.7:  0.9,
	} {
		updated := UpdateNode(tree, "n", NodeUpdate{Ratio: &ratio})
		node := updated.(*Node)
		if node.Ratio != want {
			t.Errorf("ratio %v: got %v, want %v", ratio, node.Ratio, want)
		}
	}
	if tree.Ratio != 0.5 {
		t.Error("original node mutated in place")
	}
}

func TestUpdateNodeNotFoundIsNoop(t *testing.T) {
	tree := &Node{ID: "n", Direction: SplitVertical, Ratio: 0.5, ChildA: NewLeaf(), ChildB: NewLeaf()}
	ratio := 0.7
	if updated := UpdateNode(tree, "missing", NodeUpdate{Ratio: &ratio}); updated != PaneTree(tree) {
		t.Error("not-found node update should return the same tree")
	}
}

func TestUpdateTabMergesMeta(t *testing.T) {
	leaf := NewLeaf()
	tab := NewTab("users", TabTypeTableData, map[string]string{
		MetaConnectionID: "c1",
		MetaDatabase:     "shop",
		MetaTable:        "users",
	})
	leaf.Tabs = []Tab{tab}

	title := "users (copy)"
	updated := UpdateTab(leaf, tab.ID, TabUpdate{
		Title: &title,
		Meta:  map[string]string{"orderBy": "id", MetaTable: "users_v2"},
	})

	got := updated.(*Leaf).Tabs[0]
	if got.Title != title {
		t.Errorf("title = %q, want %q", got.Title, title)
	}
	if got.Meta[MetaConnectionID] != "c1" || got.Meta[MetaDatabase] != "shop" {
		t.Error("existing meta keys should survive a merge")
	}
	if got.Meta[MetaTable] != "users_v2" || got.Meta["orderBy"] != "id" {
		t.Error("updated meta keys should be merged in")
	}
	// Original tab's meta untouched.
	if tab.Meta[MetaTable] != "users" {
		t.Error("meta map of the original tab mutated in place")
	}
}

func TestUpdateTabAcrossPanes(t *testing.T) {
	left := NewLeaf()
	right := NewLeaf()
	tab := NewTab("q", TabTypeQueryEditor, nil)
	right.Tabs = []Tab{tab}
	tree := &Node{ID: "root", Direction: SplitVertical, Ratio: 0.5, ChildA: left, ChildB: right}

	dirty := true
	updated := UpdateTab(tree, tab.ID, TabUpdate{Dirty: &dirty})

	node := updated.(*Node)
	if node.ChildA != PaneTree(left) {
		t.Error("pane without the tab should be shared")
	}
	if !node.ChildB.(*Leaf).Tabs[0].Dirty {
		t.Error("tab should be updated wherever it lives in the tree")
	}
}

func TestDedupKey(t *testing.T) {
	meta := map[string]string{MetaConnectionID: "c1", MetaDatabase: "shop"}

	key1, ok := DedupKey(TabTypeSchemaBrowser, meta)
	if !ok {
		t.Fatal("schema browser with full identity should be a singleton")
	}
	key2, _ := DedupKey(TabTypeSchemaBrowser, map[string]string{MetaConnectionID: "c1", MetaDatabase: "shop"})
	if key1 != key2 {
		t.Error("identical identity should produce identical keys")
	}

	if _, ok := DedupKey(TabTypeQueryEditor, meta); ok {
		t.Error("query editors are never singletons")
	}
	if _, ok := DedupKey(TabTypeSchemaBrowser, map[string]string{MetaConnectionID: "c1"}); ok {
		t.Error("incomplete identity should not be treated as a singleton")
	}
}
