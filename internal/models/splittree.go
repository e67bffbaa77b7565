package models

import (
	"github.com/google/uuid"
)

// SplitDirection is the axis a pane is divided along.
type SplitDirection string

const (
	SplitHorizontal SplitDirection = "horizontal"
	SplitVertical   SplitDirection = "vertical"
)

// PaneTree is the layout of the workbench: a binary tree whose leaves hold
// tabs and whose inner nodes are resizable splits. Trees are immutable:
// every mutation rebuilds the path from the root to the changed node and
// shares every untouched subtree, so previously handed-out snapshots remain
// valid.
type PaneTree interface {
	// TreeID returns the id of this leaf or node.
	TreeID() string

	isPaneTree()
}

// Leaf is a single pane: an ordered tab list and at most one active tab.
type Leaf struct {
	ID          string
	Tabs        []Tab
	ActiveTabID string // "" when no tab is active
}

// Node is a binary split of two children along an axis. Ratio is the share
// of the first child and is always kept within [MinRatio, MaxRatio].
type Node struct {
	ID        string
	Direction SplitDirection
	Ratio     float64
	ChildA    PaneTree
	ChildB    PaneTree
}

// Ratio bounds for a split. Resizes are clamped, never rejected.
const (
	MinRatio = 0.1
	MaxRatio = 0.9
)

func (l *Leaf) TreeID() string { return l.ID }
func (n *Node) TreeID() string { return n.ID }

func (*Leaf) isPaneTree() {}
func (*Node) isPaneTree() {}

// NewLeaf creates an empty pane with a fresh id.
func NewLeaf() *Leaf {
	return &Leaf{ID: uuid.NewString()}
}

// ClampRatio forces a split ratio into [MinRatio, MaxRatio].
func ClampRatio(ratio float64) float64 {
	if ratio < MinRatio {
		return MinRatio
	}
	if ratio > MaxRatio {
		return MaxRatio
	}
	return ratio
}

// FirstLeaf descends through ChildA until it reaches a leaf. Every node has
// two children, so this always terminates at a leaf. Used as the default
// target when an operation names no pane.
func FirstLeaf(tree PaneTree) *Leaf {
	for {
		switch t := tree.(type) {
		case *Leaf:
			return t
		case *Node:
			tree = t.ChildA
		}
	}
}

// FindLeaf returns the leaf with the given id, or nil.
func FindLeaf(tree PaneTree, leafID string) *Leaf {
	switch t := tree.(type) {
	case *Leaf:
		if t.ID == leafID {
			return t
		}
	case *Node:
		if found := FindLeaf(t.ChildA, leafID); found != nil {
			return found
		}
		return FindLeaf(t.ChildB, leafID)
	}
	return nil
}

// FindNode returns the inner node with the given id, or nil.
func FindNode(tree PaneTree, nodeID string) *Node {
	node, ok := tree.(*Node)
	if !ok {
		return nil
	}
	if node.ID == nodeID {
		return node
	}
	if found := FindNode(node.ChildA, nodeID); found != nil {
		return found
	}
	return FindNode(node.ChildB, nodeID)
}

// UpdateLeaf returns a tree where the leaf with leafID has been replaced by
// updater(leaf). Ancestors along the path are rebuilt; unrelated subtrees are
// shared. If the leaf is not found the original tree is returned unchanged.
func UpdateLeaf(tree PaneTree, leafID string, updater func(*Leaf) *Leaf) PaneTree {
	return ReplaceLeaf(tree, leafID, func(leaf *Leaf) PaneTree {
		return updater(leaf)
	})
}

// ReplaceLeaf is UpdateLeaf generalized to substitute any subtree for the
// located leaf. Splitting a pane replaces the leaf with a node this way.
func ReplaceLeaf(tree PaneTree, leafID string, replacer func(*Leaf) PaneTree) PaneTree {
	switch t := tree.(type) {
	case *Leaf:
		if t.ID == leafID {
			return replacer(t)
		}
		return t
	case *Node:
		childA := ReplaceLeaf(t.ChildA, leafID, replacer)
		childB := ReplaceLeaf(t.ChildB, leafID, replacer)
		if childA == t.ChildA && childB == t.ChildB {
			return t
		}
		copied := *t
		copied.ChildA = childA
		copied.ChildB = childB
		return &copied
	}
	return tree
}

// NodeUpdate is a partial update applied to an inner node.
type NodeUpdate struct {
	Ratio     *float64
	Direction *SplitDirection
}

// UpdateNode rebuilds the path to the node with nodeID and merges the update.
// Ratio values are clamped. Not-found is a no-op.
func UpdateNode(tree PaneTree, nodeID string, update NodeUpdate) PaneTree {
	node, ok := tree.(*Node)
	if !ok {
		return tree
	}
	if node.ID == nodeID {
		copied := *node
		if update.Ratio != nil {
			copied.Ratio = ClampRatio(*update.Ratio)
		}
		if update.Direction != nil {
			copied.Direction = *update.Direction
		}
		return &copied
	}
	childA := UpdateNode(node.ChildA, nodeID, update)
	childB := UpdateNode(node.ChildB, nodeID, update)
	if childA == node.ChildA && childB == node.ChildB {
		return node
	}
	copied := *node
	copied.ChildA = childA
	copied.ChildB = childB
	return &copied
}

// UpdateTab locates the leaf holding tabID anywhere in the tree and merges
// the update into that tab. Not-found is a no-op.
func UpdateTab(tree PaneTree, tabID string, update TabUpdate) PaneTree {
	switch t := tree.(type) {
	case *Leaf:
		idx := t.TabIndex(tabID)
		if idx < 0 {
			return t
		}
		tabs := t.CloneTabs()
		tabs[idx] = update.Apply(tabs[idx])
		copied := *t
		copied.Tabs = tabs
		return &copied
	case *Node:
		childA := UpdateTab(t.ChildA, tabID, update)
		childB := UpdateTab(t.ChildB, tabID, update)
		if childA == t.ChildA && childB == t.ChildB {
			return t
		}
		copied := *t
		copied.ChildA = childA
		copied.ChildB = childB
		return &copied
	}
	return tree
}

// TabIndex returns the position of tabID in the leaf's tab list, or -1.
func (l *Leaf) TabIndex(tabID string) int {
	for i, tab := range l.Tabs {
		if tab.ID == tabID {
			return i
		}
	}
	return -1
}

// CloneTabs copies the tab slice so callers can modify it without touching
// earlier snapshots.
func (l *Leaf) CloneTabs() []Tab {
	tabs := make([]Tab, len(l.Tabs))
	copy(tabs, l.Tabs)
	return tabs
}

// Leaves collects every leaf in depth-first order.
func Leaves(tree PaneTree) []*Leaf {
	switch t := tree.(type) {
	case *Leaf:
		return []*Leaf{t}
	case *Node:
		return append(Leaves(t.ChildA), Leaves(t.ChildB)...)
	}
	return nil
}
