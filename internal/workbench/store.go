package workbench

import (
	"sync"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// Store owns the live layout tree. Mutations run one at a time and swap in
// the tree returned by the corresponding pure operation; readers always see
// a complete snapshot. Both reactive bindings and plain imperative call
// sites go through the same accessor.
type Store struct {
	mu          sync.RWMutex
	tree        models.PaneTree
	subscribers []func(models.PaneTree)
}

// NewStore creates a store whose tree is a single empty pane.
func NewStore() *Store {
	return &Store{tree: models.NewLeaf()}
}

// Snapshot returns the current layout tree. The tree is immutable, so the
// caller can hold on to it for as long as it likes.
func (s *Store) Snapshot() models.PaneTree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// Subscribe registers a callback invoked with each new snapshot. Callbacks
// run synchronously after the mutation, in registration order.
func (s *Store) Subscribe(fn func(models.PaneTree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Apply runs a layout operation against the current tree and installs the
// result. Operations that found nothing to do return the same tree, in
// which case subscribers are not notified. Subscribers run synchronously
// after the mutation, outside the lock, so a callback is free to read the
// store back.
func (s *Store) Apply(op func(models.PaneTree) models.PaneTree) {
	s.mu.Lock()
	next := op(s.tree)
	if next == s.tree {
		s.mu.Unlock()
		return
	}
	s.tree = next
	subscribers := append(([]func(models.PaneTree))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
}

func (s *Store) OpenTab(req TabRequest, leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return OpenTab(tree, req, leafID)
	})
}

func (s *Store) CloseTab(tabID, leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return CloseTab(tree, tabID, leafID)
	})
}

func (s *Store) CloseOtherTabs(tabID, leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return CloseOtherTabs(tree, tabID, leafID)
	})
}

func (s *Store) CloseTabsToRight(tabID, leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return CloseTabsToRight(tree, tabID, leafID)
	})
}

func (s *Store) CloseAllTabs(leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return CloseAllTabs(tree, leafID)
	})
}

func (s *Store) SetActiveTab(tabID, leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return SetActiveTab(tree, tabID, leafID)
	})
}

func (s *Store) UpdateTab(tabID string, update models.TabUpdate) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return UpdateTab(tree, tabID, update)
	})
}

func (s *Store) SplitLeaf(leafID string, direction models.SplitDirection) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return SplitLeaf(tree, leafID, direction)
	})
}

func (s *Store) ResizeNode(nodeID string, ratio float64) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return ResizeNode(tree, nodeID, ratio)
	})
}

func (s *Store) CloseLeaf(leafID string) {
	s.Apply(func(tree models.PaneTree) models.PaneTree {
		return CloseLeaf(tree, leafID)
	})
}
