// Package workbench implements the state engine behind the editor area of
// the client: a recursive split-pane layout multiplexing tabs across panes.
// All operations are pure functions from one layout snapshot to the next;
// operations on stale ids leave the tree unchanged so the view layer never
// has to guard against races with its own re-renders.
package workbench

import (
	"github.com/google/uuid"

	"github.com/workgrid/workgrid-studio/internal/models"
)

// TabRequest describes a tab to open. The id is generated here, not by the
// caller.
type TabRequest struct {
	Title string
	Type  models.TabType
	Meta  map[string]string
}

// OpenTab opens a tab in the pane with leafID, or in the first pane when
// leafID is empty or stale. Singleton tab types (schema browser, table
// designer and friends) deduplicate on their identity meta keys: if the
// target pane already holds a matching tab it is re-activated instead of
// duplicated. All other types always get a fresh tab appended and activated.
func OpenTab(tree models.PaneTree, req TabRequest, leafID string) models.PaneTree {
	target := resolveLeaf(tree, leafID)

	if identity, singleton := models.DedupKey(req.Type, req.Meta); singleton {
		for _, tab := range target.Tabs {
			existing, ok := models.DedupKey(tab.Type, tab.Meta)
			if ok && existing == identity {
				return setActive(tree, target.ID, tab.ID)
			}
		}
	}

	tab := models.NewTab(req.Title, req.Type, req.Meta)
	return models.UpdateLeaf(tree, target.ID, func(leaf *models.Leaf) *models.Leaf {
		copied := *leaf
		copied.Tabs = append(leaf.CloneTabs(), tab)
		copied.ActiveTabID = tab.ID
		return &copied
	})
}

// CloseTab removes the tab from the pane. When the closed tab was active the
// last remaining tab in list order becomes active, or none if the pane is
// now empty. The pane itself stays, even empty; see CloseLeaf.
func CloseTab(tree models.PaneTree, tabID, leafID string) models.PaneTree {
	return models.UpdateLeaf(tree, leafID, func(leaf *models.Leaf) *models.Leaf {
		idx := leaf.TabIndex(tabID)
		if idx < 0 {
			return leaf
		}
		tabs := make([]models.Tab, 0, len(leaf.Tabs)-1)
		tabs = append(tabs, leaf.Tabs[:idx]...)
		tabs = append(tabs, leaf.Tabs[idx+1:]...)

		copied := *leaf
		copied.Tabs = tabs
		if leaf.ActiveTabID == tabID {
			copied.ActiveTabID = ""
			if len(tabs) > 0 {
				copied.ActiveTabID = tabs[len(tabs)-1].ID
			}
		}
		return &copied
	})
}

// CloseOtherTabs keeps only the tab with tabID in the pane and activates it.
// No-op when the tab is not in the pane.
func CloseOtherTabs(tree models.PaneTree, tabID, leafID string) models.PaneTree {
	return models.UpdateLeaf(tree, leafID, func(leaf *models.Leaf) *models.Leaf {
		idx := leaf.TabIndex(tabID)
		if idx < 0 {
			return leaf
		}
		copied := *leaf
		copied.Tabs = []models.Tab{leaf.Tabs[idx]}
		copied.ActiveTabID = tabID
		return &copied
	})
}

// CloseTabsToRight truncates the pane's tab list to the prefix ending at
// tabID inclusive. The active tab is preserved when it survived the
// truncation; otherwise the new last tab becomes active.
func CloseTabsToRight(tree models.PaneTree, tabID, leafID string) models.PaneTree {
	return models.UpdateLeaf(tree, leafID, func(leaf *models.Leaf) *models.Leaf {
		idx := leaf.TabIndex(tabID)
		if idx < 0 {
			return leaf
		}
		tabs := make([]models.Tab, idx+1)
		copy(tabs, leaf.Tabs[:idx+1])

		copied := *leaf
		copied.Tabs = tabs
		if copied.TabIndex(leaf.ActiveTabID) < 0 {
			copied.ActiveTabID = tabs[len(tabs)-1].ID
		}
		return &copied
	})
}

// CloseAllTabs empties the pane's tab list.
func CloseAllTabs(tree models.PaneTree, leafID string) models.PaneTree {
	return models.UpdateLeaf(tree, leafID, func(leaf *models.Leaf) *models.Leaf {
		copied := *leaf
		copied.Tabs = nil
		copied.ActiveTabID = ""
		return &copied
	})
}

// SetActiveTab marks the tab active in its pane. The tab must currently be
// in the pane's list; a stale id is a no-op, matching the other operations.
func SetActiveTab(tree models.PaneTree, tabID, leafID string) models.PaneTree {
	return setActive(tree, leafID, tabID)
}

// UpdateTab merges a partial update into the tab wherever it lives in the
// tree. Meta entries merge key-by-key rather than replacing the map.
func UpdateTab(tree models.PaneTree, tabID string, update models.TabUpdate) models.PaneTree {
	return models.UpdateTab(tree, tabID, update)
}

// SplitLeaf converts the pane into a split: the original leaf, with its id
// and tabs intact, becomes the first child; a brand-new empty pane becomes
// the second. The new node starts at an even 0.5 ratio.
func SplitLeaf(tree models.PaneTree, leafID string, direction models.SplitDirection) models.PaneTree {
	return models.ReplaceLeaf(tree, leafID, func(leaf *models.Leaf) models.PaneTree {
		return &models.Node{
			ID:        uuid.NewString(),
			Direction: direction,
			Ratio:     0.5,
			ChildA:    leaf,
			ChildB:    models.NewLeaf(),
		}
	})
}

// ResizeNode sets the split ratio of the node, clamped to the legal range.
func ResizeNode(tree models.PaneTree, nodeID string, ratio float64) models.PaneTree {
	return models.UpdateNode(tree, nodeID, models.NodeUpdate{Ratio: &ratio})
}

// CloseLeaf removes an entire pane and promotes its sibling into the parent
// node's slot. The root pane cannot be closed. This is the collapse policy
// for panes the user is done with; closing the last tab alone never
// collapses a pane.
func CloseLeaf(tree models.PaneTree, leafID string) models.PaneTree {
	node, ok := tree.(*models.Node)
	if !ok {
		return tree
	}
	if leaf, isLeaf := node.ChildA.(*models.Leaf); isLeaf && leaf.ID == leafID {
		return node.ChildB
	}
	if leaf, isLeaf := node.ChildB.(*models.Leaf); isLeaf && leaf.ID == leafID {
		return node.ChildA
	}
	childA := CloseLeaf(node.ChildA, leafID)
	childB := CloseLeaf(node.ChildB, leafID)
	if childA == node.ChildA && childB == node.ChildB {
		return node
	}
	copied := *node
	copied.ChildA = childA
	copied.ChildB = childB
	return &copied
}

func resolveLeaf(tree models.PaneTree, leafID string) *models.Leaf {
	if leafID != "" {
		if leaf := models.FindLeaf(tree, leafID); leaf != nil {
			return leaf
		}
	}
	return models.FirstLeaf(tree)
}

func setActive(tree models.PaneTree, leafID, tabID string) models.PaneTree {
	return models.UpdateLeaf(tree, leafID, func(leaf *models.Leaf) *models.Leaf {
		if leaf.TabIndex(tabID) < 0 {
			return leaf
		}
		copied := *leaf
		copied.ActiveTabID = tabID
		return &copied
	})
}
