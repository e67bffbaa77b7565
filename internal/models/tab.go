package models

import (
	"github.com/google/uuid"
)

// TabType identifies the kind of view a tab hosts. The view layer resolves
// the actual content component from this tag plus the tab's Meta values.
type TabType string

const (
	TabTypeQueryEditor      TabType = "query-editor"
	TabTypeSchemaBrowser    TabType = "schema-browser"
	TabTypeTableData        TabType = "table-data"
	TabTypeTableDesigner    TabType = "table-designer"
	TabTypeDatabaseOverview TabType = "database-overview"
	TabTypeQueryHistory     TabType = "query-history"
)

// Meta keys used by deduplication and the view layer.
const (
	MetaConnectionID = "connectionId"
	MetaDatabase     = "database"
	MetaTable        = "table"
)

// Tab is a single editor tab. Tabs are treated as immutable values: every
// update produces a copy, so a PaneTree snapshot taken earlier never changes.
type Tab struct {
	ID    string
	Title string
	Type  TabType
	Dirty bool
	Meta  map[string]string
}

// NewTab creates a tab with a freshly generated id.
func NewTab(title string, tabType TabType, meta map[string]string) Tab {
	return Tab{
		ID:    uuid.NewString(),
		Title: title,
		Type:  tabType,
		Meta:  cloneMeta(meta),
	}
}

// TabUpdate is a partial update applied to an existing tab. Nil fields are
// left unchanged; Meta entries merge key-by-key into the existing map.
type TabUpdate struct {
	Title *string
	Dirty *bool
	Meta  map[string]string
}

// Apply returns a copy of the tab with the update merged in.
func (u TabUpdate) Apply(tab Tab) Tab {
	out := tab
	if u.Title != nil {
		out.Title = *u.Title
	}
	if u.Dirty != nil {
		out.Dirty = *u.Dirty
	}
	if len(u.Meta) > 0 {
		merged := cloneMeta(tab.Meta)
		if merged == nil {
			merged = make(map[string]string, len(u.Meta))
		}
		for k, v := range u.Meta {
			merged[k] = v
		}
		out.Meta = merged
	}
	return out
}

// dedupIdentityKeys lists, per singleton tab type, the Meta keys that form
// its identity. Opening a second tab with the same identity in the same pane
// re-activates the existing one instead.
var dedupIdentityKeys = map[TabType][]string{
	TabTypeSchemaBrowser:    {MetaConnectionID, MetaDatabase},
	TabTypeTableData:        {MetaConnectionID, MetaDatabase, MetaTable},
	TabTypeTableDesigner:    {MetaConnectionID, MetaDatabase, MetaTable},
	TabTypeDatabaseOverview: {MetaConnectionID, MetaDatabase},
	TabTypeQueryHistory:     {MetaConnectionID},
}

// DedupKey returns the composite identity for a singleton-per-identity tab.
// ok is false for tab types that always open a new tab (query editors) or
// when the meta map is missing one of the identity keys.
func DedupKey(tabType TabType, meta map[string]string) (string, bool) {
	keys, singleton := dedupIdentityKeys[tabType]
	if !singleton {
		return "", false
	}
	identity := string(tabType)
	for _, k := range keys {
		v, present := meta[k]
		if !present || v == "" {
			return "", false
		}
		identity += "\x00" + v
	}
	return identity, true
}

func cloneMeta(meta map[string]string) map[string]string {
	if meta == nil {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
