// Package node defines the content tree the ring engine lays out.
//
// Nodes are supplied by content providers and treated as immutable
// snapshots: a provider builds a fresh tree on every refresh and the engine
// never edits a node in place. Updates replace nodes, they do not mutate
// them, so no identity persists across refreshes except ID equality.
package node

import (
	"context"

	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Kind classifies what a node represents on the ring.
type Kind string

const (
	// KindCategory is an expandable group of child nodes.
	KindCategory Kind = "category"
	// KindAction is a leaf that triggers an action when activated.
	KindAction Kind = "action"
	// KindFile is a leaf backed by a file on disk.
	KindFile Kind = "file"
	// KindFolder is a branch backed by a directory; its children are
	// usually loaded on demand.
	KindFolder Kind = "folder"
	// KindSpacer is a synthetic visual gap between provider groups.
	// Spacers never participate in selection or overflow folding.
	KindSpacer Kind = "spacer"
	// KindSectionHeader is a non-expandable label inside a ring.
	KindSectionHeader Kind = "sectionHeader"
)

// =============================================================================
// Node
// =============================================================================

// Node is one selectable or expandable item in the content tree.
//
// The zero value is not usable - ID and Kind must be set. Nodes flagged
// NeedsLoading carry no eager Children and must have a ProviderID so the
// engine knows which provider to ask for them.
type Node struct {
	ID         string  `json:"id"`
	Name       string  `json:"name,omitempty"`
	Kind       Kind    `json:"kind"`
	Children   []*Node `json:"children,omitempty"`
	ProviderID string  `json:"provider_id,omitempty"`

	// Meta holds the kind-specific record (folder path, file info, ...).
	Meta Meta `json:"meta,omitempty"`

	// ItemAngle fixes this node's own angular size in its ring.
	// Zero means automatic sizing.
	ItemAngle float64 `json:"item_angle,omitempty"`
	// ChildItemAngle fixes the angular size of each of this node's
	// children when a child ring opens. Zero means automatic sizing.
	ChildItemAngle float64 `json:"child_item_angle,omitempty"`
	// Positioning anchors the child ring's arc relative to this item.
	Positioning slice.Positioning `json:"positioning,omitempty"`

	// NeedsLoading marks children as asynchronously fetched rather than
	// read from the Children field.
	NeedsLoading bool `json:"needs_loading,omitempty"`

	// Handlers resolve pointer interactions to abstract behaviors.
	Handlers Handlers `json:"-"`

	// Hover callbacks fired by the engine when the pointer enters or
	// leaves this item's slice. Either may be nil. They run outside the
	// engine lock.
	OnHoverEnter func(ctx context.Context) `json:"-"`
	OnHoverExit  func(ctx context.Context) `json:"-"`
}

// DisplayName returns the name if set, otherwise the ID.
func (n *Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// IsSpacer reports whether the node is a synthetic provider separator.
func (n *Node) IsSpacer() bool { return n.Kind == KindSpacer }

// Selectable reports whether the node can be hovered or selected.
func (n *Node) Selectable() bool { return n.Kind != KindSpacer }

// IsBranch reports whether the node can open a child ring: it either
// carries eager children or loads them dynamically.
func (n *Node) IsBranch() bool {
	return len(n.Children) > 0 || n.NeedsLoading
}

// ContentID returns the content identifier used to re-target ring updates,
// e.g. the folder path for folder nodes. Empty when the node has none.
func (n *Node) ContentID() string {
	switch m := n.Meta.(type) {
	case FolderMeta:
		return m.Path
	case FileMeta:
		return m.Path
	default:
		return ""
	}
}

// =============================================================================
// Metadata - Typed Per-Kind Records
// =============================================================================

// Meta is the kind-specific metadata record attached to a node.
// Modeling metadata as small typed records instead of a string-keyed map
// keeps lookups cast-free.
type Meta interface {
	isMeta()
}

// CategoryMeta describes a category node.
type CategoryMeta struct {
	Section string `json:"section,omitempty"`
}

// FolderMeta describes a folder node.
type FolderMeta struct {
	Path string `json:"path"`
}

// FileMeta describes a file node.
type FileMeta struct {
	Path      string `json:"path"`
	Extension string `json:"extension,omitempty"`
}

func (CategoryMeta) isMeta() {}
func (FolderMeta) isMeta()   {}
func (FileMeta) isMeta()     {}
