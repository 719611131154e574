package node

import "fmt"

// Constructors for the common node shapes. Providers are free to build
// Node values directly; these just keep the default handler wiring in one
// place.

// NewCategory creates an expandable category node.
func NewCategory(id, name string, children []*Node) *Node {
	return &Node{
		ID:       id,
		Name:     name,
		Kind:     KindCategory,
		Children: children,
		Handlers: ExpandOnLeft(),
	}
}

// NewAction creates a leaf node that runs an action when activated.
func NewAction(id, name string, a Action) *Node {
	return &Node{
		ID:       id,
		Name:     name,
		Kind:     KindAction,
		Handlers: ExecuteOnLeft(a),
	}
}

// NewFolder creates a dynamically loading folder node for path.
func NewFolder(id, name, providerID, path string) *Node {
	return &Node{
		ID:           id,
		Name:         name,
		Kind:         KindFolder,
		ProviderID:   providerID,
		Meta:         FolderMeta{Path: path},
		NeedsLoading: true,
		Handlers:     ExpandOnLeft(),
	}
}

// NewFile creates a file leaf node.
func NewFile(id, name, path, ext string, a Action) *Node {
	return &Node{
		ID:       id,
		Name:     name,
		Kind:     KindFile,
		Meta:     FileMeta{Path: path, Extension: ext},
		Handlers: ExecuteOnLeft(a),
	}
}

// NewSpacer creates a provider-separator spacer. seq keeps spacer IDs
// unique within one build.
func NewSpacer(seq int) *Node {
	return &Node{
		ID:   fmt.Sprintf("__spacer_%d__", seq),
		Kind: KindSpacer,
	}
}

// NewSectionHeader creates a non-expandable label node.
func NewSectionHeader(id, name string) *Node {
	return &Node{
		ID:   id,
		Name: name,
		Kind: KindSectionHeader,
	}
}
