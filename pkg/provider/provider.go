// Package provider defines the content-source contract for the ring engine.
//
// A provider owns its backing data and may resync it on its own schedule;
// the engine only sees new data after Refresh. Providers never compute
// geometry - they supply node trees and the engine does the rest.
package provider

import (
	"context"

	"github.com/timothyvelberg/ringmenu/pkg/node"
)

// DisplayMode controls how a provider's contribution joins the root ring.
type DisplayMode string

const (
	// ModeParent keeps the provider's category wrapper intact as an
	// expandable item.
	ModeParent DisplayMode = "parent"
	// ModeDirect unwraps the category wrapper: its children are spliced
	// directly into the root ring, separated from neighboring direct
	// providers by spacers.
	ModeDirect DisplayMode = "direct"
)

// Provider is a content source for the ring engine.
type Provider interface {
	// ID returns the provider's stable identifier.
	ID() string

	// Provide returns the provider's current node tree. The returned
	// nodes are an immutable snapshot: the engine never mutates them and
	// the provider must not either once handed out.
	Provide() []*node.Node

	// Refresh resyncs the provider's backing data before the next
	// Provide call.
	Refresh(ctx context.Context) error
}

// ChildLoader is implemented by providers that emit nodes flagged for
// dynamic loading. The engine calls LoadChildren instead of reading the
// node's Children field.
type ChildLoader interface {
	// LoadChildren fetches the children of a dynamically loading node.
	LoadChildren(ctx context.Context, n *node.Node) ([]*node.Node, error)
}

// DefaultMode is implemented by providers that declare a preferred
// display mode. Providers without it default to ModeParent.
type DefaultMode interface {
	DefaultDisplayMode() DisplayMode
}
