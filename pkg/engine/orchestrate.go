package engine

import (
	"context"

	"github.com/timothyvelberg/ringmenu/pkg/errors"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/observability"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

// =============================================================================
// Provider Orchestration
// =============================================================================

// LoadFunctions refreshes every registered provider and rebuilds the root
// ring from their combined contributions. A provider whose refresh fails
// is logged and contributes nothing; the call only errors when no
// provider contributed at all.
func (e *Engine) LoadFunctions(ctx context.Context) error {
	e.mu.Lock()
	regs := make([]registration, len(e.providers))
	copy(regs, e.providers)
	e.mu.Unlock()

	if len(regs) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "no providers registered")
	}

	// Refreshes do IO and run outside the lock.
	fresh := make(map[string][]*node.Node, len(regs))
	failed := 0
	for _, reg := range regs {
		nodes, err := e.refreshContribution(ctx, reg)
		if err != nil {
			failed++
			e.logger.Warn("provider refresh failed",
				"provider", reg.provider.ID(), "error", err)
			continue
		}
		fresh[reg.provider.ID()] = nodes
	}
	if failed == len(regs) {
		return errors.New(errors.ErrCodeProvider, "all %d providers failed to refresh", failed)
	}

	e.mu.Lock()
	e.contributions = fresh
	e.rootNodes = e.combineLocked()
	e.navStack = nil
	e.rebuildRingsLocked(-1)
	e.mu.Unlock()

	e.notify()
	return nil
}

// refreshContribution refreshes one provider and returns its
// display-mode-transformed node list.
func (e *Engine) refreshContribution(ctx context.Context, reg registration) ([]*node.Node, error) {
	if err := reg.provider.Refresh(ctx); err != nil {
		return nil, err
	}
	return transformMode(reg.mode, reg.provider.ID(), reg.provider.Provide()), nil
}

// transformMode applies a provider's display mode. Parent mode keeps the
// provider's nodes as-is, typically a single category wrapper. Direct
// mode splices eagerly-loaded top-level categories inline so their items
// sit on the root ring themselves; spliced children that carry no
// provider tag of their own are re-tagged with the owning provider's id
// so targeted updates and dynamic loads still route to it.
func transformMode(mode provider.DisplayMode, providerID string, provided []*node.Node) []*node.Node {
	if mode != provider.ModeDirect {
		return provided
	}
	out := make([]*node.Node, 0, len(provided))
	for _, n := range provided {
		if n.Kind == node.KindCategory && len(n.Children) > 0 && !n.NeedsLoading {
			for _, c := range n.Children {
				out = append(out, retag(c, providerID))
			}
			continue
		}
		out = append(out, n)
	}
	return out
}

// retag stamps providerID onto an untagged node. The provider's own tree
// stays untouched: a tag is added on a shallow copy.
func retag(n *node.Node, providerID string) *node.Node {
	if n.ProviderID != "" {
		return n
	}
	c := *n
	c.ProviderID = providerID
	return &c
}

// combineLocked concatenates provider contributions in registration
// order. Adjacent direct-mode contributions get a spacer between them,
// and when the list both starts and ends with direct segments the
// circular wrap-around junction gets one too. Parent-mode wrappers act
// as their own visual delimiters.
func (e *Engine) combineLocked() []*node.Node {
	var out []*node.Node
	seq := 0
	lastDirect := false
	firstDirect := false
	first := true
	directSegments := 0

	for _, reg := range e.providers {
		contrib := e.contributions[reg.provider.ID()]
		if len(contrib) == 0 {
			continue
		}
		direct := reg.mode == provider.ModeDirect
		if direct {
			directSegments++
		}
		if first {
			firstDirect = direct
			first = false
		}
		if direct && lastDirect {
			out = append(out, node.NewSpacer(seq))
			seq++
		}
		out = append(out, contrib...)
		lastDirect = direct
	}

	if lastDirect && firstDirect && directSegments > 1 {
		out = append(out, node.NewSpacer(seq))
	}
	return out
}

// =============================================================================
// Targeted Updates
// =============================================================================

// rooted is implemented by providers anchored at a content root, like the
// folder provider.
type rooted interface {
	Root() string
}

// UpdateRing applies an external content change to the single ring
// displaying (providerID, contentID). A change to invisible content is a
// no-op. The matched ring keeps its angular layout when the item count
// is unchanged, and a still-valid selection re-expands its child ring.
func (e *Engine) UpdateRing(ctx context.Context, providerID, contentID string) error {
	e.mu.Lock()
	reg, ok := e.byID[providerID]
	if !ok {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidProvider, "unknown provider %q", providerID)
	}

	matched := -1
	for i, r := range e.rings {
		if r.ProviderID == providerID && r.ContentID == contentID {
			matched = i
			break
		}
	}

	if matched > 0 {
		return e.updateChildRingLocked(ctx, reg, matched, contentID)
	}
	if matched == 0 || e.isRootContentLocked(reg, contentID) {
		return e.updateRootLocked(ctx, reg)
	}

	e.mu.Unlock()
	e.logger.Debug("update for invisible content ignored",
		"provider", providerID, "content", contentID)
	return nil
}

// isRootContentLocked reports whether contentID belongs to the
// provider's root-ring contribution: either the provider's declared root
// or one of its contributed top-level nodes.
func (e *Engine) isRootContentLocked(reg registration, contentID string) bool {
	if r, ok := reg.provider.(rooted); ok && r.Root() == contentID {
		return true
	}
	for _, n := range e.contributions[reg.provider.ID()] {
		if n.ContentID() == contentID {
			return true
		}
	}
	return false
}

// updateRootLocked refreshes one provider's contribution and rebuilds
// the visible stack around it. Called with the lock held; releases it.
func (e *Engine) updateRootLocked(ctx context.Context, reg registration) error {
	gen := e.generation
	prevSelected := -1
	if len(e.rings) > 0 {
		prevSelected = e.rings[0].Selected
	}
	var selectedID string
	if n, ok := e.nodeAt(0, prevSelected); ok {
		selectedID = n.ID
	}
	stackIDs := navStackIDs(e.navStack)
	e.mu.Unlock()

	fresh, err := e.refreshContribution(ctx, reg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProvider, err, "refreshing provider %q", reg.provider.ID())
	}

	e.mu.Lock()
	if e.generation != gen {
		e.mu.Unlock()
		e.logger.Debug("dropping stale root update", "provider", reg.provider.ID())
		observability.Engine().OnStaleResult(ctx, reg.provider.ID(), "")
		return nil
	}

	e.contributions[reg.provider.ID()] = fresh
	e.rootNodes = e.combineLocked()

	// Repair the navigation stack against the new tree; a path that no
	// longer exists falls back to the root. The selection is resolved
	// against the overflow-capped list the rebuilt ring will actually
	// show: a node folded behind the More slice loses its selection
	// rather than handing it to whatever sits at its old index.
	e.navStack = resolveStack(e.rootNodes, stackIDs)
	e.rebuildRingsLocked(indexOfID(e.calc.CapRoot(e.currentSourceLocked()), selectedID))
	e.mu.Unlock()

	e.notify()
	return nil
}

// currentSourceLocked returns the node list the root ring is built from.
func (e *Engine) currentSourceLocked() []*node.Node {
	if len(e.navStack) > 0 {
		return e.navStack[len(e.navStack)-1].Children
	}
	return e.rootNodes
}

// updateChildRingLocked reloads a dynamically-loaded child ring in
// place. Called with the lock held; releases it around the fetch.
func (e *Engine) updateChildRingLocked(ctx context.Context, reg registration, level int, contentID string) error {
	parentRing := e.rings[level-1]
	parentNode, ok := e.nodeAt(level-1, parentRing.Selected)
	if !ok || parentNode.ContentID() != contentID {
		e.mu.Unlock()
		e.logger.Debug("child ring parent no longer selected, update ignored",
			"level", level, "content", contentID)
		return nil
	}
	loader, ok := reg.provider.(provider.ChildLoader)
	if !ok {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeUnsupported,
			"provider %q cannot load children", reg.provider.ID())
	}

	// Deeper rings show content that may no longer exist; close them
	// before the fetch.
	e.rings = e.rings[:level+1]
	e.activeLevel = level
	e.bump()
	gen := e.generation
	e.mu.Unlock()

	children, err := loader.LoadChildren(ctx, parentNode)

	e.mu.Lock()
	if err != nil {
		e.mu.Unlock()
		return errors.Wrap(errors.ErrCodeProvider, err, "reloading %q", contentID)
	}
	if e.generation != gen || level >= len(e.rings) {
		e.mu.Unlock()
		e.logger.Debug("dropping stale ring update", "content", contentID)
		observability.Engine().OnStaleResult(ctx, reg.provider.ID(), contentID)
		return nil
	}

	r := e.rings[level]
	bands := e.bandsLocked()
	middle := bands[level].start + bands[level].thickness/2
	capped := e.calc.CapRing(children, middle, level)

	prevSelectedID := ""
	if n, ok := e.nodeAt(level, r.Selected); ok {
		prevSelectedID = n.ID
	}

	sameCount := len(capped) == len(r.Nodes)
	r.Nodes = capped
	if !sameCount {
		r.Slice = nil
	}
	r.Hovered = -1
	r.Selected = indexOfID(capped, prevSelectedID)
	e.bump()

	// Re-expand a surviving branch selection.
	if sel, ok := e.nodeAt(level, r.Selected); ok && sel.IsBranch() && len(sel.Children) > 0 {
		e.appendChildRingLocked(level, r.Selected, sel.Children, r.OpenedByClick)
	}
	e.mu.Unlock()

	e.notify()
	return nil
}

// navStackIDs snapshots the navigation path as node IDs.
func navStackIDs(stack []*node.Node) []string {
	ids := make([]string, len(stack))
	for i, n := range stack {
		ids[i] = n.ID
	}
	return ids
}

// resolveStack re-walks a path of node IDs against a fresh tree,
// returning the longest resolvable prefix.
func resolveStack(root []*node.Node, ids []string) []*node.Node {
	var stack []*node.Node
	source := root
	for _, id := range ids {
		idx := indexOfID(source, id)
		if idx < 0 {
			break
		}
		n := source[idx]
		stack = append(stack, n)
		source = n.Children
	}
	return stack
}

// indexOfID finds a node by ID in a list, or -1. An empty ID never
// matches.
func indexOfID(nodes []*node.Node, id string) int {
	if id == "" {
		return -1
	}
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
