package engine

import (
	"context"

	"github.com/timothyvelberg/ringmenu/pkg/errors"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/observability"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

// =============================================================================
// Navigation Transitions
// =============================================================================

// NavigateInto descends into a branch node: the node is pushed onto the
// navigation stack and its children become the new root ring. Leaf nodes
// and invalid coordinates are ignored.
func (e *Engine) NavigateInto(ctx context.Context, level, index int) {
	e.mu.Lock()
	n, ok := e.nodeAt(level, index)
	if !ok || !n.IsBranch() || len(n.Children) == 0 {
		e.mu.Unlock()
		e.logger.Debug("navigate into ignored", "level", level, "index", index)
		observability.Engine().OnNavigate(ctx, "navigateInto", level, index, false)
		return
	}

	e.navStack = append(e.navStack, n)
	e.rebuildRingsLocked(-1)
	e.mu.Unlock()

	observability.Engine().OnNavigate(ctx, "navigateInto", level, index, true)
	e.notify()
}

// NavigateBack pops one navigation level. At the top level it does
// nothing.
func (e *Engine) NavigateBack(ctx context.Context) {
	e.mu.Lock()
	if len(e.navStack) == 0 {
		e.mu.Unlock()
		observability.Engine().OnNavigate(ctx, "navigateBack", 0, 0, false)
		return
	}

	// Re-select the node we came from so the rebuilt ring re-expands
	// around it.
	departed := e.navStack[len(e.navStack)-1]
	e.navStack = e.navStack[:len(e.navStack)-1]
	e.rebuildRingsLocked(e.indexOfLocked(departed))
	e.mu.Unlock()

	observability.Engine().OnNavigate(ctx, "navigateBack", 0, 0, true)
	e.notify()
}

// rebuildRingsLocked rebuilds the ring stack from the navigation stack.
// selectIndex, when valid in the rebuilt root ring, carries the previous
// selection across, and a selected branch with children re-expands into a
// second ring automatically.
func (e *Engine) rebuildRingsLocked(selectIndex int) {
	source := e.rootNodes
	providerID, contentID := "", ""
	if len(e.navStack) > 0 {
		top := e.navStack[len(e.navStack)-1]
		source = top.Children
		providerID = top.ProviderID
		contentID = top.ContentID()
	}

	capped := e.capRootLocked(source)
	root := newRingState(capped, providerID, contentID)
	e.rings = []*RingState{root}
	e.activeLevel = 0
	e.bump()

	if selectIndex >= 0 && selectIndex < len(capped) {
		root.Selected = selectIndex
		sel := capped[selectIndex]
		if sel.IsBranch() && len(sel.Children) > 0 {
			e.appendChildRingLocked(0, selectIndex, sel.Children, false)
		}
	}
}

// indexOfLocked finds a node's index in the ring stack that the pending
// rebuild will produce, or -1.
func (e *Engine) indexOfLocked(target *node.Node) int {
	source := e.rootNodes
	if len(e.navStack) > 0 {
		source = e.navStack[len(e.navStack)-1].Children
	}
	for i, n := range source {
		if n == target {
			return i
		}
	}
	return -1
}

// capRootLocked applies the root overflow cap with a hook report.
func (e *Engine) capRootLocked(nodes []*node.Node) []*node.Node {
	capped := e.calc.CapRoot(nodes)
	if len(capped) < len(nodes) {
		observability.Engine().OnOverflow(context.Background(), 0, len(nodes)-len(capped)+1)
	}
	return capped
}

// ExpandCategory opens a child ring for an eagerly-loaded branch node at
// (level, index). Rings beyond level are dropped first. byClick marks the
// new ring sticky against hover changes.
func (e *Engine) ExpandCategory(ctx context.Context, level, index int, byClick bool) error {
	e.mu.Lock()
	n, ok := e.nodeAt(level, index)
	if !ok {
		e.mu.Unlock()
		observability.Engine().OnNavigate(ctx, "expandCategory", level, index, false)
		return errors.New(errors.ErrCodeInvalidIndex, "no node at ring %d index %d", level, index)
	}
	if !n.IsBranch() || len(n.Children) == 0 {
		e.mu.Unlock()
		e.logger.Debug("expand ignored for leaf", "level", level, "index", index, "node", n.ID)
		observability.Engine().OnNavigate(ctx, "expandCategory", level, index, false)
		return nil
	}

	e.appendChildRingLocked(level, index, n.Children, byClick)
	e.mu.Unlock()

	observability.Engine().OnNavigate(ctx, "expandCategory", level, index, true)
	e.notify()
	return nil
}

// appendChildRingLocked drops rings beyond level, selects (level, index),
// and appends a capped child ring for children. Ancestor rings below the
// expansion origin collapse into breadcrumbs.
func (e *Engine) appendChildRingLocked(level, index int, children []*node.Node, byClick bool) {
	e.rings = e.rings[:level+1]
	parent := e.rings[level]
	parent.Selected = index
	parent.Collapsed = false
	for i := 0; i < level; i++ {
		e.rings[i].Collapsed = true
	}

	n := parent.Nodes[index]
	middle := e.nextMiddleRadiusLocked()
	capped := e.calc.CapRing(children, middle, level+1)
	if len(capped) < len(children) {
		observability.Engine().OnOverflow(context.Background(), level+1, len(children)-len(capped)+1)
	}

	child := newRingState(capped, n.ProviderID, n.ContentID())
	child.OpenedByClick = byClick
	e.rings = append(e.rings, child)
	e.activeLevel = level + 1
	e.bump()
}

// CollapseToRing drops every ring beyond level and un-collapses the
// target, returning focus to it.
func (e *Engine) CollapseToRing(ctx context.Context, level int) error {
	e.mu.Lock()
	if level < 0 || level >= len(e.rings) {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeRingNotFound, "no ring at level %d", level)
	}

	e.rings = e.rings[:level+1]
	target := e.rings[level]
	target.Collapsed = false
	target.OpenedByClick = false
	e.activeLevel = level
	e.bump()
	e.mu.Unlock()

	observability.Engine().OnNavigate(ctx, "collapseToRing", level, 0, true)
	e.notify()
	return nil
}

// ClearClickExpansion releases a click-sticky ring once the pointer
// crosses back over the originating slice boundary.
func (e *Engine) ClearClickExpansion(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if level < 0 || level >= len(e.rings) {
		return
	}
	e.rings[level].OpenedByClick = false
}

// =============================================================================
// Dynamic Loading
// =============================================================================

// NavigateIntoFolder expands a lazily-loaded branch at (level, index).
// The provider fetch runs outside the engine lock; the result is dropped
// if the stack mutated under it. While one load is in flight, further
// dynamic loads are dropped, not queued.
func (e *Engine) NavigateIntoFolder(ctx context.Context, level, index int) error {
	e.mu.Lock()
	n, ok := e.nodeAt(level, index)
	if !ok {
		e.mu.Unlock()
		return errors.New(errors.ErrCodeInvalidIndex, "no node at ring %d index %d", level, index)
	}
	if !n.NeedsLoading {
		e.mu.Unlock()
		return e.ExpandCategory(ctx, level, index, true)
	}
	if e.loading {
		e.mu.Unlock()
		e.logger.Debug("dropping dynamic load, one already in flight",
			"level", level, "index", index, "node", n.ID)
		observability.Engine().OnNavigate(ctx, "navigateIntoFolder", level, index, false)
		return nil
	}

	loader, err := e.loaderForLocked(n)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	gen := e.generation
	e.loading = true
	e.mu.Unlock()

	children, err := loader.LoadChildren(ctx, n)

	e.mu.Lock()
	e.loading = false
	if err != nil {
		e.mu.Unlock()
		return errors.Wrap(errors.ErrCodeProvider, err, "loading children of %q", n.ID)
	}
	if e.generation != gen {
		e.mu.Unlock()
		e.logger.Debug("dropping stale load result", "node", n.ID)
		observability.Engine().OnStaleResult(ctx, n.ProviderID, n.ContentID())
		return nil
	}
	if got, ok := e.nodeAt(level, index); !ok || got != n {
		e.mu.Unlock()
		observability.Engine().OnStaleResult(ctx, n.ProviderID, n.ContentID())
		return nil
	}

	e.appendChildRingLocked(level, index, children, true)
	e.mu.Unlock()

	observability.Engine().OnNavigate(ctx, "navigateIntoFolder", level, index, true)
	e.notify()
	return nil
}

// loaderForLocked resolves the child loader behind a lazily-loaded node.
func (e *Engine) loaderForLocked(n *node.Node) (provider.ChildLoader, error) {
	reg, ok := e.byID[n.ProviderID]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidProvider,
			"node %q references unregistered provider %q", n.ID, n.ProviderID)
	}
	loader, ok := reg.provider.(provider.ChildLoader)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"provider %q cannot load children", n.ProviderID)
	}
	return loader, nil
}

// =============================================================================
// Hover, Selection, Clicks
// =============================================================================

// HoverNode moves hover to (level, index), firing the previous node's
// hover-exit and the new node's hover-enter callbacks. Index -1 clears
// hover. Spacers and invalid coordinates are ignored.
func (e *Engine) HoverNode(ctx context.Context, level, index int) {
	e.mu.Lock()
	if level < 0 || level >= len(e.rings) {
		e.mu.Unlock()
		e.logger.Debug("hover ignored", "level", level, "index", index)
		return
	}
	r := e.rings[level]
	if index < -1 || index >= len(r.Nodes) {
		e.mu.Unlock()
		e.logger.Debug("hover ignored", "level", level, "index", index)
		return
	}
	if index >= 0 && r.Nodes[index].IsSpacer() {
		e.mu.Unlock()
		return
	}
	if r.Hovered == index {
		e.mu.Unlock()
		return
	}

	var exit, enter func(context.Context)
	if r.Hovered >= 0 && r.Hovered < len(r.Nodes) {
		exit = r.Nodes[r.Hovered].OnHoverExit
	}
	if index >= 0 {
		enter = r.Nodes[index].OnHoverEnter
	}
	r.Hovered = index
	e.mu.Unlock()

	if exit != nil {
		exit(ctx)
	}
	if enter != nil {
		enter(ctx)
	}
	e.notify()
}

// SelectNode moves the selection on a ring. Spacers and invalid
// coordinates are ignored.
func (e *Engine) SelectNode(level, index int) {
	e.mu.Lock()
	if level < 0 || level >= len(e.rings) {
		e.mu.Unlock()
		return
	}
	r := e.rings[level]
	if index < -1 || index >= len(r.Nodes) {
		e.mu.Unlock()
		return
	}
	if index >= 0 && r.Nodes[index].IsSpacer() {
		e.mu.Unlock()
		return
	}
	if r.Selected == index {
		e.mu.Unlock()
		return
	}
	r.Selected = index
	e.mu.Unlock()

	e.notify()
}

// Click dispatches a button press on (level, index) through the node's
// behavior table. The returned close flag tells the caller whether the
// menu should dismiss.
func (e *Engine) Click(ctx context.Context, level, index int, button node.Button) (closeMenu bool, err error) {
	e.mu.Lock()
	n, ok := e.nodeAt(level, index)
	e.mu.Unlock()
	if !ok {
		return false, errors.New(errors.ErrCodeInvalidIndex, "no node at ring %d index %d", level, index)
	}
	if n.IsSpacer() {
		return false, nil
	}

	b := n.Handlers.For(button)
	switch b.Kind {
	case node.Expand:
		if n.NeedsLoading {
			return false, e.NavigateIntoFolder(ctx, level, index)
		}
		return false, e.ExpandCategory(ctx, level, index, true)
	case node.Execute:
		if b.Action != nil {
			if err := b.Action(ctx); err != nil {
				return false, errors.Wrap(errors.ErrCodeProvider, err, "executing %q", n.ID)
			}
		}
		return true, nil
	case node.ExecuteKeepOpen:
		if b.Action != nil {
			if err := b.Action(ctx); err != nil {
				return false, errors.Wrap(errors.ErrCodeProvider, err, "executing %q", n.ID)
			}
		}
		return false, nil
	default:
		return false, nil
	}
}
