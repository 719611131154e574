package engine

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/timothyvelberg/ringmenu/pkg/hittest"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/observability"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
)

// fsProvider is a stub folder-style provider: it serves a fixed tree and
// loads children through a swappable function.
type fsProvider struct {
	id    string
	root  string
	nodes []*node.Node
	load  func(ctx context.Context, n *node.Node) ([]*node.Node, error)
}

func (p *fsProvider) ID() string                        { return p.id }
func (p *fsProvider) Provide() []*node.Node             { return p.nodes }
func (p *fsProvider) Refresh(ctx context.Context) error { return nil }
func (p *fsProvider) Root() string                      { return p.root }

func (p *fsProvider) LoadChildren(ctx context.Context, n *node.Node) ([]*node.Node, error) {
	return p.load(ctx, n)
}

func newFSEngine(t *testing.T, p *fsProvider) *Engine {
	t.Helper()
	eng := New(Options{})
	eng.Register(p, provider.ModeDirect)
	if err := eng.LoadFunctions(context.Background()); err != nil {
		t.Fatalf("LoadFunctions: %v", err)
	}
	return eng
}

func docsProvider() *fsProvider {
	return &fsProvider{
		id:   "fs",
		root: "/home",
		nodes: []*node.Node{
			node.NewFolder("docs", "Docs", "fs", "/home/docs"),
			node.NewAction("readme", "Readme", nil),
		},
		load: func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
			return leaves("d", 4), nil
		},
	}
}

// =============================================================================
// Dynamic Loading
// =============================================================================

func TestNavigateIntoFolder(t *testing.T) {
	eng := newFSEngine(t, docsProvider())

	if err := eng.NavigateIntoFolder(context.Background(), 0, 0); err != nil {
		t.Fatalf("NavigateIntoFolder: %v", err)
	}

	rings := eng.GetRingConfigurations()
	if len(rings) != 2 {
		t.Fatalf("RingCount = %d, want 2", len(rings))
	}
	if len(rings[1].Nodes) != 4 || rings[1].Nodes[0].ID != "d0" {
		t.Error("child ring should show the loaded children")
	}
	if eng.ActiveLevel() != 1 {
		t.Errorf("ActiveLevel = %d, want 1", eng.ActiveLevel())
	}
}

func TestNavigateIntoFolderEagerFallback(t *testing.T) {
	eng := newFSEngine(t, docsProvider())

	// Index 1 is an eager leaf: the call degrades to ExpandCategory,
	// which ignores leaves.
	if err := eng.NavigateIntoFolder(context.Background(), 0, 1); err != nil {
		t.Fatalf("NavigateIntoFolder on eager node: %v", err)
	}
	if eng.RingCount() != 1 {
		t.Errorf("RingCount = %d, want 1", eng.RingCount())
	}
}

func TestNavigateIntoFolderLoadError(t *testing.T) {
	p := docsProvider()
	p.load = func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
		return nil, fmt.Errorf("permission denied")
	}
	eng := newFSEngine(t, p)

	if err := eng.NavigateIntoFolder(context.Background(), 0, 0); err == nil {
		t.Error("expected load error to surface")
	}
	if eng.RingCount() != 1 {
		t.Errorf("RingCount = %d, want 1 after failed load", eng.RingCount())
	}
}

func TestNavigateIntoFolderDropsStaleResult(t *testing.T) {
	p := docsProvider()
	var eng *Engine
	p.load = func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
		// Mutate the stack mid-flight: the fetched children must be
		// discarded instead of attaching to the rebuilt stack.
		if err := eng.LoadFunctions(ctx); err != nil {
			t.Errorf("concurrent rebuild: %v", err)
		}
		return leaves("d", 4), nil
	}
	eng = newFSEngine(t, p)

	if err := eng.NavigateIntoFolder(context.Background(), 0, 0); err != nil {
		t.Fatalf("NavigateIntoFolder: %v", err)
	}
	if eng.RingCount() != 1 {
		t.Errorf("RingCount = %d, want 1 (stale result dropped)", eng.RingCount())
	}
}

func TestNavigateIntoFolderDropsConcurrentLoad(t *testing.T) {
	p := docsProvider()
	var eng *Engine
	var innerErr error
	innerRan := false
	p.load = func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
		if !innerRan {
			innerRan = true
			// A second dynamic load while one is in flight is dropped,
			// not queued.
			innerErr = eng.NavigateIntoFolder(ctx, 0, 0)
		}
		return leaves("d", 4), nil
	}
	eng = newFSEngine(t, p)

	if err := eng.NavigateIntoFolder(context.Background(), 0, 0); err != nil {
		t.Fatalf("NavigateIntoFolder: %v", err)
	}
	if innerErr != nil {
		t.Errorf("dropped load returned %v, want nil", innerErr)
	}
	if eng.RingCount() != 2 {
		t.Errorf("RingCount = %d, want 2 from the original load", eng.RingCount())
	}
}

func TestNavigateIntoFolderUnknownProvider(t *testing.T) {
	p := docsProvider()
	p.nodes = []*node.Node{node.NewFolder("ghost", "Ghost", "nobody", "/ghost")}
	eng := newFSEngine(t, p)

	if err := eng.NavigateIntoFolder(context.Background(), 0, 0); err == nil {
		t.Error("expected error for unregistered provider reference")
	}
}

// =============================================================================
// Targeted Updates
// =============================================================================

func TestUpdateRingUnknownProvider(t *testing.T) {
	eng := newFSEngine(t, docsProvider())
	if err := eng.UpdateRing(context.Background(), "nobody", "/x"); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestUpdateRingRefreshesRoot(t *testing.T) {
	p := docsProvider()
	eng := newFSEngine(t, p)

	p.nodes = []*node.Node{
		node.NewFolder("docs", "Docs", "fs", "/home/docs"),
		node.NewAction("readme", "Readme", nil),
		node.NewAction("notes", "Notes", nil),
	}
	if err := eng.UpdateRing(context.Background(), "fs", "/home"); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}

	nodes := ringNodes(t, eng, 0)
	if len(nodes) != 3 {
		t.Fatalf("root ring has %d nodes, want 3 after refresh", len(nodes))
	}
	if nodes[2].ID != "notes" {
		t.Errorf("new node missing, got %q", nodes[2].ID)
	}
}

func TestUpdateRingPreservesSelectionByID(t *testing.T) {
	p := docsProvider()
	eng := newFSEngine(t, p)
	eng.SelectNode(0, 1) // "readme"

	p.nodes = []*node.Node{
		node.NewAction("notes", "Notes", nil),
		node.NewFolder("docs", "Docs", "fs", "/home/docs"),
		node.NewAction("readme", "Readme", nil),
	}
	if err := eng.UpdateRing(context.Background(), "fs", "/home"); err != nil {
		t.Fatal(err)
	}

	if got := eng.GetRingConfigurations()[0].SelectedIndex; got != 2 {
		t.Errorf("SelectedIndex = %d, want 2 (readme followed by ID)", got)
	}
}

func TestUpdateRingInvisibleContentIgnored(t *testing.T) {
	p := docsProvider()
	eng := newFSEngine(t, p)
	before := eng.Generation()

	if err := eng.UpdateRing(context.Background(), "fs", "/somewhere/else"); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}
	if eng.Generation() != before {
		t.Error("update for invisible content should not touch the stack")
	}
}

func TestUpdateRingReloadsChildRing(t *testing.T) {
	p := docsProvider()
	eng := newFSEngine(t, p)
	ctx := context.Background()
	if err := eng.NavigateIntoFolder(ctx, 0, 0); err != nil {
		t.Fatal(err)
	}

	p.load = func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
		return leaves("e", 4), nil
	}
	if err := eng.UpdateRing(ctx, "fs", "/home/docs"); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}

	rings := eng.GetRingConfigurations()
	if len(rings) != 2 {
		t.Fatalf("RingCount = %d, want 2", len(rings))
	}
	if rings[1].Nodes[0].ID != "e0" {
		t.Error("child ring should show the reloaded children")
	}
	if rings[1].HoveredIndex != -1 {
		t.Error("hover should reset on reload")
	}
}

func TestUpdateRingChildParentDeselected(t *testing.T) {
	p := docsProvider()
	eng := newFSEngine(t, p)
	ctx := context.Background()
	if err := eng.NavigateIntoFolder(ctx, 0, 0); err != nil {
		t.Fatal(err)
	}
	eng.SelectNode(0, 1) // move the parent selection off the folder

	reloaded := false
	p.load = func(ctx context.Context, n *node.Node) ([]*node.Node, error) {
		reloaded = true
		return leaves("e", 2), nil
	}
	if err := eng.UpdateRing(ctx, "fs", "/home/docs"); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}
	if reloaded {
		t.Error("deselected child ring should not reload")
	}
}

func TestUpdateRingRecomputesImposedChildAngle(t *testing.T) {
	p := &stubProvider{id: "apps", nodes: wrapped("apps-root", leaves("c", 2))}
	eng := New(Options{})
	eng.Register(p, provider.ModeParent)
	ctx := context.Background()
	if err := eng.LoadFunctions(ctx); err != nil {
		t.Fatalf("LoadFunctions: %v", err)
	}
	if err := eng.ExpandCategory(ctx, 0, 0, false); err != nil {
		t.Fatalf("ExpandCategory: %v", err)
	}

	if got := eng.GetRingConfigurations()[1].Slice.ItemAngle; got != 30 {
		t.Fatalf("initial child ItemAngle = %v, want 30", got)
	}

	// Same ids and counts, but the wrapper now imposes a per-item angle
	// on its children. The refresh must reach the child ring's layout.
	fresh := wrapped("apps-root", leaves("c", 2))
	fresh[0].ChildItemAngle = 80
	p.nodes = fresh
	if err := eng.UpdateRing(ctx, "apps", ""); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}

	rings := eng.GetRingConfigurations()
	if len(rings) != 2 {
		t.Fatalf("RingCount = %d, want 2", len(rings))
	}
	cfg := rings[1].Slice
	if cfg.AngleOf(0) != 80 || cfg.AngleOf(1) != 80 {
		t.Errorf("child angles = %v/%v (ItemAngle=%v ItemAngles=%v), want 80/80",
			cfg.AngleOf(0), cfg.AngleOf(1), cfg.ItemAngle, cfg.ItemAngles)
	}
}

func TestUpdateRingDropsSelectionFoldedBehindMore(t *testing.T) {
	p := &stubProvider{id: "apps", nodes: wrapped("apps-root", leaves("g", 40))}
	eng := New(Options{})
	eng.Register(p, provider.ModeDirect)
	ctx := context.Background()
	if err := eng.LoadFunctions(ctx); err != nil {
		t.Fatalf("LoadFunctions: %v", err)
	}
	eng.SelectNode(0, 5) // "g5"

	// Reorder so g5's index in the uncapped list coincides with the More
	// slice's position in the capped ring.
	reordered := make([]*node.Node, 0, 40)
	for i := 0; i < 40; i++ {
		if i == 5 {
			continue
		}
		reordered = append(reordered, node.NewAction(fmt.Sprintf("g%d", i), fmt.Sprintf("g%d", i), nil))
	}
	g5 := node.NewAction("g5", "g5", nil)
	reordered = append(reordered[:23], append([]*node.Node{g5}, reordered[23:]...)...)
	p.nodes = wrapped("apps-root", reordered)

	if err := eng.UpdateRing(ctx, "apps", ""); err != nil {
		t.Fatalf("UpdateRing: %v", err)
	}

	if eng.RingCount() != 1 {
		t.Fatalf("RingCount = %d, want 1 (More slice must not auto-expand)", eng.RingCount())
	}
	if got := eng.GetRingConfigurations()[0].SelectedIndex; got != -1 {
		t.Errorf("SelectedIndex = %d, want -1 (g5 folded behind More)", got)
	}
}

// =============================================================================
// Layout Memo
// =============================================================================

type layoutRecorder struct {
	observability.NoopEngineHooks
	cached []bool
}

func (r *layoutRecorder) OnLayout(_ context.Context, _ int, cached bool, _ time.Duration) {
	r.cached = append(r.cached, cached)
}

func TestLayoutMemo(t *testing.T) {
	rec := &layoutRecorder{}
	observability.SetEngineHooks(rec)
	defer observability.Reset()

	eng := newTestEngine(t, withDirect("apps", nestedTree()))
	ctx := context.Background()

	eng.GetRingConfigurations()
	if len(rec.cached) != 1 || rec.cached[0] {
		t.Fatalf("first layout = %v, want one uncached computation", rec.cached)
	}

	// Hover is not structural: no relayout at all.
	eng.HoverNode(ctx, 0, 0)
	eng.GetRingConfigurations()
	if len(rec.cached) != 1 {
		t.Fatalf("hover triggered relayout: %v", rec.cached)
	}

	// Expansion is structural: a fresh computation.
	if err := eng.ExpandCategory(ctx, 0, 0, false); err != nil {
		t.Fatal(err)
	}
	eng.GetRingConfigurations()
	if len(rec.cached) != 2 || rec.cached[1] {
		t.Fatalf("expanded layout = %v, want second uncached computation", rec.cached)
	}

	// Returning to a previously seen shape hits the memo.
	if err := eng.CollapseToRing(ctx, 0); err != nil {
		t.Fatal(err)
	}
	eng.GetRingConfigurations()
	if len(rec.cached) != 3 || !rec.cached[2] {
		t.Fatalf("revisited layout = %v, want memo hit", rec.cached)
	}
}

// =============================================================================
// Hit Resolution
// =============================================================================

func TestGetItemAt(t *testing.T) {
	eng := newTestEngine(t, withDirect("apps", leaves("a", 4)))
	center := hittest.Point{X: 500, Y: 500}

	at := func(distance, angle float64) hittest.Point {
		rad := angle * math.Pi / 180
		return hittest.Point{
			X: center.X + distance*math.Sin(rad),
			Y: center.Y - distance*math.Cos(rad),
		}
	}

	// Root ring spans [80, 150] with four 90° items starting at top.
	hit, ok := eng.GetItemAt(at(115, 45), center)
	if !ok {
		t.Fatal("expected a hit at the ring middle")
	}
	if hit.Level != 0 || hit.Index != 0 || hit.Node.ID != "a0" {
		t.Errorf("hit = %+v, want level 0 index 0 a0", hit)
	}

	if hit, ok := eng.GetItemAt(at(115, 200), center); !ok || hit.Index != 2 {
		t.Errorf("hit at 200° = %+v, %v; want index 2", hit, ok)
	}

	if _, ok := eng.GetItemAt(at(20, 45), center); ok {
		t.Error("close zone should resolve to nothing")
	}
	if _, ok := eng.GetItemAt(at(300, 45), center); ok {
		t.Error("beyond the outermost ring should resolve to nothing")
	}
}
