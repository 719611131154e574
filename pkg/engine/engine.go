// Package engine owns the ring stack: the ordered list of concentric
// rings currently on screen, the navigation history behind them, and the
// orchestration of the content providers that feed them.
//
// # Architecture
//
// The engine composes the pure layers underneath it:
//
//  1. Providers supply node trees (pkg/provider)
//  2. The calculator turns node lists into angular layouts (pkg/layout)
//  3. Hit-testing resolves pointer positions (pkg/hittest)
//
// The engine adds the stateful parts: navigation transitions, overflow
// capping, targeted ring refreshes, and a structural layout memo so
// pointer movement never re-runs layout.
//
// # Concurrency
//
// The engine is a single logical owner: every state transition runs under
// one mutex, so no two transitions interleave. Dynamic child loading is
// the only suspension point - the provider fetch happens outside the lock
// and its result is committed only if the generation token captured at
// dispatch still matches. A stale result is a cancellation, not an error.
//
// # Usage
//
//	eng := engine.New(engine.Options{Logger: logger})
//	eng.Register(filesProvider, provider.ModeParent)
//	if err := eng.LoadFunctions(ctx); err != nil { ... }
//
//	rings := eng.GetRingConfigurations()
//	if hit, ok := eng.GetItemAt(pointer, center); ok {
//	    _ = eng.ExpandCategory(hit.Level, hit.Index, false)
//	}
package engine

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/timothyvelberg/ringmenu/pkg/config"
	"github.com/timothyvelberg/ringmenu/pkg/hittest"
	"github.com/timothyvelberg/ringmenu/pkg/layout"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/provider"
	"github.com/timothyvelberg/ringmenu/pkg/slice"
)

// layoutMemoSize bounds the structural layout memo. Ring stacks revisit
// the same shapes constantly (expand, back, expand again), so a small LRU
// captures nearly all recomputation.
const layoutMemoSize = 64

// Options configures a new engine.
type Options struct {
	// Calculator overrides the layout tuning. Nil uses defaults.
	Calculator *layout.Calculator
	// Metrics are the radial dimensions. Zero fields use defaults.
	Metrics config.Metrics
	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// Engine is the ring stack state machine. Create one with New; the zero
// value is not usable.
type Engine struct {
	mu sync.Mutex

	calc    *layout.Calculator
	metrics config.Metrics
	logger  *log.Logger

	providers []registration
	byID      map[string]registration

	// contributions holds each provider's last display-mode-transformed
	// output, so a single provider's refresh can be recombined without
	// re-reading its siblings.
	contributions map[string][]*node.Node

	rootNodes   []*node.Node
	navStack    []*node.Node
	rings       []*RingState
	activeLevel int

	// generation changes on every structural mutation. In-flight child
	// loads capture it at dispatch and drop their result on mismatch.
	generation string
	loading    bool

	memo          *lru.Cache[string, []slice.Config]
	structuralKey string

	listeners []func()
}

type registration struct {
	provider provider.Provider
	mode     provider.DisplayMode
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	calc := opts.Calculator
	if calc == nil {
		calc = layout.NewCalculator(logger)
	}
	metrics := opts.Metrics
	applyMetricDefaults(&metrics)

	memo, _ := lru.New[string, []slice.Config](layoutMemoSize)

	return &Engine{
		calc:          calc,
		metrics:       metrics,
		logger:        logger,
		byID:          make(map[string]registration),
		contributions: make(map[string][]*node.Node),
		generation:    uuid.NewString(),
		memo:          memo,
	}
}

// applyMetricDefaults fills zero metric fields with package config
// defaults so a zero Options value is usable.
func applyMetricDefaults(m *config.Metrics) {
	if m.CloseZone <= 0 {
		m.CloseZone = config.DefaultCloseZone
	}
	if m.BaseRadius <= 0 {
		m.BaseRadius = config.DefaultBaseRadius
	}
	if m.Thickness <= 0 {
		m.Thickness = config.DefaultThickness
	}
	if m.CollapsedThickness <= 0 {
		m.CollapsedThickness = config.DefaultCollapsedThickness
	}
	if m.Gap <= 0 {
		m.Gap = config.DefaultGap
	}
	if m.IconSize <= 0 {
		m.IconSize = config.DefaultIconSize
	}
}

// Register adds a provider at the end of the provider order. An empty
// mode defers to the provider's declared default, falling back to parent
// display.
func (e *Engine) Register(p provider.Provider, mode provider.DisplayMode) {
	if mode == "" {
		if dm, ok := p.(provider.DefaultMode); ok {
			mode = dm.DefaultDisplayMode()
		} else {
			mode = provider.ModeParent
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	reg := registration{provider: p, mode: mode}
	e.providers = append(e.providers, reg)
	e.byID[p.ID()] = reg
}

// OnChange registers a listener invoked after every visible state change.
// Listeners run outside the engine lock and must not block.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// notify invokes the change listeners. Must be called without the lock.
func (e *Engine) notify() {
	e.mu.Lock()
	ls := make([]func(), len(e.listeners))
	copy(ls, e.listeners)
	e.mu.Unlock()

	for _, fn := range ls {
		fn()
	}
}

// bump marks a structural change: new generation, pending relayout.
// Callers must hold the lock.
func (e *Engine) bump() {
	e.generation = uuid.NewString()
}

// nodeAt resolves (level, index) against the current stack.
// Out-of-bounds lookups are the engine's most common degradation path:
// they return false and the caller logs and does nothing.
func (e *Engine) nodeAt(level, index int) (*node.Node, bool) {
	if level < 0 || level >= len(e.rings) {
		return nil, false
	}
	r := e.rings[level]
	if index < 0 || index >= len(r.Nodes) {
		return nil, false
	}
	return r.Nodes[index], true
}

// Generation returns the current generation token. Exposed for tests and
// debugging surfaces.
func (e *Engine) Generation() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// NavigationDepth returns the navigation stack length.
func (e *Engine) NavigationDepth() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.navStack)
}

// ActiveLevel returns the ring currently holding focus.
func (e *Engine) ActiveLevel() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeLevel
}

// RingCount returns the number of rings currently on the stack.
func (e *Engine) RingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.rings)
}

// =============================================================================
// Renderer Contract
// =============================================================================

// RingConfiguration is the renderer-facing description of one ring.
type RingConfiguration struct {
	Level         int          `json:"level"`
	StartRadius   float64      `json:"start_radius"`
	Thickness     float64      `json:"thickness"`
	Nodes         []*node.Node `json:"nodes"`
	SelectedIndex int          `json:"selected_index"`
	HoveredIndex  int          `json:"hovered_index"`
	Collapsed     bool         `json:"collapsed"`
	Slice         slice.Config `json:"slice"`
	IconSize      float64      `json:"icon_size"`
}

// GetRingConfigurations returns the current ring stack ready to draw.
// The slice is a snapshot: the engine will not mutate it afterwards.
func (e *Engine) GetRingConfigurations() []RingConfiguration {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLayoutLocked()
	bands := e.bandsLocked()

	out := make([]RingConfiguration, len(e.rings))
	for i, r := range e.rings {
		cfg := slice.Config{}
		if r.Slice != nil {
			cfg = *r.Slice
		}
		out[i] = RingConfiguration{
			Level:         i,
			StartRadius:   bands[i].start,
			Thickness:     bands[i].thickness,
			Nodes:         r.Nodes,
			SelectedIndex: r.Selected,
			HoveredIndex:  r.Hovered,
			Collapsed:     r.Collapsed,
			Slice:         cfg,
			IconSize:      e.metrics.IconSize,
		}
	}
	return out
}

// ItemHit is a resolved pointer hit.
type ItemHit struct {
	Level int        `json:"level"`
	Index int        `json:"index"`
	Node  *node.Node `json:"node"`
}

// GetItemAt resolves a pointer position against the current layout.
// The boolean is false when the pointer is in the close zone, outside
// every ring, or over an angular gap.
func (e *Engine) GetItemAt(p, center hittest.Point) (ItemHit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.ensureLayoutLocked()
	tester := e.testerLocked()

	hit, ok := tester.AtPoint(p, center)
	if !ok {
		return ItemHit{}, false
	}
	n, ok := e.nodeAt(hit.Level, hit.Index)
	if !ok {
		return ItemHit{}, false
	}
	return ItemHit{Level: hit.Level, Index: hit.Index, Node: n}, true
}

// testerLocked assembles a hit tester from the current layout.
func (e *Engine) testerLocked() *hittest.Tester {
	bands := e.bandsLocked()
	hbands := make([]hittest.Band, 0, len(e.rings))
	for i, r := range e.rings {
		if r.Slice == nil {
			continue
		}
		hbands = append(hbands, hittest.Band{
			Level:       i,
			StartRadius: bands[i].start,
			Thickness:   bands[i].thickness,
			Count:       len(r.Nodes),
			Config:      *r.Slice,
		})
	}
	return &hittest.Tester{CloseZone: e.metrics.CloseZone, Bands: hbands}
}

// =============================================================================
// Ring Geometry
// =============================================================================

type band struct {
	start     float64
	thickness float64
}

// bandsLocked computes the radial footprint of every ring. The root ring
// may have been grown by the comfortable-angle resize; child rings stack
// outward from it.
func (e *Engine) bandsLocked() []band {
	out := make([]band, len(e.rings))
	outer := 0.0
	for i, r := range e.rings {
		var b band
		if i == 0 {
			size := e.ringZeroSizeLocked()
			b.start = size.Radius - size.Thickness/2
			b.thickness = size.Thickness
		} else {
			b.start = outer + e.metrics.Gap
			b.thickness = e.metrics.Thickness
		}
		if r.Collapsed {
			b.thickness = e.metrics.CollapsedThickness
		}
		outer = b.start + b.thickness
		out[i] = b
	}
	return out
}

// ringZeroSizeLocked returns the root ring's resized radial extent.
func (e *Engine) ringZeroSizeLocked() layout.RingSize {
	base := layout.RingSize{
		Radius:    e.metrics.BaseRadius + e.metrics.Thickness/2,
		Thickness: e.metrics.Thickness,
	}
	if len(e.rings) == 0 {
		return base
	}
	return e.calc.OptimalRingZeroSize(len(e.rings[0].Nodes), base)
}

// nextMiddleRadiusLocked returns the middle radius the next appended ring
// would occupy, used to derive its geometric overflow threshold.
func (e *Engine) nextMiddleRadiusLocked() float64 {
	bands := e.bandsLocked()
	outer := 0.0
	if len(bands) > 0 {
		last := bands[len(bands)-1]
		outer = last.start + last.thickness
	} else {
		outer = e.metrics.BaseRadius
	}
	return outer + e.metrics.Gap + e.metrics.Thickness/2
}
