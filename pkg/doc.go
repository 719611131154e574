// Package pkg provides the core libraries for the ringmenu radial menu
// engine.
//
// # Overview
//
// Ringmenu arranges navigable items on concentric rings around a center
// point: providers contribute node trees, the layout calculator assigns
// each item an angular slice, and the engine tracks which rings are open
// and what the pointer is over. Renderers draw whatever the engine
// reports; the engine itself never touches a screen.
//
// # Architecture
//
// The typical data flow:
//
//	Providers (folder listings, static launchers)
//	         ↓
//	    [node] package (node trees + interaction handlers)
//	         ↓
//	    [layout] package (angles, overflow capping, ring sizing)
//	         ↓
//	    [engine] package (ring stack state, navigation, caching)
//	         ↓
//	    JSON/SVG snapshot or HTTP/websocket push
//
// # Quick Start
//
// Build an engine over a folder provider and expand the first branch:
//
//	import (
//	    "context"
//	    "github.com/timothyvelberg/ringmenu/pkg/engine"
//	    "github.com/timothyvelberg/ringmenu/pkg/provider"
//	)
//
//	files, _ := provider.NewFolder("files", "Files", "/home/me", nil, nil)
//
//	eng := engine.New(engine.Options{})
//	eng.Register(files, provider.ModeParent)
//	_ = eng.LoadFunctions(context.Background())
//
//	_ = eng.ExpandCategory(context.Background(), 0, 0, false)
//	rings := eng.GetRingConfigurations()
//
// # Main Packages
//
// [slice] - Angular primitives: the 0°-at-top clockwise convention,
// slice configurations, per-item angle lookup.
//
// [node] - Menu item trees with per-button interaction behaviors.
//
// [layout] - The slice calculator: comfortable-angle distribution,
// depth-scaled child sizing, overflow folding, root ring resizing.
//
// [hittest] - Pointer position to (ring, item) resolution.
//
// [engine] - The ring stack state machine: navigation, provider
// orchestration, targeted updates, layout memoization.
//
// [provider] - Content sources: filesystem folders with cached listings
// and fsnotify-driven invalidation, plus static launcher entries.
//
// [cache] - Listing cache backends: in-memory LRU, file, Redis, null.
//
// [render] - SVG and JSON snapshots of a ring stack.
//
// [server] - HTTP and websocket surface for out-of-process renderers.
//
// [config] - TOML configuration for metrics, cache backend, and
// providers.
//
// [observability] - Pluggable hooks for navigation, layout, and cache
// events.
//
// [slice]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/slice
// [node]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/node
// [layout]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/layout
// [hittest]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/hittest
// [engine]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/engine
// [provider]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/provider
// [cache]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/cache
// [render]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/render
// [server]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/server
// [config]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/config
// [observability]: https://pkg.go.dev/github.com/timothyvelberg/ringmenu/pkg/observability
package pkg
