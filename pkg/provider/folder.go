package provider

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/timothyvelberg/ringmenu/pkg/cache"
	"github.com/timothyvelberg/ringmenu/pkg/errors"
	"github.com/timothyvelberg/ringmenu/pkg/node"
	"github.com/timothyvelberg/ringmenu/pkg/observability"
)

// ListingTTL bounds how stale a cached directory listing may be. The
// watcher invalidates eagerly on change events; the TTL is the backstop
// for directories nobody watches.
const ListingTTL = 30 * time.Second

// Folder serves a filesystem subtree. The root directory's entries form
// the provider's contribution; subdirectories become folder nodes whose
// children load on demand.
type Folder struct {
	id     string
	title  string
	root   string
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger

	// entries is the snapshot of the root listing, rebuilt on Refresh.
	entries []*node.Node

	// onVisit fires when a directory's children are loaded, letting a
	// watcher extend its watch set as the user descends.
	onVisit func(dir string)
}

// SetVisitHook registers a callback fired for every directory whose
// children get loaded. Must be set before the provider serves requests.
func (f *Folder) SetVisitHook(fn func(dir string)) {
	f.onVisit = fn
}

// NewFolder creates a folder provider rooted at root. A nil cache
// disables listing caching; a nil logger discards diagnostics.
func NewFolder(id, title, root string, c cache.Cache, logger *log.Logger) (*Folder, error) {
	if err := errors.ValidateProviderID(id); err != nil {
		return nil, err
	}
	if err := errors.ValidateFolderRoot(root); err != nil {
		return nil, err
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Folder{
		id:     id,
		title:  title,
		root:   filepath.Clean(root),
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}, nil
}

// ID returns the provider identifier.
func (f *Folder) ID() string { return f.id }

// DefaultDisplayMode keeps folder trees behind their category wrapper.
func (f *Folder) DefaultDisplayMode() DisplayMode { return ModeParent }

// Refresh rebuilds the root listing snapshot.
func (f *Folder) Refresh(ctx context.Context) error {
	start := time.Now()
	entries, err := f.list(ctx, f.root)
	observability.Provider().OnRefresh(ctx, f.id, len(entries), time.Since(start), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeProvider, err, "list %s", f.root)
	}
	f.entries = entries
	return nil
}

// Provide returns the category wrapper holding the root listing.
// The wrapper keeps the root path as its content identifier so ring
// updates can re-target it.
func (f *Folder) Provide() []*node.Node {
	wrapper := &node.Node{
		ID:         f.id,
		Name:       f.title,
		Kind:       node.KindCategory,
		ProviderID: f.id,
		Meta:       node.FolderMeta{Path: f.root},
		Children:   f.entries,
		Handlers:   node.ExpandOnLeft(),
	}
	return []*node.Node{wrapper}
}

// LoadChildren lists the directory behind a dynamically loading folder
// node. Only folder nodes carry a path to descend into.
func (f *Folder) LoadChildren(ctx context.Context, n *node.Node) ([]*node.Node, error) {
	meta, ok := n.Meta.(node.FolderMeta)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "node %s has no folder metadata", n.ID)
	}

	start := time.Now()
	children, err := f.list(ctx, meta.Path)
	observability.Provider().OnLoadChildren(ctx, f.id, meta.Path, len(children), time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "list %s", meta.Path)
	}
	if f.onVisit != nil {
		f.onVisit(meta.Path)
	}
	return children, nil
}

// listingEntry is the cached representation of one directory entry.
type listingEntry struct {
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
}

// list returns the nodes for one directory, consulting the listing cache
// first. Directories sort before files, both alphabetically.
func (f *Folder) list(ctx context.Context, dir string) ([]*node.Node, error) {
	key := f.keyer.ListingKey(f.id, dir)

	if data, hit, err := f.cache.Get(ctx, key); err == nil && hit {
		var cached []listingEntry
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "listing")
			return f.toNodes(dir, cached), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "listing")

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	listing := make([]listingEntry, 0, len(dirEntries))
	for _, e := range dirEntries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		listing = append(listing, listingEntry{Name: e.Name(), IsDir: e.IsDir()})
	}
	sort.Slice(listing, func(i, j int) bool {
		if listing[i].IsDir != listing[j].IsDir {
			return listing[i].IsDir
		}
		return listing[i].Name < listing[j].Name
	})

	if data, err := json.Marshal(listing); err == nil {
		if err := f.cache.Set(ctx, key, data, ListingTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "listing", len(data))
		}
	}

	return f.toNodes(dir, listing), nil
}

// toNodes converts a listing into ring nodes.
func (f *Folder) toNodes(dir string, listing []listingEntry) []*node.Node {
	nodes := make([]*node.Node, 0, len(listing))
	for _, e := range listing {
		path := filepath.Join(dir, e.Name)
		if e.IsDir {
			nodes = append(nodes, node.NewFolder(path, e.Name, f.id, path))
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(e.Name), ".")
		file := node.NewFile(path, e.Name, path, ext, openFile(path))
		file.ProviderID = f.id
		nodes = append(nodes, file)
	}
	return nodes
}

// Invalidate drops the cached listing for dir, forcing the next list to
// hit the filesystem. The watcher calls this before re-targeting a ring
// update.
func (f *Folder) Invalidate(ctx context.Context, dir string) {
	_ = f.cache.Delete(ctx, f.keyer.ListingKey(f.id, dir))
}

// Root returns the provider's root directory.
func (f *Folder) Root() string { return f.root }

// openFile builds an action that opens a file with the desktop handler.
func openFile(path string) node.Action {
	return func(ctx context.Context) error {
		return exec.CommandContext(ctx, "xdg-open", path).Start()
	}
}

// Ensure Folder implements the provider capabilities it advertises.
var (
	_ Provider    = (*Folder)(nil)
	_ ChildLoader = (*Folder)(nil)
	_ DefaultMode = (*Folder)(nil)
)
