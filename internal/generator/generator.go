// Package generator exports a host's content tree into a static file tree.
//
// A run validates and resets the output folder, renders the home node, every
// node in every language and the configured custom routes, rewrites the
// render-time base location in each output, then copies captured media,
// extra paths and plugin assets. Runs are serialized per Generator because
// rendering mutates the host's shared render state.
package generator

import (
	"sync"

	"git.home.luguber.info/inful/sitefreeze/internal/media"
	"git.home.luguber.info/inful/sitefreeze/internal/paths"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// DefaultOutputFolder is used when neither the call nor Options name one.
const DefaultOutputFolder = "./static"

// Route declares an output that is not derived from the content tree.
type Route struct {
	// Path is the output path relative to the output folder.
	Path string
	// Node renders the route when set. Page is looked up by key otherwise.
	Node site.Node
	Page string
	// Route is resolved through the router when no node is given; Path is
	// used when empty.
	Route string
	// BaseURL overrides the run's final base for this output.
	BaseURL  string
	Data     map[string]any
	Language string
}

// Options configures a Generator.
type Options struct {
	OutputFolder       string
	CopyPaths          []string
	SkipMedia          bool
	SkipPluginAssets   bool
	IgnoreUntranslated bool
	ScanMedia          bool
	IndexFile          string
	Routes             []Route
	// RenderBase fixes the temporary base used while rendering hosts without
	// a base URL. A random one is generated per run when empty.
	RenderBase string
	// Protected folders must never end up inside the output folder.
	Protected []string
}

// Generator drives exports for one host.
type Generator struct {
	host     site.Host
	router   site.Router
	plugins  site.AssetRegistry
	observer Observer

	resolver           paths.Resolver
	cleaner            *paths.Cleaner
	copyPaths          []string
	skipMedia          bool
	skipPluginAssets   bool
	ignoreUntranslated bool
	scanMedia          bool
	routes             []Route
	fixedRenderBase    string
	protected          []string
	outputFolder       string

	mu    sync.Mutex
	media *media.Collector
	files *fileSet
	run   *runState
}

// New creates a Generator for host. Relative copy paths and output folders
// resolve against the host's project root.
func New(host site.Host, opts Options) *Generator {
	g := &Generator{
		host:               host,
		observer:           NoopObserver{},
		resolver:           paths.NewResolver(host.ProjectRoot()),
		cleaner:            paths.NewCleaner(paths.DefaultIndexFile),
		skipMedia:          opts.SkipMedia,
		skipPluginAssets:   opts.SkipPluginAssets,
		ignoreUntranslated: opts.IgnoreUntranslated,
		scanMedia:          opts.ScanMedia,
		routes:             opts.Routes,
		fixedRenderBase:    opts.RenderBase,
		protected:          opts.Protected,
		media:              media.NewCollector(),
		files:              newFileSet(),
	}
	g.copyPaths = g.resolver.ResolveMany(opts.CopyPaths)
	g.outputFolder = g.resolver.Resolve(firstNonEmpty(opts.OutputFolder, DefaultOutputFolder))
	if opts.IndexFile != "" {
		g.SetIndexFileName(opts.IndexFile)
	}
	return g
}

// WithRouter sets the router used by custom routes.
func (g *Generator) WithRouter(r site.Router) *Generator {
	g.router = r
	return g
}

// WithAssetRegistry sets the source of plugin assets.
func (g *Generator) WithAssetRegistry(r site.AssetRegistry) *Generator {
	g.plugins = r
	return g
}

// WithObserver replaces the run observer. Nil restores the no-op observer.
func (g *Generator) WithObserver(o Observer) *Generator {
	if o == nil {
		o = NoopObserver{}
	}
	g.observer = o
	return g
}

// SkipMedia disables media capture and copying.
func (g *Generator) SkipMedia(skip bool) *Generator {
	g.skipMedia = skip
	return g
}

// SkipPluginAssets disables copying plugin assets.
func (g *Generator) SkipPluginAssets(skip bool) *Generator {
	g.skipPluginAssets = skip
	return g
}

// SetCustomRoutes replaces the custom routes.
func (g *Generator) SetCustomRoutes(routes []Route) *Generator {
	g.routes = routes
	return g
}

// SetIgnoreUntranslatedPages skips nodes lacking a translation for the
// language being generated.
func (g *Generator) SetIgnoreUntranslatedPages(ignore bool) *Generator {
	g.ignoreUntranslated = ignore
	return g
}

// SetIndexFileName changes the index file name after stripping characters
// other than letters, digits and dots. Names left without a dot, or with
// nothing but dots, are rejected and the previous name is kept.
func (g *Generator) SetIndexFileName(name string) bool {
	clean, ok := paths.SanitizeIndexFileName(name)
	if !ok {
		return false
	}
	g.cleaner = paths.NewCleaner(clean)
	return true
}

// IndexFileName returns the current index file name.
func (g *Generator) IndexFileName() string { return g.cleaner.IndexFile() }

// OutputFolder returns the resolved default output folder.
func (g *Generator) OutputFolder() string { return g.outputFolder }

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
