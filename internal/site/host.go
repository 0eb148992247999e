package site

import "context"

// Host owns the content tree and its render state.
type Host interface {
	Root() Container
	// Nodes lists every node of the tree in stable order, home included.
	Nodes() []Node
	// Home returns the home node or nil.
	Home() Node
	// Find returns the node with key or nil.
	Find(key string) Node
	// Languages lists configured language codes; empty means single-language.
	Languages() []string
	DefaultLanguage() string

	BaseURL() string
	SetBaseURL(base string)
	// MediaURL is the URL media files are served under at render time.
	MediaURL() string
	ProjectRoot() string

	ResetCollections()
	SetLanguage(code string)
	FlushRenderCache()
	Visit(n Node, lang string)

	// NewPlaceholder returns a synthetic node used to wrap literal route output.
	NewPlaceholder(id string) Node
}

// MediaResolver maps a render-time media URL back to its source file.
type MediaResolver interface {
	ResolveMedia(url string) (root string, ok bool)
}

// RouteKind tags a RouteResult.
type RouteKind int

const (
	RouteEmpty RouteKind = iota
	RouteNode
	RouteText
)

// RouteResult is what a router produced for a path: a node, a text body or nothing.
type RouteResult struct {
	Kind RouteKind
	Node Node
	Text string
}

// Empty is the zero RouteResult.
var Empty = RouteResult{}

func NodeResult(n Node) RouteResult {
	if n == nil {
		return Empty
	}
	return RouteResult{Kind: RouteNode, Node: n}
}

func TextResult(s string) RouteResult {
	return RouteResult{Kind: RouteText, Text: s}
}

// Router resolves an arbitrary path.
type Router interface {
	Resolve(ctx context.Context, path, method string) (RouteResult, error)
}

// PluginAsset is a file shipped by an extension.
type PluginAsset struct {
	Root   string
	Path   string
	Plugin string
}

// AssetRegistry enumerates plugin assets.
type AssetRegistry interface {
	PluginAssets() ([]PluginAsset, error)
}
