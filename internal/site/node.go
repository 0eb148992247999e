package site

import (
	"context"

	"git.home.luguber.info/inful/sitefreeze/internal/media"
)

// Resettable drops cached materialized content.
type Resettable interface {
	ResetContent()
}

// File is a file attached to a node.
type File interface {
	Resettable
	Root() string
}

// Container is anything holding child nodes and attached files. The site
// root is a Container; every Node is one too.
type Container interface {
	Resettable
	Children() []Node
	Files() []File
}

// Node is an addressable unit of content.
type Node interface {
	Container
	Key() string
	// URL returns the node URL for lang under the host's current base.
	URL(lang string) string
	IsHome() bool
	// Exists reports whether the node is backed by real content. Synthetic
	// placeholders do not exist.
	Exists() bool
	TranslationExists(lang string) bool
	Render(ctx context.Context, rc *RenderContext, data map[string]any) (string, error)
}

// Detachable nodes can drop their association with the active site before
// rendering so parent lookups do not affect output.
type Detachable interface {
	Detach()
}

// RenderContext is threaded through a single render call.
type RenderContext struct {
	Language string
	Node     Node
	// BaseURL is the render-time base every generated URL starts with.
	BaseURL string
	// Media receives assets referenced by the render. Nil disables capture.
	Media *media.Collector
}

// RecordMedia records a referenced asset when capture is enabled.
func (rc *RenderContext) RecordMedia(root, url string) {
	if rc == nil {
		return
	}
	rc.Media.Record(media.Asset{Root: root, URL: url})
}
