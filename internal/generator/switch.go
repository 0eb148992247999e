package generator

import (
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// acquireRender prepares the host to render n in lang and returns the
// RenderContext to pass into Node.Render together with a release func that
// must run once the render is done, on every exit path.
//
// Host collections, the translation state and every cached node below the
// site root are reset so nothing materialized for a previous language leaks
// into this render. n itself is reset when it is part of the tree or when
// force is set.
func (g *Generator) acquireRender(n site.Node, lang string, force bool) (*site.RenderContext, func()) {
	h := g.host
	h.ResetCollections()
	h.SetLanguage(lang)
	resetTree(h.Root())
	if n.Exists() || force {
		resetTree(n)
	}
	h.FlushRenderCache()
	h.Visit(n, lang)

	rc := &site.RenderContext{
		Language: lang,
		Node:     n,
		BaseURL:  g.run.renderBase,
		Media:    g.media,
	}
	return rc, func() {
		h.ResetCollections()
		h.FlushRenderCache()
	}
}

func resetTree(c site.Container) {
	if c == nil {
		return
	}
	c.ResetContent()
	for _, child := range c.Children() {
		resetTree(child)
	}
	for _, f := range c.Files() {
		f.ResetContent()
	}
}
