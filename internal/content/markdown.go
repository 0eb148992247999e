package content

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
}

// renderMarkdown converts body to HTML. Image and link destinations naming a
// file attached to p are rewritten to its media URL and recorded in rc.
func (p *Page) renderMarkdown(body []byte, rc *site.RenderContext) (template.HTML, error) {
	md := p.site.md
	root := md.Parser().Parse(text.NewReader(body))

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			node.Destination = p.mediaDestination(node.Destination, rc)
		case *gmast.Link:
			node.Destination = p.mediaDestination(node.Destination, rc)
		}
		return gmast.WalkContinue, nil
	})

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, body, root); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // rendered from site-owned markdown
}

func (p *Page) mediaDestination(dest []byte, rc *site.RenderContext) []byte {
	f := p.file(string(dest))
	if f == nil {
		return dest
	}
	u := f.URL()
	rc.RecordMedia(f.Root(), u)
	return []byte(u)
}
