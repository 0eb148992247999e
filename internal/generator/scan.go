package generator

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/media"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// mediaAttrs lists the attributes that may reference media, per element.
var mediaAttrs = map[string]string{
	"img":    "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"link":   "href",
	"a":      "href",
}

// scanRenderedMedia records media URLs found in rendered HTML that the host's
// instrumentation may have missed. Hosts that cannot map URLs back to source
// files are skipped.
func (g *Generator) scanRenderedMedia(ctx context.Context, content string) {
	resolver, ok := g.host.(site.MediaResolver)
	if !ok || !g.media.Active() {
		return
	}
	prefix := strings.TrimRight(g.host.MediaURL(), "/") + "/"

	for _, u := range extractURLs(content) {
		if !strings.HasPrefix(u, prefix) {
			continue
		}
		root, ok := resolver.ResolveMedia(u)
		if !ok {
			observability.DebugContext(ctx, "Unresolvable media reference", logfields.Asset(u))
			continue
		}
		g.media.Record(media.Asset{Root: root, URL: u})
	}
}

// extractURLs walks the HTML tree collecting media-bearing attribute values.
func extractURLs(content string) []string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := mediaAttrs[n.Data]; ok {
				for _, a := range n.Attr {
					if a.Key == attr && a.Val != "" {
						out = append(out, a.Val)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}
