package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
	"github.com/stretchr/testify/require"
)

type fakeFile struct {
	root   string
	name   string
	resets int
}

func (f *fakeFile) ResetContent() { f.resets++ }
func (f *fakeFile) Root() string  { return f.root }

type renderFunc func(n *fakeNode, rc *site.RenderContext, data map[string]any) (string, error)

type fakeNode struct {
	host         *fakeHost
	key          string
	home         bool
	synthetic    bool
	translations map[string]bool
	children     []*fakeNode
	files        []*fakeFile
	render       renderFunc

	resets   int
	detached int
	renders  []string
}

func (n *fakeNode) ResetContent() { n.resets++ }
func (n *fakeNode) Children() []site.Node {
	out := make([]site.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}
func (n *fakeNode) Files() []site.File {
	out := make([]site.File, len(n.files))
	for i, f := range n.files {
		out[i] = f
	}
	return out
}
func (n *fakeNode) Key() string  { return n.key }
func (n *fakeNode) IsHome() bool { return n.home }
func (n *fakeNode) Exists() bool { return !n.synthetic }
func (n *fakeNode) Detach()      { n.detached++ }
func (n *fakeNode) TranslationExists(lang string) bool {
	if n.translations == nil {
		return true
	}
	return n.translations[lang]
}

func (n *fakeNode) URL(lang string) string {
	base := n.host.base
	if lang != "" {
		base += "/" + lang
	}
	if n.home {
		return base
	}
	return base + "/" + n.key
}

func (n *fakeNode) mediaURL(f *fakeFile) string {
	return n.host.MediaURL() + "/pages/" + n.key + "/" + f.name
}

func (n *fakeNode) Render(_ context.Context, rc *site.RenderContext, data map[string]any) (string, error) {
	n.renders = append(n.renders, rc.Language)
	if n.render != nil {
		return n.render(n, rc, data)
	}
	return defaultRender(n, rc, data)
}

// defaultRender emits links in raw and JSON-escaped form and references
// every attached file twice.
func defaultRender(n *fakeNode, rc *site.RenderContext, _ map[string]any) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<html lang=%q><body><h1>%s</h1>", rc.Language, n.key)
	fmt.Fprintf(&b, `<a href="%s">home</a><a href="%s">self</a>`, rc.BaseURL, n.URL(rc.Language))
	for _, f := range n.files {
		u := n.mediaURL(f)
		rc.RecordMedia(f.root, u)
		rc.RecordMedia(f.root, u)
		fmt.Fprintf(&b, `<img src="%s"><img src="%s">`, u, u)
	}
	fmt.Fprintf(&b, `<script>var cfg = {"base":"%s"};</script>`, strings.ReplaceAll(rc.BaseURL, "/", `\/`)+`\/api`)
	b.WriteString("</body></html>")
	return b.String(), nil
}

type fakeRoot struct{ host *fakeHost }

func (r fakeRoot) ResetContent() { r.host.rootResets++ }
func (r fakeRoot) Children() []site.Node {
	var out []site.Node
	for _, n := range r.host.nodes {
		if !n.home {
			out = append(out, n)
		}
	}
	return out
}
func (r fakeRoot) Files() []site.File { return nil }

type fakeHost struct {
	base      string
	langs     []string
	def       string
	nodes     []*fakeNode
	root      string
	mediaRoot map[string]string

	lang             string
	visited          site.Node
	rootResets       int
	collectionResets int
	flushes          int
	baseHistory      []string
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	return &fakeHost{root: t.TempDir()}
}

func (h *fakeHost) add(key string, opts ...func(*fakeNode)) *fakeNode {
	n := &fakeNode{host: h, key: key, home: key == "home"}
	for _, o := range opts {
		o(n)
	}
	h.nodes = append(h.nodes, n)
	return n
}

func (h *fakeHost) Root() site.Container { return fakeRoot{host: h} }
func (h *fakeHost) Nodes() []site.Node {
	out := make([]site.Node, len(h.nodes))
	for i, n := range h.nodes {
		out[i] = n
	}
	return out
}
func (h *fakeHost) Home() site.Node {
	for _, n := range h.nodes {
		if n.home {
			return n
		}
	}
	return nil
}
func (h *fakeHost) Find(key string) site.Node {
	for _, n := range h.nodes {
		if n.key == key {
			return n
		}
	}
	return nil
}
func (h *fakeHost) Languages() []string     { return h.langs }
func (h *fakeHost) DefaultLanguage() string { return h.def }
func (h *fakeHost) BaseURL() string         { return h.base }
func (h *fakeHost) SetBaseURL(b string) {
	h.base = b
	h.baseHistory = append(h.baseHistory, b)
}
func (h *fakeHost) MediaURL() string          { return h.base + "/media" }
func (h *fakeHost) ProjectRoot() string       { return h.root }
func (h *fakeHost) ResetCollections()         { h.collectionResets++ }
func (h *fakeHost) SetLanguage(code string)   { h.lang = code }
func (h *fakeHost) FlushRenderCache()         { h.flushes++ }
func (h *fakeHost) Visit(n site.Node, _ string) { h.visited = n }
func (h *fakeHost) NewPlaceholder(id string) site.Node {
	return &fakeNode{host: h, key: id, synthetic: true}
}

// resolvingHost adds MediaResolver support.
type resolvingHost struct{ *fakeHost }

func (h resolvingHost) ResolveMedia(u string) (string, bool) {
	root, ok := h.mediaRoot[u]
	return root, ok
}

type fakeRouter map[string]site.RouteResult

func (r fakeRouter) Resolve(_ context.Context, path, method string) (site.RouteResult, error) {
	if method != "GET" {
		return site.Empty, fmt.Errorf("unexpected method %s", method)
	}
	if res, ok := r[path]; ok {
		return res, nil
	}
	return site.Empty, nil
}

type fakeRegistry []site.PluginAsset

func (r fakeRegistry) PluginAssets() ([]site.PluginAsset, error) { return r, nil }

func writeFile(t *testing.T, p, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}
