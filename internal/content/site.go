package content

import (
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// DefaultHome is the key of the home page when Options.Home is empty.
const DefaultHome = "home"

// Options configures Load. Relative directories resolve against ProjectRoot.
type Options struct {
	ProjectRoot     string
	ContentDir      string
	TemplatesDir    string
	AssetsDir       string
	BaseURL         string
	Title           string
	Languages       []string
	DefaultLanguage string
	Home            string
}

// Site is a loaded content tree. It implements site.Host and
// site.MediaResolver.
type Site struct {
	opts    Options
	root    *rootNode
	pages   []*Page
	byKey   map[string]*Page
	home    *Page
	layouts *layoutSet
	md      goldmark.Markdown

	baseURL     string
	lang        string
	current     *Page
	collections map[string][]Link
	renderCache map[string]string
}

var (
	_ site.Host          = (*Site)(nil)
	_ site.MediaResolver = (*Site)(nil)
)

func (s *Site) Root() site.Container { return s.root }

func (s *Site) Nodes() []site.Node {
	out := make([]site.Node, len(s.pages))
	for i, p := range s.pages {
		out[i] = p
	}
	return out
}

func (s *Site) Home() site.Node {
	if s.home == nil {
		return nil
	}
	return s.home
}

func (s *Site) Find(key string) site.Node {
	if p := s.page(key); p != nil {
		return p
	}
	return nil
}

// Page returns the page with key or nil.
func (s *Site) Page(key string) *Page { return s.page(key) }

func (s *Site) page(key string) *Page {
	return s.byKey[strings.Trim(key, "/")]
}

func (s *Site) Languages() []string { return append([]string(nil), s.opts.Languages...) }

func (s *Site) DefaultLanguage() string { return s.opts.DefaultLanguage }

func (s *Site) multilingual() bool { return len(s.opts.Languages) > 0 }

func (s *Site) hasLanguage(code string) bool {
	for _, l := range s.opts.Languages {
		if l == code {
			return true
		}
	}
	return false
}

func (s *Site) BaseURL() string { return s.baseURL }

func (s *Site) SetBaseURL(base string) { s.baseURL = strings.TrimRight(base, "/") }

func (s *Site) MediaURL() string { return s.baseURL + "/media" }

func (s *Site) ProjectRoot() string { return s.opts.ProjectRoot }

func (s *Site) ResetCollections() { s.collections = nil }

func (s *Site) SetLanguage(code string) { s.lang = code }

// Language returns the current language, the default language when none is set.
func (s *Site) Language() string {
	if s.lang == "" {
		return s.opts.DefaultLanguage
	}
	return s.lang
}

func (s *Site) FlushRenderCache() { s.renderCache = nil }

func (s *Site) Visit(n site.Node, lang string) {
	s.current, _ = n.(*Page)
	if lang != "" {
		s.lang = lang
	}
}

// NewPlaceholder returns a page without content. It renders the default
// layout with whatever route data it is given.
func (s *Site) NewPlaceholder(id string) site.Node {
	return &Page{site: s, key: id, placeholder: true}
}

// ResolveMedia maps <media url>/pages/<key>/<file> to the attached file.
func (s *Site) ResolveMedia(url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, s.MediaURL()+"/pages/")
	if !ok {
		return "", false
	}
	i := strings.LastIndex(rest, "/")
	if i < 0 {
		return "", false
	}
	p := s.page(rest[:i])
	if p == nil {
		return "", false
	}
	if f := p.file(rest[i+1:]); f != nil {
		return f.Root(), true
	}
	return "", false
}

// url builds the URL of key in lang under the current base. The home page
// lives at the base (or <base>/<lang>).
func (s *Site) url(key string, lang string, home bool) string {
	parts := []string{s.baseURL}
	if s.multilingual() {
		if lang == "" {
			lang = s.Language()
		}
		parts = append(parts, lang)
	}
	if !home && key != "" {
		parts = append(parts, key)
	}
	u := strings.Join(parts, "/")
	if u == "" {
		return "/"
	}
	return u
}

// absolute prefixes a site-relative path with the current base.
func (s *Site) absolute(rel string) string {
	return s.baseURL + "/" + strings.TrimLeft(rel, "/")
}

// rootNode is the site root container: the top-level pages.
type rootNode struct {
	site     *Site
	children []*Page
}

func (r *rootNode) ResetContent() { r.site.collections = nil }

func (r *rootNode) Children() []site.Node { return nodes(r.children) }

func (r *rootNode) Files() []site.File { return nil }

func nodes(pages []*Page) []site.Node {
	out := make([]site.Node, len(pages))
	for i, p := range pages {
		out[i] = p
	}
	return out
}
