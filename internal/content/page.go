package content

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// Page is one page directory, or a placeholder created for a custom route.
type Page struct {
	site   *Site
	key    string
	dir    string
	num    int
	listed bool
	parent *Page

	children []*Page
	files    []*File
	// variants maps a language code to its source file; "" is index.md.
	variants map[string]string

	placeholder bool

	docs   map[string]*document
	crumbs []Link
}

var (
	_ site.Node       = (*Page)(nil)
	_ site.Detachable = (*Page)(nil)
)

func (p *Page) Key() string { return p.key }

// Slug is the last key segment.
func (p *Page) Slug() string { return path.Base(p.key) }

// Dir is the page directory, empty for placeholders.
func (p *Page) Dir() string { return p.dir }

func (p *Page) Listed() bool { return p.listed }

func (p *Page) IsHome() bool { return p.site.home == p }

func (p *Page) Exists() bool { return !p.placeholder }

func (p *Page) URL(lang string) string { return p.site.url(p.key, lang, p.IsHome()) }

// TranslationExists reports whether lang has its own source file. For the
// default language index.md counts too.
func (p *Page) TranslationExists(lang string) bool {
	if p.placeholder {
		return false
	}
	if lang == "" {
		return len(p.variants) > 0
	}
	if _, ok := p.variants[lang]; ok {
		return true
	}
	_, ok := p.variants[""]
	return ok && lang == p.site.opts.DefaultLanguage
}

// source returns the file rendered for lang, falling back to index.md and
// then to the default language.
func (p *Page) source(lang string) string {
	if src, ok := p.variants[lang]; ok {
		return src
	}
	if src, ok := p.variants[""]; ok {
		return src
	}
	return p.variants[p.site.opts.DefaultLanguage]
}

func (p *Page) Children() []site.Node { return nodes(p.children) }

func (p *Page) Files() []site.File {
	out := make([]site.File, len(p.files))
	for i, f := range p.files {
		out[i] = f
	}
	return out
}

// AttachedFiles returns the files attached to the page.
func (p *Page) AttachedFiles() []*File { return append([]*File(nil), p.files...) }

func (p *Page) file(name string) *File {
	name = strings.TrimPrefix(name, "./")
	for _, f := range p.files {
		if f.name == name {
			return f
		}
	}
	return nil
}

// ResetContent drops parsed sources and memoized lookups.
func (p *Page) ResetContent() {
	p.docs = nil
	p.crumbs = nil
}

// Detach drops lookups memoized against the page's position in the tree.
func (p *Page) Detach() { p.crumbs = nil }

func (p *Page) document(lang string) (*document, error) {
	if d, ok := p.docs[lang]; ok {
		return d, nil
	}
	src := p.source(lang)
	d := &document{fields: map[string]any{}}
	if src != "" {
		var err error
		if d, err = readDocument(src); err != nil {
			return nil, err
		}
	}
	if p.docs == nil {
		p.docs = map[string]*document{}
	}
	p.docs[lang] = d
	return d, nil
}

// Title returns the front matter title in lang, or the slug.
func (p *Page) Title(lang string) (string, error) {
	d, err := p.document(lang)
	if err != nil {
		return "", err
	}
	if t := d.title(); t != "" {
		return t, nil
	}
	return p.Slug(), nil
}

func (p *Page) link(lang string) (Link, error) {
	title, err := p.Title(lang)
	if err != nil {
		return Link{}, err
	}
	return Link{Key: p.key, Title: title, URL: p.URL(lang)}, nil
}

func (p *Page) breadcrumbs(lang string) ([]Link, error) {
	if p.crumbs != nil {
		return p.crumbs, nil
	}
	var chain []*Page
	for q := p; q != nil; q = q.parent {
		chain = append([]*Page{q}, chain...)
	}
	crumbs := make([]Link, 0, len(chain))
	for _, q := range chain {
		l, err := q.link(lang)
		if err != nil {
			return nil, err
		}
		crumbs = append(crumbs, l)
	}
	p.crumbs = crumbs
	return crumbs, nil
}

// Link is a rendered reference to a page.
type Link struct {
	Key   string
	Title string
	URL   string
}

// collection returns the listed children of parent (the top level when nil)
// in lang. Results are cached until ResetCollections.
func (s *Site) collection(parent *Page, lang string) ([]Link, error) {
	children := s.root.children
	key := "\x00" + lang
	if parent != nil {
		children = parent.children
		key = parent.key + key
	}
	if links, ok := s.collections[key]; ok {
		return links, nil
	}
	links := []Link{}
	for _, c := range children {
		if !c.listed {
			continue
		}
		l, err := c.link(lang)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	if s.collections == nil {
		s.collections = map[string][]Link{}
	}
	s.collections[key] = links
	return links, nil
}
