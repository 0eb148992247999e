package content

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/fsutil"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/paths"
)

var (
	numbered    = regexp.MustCompile(`^(\d+)_(.+)$`)
	variantName = regexp.MustCompile(`^index(?:\.([A-Za-z0-9-]+))?\.md$`)
)

// Load walks the content directory and parses the layouts.
func Load(opts Options) (*Site, error) {
	r := paths.NewResolver(opts.ProjectRoot)
	opts.ContentDir = r.Resolve(opts.ContentDir)
	opts.TemplatesDir = r.Resolve(opts.TemplatesDir)
	opts.AssetsDir = r.Resolve(opts.AssetsDir)
	if opts.Home == "" {
		opts.Home = DefaultHome
	}
	if opts.DefaultLanguage == "" && len(opts.Languages) > 0 {
		opts.DefaultLanguage = opts.Languages[0]
	}

	if !fsutil.IsDir(opts.ContentDir) {
		return nil, ferrors.ConfigError("content directory not found").
			WithContext("path", opts.ContentDir).Build()
	}

	s := &Site{
		opts:    opts,
		byKey:   map[string]*Page{},
		md:      newMarkdown(),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
	s.root = &rootNode{site: s}

	templates := ""
	if fsutil.IsDir(opts.TemplatesDir) {
		templates = opts.TemplatesDir
	}
	layouts, err := loadLayouts(templates)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse layouts").
			WithContext("path", opts.TemplatesDir).Fatal().Build()
	}
	s.layouts = layouts

	children, err := s.loadChildren(nil, opts.ContentDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read content").
			WithContext("path", opts.ContentDir).Fatal().Build()
	}
	s.root.children = children
	s.home = s.byKey[opts.Home]
	if s.home == nil {
		slog.Warn("Home page not found", logfields.Page(opts.Home))
	}
	slog.Debug("Content loaded", logfields.Path(opts.ContentDir), logfields.Files(len(s.pages)))
	return s, nil
}

// loadChildren reads the page directories below dir, registering them in
// pre-order so Nodes lists parents before children.
func (s *Site) loadChildren(parent *Page, dir string) ([]*Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var pages []*Page
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		p, err := s.loadPage(parent, filepath.Join(dir, name), name)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pages = append(pages, p)
		}
	}
	sortPages(pages)

	for _, p := range pages {
		s.pages = append(s.pages, p)
		s.byKey[p.key] = p
		if p.children, err = s.loadChildren(p, p.dir); err != nil {
			return nil, err
		}
	}
	return pages, nil
}

// loadPage reads one directory. It returns nil when the directory holds no
// index file.
func (s *Site) loadPage(parent *Page, dir, name string) (*Page, error) {
	slug := name
	p := &Page{site: s, dir: dir, parent: parent, variants: map[string]string{}}
	if m := numbered.FindStringSubmatch(name); m != nil {
		p.num, _ = strconv.Atoi(m[1])
		p.listed = true
		slug = m[2]
	}
	p.key = slug
	if parent != nil {
		p.key = parent.key + "/" + slug
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if m := variantName.FindStringSubmatch(name); m != nil {
			lang := m[1]
			if lang != "" && !s.hasLanguage(lang) {
				slog.Debug("Ignoring translation for unknown language", logfields.Path(name), logfields.Language(lang))
				continue
			}
			p.variants[lang] = filepath.Join(dir, name)
			continue
		}
		p.files = append(p.files, &File{page: p, name: name, root: filepath.Join(dir, name)})
	}
	if len(p.variants) == 0 {
		return nil, nil
	}
	return p, nil
}

// sortPages orders listed pages by number, then unlisted pages by key.
func sortPages(pages []*Page) {
	sort.SliceStable(pages, func(i, j int) bool {
		a, b := pages[i], pages[j]
		if a.listed != b.listed {
			return a.listed
		}
		if a.num != b.num {
			return a.num < b.num
		}
		return a.key < b.key
	})
}

// Fingerprints returns content fingerprints per page key and language.
func (s *Site) Fingerprints() (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(s.pages))
	for _, p := range s.pages {
		fps := map[string]string{}
		for lang, src := range p.variants {
			doc, err := readDocument(src)
			if err != nil {
				return nil, err
			}
			fp, err := doc.fingerprint()
			if err != nil {
				return nil, err
			}
			fps[lang] = fp
		}
		out[p.key] = fps
	}
	return out, nil
}
