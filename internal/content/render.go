package content

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// view is the data handed to layouts.
type view struct {
	Site siteView
	Page pageView
	Data map[string]any
	Menu []Link
}

type siteView struct {
	Title     string
	URL       string
	Language  string
	Languages []string
}

type pageView struct {
	Key         string
	Title       string
	URL         string
	Language    string
	IsHome      bool
	Date        time.Time
	Fields      map[string]any
	Content     template.HTML
	Children    []Link
	Breadcrumbs []Link
}

// Render executes the page layout in the language of rc. Output without
// route data is cached until FlushRenderCache.
func (p *Page) Render(ctx context.Context, rc *site.RenderContext, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s := p.site
	lang := s.Language()
	if rc != nil && rc.Language != "" {
		lang = rc.Language
	}

	cacheKey := p.key + "\x00" + lang
	if len(data) == 0 {
		if out, ok := s.renderCache[cacheKey]; ok {
			return out, nil
		}
	}

	doc, err := p.document(lang)
	if err != nil {
		return "", err
	}
	v, err := p.view(lang, doc, rc, data)
	if err != nil {
		return "", err
	}
	tmpl, err := s.layouts.instance(doc.template(), p.funcs(lang, rc))
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, v); err != nil {
		return "", s.layouts.sourceError(err)
	}
	out := buf.String()
	if len(data) == 0 {
		if s.renderCache == nil {
			s.renderCache = map[string]string{}
		}
		s.renderCache[cacheKey] = out
	}
	return out, nil
}

func (p *Page) view(lang string, doc *document, rc *site.RenderContext, data map[string]any) (view, error) {
	s := p.site
	content, err := p.renderMarkdown(doc.body, rc)
	if err != nil {
		return view{}, err
	}
	menu, err := s.collection(nil, lang)
	if err != nil {
		return view{}, err
	}

	pv := pageView{
		Key:      p.key,
		Title:    doc.title(),
		URL:      p.URL(lang),
		Language: lang,
		IsHome:   p.IsHome(),
		Fields:   doc.fields,
		Content:  content,
	}
	pv.Date, _ = doc.date()
	if !p.placeholder {
		if pv.Title == "" {
			pv.Title = p.Slug()
		}
		if pv.Children, err = s.collection(p, lang); err != nil {
			return view{}, err
		}
		if pv.Breadcrumbs, err = p.breadcrumbs(lang); err != nil {
			return view{}, err
		}
	}

	return view{
		Site: siteView{
			Title:     s.opts.Title,
			URL:       s.url("", lang, true),
			Language:  lang,
			Languages: s.Languages(),
		},
		Page: pv,
		Data: data,
		Menu: menu,
	}, nil
}

// funcs binds the layout functions for one render.
func (p *Page) funcs(lang string, rc *site.RenderContext) template.FuncMap {
	s := p.site
	return template.FuncMap{
		"url": func(target string) string { return s.link(target, lang) },
		"media": func(name string) (string, error) {
			f := p.file(name)
			if f == nil {
				return "", fmt.Errorf("file %q is not attached to page %q", name, p.key)
			}
			u := f.URL()
			rc.RecordMedia(f.Root(), u)
			return u, nil
		},
		"asset": func(name string) string {
			return s.absolute(path.Base(filepath.ToSlash(s.opts.AssetsDir)) + "/" + strings.TrimLeft(name, "/"))
		},
		"json": jsonFunc,
	}
}

// link resolves a layout url argument: absolute URLs and fragments pass
// through, "./x" is relative to the visited page, page keys map to page URLs
// and anything else is taken relative to the base.
func (s *Site) link(target, lang string) string {
	for _, prefix := range []string{"http://", "https://", "//", "#", "mailto:"} {
		if strings.HasPrefix(target, prefix) {
			return target
		}
	}
	if rest, ok := strings.CutPrefix(target, "./"); ok && s.current != nil {
		target = s.current.key + "/" + rest
	}
	if p := s.page(target); p != nil {
		return p.URL(lang)
	}
	return s.absolute(target)
}
