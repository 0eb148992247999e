package content

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// Router resolves paths against a Site: page paths yield nodes, feed.xml,
// sitemap.xml and robots.txt yield text and everything else nothing.
type Router struct {
	site *Site
	mux  chi.Router
}

var _ site.Router = (*Router)(nil)

type resolutionKey struct{}

// resolution collects what the matched handler produced.
type resolution struct {
	result site.RouteResult
	err    error
}

func NewRouter(s *Site) *Router {
	r := &Router{site: s}
	mux := chi.NewRouter()
	mux.Get("/feed.xml", r.text(func(*http.Request) (string, error) { return s.Feed("") }))
	mux.Get("/sitemap.xml", r.text(func(*http.Request) (string, error) { return s.Sitemap() }))
	mux.Get("/robots.txt", r.text(func(*http.Request) (string, error) { return s.Robots(), nil }))
	mux.Get("/{lang}/feed.xml", r.text(func(req *http.Request) (string, error) {
		lang := chi.URLParam(req, "lang")
		if !s.hasLanguage(lang) {
			return "", nil
		}
		return s.Feed(lang)
	}))
	mux.Get("/*", r.page)
	mux.NotFound(func(http.ResponseWriter, *http.Request) {})
	mux.MethodNotAllowed(func(http.ResponseWriter, *http.Request) {})
	r.mux = mux
	return r
}

// Resolve routes path as if it were requested with method.
func (r *Router) Resolve(ctx context.Context, path, method string) (site.RouteResult, error) {
	if err := ctx.Err(); err != nil {
		return site.Empty, err
	}
	if method == "" {
		method = http.MethodGet
	}
	res := &resolution{}
	req, err := http.NewRequestWithContext(context.WithValue(ctx, resolutionKey{}, res),
		method, "/"+strings.Trim(path, "/"), nil)
	if err != nil {
		return site.Empty, err
	}
	r.mux.ServeHTTP(discardWriter{}, req)
	return res.result, res.err
}

func resolutionFrom(req *http.Request) *resolution {
	res, _ := req.Context().Value(resolutionKey{}).(*resolution)
	if res == nil {
		return &resolution{}
	}
	return res
}

func (r *Router) page(_ http.ResponseWriter, req *http.Request) {
	if p := r.site.pageForPath(chi.URLParam(req, "*")); p != nil {
		resolutionFrom(req).result = site.NodeResult(p)
	}
}

func (r *Router) text(body func(*http.Request) (string, error)) http.HandlerFunc {
	return func(_ http.ResponseWriter, req *http.Request) {
		res := resolutionFrom(req)
		text, err := body(req)
		if err != nil {
			res.err = err
			return
		}
		if text != "" {
			res.result = site.TextResult(text)
		}
	}
}

// pageForPath maps a URL path to a page. On multilingual sites a leading
// language segment is stripped; the empty remainder is the home page.
func (s *Site) pageForPath(p string) *Page {
	p = strings.Trim(p, "/")
	if s.multilingual() {
		first, rest, _ := strings.Cut(p, "/")
		if s.hasLanguage(first) {
			p = rest
		}
	}
	if p == "" {
		return s.home
	}
	return s.page(p)
}

// discardWriter satisfies http.ResponseWriter for in-process resolution.
type discardWriter struct{}

func (discardWriter) Header() http.Header         { return http.Header{} }
func (discardWriter) Write(b []byte) (int, error) { return len(b), nil }
func (discardWriter) WriteHeader(int)             {}
