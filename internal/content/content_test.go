package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitefreeze/internal/media"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func loadSite(t *testing.T, files map[string]string, mutate func(*Options)) *Site {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, files)
	opts := Options{
		ProjectRoot:  root,
		ContentDir:   "./content",
		TemplatesDir: "./templates",
		AssetsDir:    "./assets",
		BaseURL:      "https://example.test",
		Title:        "Test",
	}
	if mutate != nil {
		mutate(&opts)
	}
	s, err := Load(opts)
	require.NoError(t, err)
	return s
}

var basicTree = map[string]string{
	"content/home/index.md":            "---\ntitle: Welcome\n---\nHello ![logo](logo.png)\n",
	"content/home/logo.png":            "png",
	"content/1_blog/index.md":          "---\ntitle: Blog\n---\nPosts\n",
	"content/1_blog/first/index.md":    "---\ntitle: First\ndate: 2024-03-01\n---\nOne\n",
	"content/1_blog/second/index.md":   "---\ntitle: Second\ndate: 2024-04-01\ndescription: later\n---\nTwo\n",
	"content/2_about/index.md":         "About us\n",
	"content/drafts/index.md":          "Draft\n",
	"content/no-index/readme.txt":      "not a page",
	"content/.hidden/index.md":         "hidden",
	"templates/default.html":           "<h1>{{ .Page.Title }}</h1>{{ .Page.Content }}{{ range .Menu }}[{{ .Title }}]{{ end }}",
	"templates/post.html":              `{{ template "meta.html" . }}<article>{{ .Page.Content }}</article>`,
	"templates/partials/meta.html":     `<meta name="key" content="{{ .Page.Key }}">`,
	"content/1_blog/third/index.md":    "---\ntemplate: post\n---\nThree\n",
	"content/1_blog/third/diagram.svg": "<svg/>",
}

func TestLoadTree(t *testing.T) {
	s := loadSite(t, basicTree, nil)

	var keys []string
	for _, n := range s.Nodes() {
		keys = append(keys, n.Key())
	}
	assert.Equal(t, []string{"blog", "blog/first", "blog/second", "blog/third", "about", "drafts", "home"}, keys)

	require.NotNil(t, s.Home())
	assert.Equal(t, "home", s.Home().Key())
	assert.True(t, s.Home().IsHome())
	assert.Nil(t, s.Find("missing"))
	assert.Nil(t, s.Find("no-index"))

	blog := s.Page("blog")
	require.NotNil(t, blog)
	assert.True(t, blog.Listed())
	assert.False(t, s.Page("drafts").Listed())
	assert.Len(t, blog.Children(), 3)
	assert.Len(t, s.Root().Children(), 4)
	require.Len(t, s.Page("home").Files(), 1)
	assert.Equal(t, filepath.Join(s.opts.ContentDir, "home", "logo.png"), s.Page("home").Files()[0].Root())
}

func TestLoadMissingContentDir(t *testing.T) {
	_, err := Load(Options{ProjectRoot: t.TempDir(), ContentDir: "./content"})
	require.Error(t, err)
}

func TestURLsSingleLanguage(t *testing.T) {
	s := loadSite(t, basicTree, nil)
	assert.Equal(t, "https://example.test", s.Home().URL(""))
	assert.Equal(t, "https://example.test/blog/first", s.Find("blog/first").URL(""))

	s.SetBaseURL("")
	assert.Equal(t, "/", s.Home().URL(""))
	assert.Equal(t, "/media", s.MediaURL())
}

func TestURLsMultiLanguage(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md":     "Home",
		"content/home/index.de.md":  "Startseite",
		"content/about/index.md":    "About",
		"content/about/index.fr.md": "unknown language",
	}, func(o *Options) { o.Languages = []string{"en", "de"} })

	assert.Equal(t, "en", s.DefaultLanguage())
	assert.Equal(t, "https://example.test/de", s.Home().URL("de"))
	assert.Equal(t, "https://example.test/en/about", s.Find("about").URL("en"))

	about := s.Find("about")
	assert.True(t, about.TranslationExists("en"))
	assert.False(t, about.TranslationExists("de"))
	assert.True(t, s.Home().TranslationExists("de"))
}

func renderPage(t *testing.T, s *Site, key, lang string, col *media.Collector) string {
	t.Helper()
	n := s.Find(key)
	require.NotNil(t, n, key)
	out, err := n.Render(context.Background(), &site.RenderContext{Language: lang, Node: n, BaseURL: s.BaseURL(), Media: col}, nil)
	require.NoError(t, err)
	return out
}

func TestRenderLayoutAndMedia(t *testing.T) {
	s := loadSite(t, basicTree, nil)
	col := media.NewCollector()
	col.Activate()

	out := renderPage(t, s, "home", "", col)
	assert.Contains(t, out, "<h1>Welcome</h1>")
	assert.Contains(t, out, `src="https://example.test/media/pages/home/logo.png"`)
	assert.Contains(t, out, "[Blog][about]")

	assets := col.Drain()
	require.Len(t, assets, 1)
	assert.Equal(t, "https://example.test/media/pages/home/logo.png", assets[0].URL)

	out = renderPage(t, s, "blog/third", "", col)
	assert.Contains(t, out, `<meta name="key" content="blog/third">`)
	assert.Contains(t, out, "<article>")

	out = renderPage(t, s, "about", "", col)
	assert.Contains(t, out, "<h1>about</h1>")
}

func TestRenderCacheAndFlush(t *testing.T) {
	s := loadSite(t, basicTree, nil)
	first := renderPage(t, s, "about", "", nil)

	writeTree(t, s.opts.ContentDir, map[string]string{"2_about/index.md": "---\ntitle: Changed\n---\n"})
	assert.Equal(t, first, renderPage(t, s, "about", "", nil))

	s.FlushRenderCache()
	s.Page("about").ResetContent()
	s.ResetCollections()
	assert.Contains(t, renderPage(t, s, "about", "", nil), "<h1>Changed</h1>")
}

func TestRenderTemplateFuncs(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md":  "Home",
		"content/home/photo.jpg": "jpg",
		"content/docs/index.md":  "Docs",
		"templates/default.html": `{{ url "docs" }}|{{ url "/feed.xml" }}|{{ url "https://x.test" }}|{{ asset "site.css" }}|{{ media "photo.jpg" }}<script>var d = {{ json .Data }};</script>`,
	}, nil)
	col := media.NewCollector()
	col.Activate()

	n := s.Find("home")
	out, err := n.Render(context.Background(), &site.RenderContext{Node: n, Media: col}, map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"https://example.test/docs",
		"https://example.test/feed.xml",
		"https://x.test",
		"https://example.test/assets/site.css",
		`https://example.test/media/pages/home/photo.jpg<script>var d = {"a":1};</script>`,
	}, "|"), out)
	assert.Len(t, col.Drain(), 1)
}

func TestRenderTemplateErrorHasSourceLocation(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md":  "Home",
		"templates/default.html": "line one\nline two\n{{ media \"missing.png\" }}\n",
	}, nil)
	n := s.Find("home")
	_, err := n.Render(context.Background(), &site.RenderContext{Node: n}, nil)
	require.Error(t, err)

	var se *site.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, filepath.Join(s.opts.TemplatesDir, "default.html"), se.File)
	assert.Equal(t, 3, se.Line)
}

func TestRenderFrontMatterErrorHasSourceLocation(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md": "---\ntitle: ok\nbad: [unclosed\n---\nbody",
	}, nil)
	n := s.Find("home")
	_, err := n.Render(context.Background(), &site.RenderContext{Node: n}, nil)
	require.Error(t, err)

	var se *site.SourceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, filepath.Join(s.opts.ContentDir, "home", "index.md"), se.File)
	assert.GreaterOrEqual(t, se.Line, 1)
}

func TestRenderCanceled(t *testing.T) {
	s := loadSite(t, basicTree, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Find("home").Render(ctx, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranslationFallback(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md":    "---\ntitle: Home\n---\n",
		"content/home/index.de.md": "---\ntitle: Startseite\n---\n",
		"content/about/index.md":   "---\ntitle: About\n---\n",
	}, func(o *Options) { o.Languages = []string{"en", "de"} })

	assert.Contains(t, renderPage(t, s, "home", "de", nil), "Startseite")
	assert.Contains(t, renderPage(t, s, "home", "en", nil), "<title>Home | Test</title>")
	assert.Contains(t, renderPage(t, s, "about", "de", nil), "About")
}

func TestPlaceholderAndResolveMedia(t *testing.T) {
	s := loadSite(t, basicTree, nil)

	ph := s.NewPlaceholder("sitefreeze/abc")
	assert.False(t, ph.Exists())
	assert.False(t, ph.TranslationExists(""))
	out, err := ph.Render(context.Background(), &site.RenderContext{Node: ph}, map[string]any{"status": 404})
	require.NoError(t, err)
	assert.Contains(t, out, "<h1></h1>")

	root, ok := s.ResolveMedia("https://example.test/media/pages/blog/third/diagram.svg")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(s.opts.ContentDir, "1_blog", "third", "diagram.svg"), root)
	_, ok = s.ResolveMedia("https://example.test/media/pages/blog/third/missing.svg")
	assert.False(t, ok)
	_, ok = s.ResolveMedia("https://other.test/media/pages/home/logo.png")
	assert.False(t, ok)
}

func TestFingerprints(t *testing.T) {
	s := loadSite(t, basicTree, nil)
	fps, err := s.Fingerprints()
	require.NoError(t, err)
	require.Contains(t, fps, "blog/first")
	assert.NotEmpty(t, fps["blog/first"][""])
	assert.NotEqual(t, fps["blog/first"][""], fps["blog/second"][""])
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		fm      string
		body    string
		wantErr bool
	}{
		{"none", "# Title\n", "", "# Title\n", false},
		{"yaml", "---\nk: v\n---\nbody\n", "k: v\n", "body\n", false},
		{"crlf", "---\r\nk: v\r\n---\r\nbody\r\n", "k: v\n", "body\n", false},
		{"empty block", "---\n---\nbody", "", "body", false},
		{"closing at eof", "---\nk: v\n---", "k: v\n", "", false},
		{"unterminated", "---\nk: v\nbody", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := splitFrontMatter([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingClosingDelimiter)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.fm, string(fm))
			assert.Equal(t, tt.body, string(body))
		})
	}
}
