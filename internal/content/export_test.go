package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitefreeze/internal/generator"
)

func TestExportSite(t *testing.T) {
	tree := map[string]string{"assets/site.css": "body{}"}
	for k, v := range basicTree {
		tree[k] = v
	}
	s := loadSite(t, tree, func(o *Options) { o.BaseURL = "" })
	out := filepath.Join(s.ProjectRoot(), "public")

	g := generator.New(s, generator.Options{
		OutputFolder: "./public",
		CopyPaths:    []string{"./assets"},
		Routes: []generator.Route{
			{Path: "feed.xml"},
			{Path: "robots.txt"},
			{Path: "404", Page: "drafts", Data: map[string]any{"status": 404}},
		},
	}).WithRouter(NewRouter(s))

	files, err := g.Generate(context.Background(), "", "https://final.test", nil)
	require.NoError(t, err)
	assert.Empty(t, s.BaseURL())

	home := read(t, filepath.Join(out, "index.html"))
	assert.Contains(t, home, "<h1>Welcome</h1>")
	assert.Contains(t, home, `src="https://final.test/media/pages/home/logo.png"`)
	assert.NotContains(t, home, "sitefreeze-")

	assert.FileExists(t, filepath.Join(out, "blog", "first", "index.html"))
	assert.FileExists(t, filepath.Join(out, "404", "index.html"))
	assert.FileExists(t, filepath.Join(out, "media", "pages", "home", "logo.png"))
	assert.FileExists(t, filepath.Join(out, "assets", "site.css"))
	assert.FileExists(t, filepath.Join(out, ".sitefreeze"))
	assert.NoDirExists(t, filepath.Join(out, "home"))

	feed := read(t, filepath.Join(out, "feed.xml"))
	assert.Contains(t, feed, "<link>https://final.test/blog/second</link>")
	assert.Contains(t, read(t, filepath.Join(out, "robots.txt")), "Sitemap: https://final.test/sitemap.xml")

	assert.Contains(t, files, filepath.Join(out, "index.html"))
	assert.Contains(t, files, filepath.Join(out, "feed.xml"))
	assert.Contains(t, files, filepath.Join(out, "assets", "site.css"))
}

func TestExportMultiLanguage(t *testing.T) {
	s := loadSite(t, map[string]string{
		"content/home/index.md":     "---\ntitle: Home\n---\n",
		"content/home/index.de.md":  "---\ntitle: Startseite\n---\n",
		"content/about/index.md":    "---\ntitle: About\n---\n",
		"content/about/index.de.md": "---\ntitle: Über\n---\n",
		"content/only-en/index.md":  "---\ntitle: English only\n---\n",
	}, func(o *Options) { o.Languages = []string{"en", "de"} })
	out := filepath.Join(s.ProjectRoot(), "public")

	g := generator.New(s, generator.Options{OutputFolder: "./public"}).SetIgnoreUntranslatedPages(true)
	_, err := g.Generate(context.Background(), "", "/", nil)
	require.NoError(t, err)

	assert.Contains(t, read(t, filepath.Join(out, "index.html")), "Home")
	assert.Contains(t, read(t, filepath.Join(out, "de", "index.html")), "Startseite")
	assert.Contains(t, read(t, filepath.Join(out, "de", "about", "index.html")), "Über")
	assert.FileExists(t, filepath.Join(out, "en", "only-en", "index.html"))
	assert.NoFileExists(t, filepath.Join(out, "de", "only-en", "index.html"))
}

func read(t *testing.T, p string) string {
	t.Helper()
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(b)
}
