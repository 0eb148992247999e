package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := NewResolver("/proj")

	assert.Equal(t, "/proj/assets", r.Resolve("./assets"))
	assert.Equal(t, "/proj/assets", r.Resolve(".//assets/"))
	assert.Equal(t, "/shared", r.Resolve("../shared"))
	assert.Equal(t, "/abs/path", r.Resolve("/abs/path"))
	assert.Empty(t, r.Resolve(""))
}

func TestResolveCanonicalizesExistingPaths(t *testing.T) {
	root := t.TempDir()
	real, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, "assets"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "assets"), filepath.Join(root, "link")))

	r := NewResolver(root)
	assert.Equal(t, filepath.Join(real, "assets"), r.Resolve("./assets"))
	assert.Equal(t, filepath.Join(real, "assets"), r.Resolve("./link"))
}

func TestResolveMany(t *testing.T) {
	r := NewResolver("/proj")
	got := r.ResolveMany([]string{"./assets", "", "/var/www/robots.txt"})
	assert.Equal(t, []string{"/proj/assets", "/var/www/robots.txt"}, got)
}

func TestClean(t *testing.T) {
	c := NewCleaner("index.html")
	tests := []struct {
		in, want string
	}{
		{"/out//about//index.html", "/out/about/index.html"},
		{"/out/feed.xml/index.html", "/out/feed.xml"},
		{"/out/FEED.XML/INDEX.HTML", "/out/FEED.XML"},
		{"/out/data.geojson/index.html", "/out/data.geojson"},
		{"/out/.well-known/index.html", "/out/.well-known"},
		{"/out/blog/index.html", "/out/blog/index.html"},
		{"/out/index.html", "/out/index.html"},
		{"/out//feed.xml//index.html", "/out/feed.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Clean(tt.in))
		})
	}
}

func TestCleanQuotesIndexFile(t *testing.T) {
	c := NewCleaner("index.html")
	// the dot in the index name must not match arbitrary characters
	assert.Equal(t, "/out/feed.xml/indexXhtml", c.Clean("/out/feed.xml/indexXhtml"))
}

func TestCleanIsIdempotent(t *testing.T) {
	c := NewCleaner("index.htm")
	inputs := []string{
		"/out/a.b/index.htm/index.htm",
		"/out/x/index.htm/index.htm/index.htm",
		"//out///feed.rss//index.htm",
		"/out/v1.2/index.htm",
		"/out/plain",
		"",
	}
	for _, p := range inputs {
		once := c.Clean(p)
		assert.Equal(t, once, c.Clean(once), p)
	}
}

func TestSanitizeIndexFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"index.html", "index.html", true},
		{"in dex.php", "index.php", true},
		{"../index.htm", "..index.htm", true},
		{"index", "", false},
		{"...", "", false},
		{"/./", "", false},
	}
	for _, tt := range tests {
		got, ok := SanitizeIndexFileName(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
