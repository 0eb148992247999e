package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeJSON(t *testing.T) {
	assert.Equal(t, `https:\/\/sitefreeze-1`, EscapeJSON("https://sitefreeze-1"))
	assert.Equal(t, `\/`, EscapeJSON("/"))
	assert.Equal(t, `https:\/\/site.example\/a&b\/`, EscapeJSON("https://site.example/a&b/"))
}

func TestRewrite(t *testing.T) {
	const from = "https://sitefreeze-abc"
	tests := []struct {
		name, in, to, want string
	}{
		{
			name: "link with path",
			in:   `<a href="https://sitefreeze-abc/about">`,
			to:   "https://site.example/",
			want: `<a href="https://site.example/about">`,
		},
		{
			name: "bare base",
			in:   `<a href="https://sitefreeze-abc">home</a>`,
			to:   "/",
			want: `<a href="/">home</a>`,
		},
		{
			name: "escaped in script block",
			in:   `{"url":"https:\/\/sitefreeze-abc\/media\/a.png","home":"https:\/\/sitefreeze-abc"}`,
			to:   "https://site.example/",
			want: `{"url":"https:\/\/site.example\/media\/a.png","home":"https:\/\/site.example\/"}`,
		},
		{
			name: "relative target",
			in:   `src="https://sitefreeze-abc/media/pages/about/a.png"`,
			to:   "/",
			want: `src="/media/pages/about/a.png"`,
		},
		{
			name: "untouched content",
			in:   "no base here",
			to:   "/",
			want: "no base here",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rewrite(tt.in, from, tt.to))
		})
	}
}

func TestRewriteLeavesNoTrace(t *testing.T) {
	pairs := []struct{ from, to string }{
		{"https://sitefreeze-abc", "https://site.example/"},
		{"https://sitefreeze-abc", "/"},
		{"http://localhost:8080", "https://sitefreeze-abc.example/"},
		{"https://a.example/sub", "https://a.example/sub/deeper/"},
	}
	for _, p := range pairs {
		in := strings.Join([]string{
			p.from, p.from + "/x", EscapeJSON(p.from), EscapeJSON(p.from) + `\/y`,
			p.from + p.from, `"` + EscapeJSON(p.from) + `"`,
		}, " | ")
		out := Rewrite(in, p.from, p.to)

		// Occurrences introduced by the target itself are not leftovers.
		stripped := strings.ReplaceAll(out, p.to, "")
		stripped = strings.ReplaceAll(stripped, EscapeJSON(p.to), "")
		assert.NotContains(t, stripped, p.from, p)
		assert.NotContains(t, stripped, EscapeJSON(p.from), p)
	}
}

func TestRewriteEmptyFromIsNoop(t *testing.T) {
	assert.Equal(t, "abc", Rewrite("abc", "", "/"))
}
