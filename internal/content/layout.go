package content

import (
	"encoding/json"
	"html/template"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

const defaultLayout = "default"

const builtinLayout = `<!DOCTYPE html>
<html lang="{{ .Site.Language }}">
<head>
<meta charset="utf-8">
<title>{{ with .Page.Title }}{{ . }} | {{ end }}{{ .Site.Title }}</title>
<link rel="alternate" type="application/rss+xml" href="{{ url "/feed.xml" }}">
</head>
<body>
<nav>{{ range .Menu }}<a href="{{ .URL }}">{{ .Title }}</a> {{ end }}</nav>
<main>
<h1>{{ .Page.Title }}</h1>
{{ .Page.Content }}
{{ with .Page.Children }}<ul>{{ range . }}<li><a href="{{ .URL }}">{{ .Title }}</a></li>{{ end }}</ul>{{ end }}
</main>
</body>
</html>
`

// layoutSet holds parsed layouts. Each top-level *.html file in the templates
// directory is a layout named after the file without extension; files in
// partials/ are parsed into every layout.
type layoutSet struct {
	layouts map[string]*template.Template
	// files maps a template name (file base name) to its source path.
	files map[string]string
}

// stubFuncs declares the template functions at parse time. Each render binds
// real implementations on a clone.
func stubFuncs() template.FuncMap {
	return template.FuncMap{
		"url":   func(string) string { return "" },
		"media": func(string) (string, error) { return "", nil },
		"asset": func(string) string { return "" },
		"json":  func(any) (template.JS, error) { return "", nil },
	}
}

func loadLayouts(dir string) (*layoutSet, error) {
	l := &layoutSet{layouts: map[string]*template.Template{}, files: map[string]string{}}

	var layouts, partials []string
	if dir != "" {
		var err error
		if layouts, err = filepath.Glob(filepath.Join(dir, "*.html")); err != nil {
			return nil, err
		}
		if partials, err = filepath.Glob(filepath.Join(dir, "partials", "*.html")); err != nil {
			return nil, err
		}
		sort.Strings(layouts)
		sort.Strings(partials)
	}
	for _, f := range partials {
		l.files[filepath.Base(f)] = f
	}

	for _, f := range layouts {
		base := filepath.Base(f)
		l.files[base] = f
		t, err := template.New(base).Funcs(stubFuncs()).ParseFiles(append([]string{f}, partials...)...)
		if err != nil {
			return nil, l.sourceError(err)
		}
		l.layouts[strings.TrimSuffix(base, ".html")] = t
	}

	if _, ok := l.layouts[defaultLayout]; !ok {
		t, err := template.New(defaultLayout + ".html").Funcs(stubFuncs()).Parse(builtinLayout)
		if err != nil {
			return nil, err
		}
		l.layouts[defaultLayout] = t
	}
	return l, nil
}

// instance returns a clone of the named layout (default when missing) with
// funcs bound.
func (l *layoutSet) instance(name string, funcs template.FuncMap) (*template.Template, error) {
	t, ok := l.layouts[name]
	if !ok {
		t = l.layouts[defaultLayout]
	}
	c, err := t.Clone()
	if err != nil {
		return nil, err
	}
	return c.Funcs(funcs), nil
}

var templateLocation = regexp.MustCompile(`template: ([^:\s]+):(\d+)`)

// sourceError attaches the template file and line to err when the message
// names a known template.
func (l *layoutSet) sourceError(err error) error {
	m := templateLocation.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	file, ok := l.files[m[1]]
	if !ok {
		return err
	}
	line, _ := strconv.Atoi(m[2])
	return &site.SourceError{File: file, Line: line, Err: err}
}

func jsonFunc(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil //nolint:gosec // json.Marshal output is a valid JS literal
}
