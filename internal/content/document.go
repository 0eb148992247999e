package content

import (
	"bytes"
	"errors"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/inful/mdfp"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// ErrMissingClosingDelimiter is returned for a document that opens a front
// matter block without closing it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// document is a parsed page source.
type document struct {
	source string
	fields map[string]any
	body   []byte
}

func readDocument(path string) (*document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the content tree walk
	if err != nil {
		return nil, err
	}
	return parseDocument(path, data)
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// parseDocument splits YAML front matter from the markdown body. Errors carry
// the source location.
func parseDocument(source string, data []byte) (*document, error) {
	fm, body, err := splitFrontMatter(data)
	if err != nil {
		return nil, &site.SourceError{File: source, Line: 1, Err: err}
	}
	fields := map[string]any{}
	if len(fm) > 0 {
		if err := yaml.Unmarshal(fm, &fields); err != nil {
			line := 1
			if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
				n, _ := strconv.Atoi(m[1])
				line += n
			}
			return nil, &site.SourceError{File: source, Line: line, Err: err}
		}
		if fields == nil {
			fields = map[string]any{}
		}
	}
	return &document{source: source, fields: fields, body: body}, nil
}

// splitFrontMatter separates a leading "---" delimited block from the body.
// CRLF input is folded to LF first.
func splitFrontMatter(data []byte) (fm, body []byte, err error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	const delim = "---\n"
	if !bytes.HasPrefix(data, []byte(delim)) {
		return nil, data, nil
	}
	rest := data[len(delim):]
	if bytes.HasPrefix(rest, []byte(delim)) {
		return nil, rest[len(delim):], nil
	}
	if idx := bytes.Index(rest, []byte("\n"+delim)); idx >= 0 {
		return rest[:idx+1], rest[idx+1+len(delim):], nil
	}
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-3], nil, nil
	}
	return nil, nil, ErrMissingClosingDelimiter
}

func (d *document) str(key string) string {
	s, _ := d.fields[key].(string)
	return s
}

func (d *document) title() string { return d.str("title") }

func (d *document) template() string {
	if t := d.str("template"); t != "" {
		return t
	}
	return defaultLayout
}

// date reads the "date" field, either a YAML timestamp or an RFC 3339 /
// YYYY-MM-DD string.
func (d *document) date() (time.Time, bool) {
	switch v := d.fields["date"].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// fingerprintExcluded fields do not contribute to a content fingerprint.
var fingerprintExcluded = map[string]bool{
	mdfp.FingerprintField: true,
	"lastmod":             true,
	"uid":                 true,
	"aliases":             true,
}

// fingerprint hashes the front matter (minus volatile fields) and body.
func (d *document) fingerprint() (string, error) {
	fields := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		if !fingerprintExcluded[k] {
			fields[k] = v
		}
	}
	fm := ""
	if len(fields) > 0 {
		out, err := yaml.Marshal(fields)
		if err != nil {
			return "", err
		}
		fm = string(bytes.TrimSuffix(out, []byte("\n")))
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(d.body)), nil
}
