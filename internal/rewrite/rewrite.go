// Package rewrite replaces the render-time base location in generated output.
package rewrite

import (
	"bytes"
	"encoding/json"
	"strings"
)

// EscapeJSON returns s the way it appears inside a JSON string literal emitted
// by the render layer: quotes stripped and every "/" escaped as `\/`.
func EscapeJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s) // strings always encode
	out := strings.TrimSuffix(buf.String(), "\n")
	out = strings.TrimPrefix(out, `"`)
	out = strings.TrimSuffix(out, `"`)
	return strings.ReplaceAll(out, "/", `\/`)
}

// Rewriter substitutes one base location for another, in raw and
// JSON-escaped form, in a single pass.
type Rewriter struct {
	from, to string
	r        *strings.Replacer
}

// New returns a Rewriter mapping from to to. A trailing "/" after from is
// absorbed, so to is expected to end with exactly one "/".
func New(from, to string) *Rewriter {
	escFrom, escTo := EscapeJSON(from), EscapeJSON(to)
	// Longer patterns first: strings.Replacer prefers the earliest listed
	// match at a position.
	r := strings.NewReplacer(
		from+"/", to,
		from, to,
		escFrom+`\/`, escTo,
		escFrom, escTo,
	)
	return &Rewriter{from: from, to: to, r: r}
}

// From returns the render-time base.
func (w *Rewriter) From() string { return w.from }

// To returns the final base.
func (w *Rewriter) To() string { return w.to }

// Rewrite applies the substitution to content.
func (w *Rewriter) Rewrite(content string) string {
	if w.from == "" {
		return content
	}
	return w.r.Replace(content)
}

// Rewrite is a one-shot convenience for New(from, to).Rewrite(content).
func Rewrite(content, from, to string) string {
	return New(from, to).Rewrite(content)
}
