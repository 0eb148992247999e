// Package paths resolves configured filesystem paths and derives collision-safe
// output paths for generated pages.
package paths

import (
	"path/filepath"
	"strings"
)

// Resolver turns configured paths into absolute ones. Dot-prefixed paths
// ("./assets", "../shared") are taken relative to Root; everything else
// relative to the working directory.
type Resolver struct {
	Root string
}

// NewResolver returns a Resolver anchored at root.
func NewResolver(root string) Resolver {
	return Resolver{Root: root}
}

// Resolve returns the canonical absolute form of p. When the path cannot be
// canonicalized, typically because it does not exist yet, the joined path is
// returned as-is after separator cleanup. Empty input yields "".
func (r Resolver) Resolve(p string) string {
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, ".") {
		p = filepath.Join(r.Root, p)
	}
	return Canonical(p)
}

// ResolveMany resolves every entry and drops empty results, preserving order.
func (r Resolver) ResolveMany(ps []string) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		if abs := r.Resolve(p); abs != "" {
			out = append(out, abs)
		}
	}
	return out
}

// Canonical returns p as an absolute path with symlinks evaluated. Paths that
// cannot be evaluated are returned cleaned.
func Canonical(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return p
}
