// Package plugin discovers site extensions and the static assets they ship.
//
// A plugin is a directory below the plugins root holding a plugin.yaml and,
// optionally, an assets/ tree that is copied to
// <media>/plugins/<name>/<path> on export.
package plugin

import (
	"fmt"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// Plugin is a registered extension.
type Plugin interface {
	Metadata() Metadata
	// Assets lists the files the plugin ships, relative paths slash separated.
	Assets() ([]site.PluginAsset, error)
}

// Metadata describes a plugin's identity.
type Metadata struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
}

func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks required fields. Names become URL segments, so slashes
// and dot-only names are rejected.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if strings.ContainsAny(m.Name, `/\`) || strings.Trim(m.Name, ".") == "" {
		return fmt.Errorf("invalid plugin name %q", m.Name)
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// compareVersions orders dotted numeric versions ("v1.10.0" > "v1.9.2").
// Non-numeric segments compare lexically.
func compareVersions(a, b string) int {
	as := strings.Split(strings.TrimPrefix(a, "v"), ".")
	bs := strings.Split(strings.TrimPrefix(b, "v"), ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var x, y string
		if i < len(as) {
			x = as[i]
		}
		if i < len(bs) {
			y = bs[i]
		}
		xn, xerr := strconv.Atoi(x)
		yn, yerr := strconv.Atoi(y)
		switch {
		case xerr == nil && yerr == nil:
			if xn != yn {
				if xn < yn {
					return -1
				}
				return 1
			}
		case x != y:
			if x < y {
				return -1
			}
			return 1
		}
	}
	return 0
}
