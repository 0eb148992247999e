package plugin

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// ManifestFile names the metadata file of a directory plugin.
const ManifestFile = "plugin.yaml"

// DefaultVersion is assumed when plugin.yaml has no version.
const DefaultVersion = "0.0.0"

// DirPlugin is a plugin backed by a directory.
type DirPlugin struct {
	meta Metadata
	dir  string
}

var _ Plugin = (*DirPlugin)(nil)

// LoadDir reads dir/plugin.yaml. The directory name is the default plugin name.
func LoadDir(dir string) (*DirPlugin, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile)) // #nosec G304 -- plugin directory from configuration
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "invalid plugin manifest").
			WithContext("path", filepath.Join(dir, ManifestFile)).Build()
	}
	if meta.Name == "" {
		meta.Name = filepath.Base(dir)
	}
	if meta.Version == "" {
		meta.Version = DefaultVersion
	}
	if err := meta.Validate(); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "invalid plugin manifest").
			WithContext("path", filepath.Join(dir, ManifestFile)).Build()
	}
	return &DirPlugin{meta: meta, dir: dir}, nil
}

func (p *DirPlugin) Metadata() Metadata { return p.meta }

// Dir is the plugin directory.
func (p *DirPlugin) Dir() string { return p.dir }

// Assets walks dir/assets. Dot-files are skipped; a missing assets
// directory yields no assets.
func (p *DirPlugin) Assets() ([]site.PluginAsset, error) {
	root := filepath.Join(p.dir, "assets")
	var out []site.PluginAsset
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return filepath.SkipDir
			}
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, site.PluginAsset{Root: path, Path: filepath.ToSlash(rel), Plugin: p.meta.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Discover registers every directory below root that holds a plugin.yaml.
// A missing root is not an error. Broken plugins are logged and skipped.
func Discover(root string, r *Registry) (int, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read plugins directory").
			WithContext("path", root).Build()
	}

	n := 0
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if _, err := os.Stat(filepath.Join(dir, ManifestFile)); err != nil {
			continue
		}
		p, err := LoadDir(dir)
		if err != nil {
			slog.Warn("Skipping plugin", logfields.Plugin(e.Name()), logfields.Error(err))
			continue
		}
		if err := r.Register(p); err != nil {
			slog.Warn("Skipping plugin", logfields.Plugin(p.meta.Name), logfields.Error(err))
			continue
		}
		slog.Debug("Plugin registered", logfields.Plugin(p.meta.String()))
		n++
	}
	return n, nil
}
