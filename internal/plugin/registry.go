package plugin

import (
	"fmt"
	"sort"
	"sync"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// Registry manages plugin registration and discovery.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]map[string]Plugin // map[name]map[version]Plugin
}

var _ site.AssetRegistry = (*Registry)(nil)

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]map[string]Plugin)}
}

// Register adds a plugin. A second registration of the same name and
// version is an error.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	meta := p.Metadata()
	if err := meta.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.plugins[meta.Name] == nil {
		r.plugins[meta.Name] = make(map[string]Plugin)
	}
	if _, exists := r.plugins[meta.Name][meta.Version]; exists {
		return fmt.Errorf("plugin %s already registered", meta)
	}
	r.plugins[meta.Name][meta.Version] = p
	return nil
}

// Get retrieves a specific plugin version.
func (r *Registry) Get(name, version string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.plugins[name]
	if !ok {
		return nil, notFound(name, "")
	}
	p, ok := versions[version]
	if !ok {
		return nil, notFound(name, version)
	}
	return p, nil
}

// GetLatest returns the highest registered version of name.
func (r *Registry) GetLatest(name string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := latest(r.plugins[name])
	if p == nil {
		return nil, notFound(name, "")
	}
	return p, nil
}

func latest(versions map[string]Plugin) Plugin {
	var best string
	var found Plugin
	for v, p := range versions {
		if found == nil || compareVersions(v, best) > 0 {
			best, found = v, p
		}
	}
	return found
}

// List returns every registered plugin ordered by name, then version.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []Plugin
	for _, versions := range r.plugins {
		for _, p := range versions {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Metadata(), result[j].Metadata()
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return compareVersions(a.Version, b.Version) < 0
	})
	return result
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has checks if any version of name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.plugins[name]
	return ok
}

// Unregister removes a plugin version.
func (r *Registry) Unregister(name, version string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	versions, ok := r.plugins[name]
	if !ok {
		return notFound(name, "")
	}
	if _, ok := versions[version]; !ok {
		return notFound(name, version)
	}
	delete(versions, version)
	if len(versions) == 0 {
		delete(r.plugins, name)
	}
	return nil
}

// Count returns the number of registered plugins, all versions included.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, versions := range r.plugins {
		count += len(versions)
	}
	return count
}

// PluginAssets lists the assets of the latest version of every plugin,
// ordered by plugin name and then path.
func (r *Registry) PluginAssets() ([]site.PluginAsset, error) {
	var out []site.PluginAsset
	for _, name := range r.Names() {
		p, err := r.GetLatest(name)
		if err != nil {
			continue
		}
		assets, err := p.Assets()
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Metadata(), err)
		}
		sort.Slice(assets, func(i, j int) bool { return assets[i].Path < assets[j].Path })
		out = append(out, assets...)
	}
	return out, nil
}

func notFound(name, version string) error {
	msg := "plugin " + name + " not found"
	if version != "" {
		msg = "plugin " + name + "@" + version + " not found"
	}
	return ferrors.NotFoundError(msg).
		WithContext("plugin", name).
		WithContext("version", version).
		Build()
}
