// Package media records binary assets referenced while pages render.
package media

import "sync"

// Asset is a media file referenced by a render: Root is the absolute source
// path, URL the render-time URL it was served under.
type Asset struct {
	Root string `json:"root"`
	URL  string `json:"url"`
}

// Collector accumulates assets for one generation run. Recording only happens
// while the collector is active; duplicate URLs are kept once. The zero value
// is ready to use. A nil *Collector ignores every call.
type Collector struct {
	mu     sync.Mutex
	active bool
	seen   map[string]struct{}
	assets []Asset
}

// NewCollector returns an inactive, empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Activate starts recording.
func (c *Collector) Activate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.active = true
	c.mu.Unlock()
}

// Deactivate stops recording; already recorded assets are kept.
func (c *Collector) Deactivate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// Active reports whether Record currently keeps assets.
func (c *Collector) Active() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Record keeps a when the collector is active and the URL is new. It reports
// whether the asset was added.
func (c *Collector) Record(a Asset) bool {
	if c == nil || a.URL == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return false
	}
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, dup := c.seen[a.URL]; dup {
		return false
	}
	c.seen[a.URL] = struct{}{}
	c.assets = append(c.assets, a)
	return true
}

// Drain returns the recorded assets in recording order. The collector keeps
// them until Clear.
func (c *Collector) Drain() []Asset {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

// Clear forgets every recorded asset.
func (c *Collector) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.assets = nil
	c.seen = nil
	c.mu.Unlock()
}
