package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitefreeze/internal/config"
	"git.home.luguber.info/inful/sitefreeze/internal/content"
	"git.home.luguber.info/inful/sitefreeze/internal/eventstore"
	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/generator"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/manifest"
	"git.home.luguber.info/inful/sitefreeze/internal/metrics"
	"git.home.luguber.info/inful/sitefreeze/internal/notify"
	"git.home.luguber.info/inful/sitefreeze/internal/plugin"
)

// sinks are the long-lived observers shared by every run of a process.
type sinks struct {
	observers []generator.Observer
	store     *eventstore.SQLiteStore
	notifier  *notify.Notifier
}

// openSinks connects the optional event store and NATS notifier. rec may be
// nil when metrics are not exported.
func openSinks(cfg *config.Config, rec metrics.Recorder) (*sinks, error) {
	s := &sinks{}
	if rec != nil {
		s.observers = append(s.observers, generator.MetricsObserver(rec))
	}
	if cfg.Events.Database != "" {
		store, err := openStore(cfg)
		if err != nil {
			return nil, err
		}
		s.store = store
		s.observers = append(s.observers, eventstore.NewRecorder(store))
	}
	if cfg.Notify.NATSURL != "" {
		n, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.notifier = n
		s.observers = append(s.observers, n)
	}
	return s, nil
}

func openStore(cfg *config.Config) (*eventstore.SQLiteStore, error) {
	path := cfg.Resolve(cfg.Events.Database)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create event store directory").
			WithContext("path", path).Build()
	}
	return eventstore.NewSQLiteStore(path)
}

func (s *sinks) Close() {
	if s.notifier != nil {
		if err := s.notifier.Close(); err != nil {
			slog.Warn("Failed to close NATS connection", logfields.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("Failed to close event store", logfields.Error(err))
		}
	}
}

// project is one loaded site with its generator.
type project struct {
	cfg     *config.Config
	site    *content.Site
	plugins *plugin.Registry
	gen     *generator.Generator
	record  *manifest.Writer
}

// overrides are command line settings layered over the configuration.
type overrides struct {
	recordPath         string
	indexFile          string
	skipMedia          bool
	skipPluginAssets   bool
	ignoreUntranslated bool
}

// apply returns a copy of cfg with the generation flags switched on.
func (o overrides) apply(cfg *config.Config) *config.Config {
	eff := *cfg
	eff.Generation.SkipMedia = eff.Generation.SkipMedia || o.skipMedia
	eff.Generation.SkipPluginAssets = eff.Generation.SkipPluginAssets || o.skipPluginAssets
	eff.Generation.IgnoreUntranslated = eff.Generation.IgnoreUntranslated || o.ignoreUntranslated
	return &eff
}

// loadProject loads content and plugins and assembles a generator wired to
// the shared sinks. It runs once per regeneration so content changes are
// picked up.
func loadProject(cfg *config.Config, s *sinks, o overrides) (*project, error) {
	cfg = o.apply(cfg)
	site, err := content.Load(content.Options{
		ProjectRoot:     cfg.ProjectRoot,
		ContentDir:      cfg.Site.ContentDir,
		TemplatesDir:    cfg.Site.TemplatesDir,
		AssetsDir:       cfg.Site.AssetsDir,
		BaseURL:         cfg.Site.BaseURL,
		Title:           cfg.Site.Title,
		Languages:       cfg.Site.Languages,
		DefaultLanguage: cfg.Site.DefaultLanguage,
		Home:            cfg.Site.Home,
	})
	if err != nil {
		return nil, err
	}

	plugins := plugin.NewRegistry()
	n, err := plugin.Discover(cfg.Resolve(cfg.Site.PluginsDir), plugins)
	if err != nil {
		return nil, err
	}
	slog.Debug("Plugins discovered", slog.Int("count", n))

	gen := generator.New(site, generator.Options{
		OutputFolder:       cfg.Output.Directory,
		CopyPaths:          cfg.Output.Copy,
		SkipMedia:          cfg.Generation.SkipMedia,
		SkipPluginAssets:   cfg.Generation.SkipPluginAssets,
		IgnoreUntranslated: cfg.Generation.IgnoreUntranslated,
		ScanMedia:          cfg.Generation.ScanMedia,
		IndexFile:          cfg.Output.IndexFile,
		Routes:             routes(cfg.Routes),
		RenderBase:         cfg.Output.RenderBase,
		Protected: []string{
			cfg.Resolve(cfg.Site.ContentDir),
			cfg.Resolve(cfg.Site.TemplatesDir),
			cfg.Resolve(cfg.Site.AssetsDir),
			cfg.Resolve(cfg.Site.PluginsDir),
		},
	}).WithRouter(content.NewRouter(site)).WithAssetRegistry(plugins)
	if o.indexFile != "" && !gen.SetIndexFileName(o.indexFile) {
		slog.Warn("Ignoring invalid index file name", slog.String("index_file", o.indexFile))
	}

	p := &project{cfg: cfg, site: site, plugins: plugins, gen: gen}

	observers := append([]generator.Observer(nil), s.observers...)
	recordPath := firstNonEmpty(o.recordPath, cfg.Record.Path)
	if recordPath != "" {
		p.record = manifest.NewWriter(cfg.Resolve(recordPath), p.recordSource())
		observers = append(observers, p.record)
	}
	gen.WithObserver(generator.MultiObserver(observers))
	return p, nil
}

func (p *project) recordSource() manifest.Source {
	plan := manifest.Plan{
		IndexFile:        p.gen.IndexFileName(),
		SkipMedia:        p.cfg.Generation.SkipMedia,
		SkipPluginAssets: p.cfg.Generation.SkipPluginAssets,
	}
	for _, r := range p.cfg.Routes {
		plan.Routes = append(plan.Routes, r.Path)
	}
	if !plan.SkipPluginAssets {
		for _, pl := range p.plugins.List() {
			m := pl.Metadata()
			plan.Plugins = append(plan.Plugins, manifest.PluginVersion{Name: m.Name, Version: m.Version})
		}
	}
	return manifest.Source{
		ConfigHash:   configHash(p.cfg),
		ProjectRoot:  p.cfg.ProjectRoot,
		Plan:         plan,
		Fingerprints: p.site.Fingerprints,
	}
}

// configHash fingerprints the effective configuration.
func configHash(cfg *config.Config) string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return ""
	}
	return manifest.HashBytes(data)
}

func routes(rcs []config.RouteConfig) []generator.Route {
	out := make([]generator.Route, 0, len(rcs))
	for _, rc := range rcs {
		out = append(out, generator.Route{
			Path:     rc.Path,
			Page:     rc.Page,
			Route:    rc.Route,
			BaseURL:  rc.BaseURL,
			Data:     rc.Data,
			Language: rc.Language,
		})
	}
	return out
}

// generateOnce loads a fresh project and runs a full export with the
// configured output folder, base URL and preserve list.
func generateOnce(ctx context.Context, cfg *config.Config, s *sinks) ([]string, error) {
	p, err := loadProject(cfg, s, overrides{})
	if err != nil {
		return nil, err
	}
	return p.gen.Generate(ctx, "", cfg.Output.BaseURL, cfg.Output.Preserve)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
