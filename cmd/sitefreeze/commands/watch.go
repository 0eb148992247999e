package commands

import (
	"context"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/sitefreeze/internal/config"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct{}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s, err := openSinks(cfg, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	regenerate := regenerator(cfg, s)
	if err := regenerate(ctx); err != nil {
		g.Logger.Error("Initial generation failed", logfields.Error(err))
	}

	w, err := watch.New(watchRoots(cfg), regenerate, watch.WithIgnore(sidePaths(cfg)...))
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// regenerator returns a watch.Func running one full export.
func regenerator(cfg *config.Config, s *sinks) watch.Func {
	return func(ctx context.Context) error {
		files, err := generateOnce(ctx, cfg, s)
		if err != nil {
			return err
		}
		observability.InfoContext(ctx, "Site generated", logfields.Files(len(files)), logfields.Output(cfg.Resolve(cfg.Output.Directory)))
		return nil
	}
}

func watchRoots(cfg *config.Config) []string {
	return []string{
		cfg.Resolve(cfg.Site.ContentDir),
		cfg.Resolve(cfg.Site.TemplatesDir),
		cfg.Resolve(cfg.Site.AssetsDir),
		cfg.Resolve(cfg.Site.PluginsDir),
	}
}

// sidePaths are written by every run and must not retrigger one.
func sidePaths(cfg *config.Config) []string {
	out := []string{cfg.Resolve(cfg.Output.Directory)}
	for _, p := range []string{cfg.Record.Path, cfg.Events.Database} {
		if p != "" {
			out = append(out, cfg.Resolve(p))
		}
	}
	return out
}
