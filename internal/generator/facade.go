package generator

import (
	"context"

	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/outdir"
)

// Generate exports the whole site: it validates the output folder, writes the
// marker file, clears the folder except dot-files and preserve, renders all
// pages and copies the configured extra paths. An empty outputFolder uses the
// configured one. The returned manifest lists every written or copied file.
func (g *Generator) Generate(ctx context.Context, outputFolder, baseURL string, preserve []string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := g.outputFolder
	if outputFolder != "" {
		out = g.resolver.Resolve(outputFolder)
	}
	g.files.reset()

	return g.observeRun(ctx, out, baseURL, func(ctx context.Context) error {
		if err := g.stage(ctx, StageGuard, func(context.Context) error {
			guard := outdir.Guard{
				IndexFile: g.cleaner.IndexFile(),
				Protected: append([]string{g.host.ProjectRoot()}, g.protected...),
			}
			if err := guard.Check(out); err != nil {
				return err
			}
			return outdir.WriteMarker(out)
		}); err != nil {
			return err
		}

		_ = g.stage(ctx, StageClear, func(ctx context.Context) error {
			if !outdir.Clear(out, preserve) {
				observability.WarnContext(ctx, "Output folder was not fully cleared", logfields.Output(out))
			}
			return nil
		})

		if err := g.generatePages(ctx, baseURL); err != nil {
			return err
		}

		return g.stage(ctx, StageCopy, func(ctx context.Context) error {
			for _, p := range g.copyPaths {
				g.copyPath(ctx, p)
			}
			return nil
		})
	})
}

// ClearFolder empties folder except dot-files and preserved names. It
// reports whether every removal succeeded.
func (g *Generator) ClearFolder(folder string, preserve []string) bool {
	return outdir.Clear(g.resolver.Resolve(folder), preserve)
}
