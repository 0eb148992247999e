package generator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// runState holds what one generation pass needs beyond the Generator config.
type runState struct {
	outputFolder string
	renderBase   string
	restoreBase  bool
}

// GeneratePages renders every page into the default output folder and copies
// captured media and plugin assets. It does not check or clear the folder.
func (g *Generator) GeneratePages(ctx context.Context, baseURL string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.files.reset()
	return g.observeRun(ctx, g.outputFolder, baseURL, func(ctx context.Context) error {
		return g.generatePages(ctx, baseURL)
	})
}

// generatePages walks the tree. Callers hold g.mu and have set g.run.
func (g *Generator) generatePages(ctx context.Context, baseURL string) error {
	g.beginRenderBase()
	defer g.endRenderBase()

	finalBase := strings.TrimRight(baseURL, "/") + "/"

	copyMedia := !g.skipMedia
	if copyMedia {
		g.media.Clear()
		g.media.Activate()
		defer func() {
			g.media.Deactivate()
			g.media.Clear()
		}()
	}

	if err := g.stage(ctx, StagePages, func(ctx context.Context) error {
		return g.generateTree(ctx, finalBase)
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, StageRoutes, func(ctx context.Context) error {
		for _, r := range g.routes {
			if err := g.generateRoute(ctx, finalBase, r); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if copyMedia {
		_ = g.stage(ctx, StageMedia, func(ctx context.Context) error {
			g.copyMedia(ctx)
			return nil
		})
	}
	if !g.skipPluginAssets {
		_ = g.stage(ctx, StagePlugins, func(ctx context.Context) error {
			g.copyPluginAssets(ctx)
			return nil
		})
	}
	return nil
}

// beginRenderBase picks the run's render-time base. Hosts without a base URL
// get a private one for the duration of the run.
func (g *Generator) beginRenderBase() {
	base := g.host.BaseURL()
	if base != "" {
		g.run.renderBase = base
		g.run.restoreBase = false
		return
	}
	base = g.fixedRenderBase
	if base == "" {
		base = "https://sitefreeze-" + uuid.NewString()
	}
	g.host.SetBaseURL(base)
	g.run.renderBase = base
	g.run.restoreBase = true
}

func (g *Generator) endRenderBase() {
	if g.run.restoreBase {
		g.host.SetBaseURL("")
		g.run.restoreBase = false
	}
}

// languages returns the codes to generate; a single "" for single-language hosts.
func (g *Generator) languages() []string {
	langs := g.host.Languages()
	if len(langs) == 0 {
		return []string{""}
	}
	return langs
}

func (g *Generator) generateTree(ctx context.Context, finalBase string) error {
	if home := g.host.Home(); home != nil {
		lang := g.host.DefaultLanguage()
		out, err := g.within("/" + g.cleaner.IndexFile())
		if err != nil {
			return err
		}
		if err := g.generatePage(ctx, pageJob{
			node: home, key: home.Key(), lang: lang, force: true, out: out, finalBase: finalBase,
		}); err != nil {
			return err
		}
	}

	nodes := g.host.Nodes()
	for _, lang := range g.languages() {
		lctx := observability.WithLanguage(ctx, lang)
		for _, n := range nodes {
			if g.ignoreUntranslated && !n.TranslationExists(lang) {
				observability.DebugContext(lctx, "Skipping untranslated page", logfields.Page(n.Key()))
				continue
			}
			// The URL depends on the host's current language.
			g.host.SetLanguage(lang)
			out, err := g.nodePath(n, lang)
			if err != nil {
				return err
			}
			if err := g.generatePage(lctx, pageJob{
				node: n, key: n.Key(), lang: lang, force: true, out: out, finalBase: finalBase,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) generateRoute(ctx context.Context, finalBase string, r Route) error {
	n := r.Node
	if n == nil && r.Page != "" {
		n = g.host.Find(r.Page)
		if n == nil {
			observability.WarnContext(ctx, "Custom route page not found",
				logfields.Route(r.Path), logfields.Page(r.Page))
		}
	}

	var text string
	if n == nil {
		res, err := g.resolveRoute(ctx, firstNonEmpty(r.Route, r.Path))
		if err != nil {
			return err
		}
		switch res.Kind {
		case site.RouteNode:
			n = res.Node
		case site.RouteText:
			text = res.Text
		case site.RouteEmpty:
		}
	}

	if r.Path == "" || (n == nil && text == "") {
		observability.DebugContext(ctx, "Skipping custom route without content", logfields.Route(r.Path))
		return nil
	}
	key := r.Path
	synthetic := n == nil
	if synthetic {
		n = g.host.NewPlaceholder("sitefreeze/" + uuid.NewString())
	} else {
		key = n.Key()
	}

	out, err := g.outputPath(r.Path)
	if err != nil {
		return err
	}
	return g.generatePage(ctx, pageJob{
		node:      n,
		key:       key,
		lang:      r.Language,
		force:     synthetic,
		out:       out,
		finalBase: firstNonEmpty(r.BaseURL, finalBase),
		data:      r.Data,
		content:   text,
	})
}

func (g *Generator) resolveRoute(ctx context.Context, path string) (site.RouteResult, error) {
	if path == "" || g.router == nil {
		return site.Empty, nil
	}
	res, err := g.router.Resolve(ctx, path, "GET")
	if err != nil {
		if isCanceled(err) {
			return site.Empty, canceledError(err)
		}
		return site.Empty, ferrors.WrapError(err, ferrors.CategoryRouting, "resolve custom route").
			WithContext("route", path).Fatal().Build()
	}
	return res, nil
}

// stage times fn and reports it to the observer under name.
func (g *Generator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	g.observer.StageCompleted(ctx, name, d)
	if err != nil {
		observability.ErrorContext(ctx, "Stage failed", logfields.Error(err))
		return err
	}
	observability.DebugContext(ctx, "Stage completed", logfields.DurationMS(float64(d.Microseconds())/1000))
	return nil
}

// observeRun wraps a run with logging and observer callbacks. Callers hold g.mu.
func (g *Generator) observeRun(ctx context.Context, out, baseURL string, fn func(context.Context) error) ([]string, error) {
	g.run = &runState{outputFolder: out}
	defer func() { g.run = nil }()

	info := RunInfo{
		ID:           uuid.NewString(),
		OutputFolder: out,
		BaseURL:      baseURL,
		Languages:    g.host.Languages(),
		Started:      time.Now(),
	}
	ctx = observability.WithRunID(ctx, info.ID)
	observability.InfoContext(ctx, "Generation started", logfields.Output(out))
	g.observer.RunStarted(ctx, info)

	err := fn(ctx)

	info.RenderBase = g.run.renderBase
	files := g.files.list()
	summary := RunSummary{RunInfo: info, Files: files, Duration: time.Since(info.Started), Err: err}
	g.observer.RunFinished(ctx, summary)

	attrs := []slog.Attr{
		logfields.Files(len(files)),
		logfields.DurationMS(float64(summary.Duration.Milliseconds())),
		logfields.Status(string(summary.Outcome())),
	}
	if err != nil {
		observability.ErrorContext(ctx, "Generation failed", append(attrs, logfields.Error(err))...)
		return files, err
	}
	observability.InfoContext(ctx, "Generation finished", attrs...)
	return files, nil
}
