package generator

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/fsutil"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/metrics"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/outdir"
)

// CopyFiles copies a file or directory into the default output folder and
// returns the manifest. Missing sources are ignored; copy failures are logged
// and leave the manifest unchanged.
func (g *Generator) CopyFiles(ctx context.Context, src string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.run = &runState{outputFolder: g.outputFolder}
	defer func() { g.run = nil }()

	g.copyPath(ctx, g.resolver.Resolve(src))
	return g.files.list()
}

// copyPath copies src to <output>/<base name of src>. Directories replace
// the contents of a same-named target directory.
func (g *Generator) copyPath(ctx context.Context, src string) {
	if src == "" {
		return
	}
	fi, err := os.Stat(src)
	if err != nil {
		observability.DebugContext(ctx, "Copy source missing", logfields.Path(src))
		return
	}
	target := filepath.Join(g.run.outputFolder, filepath.Base(src))

	if !fi.IsDir() {
		g.copyFile(ctx, metrics.CopyKindPath, src, target)
		return
	}

	outdir.Clear(target, nil)
	ev := CopyEvent{Kind: metrics.CopyKindPath, Source: src, Target: target}
	if err := fsutil.CopyDir(src, target); err != nil {
		g.copyFailed(ctx, ev, err)
		return
	}
	list, err := fsutil.ListFiles(target)
	if err != nil {
		g.copyFailed(ctx, ev, err)
		return
	}
	g.files.add(list...)
	g.observer.FileCopied(ctx, ev)
}

// copyFile copies one file and records the target on success.
func (g *Generator) copyFile(ctx context.Context, kind, src, target string) {
	ev := CopyEvent{Kind: kind, Source: src, Target: target}
	if err := fsutil.CopyFile(src, target); err != nil {
		g.copyFailed(ctx, ev, err)
		return
	}
	g.files.add(target)
	g.observer.FileCopied(ctx, ev)
}

func (g *Generator) copyFailed(ctx context.Context, ev CopyEvent, err error) {
	cerr := ferrors.WrapError(err, ferrors.CategoryCopy, "copy failed").
		WithContext("source", ev.Source).
		WithContext("target", ev.Target).
		Warning().Build()
	observability.WarnContext(ctx, "Copy failed",
		logfields.Path(ev.Source), logfields.Output(ev.Target), logfields.Error(cerr))
	g.observer.CopyFailed(ctx, ev, cerr)
}

// copyMedia copies every asset captured during rendering to the output path
// mirroring its render-time URL.
func (g *Generator) copyMedia(ctx context.Context) {
	for _, a := range g.media.Drain() {
		rel := g.cleaner.Clean(strings.ReplaceAll(a.URL, g.run.renderBase, "/"))
		target, err := g.within(rel)
		if err != nil {
			g.copyFailed(ctx, CopyEvent{Kind: metrics.CopyKindMedia, Source: a.Root, Target: rel}, err)
			continue
		}
		observability.DebugContext(ctx, "Copying media", logfields.Asset(a.URL))
		g.copyFile(ctx, metrics.CopyKindMedia, a.Root, target)
	}
}

// copyPluginAssets copies each plugin asset to
// <output>/<media path>/plugins/<plugin>/<asset path>.
func (g *Generator) copyPluginAssets(ctx context.Context) {
	if g.plugins == nil {
		return
	}
	assets, err := g.plugins.PluginAssets()
	if err != nil {
		observability.WarnContext(ctx, "Cannot list plugin assets", logfields.Error(err))
		return
	}
	mediaPath := urlPath(g.host.MediaURL())
	for _, a := range assets {
		rel := path.Join("/", mediaPath, "plugins", a.Plugin, filepath.ToSlash(a.Path))
		target, err := g.within(rel)
		if err != nil {
			g.copyFailed(ctx, CopyEvent{Kind: metrics.CopyKindPlugin, Source: a.Root, Target: rel}, err)
			continue
		}
		g.copyFile(ctx, metrics.CopyKindPlugin, a.Root, target)
	}
}

// urlPath returns the path component of u without surrounding slashes.
func urlPath(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return strings.Trim(u, "/")
	}
	return strings.Trim(parsed.Path, "/")
}
