package generator

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/fsutil"
	"git.home.luguber.info/inful/sitefreeze/internal/logfields"
	"git.home.luguber.info/inful/sitefreeze/internal/observability"
	"git.home.luguber.info/inful/sitefreeze/internal/rewrite"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// pageJob is one render-and-write unit.
type pageJob struct {
	node      site.Node
	key       string
	lang      string
	force     bool
	out       string
	finalBase string
	data      map[string]any
	// content replaces the render call when non-empty (literal route output).
	content string
}

// generatePage renders job.node under a freshly switched render context,
// rewrites the render-time base to the final base and writes the result.
func (g *Generator) generatePage(ctx context.Context, job pageJob) error {
	if err := ctx.Err(); err != nil {
		return canceledError(err)
	}
	start := time.Now()

	rc, release := g.acquireRender(job.node, job.lang, job.force)
	defer release()

	if d, ok := job.node.(site.Detachable); ok {
		d.Detach()
	}

	content := job.content
	if content == "" {
		var err error
		content, err = job.node.Render(ctx, rc, job.data)
		if err != nil {
			return g.renderError(err, job.key, job.lang)
		}
		if g.scanMedia {
			g.scanRenderedMedia(ctx, content)
		}
	}

	content = rewrite.Rewrite(content, g.run.renderBase, job.finalBase)
	if err := fsutil.WriteFile(job.out, []byte(content)); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write page").
			WithContext("page", job.key).
			WithContext("path", job.out).
			Fatal().Build()
	}
	g.files.add(job.out)

	d := time.Since(start)
	observability.DebugContext(ctx, "Page generated",
		logfields.Page(job.key), logfields.Language(job.lang), logfields.Path(job.out))
	g.observer.PageGenerated(ctx, PageEvent{Key: job.key, Language: job.lang, Path: job.out, Duration: d})
	return nil
}

// outputPath maps a slash path relative to the output folder onto the
// filesystem, appending the index file and collapsing it when the last
// segment already names a file. Only the relative part is cleaned, so dots in
// the output folder itself never matter.
func (g *Generator) outputPath(rel string) (string, error) {
	cleaned := g.cleaner.Clean("/" + rel + "/" + g.cleaner.IndexFile())
	return g.within(cleaned)
}

// within joins a slash path to the output folder and rejects results that
// escape it.
func (g *Generator) within(rel string) (string, error) {
	out := g.run.outputFolder
	p := filepath.Join(out, filepath.FromSlash(rel))
	r, err := filepath.Rel(out, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", ferrors.ValidationError("output path escapes the output folder").
			WithContext("path", rel).Build()
	}
	return p, nil
}

// nodePath derives a node's output path from its render-time URL.
func (g *Generator) nodePath(n site.Node, lang string) (string, error) {
	rel := strings.ReplaceAll(n.URL(lang), g.run.renderBase, "/")
	return g.outputPath(rel)
}
