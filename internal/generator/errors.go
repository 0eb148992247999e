package generator

import (
	"context"
	"errors"
	"strconv"
	"strings"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/site"
)

// renderError attributes a failed render to its page and language. When the
// host reports a source location the message reads
// `Error in <file> line <n> while rendering page "<key>" (<lang>)`.
func (g *Generator) renderError(err error, key, lang string) error {
	if isCanceled(err) {
		return canceledError(err)
	}
	suffix := ""
	if lang != "" {
		suffix = " (" + lang + ")"
	}

	b := ferrors.RenderError(`error while rendering page "` + key + `"` + suffix).WithCause(err)
	var se *site.SourceError
	if errors.As(err, &se) {
		file := se.File
		if root := g.host.ProjectRoot(); root != "" {
			file = strings.Replace(file, root, "", 1)
		}
		b = ferrors.RenderError("Error in " + file + " line " + strconv.Itoa(se.Line) +
			` while rendering page "` + key + `"` + suffix).
			WithCause(se.Err).
			WithContext("file", file).
			WithContext("line", se.Line)
	}
	return b.WithContext("page", key).WithContext("lang", lang).Build()
}

func canceledError(err error) error {
	return ferrors.RuntimeError("generation canceled").WithCause(err).Build()
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
