package config

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/language"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/paths"
)

// NormalizationResult lists coercions applied by Normalize.
type NormalizationResult struct{ Warnings []string }

func (r *NormalizationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

func (r *NormalizationResult) log(w string) {
	slog.Warn("config normalization", "detail", w)
}

// Normalize canonicalizes enumerations, language codes and the index file
// name. Unknown enumerations fall back with a warning; malformed language
// codes are validation errors.
func Normalize(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, ferrors.InternalError("config nil").Build()
	}
	res := &NormalizationResult{}

	normalizeLogging(&c.Logging, res)

	for i, l := range c.Site.Languages {
		tag, err := canonicalLanguage(l)
		if err != nil {
			return nil, languageError(fmt.Sprintf("site.languages[%d]", i), l, err)
		}
		c.Site.Languages[i] = tag
	}
	if c.Site.DefaultLanguage != "" {
		tag, err := canonicalLanguage(c.Site.DefaultLanguage)
		if err != nil {
			return nil, languageError("site.default_language", c.Site.DefaultLanguage, err)
		}
		c.Site.DefaultLanguage = tag
	}
	for i := range c.Routes {
		if c.Routes[i].Language == "" {
			continue
		}
		tag, err := canonicalLanguage(c.Routes[i].Language)
		if err != nil {
			return nil, languageError(fmt.Sprintf("routes[%d].language", i), c.Routes[i].Language, err)
		}
		c.Routes[i].Language = tag
	}

	if c.Output.IndexFile != "" {
		name, ok := paths.SanitizeIndexFileName(c.Output.IndexFile)
		switch {
		case !ok:
			res.warn("invalid output.index_file %q, using %s", c.Output.IndexFile, paths.DefaultIndexFile)
			c.Output.IndexFile = paths.DefaultIndexFile
		case name != c.Output.IndexFile:
			res.warn("normalized output.index_file from %q to %q", c.Output.IndexFile, name)
			c.Output.IndexFile = name
		}
	}

	c.Output.BaseURL = strings.TrimSpace(c.Output.BaseURL)
	c.Site.BaseURL = strings.TrimRight(strings.TrimSpace(c.Site.BaseURL), "/")
	return res, nil
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := string(l.Level); raw != "" {
		if lvl, ok := logLevels.Lookup(raw); ok {
			l.Level = lvl
		} else {
			res.warn("unknown logging.level %q, defaulting to %s", raw, LogLevelInfo)
			l.Level = LogLevelInfo
		}
	}
	if raw := string(l.Format); raw != "" {
		if f, ok := logFormats.Lookup(raw); ok {
			l.Format = f
		} else {
			res.warn("unknown logging.format %q, defaulting to %s", raw, LogFormatText)
			l.Format = LogFormatText
		}
	}
}

// canonicalLanguage returns the BCP 47 form of code ("EN_us" becomes "en-US").
func canonicalLanguage(code string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(code), "_", "-"))
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func languageError(field, value string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryValidation, "invalid language code").
		WithContext("field", field).
		WithContext("value", value).
		Fatal().Build()
}
