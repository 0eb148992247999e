package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
	"git.home.luguber.info/inful/sitefreeze/internal/paths"
)

// MinDaemonInterval bounds daemon.interval from below.
const MinDaemonInterval = time.Second

// Validate checks cross-field constraints after defaults were applied.
func Validate(c *Config) error {
	for _, check := range []func(*Config) error{
		validateLanguages,
		validateRoutes,
		validateSideFiles,
		validateNotify,
		validateDaemon,
	} {
		if err := check(c); err != nil {
			return err
		}
	}
	return nil
}

func validationError(field, msg string) error {
	return ferrors.ValidationError(msg).WithContext("field", field).Build()
}

func validateLanguages(c *Config) error {
	s := c.Site
	if len(s.Languages) == 0 {
		if s.DefaultLanguage != "" {
			return validationError("site.default_language", "default_language requires site.languages")
		}
		return nil
	}
	seen := map[string]bool{}
	for _, l := range s.Languages {
		if seen[l] {
			return validationError("site.languages", "duplicate language "+l)
		}
		seen[l] = true
	}
	if !slices.Contains(s.Languages, s.DefaultLanguage) {
		return validationError("site.default_language", "default_language "+s.DefaultLanguage+" is not listed in site.languages")
	}
	for i, r := range c.Routes {
		if r.Language != "" && !seen[r.Language] {
			return validationError(fmt.Sprintf("routes[%d].language", i), "route language "+r.Language+" is not listed in site.languages")
		}
	}
	return nil
}

func validateRoutes(c *Config) error {
	seen := map[string]bool{}
	for i, r := range c.Routes {
		field := fmt.Sprintf("routes[%d].path", i)
		p := strings.Trim(r.Path, "/")
		if p == "" {
			return validationError(field, "custom route path is required")
		}
		if slices.Contains(strings.Split(p, "/"), "..") {
			return validationError(field, "custom route path must stay inside the output folder")
		}
		if seen[p] {
			return validationError(field, "duplicate custom route path "+r.Path)
		}
		seen[p] = true
	}
	return nil
}

// validateSideFiles keeps the build record and event database out of the
// output folder, which is erased on every run.
func validateSideFiles(c *Config) error {
	out := c.Resolve(c.Output.Directory)
	for _, f := range []struct{ field, path string }{
		{"record.path", c.Record.Path},
		{"events.database", c.Events.Database},
	} {
		field, p := f.field, f.path
		if p == "" {
			continue
		}
		rel, err := filepath.Rel(out, c.Resolve(p))
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return validationError(field, field+" must not be inside the output folder")
		}
	}
	return nil
}

func validateNotify(c *Config) error {
	if c.Notify.NATSURL == "" {
		return nil
	}
	for _, raw := range strings.Split(c.Notify.NATSURL, ",") {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Host == "" {
			return validationError("notify.nats_url", "invalid NATS URL "+raw)
		}
	}
	return nil
}

func validateDaemon(c *Config) error {
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil {
		return validationError("daemon.interval", "invalid duration "+c.Daemon.Interval)
	}
	if d < MinDaemonInterval {
		return validationError("daemon.interval", "daemon.interval must be at least "+MinDaemonInterval.String())
	}
	return nil
}

// Resolve resolves p against the project root the way every configured
// path is resolved.
func (c *Config) Resolve(p string) string {
	return paths.NewResolver(c.ProjectRoot).Resolve(p)
}

// Interval returns the parsed daemon interval. Validate guarantees it parses.
func (c *Config) Interval() time.Duration {
	d, _ := time.ParseDuration(c.Daemon.Interval)
	return d
}
