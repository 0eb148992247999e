package config

import "git.home.luguber.info/inful/sitefreeze/internal/paths"

// Defaults used when a field is omitted.
const (
	DefaultContentDir     = "./content"
	DefaultTemplatesDir   = "./templates"
	DefaultAssetsDir      = "./assets"
	DefaultPluginsDir     = "./plugins"
	DefaultHome           = "home"
	DefaultOutputDir      = "./static"
	DefaultOutputBaseURL  = "/"
	DefaultNotifySubject  = "sitefreeze.builds"
	DefaultDaemonInterval = "1h"
)

// ApplyDefaults fills omitted fields. A nil output.copy list defaults to the
// assets directory; an explicit empty list copies nothing.
func ApplyDefaults(c *Config) {
	s := &c.Site
	setDefault(&s.ContentDir, DefaultContentDir)
	setDefault(&s.TemplatesDir, DefaultTemplatesDir)
	setDefault(&s.AssetsDir, DefaultAssetsDir)
	setDefault(&s.PluginsDir, DefaultPluginsDir)
	setDefault(&s.Home, DefaultHome)
	if s.DefaultLanguage == "" && len(s.Languages) > 0 {
		s.DefaultLanguage = s.Languages[0]
	}

	o := &c.Output
	setDefault(&o.Directory, DefaultOutputDir)
	setDefault(&o.BaseURL, DefaultOutputBaseURL)
	setDefault(&o.IndexFile, paths.DefaultIndexFile)
	if o.Copy == nil {
		o.Copy = []string{s.AssetsDir}
	}

	setDefault(&c.Notify.Subject, DefaultNotifySubject)
	setDefault(&c.Daemon.Interval, DefaultDaemonInterval)
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
