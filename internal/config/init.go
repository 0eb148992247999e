package config

import (
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

// Init writes an example configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ConfigError("configuration file already exists: " + configPath + " (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Config{
		Version: CurrentVersion,
		Site: SiteConfig{
			ContentDir:      DefaultContentDir,
			TemplatesDir:    DefaultTemplatesDir,
			AssetsDir:       DefaultAssetsDir,
			PluginsDir:      DefaultPluginsDir,
			Title:           "My Site",
			Languages:       []string{"en", "de"},
			DefaultLanguage: "en",
			Home:            DefaultHome,
		},
		Output: OutputConfig{
			Directory: DefaultOutputDir,
			BaseURL:   DefaultOutputBaseURL,
			IndexFile: "index.html",
			Preserve:  []string{"CNAME"},
			Copy:      []string{DefaultAssetsDir, "./favicon.ico"},
		},
		Routes: []RouteConfig{
			{Path: "feed.xml", Route: "feed.xml"},
			{Path: "sitemap.xml", Route: "sitemap.xml"},
			{Path: "404", Page: "error", Data: map[string]any{"status": 404}},
		},
		Record:  RecordConfig{Path: "./.sitefreeze/build.json"},
		Events:  EventsConfig{Database: "./.sitefreeze/events.db"},
		Daemon:  DaemonConfig{Interval: DefaultDaemonInterval},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Fatal().Build()
	}
	return nil
}
