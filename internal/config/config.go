// Package config loads the sitefreeze configuration file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitefreeze/internal/foundation/errors"
)

// CurrentVersion is the only configuration version understood.
const CurrentVersion = "1.0"

// DefaultConfigFile is looked up when no --config flag is given.
const DefaultConfigFile = "sitefreeze.yaml"

// Config is the root of the configuration file.
type Config struct {
	Version     string           `yaml:"version"`
	ProjectRoot string           `yaml:"project_root,omitempty"`
	Site        SiteConfig       `yaml:"site"`
	Output      OutputConfig     `yaml:"output"`
	Generation  GenerationConfig `yaml:"generation,omitempty"`
	Routes      []RouteConfig    `yaml:"routes,omitempty"`
	Record      RecordConfig     `yaml:"record,omitempty"`
	Events      EventsConfig     `yaml:"events,omitempty"`
	Notify      NotifyConfig     `yaml:"notify,omitempty"`
	Daemon      DaemonConfig     `yaml:"daemon,omitempty"`
	Logging     LoggingConfig    `yaml:"logging,omitempty"`
}

// SiteConfig describes the content tree being exported.
type SiteConfig struct {
	ContentDir   string `yaml:"content_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	AssetsDir    string `yaml:"assets_dir"`
	PluginsDir   string `yaml:"plugins_dir"`
	// BaseURL is the host's own base. Empty makes the generator render under
	// a private temporary base.
	BaseURL         string   `yaml:"base_url,omitempty"`
	Title           string   `yaml:"title,omitempty"`
	Languages       []string `yaml:"languages,omitempty"`
	DefaultLanguage string   `yaml:"default_language,omitempty"`
	Home            string   `yaml:"home,omitempty"`
}

// OutputConfig controls where and how output is written.
type OutputConfig struct {
	Directory  string   `yaml:"directory"`
	BaseURL    string   `yaml:"base_url"`
	Preserve   []string `yaml:"preserve,omitempty"`
	IndexFile  string   `yaml:"index_file"`
	Copy       []string `yaml:"copy,omitempty"`
	RenderBase string   `yaml:"render_base,omitempty"`
}

// GenerationConfig toggles optional pipeline phases.
type GenerationConfig struct {
	SkipMedia          bool `yaml:"skip_media,omitempty"`
	SkipPluginAssets   bool `yaml:"skip_plugin_assets,omitempty"`
	IgnoreUntranslated bool `yaml:"ignore_untranslated,omitempty"`
	ScanMedia          bool `yaml:"scan_media,omitempty"`
}

// RouteConfig declares a custom route.
type RouteConfig struct {
	Path     string         `yaml:"path"`
	Page     string         `yaml:"page,omitempty"`
	Route    string         `yaml:"route,omitempty"`
	BaseURL  string         `yaml:"base_url,omitempty"`
	Data     map[string]any `yaml:"data,omitempty"`
	Language string         `yaml:"language,omitempty"`
}

// RecordConfig enables the JSON build record.
type RecordConfig struct {
	Path string `yaml:"path,omitempty"`
}

// EventsConfig enables the SQLite event history.
type EventsConfig struct {
	Database string `yaml:"database,omitempty"`
}

// NotifyConfig enables NATS notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// DaemonConfig controls periodic regeneration.
type DaemonConfig struct {
	Interval    string `yaml:"interval,omitempty"`
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// LoggingConfig controls the default slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// Load reads configPath, loads .env files next to the working directory,
// expands ${VAR} references, then normalizes, defaults and validates.
// Relative directories are resolved against ProjectRoot, which itself
// defaults to the directory holding the configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	data, err := os.ReadFile(configPath) // #nosec G304 -- user-selected config file
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", configPath).Build()
	}
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration").
			WithContext("path", configPath).Fatal().Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if cfg.ProjectRoot == "" {
		abs, aerr := filepath.Abs(filepath.Dir(configPath))
		if aerr != nil {
			return nil, ferrors.WrapError(aerr, ferrors.CategoryConfig, "resolve project root").Fatal().Build()
		}
		cfg.ProjectRoot = abs
	}
	return cfg, cfg.Finalize()
}

// Parse decodes YAML after environment expansion without touching the
// filesystem. Finalize must run before the config is used.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").Fatal().Build()
	}
	if cfg.Version != CurrentVersion {
		return nil, ferrors.ConfigError("unsupported configuration version " + cfg.Version + " (expected " + CurrentVersion + ")").Build()
	}
	return &cfg, nil
}

// Finalize normalizes, applies defaults and validates in place.
func (c *Config) Finalize() error {
	res, err := Normalize(c)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		res.log(w)
	}
	ApplyDefaults(c)
	return Validate(c)
}
