// Package config handles configuration loading from CLI flags, environment variables, and TOML files.
package config

import (
	"errors"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
)

// DefaultConfigPath is read when --config is not given. A missing file is not an error.
const DefaultConfigPath = "config/config.toml"

// Config holds all configuration settings for the shell.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Modules ModulesConfig `toml:"modules"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`

	logOnce sync.Once
	logger  *log.Logger
	logOut  io.Writer
}

// ServerConfig holds shell HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	Base string `toml:"base"` // Mount prefix for module routes, e.g. "/app"
}

// ModulesConfig controls where descriptors come from.
type ModulesConfig struct {
	Dir      string   `toml:"dir"`      // Descriptor directory (.toml, .lua, .hcl)
	Builtin  bool     `toml:"builtin"`  // Register compiled-in modules first
	Watch    bool     `toml:"watch"`    // Re-register when Dir changes
	Debounce Duration `toml:"debounce"` // Quiet period before a reload
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level     string `toml:"level"`     // "debug", "info", "warn", "error"
	Verbosity int    `toml:"verbosity"` // 0=errors only, 1=registration, 2=reloads, 3=requests
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Duration is a time.Duration that can be unmarshaled from TOML strings.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for Duration.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Modules: ModulesConfig{
			Dir:      "modules",
			Builtin:  true,
			Watch:    false,
			Debounce: Duration(100 * time.Millisecond),
		},
		Logging: LoggingConfig{
			Level:     "info",
			Verbosity: 0,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Flags holds the command-line flags bound by RegisterFlags.
type Flags struct {
	fs *pflag.FlagSet

	configPath *string
	host       *string
	port       *int
	base       *string
	modulesDir *string
	builtin    *bool
	watch      *bool
	debounce   *time.Duration
	logLevel   *string
	verbosity  *int
	metrics    *bool
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	return &Flags{
		fs:         fs,
		configPath: fs.String("config", DefaultConfigPath, "TOML configuration file"),
		host:       fs.String("host", "", "Listen address"),
		port:       fs.Int("port", 0, "Listen port"),
		base:       fs.String("base", "", "Mount prefix for module routes"),
		modulesDir: fs.String("modules", "", "Descriptor directory"),
		builtin:    fs.Bool("builtin", true, "Register compiled-in modules"),
		watch:      fs.Bool("watch", false, "Reload descriptors when the directory changes"),
		debounce:   fs.Duration("debounce", 0, "Quiet period before a reload"),
		logLevel:   fs.String("log-level", "", "Log level: debug, info, warn, error"),
		verbosity:  fs.CountP("verbose", "v", "Verbosity level (use -v, -vv, or -vvv)"),
		metrics:    fs.Bool("metrics", true, "Expose Prometheus metrics"),
	}
}

// Load parses args and loads configuration.
// Priority: CLI flags > env vars > TOML file > defaults
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("ui-shell", pflag.ContinueOnError)
	flags := RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return FromFlags(flags)
}

// FromFlags loads configuration for already-parsed flags.
func FromFlags(f *Flags) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadTOML(*f.configPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) || f.fs.Changed("config") {
			return nil, err
		}
	}

	cfg.applyEnv()

	if f.fs.Changed("host") {
		cfg.Server.Host = *f.host
	}
	if f.fs.Changed("port") {
		cfg.Server.Port = *f.port
	}
	if f.fs.Changed("base") {
		cfg.Server.Base = *f.base
	}
	if f.fs.Changed("modules") {
		cfg.Modules.Dir = *f.modulesDir
	}
	if f.fs.Changed("builtin") {
		cfg.Modules.Builtin = *f.builtin
	}
	if f.fs.Changed("watch") {
		cfg.Modules.Watch = *f.watch
	}
	if f.fs.Changed("debounce") {
		cfg.Modules.Debounce = Duration(*f.debounce)
	}
	if f.fs.Changed("log-level") {
		cfg.Logging.Level = *f.logLevel
	}
	if *f.verbosity > 0 {
		cfg.Logging.Verbosity = *f.verbosity
	}
	if f.fs.Changed("metrics") {
		cfg.Metrics.Enabled = *f.metrics
	}
	return cfg, nil
}

// loadTOML loads configuration from a TOML file.
func (c *Config) loadTOML(path string) error {
	_, err := toml.DecodeFile(path, c)
	return err
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("UI_SHELL_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("UI_SHELL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("UI_SHELL_BASE"); v != "" {
		c.Server.Base = v
	}
	if v := os.Getenv("UI_SHELL_MODULES"); v != "" {
		c.Modules.Dir = v
	}
	if v := os.Getenv("UI_SHELL_BUILTIN"); v != "" {
		c.Modules.Builtin = envBool(v)
	}
	if v := os.Getenv("UI_SHELL_WATCH"); v != "" {
		c.Modules.Watch = envBool(v)
	}
	if v := os.Getenv("UI_SHELL_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Modules.Debounce = Duration(d)
		}
	}
	if v := os.Getenv("UI_SHELL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("UI_SHELL_VERBOSITY"); v != "" {
		if verbosity, err := strconv.Atoi(v); err == nil {
			c.Logging.Verbosity = verbosity
		}
	}
	if v := os.Getenv("UI_SHELL_METRICS"); v != "" {
		c.Metrics.Enabled = envBool(v)
	}
}

func envBool(v string) bool {
	return v == "true" || v == "1"
}

// Verbosity returns the configured verbosity level.
func (c *Config) Verbosity() int {
	return c.Logging.Verbosity
}
