// Package config loads the application configuration from a YAML file,
// .env files and ONBOARD_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: ONBOARD_SERVER_ADDR sets
// server.addr.
const EnvPrefix = "ONBOARD"

// Config is the application configuration.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Log      Log      `mapstructure:"log"`
	Theme    Theme    `mapstructure:"theme"`
	Wizard   Wizard   `mapstructure:"wizard"`
}

// Server configures the HTTP host.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	SiteTitle       string        `mapstructure:"site_title"`
	IdentityHeader  string        `mapstructure:"identity_header"`
	EmailHeader     string        `mapstructure:"email_header"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Database configures the SQLite store.
type Database struct {
	Path string `mapstructure:"path"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Theme selects the theme and variant used for rendering.
type Theme struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

// Wizard points at optional flow documents and page templates that replace
// the embedded ones.
type Wizard struct {
	FlowsDir     string `mapstructure:"flows_dir"`
	TemplatesDir string `mapstructure:"templates_dir"`
	Flow         string `mapstructure:"flow"`
}

var defaults = map[string]any{
	"server.addr":             ":8080",
	"server.site_title":       "Onboard",
	"server.identity_header":  "X-Identity-User",
	"server.email_header":     "X-Identity-Email",
	"server.read_timeout":     "10s",
	"server.write_timeout":    "10s",
	"server.shutdown_timeout": "5s",
	"database.path":           "data/onboard.db",
	"log.level":               "info",
	"log.format":              "tint",
	"theme.name":              "default",
	"theme.variant":           "",
	"wizard.flows_dir":        "",
	"wizard.templates_dir":    "",
	"wizard.flow":             "account-setup",
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	file     string
	envFiles []string
	flags    map[string]*pflag.Flag
}

// WithFile reads a YAML config file. A missing explicit file is an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithEnvFiles loads dotenv files before reading the environment. Missing
// files are skipped. The default is ".env".
func WithEnvFiles(paths ...string) Option {
	return func(l *loader) {
		l.envFiles = paths
	}
}

// WithFlag binds a command line flag to key. The flag wins over every other
// source when set.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(l *loader) {
		if flag != nil {
			l.flags[key] = flag
		}
	}
}

// Load resolves the configuration. Precedence: flags, environment, config
// file, defaults.
func Load(options ...Option) (Config, error) {
	l := &loader{envFiles: []string{".env"}, flags: map[string]*pflag.Flag{}}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}

	for _, path := range l.envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", l.file, err)
		}
	}
	for key, flag := range l.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", flag.Name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Server.Addr) == "":
		return fmt.Errorf("config: server.addr is required")
	case strings.TrimSpace(c.Server.IdentityHeader) == "":
		return fmt.Errorf("config: server.identity_header is required")
	case strings.TrimSpace(c.Database.Path) == "":
		return fmt.Errorf("config: database.path is required")
	case c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0:
		return fmt.Errorf("config: server timeouts must not be negative")
	}
	if c.Wizard.FlowsDir != "" {
		if info, err := os.Stat(c.Wizard.FlowsDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config: wizard.flows_dir %q is not a directory", c.Wizard.FlowsDir)
		}
	}
	return nil
}
