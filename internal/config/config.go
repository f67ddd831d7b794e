// Package config loads leadform settings from leadform.yaml, LEADFORM_*
// environment variables and command flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-leadform/internal/logging"
)

// EnvPrefix namespaces environment overrides, e.g. LEADFORM_SERVER_ADDR.
const EnvPrefix = "LEADFORM"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       logging.Config  `mapstructure:"log"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
	// CSRFKey signs the hidden form token. Empty means a random key per
	// process.
	CSRFKey string `mapstructure:"csrf_key"`
	Live    bool   `mapstructure:"live"`
}

type GatewayConfig struct {
	Kind            string        `mapstructure:"kind"`
	Delay           time.Duration `mapstructure:"delay"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	FailureRate     float64       `mapstructure:"failure_rate"`
}

type LifecycleConfig struct {
	NotifyDelay time.Duration `mapstructure:"notify_delay"`
	ResetDelay  time.Duration `mapstructure:"reset_delay"`
}

type ThemeConfig struct {
	Name     string            `mapstructure:"name"`
	Variant  string            `mapstructure:"variant"`
	Tokens   map[string]string `mapstructure:"tokens"`
	SiteName string            `mapstructure:"site_name"`
}

type CatalogConfig struct {
	Dir string `mapstructure:"dir"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// GatewaySimulated is the only delivery kind built in.
const GatewaySimulated = "simulated"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", "")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_grace", 10*time.Second)
	v.SetDefault("server.csrf_key", "")
	v.SetDefault("server.live", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.service", "leadform")

	v.SetDefault("gateway.kind", GatewaySimulated)
	v.SetDefault("gateway.delay", 2*time.Second)
	v.SetDefault("gateway.timeout", 10*time.Second)
	v.SetDefault("gateway.max_retries", 3)
	v.SetDefault("gateway.initial_interval", 500*time.Millisecond)
	v.SetDefault("gateway.max_interval", 5*time.Second)
	v.SetDefault("gateway.failure_rate", 0.0)

	v.SetDefault("lifecycle.notify_delay", 100*time.Millisecond)
	v.SetDefault("lifecycle.reset_delay", 3*time.Second)

	v.SetDefault("theme.name", "leadform")
	v.SetDefault("theme.variant", "")
	v.SetDefault("theme.tokens", map[string]string{})
	v.SetDefault("theme.site_name", "")

	v.SetDefault("catalog.dir", "")
	v.SetDefault("tracing.enabled", false)
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	file  string
	paths []string
	flags map[string]*pflag.Flag
}

// WithFile reads exactly path; a missing file is then an error.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = strings.TrimSpace(path)
	}
}

// WithSearchPaths replaces the directories searched for leadform.yaml.
func WithSearchPaths(paths ...string) Option {
	return func(l *loader) {
		l.paths = append([]string(nil), paths...)
	}
}

// WithFlag binds a command flag to a config key such as "server.addr".
// The flag wins only when it was set on the command line.
func WithFlag(key string, flag *pflag.Flag) Option {
	return func(l *loader) {
		if flag == nil || key == "" {
			return
		}
		if l.flags == nil {
			l.flags = make(map[string]*pflag.Flag)
		}
		l.flags[key] = flag
	}
}

// Load resolves the configuration.
func Load(opts ...Option) (Config, error) {
	l := &loader{paths: []string{".", "$HOME/.leadform", "/etc/leadform"}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range l.flags {
		if err := v.BindPFlag(key, flag); err != nil {
			return Config{}, fmt.Errorf("config: bind flag %s: %w", key, err)
		}
	}

	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", l.file, err)
		}
	} else {
		v.SetConfigName("leadform")
		v.SetConfigType("yaml")
		for _, path := range l.paths {
			v.AddConfigPath(path)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	if c.Gateway.Kind != GatewaySimulated {
		return fmt.Errorf("config: gateway.kind %q is not supported", c.Gateway.Kind)
	}
	if c.Gateway.FailureRate < 0 || c.Gateway.FailureRate > 1 {
		return fmt.Errorf("config: gateway.failure_rate must be within [0, 1], got %v", c.Gateway.FailureRate)
	}
	if c.Gateway.MaxRetries < 0 {
		return fmt.Errorf("config: gateway.max_retries must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	return nil
}
