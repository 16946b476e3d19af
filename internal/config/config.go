package config

import (
	stderrors "errors"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/viewport/internal/errors"
	"github.com/vango-dev/viewport/internal/logging"
	"github.com/vango-dev/viewport/pkg/tracing"
)

const (
	// ConfigName is the base name of the configuration file.
	ConfigName = "viewport"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "VIEWPORT"

	// DefaultPort is the default inspector port.
	DefaultPort = 7070

	// DefaultHost is the default inspector host.
	DefaultHost = "localhost"
)

// Config is the complete configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   tracing.Config  `mapstructure:"tracing"`
	Inspector InspectorConfig `mapstructure:"inspector"`

	// configPath stores the path the config was loaded from, if any.
	configPath string
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// MetricsConfig configures Prometheus export.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// InspectorConfig configures the HTTP inspector.
type InspectorConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// PushInterval is how often idle websocket clients receive a snapshot.
	PushInterval time.Duration `mapstructure:"push_interval"`
}

// Addr returns host:port.
func (c InspectorConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "viewport",
		},
		Tracing: tracing.DefaultConfig(),
		Inspector: InspectorConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			PushInterval: time.Second,
		},
	}
}

// Load reads configuration. With an empty path it looks for viewport.* in
// the working directory and falls back to defaults when there is none; an
// explicit path must exist. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, New())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case stderrors.As(err, &notFound):
			// defaults and environment only
		case stderrors.Is(err, fs.ErrNotExist):
			return nil, errors.New("E141").
				WithDetail("No config file at " + path).
				WithSuggestion("Check the --config path or omit it to use defaults")
		default:
			return nil, errors.New("E120").
				WithDetail("Failed to read " + path + ": " + err.Error()).
				WithSuggestion("Check that the config file is valid YAML, JSON or TOML")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to decode configuration: " + err.Error()).
			Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("inspector.host", d.Inspector.Host)
	v.SetDefault("inspector.port", d.Inspector.Port)
	v.SetDefault("inspector.push_interval", d.Inspector.PushInterval)
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.New("E122").
			WithDetail("log.level: " + err.Error()).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E122").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("E122").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Inspector.PushInterval <= 0 {
		return errors.New("E122").
			WithDetail("inspector.push_interval must be positive")
	}
	switch c.Tracing.Exporter {
	case "stdout", "none", "":
	default:
		return errors.New("E122").
			WithDetailf("tracing.exporter %q is not supported", c.Tracing.Exporter).
			WithSuggestion("Use stdout or none")
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.New("E122").
			WithDetail("tracing.sample_rate must be between 0 and 1")
	}
	return nil
}
