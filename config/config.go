package config

import (
	"fmt"
	"github.com/infiotinc/gqlbasic/client"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the on-disk form of a client configuration.
// Durations are strings understood by time.ParseDuration, e.g. "30s".
type Config struct {
	Endpoint       string            `yaml:"endpoint" toml:"endpoint"`
	Timeout        string            `yaml:"timeout" toml:"timeout"`
	ConnectTimeout string            `yaml:"connect_timeout" toml:"connect_timeout"`
	VerifyTLS      bool              `yaml:"verify_tls" toml:"verify_tls"`
	Debug          bool              `yaml:"debug" toml:"debug"`
	Headers        map[string]string `yaml:"headers" toml:"headers"`
}

func defaults() Config {
	return Config{
		VerifyTLS: true,
	}
}

// Load reads a .yml, .yaml or .toml file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yml", ".yaml":
		return ParseYAML(b)
	case ".toml":
		return ParseTOML(b)
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
}

func ParseYAML(b []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	return &cfg, nil
}

func ParseTOML(b []byte) (*Config, error) {
	cfg := defaults()
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}

	return &cfg, nil
}

// ClientConfig converts c into a client.Config, starting from client.DefaultConfig
func (c *Config) ClientConfig() (client.Config, error) {
	cc := client.DefaultConfig()

	var err error
	if cc.RequestTimeout, err = parseDuration("timeout", c.Timeout, cc.RequestTimeout); err != nil {
		return cc, err
	}
	if cc.ConnectTimeout, err = parseDuration("connect_timeout", c.ConnectTimeout, cc.ConnectTimeout); err != nil {
		return cc, err
	}

	cc.VerifyTLS = c.VerifyTLS
	cc.Debug = c.Debug

	return cc, nil
}

// Header returns the configured headers, meant to be passed to Execute
func (c *Config) Header() http.Header {
	h := make(http.Header, len(c.Headers))
	for k, v := range c.Headers {
		h.Set(k, v)
	}

	return h
}

// NewClient builds a client for the configured endpoint. options are applied
// after the file values.
func (c *Config) NewClient(options ...client.Option) (*client.Client, error) {
	cc, err := c.ClientConfig()
	if err != nil {
		return nil, err
	}

	for _, o := range options {
		o(&cc)
	}

	return client.NewWithConfig(c.Endpoint, cc)
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %s", key, s)
	}

	return d, nil
}
