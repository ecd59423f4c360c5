package client

import (
	"github.com/infiotinc/gqlbasic/client/transport"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"os"
	"time"
)

const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultConnectTimeout = 10 * time.Second
)

type Config struct {
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	// VerifyTLS false disables certificate and hostname verification
	VerifyTLS bool
	Debug     bool

	// TransportOptions run last over the computed http client and transport
	TransportOptions []transport.HttpOption
	RequestOptions   []transport.HttpRequestOption

	// Logger defaults to a no-op logger, or a stderr console logger when Debug is set
	Logger *zerolog.Logger
	// TokenSource, when set, fills the Authorization header on every request
	TokenSource oauth2.TokenSource
}

func DefaultConfig() Config {
	return Config{
		RequestTimeout: DefaultRequestTimeout,
		ConnectTimeout: DefaultConnectTimeout,
		VerifyTLS:      true,
	}
}

func (c Config) withDefaults() Config {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}

	// Copy slices so later mutation by the caller cannot reach the client
	c.TransportOptions = append([]transport.HttpOption(nil), c.TransportOptions...)
	c.RequestOptions = append([]transport.HttpRequestOption(nil), c.RequestOptions...)

	return c
}

func (c Config) logger() zerolog.Logger {
	if c.Logger != nil {
		if c.Debug {
			return c.Logger.Level(zerolog.DebugLevel)
		}
		return *c.Logger
	}

	if !c.Debug {
		return zerolog.Nop()
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Str("component", "gqlbasic").Logger()
}

type Option func(c *Config)

func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = d
	}
}

func WithConnectTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.ConnectTimeout = d
	}
}

// WithVerifyTLS false skips certificate and hostname verification. Dangerous.
func WithVerifyTLS(verify bool) Option {
	return func(c *Config) {
		c.VerifyTLS = verify
	}
}

func WithDebug(debug bool) Option {
	return func(c *Config) {
		c.Debug = debug
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = &logger
	}
}

func WithTransportOptions(options ...transport.HttpOption) Option {
	return func(c *Config) {
		c.TransportOptions = append(c.TransportOptions, options...)
	}
}

func WithRequestOptions(options ...transport.HttpRequestOption) Option {
	return func(c *Config) {
		c.RequestOptions = append(c.RequestOptions, options...)
	}
}

func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Config) {
		c.TokenSource = ts
	}
}
