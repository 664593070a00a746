// ABOUTME: Configuration options for the FuzzySearch client
// ABOUTME: Provides functional options pattern for flexible client configuration

package fuzzysearch

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/propagation"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "fuzzysearch-go/1.0"
)

// Config holds the configuration for the client
type Config struct {
	// BaseURL of the API, without a trailing slash
	BaseURL string

	// HTTPClient used for requests. Built from Timeout when nil.
	HTTPClient HTTPClient

	// Timeout for the default HTTP client. Ignored when HTTPClient is set.
	Timeout time.Duration

	// UserAgent sent with every request
	UserAgent string

	// Logger for request-level debug logging
	Logger logrus.FieldLogger

	// Propagator for trace headers. Disabled when nil.
	Propagator propagation.TextMapPropagator
}

// Option is a functional option for configuring the client
type Option func(*Config) error

// WithBaseURL points the client at a different API endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Config) error {
		if baseURL == "" {
			return NewError(ErrorTypeConfiguration, "base URL must not be empty")
		}
		c.BaseURL = baseURL
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Config) error {
		if client == nil {
			return NewError(ErrorTypeConfiguration, "HTTP client must not be nil")
		}
		c.HTTPClient = client
		return nil
	}
}

// WithTimeout sets the request timeout for the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if timeout <= 0 {
			return NewError(ErrorTypeConfiguration, "timeout must be positive")
		}
		c.Timeout = timeout
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent with every request
func WithUserAgent(userAgent string) Option {
	return func(c *Config) error {
		if userAgent == "" {
			return NewError(ErrorTypeConfiguration, "user agent must not be empty")
		}
		c.UserAgent = userAgent
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Config) error {
		if logger == nil {
			return NewError(ErrorTypeConfiguration, "logger must not be nil")
		}
		c.Logger = logger
		return nil
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		BaseURL:   DefaultEndpoint,
		Timeout:   defaultTimeout,
		UserAgent: defaultUserAgent,
		Logger:    defaultLogger(),
	}
}

// defaultLogger discards everything. The CLI and callers that want
// request logging pass their own via WithLogger.
func defaultLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
