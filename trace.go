// ABOUTME: Optional distributed tracing support for outgoing requests
// ABOUTME: Injects the request context's span into headers via OpenTelemetry

package fuzzysearch

import (
	"net/http"

	"go.opentelemetry.io/otel/propagation"
)

// WithTracePropagation enables injecting the request context's trace
// information into outgoing request headers. Passing nil uses the W3C
// Trace Context propagator.
func WithTracePropagation(propagator propagation.TextMapPropagator) Option {
	return func(c *Config) error {
		if propagator == nil {
			propagator = propagation.TraceContext{}
		}
		c.Propagator = propagator
		return nil
	}
}

// injectTraceHeaders adds trace headers to the request when propagation
// is enabled. A no-op otherwise.
func (c *Client) injectTraceHeaders(req *http.Request) {
	if c.propagator == nil {
		return
	}
	c.propagator.Inject(req.Context(), propagation.HeaderCarrier(req.Header))
}
