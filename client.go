// ABOUTME: Main client for the FuzzySearch reverse image search API
// ABOUTME: Builds authenticated requests and decodes responses into result types

package fuzzysearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/propagation"
)

// DefaultEndpoint is the production FuzzySearch API.
const DefaultEndpoint = "https://api.fuzzysearch.net"

const apiKeyHeader = "X-Api-Key"

// HTTPClient is the transport used for API requests. *http.Client
// satisfies it; tests and callers may substitute their own.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MatchType controls how strictly an image search matches.
type MatchType int

const (
	// MatchClose starts with exact matches, then expands if there are
	// no results.
	MatchClose MatchType = iota

	// MatchExact only looks at exact matches.
	MatchExact

	// MatchForce always matches against the expanded set of results.
	MatchForce
)

// queryValue returns the wire value for the match type. Unknown values
// fall back to close matching.
func (m MatchType) queryValue() string {
	switch m {
	case MatchExact:
		return "exact"
	case MatchForce:
		return "force"
	default:
		return "close"
	}
}

// String returns the wire value of the match type.
func (m MatchType) String() string {
	return m.queryValue()
}

// Client is a FuzzySearch API client. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient HTTPClient
	logger     logrus.FieldLogger
	propagator propagation.TextMapPropagator
}

// NewClient creates a new FuzzySearch client. The API key is required;
// everything else has a usable default.
func NewClient(apiKey string, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(config.BaseURL, "/"),
		userAgent:  config.UserAgent,
		httpClient: config.HTTPClient,
		logger:     config.Logger,
		propagator: config.Propagator,
	}, nil
}

// LookupURL looks up an image by its URL. Note that URLs should be https.
func (c *Client) LookupURL(ctx context.Context, imageURL string) ([]File, error) {
	if imageURL == "" {
		return nil, NewError(ErrorTypeValidation, "image URL must not be empty")
	}

	params := url.Values{}
	params.Set("url", imageURL)

	var files []File
	if err := c.get(ctx, "/file", params, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// LookupFilename looks up an image by its original filename.
func (c *Client) LookupFilename(ctx context.Context, filename string) ([]File, error) {
	if filename == "" {
		return nil, NewError(ErrorTypeValidation, "filename must not be empty")
	}

	params := url.Values{}
	params.Set("name", filename)

	var files []File
	if err := c.get(ctx, "/file", params, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// LookupHashes looks up multiple perceptual hashes at once. Each result
// carries the SearchedHash that produced it.
func (c *Client) LookupHashes(ctx context.Context, hashes []int64) ([]File, error) {
	if len(hashes) == 0 {
		return nil, NewError(ErrorTypeValidation, "at least one hash is required")
	}

	values := make([]string, len(hashes))
	for i, hash := range hashes {
		values[i] = strconv.FormatInt(hash, 10)
	}

	params := url.Values{}
	params.Set("hashes", strings.Join(values, ","))

	var files []File
	if err := c.get(ctx, "/hashes", params, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ImageSearch performs a reverse image search on raw image bytes.
//
// Requiring an exact match is faster, but can leave out results.
func (c *Client) ImageSearch(ctx context.Context, data []byte, matchType MatchType) (*Matches, error) {
	if len(data) == 0 {
		return nil, NewError(ErrorTypeValidation, "image data must not be empty")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("image", "image")
	if err != nil {
		return nil, NewError(ErrorTypeValidation, "could not build multipart form").WithCause(err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, NewError(ErrorTypeValidation, "could not build multipart form").WithCause(err)
	}
	if err := form.Close(); err != nil {
		return nil, NewError(ErrorTypeValidation, "could not build multipart form").WithCause(err)
	}

	params := url.Values{}
	params.Set("type", matchType.queryValue())

	endpoint := fmt.Sprintf("%s/image?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, NewError(ErrorTypeValidation, "could not build request").WithCause(err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	var matches Matches
	if err := c.do(req, &matches); err != nil {
		return nil, err
	}
	return &matches, nil
}

// get performs a GET request against an endpoint and decodes the JSON
// response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return NewError(ErrorTypeValidation, "could not build request").WithCause(err)
	}

	return c.do(req, out)
}

// do attaches authentication and trace headers, performs the request,
// and decodes the response.
func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	c.injectTraceHeaders(req)

	c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("performing API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewError(ErrorTypeNetwork, "request failed").
			WithCause(err).
			WithContext("url", req.URL.String())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return NewError(ErrorTypeAPI, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))).
			WithContext("status_code", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if decodeErr, ok := err.(*Error); ok {
			return decodeErr
		}
		return NewError(ErrorTypeDecode, "could not decode response body").WithCause(err)
	}

	return nil
}
