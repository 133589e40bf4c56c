// Package gateway is the single point of contact with the upstream REST
// gateway. It owns the base URL, default headers, and the translation of
// transport and status failures into the client error taxonomy. Entity
// endpoint bindings live in the users and orders subpackages.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"opsdash/internal/platform/metrics"
	"opsdash/pkg/apierrors"
)

// Doer is the minimal interface needed from an HTTP client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client wraps an HTTP client with a fixed base URL and default headers.
type Client struct {
	baseURL string
	http    Doer
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithMetrics enables request latency and failure metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a gateway client. baseURL includes the API prefix, e.g.
// "http://localhost:8080/api"; a trailing slash is tolerated.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		tracer: otel.Tracer("opsdash/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a bodyless PATCH (the gateway's status transitions carry their
// arguments in the path and query string) and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodPatch, path, query, nil, out)
}

// Delete issues a DELETE and discards any response body.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Ping checks gateway reachability for the readiness probe. Any HTTP response
// counts as reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/statistics", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apierrors.Wrap(err, apierrors.CodeTransport, "gateway unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// errorBody is the gateway's structured error response. Spring emits either
// "message" or "error" depending on the failure path.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	ctx, span := c.tracer.Start(ctx, "gateway.request", trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return c.finish(span, method, path, apierrors.Wrap(err, apierrors.CodeInternal, "failed to marshal request body"))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return c.finish(span, method, path, apierrors.Wrap(err, apierrors.CodeInternal, "failed to create request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.metrics != nil {
		c.metrics.ObserveFetchLatency(method, pathLabel(path), time.Since(start).Seconds())
	}
	if err != nil {
		return c.finish(span, method, path, apierrors.Wrap(err, apierrors.CodeTransport, ""))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.finish(span, method, path, apierrors.Wrap(err, apierrors.CodeTransport, "failed to read response body"))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := ""
		if json.Unmarshal(raw, &eb) == nil {
			msg = eb.Message
			if msg == "" {
				msg = eb.Error
			}
		}
		return c.finish(span, method, path, apierrors.FromStatus(resp.StatusCode, msg))
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return c.finish(span, method, path,
				apierrors.Wrap(err, apierrors.CodeDecode, fmt.Sprintf("unexpected response shape from %s %s", method, path)))
		}
	}

	c.finish(span, method, path, nil)
	return nil
}

// finish closes the span and records the failure once, so callers can simply
// return its result.
func (c *Client) finish(span trace.Span, method, path string, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if c.metrics != nil {
			code := apierrors.CodeInternal
			var apiErr *apierrors.Error
			if errors.As(err, &apiErr) {
				code = apiErr.Code
			}
			c.metrics.IncrementFetchFailures(string(code))
		}
		if c.logger != nil {
			c.logger.Warn("gateway request failed", "method", method, "path", path, "error", err)
		}
	}
	span.End()
	return err
}

// pathLabel collapses identifier segments so the latency metric keeps a
// bounded label set: numeric segments become :id and the segment after
// "email" becomes :email.
func pathLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := strconv.ParseInt(seg, 10, 64); err == nil && seg != "" {
			segments[i] = ":id"
			continue
		}
		if i > 0 && segments[i-1] == "email" {
			segments[i] = ":email"
		}
	}
	return strings.Join(segments, "/")
}
