// Package gateway is the single configured transport to the employee GraphQL
// service. Every request carries the bearer token when one is stored, and every
// failure is logged in one place.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/employee-admin-client/pkg/errors"
)

const requestIDHeader = "X-Request-ID"

// Outcome labels reported to the Observer.
const (
	OutcomeOK             = "ok"
	OutcomeRemoteError    = "remote_error"
	OutcomeTransportError = "transport_error"
)

// TokenSource returns the current bearer token, or "" when none is stored.
type TokenSource func(ctx context.Context) (string, error)

// Observer receives per-operation timings.
type Observer interface {
	ObserveOperation(operation, outcome string, duration time.Duration)
}

// Request is a single GraphQL operation.
type Request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Location points into the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError is an entry of the response "errors" array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// Client posts GraphQL operations to a fixed endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	token      TokenSource
	observer   Observer
	logger     *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the transport timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource attaches the bearer token provider.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) { c.token = src }
}

// WithObserver reports operation metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the logger used for error diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured GraphQL URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do executes req and decodes the "data" member into out. Remote errors are
// returned with the first service message verbatim.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if c.observer != nil {
			c.observer.ObserveOperation(operationLabel(req), outcome, time.Since(start))
		}
	}()

	body, err := json.Marshal(req)
	if err != nil {
		outcome = OutcomeTransportError
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		outcome = OutcomeTransportError
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, uuid.NewString())

	if c.token != nil {
		token, tokenErr := c.token(ctx)
		if tokenErr != nil {
			c.logger.Warn("token lookup failed", zap.String("operation", req.OperationName), zap.Error(tokenErr))
		} else if token != "" {
			httpReq.Header.Set("authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		outcome = OutcomeTransportError
		c.logger.Error("network error", zap.String("operation", req.OperationName), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = OutcomeTransportError
		c.logger.Error("network error", zap.String("operation", req.OperationName), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, resp.StatusCode, "failed to read response")
	}

	var env envelope
	if decodeErr := json.Unmarshal(raw, &env); decodeErr != nil {
		outcome = OutcomeTransportError
		msg := fmt.Sprintf("unexpected response: %s", http.StatusText(resp.StatusCode))
		c.logger.Error("network error",
			zap.String("operation", req.OperationName),
			zap.Int("status", resp.StatusCode),
			zap.Error(decodeErr),
		)
		return appErrors.Wrap(decodeErr, appErrors.ErrTransport.Code, resp.StatusCode, msg)
	}

	if len(env.Errors) > 0 {
		outcome = OutcomeRemoteError
		for _, gqlErr := range env.Errors {
			c.logger.Error("graphql error",
				zap.String("operation", req.OperationName),
				zap.String("message", gqlErr.Message),
				zap.Any("locations", gqlErr.Locations),
				zap.Any("path", gqlErr.Path),
				zap.Any("extensions", gqlErr.Extensions),
			)
		}
		return &appErrors.Error{
			Code:    appErrors.ErrRemote.Code,
			Status:  resp.StatusCode,
			Message: env.Errors[0].Message,
			Err:     &RemoteErrors{Errors: env.Errors},
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = OutcomeTransportError
		msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)
		c.logger.Error("network error", zap.String("operation", req.OperationName), zap.Int("status", resp.StatusCode))
		return appErrors.New(appErrors.ErrTransport.Code, resp.StatusCode, msg)
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		outcome = OutcomeTransportError
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, resp.StatusCode, "failed to decode response data")
	}
	return nil
}

// RemoteErrors keeps every error the service returned for one operation.
type RemoteErrors struct {
	Errors []GraphQLError
}

func (r *RemoteErrors) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func operationLabel(req Request) string {
	if req.OperationName != "" {
		return req.OperationName
	}
	return "anonymous"
}
