package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is used when no endpoint is configured.
const DefaultEndpoint = "http://localhost:5001/api/predict"

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 1 << 20
	maxErrorBody     = 512
)

// Result is the decoded classifier reply. ChurnPrediction is 1 when the
// customer is likely to churn and 0 otherwise.
type Result struct {
	ChurnPrediction int `json:"churn_prediction"`
}

// Churn reports whether the customer is likely to leave.
func (r Result) Churn() bool {
	return r.ChurnPrediction == 1
}

// Predictor sends one prediction request and waits for its reply.
type Predictor interface {
	Predict(ctx context.Context, payload any) (Result, error)
}

// PredictorFunc adapts a function into a Predictor.
type PredictorFunc func(ctx context.Context, payload any) (Result, error)

// Predict calls the underlying function.
func (fn PredictorFunc) Predict(ctx context.Context, payload any) (Result, error) {
	return fn(ctx, payload)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each request. Zero disables the per-request deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithRateLimit throttles outbound requests to perSecond with a burst of one.
// Values <= 0 disable throttling.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client posts form values to the classifier endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	limiter  *rate.Limiter
	logger   *zap.Logger
}

var _ Predictor = (*Client)(nil)

// NewClient builds a Client for endpoint. An empty endpoint falls back to
// DefaultEndpoint.
func NewClient(endpoint string, options ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		http:     http.DefaultClient,
		timeout:  defaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Endpoint returns the resolved prediction URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict posts payload as JSON and decodes the reply.
func (c *Client) Predict(ctx context.Context, payload any) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("predict: encode payload: %w", err)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("%w: rate limit: %w", ErrNetwork, err)
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("prediction response",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	return Decode(data)
}

// Decode parses a classifier reply. The churn_prediction member must be the
// integer 0 or 1.
func Decode(data []byte) (Result, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var envelope map[string]any
	if err := decoder.Decode(&envelope); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if envelope == nil {
		return Result{}, fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: trailing data after JSON object", ErrMalformed)
	}

	raw, ok := envelope["churn_prediction"]
	if !ok {
		return Result{}, fmt.Errorf("%w: churn_prediction missing", ErrMalformed)
	}
	number, ok := raw.(json.Number)
	if !ok {
		return Result{}, fmt.Errorf("%w: churn_prediction is %T", ErrMalformed, raw)
	}
	value, err := number.Int64()
	if err != nil {
		return Result{}, fmt.Errorf("%w: churn_prediction %q is not an integer", ErrMalformed, number)
	}
	if value != 0 && value != 1 {
		return Result{}, fmt.Errorf("%w: churn_prediction %d out of range", ErrMalformed, value)
	}
	return Result{ChurnPrediction: int(value)}, nil
}

// IsCanceled reports whether err came from a cancelled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
