// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package ledger is the HTTP client of the reward ledger service and of the
// mirror node used for balance lookups.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/rewardtv/internal/log"
	"github.com/ManuGH/rewardtv/internal/metrics"
	"github.com/ManuGH/rewardtv/internal/telemetry"
)

// Options configures the ledger client behavior.
type Options struct {
	Timeout          time.Duration
	MaxRetries       int
	Backoff          time.Duration
	MaxBackoff       time.Duration
	RateLimit        rate.Limit
	RateLimitBurst   int
	UserAgent        string
	BreakerThreshold int
	BreakerReset     time.Duration

	// MirrorURL and TokenID enable GetBalance.
	MirrorURL string
	TokenID   string
}

const (
	defaultTimeout          = 10 * time.Second
	defaultRetries          = 2
	defaultBackoff          = 200 * time.Millisecond
	defaultMaxBackoff       = 2 * time.Second
	defaultRateLimit        = 10
	defaultRateLimitBurst   = 20
	defaultBreakerThreshold = 5
	defaultBreakerReset     = 30 * time.Second
	maxBodyBytes            = 1 << 20
)

// Client talks to the ledger. Only GET requests are retried; a retried POST
// could credit a reward twice.
type Client struct {
	baseURL    string
	mirrorURL  string
	tokenID    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	userAgent  string

	breaker       *CircuitBreaker
	mirrorBreaker *CircuitBreaker

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewClient creates a ledger client for baseURL.
func NewClient(baseURL string, opts Options) *Client {
	nopts := normalizeOptions(opts)
	transport := &http.Transport{
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: nopts.Timeout,
		TLSHandshakeTimeout:   5 * time.Second,
	}

	return &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		mirrorURL: strings.TrimRight(strings.TrimSpace(nopts.MirrorURL), "/"),
		tokenID:   nopts.TokenID,
		httpClient: &http.Client{
			Timeout:   nopts.Timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		limiter:       rate.NewLimiter(nopts.RateLimit, nopts.RateLimitBurst),
		maxRetries:    nopts.MaxRetries,
		backoff:       nopts.Backoff,
		maxBackoff:    nopts.MaxBackoff,
		userAgent:     nopts.UserAgent,
		breaker:       NewCircuitBreaker("ledger", nopts.BreakerThreshold, nopts.BreakerReset),
		mirrorBreaker: NewCircuitBreaker("mirror", nopts.BreakerThreshold, nopts.BreakerReset),
		rnd:           rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- jitter only
	}
}

func normalizeOptions(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	} else if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = defaultRateLimitBurst
	}
	if opts.BreakerThreshold <= 0 {
		opts.BreakerThreshold = defaultBreakerThreshold
	}
	if opts.BreakerReset <= 0 {
		opts.BreakerReset = defaultBreakerReset
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "rewardtv"
	}
	return opts
}

// BaseURL returns the normalized ledger URL.
func (c *Client) BaseURL() string { return c.baseURL }

// BreakerState exposes the ledger breaker for status reporting.
func (c *Client) BreakerState() State { return c.breaker.State() }

// call describes one ledger request.
type call struct {
	op      string
	method  string
	base    string
	path    string
	query   url.Values
	body    any
	account string
	breaker *CircuitBreaker
}

// envelope is the status wrapper most ledger responses carry.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	if cl.breaker == nil {
		cl.breaker = c.breaker
	}
	if cl.base == "" {
		cl.base = c.baseURL
	}

	tracer := telemetry.Tracer("rewardtv.ledger")
	ctx, span := tracer.Start(ctx, "rewardtv.ledger."+cl.op, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(telemetry.LedgerAttributes(cl.op, cl.account)...)
	start := time.Now()
	defer func() {
		metrics.RecordLedgerRequest(cl.op, err == nil, time.Since(start).Seconds())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	if !cl.breaker.Allow() {
		return &Error{Sentinel: ErrCircuitOpen, Op: cl.op}
	}

	status, body, err := c.roundTrip(ctx, span, cl)
	cl.breaker.Record(!breakerFailure(err, status))
	if err != nil {
		return err
	}

	var env envelope
	_ = json.Unmarshal(body, &env)

	switch {
	case status >= http.StatusInternalServerError:
		return &Error{Sentinel: ErrServerError, Op: cl.op, Status: status, Body: env.Error}
	case status == http.StatusNotFound:
		return &Error{Sentinel: ErrNotFound, Op: cl.op, Status: status, Body: env.Error}
	case status >= http.StatusBadRequest:
		return &Error{Sentinel: ErrRejected, Op: cl.op, Status: status, Body: env.Error}
	case env.Success != nil && !*env.Success:
		return &Error{Sentinel: ErrRejected, Op: cl.op, Status: status, Body: env.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Sentinel: ErrBadResponse, Op: cl.op, Status: status, Err: err}
	}
	return nil
}

// roundTrip performs the request with retries for idempotent methods and
// returns the final status and body.
func (c *Client) roundTrip(ctx context.Context, span trace.Span, cl call) (int, []byte, error) {
	u, err := url.Parse(cl.base)
	if err != nil || u.Host == "" {
		return 0, nil, &Error{Sentinel: ErrUnreachable, Op: cl.op, Err: fmt.Errorf("invalid base URL %q", cl.base)}
	}
	u.Path = strings.TrimRight(u.Path, "/") + cl.path
	if len(cl.query) > 0 {
		u.RawQuery = cl.query.Encode()
	}
	rawURL := u.String()

	var payload []byte
	if cl.body != nil {
		if payload, err = json.Marshal(cl.body); err != nil {
			return 0, nil, fmt.Errorf("ledger: encode %s: %w", cl.op, err)
		}
	}

	maxAttempts := 1
	if cl.method == http.MethodGet {
		maxAttempts = c.maxRetries + 1
	}

	logger := log.WithComponentFromContext(ctx, "ledger")
	var (
		lastErr    error
		lastStatus int
		lastBody   []byte
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &Error{Sentinel: classifyTransport(err), Op: cl.op, Err: err}
		}

		var rdr io.Reader
		if payload != nil {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, cl.method, rawURL, rdr)
		if err != nil {
			return 0, nil, &Error{Sentinel: ErrUnreachable, Op: cl.op, Err: err}
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err == nil {
			lastStatus = resp.StatusCode
			lastBody, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
		}
		span.SetAttributes(attribute.Int("attempt", attempt))
		span.SetAttributes(telemetry.HTTPAttributes(cl.method, cl.path, rawURL, lastStatus)...)

		logger.Debug().
			Str(log.FieldOperation, cl.op).
			Int(log.FieldStatus, lastStatus).
			Int("attempt", attempt).
			Err(err).
			Msg("ledger request")

		if err != nil {
			lastErr = &Error{Sentinel: classifyTransport(err), Op: cl.op, Err: err}
		} else {
			lastErr = nil
		}

		retry := attempt < maxAttempts && (err != nil || lastStatus >= http.StatusInternalServerError || lastStatus == http.StatusTooManyRequests)
		if !retry {
			break
		}
		if err := sleepWithContext(ctx, c.backoffFor(attempt-1)); err != nil {
			return 0, nil, &Error{Sentinel: classifyTransport(err), Op: cl.op, Err: err}
		}
	}
	if lastErr != nil {
		return 0, nil, lastErr
	}
	return lastStatus, lastBody, nil
}

func classifyTransport(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrTimeout
	default:
		return ErrUnreachable
	}
}

func breakerFailure(err error, status int) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled)
	}
	return status >= http.StatusInternalServerError
}

func (c *Client) backoffFor(attempt int) time.Duration {
	d := c.backoff << attempt
	if d <= 0 || d > c.maxBackoff {
		d = c.maxBackoff
	}
	c.mu.Lock()
	jitter := time.Duration(c.rnd.Int63n(int64(d)/2 + 1))
	c.mu.Unlock()
	return d/2 + jitter
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
