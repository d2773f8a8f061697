// Package fetch provides the HTTP transport shared by the board and archive
// clients: user agent, timeouts, bounded retries with backoff, and optional
// request pacing.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the default per-attempt HTTP timeout.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent identifies the pipeline to the sites it reads.
const DefaultUserAgent = "Fieldwork/1.0"

// DefaultMaxRetries is the number of retries after the first attempt.
const DefaultMaxRetries = 3

// DefaultBackoff is the delay before the first retry; later retries double it.
const DefaultBackoff = 500 * time.Millisecond

const maxRetryAfter = 30 * time.Second

// Result holds the raw response of a successful or failed fetch.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
	Attempts    int
	FromCache   bool
}

// Error represents a transport failure: the request could not be completed,
// or the server answered with a non-200 status.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Retryable  bool
	Attempts   int
	Cause      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// DecodeError reports a response body that could not be parsed.
type DecodeError struct {
	URL   string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	MaxRetries int
	Backoff    time.Duration
	// Limiter, when set, gates every attempt including retries.
	Limiter *rate.Limiter
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
	}
}

// Getter is anything that can fetch a URL.
type Getter interface {
	Get(ctx context.Context, url string) (*Result, error)
}

// Client fetches URLs with retries.
type Client struct {
	http *http.Client
	opts Options
}

// NewClient creates a Client. A nil opts means DefaultOptions().
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	o := *opts
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.Backoff <= 0 {
		o.Backoff = DefaultBackoff
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
	}
}

// Get retrieves a URL. Transport errors, 429 and 5xx responses are retried up
// to MaxRetries times; other statuses fail immediately. On a non-200 status
// the Result is returned alongside the error.
func (c *Client) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	for attempt := 1; ; attempt++ {
		if c.opts.Limiter != nil {
			if err := c.opts.Limiter.Wait(ctx); err != nil {
				return nil, &Error{URL: urlStr, Message: "rate limiter wait failed", Attempts: attempt, Cause: err}
			}
		}

		result, delay, err := c.once(ctx, urlStr)
		if err == nil {
			result.Attempts = attempt
			return result, nil
		}

		var fetchErr *Error
		if !errors.As(err, &fetchErr) {
			return result, err
		}
		fetchErr.Attempts = attempt
		if !fetchErr.Retryable || attempt > c.opts.MaxRetries {
			return result, fetchErr
		}

		if delay <= 0 {
			delay = c.backoff(attempt)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, &Error{URL: urlStr, Message: "canceled while backing off", Attempts: attempt, Cause: ctx.Err()}
		case <-timer.C:
		}
	}
}

// once performs a single attempt. The returned duration is a server-requested
// delay (Retry-After), or zero.
func (c *Client) once(ctx context.Context, urlStr string) (*Result, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, 0, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, &Error{
			URL:       urlStr,
			Message:   "HTTP request failed",
			Retryable: ctx.Err() == nil,
			Cause:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &Error{
			URL:       urlStr,
			Message:   "failed to read response body",
			Retryable: ctx.Err() == nil,
			Cause:     err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode == http.StatusOK {
		return result, 0, nil
	}

	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
	return result, retryAfter(resp.Header.Get("Retry-After")), &Error{
		URL:        urlStr,
		Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
		StatusCode: resp.StatusCode,
		Retryable:  retryable,
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.Backoff << (attempt - 1)
	jitter := time.Duration(rand.Int64N(int64(c.opts.Backoff)/2 + 1))
	return d + jitter
}

func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

// GetJSON fetches a URL and decodes the JSON body into v. A body that is not
// valid JSON yields a *DecodeError and is never retried.
func GetJSON(ctx context.Context, g Getter, urlStr string, v any) error {
	result, err := g.Get(ctx, urlStr)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &DecodeError{URL: urlStr, Cause: err}
	}
	return nil
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var fetchErr *Error
	return errors.As(err, &fetchErr)
}

// IsDecode reports whether err is a malformed payload.
func IsDecode(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
