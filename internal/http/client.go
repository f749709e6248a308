package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options configures the HTTP client.
type Options struct {
	// Timeout for a whole request, body included. Zero means no client
	// timeout; cancellation is then governed entirely by the caller's
	// context.
	Timeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 10
	MaxIdleConnsPerHost int

	// ExtraHeaders are set on every outgoing request.
	ExtraHeaders map[string]string
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 10,
	}
}

// Error describes a failed request: the method and URL it was for and
// the underlying cause, which is either a transport error or a
// StatusError for a non-success response.
type Error struct {
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("http: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError is the cause inside Error when the server answered with a
// non-success status class.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string { return e.Status }

// Client issues package download requests.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 10
	}

	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		opts: opts,
	}
}

// Get issues a GET and returns the response body stream along with the
// advertised content length (-1 when unknown). Any transport failure or
// non-success status is reported as *Error.
func (c *Client) Get(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, &Error{Method: http.MethodGet, URL: url, Err: err}
	}

	if !successStatus(resp.StatusCode) {
		_ = resp.Body.Close()
		return nil, 0, &Error{
			Method: http.MethodGet,
			URL:    url,
			Err:    &StatusError{Code: resp.StatusCode, Status: resp.Status},
		}
	}

	return resp.Body, resp.ContentLength, nil
}

// Exists issues a request with the given method and reports only
// whether the response status was in the success class. The body is
// discarded.
func (c *Client) Exists(ctx context.Context, method, url string) (bool, error) {
	req, err := c.newRequest(ctx, method, url)
	if err != nil {
		return false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, &Error{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return successStatus(resp.StatusCode), nil
}

func (c *Client) newRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.opts.ExtraHeaders {
		req.Header.Set(k, v)
	}
	return req, nil
}

func successStatus(code int) bool {
	return code >= 200 && code < 300
}
