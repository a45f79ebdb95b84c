package source

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	defaultRetries     = 2
	retryWait          = 200 * time.Millisecond
)

// HTTPSource downloads the dataset with a GET request.
type HTTPSource struct {
	url     string
	timeout time.Duration
	retries int
	client  *resty.Client
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTimeout bounds each request. Non-positive values keep the default.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) HTTPOption {
	return func(s *HTTPSource) {
		if n >= 0 {
			s.retries = n
		}
	}
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{url: url, timeout: defaultHTTPTimeout, retries: defaultRetries}
	for _, opt := range opts {
		opt(s)
	}
	s.client = resty.New().
		SetTimeout(s.timeout).
		SetRetryCount(s.retries).
		SetRetryWaitTime(retryWait).
		SetHeader("Accept", "text/csv, text/plain, */*")
	return s
}

// Open issues the request and hands back the unparsed body.
func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, s.url, err)
	}
	body := resp.RawBody()
	if resp.IsError() {
		if body != nil {
			_ = body.Close()
		}
		return nil, fmt.Errorf("%w: %s: status %d", ErrSourceUnavailable, s.url, resp.StatusCode())
	}
	return guardReads(body, s.url), nil
}

func (s *HTTPSource) String() string { return s.url }
