package httputil

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bouqlink/bouqlink/pkg/buildinfo"
	"github.com/bouqlink/bouqlink/pkg/errors"
)

// DefaultTimeout bounds a single outbound request.
const DefaultTimeout = 10 * time.Second

// NewClient returns an HTTP client with the given timeout, or
// [DefaultTimeout] when timeout is not positive.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewRequest builds a request carrying the bouqlink User-Agent.
func NewRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	return req, nil
}

// CheckStatus classifies an HTTP response status. Success is nil; 429 and
// 5xx come back wrapped with [Retryable].
func CheckStatus(resp *http.Response) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests:
		retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		return Retryable(&errors.RateLimitedError{RetryAfter: retryAfter})
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "status %d", code)
	case code >= 500:
		return Retryable(errors.New(errors.ErrCodeNetwork, "status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}

// TransportError wraps a failed round trip as a retryable network error.
func TransportError(err error) error {
	return Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request failed"))
}

// DrainClose discards the rest of body and closes it so the connection can
// be reused.
func DrainClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
