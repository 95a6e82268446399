package share

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bouqlink/bouqlink/pkg/cache"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/httputil"
	"github.com/bouqlink/bouqlink/pkg/observability"
)

// DefaultEndpoint is the shortening service used when none is configured.
const DefaultEndpoint = "https://is.gd/create.php"

// DefaultCacheTTL keeps short links for a month.
const DefaultCacheTTL = 30 * 24 * time.Hour

// rateLimitedCode is the service's error code for "too many requests".
const rateLimitedCode = 3

// Shortener calls an is.gd compatible service:
//
//	GET <endpoint>?format=json&url=<long url>  ->  {"shorturl": "..."}
type Shortener struct {
	endpoint string
	client   *http.Client
	cache    cache.Cache
	keyer    cache.Keyer
	ttl      time.Duration
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// ShortenerOption configures a [Shortener].
type ShortenerOption func(*Shortener)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) ShortenerOption {
	return func(s *Shortener) { s.client = c }
}

// WithCache stores successful results in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) ShortenerOption {
	return func(s *Shortener) { s.cache, s.ttl = c, ttl }
}

// WithKeyer sets the cache key builder.
func WithKeyer(k cache.Keyer) ShortenerOption {
	return func(s *Shortener) { s.keyer = k }
}

// WithRetry sets the attempt count and initial backoff delay.
func WithRetry(attempts int, delay time.Duration) ShortenerOption {
	return func(s *Shortener) { s.attempts, s.delay = attempts, delay }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) ShortenerOption {
	return func(s *Shortener) { s.logger = l }
}

// NewShortener returns a Shortener for endpoint, or [DefaultEndpoint] when
// endpoint is empty.
func NewShortener(endpoint string, opts ...ShortenerOption) *Shortener {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	s := &Shortener{
		endpoint: endpoint,
		client:   httputil.NewClient(0),
		cache:    cache.NewNullCache(),
		ttl:      DefaultCacheTTL,
		attempts: 3,
		delay:    time.Second,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint returns the configured service URL.
func (s *Shortener) Endpoint() string { return s.endpoint }

// Shorten returns the short form of longURL, or longURL itself when the
// service cannot be used.
func (s *Shortener) Shorten(ctx context.Context, longURL string) string {
	short, err := s.ShortenErr(ctx, longURL)
	if err != nil {
		s.logger.Debug("shortening failed, using long URL", "error", err)
	}
	return short
}

// ShortenErr is [Shortener.Shorten] that also reports why shortening
// failed. The returned URL is always usable.
func (s *Shortener) ShortenErr(ctx context.Context, longURL string) (string, error) {
	if err := errors.ValidateURL(longURL); err != nil {
		return longURL, err
	}

	key := s.keyer.ShortKey(s.endpoint, longURL)
	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "short")
		s.logger.Debug("short link cache hit", "short", string(data))
		return string(data), nil
	}
	observability.Cache().OnCacheMiss(ctx, "short")

	var short string
	err := httputil.Retry(ctx, s.attempts, s.delay, func() error {
		var err error
		short, err = s.request(ctx, longURL)
		if err != nil {
			s.logger.Debug("shortener request failed", "error", err, "retryable", httputil.IsRetryable(err))
		}
		return err
	})
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "shortener timed out")
		}
		return longURL, err
	}

	if err := s.cache.Set(ctx, key, []byte(short), s.ttl); err != nil {
		s.logger.Debug("short link not cached", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "short", len(short))
	}
	return short, nil
}

type shortenResponse struct {
	ShortURL     string `json:"shorturl"`
	ErrorCode    int    `json:"errorcode"`
	ErrorMessage string `json:"errormessage"`
}

func (s *Shortener) request(ctx context.Context, longURL string) (string, error) {
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid shortener endpoint")
	}
	q := u.Query()
	q.Set("format", "json")
	q.Set("url", longURL)
	u.RawQuery = q.Encode()

	req, err := httputil.NewRequest(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", httputil.TransportError(err)
	}
	defer httputil.DrainClose(resp.Body)
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp); err != nil {
		return "", err
	}

	var body shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "invalid shortener response")
	}
	switch {
	case body.ErrorCode == rateLimitedCode:
		return "", httputil.Retryable(&errors.RateLimitedError{Message: body.ErrorMessage})
	case body.ErrorCode != 0:
		return "", errors.New(errors.ErrCodeNetwork, "shortener error %d: %s", body.ErrorCode, body.ErrorMessage)
	}
	if err := errors.ValidateURL(body.ShortURL); err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "shortener returned no usable URL")
	}
	return body.ShortURL, nil
}
