// Package observability lets a binary watch payload, cache and HTTP
// traffic without the libraries knowing who listens.
//
// Libraries report events through [Share], [Cache] and [HTTP]; until a
// binary installs something, the hooks do nothing:
//
//	observability.NewLogHooks(logger).Install()
//	...
//	observability.Share().OnDecode(ctx, format, len(payload), err)
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ShareHooks receives events from payload encoding and decoding.
type ShareHooks interface {
	// OnEncode records an encode in the named wire generation.
	OnEncode(ctx context.Context, format string, length int, err error)

	// OnDecode records a decode. format is the detected generation, or
	// "unknown" when nothing matched.
	OnDecode(ctx context.Context, format string, length int, err error)
}

// CacheHooks receives events from cache operations. keyType names what is
// cached, e.g. "short" or "render".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from outgoing HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records a call that produced no response.
	OnError(ctx context.Context, method, host, path string, err error)
}

// NoopShareHooks is a no-op implementation of ShareHooks.
type NoopShareHooks struct{}

func (NoopShareHooks) OnEncode(context.Context, string, int, error) {}
func (NoopShareHooks) OnDecode(context.Context, string, int, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// hookSet is one consistent snapshot of the installed hooks.
type hookSet struct {
	share ShareHooks
	cache CacheHooks
	http  HTTPHooks
}

var noops = hookSet{NoopShareHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}

var current atomic.Pointer[hookSet]

func init() { Reset() }

// swap installs a modified copy of the current set.
func swap(edit func(*hookSet)) {
	for {
		old := current.Load()
		next := *old
		edit(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetShareHooks installs h. nil is ignored.
func SetShareHooks(h ShareHooks) {
	if h != nil {
		swap(func(s *hookSet) { s.share = h })
	}
}

// SetCacheHooks installs h. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		swap(func(s *hookSet) { s.cache = h })
	}
}

// SetHTTPHooks installs h. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		swap(func(s *hookSet) { s.http = h })
	}
}

// Share, Cache and HTTP return the installed hooks.
func Share() ShareHooks { return current.Load().share }
func Cache() CacheHooks { return current.Load().cache }
func HTTP() HTTPHooks   { return current.Load().http }

// Reset reinstalls the no-op hooks.
func Reset() {
	n := noops
	current.Store(&n)
}
