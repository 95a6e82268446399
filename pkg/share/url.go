package share

import (
	"net/url"
	"strings"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/codec"
	"github.com/bouqlink/bouqlink/pkg/errors"
)

// DefaultBase is the viewer the links point at when none is configured.
const DefaultBase = "https://bouq.link/"

// QueryKey is the query parameter holding the payload.
const QueryKey = "data"

// ErrNothingToShare is returned when a bouquet cannot be encoded.
var ErrNothingToShare = errors.New(errors.ErrCodeNothingToShare, "nothing to share")

// URL returns base's origin and path followed by ?data=encoded. Any query
// or fragment on base is dropped. The payload alphabet is URL safe, so it
// is appended verbatim.
func URL(base, encoded string) string {
	if base == "" {
		base = DefaultBase
	}
	if u, err := url.Parse(base); err == nil {
		u.RawQuery, u.Fragment, u.RawFragment = "", "", ""
		base = u.String()
	}
	return base + "?" + QueryKey + "=" + encoded
}

// Link encodes s in the latest generation and returns its share URL.
func Link(base string, s *bouquet.State) (string, error) {
	encoded := codec.Encode(s)
	if encoded == "" {
		return "", ErrNothingToShare
	}
	return URL(base, encoded), nil
}

// Payload extracts the candidate payload from raw, which may be a share
// URL, a bare "?data=" query or "#" fragment, or the payload itself. For
// URLs the fragment is the primary candidate and the data parameter the
// fallback.
func Payload(raw string) string {
	raw = strings.TrimSpace(raw)
	if !looksLikeURL(raw) {
		return codec.Select(raw)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return codec.Select(raw)
	}
	return codec.Select(u.Fragment, codec.QueryParam(u, QueryKey))
}

// Parse decodes the bouquet carried by raw. It reports false when raw holds
// nothing decodable.
func Parse(raw string) (*bouquet.State, bool) {
	return codec.Decode(Payload(raw))
}

// Inspect is [Parse] that also reports the detected generation and why
// decoding failed.
func Inspect(raw string) (*bouquet.State, codec.Format, error) {
	return codec.DecodeFormat(Payload(raw))
}

func looksLikeURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasPrefix(s, "?") || strings.HasPrefix(s, "/")
}
