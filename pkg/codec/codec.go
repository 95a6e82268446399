package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	lzstring "github.com/daku10/go-lz-string"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// Sentinel errors reported by [DecodeFormat] and [EncodeFormat].
var (
	ErrEmpty             = errors.New("empty payload")
	ErrMalformed         = errors.New("malformed payload")
	ErrNotObject         = errors.New("payload is not a JSON object")
	ErrUnknownSchema     = errors.New("unrecognised field schema")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrNilState          = errors.New("nil bouquet")
)

// CompressedPrefix starts every compressed payload whose JSON text begins
// with `{"`.
const CompressedPrefix = "N4"

// plausibleLength is the payload length below which a candidate without
// CompressedPrefix is treated as implausible.
const plausibleLength = 20

// decoder is one generation's decode attempt.
type decoder struct {
	format Format
	decode func(payload string) (*bouquet.State, error)
}

// decoders run in priority order; the first success wins.
var decoders = []decoder{
	{CompressedMinifiedFormat, decodeMinified},
	{CompressedFullFormat, decodeFull},
	{LegacyBase64Format, decodeLegacy},
}

// Encode serialises s in the latest generation. It never fails outward:
// any internal error yields "", which callers treat as nothing to share.
func Encode(s *bouquet.State) string {
	out, err := EncodeFormat(s, Latest)
	if err != nil {
		return ""
	}
	return out
}

// EncodeFormat serialises s in the requested generation. Only the latest
// generation rounds numbers; older ones are reproduced byte for byte as
// they were originally written.
func EncodeFormat(s *bouquet.State, f Format) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("encode: %v", r)
		}
	}()
	if s == nil {
		return "", ErrNilState
	}
	if err := s.Validate(); err != nil {
		return "", err
	}

	switch f {
	case CompressedMinifiedFormat:
		data, err := marshal(minify(s))
		if err != nil {
			return "", err
		}
		return lzstring.CompressToEncodedURIComponent(data)
	case CompressedFullFormat:
		data, err := marshal(s.Clone())
		if err != nil {
			return "", err
		}
		return lzstring.CompressToEncodedURIComponent(data)
	case LegacyBase64Format:
		data, err := marshal(s.Clone())
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString([]byte(encodeURIComponent(data))), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// Decode reconstructs a bouquet from input. When input looks implausible
// (empty, or short without the compressed prefix) the sources are asked in
// order for a replacement candidate. It returns false when nothing decodes.
func Decode(input string, sources ...CandidateSource) (*bouquet.State, bool) {
	s, _, err := DecodeFormat(Select(input, sources...))
	if err != nil {
		return nil, false
	}
	return s, true
}

// Select returns the normalised candidate [Decode] would decode: input
// itself when plausible, otherwise the first non-empty source candidate,
// otherwise input.
func Select(input string, sources ...CandidateSource) string {
	candidate := normalize(input)
	if plausible(candidate) {
		return candidate
	}
	for _, src := range sources {
		if src == nil {
			continue
		}
		if c := normalize(src.Candidate()); c != "" {
			return c
		}
	}
	return candidate
}

// DecodeFormat decodes input and reports the generation it matched. The
// error joins the reason each generation rejected the payload.
func DecodeFormat(input string) (*bouquet.State, Format, error) {
	payload := normalize(input)
	if payload == "" {
		return nil, FormatUnknown, ErrEmpty
	}

	errs := make([]error, 0, len(decoders))
	for _, d := range decoders {
		s, err := attempt(d, payload)
		if err == nil {
			return s, d.format, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.format, err))
	}
	return nil, FormatUnknown, fmt.Errorf("%w: %w", ErrMalformed, errors.Join(errs...))
}

func attempt(d decoder, payload string) (s *bouquet.State, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return d.decode(payload)
}

func decodeMinified(payload string) (*bouquet.State, error) {
	text, err := decompress(payload)
	if err != nil {
		return nil, err
	}
	keys, err := objectKeys(text)
	if err != nil {
		return nil, err
	}
	if hasAny(keys, fullKeys) || !hasAny(keys, shortKeys) {
		return nil, ErrUnknownSchema
	}
	var m minified
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, err
	}
	return m.expand(), nil
}

func decodeFull(payload string) (*bouquet.State, error) {
	text, err := decompress(payload)
	if err != nil {
		return nil, err
	}
	return parseFull(text)
}

func decodeLegacy(payload string) (*bouquet.State, error) {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, err
	}
	text, err := url.PathUnescape(string(raw))
	if err != nil {
		return nil, err
	}
	return parseFull(text)
}

// parseFull parses the full-field schema and returns it unchanged apart
// from replacing a null element list with an empty one.
func parseFull(text string) (*bouquet.State, error) {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return nil, ErrNotObject
	}
	keys, err := objectKeys(text)
	if err != nil {
		return nil, err
	}
	if !hasAny(keys, fullKeys) {
		return nil, ErrUnknownSchema
	}
	var s bouquet.State
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, err
	}
	if s.Elements == nil {
		s.Elements = []bouquet.Element{}
	}
	return &s, nil
}

func decompress(payload string) (string, error) {
	text, err := lzstring.DecompressFromEncodedURIComponent(payload)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(text, "{") {
		return "", ErrNotObject
	}
	return text, nil
}

// decodeBase64 accepts padded and unpadded standard base64 and the
// URL-safe variant some shorteners rewrite to.
func decodeBase64(s string) ([]byte, error) {
	trimmed := strings.TrimRight(s, "=")
	if b, err := base64.RawStdEncoding.DecodeString(trimmed); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(trimmed)
}

func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// normalize trims whitespace and a leading fragment marker, and undoes the
// '+' to space rewrite applied when a payload travels in a query string.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "#")
	return strings.ReplaceAll(s, " ", "+")
}

func plausible(s string) bool {
	return s != "" && (len(s) >= plausibleLength || strings.HasPrefix(s, CompressedPrefix))
}
