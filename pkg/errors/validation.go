package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxPayloadLength bounds encoded payloads accepted from untrusted input.
// A full bouquet with a maximum-length letter stays well below it.
const MaxPayloadLength = 16 << 10

// slugRegex matches theme and flower identifiers.
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateURL validates a URL string for safety.
// It ensures the URL is absolute with an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}

// ValidateThemeID checks the shape of a theme identifier. Unknown but
// well-formed ids are accepted; they resolve to the default theme.
func ValidateThemeID(id string) error {
	if err := validateSlug(id); err != nil {
		return New(ErrCodeInvalidTheme, "invalid theme id %q: %s", id, err.Message)
	}
	return nil
}

// ValidateKind checks the shape of a flower kind identifier.
func ValidateKind(kind string) error {
	if err := validateSlug(kind); err != nil {
		return New(ErrCodeInvalidKind, "invalid flower kind %q: %s", kind, err.Message)
	}
	return nil
}

func validateSlug(s string) *Error {
	switch {
	case s == "":
		return New(ErrCodeInvalidInput, "cannot be empty")
	case len(s) > 64:
		return New(ErrCodeInvalidInput, "too long (max 64 characters)")
	case !slugRegex.MatchString(s):
		return New(ErrCodeInvalidInput, "must be lowercase letters, digits and dashes")
	}
	return nil
}

// ValidateText rejects text that is not valid UTF-8 or that contains
// control characters other than newlines and tabs.
func ValidateText(field, text string) error {
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "%s is not valid UTF-8", field)
	}
	for _, r := range text {
		if r == '\n' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains control characters", field)
		}
	}
	return nil
}

// ValidatePayload checks an encoded payload taken from untrusted input
// before it is handed to the decoder.
func ValidatePayload(payload string) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return New(ErrCodeInvalidPayload, "payload cannot be empty")
	}
	if len(payload) > MaxPayloadLength {
		return New(ErrCodeInvalidPayload, "payload too long (max %d bytes)", MaxPayloadLength)
	}
	for _, r := range payload {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPayload, "payload contains control characters")
		}
	}
	return nil
}
