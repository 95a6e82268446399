package codec

import (
	"fmt"
	"strings"
)

// Format identifies one wire generation.
type Format int

const (
	FormatUnknown Format = iota
	LegacyBase64Format
	CompressedFullFormat
	CompressedMinifiedFormat
)

// Latest is the generation produced by [Encode].
const Latest = CompressedMinifiedFormat

var formatNames = map[Format]string{
	LegacyBase64Format:       "legacy-base64",
	CompressedFullFormat:     "compressed-full",
	CompressedMinifiedFormat: "compressed-minified",
}

// String returns the generation's name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Generation returns the 1-based historical generation number, or 0.
func (f Format) Generation() int {
	if f < LegacyBase64Format || f > CompressedMinifiedFormat {
		return 0
	}
	return int(f)
}

// Formats lists every generation from oldest to newest.
func Formats() []Format {
	return []Format{LegacyBase64Format, CompressedFullFormat, CompressedMinifiedFormat}
}

// ParseFormat accepts a generation name ("compressed-minified"), a short
// alias ("minified", "full", "base64") or a generation tag ("v1".."v3").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest", "v3", "3", "minified", "compressed-minified":
		return CompressedMinifiedFormat, nil
	case "v2", "2", "full", "compressed", "compressed-full":
		return CompressedFullFormat, nil
	case "v1", "1", "base64", "legacy", "legacy-base64":
		return LegacyBase64Format, nil
	}
	return FormatUnknown, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}
