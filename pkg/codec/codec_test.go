package codec

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
)

// Payloads produced by each historical generation of the web app.
const (
	fixtureMinified = "N4IgLiBcIM4PYDMwFoYHcCWMYgDQgBsoQAJDPWYgQQoSgG1RzoBDAIwEYAmW4gJzgwAphQAeUAKwAGfAE9JMkHyiKckDgF8AuhqA"

	// {"t":"bauhaus","s":"Bo","f":[...]} without a letter.
	fixtureMinifiedNoLetter = "N4IgLiBcIEYIYFcAWiDOIA0J3QEIHtMQAzKAbVAEsoQAvWgTgH0jToATOS1ATyIA8oAFgCMAOgBMWPpABsAZjEAOLACcoAWgZiRWHOPkBfALqGgA"

	// {"l":"only a letter"}
	fixtureMinifiedLetterOnly = "N4IgNiBcIPYHZgJ4AICGywFMAu3MCcQBfIA"

	fixtureCompressedFull = "N4IgLgFgpgtlCSATEAuEAjAhgVwjgziADQgBmANgPYDuUAToSgNqgCWyaAjgIzUBMxMlVp0kqcNnKsADoIAeqACx8AdAFYSAT1QA2bir4k6lMJjCtKAO1QBaABwrFJfAGNM5KKn18AvgF0SDzAwenEACUxpaU0AAnxpOlZLAHMAQkF8KEtEULQAWUoQHyA"

	fixtureLegacyBase64 = "JTdCJTIydGhlbWVJZCUyMiUzQSUyMnkyayUyMiUyQyUyMmZsb3dlcnMlMjIlM0ElNUIlN0IlMjJpZCUyMiUzQSUyMng3WWslMjIlMkMlMjJmbG93ZXJJZCUyMiUzQSUyMmxhdmVuZGVyJTIyJTJDJTIyeCUyMiUzQTMzLjI1JTJDJTIyeSUyMiUzQTU4LjEyNSUyQyUyMnJvdGF0aW9uJTIyJTNBMTIuNzUlMkMlMjJzY2FsZSUyMiUzQTEuNCU3RCU1RCUyQyUyMmxldHRlciUyMiUzQSUyMkYlQzMlQkNyJTIwZGljaCUyMCVFMiU5OSVBNSUyMCUyNiUyMG1laHIlMjIlMkMlMjJzZW5kZXIlMjIlM0ElMjJMZWElMjIlN0Q="

	// "hello bouquet", "[1,2,3]" and "{}" compressed.
	fixtureCompressedText  = "BYUwNmD2AEBGkFcCOCQBcg"
	fixtureCompressedArray = "NoRgNATGDMC6Q"
	fixtureCompressedEmpty = "N4XyA"
)

func scenarioState() *bouquet.State {
	return &bouquet.State{
		ThemeID: "soft-swiss",
		Letter:  "Hi",
		Sender:  "A",
		Elements: []bouquet.Element{
			{ID: "ab12", Kind: "rose", X: 50.0, Y: 50.0, Rotation: 0.0, Scale: 1.0},
		},
	}
}

func fullState() *bouquet.State {
	return &bouquet.State{
		ThemeID: "bauhaus",
		Letter:  "Happy spring!",
		Sender:  "Mo",
		Elements: []bouquet.Element{
			{ID: "q1w2", Kind: "tulip", X: 42.5, Y: 61.2, Rotation: -8.4, Scale: 1.2},
		},
	}
}

func legacyState() *bouquet.State {
	return &bouquet.State{
		ThemeID: "y2k",
		Letter:  "Für dich ♥ & mehr",
		Sender:  "Lea",
		Elements: []bouquet.Element{
			{ID: "x7Yk", Kind: "lavender", X: 33.25, Y: 58.125, Rotation: 12.75, Scale: 1.4},
		},
	}
}

func TestEncodeScenario(t *testing.T) {
	in := scenarioState()
	encoded := Encode(in)
	if encoded == "" {
		t.Fatal("Encode() returned empty string")
	}
	if !strings.HasPrefix(encoded, CompressedPrefix) {
		t.Errorf("Encode() = %q, want prefix %q", encoded, CompressedPrefix)
	}
	if encoded != fixtureMinified {
		t.Errorf("Encode() = %q, want %q", encoded, fixtureMinified)
	}

	got, ok := Decode(encoded)
	if !ok {
		t.Fatal("Decode() failed on freshly encoded payload")
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.ThemeID != "soft-swiss" {
		t.Errorf("ThemeID = %q, want soft-swiss", got.ThemeID)
	}
}

func TestEncodeURLSafe(t *testing.T) {
	s := scenarioState()
	s.Letter = "Roses are red & violets are blue? <3 100% = love / #1"
	encoded := Encode(s)
	if encoded == "" {
		t.Fatal("Encode() returned empty string")
	}
	for _, r := range encoded {
		if !strings.ContainsRune(uriAlphabet, r) {
			t.Fatalf("Encode() produced %q outside the URI alphabet", r)
		}
	}
}

const uriAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+-$"

func TestRoundTripRandomStates(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	kinds := []string{"rose", "tulip", "daisy", "pastel-hydrangea"}

	for n := 0; n <= 25; n++ {
		t.Run(fmt.Sprintf("elements=%d", n), func(t *testing.T) {
			s := bouquet.New()
			s.SetTheme("art-deco")
			s.SetLetter(fmt.Sprintf("letter %d - ünïcødé ✿ \"quoted\"", n))
			s.SetSender("Sam")
			for i := range n {
				s.Elements = append(s.Elements, bouquet.Element{
					ID:       bouquet.NewID(),
					Kind:     kinds[i%len(kinds)],
					X:        rng.Float64()*120 - 10,
					Y:        rng.Float64() * 100,
					Rotation: rng.Float64()*720 - 360,
					Scale:    1 + rng.Float64()*0.8,
				})
			}

			got, ok := Decode(Encode(s))
			if !ok {
				t.Fatal("Decode() failed")
			}
			if diff := cmp.Diff(s.Round(), got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeGenerations(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		format  Format
		want    *bouquet.State
	}{
		{"minified", fixtureMinified, CompressedMinifiedFormat, scenarioState()},
		{"compressed full", fixtureCompressedFull, CompressedFullFormat, fullState()},
		{"legacy base64", fixtureLegacyBase64, LegacyBase64Format, legacyState()},
		{"legacy base64 unpadded", strings.TrimRight(fixtureLegacyBase64, "="), LegacyBase64Format, legacyState()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, format, err := DecodeFormat(tt.payload)
			if err != nil {
				t.Fatalf("DecodeFormat() error: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %s, want %s", format, tt.format)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeHistoricalGenerations(t *testing.T) {
	tests := []struct {
		format Format
		state  *bouquet.State
		want   string
	}{
		{CompressedMinifiedFormat, scenarioState(), fixtureMinified},
		{CompressedFullFormat, fullState(), fixtureCompressedFull},
		{LegacyBase64Format, legacyState(), fixtureLegacyBase64},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := EncodeFormat(tt.state, tt.format)
			if err != nil {
				t.Fatalf("EncodeFormat() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EncodeFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeMinifiedDefaults(t *testing.T) {
	t.Run("missing letter", func(t *testing.T) {
		got, ok := Decode(fixtureMinifiedNoLetter)
		if !ok {
			t.Fatal("Decode() failed")
		}
		if got.Letter != "" {
			t.Errorf("Letter = %q, want empty", got.Letter)
		}
		if got.ThemeID != "bauhaus" || got.Sender != "Bo" || len(got.Elements) != 1 {
			t.Errorf("unexpected state: %+v", got)
		}
		want := bouquet.Element{ID: "zz9_", Kind: "daisy", X: 41.2, Y: 63.8, Rotation: -9.1, Scale: 1.3}
		if got.Elements[0] != want {
			t.Errorf("element = %+v, want %+v", got.Elements[0], want)
		}
	})

	t.Run("only a letter", func(t *testing.T) {
		got, ok := Decode(fixtureMinifiedLetterOnly)
		if !ok {
			t.Fatal("Decode() failed")
		}
		want := &bouquet.State{ThemeID: bouquet.DefaultThemeID, Letter: "only a letter", Elements: []bouquet.Element{}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"percent garbage", "not-valid-%%%"},
		{"eight chars", "x9$k-+Qz"},
		{"compressed text", fixtureCompressedText},
		{"compressed array", fixtureCompressedArray},
		{"compressed empty object", fixtureCompressedEmpty},
		{"truncated minified", fixtureMinified[:len(fixtureMinified)/2]},
		{"truncated legacy", fixtureLegacyBase64[:37]},
		{"base64 of plain text", "aGVsbG8gd29ybGQsIHRoaXMgaXMgbm90IGpzb24="},
		{"unicode", "🌹🌷🌻🌼🌸💐🌺🥀"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.input)
			if ok || got != nil {
				t.Errorf("Decode(%q) = %+v, %v; want nil, false", tt.input, got, ok)
			}
		})
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	if _, _, err := DecodeFormat(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("DecodeFormat(\"\") error = %v, want ErrEmpty", err)
	}
	_, format, err := DecodeFormat("garbage!")
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("DecodeFormat(garbage) error = %v, want ErrMalformed", err)
	}
	if format != FormatUnknown {
		t.Errorf("format = %s, want unknown", format)
	}
}

func TestDecodeRandomGarbageNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	alphabet := uriAlphabet + "=/%#?& "
	for range 500 {
		n := 1 + rng.IntN(64)
		var b strings.Builder
		for range n {
			b.WriteByte(alphabet[rng.IntN(len(alphabet))])
		}
		Decode(b.String())
	}
}

func TestDecodeQueryMangling(t *testing.T) {
	s := scenarioState()
	s.Letter = "a fairly long letter so the payload contains plus signs somewhere"
	encoded := Encode(s)
	mangled := strings.ReplaceAll(encoded, "+", " ")

	got, ok := Decode(mangled)
	if !ok {
		t.Fatal("Decode() failed on '+' mangled payload")
	}
	if got.Letter != s.Letter {
		t.Errorf("Letter = %q, want %q", got.Letter, s.Letter)
	}
}

func TestDecodeCandidateSources(t *testing.T) {
	u, err := url.Parse("https://bouq.link/?data=" + fixtureMinified)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		primary string
		sources []CandidateSource
		wantOK  bool
	}{
		{"empty primary uses query", "", []CandidateSource{QueryParam(u, "data")}, true},
		{"short primary uses query", "abc", []CandidateSource{QueryParam(u, "data")}, true},
		{"first non-empty source wins", "", []CandidateSource{Static(""), nil, Static(fixtureCompressedFull)}, true},
		{"plausible primary ignores sources", fixtureLegacyBase64, []CandidateSource{Static("garbage")}, true},
		{"no source available", "", []CandidateSource{QueryParam(nil, "data"), Fragment(nil)}, false},
		{"short compressed primary is kept", fixtureCompressedEmpty, []CandidateSource{QueryParam(u, "data")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Decode(tt.primary, tt.sources...)
			if ok != tt.wantOK {
				t.Errorf("Decode() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestFragmentSource(t *testing.T) {
	u, _ := url.Parse("https://bouq.link/#" + fixtureLegacyBase64)
	if got := Fragment(u).Candidate(); got != fixtureLegacyBase64 {
		t.Errorf("Fragment() = %q, want fixture", got)
	}
	if _, ok := Decode("", Fragment(u)); !ok {
		t.Error("Decode() via fragment source failed")
	}
}

func TestEncodeFailures(t *testing.T) {
	if got := Encode(nil); got != "" {
		t.Errorf("Encode(nil) = %q, want empty", got)
	}

	s := scenarioState()
	s.Elements[0].X = math.NaN()
	if got := Encode(s); got != "" {
		t.Errorf("Encode(NaN) = %q, want empty", got)
	}

	if _, err := EncodeFormat(scenarioState(), FormatUnknown); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("EncodeFormat(unknown) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncodeEmptyBouquet(t *testing.T) {
	got, ok := Decode(Encode(bouquet.New()))
	if !ok {
		t.Fatal("Decode() failed for empty bouquet")
	}
	if diff := cmp.Diff(bouquet.New(), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMinifiedIsSmaller(t *testing.T) {
	s := fullState()
	full, _ := EncodeFormat(s, CompressedFullFormat)
	short, _ := EncodeFormat(s, CompressedMinifiedFormat)
	if len(short) >= len(full) {
		t.Errorf("minified payload (%d) not smaller than full (%d)", len(short), len(full))
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", CompressedMinifiedFormat, false},
		{"minified", CompressedMinifiedFormat, false},
		{"V2", CompressedFullFormat, false},
		{"compressed-full", CompressedFullFormat, false},
		{"base64", LegacyBase64Format, false},
		{"v1", LegacyBase64Format, false},
		{"gzip", FormatUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatGeneration(t *testing.T) {
	for i, f := range Formats() {
		if f.Generation() != i+1 {
			t.Errorf("%s.Generation() = %d, want %d", f, f.Generation(), i+1)
		}
	}
	if FormatUnknown.Generation() != 0 || FormatUnknown.String() != "unknown" {
		t.Error("FormatUnknown should report generation 0 and name unknown")
	}
}

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, "%7B%22a%22%3A1%7D"},
		{"keep-_.!~*'()", "keep-_.!~*'()"},
		{"a b+c", "a%20b%2Bc"},
		{"ü", "%C3%BC"},
	}
	for _, tt := range tests {
		if got := encodeURIComponent(tt.in); got != tt.want {
			t.Errorf("encodeURIComponent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		sources []CandidateSource
		want    string
	}{
		{"plausible input", " #" + fixtureMinified, []CandidateSource{Static("other")}, fixtureMinified},
		{"fallback", "", []CandidateSource{Static(" "), Static("abc def")}, "abc+def"},
		{"nothing better", "short", []CandidateSource{Static("")}, "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.input, tt.sources...); got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
		})
	}
}
