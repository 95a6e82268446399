package errors

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://bouq.link/", false},
		{"http with path", "http://localhost:8080/view", false},

		{"empty", "", true},
		{"no scheme", "bouq.link", true},
		{"ftp", "ftp://bouq.link", true},
		{"javascript", "javascript:alert(1)", true},
		{"no host", "https:///path", true},
		{"bad escape", "https://bouq.link/%zz", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateThemeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "bauhaus", false},
		{"dashed", "soft-swiss", false},
		{"digits", "y2k", false},
		{"unknown but well formed", "vaporwave", false},

		{"empty", "", true},
		{"uppercase", "Bauhaus", true},
		{"space", "soft swiss", true},
		{"trailing dash", "soft-", true},
		{"double dash", "soft--swiss", true},
		{"path", "../etc", true},
		{"too long", strings.Repeat("a", 65), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThemeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidTheme) {
				t.Errorf("ValidateThemeID(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateKind(t *testing.T) {
	if err := ValidateKind("pastel-hydrangea"); err != nil {
		t.Errorf("ValidateKind(pastel-hydrangea) error = %v", err)
	}
	err := ValidateKind("Rose!")
	if !Is(err, ErrCodeInvalidKind) {
		t.Errorf("ValidateKind(Rose!) = %v, want %v", err, ErrCodeInvalidKind)
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Happy birthday!", false},
		{"multiline", "Dear Mo,\n\thappy spring", false},
		{"unicode", "Für dich ♥ 🌷", false},
		{"empty", "", false},

		{"null byte", "a\x00b", true},
		{"bell", "a\x07b", true},
		{"invalid utf8", "a\xffb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("letter", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateText(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"compressed", "N4IgNiBcIPYHZgJ4AICGywFMAu3MCcQBfIA", false},
		{"base64", "JTdCJTIydGhlbWVJZCUyMg==", false},
		{"surrounding space", "  N4XyA  ", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("A", MaxPayloadLength+1), true},
		{"control", "N4Ig\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePayload(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePayload(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPayload) {
				t.Errorf("ValidatePayload() code = %v", GetCode(err))
			}
		})
	}
}
