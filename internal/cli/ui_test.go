package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		flowers   int
		theme     string
		letterLen int
		want      string
		absent    string
	}{
		{1, "bauhaus", 0, "1 flower", "letter"},
		{3, "y2k", 12, "letter 12 chars", ""},
		{0, "soft-swiss", 0, "0 flowers", "letter"},
	}
	for _, tt := range tests {
		buf := captureUI(t)
		printStats(tt.flowers, tt.theme, tt.letterLen)
		out := buf.String()
		if !strings.Contains(out, tt.want) || !strings.Contains(out, tt.theme) {
			t.Errorf("printStats(%d, %q, %d) = %q", tt.flowers, tt.theme, tt.letterLen, out)
		}
		if tt.absent != "" && strings.Contains(out, tt.absent) {
			t.Errorf("printStats output %q should not contain %q", out, tt.absent)
		}
	}
}

func TestPrintHelpersWriteToUIOut(t *testing.T) {
	buf := captureUI(t)
	printSuccess("Rendered %d flowers", 2)
	printInfo("Cache is empty")
	printDetail("Directory: %s", "/tmp/x")
	printFile("bouquet.svg")
	printKeyValue("Theme", "Bauhaus")
	printNextStep("Re-encode", "bouqlink encode --link")

	out := buf.String()
	for _, want := range []string{"Rendered 2 flowers", "Cache is empty", "/tmp/x", "bouquet.svg", "Theme", "Bauhaus", "bouqlink encode --link"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != 6 {
		t.Errorf("got %d lines, want 6", n)
	}
}
