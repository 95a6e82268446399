package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/cache"
	"github.com/bouqlink/bouqlink/pkg/codec"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/observability"
	"github.com/bouqlink/bouqlink/pkg/share"
)

func sampleState() *bouquet.State {
	return &bouquet.State{
		ThemeID: "bauhaus",
		Elements: []bouquet.Element{
			{ID: "ab12", Kind: "rose", X: 50, Y: 50, Rotation: 0, Scale: 1},
			{ID: "cd34", Kind: "tulip", X: 41.23, Y: 60.77, Rotation: -8.44, Scale: 1.17},
		},
		Letter: "Thinking of you",
		Sender: "Robin",
	}
}

type apiResult struct {
	status int
	header http.Header
	body   []byte
}

func do(t *testing.T, h http.Handler, method, target, body string) apiResult {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return apiResult{status: rec.Code, header: rec.Header(), body: rec.Body.Bytes()}
}

func (r apiResult) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.body, v); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, r.body)
	}
}

func (r apiResult) wantError(t *testing.T, status int, code errors.Code) {
	t.Helper()
	if r.status != status {
		t.Errorf("status = %d, want %d (%s)", r.status, status, r.body)
	}
	var body errorBody
	r.decode(t, &body)
	if body.Code != code {
		t.Errorf("code = %q, want %q", body.Code, code)
	}
	if body.Message == "" {
		t.Error("error without message")
	}
}

func TestHealth(t *testing.T) {
	res := do(t, New(Options{}).Handler(), http.MethodGet, "/healthz", "")
	if res.status != http.StatusOK {
		t.Fatalf("status = %d", res.status)
	}
	var body map[string]string
	res.decode(t, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestEncode(t *testing.T) {
	h := New(Options{BaseURL: "https://example.com/b/"}).Handler()
	payload, _ := json.Marshal(sampleState())

	res := do(t, h, http.MethodPost, "/api/encode", string(payload))
	if res.status != http.StatusOK {
		t.Fatalf("status = %d: %s", res.status, res.body)
	}
	var got encodeResponse
	res.decode(t, &got)

	if got.Format != codec.Latest.String() {
		t.Errorf("format = %q", got.Format)
	}
	if got.URL != "https://example.com/b/?data="+got.Data {
		t.Errorf("url = %q", got.URL)
	}
	st, ok := codec.Decode(got.Data)
	if !ok {
		t.Fatal("encoded payload does not decode")
	}
	if diff := cmp.Diff(sampleState().Round(), st); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOlderFormat(t *testing.T) {
	payload, _ := json.Marshal(sampleState())
	res := do(t, New(Options{}).Handler(), http.MethodPost, "/api/encode?format=v1", string(payload))
	var got encodeResponse
	res.decode(t, &got)
	if got.Format != codec.LegacyBase64Format.String() {
		t.Errorf("format = %q", got.Format)
	}
	if _, f, err := codec.DecodeFormat(got.Data); err != nil || f != codec.LegacyBase64Format {
		t.Errorf("DecodeFormat = %v, %v", f, err)
	}
}

func TestEncodeFillsDefaults(t *testing.T) {
	body := `{"flowers":[{"flowerId":"daisy","x":10,"y":20,"rotation":0,"scale":1}],"letter":"` + strings.Repeat("x", 400) + `"}`
	res := do(t, New(Options{}).Handler(), http.MethodPost, "/api/encode", body)
	if res.status != http.StatusOK {
		t.Fatalf("status = %d: %s", res.status, res.body)
	}
	var got encodeResponse
	res.decode(t, &got)
	st, ok := codec.Decode(got.Data)
	if !ok {
		t.Fatal("payload does not decode")
	}
	if st.ThemeID != bouquet.DefaultThemeID {
		t.Errorf("theme = %q", st.ThemeID)
	}
	if st.Elements[0].ID == "" {
		t.Error("element id not assigned")
	}
	if n := len([]rune(st.Letter)); n != bouquet.MaxLetterLength {
		t.Errorf("letter length = %d, want %d", n, bouquet.MaxLetterLength)
	}
}

func TestEncodeErrors(t *testing.T) {
	full := bouquet.New()
	for range bouquet.MaxElements + 1 {
		full.Elements = append(full.Elements, bouquet.Element{ID: "x", Kind: "rose", Scale: 1})
	}
	fullJSON, _ := json.Marshal(full)

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", "/api/encode", "{", http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "/api/encode?format=v9", "{}", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad theme", "/api/encode", `{"themeId":"Not A Slug"}`, http.StatusBadRequest, errors.ErrCodeInvalidTheme},
		{"bad kind", "/api/encode", `{"flowers":[{"flowerId":"<b>"}]}`, http.StatusBadRequest, errors.ErrCodeInvalidKind},
		{"control chars", "/api/encode", `{"letter":"a\u0007b"}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too many", "/api/encode", string(fullJSON), http.StatusUnprocessableEntity, errors.ErrCodeBouquetFull},
	}
	h := New(Options{}).Handler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			do(t, h, http.MethodPost, tt.target, tt.body).wantError(t, tt.status, tt.code)
		})
	}
}

func TestDecode(t *testing.T) {
	h := New(Options{}).Handler()
	encoded := codec.Encode(sampleState())

	tests := []struct {
		name   string
		target string
	}{
		{"payload", "/api/decode?data=" + encoded},
		{"escaped share url", "/api/decode?url=" + strings.NewReplacer(":", "%3A", "/", "%2F", "?", "%3F", "=", "%3D", "+", "%2B").Replace(share.URL("", encoded))},
		{"plus mangled", "/api/decode?data=" + strings.ReplaceAll(encoded, "+", "%20")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := do(t, h, http.MethodGet, tt.target, "")
			if res.status != http.StatusOK {
				t.Fatalf("status = %d: %s", res.status, res.body)
			}
			if got := res.header.Get(FormatHeader); got != codec.Latest.String() {
				t.Errorf("%s = %q", FormatHeader, got)
			}
			var st bouquet.State
			res.decode(t, &st)
			if diff := cmp.Diff(sampleState().Round(), &st); diff != "" {
				t.Errorf("decoded mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	h := New(Options{}).Handler()
	do(t, h, http.MethodGet, "/api/decode", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidPayload)
	do(t, h, http.MethodGet, "/api/decode?data=not-a-bouquet-at-all-really", "").wantError(t, http.StatusNotFound, errors.ErrCodeNotFound)
}

func TestLayout(t *testing.T) {
	h := New(Options{}).Handler()

	var a, b bouquet.Placement
	do(t, h, http.MethodGet, "/api/layout?seed=42&index=3", "").decode(t, &a)
	do(t, h, http.MethodGet, "/api/layout?seed=42&index=3", "").decode(t, &b)
	if a != b {
		t.Errorf("same seed gave %+v and %+v", a, b)
	}

	var first bouquet.Placement
	do(t, h, http.MethodGet, "/api/layout?index=0", "").decode(t, &first)
	if first.X != 50 || first.Y != 55 {
		t.Errorf("first clustered placement = %+v, want centre (50, 55)", first)
	}

	var many []bouquet.Placement
	do(t, h, http.MethodGet, "/api/layout?policy=random&count=5&seed=1", "").decode(t, &many)
	if len(many) != 5 {
		t.Fatalf("count = %d, want 5", len(many))
	}
	for _, p := range many {
		if p.X < 20 || p.X > 80 || p.Y < 20 || p.Y > 80 {
			t.Errorf("random placement out of range: %+v", p)
		}
	}

	do(t, h, http.MethodGet, "/api/layout?policy=diagonal", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidPolicy)
	do(t, h, http.MethodGet, "/api/layout?index=x", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidInput)
	do(t, h, http.MethodGet, "/api/layout?count=99", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidInput)
	do(t, h, http.MethodGet, "/api/layout?seed=-1", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestCatalogs(t *testing.T) {
	h := New(Options{}).Handler()

	var themesBody struct {
		Default string `json:"default"`
		Themes  []struct {
			ID string `json:"id"`
		} `json:"themes"`
	}
	do(t, h, http.MethodGet, "/api/themes", "").decode(t, &themesBody)
	if themesBody.Default != bouquet.DefaultThemeID || len(themesBody.Themes) == 0 {
		t.Errorf("themes = %+v", themesBody)
	}

	var flowersBody struct {
		Flowers []struct {
			ID string `json:"id"`
		} `json:"flowers"`
	}
	do(t, h, http.MethodGet, "/api/flowers", "").decode(t, &flowersBody)
	if len(flowersBody.Flowers) != 14 {
		t.Errorf("flowers = %d, want 14", len(flowersBody.Flowers))
	}

	if res := do(t, h, http.MethodGet, "/api/themes/bauhaus", ""); res.status != http.StatusOK {
		t.Errorf("theme lookup status = %d", res.status)
	}
	if res := do(t, h, http.MethodGet, "/api/flowers/tulip", ""); res.status != http.StatusOK {
		t.Errorf("flower lookup status = %d", res.status)
	}
	do(t, h, http.MethodGet, "/api/themes/nope", "").wantError(t, http.StatusNotFound, errors.ErrCodeNotFound)
	do(t, h, http.MethodGet, "/api/flowers/nope", "").wantError(t, http.StatusNotFound, errors.ErrCodeNotFound)
}

func newUpstream(t *testing.T, status int, body string) *share.Shortener {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return share.NewShortener(srv.URL, share.WithHTTPClient(srv.Client()), share.WithRetry(1, time.Millisecond))
}

func TestShorten(t *testing.T) {
	const long = "https://bouq.link/?data=N4IgNiBcIPYHZgJ4AICGywFMAu3MCcQBfIA"

	do(t, New(Options{}).Handler(), http.MethodPost, "/api/shorten", `{"url":"`+long+`"}`).
		wantError(t, http.StatusNotImplemented, errors.ErrCodeUnsupported)

	ok := New(Options{Shortener: newUpstream(t, http.StatusOK, `{"shorturl":"https://is.gd/xyz"}`)}).Handler()
	var got shortenResponse
	do(t, ok, http.MethodPost, "/api/shorten", `{"url":"`+long+`"}`).decode(t, &got)
	if want := (shortenResponse{URL: long, Short: "https://is.gd/xyz", Shortened: true}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	down := New(Options{Shortener: newUpstream(t, http.StatusInternalServerError, "")}).Handler()
	do(t, down, http.MethodPost, "/api/shorten", `{"url":"`+long+`"}`).decode(t, &got)
	if got.Short != long || got.Shortened {
		t.Errorf("failed shortening should return the original: %+v", got)
	}

	do(t, ok, http.MethodPost, "/api/shorten", `{"url":"not a url"}`).wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidInput)
}

func TestEncodeShorten(t *testing.T) {
	h := New(Options{Shortener: newUpstream(t, http.StatusOK, `{"shorturl":"https://is.gd/abc"}`)}).Handler()
	payload, _ := json.Marshal(sampleState())
	var got encodeResponse
	do(t, h, http.MethodPost, "/api/encode?shorten=true", string(payload)).decode(t, &got)
	if got.Short != "https://is.gd/abc" {
		t.Errorf("short = %q", got.Short)
	}
}

func TestView(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := New(Options{Cache: fc}).Handler()
	target := "/view?width=400&data=" + codec.Encode(sampleState())

	res := do(t, h, http.MethodGet, target, "")
	if res.status != http.StatusOK {
		t.Fatalf("status = %d: %s", res.status, res.body)
	}
	if ct := res.header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(string(res.body), "<svg") {
		t.Errorf("body is not SVG: %.60s", res.body)
	}

	entries, _, err := fc.Stats()
	if err != nil || entries != 1 {
		t.Errorf("preview not cached: entries=%d err=%v", entries, err)
	}
	again := do(t, h, http.MethodGet, target, "")
	if string(again.body) != string(res.body) {
		t.Error("cached preview differs")
	}

	do(t, h, http.MethodGet, "/view?format=gif&data=x", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidFormat)
	do(t, h, http.MethodGet, "/view?width=10&data=x", "").wantError(t, http.StatusBadRequest, errors.ErrCodeInvalidInput)
	do(t, h, http.MethodGet, "/view?data=not-a-bouquet-at-all-really", "").wantError(t, http.StatusNotFound, errors.ErrCodeNotFound)
}

type recordingHooks struct {
	observability.NoopShareHooks
	events []string
}

func (h *recordingHooks) OnDecode(_ context.Context, format string, _ int, err error) {
	h.events = append(h.events, fmt.Sprintf("decode %s %v", format, err == nil))
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.events = append(h.events, "hit "+keyType)
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.events = append(h.events, "miss "+keyType)
}

func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.events = append(h.events, "set "+keyType)
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetShareHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	h := New(Options{Cache: fc}).Handler()
	data := codec.Encode(sampleState())
	do(t, h, http.MethodGet, "/api/decode?data="+data, "")
	do(t, h, http.MethodGet, "/view?data="+data, "")
	do(t, h, http.MethodGet, "/view?data="+data, "")

	want := []string{"decode compressed-minified true", "miss render", "set render", "hit render"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestRouting(t *testing.T) {
	h := New(Options{}).Handler()
	do(t, h, http.MethodGet, "/nowhere", "").wantError(t, http.StatusNotFound, errors.ErrCodeNotFound)
	do(t, h, http.MethodGet, "/api/encode", "").wantError(t, http.StatusMethodNotAllowed, errors.ErrCodeUnsupported)
}

func TestListenAndServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(Options{}).ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
