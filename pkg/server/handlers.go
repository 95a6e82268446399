package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bouqlink/bouqlink/pkg/bouquet"
	"github.com/bouqlink/bouqlink/pkg/buildinfo"
	"github.com/bouqlink/bouqlink/pkg/cache"
	"github.com/bouqlink/bouqlink/pkg/codec"
	"github.com/bouqlink/bouqlink/pkg/errors"
	"github.com/bouqlink/bouqlink/pkg/flowers"
	"github.com/bouqlink/bouqlink/pkg/layout"
	"github.com/bouqlink/bouqlink/pkg/observability"
	"github.com/bouqlink/bouqlink/pkg/render"
	"github.com/bouqlink/bouqlink/pkg/share"
	"github.com/bouqlink/bouqlink/pkg/themes"
)

// FormatHeader carries the detected wire generation on decode responses.
const FormatHeader = "X-Bouqlink-Format"

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

type encodeResponse struct {
	Data   string `json:"data"`
	URL    string `json:"url"`
	Format string `json:"format"`
	Short  string `json:"short,omitempty"`
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format, err := codec.ParseFormat(q.Get("format"))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unknown format %q", q.Get("format")))
		return
	}

	var st bouquet.State
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&st); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid bouquet JSON"))
		return
	}
	if err := normalizeState(&st); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := codec.EncodeFormat(&st, format)
	observability.Share().OnEncode(r.Context(), format.String(), len(data), err)
	if err != nil || data == "" {
		s.writeError(w, r, share.ErrNothingToShare)
		return
	}
	resp := encodeResponse{Data: data, URL: share.URL(s.base, data), Format: format.String()}
	if shorten, _ := strconv.ParseBool(q.Get("shorten")); shorten && s.shortener != nil {
		resp.Short = s.shortener.Shorten(r.Context(), resp.URL)
	}
	s.respond(w, r, resp)
}

// normalizeState validates client-supplied state and fills what the
// editor would have filled: the default theme, element ids and the text
// length caps.
func normalizeState(st *bouquet.State) error {
	if st.ThemeID == "" {
		st.ThemeID = bouquet.DefaultThemeID
	} else if err := errors.ValidateThemeID(st.ThemeID); err != nil {
		return err
	}
	if len(st.Elements) > bouquet.MaxElements {
		return errors.New(errors.ErrCodeBouquetFull, "at most %d elements", bouquet.MaxElements)
	}
	if st.Elements == nil {
		st.Elements = []bouquet.Element{}
	}
	for i := range st.Elements {
		e := &st.Elements[i]
		if err := errors.ValidateKind(e.Kind); err != nil {
			return err
		}
		if e.ID == "" {
			e.ID = bouquet.NewID()
		}
	}
	for field, text := range map[string]string{"letter": st.Letter, "sender": st.Sender} {
		if err := errors.ValidateText(field, text); err != nil {
			return err
		}
	}
	st.SetLetter(st.Letter)
	st.SetSender(st.Sender)
	return st.Validate()
}

// payloadParam returns the data parameter, or the url parameter holding a
// whole share link.
func payloadParam(r *http.Request) (string, error) {
	q := r.URL.Query()
	raw := q.Get(share.QueryKey)
	if raw == "" {
		raw = q.Get("url")
	}
	if err := errors.ValidatePayload(raw); err != nil {
		return "", err
	}
	return raw, nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	raw, err := payloadParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, format, err := share.Inspect(raw)
	observability.Share().OnDecode(r.Context(), format.String(), len(raw), err)
	if err != nil {
		s.logger.Debug("decode failed", "err", err)
		s.writeError(w, r, errNotFound("no bouquet in payload"))
		return
	}
	w.Header().Set(FormatHeader, format.String())
	s.respond(w, r, st)
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	policy := s.policy
	if v := q.Get("policy"); v != "" {
		p, err := layout.ParsePolicy(v)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "unknown policy %q", v))
			return
		}
		policy = p
	}

	index, err := intParam(q.Get("index"), 0)
	if err != nil {
		s.writeError(w, r, errInvalid("index must be an integer"))
		return
	}
	count, err := intParam(q.Get("count"), 0)
	if err != nil || count < 0 || count > bouquet.MaxElements {
		s.writeError(w, r, errInvalid("count must be between 0 and %d", bouquet.MaxElements))
		return
	}

	gen := layout.NewRandom()
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			s.writeError(w, r, errInvalid("seed must be an unsigned integer"))
			return
		}
		gen = layout.New(seed)
	}

	if count == 0 {
		s.respond(w, r, gen.Place(policy, index))
		return
	}
	placements := make([]bouquet.Placement, count)
	for i := range placements {
		placements[i] = gen.Place(policy, index+i)
	}
	s.respond(w, r, placements)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) listThemes(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, struct {
		Default    string         `json:"default"`
		Categories []string       `json:"categories"`
		Themes     []themes.Theme `json:"themes"`
	}{themes.DefaultID, s.themes.Categories(), s.themes.All()})
}

func (s *Server) getTheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	t, ok := s.themes.Lookup(id)
	if !ok {
		s.writeError(w, r, errNotFound("unknown theme %q", id))
		return
	}
	s.respond(w, r, t)
}

func (s *Server) listFlowers(w http.ResponseWriter, r *http.Request) {
	s.respond(w, r, struct {
		Default string           `json:"default"`
		Groups  []string         `json:"groups"`
		Flowers []flowers.Flower `json:"flowers"`
	}{flowers.DefaultID, s.flowers.Groups(), s.flowers.All()})
}

func (s *Server) getFlower(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ok := s.flowers.Lookup(id)
	if !ok {
		s.writeError(w, r, errNotFound("unknown flower %q", id))
		return
	}
	s.respond(w, r, f)
}

type shortenRequest struct {
	URL string `json:"url"`
}

type shortenResponse struct {
	URL       string `json:"url"`
	Short     string `json:"short"`
	Shortened bool   `json:"shortened"`
}

func (s *Server) shorten(w http.ResponseWriter, r *http.Request) {
	if s.shortener == nil {
		s.writeError(w, r, errUnsupported("no shortener configured"))
		return
	}
	var req shortenRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON"))
		return
	}
	if err := errors.ValidateURL(req.URL); err != nil {
		s.writeError(w, r, err)
		return
	}
	short, err := s.shortener.ShortenErr(r.Context(), req.URL)
	if err != nil {
		s.logger.Warn("shorten failed, returning original", "err", err)
		short = req.URL
	}
	s.respond(w, r, shortenResponse{URL: req.URL, Short: short, Shortened: err == nil})
}

var contentTypes = map[string]string{
	render.FormatSVG: "image/svg+xml",
	render.FormatPNG: "image/png",
	render.FormatPDF: "application/pdf",
}

func (s *Server) view(w http.ResponseWriter, r *http.Request) {
	raw, err := payloadParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = render.FormatSVG
	}
	contentType, ok := contentTypes[format]
	if !ok {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown preview format %q", format))
		return
	}
	width, err := intParam(q.Get("width"), int(render.DefaultWidth))
	if err != nil || width < 100 || width > 4000 {
		s.writeError(w, r, errInvalid("width must be between 100 and 4000"))
		return
	}

	payload := share.Payload(raw)
	key := s.keyer.RenderKey(payload, cache.RenderKeyOpts{Format: format, Width: width})
	if data, ok, err := s.cache.Get(r.Context(), key); err == nil && ok {
		observability.Cache().OnCacheHit(r.Context(), "render")
		writeBytes(w, contentType, data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "render")

	st, ok := share.Parse(raw)
	if !ok {
		s.writeError(w, r, errNotFound("no bouquet in payload"))
		return
	}
	svg := render.SVG(st,
		render.WithWidth(float64(width)),
		render.WithThemes(s.themes),
		render.WithFlowers(s.flowers),
	)
	data, err := render.Convert(r.Context(), svg, format, 1)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeUnsupported, err, "%s preview unavailable", format))
		return
	}
	if err := s.cache.Set(r.Context(), key, data, renderTTL); err != nil {
		s.logger.Warn("cache preview", "err", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "render", len(data))
	}
	writeBytes(w, contentType, data)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
