package server

import (
	"encoding/json"
	"net/http"

	"github.com/bouqlink/bouqlink/pkg/errors"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func errInvalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidInput, format, args...)
}

func errNotFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

func errUnsupported(format string, args ...any) error {
	return errors.New(errors.ErrCodeUnsupported, format, args...)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		s.logger.Warn("write response", "path", r.URL.Path, "err", err)
	}
}

// writeError reports err with the status its code maps to. Errors without
// a code are internal; their detail is logged, not returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		code, msg = errors.ErrCodeInternal, "internal error"
	}
	writeErrorStatus(w, errors.HTTPStatus(code), code, msg)
}

func writeErrorStatus(w http.ResponseWriter, status int, code errors.Code, msg string) {
	_ = writeJSON(w, status, errorBody{Code: code, Message: msg})
}
