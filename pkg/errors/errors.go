// Package errors gives bouqlink failures a machine-readable [Code].
//
// The CLI and the HTTP API report the same codes: the CLI maps them to exit
// statuses with [ExitCode], the API to response statuses with [HTTPStatus].
// Codes group by prefix: INVALID_* for rejected input, NETWORK_ERROR,
// TIMEOUT and RATE_LIMITED for shortener trouble, INTERNAL_ERROR for bugs.
//
//	err := errors.New(errors.ErrCodeInvalidTheme, "unknown theme: %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidTheme) {
//	    // reject
//	}
//	err = errors.Wrap(errors.ErrCodeNetwork, cause, "shorten %s", url)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPayload Code = "INVALID_PAYLOAD"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidTheme   Code = "INVALID_THEME"
	ErrCodeInvalidKind    Code = "INVALID_KIND"
	ErrCodeInvalidPolicy  Code = "INVALID_POLICY"
	ErrCodeBouquetFull    Code = "BOUQUET_FULL"

	// Sharing errors
	ErrCodeNothingToShare Code = "NOTHING_TO_SHARE"
	ErrCodeNotFound       Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a code, a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost coded error in err's chain, or
// "" when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return rl.Code()
	}
	return ""
}

// UserMessage returns the message of the outermost coded error without its
// code prefix, or err.Error() for uncoded errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// codeInfo is how a code surfaces outside the process.
type codeInfo struct {
	status int // HTTP response status
	exit   int // CLI exit status
}

var codes = map[Code]codeInfo{
	ErrCodeInvalidInput:   {http.StatusBadRequest, 2},
	ErrCodeInvalidPayload: {http.StatusBadRequest, 2},
	ErrCodeInvalidFormat:  {http.StatusBadRequest, 2},
	ErrCodeInvalidTheme:   {http.StatusBadRequest, 2},
	ErrCodeInvalidKind:    {http.StatusBadRequest, 2},
	ErrCodeInvalidPolicy:  {http.StatusBadRequest, 2},
	ErrCodeBouquetFull:    {http.StatusUnprocessableEntity, 1},
	ErrCodeNothingToShare: {http.StatusUnprocessableEntity, 1},
	ErrCodeNotFound:       {http.StatusNotFound, 1},
	ErrCodeNetwork:        {http.StatusBadGateway, 1},
	ErrCodeTimeout:        {http.StatusGatewayTimeout, 1},
	ErrCodeRateLimited:    {http.StatusTooManyRequests, 1},
	ErrCodeInternal:       {http.StatusInternalServerError, 1},
	ErrCodeUnsupported:    {http.StatusNotImplemented, 1},
}

// HTTPStatus maps an error code to the HTTP status the API responds with.
// Unknown and empty codes are 500.
func HTTPStatus(code Code) int {
	if info, ok := codes[code]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// ExitCode maps an error to the CLI exit status: 0 for nil, 2 for rejected
// input, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if info, ok := codes[GetCode(err)]; ok {
		return info.exit
	}
	return 1
}

// Valid reports whether code is one bouqlink emits.
func (c Code) Valid() bool {
	_, ok := codes[c]
	return ok
}

// RateLimitedError is an upstream 429. RetryAfter is in seconds.
type RateLimitedError struct {
	RetryAfter int
	Message    string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code is always RATE_LIMITED.
func (e *RateLimitedError) Code() Code { return ErrCodeRateLimited }
