// Package errs provides structured error types shared across the Kalshi client.
package errs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Code identifies a client error category.
type Code string

const (
	// CodeAuth indicates authentication or authorization failures.
	CodeAuth Code = "auth"
	// CodeInvalid indicates invalid input provided by the caller.
	CodeInvalid Code = "invalid_request"
	// CodeNotFound indicates a missing resource.
	CodeNotFound Code = "not_found"
	// CodeRateLimited indicates that the request exceeded rate limits.
	CodeRateLimited Code = "rate_limited"
	// CodeNetwork indicates a network transport failure.
	CodeNetwork Code = "network"
	// CodeVenue indicates an exchange-side failure.
	CodeVenue Code = "venue_error"
	// CodeUnavailable indicates the exchange is temporarily unavailable.
	CodeUnavailable Code = "unavailable"
	// CodeConfig indicates a client configuration problem.
	CodeConfig Code = "config"
)

// E captures structured error information produced across the client.
type E struct {
	Code        Code
	HTTP        int
	RawCode     string
	RawMsg      string
	Message     string
	Remediation string

	cause error
}

// Option configures an error envelope.
type Option func(*E)

// New constructs an error envelope for the given error code.
func New(code Code, opts ...Option) *E {
	e := &E{Code: code}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// WithMessage attaches a human-readable message to the error.
func WithMessage(message string) Option {
	trimmed := strings.TrimSpace(message)
	return func(e *E) {
		e.Message = trimmed
	}
}

// WithRemediation attaches remediation guidance to the error.
func WithRemediation(remediation string) Option {
	trimmed := strings.TrimSpace(remediation)
	return func(e *E) {
		e.Remediation = trimmed
	}
}

// WithHTTP records the associated HTTP status code.
func WithHTTP(status int) Option {
	return func(e *E) {
		e.HTTP = status
	}
}

// WithRawCode captures the raw exchange error code.
func WithRawCode(code string) Option {
	trimmed := strings.TrimSpace(code)
	return func(e *E) {
		e.RawCode = trimmed
	}
}

// WithRawMessage captures the raw exchange error message.
func WithRawMessage(msg string) Option {
	return func(e *E) {
		e.RawMsg = msg
	}
}

// WithCause sets the underlying cause error.
func WithCause(err error) Option {
	return func(e *E) {
		e.cause = err
	}
}

func (e *E) Error() string {
	if e == nil {
		return "<nil>"
	}
	var parts []string

	code := strings.TrimSpace(string(e.Code))
	if code == "" {
		code = "unknown"
	}
	parts = append(parts, "code="+code)

	if e.HTTP > 0 {
		parts = append(parts, "http="+strconv.Itoa(e.HTTP))
	}
	if e.Message != "" {
		parts = append(parts, "message="+strconv.Quote(e.Message))
	}
	if e.Remediation != "" {
		parts = append(parts, "remediation="+strconv.Quote(e.Remediation))
	}
	if e.RawCode != "" {
		parts = append(parts, "raw_code="+strconv.Quote(e.RawCode))
	}
	if e.RawMsg != "" {
		parts = append(parts, "raw_msg="+strconv.Quote(e.RawMsg))
	}
	if e.cause != nil {
		parts = append(parts, "cause="+strconv.Quote(e.cause.Error()))
	}

	return strings.Join(parts, " ")
}

func (e *E) Unwrap() error { return e.cause }

// CodeOf extracts the error code from err, or an empty Code when err does not
// carry an envelope.
func CodeOf(err error) Code {
	var e *E
	if errors.As(err, &e) && e != nil {
		return e.Code
	}
	return ""
}

// Is reports whether err carries an envelope with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeForStatus maps an HTTP response status to an error code.
func CodeForStatus(status int) Code {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CodeAuth
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusTooManyRequests:
		return CodeRateLimited
	case status == http.StatusServiceUnavailable:
		return CodeUnavailable
	case status >= 500:
		return CodeVenue
	case status >= 400:
		return CodeInvalid
	default:
		return CodeVenue
	}
}

// Config returns a standardized error for client misconfiguration.
func Config(msg string) *E {
	return New(CodeConfig, WithMessage(strings.TrimSpace(msg)))
}
