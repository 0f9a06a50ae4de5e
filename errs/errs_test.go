package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorFormattingIncludesEnvelopeFields(t *testing.T) {
	err := New(
		CodeInvalid,
		WithHTTP(400),
		WithMessage("invalid order payload"),
		WithRawCode("missing_parameters"),
		WithRawMessage("count is required"),
		WithRemediation("verify the order body before retrying"),
		WithCause(errors.New("kalshi http 400")),
	)

	out := err.Error()
	if !strings.Contains(out, "code=invalid_request") {
		t.Fatalf("expected code marker in error string: %s", out)
	}
	if !strings.Contains(out, "http=400") {
		t.Fatalf("expected http status in error string: %s", out)
	}
	if !strings.Contains(out, "raw_code=\"missing_parameters\"") {
		t.Fatalf("expected raw code in error string: %s", out)
	}
	if !strings.Contains(out, "remediation=\"verify the order body before retrying\"") {
		t.Fatalf("expected remediation guidance in error string: %s", out)
	}
	if !strings.Contains(out, "cause=\"kalshi http 400\"") {
		t.Fatalf("expected wrapped cause in error string: %s", out)
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := New(CodeNetwork, WithCause(cause))
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to reach the cause through the envelope")
	}
}

func TestCodeOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("request markets: %w", New(CodeRateLimited, WithHTTP(429)))
	if got := CodeOf(err); got != CodeRateLimited {
		t.Fatalf("expected rate_limited code, got %q", got)
	}
	if !Is(err, CodeRateLimited) {
		t.Fatalf("expected Is to match the wrapped envelope code")
	}
	if CodeOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty code for non-envelope error")
	}
}

func TestCodeForStatus(t *testing.T) {
	cases := map[int]Code{
		http.StatusUnauthorized:        CodeAuth,
		http.StatusForbidden:           CodeAuth,
		http.StatusNotFound:            CodeNotFound,
		http.StatusTooManyRequests:     CodeRateLimited,
		http.StatusServiceUnavailable:  CodeUnavailable,
		http.StatusInternalServerError: CodeVenue,
		http.StatusBadRequest:          CodeInvalid,
	}
	for status, want := range cases {
		if got := CodeForStatus(status); got != want {
			t.Fatalf("status %d: expected %q, got %q", status, want, got)
		}
	}
}
