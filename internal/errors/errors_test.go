package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// -----------------------------------------------------------------------------
// Severity Tests
// -----------------------------------------------------------------------------

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// -----------------------------------------------------------------------------
// EditError Tests
// -----------------------------------------------------------------------------

func TestNewEditError(t *testing.T) {
	cause := ErrNetwork
	err := NewEditError("commit failed", cause)

	if err.message != "commit failed" {
		t.Errorf("message = %q, want %q", err.message, "commit failed")
	}
	if err.cause != cause {
		t.Errorf("cause = %v, want %v", err.cause, cause)
	}
	if err.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityError)
	}
	if !err.IsUserFacing() {
		t.Error("IsUserFacing() = false, want true")
	}
}

func TestEditError_WithKey(t *testing.T) {
	err := NewEditError("commit failed", ErrNetwork).WithKey("n1/description")

	got := err.Error()
	want := "edit error [key=n1/description]: commit failed: network failure"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestEditError_NoKey(t *testing.T) {
	err := NewEditError("commit failed", nil)

	if got := err.Error(); got != "edit error: commit failed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestEditError_Is(t *testing.T) {
	err := NewEditError("commit failed", ErrCommitSuperseded)

	if !errors.Is(err, ErrCommitSuperseded) {
		t.Error("errors.Is(err, ErrCommitSuperseded) = false, want true")
	}
	if errors.Is(err, ErrNoSession) {
		t.Error("errors.Is(err, ErrNoSession) = true, want false")
	}
}

func TestEditError_As(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewEditError("inner", ErrNetwork).WithKey("k"))

	var editErr *EditError
	if !errors.As(wrapped, &editErr) {
		t.Fatal("errors.As failed to find EditError")
	}
	if editErr.Key != "k" {
		t.Errorf("Key = %q, want %q", editErr.Key, "k")
	}
}

// -----------------------------------------------------------------------------
// GatewayError Tests
// -----------------------------------------------------------------------------

func TestNewGatewayError_RetryableDefaults(t *testing.T) {
	tests := []struct {
		name      string
		cause     error
		retryable bool
	}{
		{"network", ErrNetwork, true},
		{"timeout", ErrGatewayTimeout, true},
		{"validation", ErrValidation, false},
		{"auth", ErrAuthRequired, false},
		{"nil cause", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewGatewayError("save failed", tt.cause)
			if err.IsRetryable() != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", err.IsRetryable(), tt.retryable)
			}
		})
	}
}

func TestGatewayError_Format(t *testing.T) {
	err := NewGatewayError("save rejected", ErrValidation).
		WithStatusCode(422).
		WithEndpoint("PATCH /nodes/n1")

	got := err.Error()
	if !strings.Contains(got, "status=422") {
		t.Errorf("Error() = %q, missing status", got)
	}
	if !strings.Contains(got, "endpoint=PATCH /nodes/n1") {
		t.Errorf("Error() = %q, missing endpoint", got)
	}
	if !strings.Contains(got, "content rejected") {
		t.Errorf("Error() = %q, missing cause", got)
	}
}

func TestGatewayError_WithRetryableOverride(t *testing.T) {
	err := NewGatewayError("slow down", ErrValidation).WithRetryable(true)
	if !err.IsRetryable() {
		t.Error("IsRetryable() = false after WithRetryable(true)")
	}
}

// -----------------------------------------------------------------------------
// Semantic Error Tests
// -----------------------------------------------------------------------------

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("node", "n1")

	if got := err.Error(); got != "node 'n1' not found" {
		t.Errorf("Error() = %q", got)
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}
}

func TestValidationError_Format(t *testing.T) {
	err := NewValidationError("exceeds size limit").WithField("description")

	got := err.Error()
	want := "validation error [field=description]: exceeds size limit"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestValidationError_MatchesSentinels(t *testing.T) {
	err := NewValidationError("bad input")

	if !errors.Is(err, ErrInvalidInput) {
		t.Error("errors.Is(err, ErrInvalidInput) = false, want true")
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
}

// -----------------------------------------------------------------------------
// Classification Tests
// -----------------------------------------------------------------------------

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bare network sentinel", ErrNetwork, true},
		{"wrapped timeout", fmt.Errorf("call: %w", ErrGatewayTimeout), true},
		{"network gateway error", NewGatewayError("save failed", ErrNetwork), true},
		{"validation gateway error", NewGatewayError("rejected", ErrValidation), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsAuth(t *testing.T) {
	if !IsAuth(NewGatewayError("rejected", ErrAuthRequired)) {
		t.Error("IsAuth() = false for auth gateway error")
	}
	if IsAuth(NewGatewayError("rejected", ErrValidation)) {
		t.Error("IsAuth() = true for validation error")
	}
	if IsAuth(nil) {
		t.Error("IsAuth(nil) = true")
	}
}

func TestIsUserFacing(t *testing.T) {
	if !IsUserFacing(NewEditError("commit failed", nil)) {
		t.Error("IsUserFacing() = false for EditError")
	}
	if !IsUserFacing(NewValidationError("bad")) {
		t.Error("IsUserFacing() = false for ValidationError")
	}
	if IsUserFacing(errors.New("internal detail")) {
		t.Error("IsUserFacing() = true for plain error")
	}
	if IsUserFacing(nil) {
		t.Error("IsUserFacing(nil) = true")
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(nil); got != SeverityDebug {
		t.Errorf("GetSeverity(nil) = %v, want %v", got, SeverityDebug)
	}
	if got := GetSeverity(NewNotFoundError("node", "n1")); got != SeverityWarning {
		t.Errorf("GetSeverity(NotFound) = %v, want %v", got, SeverityWarning)
	}
	if got := GetSeverity(errors.New("boom")); got != SeverityError {
		t.Errorf("GetSeverity(plain) = %v, want %v", got, SeverityError)
	}
}

// -----------------------------------------------------------------------------
// Wrap Tests
// -----------------------------------------------------------------------------

func TestWrap(t *testing.T) {
	base := ErrNetwork
	err := Wrap(base, "saving field")

	if !errors.Is(err, ErrNetwork) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); got != "saving field: network failure" {
		t.Errorf("Error() = %q", got)
	}
	if Wrap(nil, "anything") != nil {
		t.Error("Wrap(nil) != nil")
	}
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrValidation, "saving field %s", "description")

	if !errors.Is(err, ErrValidation) {
		t.Error("wrapped error lost its cause")
	}
	if got := err.Error(); got != "saving field description: content rejected" {
		t.Errorf("Error() = %q", got)
	}
	if Wrapf(nil, "anything %d", 1) != nil {
		t.Error("Wrapf(nil) != nil")
	}
}
