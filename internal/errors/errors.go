// Package errors provides centralized error definitions and error handling
// utilities for pwnflow-tui. It defines domain-specific errors, semantic
// error types, error constructors with context wrapping, and error
// classification helpers.
//
// # Error Types
//
// The package provides two categories of errors:
//
// Domain-specific errors represent errors from specific subsystems:
//   - EditError: errors related to edit session management
//   - GatewayError: errors returned by the persistence gateway (the
//     Pwnflow backend API)
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: content rejected by the backend or invalid input
//
// # Usage
//
// Creating errors:
//
//	// Domain-specific error
//	err := errors.NewEditError("commit failed", errors.ErrNetwork)
//	err = err.WithKey("n1/description")
//
//	// Gateway error carrying the HTTP status
//	err := errors.NewGatewayError("save rejected", errors.ErrValidation).WithStatusCode(422)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrAuthRequired) { ... }
//
//	var gwErr *errors.GatewayError
//	if errors.As(err, &gwErr) { ... }
//
//	if errors.IsRetryable(err) { ... }
//
// # Error Classification
//
// Errors can be classified by severity and behavior:
//   - Retryable: transient errors where a fresh user-initiated commit may
//     succeed (network failures, timeouts)
//   - UserFacing: errors safe to display in the status line
//   - Severity: Debug, Info, Warning, Error, Critical
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Edit-session sentinel errors
var (
	// ErrNoSession indicates that no edit session exists for a key.
	ErrNoSession = New("no edit session")
	// ErrCommitSuperseded indicates that a newer commit was issued for the
	// same key while this one was in flight.
	ErrCommitSuperseded = New("commit superseded")
	// ErrCommitInFlight indicates that a commit is currently pending for a key.
	ErrCommitInFlight = New("commit in flight")
)

// Gateway sentinel errors
var (
	// ErrNetwork indicates a transport-level failure talking to the backend.
	ErrNetwork = New("network failure")
	// ErrValidation indicates the backend rejected the submitted content.
	ErrValidation = New("content rejected")
	// ErrAuthRequired indicates the backend rejected the caller's credentials.
	ErrAuthRequired = New("authentication required")
	// ErrGatewayTimeout indicates the backend did not answer in time.
	ErrGatewayTimeout = New("gateway timed out")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// FlowError is the base interface for all pwnflow-tui errors.
// It extends the standard error interface with additional methods for
// error handling and classification.
type FlowError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and a fresh
	// user-initiated commit may succeed.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// EditError represents errors related to edit session management.
//
// Example:
//
//	err := errors.NewEditError("commit failed", errors.ErrNetwork)
//	err = err.WithKey("n1/description")
//	fmt.Println(err) // "edit error [key=n1/description]: commit failed: network failure"
type EditError struct {
	baseError
	Key string
}

// NewEditError creates a new EditError.
func NewEditError(message string, cause error) *EditError {
	return &EditError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithKey adds a session key to the error context.
func (e *EditError) WithKey(key string) *EditError {
	e.Key = key
	return e
}

// WithSeverity sets the error severity.
func (e *EditError) WithSeverity(s Severity) *EditError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *EditError) WithRetryable(r bool) *EditError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *EditError) Error() string {
	prefix := "edit error"
	if e.Key != "" {
		prefix = fmt.Sprintf("edit error [key=%s]", e.Key)
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *EditError) Is(target error) bool {
	if _, ok := target.(*EditError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// GatewayError represents errors returned by the persistence gateway.
//
// Example:
//
//	err := errors.NewGatewayError("save rejected", errors.ErrValidation)
//	err = err.WithStatusCode(422).WithEndpoint("PATCH /nodes/n1")
type GatewayError struct {
	baseError
	StatusCode int
	Endpoint   string
}

// NewGatewayError creates a new GatewayError.
// Errors caused by ErrNetwork or ErrGatewayTimeout are retryable by default.
func NewGatewayError(message string, cause error) *GatewayError {
	retryable := errors.Is(cause, ErrNetwork) || errors.Is(cause, ErrGatewayTimeout)
	return &GatewayError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  retryable,
			userFacing: true,
		},
	}
}

// WithStatusCode adds the HTTP status code to the error context.
func (e *GatewayError) WithStatusCode(code int) *GatewayError {
	e.StatusCode = code
	return e
}

// WithEndpoint adds the request endpoint to the error context.
func (e *GatewayError) WithEndpoint(endpoint string) *GatewayError {
	e.Endpoint = endpoint
	return e
}

// WithSeverity sets the error severity.
func (e *GatewayError) WithSeverity(s Severity) *GatewayError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *GatewayError) WithRetryable(r bool) *GatewayError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *GatewayError) Error() string {
	var parts []string
	if e.StatusCode != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if e.Endpoint != "" {
		parts = append(parts, fmt.Sprintf("endpoint=%s", e.Endpoint))
	}

	prefix := "gateway error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("gateway error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *GatewayError) Is(target error) bool {
	if _, ok := target.(*GatewayError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("node", "n1")
//	fmt.Println(err) // "node 'n1' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents content or input rejected as invalid.
//
// Example:
//
//	err := errors.NewValidationError("description exceeds size limit")
//	err = err.WithField("description")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) || errors.Is(target, ErrValidation) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable returns true if the error represents a transient condition
// where a fresh user-initiated commit may succeed. This checks for:
//   - Errors implementing FlowError with IsRetryable() returning true
//   - Errors wrapping ErrNetwork or ErrGatewayTimeout
//
// Note that "retryable" never means automatic retry: a retry is always a
// fresh user-initiated commit.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var flowErr FlowError
	if As(err, &flowErr) {
		return flowErr.IsRetryable()
	}

	if Is(err, ErrNetwork) || Is(err, ErrGatewayTimeout) {
		return true
	}

	return false
}

// IsAuth returns true if the error indicates the caller must
// re-authenticate before any further gateway call can succeed.
func IsAuth(err error) bool {
	return err != nil && Is(err, ErrAuthRequired)
}

// IsUserFacing returns true if the error message is safe to display to end
// users. This checks for:
//   - Errors implementing FlowError with IsUserFacing() returning true
//   - Semantic errors (NotFoundError, ValidationError)
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var flowErr FlowError
	if As(err, &flowErr) {
		return flowErr.IsUserFacing()
	}

	var notFound *NotFoundError
	var validation *ValidationError

	if As(err, &notFound) || As(err, &validation) {
		return true
	}

	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement FlowError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var flowErr FlowError
	if As(err, &flowErr) {
		return flowErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to save field")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "failed to save field %s", key)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
