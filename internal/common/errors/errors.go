// Package errors provides standardized error handling for the notification
// delivery pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Permanent, provider-specific. Never retried within the same provider.
	ErrCodeProviderRejected ErrorCode = "PROVIDER_REJECTED"

	// Transient. Retried with backoff, then cascaded to the next provider.
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"

	// A guarded call exceeded its deadline. Treated like PROVIDER_UNAVAILABLE.
	ErrCodeSendTimeout ErrorCode = "SEND_TIMEOUT"

	// Not an error outcome: the resolver produced no recipients on either side.
	ErrCodeNoRecipients ErrorCode = "NO_RECIPIENTS"

	// Provider disabled or missing credentials. Skipped, logged once at startup.
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"

	ErrCodeDirectoryLookupFailed ErrorCode = "DIRECTORY_LOOKUP_FAILED"
	ErrCodeTemplateRenderFailed  ErrorCode = "TEMPLATE_RENDER_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewProviderRejectedError creates a non-retryable delivery error for a
// permanent provider refusal (bad credentials, refused recipient).
func NewProviderRejectedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderRejected,
		Message:   "Provider rejected the message",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError creates a retryable delivery error for a
// transient transport failure (dial failure, handshake error, disconnect).
func NewProviderUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "Provider temporarily unavailable",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSendTimeoutError creates a retryable error for a guarded call that
// exceeded its deadline.
func NewSendTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSendTimeout,
		Message:   "Send attempt timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigurationInvalidError creates a non-retryable error for a provider
// that cannot be attempted at all.
func NewConfigurationInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "Provider configuration invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryLookupError wraps a staff directory failure. Retryable is
// false: the resolver degrades instead of failing the event.
func NewDirectoryLookupError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryLookupFailed,
		Message:   "Staff directory lookup failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether err carries a retryable StandardError.
// Unknown error types are considered transient so the cascade can apply
// its own budget rather than silently dropping them.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return true
}

// CodeOf extracts the ErrorCode from err, or empty when it is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}
