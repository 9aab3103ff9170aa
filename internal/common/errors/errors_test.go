package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardError_Error(t *testing.T) {
	err := NewProviderRejectedError("mailbox does not exist")

	assert.Equal(t, "StandardError[PROVIDER_REJECTED]: Provider rejected the message", err.Error())
	assert.Equal(t, "mailbox does not exist", err.Details)
	assert.False(t, err.Timestamp.IsZero())
}

func TestRetryability(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		code      ErrorCode
	}{
		{
			name:      "provider rejection is permanent",
			err:       NewProviderRejectedError("550"),
			retryable: false,
			code:      ErrCodeProviderRejected,
		},
		{
			name:      "provider unavailability is transient",
			err:       NewProviderUnavailableError("connect refused"),
			retryable: true,
			code:      ErrCodeProviderUnavailable,
		},
		{
			name:      "timeout is transient",
			err:       NewSendTimeoutError("30s elapsed"),
			retryable: true,
			code:      ErrCodeSendTimeout,
		},
		{
			name:      "invalid configuration is permanent",
			err:       NewConfigurationInvalidError("missing host"),
			retryable: false,
			code:      ErrCodeConfigurationInvalid,
		},
		{
			name:      "directory failure is not retried by the caller",
			err:       NewDirectoryLookupError("query failed"),
			retryable: false,
			code:      ErrCodeDirectoryLookupFailed,
		},
		{
			name:      "wrapped standard error keeps its classification",
			err:       fmt.Errorf("sending: %w", NewProviderRejectedError("550")),
			retryable: false,
			code:      ErrCodeProviderRejected,
		},
		{
			name:      "unknown error defaults to transient",
			err:       fmt.Errorf("connection reset"),
			retryable: true,
			code:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
			assert.Equal(t, tt.code, CodeOf(tt.err))
		})
	}
}
