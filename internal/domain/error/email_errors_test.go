package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPermanentEmailFailure(t *testing.T) {
	cause := errors.New("422 invalid to field")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "permanent", err: NewEmailError(ErrCodePermanentEmailFailure, "rejected", cause), want: true},
		{name: "bad template", err: NewEmailError(ErrCodeInvalidTemplate, "unknown template", ErrUnknownEmailTemplate), want: true},
		{name: "temporary", err: NewEmailError(ErrCodeTemporaryEmailFailure, "try later", cause), want: false},
		{name: "wrapped", err: fmt.Errorf("send: %w", NewEmailError(ErrCodePermanentEmailFailure, "rejected", nil)), want: true},
		{name: "plain error", err: cause, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPermanentEmailFailure(tt.err))
		})
	}
}

func TestEmailError_Message(t *testing.T) {
	err := NewEmailError(ErrCodeEmailQueueFailed, "failed to queue welcome email", errors.New("disk full"))
	assert.Equal(t, "failed to queue welcome email: disk full", err.Error())
	assert.Equal(t, "no cause", NewEmailError(ErrCodeEmailQueueFailed, "no cause", nil).Error())
}
