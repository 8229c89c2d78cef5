package port

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	remote := &RemoteError{Op: "commit files", StatusCode: 422, Message: "Reference update failed"}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"plain", errors.New("boom"), KindUnknown},
		{"not found", ErrSessionNotFound, KindSessionNotFound},
		{"wrapped expired", fmt.Errorf("get: %w", ErrSessionExpired), KindSessionExpired},
		{"validation", Validationf("bad %s", "input"), KindValidation},
		{"nothing", ErrNothingToPublish, KindNothingToPublish},
		{"remote", remote, KindRemoteAPI},
		{"wrapped remote", fmt.Errorf("publish session: %w", remote), KindRemoteAPI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrSessionNotFound))
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", ErrSessionExpired)))
	assert.False(t, IsNotFound(ErrValidation))
	assert.False(t, IsNotFound(nil))
}

func TestRemoteError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &RemoteError{Op: "get commit", Err: cause}

	assert.ErrorIs(t, err, ErrRemoteAPI)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get commit failed: connection refused", err.Error())

	withStatus := &RemoteError{Op: "create tree", StatusCode: 404, Message: "Not Found"}
	assert.Equal(t, "create tree failed (404): Not Found", withStatus.Error())

	var target *RemoteError
	assert.True(t, errors.As(fmt.Errorf("wrap: %w", withStatus), &target))
	assert.Equal(t, 404, target.StatusCode)
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "validation_failure", KindValidation.String())
	assert.Equal(t, "session_expired", KindSessionExpired.String())
	assert.Equal(t, "unknown", ErrorKind(99).String())
}
