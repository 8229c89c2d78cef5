package port

import (
	"errors"
	"fmt"
)

// Sentinel errors used across ports.
var (
	ErrRemoteAPI        = errors.New("remote api failure")
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrValidation       = errors.New("validation failed")
	ErrNothingToPublish = errors.New("nothing to publish")
)

// ErrorKind is the closed set of failures the pipeline surfaces to transports.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindRemoteAPI
	KindSessionNotFound
	KindSessionExpired
	KindValidation
	KindNothingToPublish
)

func (k ErrorKind) String() string {
	switch k {
	case KindRemoteAPI:
		return "remote_api_failure"
	case KindSessionNotFound:
		return "session_not_found"
	case KindSessionExpired:
		return "session_expired"
	case KindValidation:
		return "validation_failure"
	case KindNothingToPublish:
		return "nothing_to_publish"
	default:
		return "unknown"
	}
}

// KindOf classifies err by the sentinel in its chain.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrSessionNotFound):
		return KindSessionNotFound
	case errors.Is(err, ErrSessionExpired):
		return KindSessionExpired
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNothingToPublish):
		return KindNothingToPublish
	case errors.Is(err, ErrRemoteAPI):
		return KindRemoteAPI
	default:
		return KindUnknown
	}
}

// IsNotFound groups missing and expired sessions; callers regenerate a preview for both.
func IsNotFound(err error) bool {
	k := KindOf(err)
	return k == KindSessionNotFound || k == KindSessionExpired
}

// Validationf returns an ErrValidation wrapping a formatted reason.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RemoteError is a failed call against the repository host. The host's message is
// kept verbatim in Message.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *RemoteError) Error() string {
	msg := e.Op + " failed"
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both ErrRemoteAPI and the transport error, if any.
func (e *RemoteError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrRemoteAPI, e.Err}
	}
	return []error{ErrRemoteAPI}
}
