package errors

import (
	"errors"
	"fmt"
)

var (
	ErrSyncInFlight   = errors.New("sync already in progress")
	ErrInvalidFormat  = errors.New("invalid file format")
	ErrEnqueueFailed  = errors.New("failed to persist offline entry")
	ErrUnresolvableID = errors.New("no canonical or legacy identifier present")
)

// Kind classifies a remote call outcome. It is the only error detail
// components outside the request executor are allowed to branch on.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindClientError  Kind = "client_error"
	KindServerError  Kind = "server_error"
	KindParseError   Kind = "parse_error"
	KindValidation   Kind = "validation_error"
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// RemoteError is the structured failure side of a response envelope.
type RemoteError struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Err.Error())
	}
	return string(e.Kind)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func NewRemoteError(kind Kind, status int, message string, err error) *RemoteError {
	return &RemoteError{Kind: kind, Status: status, Message: message, Err: err}
}

// KindOf extracts the classification from err. Validation errors map to
// KindValidation; anything unclassified is reported as a network failure.
func KindOf(err error) Kind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	var ve ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	return KindNetwork
}

// Retryable reports whether the executor may re-attempt the call in-process.
// Only transport-level failures qualify.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout:
		return true
	default:
		return false
	}
}

// Queueable reports whether a failed submission should fall back to the
// offline queue. Server-side and transport failures qualify; malformed
// requests and auth failures do not.
func Queueable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindTimeout, KindServerError, KindParseError:
		return true
	default:
		return false
	}
}
