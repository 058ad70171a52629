package sqslisten

import (
	"errors"
	"fmt"
	"net"

	"github.com/aws/smithy-go"
)

// ErrorKind labels the failure category of a QueueError.
type ErrorKind string

const (
	// ErrNetwork covers connection, DNS and transport-level failures.
	ErrNetwork ErrorKind = "network"
	// ErrAccessDenied covers authentication and authorization failures.
	ErrAccessDenied ErrorKind = "access_denied"
	// ErrThrottled covers rate-limit responses from the queue service.
	ErrThrottled ErrorKind = "throttled"
	// ErrMalformedResponse covers responses the SDK could not deserialize.
	ErrMalformedResponse ErrorKind = "malformed_response"
	// ErrUnknown is everything else.
	ErrUnknown ErrorKind = "unknown"
)

// QueueError is the error type surfaced by a QueueClient. Receive failures
// reach the handler wrapped in one; delete failures are logged and absorbed
// by the listener loop.
type QueueError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *QueueError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *QueueError) Unwrap() error {
	return e.Cause
}

func newQueueError(op string, cause error) *QueueError {
	return &QueueError{
		Kind:    classifyError(cause),
		Message: op,
		Cause:   cause,
	}
}

func classifyError(err error) ErrorKind {
	var de *smithy.DeserializationError
	if errors.As(err, &de) {
		return ErrMalformedResponse
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		return classifyAPIErrorCode(ae.ErrorCode())
	}

	var ne net.Error
	if errors.As(err, &ne) {
		return ErrNetwork
	}

	return ErrUnknown
}

// classifyAPIErrorCode buckets the error codes SQS and the shared AWS auth
// layer are known to return. Codes outside these sets stay ErrUnknown.
func classifyAPIErrorCode(code string) ErrorKind {
	switch code {
	case "AccessDenied", "AccessDeniedException",
		"InvalidClientTokenId", "UnrecognizedClientException",
		"MissingAuthenticationToken", "ExpiredToken",
		"InvalidSecurityToken", "SignatureDoesNotMatch":
		return ErrAccessDenied
	case "Throttling", "ThrottlingException", "ThrottledException",
		"RequestThrottled", "RequestThrottledException",
		"TooManyRequestsException", "RequestLimitExceeded", "OverLimit":
		return ErrThrottled
	default:
		return ErrUnknown
	}
}
