package predict

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork covers transport failures, including context cancellation.
	ErrNetwork = errors.New("predict: network failure")
	// ErrStatus is matched by *StatusError for non-2xx replies.
	ErrStatus = errors.New("predict: unexpected status")
	// ErrMalformed reports a 2xx reply without a usable churn_prediction.
	ErrMalformed = errors.New("predict: malformed response")
)

// StatusError carries the status code of a non-2xx reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("predict: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("predict: unexpected status %d: %s", e.Code, e.Body)
}

// Is lets errors.Is(err, ErrStatus) match.
func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

// FailureKind names a class of prediction failure.
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureNetwork   FailureKind = "network"
	FailureStatus    FailureKind = "status"
	FailureMalformed FailureKind = "malformed"
)

// Kind classifies err. Errors outside the taxonomy are reported as network
// failures since they prevented a reply from being read.
func Kind(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrStatus):
		return FailureStatus
	case errors.Is(err, ErrMalformed):
		return FailureMalformed
	default:
		return FailureNetwork
	}
}
