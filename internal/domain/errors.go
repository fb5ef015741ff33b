package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotModified is returned by the gateway when an edit carries no change.
	ErrNotModified = errors.New("message is not modified")
	// ErrStateMismatch marks an event that does not fit the session state.
	ErrStateMismatch = errors.New("event does not match session state")
	// ErrIncompleteOptions is returned when a dimension has no value yet.
	ErrIncompleteOptions = errors.New("transform options are incomplete")
	// ErrOutOfOrder is returned when selections skip ahead of the dimension order.
	ErrOutOfOrder = errors.New("transform options supplied out of order")
	// ErrUnknownAction is returned for a callback token that cannot be parsed.
	ErrUnknownAction = errors.New("unknown action token")
	// ErrNoFile is returned when a download produced nothing on disk.
	ErrNoFile = errors.New("no file materialized")
)

// FlowControlWait is a mandated pause before an operation may be retried.
type FlowControlWait struct {
	Wait time.Duration
}

func (e *FlowControlWait) Error() string {
	return fmt.Sprintf("flow control: retry after %s", e.Wait)
}

// FetchError reports that the source media could not be materialized.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch source: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// TransformError reports a compression failure.
type TransformError struct {
	Err error
}

func (e *TransformError) Error() string { return "transform: " + e.Err.Error() }
func (e *TransformError) Unwrap() error { return e.Err }

// DeliveryError reports a failed final upload.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string { return "deliver: " + e.Err.Error() }
func (e *DeliveryError) Unwrap() error { return e.Err }
