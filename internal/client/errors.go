package client

import (
	"errors"
	"fmt"
)

// conflictBody is the exact text the service returns for a create against an
// existing name. It is an external contract; compare with equality only.
const conflictBody = "Blockade name already exists"

var ErrHostRequired = errors.New("client: host required")

// TransportError wraps a failure to complete the HTTP round trip. The
// request may or may not have reached the service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("client: transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError carries a non-2xx response. Body is the raw response text,
// which is the only failure detail the service provides.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("client: server status=%d body=%q", e.Status, e.Body)
}

// DecodeError wraps a 2xx response body that did not match the wire model.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("client: decode: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// IsNameConflict reports whether err is the service rejecting a create
// because the blockade name already exists. This is the one place the
// conflict body text is interpreted.
func IsNameConflict(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr) && serverErr.Body == conflictBody
}
