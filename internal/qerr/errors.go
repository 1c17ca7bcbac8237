package qerr

import (
	"fmt"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// A TransportError is a transport-level error, closing the connection with the
// carried error code when it reaches the connection.
type TransportError struct {
	Remote       bool
	FrameType    uint64
	ErrorCode    TransportErrorCode
	ErrorMessage string
}

var _ error = &TransportError{}

// NewLocalTransportError creates a new TransportError for an error that
// originated locally.
func NewLocalTransportError(code TransportErrorCode, message string) *TransportError {
	return &TransportError{ErrorCode: code, ErrorMessage: message}
}

func (e *TransportError) Error() string {
	str := fmt.Sprintf("%s (%s)", e.ErrorCode.String(), getRole(e.Remote))
	if e.FrameType != 0 {
		str += fmt.Sprintf(" (frame type: %#x)", e.FrameType)
	}
	msg := e.ErrorMessage
	if len(msg) == 0 {
		msg = e.ErrorCode.String()
	}
	return str + ": " + msg
}

func (e *TransportError) Is(target error) bool {
	t, ok := target.(*TransportError)
	return ok && e.ErrorCode == t.ErrorCode && e.FrameType == t.FrameType && e.Remote == t.Remote
}

// An ApplicationError is an application-defined error, carried in a
// CONNECTION_CLOSE frame with the application bit set.
type ApplicationError struct {
	Remote       bool
	ErrorCode    protocol.ApplicationErrorCode
	ErrorMessage string
}

var _ error = &ApplicationError{}

func (e *ApplicationError) Error() string {
	if len(e.ErrorMessage) == 0 {
		return fmt.Sprintf("Application error %#x (%s)", uint64(e.ErrorCode), getRole(e.Remote))
	}
	return fmt.Sprintf("Application error %#x (%s): %s", uint64(e.ErrorCode), getRole(e.Remote), e.ErrorMessage)
}

func getRole(remote bool) string {
	if remote {
		return "remote"
	}
	return "local"
}
