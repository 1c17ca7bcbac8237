package qerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransportErrorString(t *testing.T) {
	err := &TransportError{ErrorCode: ProtocolViolation, ErrorMessage: "foobar"}
	require.Equal(t, "PROTOCOL_VIOLATION (local): foobar", err.Error())

	err = &TransportError{ErrorCode: FlowControlError, Remote: true, FrameType: 0x8}
	require.Equal(t, "FLOW_CONTROL_ERROR (remote) (frame type: 0x8): FLOW_CONTROL_ERROR", err.Error())
}

func TestTransportErrorIs(t *testing.T) {
	err := NewLocalTransportError(InvalidMigration, "no spare connection id")
	require.True(t, errors.Is(err, &TransportError{ErrorCode: InvalidMigration}))
	require.False(t, errors.Is(err, &TransportError{ErrorCode: ProtocolViolation}))
}

func TestErrorCodeStrings(t *testing.T) {
	require.Equal(t, "FRAME_ENCODING_ERROR", FrameEncodingError.String())
	require.Equal(t, "INVALID_MIGRATION", InvalidMigration.String())
	require.Equal(t, "CRYPTO_ERROR (0x142)", TransportErrorCode(0x142).String())
	require.True(t, TransportErrorCode(0x142).IsCryptoError())
	require.False(t, ProtocolViolation.IsCryptoError())
}
