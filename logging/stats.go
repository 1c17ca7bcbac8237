// Package logging defines the observability interfaces of the transport.
package logging

import (
	"errors"

	"golang.org/x/sys/unix"
)

// PacketDropReason is the reason a packet was dropped before processing.
type PacketDropReason uint8

const (
	PacketDropNone PacketDropReason = iota
	PacketDropConnectionNotFound
	PacketDropDecryptionError
	PacketDropInvalidPacket
	PacketDropParseError
	PacketDropPeerAddressChange
	PacketDropProtocolViolation
	PacketDropRoutingErrorWrongHost
	PacketDropServerStateClosed
	PacketDropTransportParameterError
	PacketDropWorkerNotInitialized
	PacketDropServerShutdown
	PacketDropInitialConnIDSmall
)

func (r PacketDropReason) String() string {
	switch r {
	case PacketDropNone:
		return "NONE"
	case PacketDropConnectionNotFound:
		return "CONNECTION_NOT_FOUND"
	case PacketDropDecryptionError:
		return "DECRYPTION_ERROR"
	case PacketDropInvalidPacket:
		return "INVALID_PACKET"
	case PacketDropParseError:
		return "PARSE_ERROR"
	case PacketDropPeerAddressChange:
		return "PEER_ADDRESS_CHANGE"
	case PacketDropProtocolViolation:
		return "PROTOCOL_VIOLATION"
	case PacketDropRoutingErrorWrongHost:
		return "ROUTING_ERROR_WRONG_HOST"
	case PacketDropServerStateClosed:
		return "SERVER_STATE_CLOSED"
	case PacketDropTransportParameterError:
		return "TRANSPORT_PARAMETER_ERROR"
	case PacketDropWorkerNotInitialized:
		return "WORKER_NOT_INITIALIZED"
	case PacketDropServerShutdown:
		return "SERVER_SHUTDOWN"
	case PacketDropInitialConnIDSmall:
		return "INITIAL_CONNID_SMALL"
	default:
		return "UNKNOWN"
	}
}

// ConnectionCloseReason is the local reason a connection was closed.
type ConnectionCloseReason uint8

const (
	ConnectionCloseConnectionError ConnectionCloseReason = iota
	ConnectionCloseTimeout
	ConnectionClosePeerGoaway
	ConnectionCloseTransportError
	ConnectionCloseAppError
	ConnectionCloseShutdown
)

// SocketErrorType classifies UDP socket write errors.
type SocketErrorType uint8

const (
	SocketErrorAgain SocketErrorType = iota
	SocketErrorInval
	SocketErrorMsgSize
	SocketErrorNoBufs
	SocketErrorNoMem
	SocketErrorOther
)

func (t SocketErrorType) String() string {
	switch t {
	case SocketErrorAgain:
		return "AGAIN"
	case SocketErrorInval:
		return "INVAL"
	case SocketErrorMsgSize:
		return "MSGSIZE"
	case SocketErrorNoBufs:
		return "NOBUFS"
	case SocketErrorNoMem:
		return "NOMEM"
	default:
		return "OTHER"
	}
}

// ErrnoToSocketErrorType maps a socket write error to the error taxonomy.
func ErrnoToSocketErrorType(err error) SocketErrorType {
	switch {
	case errors.Is(err, unix.EAGAIN):
		return SocketErrorAgain
	case errors.Is(err, unix.EINVAL):
		return SocketErrorInval
	case errors.Is(err, unix.EMSGSIZE):
		return SocketErrorMsgSize
	case errors.Is(err, unix.ENOBUFS):
		return SocketErrorNoBufs
	case errors.Is(err, unix.ENOMEM):
		return SocketErrorNoMem
	default:
		return SocketErrorOther
	}
}

// A TransportStatsCallback receives counter callbacks for transport events.
// All methods are best-effort observational; no transport decision depends on
// them.
type TransportStatsCallback interface {
	OnPacketReceived()
	OnDuplicatedPacketReceived()
	OnOutOfOrderPacketReceived()
	OnPacketProcessed()
	OnPacketSent()
	OnPacketRetransmission()
	OnPacketDropped(reason PacketDropReason)
	OnPacketForwarded()
	OnForwardedPacketReceived()
	OnForwardedPacketProcessed()

	OnNewConnection()
	OnConnectionClose(reason *ConnectionCloseReason)

	OnNewQuicStream()
	OnQuicStreamClosed()
	OnQuicStreamReset()

	OnConnFlowControlUpdate()
	OnConnFlowControlBlocked()
	OnStatelessReset()
	OnStreamFlowControlUpdate()
	OnStreamFlowControlBlocked()
	OnCwndBlocked()

	OnPTO()

	OnRead(bufSize int)
	OnWrite(bufSize int)
	OnUDPSocketWriteError(errorType SocketErrorType)
}

// NopStatsCallback is a TransportStatsCallback that does nothing.
type NopStatsCallback struct{}

var _ TransportStatsCallback = NopStatsCallback{}

func (NopStatsCallback) OnPacketReceived()                        {}
func (NopStatsCallback) OnDuplicatedPacketReceived()              {}
func (NopStatsCallback) OnOutOfOrderPacketReceived()              {}
func (NopStatsCallback) OnPacketProcessed()                       {}
func (NopStatsCallback) OnPacketSent()                            {}
func (NopStatsCallback) OnPacketRetransmission()                  {}
func (NopStatsCallback) OnPacketDropped(PacketDropReason)         {}
func (NopStatsCallback) OnPacketForwarded()                       {}
func (NopStatsCallback) OnForwardedPacketReceived()               {}
func (NopStatsCallback) OnForwardedPacketProcessed()              {}
func (NopStatsCallback) OnNewConnection()                         {}
func (NopStatsCallback) OnConnectionClose(*ConnectionCloseReason) {}
func (NopStatsCallback) OnNewQuicStream()                         {}
func (NopStatsCallback) OnQuicStreamClosed()                      {}
func (NopStatsCallback) OnQuicStreamReset()                       {}
func (NopStatsCallback) OnConnFlowControlUpdate()                 {}
func (NopStatsCallback) OnConnFlowControlBlocked()                {}
func (NopStatsCallback) OnStatelessReset()                        {}
func (NopStatsCallback) OnStreamFlowControlUpdate()               {}
func (NopStatsCallback) OnStreamFlowControlBlocked()              {}
func (NopStatsCallback) OnCwndBlocked()                           {}
func (NopStatsCallback) OnPTO()                                   {}
func (NopStatsCallback) OnRead(int)                               {}
func (NopStatsCallback) OnWrite(int)                              {}
func (NopStatsCallback) OnUDPSocketWriteError(SocketErrorType)    {}
