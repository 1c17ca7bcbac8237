package protocol

import "time"

// MaxPacketBufferSize is the maximum packet size the transport sends out in a
// single UDP datagram when PMTU discovery did not raise it.
const MaxPacketBufferSize ByteCount = 1252

// MinInitialPacketSize is the minimum size an Initial packet is padded to.
const MinInitialPacketSize ByteCount = 1200

// MaxPacketNumEncodingSize is the maximum length of the truncated packet number, in bytes.
const MaxPacketNumEncodingSize = 4

// PacketLenFieldSize is the size reserved in the long header for the length field.
// The length is filled in once the payload size is known, as a minimal-length
// varint: lengths below 64 take one byte, lengths above 16383 take four.
const PacketLenFieldSize = 2

// HeaderProtectionSampleSize is the number of ciphertext bytes the header
// protection mask is sampled from.
const HeaderProtectionSampleSize = 16

// MinHeaderProtectionBytes is the number of ciphertext bytes that must follow
// the truncated packet number so that the header protection sample is available.
const MinHeaderProtectionBytes = 4

// DefaultAckDelayExponent is the ack delay exponent used when the peer doesn't provide one.
const DefaultAckDelayExponent = 3

// DefaultWriteConnectionDataPacketsLimit is the default burst size of the connection writer.
const DefaultWriteConnectionDataPacketsLimit = 5

// DefaultPacingTimerTickInterval is the resolution of the pacing timer.
// An RTT below this disables pacing.
const DefaultPacingTimerTickInterval = time.Millisecond

// DefaultMinCwndInMss is the congestion window floor, in packets, handed to the
// pacing rate calculator.
const DefaultMinCwndInMss = 2

// DefaultActiveConnectionIDLimit is the default value of the
// active_connection_id_limit transport parameter.
const DefaultActiveConnectionIDLimit = 2

// MaxActiveConnectionIDs is the maximum number of connection IDs issued to the peer.
const MaxActiveConnectionIDs = 4

// TimerGranularity is the granularity of the loss and pacing timers.
const TimerGranularity = time.Millisecond
