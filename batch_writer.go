package mvfst

import (
	"net"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
)

// BatchingMode selects how outbound datagrams are coalesced.
type BatchingMode uint8

const (
	// BatchingModeNone writes one datagram per syscall.
	BatchingModeNone BatchingMode = iota
	// BatchingModeGSO hands one buffer of equally-sized segments to the kernel.
	BatchingModeGSO
	// BatchingModeSendmmsg writes a batch of independent datagrams.
	BatchingModeSendmmsg
	// BatchingModeSendmmsgGSO writes a batch of GSO runs.
	BatchingModeSendmmsgGSO
)

// A BatchConn is the socket surface the batch writer needs. The event loop
// owns the socket; the writer only borrows it per flush.
type BatchConn interface {
	// WritePacket writes a single datagram.
	WritePacket(b []byte, addr net.Addr) (int, error)
	// WriteGSO writes one buffer the kernel splits into segmentSize'd datagrams.
	WriteGSO(b []byte, segmentSize int, addr net.Addr) (int, error)
	// WriteBatch writes independent datagrams with a single syscall.
	// It returns the number of datagrams written.
	WriteBatch(bufs [][]byte, addr net.Addr) (int, error)
	// WriteBatchGSO writes a batch of GSO runs. A segment size of 0 means the
	// corresponding buffer is a single datagram.
	WriteBatchGSO(bufs [][]byte, segmentSizes []int, addr net.Addr) (int, error)
	// SupportsGSO says if the kernel accepts UDP_SEGMENT on this socket.
	SupportsGSO() bool
}

// A BatchWriter accumulates outbound datagrams and flushes them according to
// its batching mode.
type BatchWriter interface {
	Empty() bool
	// Size is the number of bytes currently buffered.
	Size() protocol.ByteCount
	// Append buffers one datagram. A true return means the batch is full and
	// the caller must flush before the next append.
	Append(buf []byte, size protocol.ByteCount) bool
	// NeedsFlush says if appending a datagram of the given size would violate
	// the batching constraints.
	NeedsFlush(size protocol.ByteCount) bool
	// Write flushes the buffered datagrams to addr.
	Write(conn BatchConn, addr net.Addr) (int, error)
	// Reset drops the buffered state without sending.
	Reset()
}

// NewBatchWriter creates the writer for the requested mode. GSO modes degrade
// to their non-GSO equivalent when the kernel doesn't support UDP_SEGMENT.
func NewBatchWriter(conn BatchConn, mode BatchingMode, batchSize int) BatchWriter {
	switch mode {
	case BatchingModeNone:
		return &singlePacketBatchWriter{}
	case BatchingModeGSO:
		if conn.SupportsGSO() {
			return &gsoPacketBatchWriter{maxBufs: batchSize}
		}
		return &singlePacketBatchWriter{}
	case BatchingModeSendmmsg:
		return &sendmmsgPacketBatchWriter{maxBufs: batchSize}
	case BatchingModeSendmmsgGSO:
		if conn.SupportsGSO() {
			return &sendmmsgGSOPacketBatchWriter{maxBufs: batchSize}
		}
		return &sendmmsgPacketBatchWriter{maxBufs: batchSize}
	default:
		return &singlePacketBatchWriter{}
	}
}

// singlePacketBatchWriter is the no-batching strategy.
type singlePacketBatchWriter struct {
	buf  []byte
	size protocol.ByteCount
}

var _ BatchWriter = &singlePacketBatchWriter{}

func (w *singlePacketBatchWriter) Empty() bool                        { return w.buf == nil }
func (w *singlePacketBatchWriter) Size() protocol.ByteCount           { return w.size }
func (w *singlePacketBatchWriter) NeedsFlush(protocol.ByteCount) bool { return false }

func (w *singlePacketBatchWriter) Append(buf []byte, size protocol.ByteCount) bool {
	w.buf = buf
	w.size = size
	// needs to be flushed
	return true
}

func (w *singlePacketBatchWriter) Write(conn BatchConn, addr net.Addr) (int, error) {
	return conn.WritePacket(w.buf, addr)
}

func (w *singlePacketBatchWriter) Reset() {
	w.buf = nil
	w.size = 0
}

// gsoPacketBatchWriter accumulates equally-sized segments into one buffer.
// A smaller last segment is allowed, but ends the batch.
type gsoPacketBatchWriter struct {
	maxBufs  int
	buf      []byte
	currBufs int
	currSize protocol.ByteCount
	prevSize protocol.ByteCount
	// set once a shorter segment ended the run; only the last segment may be
	// shorter than the others
	runEnded bool
}

var _ BatchWriter = &gsoPacketBatchWriter{}

func (w *gsoPacketBatchWriter) Empty() bool              { return w.currBufs == 0 }
func (w *gsoPacketBatchWriter) Size() protocol.ByteCount { return w.currSize }

func (w *gsoPacketBatchWriter) NeedsFlush(size protocol.ByteCount) bool {
	// a buffer bigger than the previous one cannot be part of the same GSO
	// run, and neither can anything following a shorter last segment
	return w.prevSize != 0 && (size > w.prevSize || w.runEnded)
}

func (w *gsoPacketBatchWriter) Append(buf []byte, size protocol.ByteCount) bool {
	// first buffer
	if w.currBufs == 0 {
		w.buf = append(w.buf, buf...)
		w.prevSize = size
		w.currSize = size
		w.currBufs = 1
		return false // continue
	}

	w.buf = append(w.buf, buf...)
	w.currSize += size
	w.currBufs++

	// a smaller segment ends the run
	if size != w.prevSize {
		w.runEnded = true
		return true
	}

	return w.currBufs == w.maxBufs
}

func (w *gsoPacketBatchWriter) Write(conn BatchConn, addr net.Addr) (int, error) {
	if w.currBufs > 1 {
		return conn.WriteGSO(w.buf, int(w.prevSize), addr)
	}
	return conn.WritePacket(w.buf, addr)
}

func (w *gsoPacketBatchWriter) Reset() {
	w.buf = nil
	w.currBufs = 0
	w.currSize = 0
	w.prevSize = 0
	w.runEnded = false
}

// sendmmsgPacketBatchWriter accumulates up to maxBufs independent datagrams.
type sendmmsgPacketBatchWriter struct {
	maxBufs  int
	bufs     [][]byte
	currSize protocol.ByteCount
}

var _ BatchWriter = &sendmmsgPacketBatchWriter{}

func (w *sendmmsgPacketBatchWriter) Empty() bool                        { return w.currSize == 0 }
func (w *sendmmsgPacketBatchWriter) Size() protocol.ByteCount           { return w.currSize }
func (w *sendmmsgPacketBatchWriter) NeedsFlush(protocol.ByteCount) bool { return false }

func (w *sendmmsgPacketBatchWriter) Append(buf []byte, size protocol.ByteCount) bool {
	w.bufs = append(w.bufs, buf)
	w.currSize += size
	return len(w.bufs) == w.maxBufs
}

func (w *sendmmsgPacketBatchWriter) Write(conn BatchConn, addr net.Addr) (int, error) {
	if len(w.bufs) == 1 {
		return conn.WritePacket(w.bufs[0], addr)
	}
	n, err := conn.WriteBatch(w.bufs, addr)
	if err != nil {
		return n, err
	}
	if n == len(w.bufs) {
		return int(w.currSize), nil
	}
	// partial write: report something different from currSize
	return 0, nil
}

func (w *sendmmsgPacketBatchWriter) Reset() {
	w.bufs = nil
	w.currSize = 0
}

// sendmmsgGSOPacketBatchWriter accumulates up to maxBufs datagrams grouped
// into GSO runs, each run following the GSO size constraints.
type sendmmsgGSOPacketBatchWriter struct {
	maxBufs  int
	bufs     [][]byte
	gso      []int
	currBufs int
	currSize protocol.ByteCount
	prevSize protocol.ByteCount
}

var _ BatchWriter = &sendmmsgGSOPacketBatchWriter{}

func (w *sendmmsgGSOPacketBatchWriter) Empty() bool                        { return w.currSize == 0 }
func (w *sendmmsgGSOPacketBatchWriter) Size() protocol.ByteCount           { return w.currSize }
func (w *sendmmsgGSOPacketBatchWriter) NeedsFlush(protocol.ByteCount) bool { return false }

func (w *sendmmsgGSOPacketBatchWriter) Append(buf []byte, size protocol.ByteCount) bool {
	w.currSize += size
	// a bigger buffer starts a new run
	if size > w.prevSize {
		w.bufs = append(w.bufs, buf)
		// the segment size changes to non-zero once the run gets a second element
		w.gso = append(w.gso, 0)
		w.prevSize = size
		w.currBufs++
		return w.currBufs == w.maxBufs
	}

	w.gso[len(w.gso)-1] = int(w.prevSize)
	w.bufs[len(w.bufs)-1] = append(w.bufs[len(w.bufs)-1], buf...)
	w.currBufs++

	if w.currBufs == w.maxBufs {
		return true
	}

	if size < w.prevSize {
		// a smaller segment ends the run; the next append starts a new one
		w.prevSize = 0
	}
	return false
}

func (w *sendmmsgGSOPacketBatchWriter) Write(conn BatchConn, addr net.Addr) (int, error) {
	if len(w.bufs) == 1 {
		if w.currBufs > 1 {
			return conn.WriteGSO(w.bufs[0], w.gso[0], addr)
		}
		return conn.WritePacket(w.bufs[0], addr)
	}
	n, err := conn.WriteBatchGSO(w.bufs, w.gso, addr)
	if err != nil {
		return n, err
	}
	if n == len(w.bufs) {
		return int(w.currSize), nil
	}
	// partial write: report something different from currSize
	return 0, nil
}

func (w *sendmmsgGSOPacketBatchWriter) Reset() {
	w.bufs = nil
	w.gso = nil
	w.currBufs = 0
	w.currSize = 0
	w.prevSize = 0
}
