package mvfst

import (
	"net"

	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/logging"
)

// An IOBatch couples a batch writer with its destination and reports write
// outcomes to the stats callback. One IOBatch lives for one write pass.
type IOBatch struct {
	writer BatchWriter
	conn   BatchConn
	addr   net.Addr
	stats  logging.TransportStatsCallback

	pktsSent int
}

// NewIOBatch creates a batch targeting addr.
func NewIOBatch(writer BatchWriter, conn BatchConn, addr net.Addr, stats logging.TransportStatsCallback) *IOBatch {
	if stats == nil {
		stats = logging.NopStatsCallback{}
	}
	return &IOBatch{writer: writer, conn: conn, addr: addr, stats: stats}
}

// Write buffers one datagram, flushing first if the batching constraints
// require it and afterwards if the batch is full.
func (b *IOBatch) Write(buf []byte, size protocol.ByteCount) error {
	if b.writer.NeedsFlush(size) {
		if err := b.Flush(); err != nil {
			return err
		}
	}
	needsFlush := b.writer.Append(buf, size)
	b.pktsSent++
	if needsFlush {
		return b.Flush()
	}
	return nil
}

// Flush sends everything buffered so far.
func (b *IOBatch) Flush() error {
	if b.writer.Empty() {
		return nil
	}
	size := b.writer.Size()
	if _, err := b.writer.Write(b.conn, b.addr); err != nil {
		b.stats.OnUDPSocketWriteError(logging.ErrnoToSocketErrorType(err))
		b.writer.Reset()
		return err
	}
	b.stats.OnWrite(int(size))
	b.writer.Reset()
	return nil
}

// PacketsSent is the number of datagrams handed to the batch so far.
func (b *IOBatch) PacketsSent() int {
	return b.pktsSent
}
