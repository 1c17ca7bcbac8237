package mvfst

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yhcchaos/mvfst-old/internal/mocks"
	"github.com/yhcchaos/mvfst-old/internal/protocol"
	"github.com/yhcchaos/mvfst-old/logging"
)

// fakeBatchConn records what the writers hand to the socket layer.
type fakeBatchConn struct {
	gso bool

	packets   [][]byte
	gsoSizes  []int
	batches   [][][]byte
	batchGSOs [][]int

	writeErr error
}

var _ BatchConn = &fakeBatchConn{}

func (c *fakeBatchConn) SupportsGSO() bool { return c.gso }

func (c *fakeBatchConn) WritePacket(b []byte, _ net.Addr) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.packets = append(c.packets, b)
	c.gsoSizes = append(c.gsoSizes, 0)
	return len(b), nil
}

func (c *fakeBatchConn) WriteGSO(b []byte, segmentSize int, _ net.Addr) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.packets = append(c.packets, b)
	c.gsoSizes = append(c.gsoSizes, segmentSize)
	return len(b), nil
}

func (c *fakeBatchConn) WriteBatch(bufs [][]byte, _ net.Addr) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.batches = append(c.batches, bufs)
	return len(bufs), nil
}

func (c *fakeBatchConn) WriteBatchGSO(bufs [][]byte, segmentSizes []int, _ net.Addr) (int, error) {
	if c.writeErr != nil {
		return 0, c.writeErr
	}
	c.batches = append(c.batches, bufs)
	c.batchGSOs = append(c.batchGSOs, segmentSizes)
	return len(bufs), nil
}

var testAddr = &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 4433}

func TestSinglePacketWriterFlushesEveryPacket(t *testing.T) {
	conn := &fakeBatchConn{}
	w := NewBatchWriter(conn, BatchingModeNone, 16)
	require.True(t, w.Empty())
	require.True(t, w.Append([]byte("foobar"), 6))
	require.Equal(t, protocol.ByteCount(6), w.Size())
	_, err := w.Write(conn, testAddr)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("foobar")}, conn.packets)
}

func TestGSOWriterBatchesEqualSizes(t *testing.T) {
	conn := &fakeBatchConn{gso: true}
	w := NewBatchWriter(conn, BatchingModeGSO, 4)

	require.False(t, w.Append([]byte("aaaa"), 4))
	require.False(t, w.NeedsFlush(4))
	require.False(t, w.Append([]byte("bbbb"), 4))
	require.False(t, w.Append([]byte("cccc"), 4))
	// the fourth buffer fills the batch
	require.True(t, w.Append([]byte("dddd"), 4))
	require.Equal(t, protocol.ByteCount(16), w.Size())

	_, err := w.Write(conn, testAddr)
	require.NoError(t, err)
	require.Equal(t, []byte("aaaabbbbccccdddd"), conn.packets[0])
	require.Equal(t, 4, conn.gsoSizes[0])
}

func TestGSOWriterSmallerLastSegmentEndsBatch(t *testing.T) {
	conn := &fakeBatchConn{gso: true}
	w := NewBatchWriter(conn, BatchingModeGSO, 16)

	require.False(t, w.Append([]byte("aaaa"), 4))
	// a smaller segment is allowed, but ends the batch
	require.True(t, w.Append([]byte("bb"), 2))
	// anything else, the previous size included, needs a flush first
	require.True(t, w.NeedsFlush(4))
	require.True(t, w.NeedsFlush(2))
}

func TestGSOWriterLargerPacketNeedsFlush(t *testing.T) {
	conn := &fakeBatchConn{gso: true}
	w := NewBatchWriter(conn, BatchingModeGSO, 16)
	require.False(t, w.Append([]byte("aaaa"), 4))
	require.True(t, w.NeedsFlush(5))
	require.False(t, w.NeedsFlush(4))
}

func TestGSODowngradesWithoutKernelSupport(t *testing.T) {
	conn := &fakeBatchConn{gso: false}
	w := NewBatchWriter(conn, BatchingModeGSO, 4)
	// every append requires a flush, single-packet semantics
	require.True(t, w.Append([]byte("aaaa"), 4))

	w = NewBatchWriter(conn, BatchingModeSendmmsgGSO, 4)
	require.False(t, w.Append([]byte("aaaa"), 4))
	require.IsType(t, &sendmmsgPacketBatchWriter{}, w)
}

func TestSendmmsgWriterBatchesAnySizes(t *testing.T) {
	conn := &fakeBatchConn{}
	w := NewBatchWriter(conn, BatchingModeSendmmsg, 3)
	require.False(t, w.Append([]byte("a"), 1))
	require.False(t, w.Append([]byte("bbbb"), 4))
	require.True(t, w.Append([]byte("cc"), 2))
	require.Equal(t, protocol.ByteCount(7), w.Size())

	n, err := w.Write(conn, testAddr)
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.Len(t, conn.batches, 1)
	require.Len(t, conn.batches[0], 3)
}

func TestSendmmsgGSOWriterGroupsRuns(t *testing.T) {
	conn := &fakeBatchConn{gso: true}
	w := NewBatchWriter(conn, BatchingModeSendmmsgGSO, 16)

	// two full-size segments, then a smaller one: one GSO run
	require.False(t, w.Append([]byte("aaaa"), 4))
	require.False(t, w.Append([]byte("bbbb"), 4))
	require.False(t, w.Append([]byte("cc"), 2))
	// the next (bigger) packet starts a new run
	require.False(t, w.Append([]byte("dddd"), 4))
	require.Equal(t, protocol.ByteCount(14), w.Size())

	_, err := w.Write(conn, testAddr)
	require.NoError(t, err)
	require.Len(t, conn.batches, 1)
	require.Equal(t, [][]byte{[]byte("aaaabbbbcc"), []byte("dddd")}, conn.batches[0])
	require.Equal(t, []int{4, 0}, conn.batchGSOs[0])
}

func TestBatchWriterReset(t *testing.T) {
	conn := &fakeBatchConn{gso: true}
	for _, mode := range []BatchingMode{BatchingModeNone, BatchingModeGSO, BatchingModeSendmmsg, BatchingModeSendmmsgGSO} {
		w := NewBatchWriter(conn, mode, 4)
		w.Append([]byte("aaaa"), 4)
		w.Reset()
		require.True(t, w.Empty(), "mode %d", mode)
		require.Zero(t, w.Size(), "mode %d", mode)
	}
}

func TestIOBatchReportsWrites(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockTransportStatsCallback(ctrl)
	conn := &fakeBatchConn{}
	batch := NewIOBatch(NewBatchWriter(conn, BatchingModeSendmmsg, 4), conn, testAddr, stats)

	require.NoError(t, batch.Write([]byte("aaaa"), 4))
	require.NoError(t, batch.Write([]byte("bbbb"), 4))
	stats.EXPECT().OnWrite(8)
	require.NoError(t, batch.Flush())
	require.Equal(t, 2, batch.PacketsSent())
}

func TestIOBatchReportsSocketErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	stats := mocks.NewMockTransportStatsCallback(ctrl)
	conn := &fakeBatchConn{writeErr: errors.New("socket gone")}
	batch := NewIOBatch(NewBatchWriter(conn, BatchingModeNone, 1), conn, testAddr, stats)

	stats.EXPECT().OnUDPSocketWriteError(logging.SocketErrorOther)
	require.Error(t, batch.Write([]byte("aaaa"), 4))
}
