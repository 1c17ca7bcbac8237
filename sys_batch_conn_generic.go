//go:build !linux

package mvfst

import "net"

// udpBatchConn is the fallback for platforms without sendmmsg and UDP
// segmentation offload: batches degenerate into sequential writes.
type udpBatchConn struct {
	conn *net.UDPConn
}

var _ BatchConn = &udpBatchConn{}

// NewUDPBatchConn wraps a UDP socket for batched writes.
func NewUDPBatchConn(conn *net.UDPConn) BatchConn {
	return &udpBatchConn{conn: conn}
}

func (c *udpBatchConn) SupportsGSO() bool { return false }

func (c *udpBatchConn) WritePacket(b []byte, addr net.Addr) (int, error) {
	return c.conn.WriteTo(b, addr)
}

func (c *udpBatchConn) WriteGSO(b []byte, _ int, addr net.Addr) (int, error) {
	return c.conn.WriteTo(b, addr)
}

func (c *udpBatchConn) WriteBatch(bufs [][]byte, addr net.Addr) (int, error) {
	for i, buf := range bufs {
		if _, err := c.conn.WriteTo(buf, addr); err != nil {
			return i, err
		}
	}
	return len(bufs), nil
}

func (c *udpBatchConn) WriteBatchGSO(bufs [][]byte, _ []int, addr net.Addr) (int, error) {
	return c.WriteBatch(bufs, addr)
}
