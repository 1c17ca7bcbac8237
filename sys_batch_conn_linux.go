//go:build linux

package mvfst

import (
	"net"
	"unsafe"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
	"golang.org/x/sys/unix"
)

// udpBatchConn implements BatchConn on a UDP socket, using sendmmsg via
// golang.org/x/net and UDP segmentation offload via a UDP_SEGMENT control
// message.
type udpBatchConn struct {
	conn *net.UDPConn

	pc4 *ipv4.PacketConn
	pc6 *ipv6.PacketConn

	supportsGSO bool
}

var _ BatchConn = &udpBatchConn{}

// NewUDPBatchConn wraps a UDP socket for batched writes.
func NewUDPBatchConn(conn *net.UDPConn) BatchConn {
	c := &udpBatchConn{conn: conn}
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok && addr.IP.To4() == nil {
		c.pc6 = ipv6.NewPacketConn(conn)
	} else {
		c.pc4 = ipv4.NewPacketConn(conn)
	}
	c.supportsGSO = probeGSO(conn)
	return c
}

// probeGSO checks if the kernel accepts the UDP_SEGMENT socket option.
func probeGSO(conn *net.UDPConn) bool {
	rawConn, err := conn.SyscallConn()
	if err != nil {
		return false
	}
	var serr error
	if err := rawConn.Control(func(fd uintptr) {
		_, serr = unix.GetsockoptInt(int(fd), unix.IPPROTO_UDP, unix.UDP_SEGMENT)
	}); err != nil {
		return false
	}
	return serr == nil
}

func (c *udpBatchConn) SupportsGSO() bool { return c.supportsGSO }

func (c *udpBatchConn) WritePacket(b []byte, addr net.Addr) (int, error) {
	return c.conn.WriteTo(b, addr)
}

func (c *udpBatchConn) WriteGSO(b []byte, segmentSize int, addr net.Addr) (int, error) {
	if segmentSize == 0 {
		return c.WritePacket(b, addr)
	}
	oob := appendUDPSegmentSizeMsg(nil, uint16(segmentSize))
	if udpAddr, ok := addr.(*net.UDPAddr); ok {
		n, _, err := c.conn.WriteMsgUDP(b, oob, udpAddr)
		return n, err
	}
	return c.conn.WriteTo(b, addr)
}

func (c *udpBatchConn) WriteBatch(bufs [][]byte, addr net.Addr) (int, error) {
	return c.writeBatch(bufs, nil, addr)
}

func (c *udpBatchConn) WriteBatchGSO(bufs [][]byte, segmentSizes []int, addr net.Addr) (int, error) {
	return c.writeBatch(bufs, segmentSizes, addr)
}

func (c *udpBatchConn) writeBatch(bufs [][]byte, segmentSizes []int, addr net.Addr) (int, error) {
	msgs := make([]ipv4.Message, len(bufs))
	for i, buf := range bufs {
		msgs[i] = ipv4.Message{Buffers: [][]byte{buf}, Addr: addr}
		if segmentSizes != nil && segmentSizes[i] > 0 {
			msgs[i].OOB = appendUDPSegmentSizeMsg(nil, uint16(segmentSizes[i]))
		}
	}
	if c.pc6 != nil {
		return c.pc6.WriteBatch(msgs, 0)
	}
	return c.pc4.WriteBatch(msgs, 0)
}

// appendUDPSegmentSizeMsg appends a UDP_SEGMENT control message carrying the
// GSO segment size.
func appendUDPSegmentSizeMsg(b []byte, size uint16) []byte {
	startLen := len(b)
	const dataLen = 2 // payload is a uint16
	b = append(b, make([]byte, unix.CmsgSpace(dataLen))...)
	h := (*unix.Cmsghdr)(unsafe.Pointer(&b[startLen]))
	h.Level = unix.IPPROTO_UDP
	h.Type = unix.UDP_SEGMENT
	h.SetLen(unix.CmsgLen(dataLen))

	offset := startLen + unix.CmsgSpace(0)
	*(*uint16)(unsafe.Pointer(&b[offset])) = size
	return b
}
