package l2cap

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/blelab/bluelink/pkg/hci"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// recvBufSize caps a single inbound message. 672 is the default L2CAP
// MTU.
const recvBufSize = 672

// Conn is one accepted or dialed channel connection. It wraps exactly
// one descriptor with single-owner semantics: concurrent use needs
// external synchronization.
type Conn struct {
	fd         int
	remote     hci.BDAddr
	remoteType hci.AddrType

	closeOnce sync.Once
	closeErr  error
}

func (c *Conn) RemoteAddr() hci.BDAddr {
	return c.remote
}

func (c *Conn) RemoteAddrType() hci.AddrType {
	return c.remoteType
}

// Recv blocks until the next inbound message and returns its exact
// bytes. An orderly close by the peer is reported as io.EOF, never as
// an empty message.
func (c *Conn) Recv() ([]byte, error) {
	buf := make([]byte, recvBufSize)
	n, err := unix.Read(c.fd, buf)
	if err != nil {
		return nil, fmt.Errorf("recv: %w", err)
	}
	if n == 0 {
		return nil, io.EOF
	}
	zap.L().Debug("l2cap read", zap.String("data", fmt.Sprintf("%x", buf[:n])))
	return buf[:n], nil
}

// Send writes the whole buffer. There is no retry loop: if the kernel
// accepts fewer bytes than requested the caller is told via
// ErrIncompleteSend.
func (c *Conn) Send(b []byte) error {
	zap.L().Debug("l2cap write", zap.String("data", fmt.Sprintf("%x", b)))
	n, err := unix.Write(c.fd, b)
	if err != nil {
		return fmt.Errorf("send: %w", err)
	}
	if n != len(b) {
		return fmt.Errorf("sent %d of %d bytes: %w", n, len(b), ErrIncompleteSend)
	}
	return nil
}

// SetRecvTimeout bounds subsequent Recv calls via SO_RCVTIMEO. Zero
// restores indefinite blocking.
func (c *Conn) SetRecvTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	if err := unix.SetsockoptTimeval(c.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
		return fmt.Errorf("set recv timeout: %w", err)
	}
	return nil
}

// Close releases the descriptor exactly once; further calls return
// the first result.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = unix.Close(c.fd)
	})
	return c.closeErr
}
