// Package l2cap exposes kernel L2CAP connection-oriented sockets
// scoped to a local radio address. The kernel runs the channel state
// machine; this package maps listen/accept/connect and blocking data
// exchange onto the raw socket calls.
package l2cap

import (
	"fmt"
	"sync"

	"github.com/blelab/bluelink/pkg/hci"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// btSecurity is the BT_SECURITY socket option from
// <bluetooth/bluetooth.h>; x/sys carries SOL_BLUETOOTH but not the
// option or its levels.
const btSecurity = 4

// SecurityLevel is the minimum security requirement negotiated for a
// channel. Values match the kernel's BT_SECURITY_* levels.
type SecurityLevel uint8

const (
	SecuritySDP    SecurityLevel = 0
	SecurityLow    SecurityLevel = 1
	SecurityMedium SecurityLevel = 2
	SecurityHigh   SecurityLevel = 3
	SecurityFIPS   SecurityLevel = 4
)

// Server is a listening channel socket bound to one local radio
// address.
type Server struct {
	fd int

	closeOnce sync.Once
	closeErr  error
}

// socketWithSecurity creates a channel socket and applies the
// requested security level before any bind or connect, so a rejected
// level fails fast.
func socketWithSecurity(sec SecurityLevel) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET|unix.SOCK_CLOEXEC, unix.BTPROTO_L2CAP)
	if err != nil {
		return -1, &SetupError{Step: "socket", Err: err}
	}
	// struct bt_security{level, key_size}; key_size 0 lets the kernel
	// pick.
	if err := unix.SetsockoptString(fd, unix.SOL_BLUETOOTH, btSecurity, string([]byte{byte(sec), 0})); err != nil {
		unix.Close(fd)
		return -1, &SetupError{Step: "security", Err: err}
	}
	return fd, nil
}

// Listen binds a channel socket to the local radio address and places
// it in listening mode.
func Listen(local hci.BDAddr, psm uint16, addrType hci.AddrType, sec SecurityLevel) (*Server, error) {
	fd, err := socketWithSecurity(sec)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrL2{PSM: psm, Addr: [6]byte(local), AddrType: uint8(addrType)}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &SetupError{Step: "bind", Err: err}
	}
	if err := unix.Listen(fd, 1); err != nil {
		unix.Close(fd)
		return nil, &SetupError{Step: "listen", Err: err}
	}
	return &Server{fd: fd}, nil
}

// Accept blocks until a peer connects and returns the connection with
// the peer's address and address type filled in. There is no built-in
// timeout. The listening socket stays open, so sequential Accept
// calls are valid.
func (s *Server) Accept() (*Conn, error) {
	nfd, _, err := unix.Accept(s.fd)
	if err != nil {
		return nil, fmt.Errorf("accept: %w", err)
	}
	c := &Conn{fd: nfd}
	sa, err := unix.Getpeername(nfd)
	if err != nil {
		unix.Close(nfd)
		return nil, fmt.Errorf("getpeername: %w", err)
	}
	if l2, ok := sa.(*unix.SockaddrL2); ok {
		c.remote = hci.BDAddr(l2.Addr)
		c.remoteType = hci.AddrType(l2.AddrType)
	}
	zap.L().Debug("l2cap accepted", zap.Stringer("peer", c.remote))
	return c, nil
}

// Close releases the listening socket exactly once.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = unix.Close(s.fd)
	})
	return s.closeErr
}

// Dial connects a channel socket to a remote peer.
func Dial(remote hci.BDAddr, psm uint16, addrType hci.AddrType, sec SecurityLevel) (*Conn, error) {
	fd, err := socketWithSecurity(sec)
	if err != nil {
		return nil, err
	}
	sa := &unix.SockaddrL2{PSM: psm, Addr: [6]byte(remote), AddrType: uint8(addrType)}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &SetupError{Step: "connect", Err: err}
	}
	return &Conn{fd: fd, remote: remote, remoteType: addrType}, nil
}
