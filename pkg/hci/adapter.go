package hci

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// ErrNetworkDown is returned when an address is requested from a
// device whose Up flag is unset.
var ErrNetworkDown = errors.New("hci: device is down")

// Adapter owns one raw HCI control socket bound to a single radio.
// It is not safe for concurrent use; every operation blocks until the
// kernel completes it.
type Adapter struct {
	fd int
	id int

	closeOnce sync.Once
	closeErr  error
}

// OpenAdapter opens the first available radio, or the radio with the
// given address when addr is non-nil.
func OpenAdapter(addr *BDAddr) (*Adapter, error) {
	pred := func(fd, id int) (bool, error) { return true, nil }
	if addr != nil {
		want := *addr
		pred = func(fd, id int) (bool, error) {
			di, err := requestDeviceInfo(fd, uint16(id))
			if err != nil {
				return false, err
			}
			return di.Addr == want, nil
		}
	}
	id, err := FindDevice(FlagAny, pred)
	if err != nil {
		return nil, err
	}
	if id < 0 {
		return nil, ErrAdapterNotFound
	}
	return openAdapter(id)
}

func openAdapter(id int) (*Adapter, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return nil, fmt.Errorf("open control socket: %w", err)
	}
	if err := unix.SetsockoptString(fd, solHCI, hciFilter, string(eventFilter())); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("set event filter: %w", err)
	}
	sa := &unix.SockaddrHCI{Dev: uint16(id), Channel: unix.HCI_CHANNEL_RAW}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind to hci%d: %w", id, err)
	}
	return &Adapter{fd: fd, id: id}, nil
}

// ID returns the kernel device id of the bound radio.
func (a *Adapter) ID() int {
	return a.id
}

// ReadBDAddr queries the device's current address. The kernel is
// asked on every call so hardware state changes surface immediately.
// The address of a down device is not considered valid.
func (a *Adapter) ReadBDAddr() (BDAddr, error) {
	di, err := requestDeviceInfo(a.fd, uint16(a.id))
	if err != nil {
		return BDAddr{}, err
	}
	return bdaddrFromInfo(di)
}

func bdaddrFromInfo(di *DeviceInfo) (BDAddr, error) {
	if !FlagUp.Test(di.Flags) {
		return BDAddr{}, ErrNetworkDown
	}
	return di.Addr, nil
}

// Addr is the best-effort form of ReadBDAddr: it returns nil instead
// of an error when the radio is removed, down, or otherwise
// unavailable.
func (a *Adapter) Addr() *BDAddr {
	addr, err := a.ReadBDAddr()
	if err != nil {
		return nil
	}
	return &addr
}

// Close releases the control socket. The descriptor is closed exactly
// once; further calls return the first result.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = unix.Close(a.fd)
	})
	return a.closeErr
}
