package hci

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

var (
	// ErrAdapterNotFound is returned when no radio satisfies the
	// requested flag, predicate or address match.
	ErrAdapterNotFound = errors.New("hci: no matching adapter")

	// ErrDeviceNotSupported is returned when a listed device rejects
	// the predicate's control call with EOPNOTSUPP. This ends the
	// enumeration rather than skipping the device.
	ErrDeviceNotSupported = errors.New("hci: device does not support operation")
)

// Predicate is invoked for each device that passes the flag filter.
// It receives the enumeration's control socket and the device id
// under test.
type Predicate func(fd, id int) (bool, error)

// FindDevice walks the kernel's device list in kernel order and
// returns the id of the first device whose flag word passes flag and
// for which pred returns true. It returns -1 with a nil error when no
// device matches. The control socket it opens is closed on every
// path.
func FindDevice(flag DeviceFlag, pred Predicate) (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return -1, fmt.Errorf("open control socket: %w", err)
	}
	defer unix.Close(fd)

	devs, err := requestDeviceList(fd)
	if err != nil {
		return -1, err
	}
	return selectDevice(fd, devs, flag, pred)
}

func selectDevice(fd int, devs []deviceRequest, flag DeviceFlag, pred Predicate) (int, error) {
	for _, d := range devs {
		if flag != FlagAny && !flag.Test(d.Opt) {
			continue
		}
		ok, err := pred(fd, int(d.ID))
		if err != nil {
			if errors.Is(err, unix.EOPNOTSUPP) {
				return -1, ErrDeviceNotSupported
			}
			return -1, err
		}
		if ok {
			return int(d.ID), nil
		}
	}
	return -1, nil
}
