package hci

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// BDAddr is a Bluetooth device address in kernel byte order, least
// significant byte first.
type BDAddr [6]byte

var errInvalidAddr = errors.New("hci: invalid bluetooth address")

// ParseBDAddr parses a colon-separated address such as
// "AA:BB:CC:DD:EE:FF". The kernel stores addresses reversed relative
// to their printed form.
func ParseBDAddr(s string) (BDAddr, error) {
	var a BDAddr
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return a, errInvalidAddr
	}
	for i := 0; i < 6; i++ {
		a[i] = hw[5-i]
	}
	return a, nil
}

func (a BDAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[5], a[4], a[3], a[2], a[1], a[0])
}

// AddrType says whether an address identifies a BR/EDR device or a LE
// public/random one. Values match the kernel's BDADDR_* constants.
type AddrType uint8

const (
	AddrTypeBREDR    AddrType = unix.BDADDR_BREDR
	AddrTypeLEPublic AddrType = unix.BDADDR_LE_PUBLIC
	AddrTypeLERandom AddrType = unix.BDADDR_LE_RANDOM
)

func (t AddrType) IsLE() bool {
	return t == AddrTypeLEPublic || t == AddrTypeLERandom
}

// LEAddrType returns the LE address type for a random or public
// address.
func LEAddrType(random bool) AddrType {
	if random {
		return AddrTypeLERandom
	}
	return AddrTypeLEPublic
}
