package hci

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Kernel structure layouts for the two device control calls. The
// kernel fills these in host byte order; sizes and offsets below
// include the compiler padding of the C definitions and must match
// them byte for byte.

// struct hci_dev_req { __u16 dev_id; __u32 dev_opt; }
const (
	devReqOffID  = 0
	devReqOffOpt = 4 // dev_opt is 4-byte aligned
	devReqSize   = 8
)

// struct hci_dev_list_req { __u16 dev_num; struct hci_dev_req dev_req[]; }
const (
	devListOffEntries = 4 // first entry is 4-byte aligned
	devListSize       = devListOffEntries + hciMaxDevices*devReqSize
)

// struct hci_dev_info
const (
	devInfoOffID       = 0
	devInfoOffName     = 2
	devInfoOffAddr     = 10
	devInfoOffFlags    = 16
	devInfoOffType     = 20
	devInfoOffFeatures = 21
	devInfoOffPktType  = 32 // padded to 4-byte alignment after features
	devInfoOffACLMTU   = 44
	devInfoOffStats    = 52
	devInfoSize        = devInfoOffStats + 10*4 // stats are ten __u32 counters
)

func init() {
	// The decoders below index with the constants above; a drift in
	// either direction would silently corrupt results.
	if devListSize != 132 || devInfoSize != 92 {
		panic("hci: kernel structure size mismatch")
	}
}

type deviceRequest struct {
	ID  uint16
	Opt uint32
}

// DeviceInfo is the decoded result of a HCIGETDEVINFO call.
type DeviceInfo struct {
	ID         uint16
	Name       string
	Addr       BDAddr
	Flags      uint32
	Type       uint8
	Features   [8]byte
	PktType    uint32
	LinkPolicy uint32
	LinkMode   uint32
	ACLMTU     uint16
	ACLPkts    uint16
	SCOMTU     uint16
	SCOPkts    uint16
}

func decodeDeviceList(buf []byte) []deviceRequest {
	n := int(binary.NativeEndian.Uint16(buf))
	if n > hciMaxDevices {
		n = hciMaxDevices
	}
	devs := make([]deviceRequest, n)
	for i := range devs {
		e := buf[devListOffEntries+i*devReqSize:]
		devs[i].ID = binary.NativeEndian.Uint16(e[devReqOffID:])
		devs[i].Opt = binary.NativeEndian.Uint32(e[devReqOffOpt:])
	}
	return devs
}

func decodeDeviceInfo(buf []byte) *DeviceInfo {
	di := &DeviceInfo{
		ID:         binary.NativeEndian.Uint16(buf[devInfoOffID:]),
		Flags:      binary.NativeEndian.Uint32(buf[devInfoOffFlags:]),
		Type:       buf[devInfoOffType],
		PktType:    binary.NativeEndian.Uint32(buf[devInfoOffPktType:]),
		LinkPolicy: binary.NativeEndian.Uint32(buf[devInfoOffPktType+4:]),
		LinkMode:   binary.NativeEndian.Uint32(buf[devInfoOffPktType+8:]),
		ACLMTU:     binary.NativeEndian.Uint16(buf[devInfoOffACLMTU:]),
		ACLPkts:    binary.NativeEndian.Uint16(buf[devInfoOffACLMTU+2:]),
		SCOMTU:     binary.NativeEndian.Uint16(buf[devInfoOffACLMTU+4:]),
		SCOPkts:    binary.NativeEndian.Uint16(buf[devInfoOffACLMTU+6:]),
	}
	name := buf[devInfoOffName : devInfoOffName+8]
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	di.Name = string(name)
	copy(di.Addr[:], buf[devInfoOffAddr:])
	copy(di.Features[:], buf[devInfoOffFeatures:])
	return di
}

func requestDeviceList(fd int) ([]deviceRequest, error) {
	buf := make([]byte, devListSize)
	binary.NativeEndian.PutUint16(buf, hciMaxDevices)
	if err := ioctl(uintptr(fd), hciGetDeviceList, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return nil, fmt.Errorf("get device list: %w", err)
	}
	return decodeDeviceList(buf), nil
}

func requestDeviceInfo(fd int, id uint16) (*DeviceInfo, error) {
	buf := make([]byte, devInfoSize)
	binary.NativeEndian.PutUint16(buf, id)
	if err := ioctl(uintptr(fd), hciGetDeviceInfo, uintptr(unsafe.Pointer(&buf[0]))); err != nil {
		return nil, fmt.Errorf("get device info: %w", err)
	}
	return decodeDeviceInfo(buf), nil
}
