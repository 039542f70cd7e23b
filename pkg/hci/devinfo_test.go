package hci

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// deviceInfoBytes crafts a kernel hci_dev_info buffer field by field,
// independently of the decoder's offset constants where the kernel
// layout pins them.
func deviceInfoBytes(id uint16, name string, addr BDAddr, flags uint32) []byte {
	buf := make([]byte, devInfoSize)
	binary.NativeEndian.PutUint16(buf[0:], id)
	copy(buf[2:10], name)
	copy(buf[10:16], addr[:])
	binary.NativeEndian.PutUint32(buf[16:], flags)
	buf[20] = 0x01                                // type
	binary.NativeEndian.PutUint32(buf[32:], 0xcc18) // pkt_type
	binary.NativeEndian.PutUint16(buf[44:], 1021)   // acl_mtu
	binary.NativeEndian.PutUint16(buf[46:], 8)      // acl_pkts
	return buf
}

func TestStructureSizes(t *testing.T) {
	require.Equal(t, 132, devListSize)
	require.Equal(t, 92, devInfoSize)
	require.Equal(t, 8, devReqSize)
}

func TestDecodeDeviceInfo(t *testing.T) {
	addr := BDAddr{0x11, 0x22, 0x33, 0x44, 0x55, 0x66}
	di := decodeDeviceInfo(deviceInfoBytes(2, "hci2", addr, 1<<0|1<<2))

	require.Equal(t, uint16(2), di.ID)
	require.Equal(t, "hci2", di.Name)
	require.Equal(t, addr, di.Addr)
	require.True(t, FlagUp.Test(di.Flags))
	require.True(t, FlagRunning.Test(di.Flags))
	require.False(t, FlagIScan.Test(di.Flags))
	require.Equal(t, uint8(0x01), di.Type)
	require.Equal(t, uint32(0xcc18), di.PktType)
	require.Equal(t, uint16(1021), di.ACLMTU)
	require.Equal(t, uint16(8), di.ACLPkts)
}

func TestDecodeDeviceList(t *testing.T) {
	buf := make([]byte, devListSize)
	binary.NativeEndian.PutUint16(buf, 2)
	// first entry at offset 4: id 0, opt with Up set
	binary.NativeEndian.PutUint16(buf[4:], 0)
	binary.NativeEndian.PutUint32(buf[8:], 1<<0)
	// second entry: id 3, opt zero
	binary.NativeEndian.PutUint16(buf[12:], 3)
	binary.NativeEndian.PutUint32(buf[16:], 0)

	devs := decodeDeviceList(buf)
	require.Len(t, devs, 2)
	require.Equal(t, uint16(0), devs[0].ID)
	require.Equal(t, uint32(1), devs[0].Opt)
	require.Equal(t, uint16(3), devs[1].ID)
	require.Equal(t, uint32(0), devs[1].Opt)
}

func TestDecodeDeviceListCapsCount(t *testing.T) {
	buf := make([]byte, devListSize)
	binary.NativeEndian.PutUint16(buf, 500)
	require.Len(t, decodeDeviceList(buf), hciMaxDevices)
}
