package hci

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalCommand(t *testing.T) {
	buf := marshalCommand(OpcodeLESetAdvertisingEnable, []byte{0x01})
	require.Equal(t, []byte{0x01, 0x0A, 0x20, 0x01, 0x01}, buf)
}

func TestMatchCommandComplete(t *testing.T) {
	// event packet: type, event code, parameter length, num packets,
	// opcode, status
	evt := []byte{0x04, 0x0E, 0x04, 0x01, 0x08, 0x20, 0x00}

	ret, ok := matchCommandComplete(evt, OpcodeLESetAdvertisingData)
	require.True(t, ok)
	require.Equal(t, []byte{0x00}, ret)

	_, ok = matchCommandComplete(evt, OpcodeLESetAdvertisingEnable)
	require.False(t, ok, "opcode mismatch must not match")

	_, ok = matchCommandComplete(evt[:6], OpcodeLESetAdvertisingData)
	require.False(t, ok, "truncated event must not match")
}

func TestMatchCommandStatus(t *testing.T) {
	// event packet: type, event code, parameter length, status, num
	// packets, opcode
	evt := []byte{0x04, 0x0F, 0x04, 0x0C, 0x01, 0x08, 0x20}

	status, ok := matchCommandStatus(evt, OpcodeLESetAdvertisingData)
	require.True(t, ok)
	require.Equal(t, uint8(0x0C), status)

	_, ok = matchCommandStatus(evt, OpcodeLESetAdvertisingEnable)
	require.False(t, ok, "opcode mismatch must not match")

	_, ok = matchCommandStatus(evt[:6], OpcodeLESetAdvertisingData)
	require.False(t, ok, "truncated event must not match")
}

func TestEventFilterShape(t *testing.T) {
	f := eventFilter()
	// struct hci_filter is 14 bytes: type_mask, event_mask[2], opcode.
	require.Len(t, f, 14)
}

func TestDataTypeMarshal(t *testing.T) {
	cases := []struct {
		data DataType
		want []byte
	}{
		{FlagLEGeneralDiscoverable | FlagBREDRNotSupported, []byte{0x02, 0x01, 0x06}},
		{CompleteLocalName("beacon"), []byte{0x07, 0x09, 'b', 'e', 'a', 'c', 'o', 'n'}},
		{ShortLocalName("bcn"), []byte{0x04, 0x08, 'b', 'c', 'n'}},
	}
	for _, tt := range cases {
		got, err := tt.data.Marshal()
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}

func TestAdvertisingDataParams(t *testing.T) {
	params, err := advertisingDataParams(FlagLEGeneralDiscoverable | FlagBREDRNotSupported)
	require.NoError(t, err)
	require.Len(t, params, 32)
	require.Equal(t, byte(3), params[0])
	require.Equal(t, []byte{0x02, 0x01, 0x06}, params[1:4])

	_, err = advertisingDataParams(CompleteLocalName("this name is far too long to fit in one frame"))
	require.Error(t, err)
}
