package beacon

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var testUUID = uuid.MustParse("e2c56db5-dffb-48d2-b060-d0f5a71096e0")

func TestEncodeMatchesReferenceFrame(t *testing.T) {
	power := int8(-29)
	p := Encode(testUUID, 1, 1, power)

	// Build the same frame independently, field by field.
	var want []byte
	want = append(want, 0x1A)       // AD length
	want = append(want, 0xFF)       // AD type: manufacturer specific
	want = append(want, 0x4C, 0x00) // company id, little-endian
	want = append(want, 0x02, 0x15) // beacon type
	want = append(want, testUUID[:]...)
	want = append(want, 0x00, 0x01) // major, big-endian
	want = append(want, 0x00, 0x01) // minor, big-endian
	want = append(want, byte(power)) // two's complement, 0xE3

	require.Equal(t, want, p[:])
}

func TestEncodeIsDeterministic(t *testing.T) {
	a := Encode(testUUID, 1234, 42, -59)
	b := Encode(testUUID, 1234, 42, -59)
	require.Equal(t, a, b)
}

func TestDeclaredLengthCoversFrame(t *testing.T) {
	cases := []struct {
		major, minor uint16
		power        int8
	}{
		{0, 0, 0},
		{1, 1, -29},
		{0xFFFF, 0xFFFF, 127},
		{0x0102, 0xFFFE, -128},
	}
	for _, tt := range cases {
		p := Encode(testUUID, tt.major, tt.minor, tt.power)
		// The AD length byte counts every byte that follows it.
		require.Equal(t, len(p)-1, int(p[0]))
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	p := Encode(testUUID, 31337, 42, -59)

	f, err := Decode(p[:])
	require.NoError(t, err)
	require.Equal(t, testUUID, f.ID)
	require.Equal(t, uint16(31337), f.Major)
	require.Equal(t, uint16(42), f.Minor)
	require.Equal(t, int8(-59), f.MeasuredPower)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	p := Encode(testUUID, 1, 1, -29)

	_, err := Decode(p[:PayloadSize-1])
	require.ErrorIs(t, err, ErrMalformedFrame)

	wrongType := p
	wrongType[1] = 0x09
	_, err = Decode(wrongType[:])
	require.ErrorIs(t, err, ErrMalformedFrame)

	wrongCompany := p
	wrongCompany[3] = 0x01
	_, err = Decode(wrongCompany[:])
	require.ErrorIs(t, err, ErrMalformedFrame)

	_, err = Decode(nil)
	require.ErrorIs(t, err, ErrMalformedFrame)
}

func TestPayloadMarshal(t *testing.T) {
	p := Encode(testUUID, 1, 2, -29)
	b, err := p.Marshal()
	require.NoError(t, err)
	require.Equal(t, p[:], b)
}
