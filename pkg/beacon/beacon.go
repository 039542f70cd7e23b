// Package beacon encodes and decodes iBeacon proximity frames as the
// manufacturer-specific AD structure the LE Set Advertising Data
// command carries.
package beacon

import (
	"encoding/binary"
	"errors"

	"github.com/google/uuid"
)

const (
	// CompanyIDApple is the assigned company identifier of the iBeacon
	// frame format.
	CompanyIDApple = 0x004C

	adLength = 0x1A // AD type byte plus 25 bytes of manufacturer data
	adType   = 0xFF // manufacturer specific data

	beaconTypeProximity = 0x0215

	// PayloadSize is the whole AD structure: length byte, type byte
	// and 25 bytes of manufacturer data.
	PayloadSize = 27
)

// Payload is one fully encoded iBeacon AD structure. It has no
// identity beyond its bytes.
type Payload [PayloadSize]byte

// Marshal returns the raw AD structure, satisfying the advertising
// data interface in pkg/hci.
func (p Payload) Marshal() ([]byte, error) {
	return p[:], nil
}

// Encode serializes an iBeacon frame. It is pure and deterministic;
// multi-byte numeric fields are big-endian per the iBeacon
// convention, while the company identifier keeps the little-endian
// order of the AD structure it sits in.
func Encode(id uuid.UUID, major, minor uint16, power int8) Payload {
	var p Payload
	p[0] = adLength
	p[1] = adType
	binary.LittleEndian.PutUint16(p[2:], CompanyIDApple)
	binary.BigEndian.PutUint16(p[4:], beaconTypeProximity)
	copy(p[6:22], id[:])
	binary.BigEndian.PutUint16(p[22:], major)
	binary.BigEndian.PutUint16(p[24:], minor)
	p[26] = byte(power)
	return p
}

// ErrMalformedFrame is returned when bytes cannot be interpreted as
// an iBeacon AD structure.
var ErrMalformedFrame = errors.New("beacon: malformed frame")

// Frame is a decoded iBeacon payload.
type Frame struct {
	ID    uuid.UUID
	Major uint16
	Minor uint16

	// MeasuredPower is the calibrated RSSI at one meter.
	MeasuredPower int8
}

// Decode parses an iBeacon AD structure, rejecting anything whose
// length or prefix bytes do not match the frame format.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) != PayloadSize || buf[0] != adLength || buf[1] != adType {
		return nil, ErrMalformedFrame
	}
	if binary.LittleEndian.Uint16(buf[2:]) != CompanyIDApple ||
		binary.BigEndian.Uint16(buf[4:]) != beaconTypeProximity {
		return nil, ErrMalformedFrame
	}
	f := &Frame{
		Major:         binary.BigEndian.Uint16(buf[22:]),
		Minor:         binary.BigEndian.Uint16(buf[24:]),
		MeasuredPower: int8(buf[26]),
	}
	copy(f.ID[:], buf[6:22])
	return f, nil
}
