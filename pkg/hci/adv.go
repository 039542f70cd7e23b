package hci

import (
	"encoding/binary"
	"errors"
	"io"
)

type AdvertisingType uint8

const (
	AdvertisingTypeConnectableUndirected    AdvertisingType = 0x00
	AdvertisingTypeConnectableDirected      AdvertisingType = 0x01
	AdvertisingTypeScannableUndirected      AdvertisingType = 0x02
	AdvertisingTypeNonConnectableUndirected AdvertisingType = 0x03
)

type OwnAddressType uint8

const (
	OwnAddressTypePublic OwnAddressType = 0x00
	OwnAddressTypeRandom OwnAddressType = 0x01
)

type AdvertisingChannelMap uint8

const (
	AdvertisingChannelMapChannel37 AdvertisingChannelMap = 0x01
	AdvertisingChannelMapChannel38 AdvertisingChannelMap = 0x02
	AdvertisingChannelMapChannel39 AdvertisingChannelMap = 0x04

	AdvertisingChannelMapDefault AdvertisingChannelMap = 0x07
)

type SetAdvertisingParametersRequest struct {
	AdvertisingIntervalMin uint16
	AdvertisingIntervalMax uint16
	AdvertisingType        AdvertisingType
	OwnAddressType         OwnAddressType
	PeerAddressType        AddrType
	PeerAddress            BDAddr
	AdvertisingChannelMap  AdvertisingChannelMap
	FilterPolicy           uint8
}

// SetAdvertisingParameters issues LE Set Advertising Parameters.
// Intervals are in 0.625ms units; zero values select the
// specification default of 0x0800.
func (a *Adapter) SetAdvertisingParameters(req *SetAdvertisingParametersRequest) error {
	if req.AdvertisingIntervalMin == 0 {
		req.AdvertisingIntervalMin = 0x0800
	}
	if req.AdvertisingIntervalMax == 0 {
		req.AdvertisingIntervalMax = 0x0800
	}
	if req.AdvertisingIntervalMin < 0x0020 || req.AdvertisingIntervalMin > 0x4000 {
		return errors.New("invalid advertising interval min")
	}
	if req.AdvertisingIntervalMax < 0x0020 || req.AdvertisingIntervalMax > 0x4000 {
		return errors.New("invalid advertising interval max")
	}
	if req.AdvertisingChannelMap == 0 {
		req.AdvertisingChannelMap = AdvertisingChannelMapDefault
	}

	params := make([]byte, 15)
	binary.LittleEndian.PutUint16(params[0:], req.AdvertisingIntervalMin)
	binary.LittleEndian.PutUint16(params[2:], req.AdvertisingIntervalMax)
	params[4] = byte(req.AdvertisingType)
	params[5] = byte(req.OwnAddressType)
	params[6] = byte(req.PeerAddressType)
	copy(params[7:], req.PeerAddress[:])
	params[13] = byte(req.AdvertisingChannelMap)
	params[14] = req.FilterPolicy
	return a.cmdOK(OpcodeLESetAdvertisingParameters, params)
}

// advertisingDataParams packs AD structures into the fixed 32-byte
// parameter block of LE Set Advertising Data.
func advertisingDataParams(data ...DataType) ([]byte, error) {
	var ads []byte
	for _, d := range data {
		ad, err := d.Marshal()
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad...)
	}
	if len(ads) > 31 {
		return nil, io.ErrShortWrite
	}
	params := make([]byte, 32)
	params[0] = byte(len(ads))
	copy(params[1:], ads)
	return params, nil
}

// SetAdvertisingData issues LE Set Advertising Data with the given AD
// structures. At most 31 bytes of advertising data fit in one frame.
func (a *Adapter) SetAdvertisingData(data ...DataType) error {
	params, err := advertisingDataParams(data...)
	if err != nil {
		return err
	}
	return a.cmdOK(OpcodeLESetAdvertisingData, params)
}

// SetAdvertisingEnable issues LE Set Advertising Enable.
func (a *Adapter) SetAdvertisingEnable(enable bool) error {
	params := []byte{0}
	if enable {
		params[0] = 1
	}
	return a.cmdOK(OpcodeLESetAdvertisingEnable, params)
}
