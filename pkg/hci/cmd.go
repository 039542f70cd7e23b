package hci

import (
	"encoding/binary"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	solHCI    = 0 // SOL_HCI
	hciFilter = 2 // HCI_FILTER

	packetTypeCommand = 0x01
	packetTypeEvent   = 0x04

	evtCommandComplete = 0x0E
	evtCommandStatus   = 0x0F
)

type Opcode uint16

const (
	OpcodeLESetAdvertisingParameters Opcode = 0x2006
	OpcodeLESetAdvertisingData       Opcode = 0x2008
	OpcodeLESetAdvertisingEnable     Opcode = 0x200A
)

// eventFilter builds a struct hci_filter image admitting the command
// response events: type_mask, event_mask[2], opcode.
func eventFilter() []byte {
	buf := make([]byte, 14)
	binary.NativeEndian.PutUint32(buf[0:], 1<<packetTypeEvent)
	binary.NativeEndian.PutUint32(buf[4:], 1<<evtCommandComplete|1<<evtCommandStatus)
	return buf
}

func marshalCommand(op Opcode, params []byte) []byte {
	buf := make([]byte, 4+len(params))
	buf[0] = packetTypeCommand
	binary.LittleEndian.PutUint16(buf[1:], uint16(op))
	buf[3] = byte(len(params))
	copy(buf[4:], params)
	return buf
}

// matchCommandComplete returns the return parameters of a Command
// Complete event for op, or false if buf is some other packet.
func matchCommandComplete(buf []byte, op Opcode) ([]byte, bool) {
	if len(buf) < 7 || buf[0] != packetTypeEvent || buf[1] != evtCommandComplete {
		return nil, false
	}
	if int(buf[2])+3 != len(buf) {
		return nil, false
	}
	if Opcode(binary.LittleEndian.Uint16(buf[4:])) != op {
		return nil, false
	}
	return buf[6:], true
}

// matchCommandStatus returns the status byte of a Command Status
// event for op, or false if buf is some other packet.
func matchCommandStatus(buf []byte, op Opcode) (uint8, bool) {
	if len(buf) != 7 || buf[0] != packetTypeEvent || buf[1] != evtCommandStatus || buf[2] != 4 {
		return 0, false
	}
	if Opcode(binary.LittleEndian.Uint16(buf[5:])) != op {
		return 0, false
	}
	return buf[3], true
}

// cmd writes one command packet and blocks until the controller
// answers for the same opcode: a Command Complete event yields its
// return parameters (status byte first), while a Command Status event
// with a non-zero status is surfaced as an error. Unrelated events
// admitted by the filter are discarded.
func (a *Adapter) cmd(op Opcode, params []byte) ([]byte, error) {
	out := marshalCommand(op, params)
	zap.L().Debug("hci write", zap.String("packet", fmt.Sprintf("%x", out)))
	n, err := unix.Write(a.fd, out)
	if err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}
	if n != len(out) {
		return nil, io.ErrShortWrite
	}

	buf := make([]byte, 258) // packet type + event header + 255 parameter bytes
	for {
		n, err := unix.Read(a.fd, buf)
		if err != nil {
			return nil, fmt.Errorf("read event: %w", err)
		}
		zap.L().Debug("hci read", zap.String("packet", fmt.Sprintf("%x", buf[:n])))
		if ret, ok := matchCommandComplete(buf[:n], op); ok {
			return ret, nil
		}
		if status, ok := matchCommandStatus(buf[:n], op); ok && status != 0 {
			return nil, fmt.Errorf("command 0x%04X rejected: status %#02x", uint16(op), status)
		}
	}
}

func (a *Adapter) cmdOK(op Opcode, params []byte) error {
	ret, err := a.cmd(op, params)
	if err != nil {
		return err
	}
	if len(ret) == 0 {
		return fmt.Errorf("command 0x%04X failed: empty return parameters", uint16(op))
	}
	if ret[0] != 0 {
		return fmt.Errorf("command 0x%04X failed: status %#02x", uint16(op), ret[0])
	}
	return nil
}
