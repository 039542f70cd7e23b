package hci

// DeviceFlag is a bit number in a device's flag words, as reported by
// HCIGETDEVLIST/HCIGETDEVINFO.
type DeviceFlag int

const (
	FlagUp DeviceFlag = iota // HCI_UP
	FlagInit
	FlagRunning
	FlagPScan
	FlagIScan
	FlagAuth
	FlagEncrypt
	FlagInquiry
	FlagRaw
)

// FlagAny matches every device regardless of its flags.
const FlagAny DeviceFlag = -1

// testBit reports whether bit nr is set in a bit vector packed into
// 32-bit words. This mirrors the kernel's hci_test_bit addressing
// scheme: words[nr>>5] & 1<<(nr&31).
func testBit(nr int, words []uint32) bool {
	if nr < 0 || nr>>5 >= len(words) {
		return false
	}
	return words[nr>>5]&(1<<uint(nr&31)) != 0
}

// Test reports whether the flag is set in a single flag word.
func (f DeviceFlag) Test(opts uint32) bool {
	return testBit(int(f), []uint32{opts})
}
