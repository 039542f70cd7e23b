package hci

// DataType is an AD structure of an advertising payload.
type DataType interface {
	Marshal() ([]byte, error)
}

type Flags uint8

const (
	FlagLELimitedDiscoverable Flags = 1 << 0
	FlagLEGeneralDiscoverable Flags = 1 << 1
	FlagBREDRNotSupported     Flags = 1 << 2
)

func (f Flags) Marshal() ([]byte, error) {
	return []byte{0x02, 0x01, byte(f)}, nil
}

type CompleteLocalName string

func (l CompleteLocalName) Marshal() ([]byte, error) {
	return append([]byte{byte(len(l) + 1), 0x09}, []byte(l)...), nil
}

type ShortLocalName string

func (l ShortLocalName) Marshal() ([]byte, error) {
	return append([]byte{byte(len(l) + 1), 0x08}, []byte(l)...), nil
}
