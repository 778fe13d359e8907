package address

import (
	"fmt"
	"strconv"
	"strings"
)

// UsbAddress is the structured form of a VISA USB resource address. The
// zero value is not a valid address; values come from Parse or from New.
// UsbAddress is immutable and comparable, so values work as map keys and
// compare with ==.
type UsbAddress struct {
	board           uint32
	hasBoard        bool
	manufacturerID  uint16
	modelCode       uint16
	serialNumber    string
	interfaceNumber uint16
	hasInterface    bool
	instr           bool
}

// New assembles an address from its mandatory components. The serial
// number must be non-empty, or the rendered form will not parse back.
// Optional fields are added with WithBoard, WithInterface, and WithInstr.
func New(manufacturerID, modelCode uint16, serialNumber string) UsbAddress {
	return UsbAddress{
		manufacturerID: manufacturerID,
		modelCode:      modelCode,
		serialNumber:   serialNumber,
	}
}

// WithBoard returns a copy of the address with the board index set.
func (a UsbAddress) WithBoard(board uint32) UsbAddress {
	a.board = board
	a.hasBoard = true
	return a
}

// WithInterface returns a copy of the address with the USB interface
// number set.
func (a UsbAddress) WithInterface(interfaceNumber uint16) UsbAddress {
	a.interfaceNumber = interfaceNumber
	a.hasInterface = true
	return a
}

// WithInstr returns a copy of the address with the INSTR resource-class
// flag set or cleared.
func (a UsbAddress) WithInstr(instr bool) UsbAddress {
	a.instr = instr
	return a
}

// Board returns the board index and whether one was present in the
// address.
func (a UsbAddress) Board() (uint32, bool) {
	return a.board, a.hasBoard
}

// ManufacturerID returns the USB vendor ID of the instrument.
func (a UsbAddress) ManufacturerID() uint16 {
	return a.manufacturerID
}

// ModelCode returns the USB product ID of the instrument.
func (a UsbAddress) ModelCode() uint16 {
	return a.modelCode
}

// SerialNumber returns the instrument serial number. It is opaque text;
// the only character it can never contain is the field delimiter.
func (a UsbAddress) SerialNumber() string {
	return a.serialNumber
}

// InterfaceNumber returns the USB interface number and whether one was
// present in the address.
func (a UsbAddress) InterfaceNumber() (uint16, bool) {
	return a.interfaceNumber, a.hasInterface
}

// Instr reports whether the address carries the INSTR resource-class
// marker.
func (a UsbAddress) Instr() bool {
	return a.instr
}

// String renders the canonical spelling of the address: optional fields
// only when present, hex fields with a "0x" marker and uppercase digits,
// and the INSTR marker fully uppercased. Parsing the result yields a
// value equal to a.
func (a UsbAddress) String() string {
	var b strings.Builder
	b.WriteString("USB")
	if a.hasBoard {
		b.WriteString(strconv.FormatUint(uint64(a.board), 10))
	}
	fmt.Fprintf(&b, "::0x%X::0x%X::", a.manufacturerID, a.modelCode)
	b.WriteString(a.serialNumber)
	if a.hasInterface {
		b.WriteString("::")
		b.WriteString(strconv.FormatUint(uint64(a.interfaceNumber), 10))
	}
	if a.instr {
		b.WriteString("::INSTR")
	}
	return b.String()
}

// MarshalText renders the canonical form, letting UsbAddress embed
// directly in YAML and JSON documents.
func (a UsbAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses an address in place, replacing the receiver.
func (a *UsbAddress) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
