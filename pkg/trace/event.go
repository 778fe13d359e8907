package trace

import (
	"time"

	"github.com/fisa-project/fisa-go/pkg/address"
)

// Event represents one captured address operation.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the operation started (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID groups events captured by one Recorder (UUID).
	RunID string `cbor:"2,keyasint"`

	// Op identifies the operation performed.
	Op Op `cbor:"3,keyasint"`

	// Outcome indicates whether the operation accepted its input.
	Outcome Outcome `cbor:"4,keyasint"`

	// Input is the raw address text handed to a parse, or the rendered
	// text produced by a format.
	Input string `cbor:"5,keyasint"`

	// Elapsed is how long the operation took. Stored as nanoseconds.
	Elapsed time.Duration `cbor:"6,keyasint"`

	// Type-specific payload (exactly one is set).
	Address *AddressRecord `cbor:"7,keyasint,omitempty"` // Accepted operations
	Error   *ErrorRecord   `cbor:"8,keyasint,omitempty"` // Rejected parses
}

// Op identifies the operation an event captured.
type Op uint8

const (
	// OpParse indicates a string-to-address parse.
	OpParse Op = 0
	// OpFormat indicates an address-to-string render.
	OpFormat Op = 1
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpParse:
		return "PARSE"
	case OpFormat:
		return "FORMAT"
	default:
		return "UNKNOWN"
	}
}

// Outcome indicates whether the operation accepted its input.
type Outcome uint8

const (
	// OutcomeAccepted indicates the input was valid.
	OutcomeAccepted Outcome = 0
	// OutcomeRejected indicates the input was refused with a ParseError.
	OutcomeRejected Outcome = 1
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "ACCEPTED"
	case OutcomeRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// AddressRecord captures the fields of an accepted address.
type AddressRecord struct {
	// Canonical is the canonical rendering of the address.
	Canonical string `cbor:"1,keyasint"`

	// Board is the board index, if one was present. Not omitempty: a
	// present zero would encode empty and collapse to absent on decode.
	Board *uint32 `cbor:"2,keyasint"`

	// ManufacturerID is the USB vendor ID.
	ManufacturerID uint16 `cbor:"3,keyasint"`

	// ModelCode is the USB product ID.
	ModelCode uint16 `cbor:"4,keyasint"`

	// SerialNumber is the instrument serial number.
	SerialNumber string `cbor:"5,keyasint"`

	// InterfaceNumber is the USB interface number, if one was present.
	// Not omitempty for the same reason as Board.
	InterfaceNumber *uint16 `cbor:"6,keyasint"`

	// Instr indicates the INSTR resource-class marker was present.
	Instr bool `cbor:"7,keyasint,omitempty"`
}

// NewAddressRecord captures an address value into its trace form.
func NewAddressRecord(addr address.UsbAddress) *AddressRecord {
	rec := &AddressRecord{
		Canonical:      addr.String(),
		ManufacturerID: addr.ManufacturerID(),
		ModelCode:      addr.ModelCode(),
		SerialNumber:   addr.SerialNumber(),
		Instr:          addr.Instr(),
	}
	if board, ok := addr.Board(); ok {
		rec.Board = &board
	}
	if iface, ok := addr.InterfaceNumber(); ok {
		rec.InterfaceNumber = &iface
	}
	return rec
}

// ErrorRecord captures a rejected parse.
type ErrorRecord struct {
	// Kind is the grammar violation tag.
	Kind address.ErrorKind `cbor:"1,keyasint"`

	// Message is the rendered diagnostic.
	Message string `cbor:"2,keyasint"`

	// Found is the offending text, for kinds that carry one. A pointer
	// so an empty offending run stays distinct from no payload; not
	// omitempty so the empty run survives a CBOR round trip.
	Found *string `cbor:"3,keyasint"`

	// Span is the byte range of the offending run, for kinds that
	// carry one.
	Span *SpanRecord `cbor:"4,keyasint,omitempty"`

	// Missing lists the outstanding grammar elements, for incomplete
	// addresses.
	Missing string `cbor:"5,keyasint,omitempty"`
}

// SpanRecord is the byte range of an offending run.
type SpanRecord struct {
	Start int `cbor:"1,keyasint"`
	End   int `cbor:"2,keyasint"`
}

// NewErrorRecord captures a parse error into its trace form. Errors that
// did not come from Parse are recorded with their message only.
func NewErrorRecord(err error) *ErrorRecord {
	rec := &ErrorRecord{Message: err.Error()}

	switch e := err.(type) {
	case *address.PrefixError:
		rec.Kind = e.Kind()
		rec.Found = &e.Found
	case *address.NumberError:
		rec.Kind = e.Kind()
		rec.Found = &e.Found
		rec.Span = &SpanRecord{Start: e.Span.Start, End: e.Span.End}
	case *address.HexFormatError:
		rec.Kind = e.Kind()
		rec.Found = &e.Found
		rec.Span = &SpanRecord{Start: e.Span.Start, End: e.Span.End}
	case *address.IncompleteError:
		rec.Kind = e.Kind()
		rec.Missing = e.Missing
	case *address.InstrMarkerError:
		rec.Kind = e.Kind()
		rec.Found = &e.Found
		rec.Span = &SpanRecord{Start: e.Span.Start, End: e.Span.End}
	}
	return rec
}
