package address

import "fmt"

// ErrorKind identifies which grammar violation a parse error reports.
type ErrorKind uint8

const (
	// KindNotUsbPrefix reports input that does not open with "USB".
	KindNotUsbPrefix ErrorKind = iota + 1
	// KindNumberParseFailure reports a board, interface, or hex field
	// whose accumulated text is not a number of the required base and
	// width.
	KindNumberParseFailure
	// KindNotHexFormat reports a manufacturer ID or model code missing
	// its leading "0x" marker.
	KindNotHexFormat
	// KindIncompleteAddress reports input that ended before all
	// mandatory fields were seen.
	KindIncompleteAddress
	// KindUnexpectedInstrMarker reports trailing text where only the
	// INSTR marker is allowed.
	KindUnexpectedInstrMarker
)

// String returns the stable tag for the kind, used in trace records and
// test corpora.
func (k ErrorKind) String() string {
	switch k {
	case KindNotUsbPrefix:
		return "NOT_USB_PREFIX"
	case KindNumberParseFailure:
		return "NUMBER_PARSE_FAILURE"
	case KindNotHexFormat:
		return "NOT_HEX_FORMAT"
	case KindIncompleteAddress:
		return "INCOMPLETE_ADDRESS"
	case KindUnexpectedInstrMarker:
		return "UNEXPECTED_INSTR_MARKER"
	default:
		return "UNKNOWN"
	}
}

// ParseError is implemented by every error returned from Parse. The
// dynamic type is always one of PrefixError, NumberError, HexFormatError,
// IncompleteError, or InstrMarkerError; Kind distinguishes them without a
// type switch.
type ParseError interface {
	error
	// Kind reports which grammar violation occurred.
	Kind() ErrorKind
}

// Span marks a byte range within the input being parsed. Start is the
// offset where the offending field began. End is the offset at which
// scanning stopped: the closing delimiter's offset when the run ended at
// a "::", or the offset of the final byte when the input ran out.
type Span struct {
	Start int
	End   int
}

// PrefixError reports input whose first three bytes are not "USB". Found
// holds those bytes, or the whole input when it is shorter than three.
type PrefixError struct {
	Found string
}

func (e *PrefixError) Error() string {
	return fmt.Sprintf("Expected \"USB\" at address start, found %q", e.Found)
}

// Kind returns KindNotUsbPrefix.
func (e *PrefixError) Kind() ErrorKind { return KindNotUsbPrefix }

// NumberError reports a field that should have parsed as a number but did
// not: a non-decimal board or interface, a hex field with bad digits, or
// a value outside the field's width. Err holds the *strconv.NumError from
// the failed conversion.
type NumberError struct {
	Found string
	Addr  string
	Span  Span
	Err   error
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("Found %q instead of a number at position %d to %d of \n%q",
		e.Found, e.Span.Start, e.Span.End, e.Addr)
}

// Kind returns KindNumberParseFailure.
func (e *NumberError) Kind() ErrorKind { return KindNumberParseFailure }

// Unwrap exposes the underlying conversion error so that errors.Is can
// match strconv.ErrSyntax or strconv.ErrRange.
func (e *NumberError) Unwrap() error { return e.Err }

// HexFormatError reports a manufacturer ID or model code that does not
// open with the "0x" marker. Found holds the field text from the first
// violating character onward.
type HexFormatError struct {
	Found string
	Addr  string
	Span  Span
}

func (e *HexFormatError) Error() string {
	return fmt.Sprintf("Invalid hexidecimal number: %q at position %d to %d in\n %q\nNumber must start with '0x'",
		e.Found, e.Span.Start, e.Span.End, e.Addr)
}

// Kind returns KindNotHexFormat.
func (e *HexFormatError) Kind() ErrorKind { return KindNotHexFormat }

// IncompleteError reports input that ended before every mandatory field
// was seen. Missing lists the fields still outstanding, in address order.
type IncompleteError struct {
	Addr    string
	Missing string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%q is an incomplete address missing: %s", e.Addr, e.Missing)
}

// Kind returns KindIncompleteAddress.
func (e *IncompleteError) Kind() ErrorKind { return KindIncompleteAddress }

// InstrMarkerError reports trailing text in the position reserved for the
// INSTR marker that is not "INSTR" in any casing.
type InstrMarkerError struct {
	Found string
	Addr  string
	Span  Span
}

func (e *InstrMarkerError) Error() string {
	return fmt.Sprintf("In address \"INSTR\" was indicated but instead %q was found at %d to %d of\n %q",
		e.Found, e.Span.Start, e.Span.End, e.Addr)
}

// Kind returns KindUnexpectedInstrMarker.
func (e *InstrMarkerError) Kind() ErrorKind { return KindUnexpectedInstrMarker }

var (
	_ ParseError = (*PrefixError)(nil)
	_ ParseError = (*NumberError)(nil)
	_ ParseError = (*HexFormatError)(nil)
	_ ParseError = (*IncompleteError)(nil)
	_ ParseError = (*InstrMarkerError)(nil)
)
