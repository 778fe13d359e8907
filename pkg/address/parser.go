package address

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// parserState tracks how far the scan has progressed. Each state owns one
// field of the address; the prefix state additionally validates the three
// leading bytes.
type parserState uint8

const (
	stateUsb parserState = iota
	stateBoard
	stateManufacturerID
	stateModelCode
	stateSerialNumber
	stateInterface
	stateInstr
)

// Missing-field lists reported by IncompleteError, keyed by the state the
// scan ended in.
const (
	missingFromUsb          = "USB flag, Manufacture Code, Model Number, Serial number"
	missingFromManufacturer = "Manufacture Code, Model Number, Serial number"
	missingFromModel        = "Model Number, Serial number"
	missingSerial           = "Serial Number"
)

// cursor walks the input rune by rune while exposing byte offsets, with a
// single rune of lookahead.
type cursor struct {
	input string
	pos   int
}

// next consumes the next rune and returns it with its byte offset.
func (c *cursor) next() (r rune, idx int, ok bool) {
	if c.pos >= len(c.input) {
		return 0, c.pos, false
	}
	r, size := utf8.DecodeRuneInString(c.input[c.pos:])
	idx = c.pos
	c.pos += size
	return r, idx, true
}

// peek returns the next rune without consuming it.
func (c *cursor) peek() (rune, bool) {
	if c.pos >= len(c.input) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r, true
}

// skip discards one rune. The parser uses it to step over the second
// colon of a field delimiter.
func (c *cursor) skip() {
	if c.pos < len(c.input) {
		_, size := utf8.DecodeRuneInString(c.input[c.pos:])
		c.pos += size
	}
}

type parser struct {
	cur   cursor
	buf   strings.Builder
	span  Span
	state parserState
	addr  UsbAddress
}

// Parse scans a VISA USB resource address and returns its structured
// form. The scan is a single left-to-right pass; the first grammar
// violation stops it and is returned as a ParseError. The input string is
// not retained by the result beyond its serial number field.
func Parse(addr string) (UsbAddress, error) {
	p := parser{cur: cursor{input: addr}}
	return p.run()
}

// MustParse is like Parse but panics when the input is malformed. It is
// intended for addresses known to be valid, such as compiled-in defaults.
func MustParse(addr string) UsbAddress {
	a, err := Parse(addr)
	if err != nil {
		panic("address: MustParse(" + strconv.Quote(addr) + "): " + err.Error())
	}
	return a
}

func (p *parser) run() (UsbAddress, error) {
	for {
		r, idx, ok := p.cur.next()
		if !ok {
			return p.finish()
		}
		p.span.End = idx

		var err error
		switch p.state {
		case stateUsb:
			err = p.stepUsb(r, idx)
		case stateBoard:
			err = p.stepBoard(r, idx)
		case stateManufacturerID, stateModelCode:
			err = p.stepHex(r, idx)
		case stateSerialNumber:
			err = p.stepSerial(r, idx)
		case stateInterface:
			err = p.stepInterface(r, idx)
		case stateInstr:
			// Everything up to the end of input belongs to the marker,
			// colons included.
			p.buf.WriteRune(r)
		}
		if err != nil {
			return UsbAddress{}, err
		}
	}
}

// stepUsb matches the literal "USB" prefix byte by byte.
func (p *parser) stepUsb(r rune, idx int) error {
	switch {
	case idx == 0 && r == 'U':
		return nil
	case idx == 1 && r == 'S':
		return nil
	case idx == 2 && r == 'B':
		p.span.Start = idx + 1
		p.state = stateBoard
		return nil
	default:
		return &PrefixError{Found: prefixOf(p.cur.input)}
	}
}

// prefixOf returns the three bytes the prefix check looked at, or the
// whole input when it is shorter than three bytes.
func prefixOf(input string) string {
	if len(input) > 3 {
		return input[:3]
	}
	return input
}

// stepBoard accumulates the optional board index until the first colon of
// the delimiter. An empty field is allowed and leaves the board unset.
func (p *parser) stepBoard(r rune, idx int) error {
	if r != ':' {
		p.buf.WriteRune(r)
		return nil
	}
	if idx > p.span.Start {
		n, err := strconv.ParseUint(p.buf.String(), 10, 32)
		if err != nil {
			return &NumberError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span, Err: err}
		}
		p.addr.board = uint32(n)
		p.addr.hasBoard = true
	}
	p.cur.skip()
	p.span.Start = idx + 2
	p.buf.Reset()
	p.state = stateManufacturerID
	return nil
}

// stepHex handles the manufacturer ID and model code fields. The first
// two characters must spell the "0x" marker; they are consumed without
// entering the buffer, so only the digits reach strconv. A delimiter
// closes the field even when nothing accumulated, and the empty string
// then fails the numeric conversion.
func (p *parser) stepHex(r rune, idx int) error {
	switch {
	case r == ':':
		n, err := strconv.ParseUint(p.buf.String(), 16, 16)
		if err != nil {
			return &NumberError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span, Err: err}
		}
		if p.state == stateManufacturerID {
			p.addr.manufacturerID = uint16(n)
			p.state = stateModelCode
		} else {
			p.addr.modelCode = uint16(n)
			p.state = stateSerialNumber
		}
		p.cur.skip()
		p.span.Start = idx + 2
		p.buf.Reset()
		return nil
	case idx == p.span.Start:
		if r == '0' {
			return nil
		}
		p.buf.WriteRune(r)
		return p.scanHexViolation()
	case idx == p.span.Start+1:
		if r == 'x' || r == 'X' {
			return nil
		}
		p.buf.WriteRune(r)
		return p.scanHexViolation()
	default:
		p.buf.WriteRune(r)
		return nil
	}
}

// scanHexViolation consumes the rest of the offending field so the error
// reports the whole token rather than the single character that broke the
// marker. The scan stops at the first colon or at the end of input.
func (p *parser) scanHexViolation() error {
	for {
		r, idx, ok := p.cur.next()
		if !ok {
			break
		}
		p.span.End = idx
		if r == ':' {
			break
		}
		p.buf.WriteRune(r)
	}
	return &HexFormatError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span}
}

// stepSerial accumulates the serial number until the delimiter. The field
// must not be empty. After the delimiter one rune of lookahead decides
// whether an interface number or the INSTR marker follows.
func (p *parser) stepSerial(r rune, idx int) error {
	if r != ':' {
		p.buf.WriteRune(r)
		return nil
	}
	if p.buf.Len() == 0 {
		return &IncompleteError{Addr: p.cur.input, Missing: missingSerial}
	}
	p.addr.serialNumber = p.buf.String()
	p.cur.skip()
	p.span.Start = idx + 2
	p.buf.Reset()
	if next, ok := p.cur.peek(); ok && (next == 'I' || next == 'i') {
		p.state = stateInstr
	} else {
		p.state = stateInterface
	}
	return nil
}

// stepInterface accumulates the optional interface number until the
// delimiter; whatever follows it can only be the INSTR marker.
func (p *parser) stepInterface(r rune, idx int) error {
	if r != ':' {
		p.buf.WriteRune(r)
		return nil
	}
	n, err := strconv.ParseUint(p.buf.String(), 10, 16)
	if err != nil {
		return &NumberError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span, Err: err}
	}
	p.addr.interfaceNumber = uint16(n)
	p.addr.hasInterface = true
	p.cur.skip()
	p.span.Start = idx + 2
	p.buf.Reset()
	p.state = stateInstr
	return nil
}

// finish resolves the scan once input runs out. States before the serial
// number cannot complete an address; the optional trailing fields accept
// an empty buffer, which covers inputs ending in a bare delimiter.
func (p *parser) finish() (UsbAddress, error) {
	switch p.state {
	case stateUsb:
		return UsbAddress{}, &IncompleteError{Addr: p.cur.input, Missing: missingFromUsb}
	case stateBoard, stateManufacturerID:
		return UsbAddress{}, &IncompleteError{Addr: p.cur.input, Missing: missingFromManufacturer}
	case stateModelCode:
		return UsbAddress{}, &IncompleteError{Addr: p.cur.input, Missing: missingFromModel}
	case stateSerialNumber:
		if p.buf.Len() == 0 {
			return UsbAddress{}, &IncompleteError{Addr: p.cur.input, Missing: missingSerial}
		}
		p.addr.serialNumber = p.buf.String()
		return p.addr, nil
	case stateInterface:
		if p.buf.Len() == 0 {
			return p.addr, nil
		}
		n, err := strconv.ParseUint(p.buf.String(), 10, 16)
		if err != nil {
			return UsbAddress{}, &NumberError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span, Err: err}
		}
		p.addr.interfaceNumber = uint16(n)
		p.addr.hasInterface = true
		return p.addr, nil
	default: // stateInstr
		if p.buf.Len() == 0 {
			return p.addr, nil
		}
		if strings.EqualFold(p.buf.String(), "INSTR") {
			p.addr.instr = true
			return p.addr, nil
		}
		return UsbAddress{}, &InstrMarkerError{Found: p.buf.String(), Addr: p.cur.input, Span: p.span}
	}
}
