// Package address parses and formats VISA USB instrument resource
// addresses.
//
// # Address Grammar
//
// A USB resource address names an instrument by the identity burned into
// its descriptors rather than by a bus position, so the address stays
// stable across replugs. The accepted form is
//
//	USB[board]::0xMANUFACTURER::0xMODEL::serial[::interface][::INSTR]
//
// where board and interface are optional decimal numbers, the manufacturer
// ID and model code are hexadecimal numbers carrying a mandatory "0x" or
// "0X" marker, and serial is free text terminated by "::" or the end of
// the input. The trailing INSTR marker is matched case-insensitively.
//
// # Parsing
//
// Parse scans the input left to right in a single pass and either returns
// a UsbAddress or exactly one error describing the first violation:
//
//	addr, err := address.Parse("USB::0x1A34::0x5678::A22-5::INSTR")
//
// Every error satisfies ParseError and reports its ErrorKind; most carry
// the offending text and the byte Span where scanning stopped. Numeric
// failures wrap the underlying *strconv.NumError, so errors.Is against
// strconv.ErrSyntax and strconv.ErrRange works through the chain.
//
// # Canonical Form
//
// UsbAddress.String renders the canonical spelling: no whitespace, "0x"
// markers with uppercase hex digits, and INSTR fully uppercased. Parsing
// a canonical string yields the original value, and canonicalizing any
// accepted input preserves its meaning even when the spelling changes.
package address
