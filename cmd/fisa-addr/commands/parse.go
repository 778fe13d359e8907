// Package commands implements the fisa-addr CLI commands.
package commands

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/fisa-project/fisa-go/pkg/address"
	"github.com/fisa-project/fisa-go/pkg/trace"
	"github.com/fisa-project/fisa-go/pkg/usbid"
)

const (
	exitSuccess = 0
	exitFailure = 1
)

// ParseOutput is the JSON document emitted by parse -json.
type ParseOutput struct {
	Valid   bool           `json:"valid"`
	Input   string         `json:"input"`
	Address *AddressOutput `json:"address,omitempty"`
	Error   *ErrorOutput   `json:"error,omitempty"`
}

// AddressOutput holds the fields of an accepted address.
type AddressOutput struct {
	Canonical       string  `json:"canonical"`
	Board           *uint32 `json:"board,omitempty"`
	ManufacturerID  uint16  `json:"manufacturer_id"`
	ModelCode       uint16  `json:"model_code"`
	SerialNumber    string  `json:"serial_number"`
	InterfaceNumber *uint16 `json:"interface_number,omitempty"`
	Instr           bool    `json:"instr"`
	Vendor          string  `json:"vendor,omitempty"`
	Model           string  `json:"model,omitempty"`
}

// ErrorOutput holds a grammar violation.
type ErrorOutput struct {
	Kind    string      `json:"kind"`
	Message string      `json:"message"`
	Found   *string     `json:"found,omitempty"`
	Span    *SpanOutput `json:"span,omitempty"`
	Missing string      `json:"missing,omitempty"`
}

// SpanOutput is the byte range of the offending run.
type SpanOutput struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RunParse executes the parse command.
func RunParse(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printParseUsage(stderr) }

	jsonOut := fs.Bool("json", false, "Output the result as JSON")

	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: address required")
		printParseUsage(stderr)
		return exitFailure
	}

	input := fs.Arg(0)
	addr, err := address.Parse(input)

	if *jsonOut {
		out := ParseOutput{Valid: err == nil, Input: input}
		if err != nil {
			out.Error = newErrorOutput(err)
		} else {
			out.Address = newAddressOutput(addr, loadRegistry())
		}
		data, merr := json.MarshalIndent(out, "", "  ")
		if merr != nil {
			fmt.Fprintf(stderr, "Error: %v\n", merr)
			return exitFailure
		}
		fmt.Fprintln(stdout, string(data))
	} else if err != nil {
		fmt.Fprintln(stdout, err.Error())
	} else {
		printAddress(stdout, addr, loadRegistry())
	}

	if err != nil {
		return exitFailure
	}
	return exitSuccess
}

// loadRegistry returns the identifier registry, or nil when the embedded
// data fails to load. Annotation is best effort.
func loadRegistry() *usbid.Registry {
	registry, err := usbid.Load()
	if err != nil {
		return nil
	}
	return registry
}

// newAddressOutput captures an address value, annotated against the
// registry when one is available.
func newAddressOutput(addr address.UsbAddress, registry *usbid.Registry) *AddressOutput {
	out := &AddressOutput{
		Canonical:      addr.String(),
		ManufacturerID: addr.ManufacturerID(),
		ModelCode:      addr.ModelCode(),
		SerialNumber:   addr.SerialNumber(),
		Instr:          addr.Instr(),
	}
	if board, ok := addr.Board(); ok {
		out.Board = &board
	}
	if iface, ok := addr.InterfaceNumber(); ok {
		out.InterfaceNumber = &iface
	}
	if registry != nil {
		d := registry.Describe(addr)
		out.Vendor = d.Vendor
		out.Model = d.Model
	}
	return out
}

// newErrorOutput captures a grammar violation. The payload extraction
// lives in the trace package; this only renames it for JSON.
func newErrorOutput(err error) *ErrorOutput {
	rec := trace.NewErrorRecord(err)
	out := &ErrorOutput{
		Kind:    rec.Kind.String(),
		Message: rec.Message,
		Found:   rec.Found,
		Missing: rec.Missing,
	}
	if rec.Span != nil {
		out.Span = &SpanOutput{Start: rec.Span.Start, End: rec.Span.End}
	}
	return out
}

// printAddress writes a human-readable field dump.
func printAddress(w io.Writer, addr address.UsbAddress, registry *usbid.Registry) {
	fmt.Fprintf(w, "Canonical:       %s\n", addr.String())

	if board, ok := addr.Board(); ok {
		fmt.Fprintf(w, "Board:           %d\n", board)
	} else {
		fmt.Fprintf(w, "Board:           (none)\n")
	}

	vendor := fmt.Sprintf("0x%X", addr.ManufacturerID())
	model := fmt.Sprintf("0x%X", addr.ModelCode())
	if registry != nil {
		if name, ok := registry.VendorName(addr.ManufacturerID()); ok {
			vendor += " (" + name + ")"
		}
		if name, ok := registry.ModelName(addr.ManufacturerID(), addr.ModelCode()); ok {
			model += " (" + name + ")"
		}
	}
	fmt.Fprintf(w, "Manufacturer ID: %s\n", vendor)
	fmt.Fprintf(w, "Model Code:      %s\n", model)
	fmt.Fprintf(w, "Serial Number:   %s\n", addr.SerialNumber())

	if iface, ok := addr.InterfaceNumber(); ok {
		fmt.Fprintf(w, "Interface:       %d\n", iface)
	} else {
		fmt.Fprintf(w, "Interface:       (none)\n")
	}

	fmt.Fprintf(w, "INSTR:           %t\n", addr.Instr())
}

func printParseUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fisa-addr parse [flags] <address>

Flags:
  -json   Output the result as JSON

Examples:
  fisa-addr parse "USB::0x1AB1::0x04CE::DS1ZA0001::INSTR"
  fisa-addr parse -json "USB2::0x5E6::0x2110::8012345"`)
}
