package commands

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fisa-project/fisa-go/pkg/address"
)

// RunFormat executes the format command. It either canonicalizes an
// existing address or assembles one from construction flags.
func RunFormat(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("format", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printFormatUsage(stderr) }

	vendor := fs.String("vendor", "", "Manufacturer ID, 0x-prefixed hex or decimal")
	model := fs.String("model", "", "Model code, 0x-prefixed hex or decimal")
	serial := fs.String("serial", "", "Serial number")
	board := fs.String("board", "", "Board index, decimal")
	iface := fs.String("iface", "", "USB interface number, decimal")
	instr := fs.Bool("instr", false, "Append the INSTR resource-class marker")

	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	building := *vendor != "" || *model != "" || *serial != "" ||
		*board != "" || *iface != "" || *instr

	switch {
	case fs.NArg() >= 1 && building:
		fmt.Fprintln(stderr, "Error: give either an address or construction flags, not both")
		return exitFailure

	case fs.NArg() >= 1:
		addr, err := address.Parse(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(stdout, err.Error())
			return exitFailure
		}
		fmt.Fprintln(stdout, addr.String())
		return exitSuccess

	case building:
		addr, err := buildAddress(*vendor, *model, *serial, *board, *iface, *instr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		fmt.Fprintln(stdout, addr.String())
		return exitSuccess

	default:
		fmt.Fprintln(stderr, "Error: address or construction flags required")
		printFormatUsage(stderr)
		return exitFailure
	}
}

// buildAddress assembles an address from flag values.
func buildAddress(vendor, model, serial, board, iface string, instr bool) (address.UsbAddress, error) {
	if vendor == "" || model == "" || serial == "" {
		return address.UsbAddress{}, fmt.Errorf("-vendor, -model, and -serial are all required when building")
	}
	if strings.Contains(serial, "::") {
		return address.UsbAddress{}, fmt.Errorf("serial %q must not contain the field delimiter", serial)
	}

	vid, err := strconv.ParseUint(vendor, 0, 16)
	if err != nil {
		return address.UsbAddress{}, fmt.Errorf("invalid vendor %q: %w", vendor, err)
	}
	pid, err := strconv.ParseUint(model, 0, 16)
	if err != nil {
		return address.UsbAddress{}, fmt.Errorf("invalid model %q: %w", model, err)
	}

	addr := address.New(uint16(vid), uint16(pid), serial)

	if board != "" {
		b, err := strconv.ParseUint(board, 10, 32)
		if err != nil {
			return address.UsbAddress{}, fmt.Errorf("invalid board %q: %w", board, err)
		}
		addr = addr.WithBoard(uint32(b))
	}
	if iface != "" {
		i, err := strconv.ParseUint(iface, 10, 16)
		if err != nil {
			return address.UsbAddress{}, fmt.Errorf("invalid iface %q: %w", iface, err)
		}
		addr = addr.WithInterface(uint16(i))
	}
	if instr {
		addr = addr.WithInstr(true)
	}

	return addr, nil
}

func printFormatUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fisa-addr format <address>
       fisa-addr format -vendor <id> -model <code> -serial <sn> [-board <n>] [-iface <n>] [-instr]

Examples:
  fisa-addr format "USB0::0X1ab1::0x04ce::DS1ZA0001::instr"
  fisa-addr format -vendor 0x1AB1 -model 0x4CE -serial DS1ZA0001 -instr`)
}
