// Command fisa-addr parses, canonicalizes, and validates VISA USB
// resource addresses.
//
// Usage:
//
//	fisa-addr <command> [flags] [args]
//
// Commands:
//
//	parse    Parse an address and print its fields
//	format   Print the canonical form of an address
//	check    Batch-validate addresses from a file or stdin
//	book     Manage a YAML address book
//	shell    Interactive parse shell
//
// Examples:
//
//	# Parse and print fields
//	fisa-addr parse "USB::0x1AB1::0x04CE::DS1ZA0001::INSTR"
//
//	# Canonical form
//	fisa-addr format "USB0::0X1ab1::0x04ce::DS1ZA0001::instr"
//
//	# Build the canonical form from parts
//	fisa-addr format -vendor 0x1AB1 -model 0x4CE -serial DS1ZA0001 -instr
//
//	# Validate a list, capturing a trace
//	fisa-addr check -trace session.alog addresses.txt
//
//	# Keep instruments under aliases
//	fisa-addr book add scope "USB::0x1AB1::0x4CE::DS1ZA0001::INSTR" bench scope
//	fisa-addr book resolve scope
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fisa-project/fisa-go/cmd/fisa-addr/commands"
	"github.com/fisa-project/fisa-go/cmd/fisa-addr/interactive"
	"github.com/fisa-project/fisa-go/pkg/book"
	"github.com/fisa-project/fisa-go/pkg/trace"
	"github.com/fisa-project/fisa-go/pkg/usbid"
)

const usage = `fisa-addr - VISA USB resource address tool

Usage:
  fisa-addr <command> [flags] [args]

Commands:
  parse    Parse an address and print its fields
  format   Print the canonical form of an address (or build one from flags)
  check    Batch-validate addresses from a file or stdin
  book     Manage a YAML address book (list, add, remove, resolve)
  shell    Interactive parse shell

Use "fisa-addr <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "parse":
		exitCode = commands.RunParse(args, os.Stdout, os.Stderr)
	case "format":
		exitCode = commands.RunFormat(args, os.Stdout, os.Stderr)
	case "check":
		exitCode = commands.RunCheck(args, os.Stdout, os.Stderr)
	case "book":
		exitCode = commands.RunBook(args, os.Stdout, os.Stderr)
	case "shell":
		exitCode = runShell(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		exitCode = 1
	}

	os.Exit(exitCode)
}

func runShell(args []string) int {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `fisa-addr shell - Interactive parse shell

Usage:
  fisa-addr shell [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	bookPath := fs.String("book", "", "Resolve aliases from this address book")
	tracePath := fs.String("trace", "", "Append capture events to this trace file")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	var aliases *book.Book
	if *bookPath != "" {
		loaded, err := book.NewStore(*bookPath).Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if loaded == nil {
			fmt.Fprintf(os.Stderr, "Error: address book %s does not exist\n", *bookPath)
			return 1
		}
		aliases = loaded
	}

	var logger trace.Logger
	if *tracePath != "" {
		fl, err := trace.NewFileLogger(*tracePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer fl.Close()
		logger = fl
	}

	// Annotation is best effort; the shell works without the registry.
	registry, _ := usbid.Load()

	sh, err := interactive.New(interactive.Options{
		Book:     aliases,
		Recorder: trace.NewRecorder(logger),
		Registry: registry,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	sh.Run()
	return 0
}
