package commands

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fisa-project/fisa-go/pkg/address"
	"github.com/fisa-project/fisa-go/pkg/book"
)

// defaultBookPath is where book actions look when -file is not given.
const defaultBookPath = "addresses.yaml"

// RunBook dispatches the book subcommand actions.
func RunBook(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stderr, "Error: book action required (list, add, remove, resolve)")
		printBookUsage(stderr)
		return exitFailure
	}

	action := args[0]
	rest := args[1:]

	switch action {
	case "list":
		return runBookList(rest, stdout, stderr)
	case "add":
		return runBookAdd(rest, stdout, stderr)
	case "remove":
		return runBookRemove(rest, stdout, stderr)
	case "resolve":
		return runBookResolve(rest, stdout, stderr)
	case "-h", "-help", "--help", "help":
		printBookUsage(stdout)
		return exitSuccess
	default:
		fmt.Fprintf(stderr, "Unknown book action: %s\n", action)
		printBookUsage(stderr)
		return exitFailure
	}
}

func runBookList(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", defaultBookPath, "Address book file")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}

	b, err := book.NewStore(*file).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if b == nil || b.Len() == 0 {
		fmt.Fprintf(stdout, "%s: no entries\n", *file)
		return exitSuccess
	}

	fmt.Fprintf(stdout, "%s: %d entries\n", *file, b.Len())
	for _, e := range b.List() {
		line := fmt.Sprintf("  %-16s %s", e.Alias, e.Address)
		if e.Description != "" {
			line += "  # " + e.Description
		}
		fmt.Fprintln(stdout, line)
	}
	return exitSuccess
}

func runBookAdd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", defaultBookPath, "Address book file")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() < 2 {
		fmt.Fprintln(stderr, "Error: alias and address required")
		printBookUsage(stderr)
		return exitFailure
	}

	alias := fs.Arg(0)
	description := strings.Join(fs.Args()[2:], " ")

	addr, err := address.Parse(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		return exitFailure
	}

	store := book.NewStore(*file)
	b, err := store.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if b == nil {
		b = book.New()
	}
	if err := b.Add(alias, addr, description); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if err := store.Save(b); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Added %s -> %s\n", alias, addr.String())
	return exitSuccess
}

func runBookRemove(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book remove", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", defaultBookPath, "Address book file")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: alias required")
		printBookUsage(stderr)
		return exitFailure
	}

	store := book.NewStore(*file)
	b, err := store.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if b == nil {
		fmt.Fprintf(stderr, "Error: address book %s does not exist\n", *file)
		return exitFailure
	}
	if err := b.Remove(fs.Arg(0)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if err := store.Save(b); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	fmt.Fprintf(stdout, "Removed %s\n", fs.Arg(0))
	return exitSuccess
}

func runBookResolve(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", defaultBookPath, "Address book file")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: alias or address required")
		printBookUsage(stderr)
		return exitFailure
	}

	b, err := book.NewStore(*file).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if b == nil {
		b = book.New()
	}

	addr, err := b.Resolve(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stdout, err.Error())
		return exitFailure
	}
	fmt.Fprintln(stdout, addr.String())
	return exitSuccess
}

func printBookUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: fisa-addr book <action> [flags] [args]

Actions:
  list                                List entries
  add <alias> <address> [desc...]     Add an entry (address is validated)
  remove <alias>                      Remove an entry
  resolve <alias|address>             Print the canonical address

Flags:
  -file <path>   Address book file (default addresses.yaml)

Examples:
  fisa-addr book add -file lab.yaml scope "USB::0x1AB1::0x4CE::DS1ZA0001::INSTR" bench scope
  fisa-addr book list -file lab.yaml
  fisa-addr book resolve -file lab.yaml scope`)
}
