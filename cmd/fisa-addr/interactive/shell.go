// Package interactive provides the interactive parse shell for
// fisa-addr.
package interactive

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"

	"github.com/fisa-project/fisa-go/pkg/book"
	"github.com/fisa-project/fisa-go/pkg/trace"
	"github.com/fisa-project/fisa-go/pkg/usbid"
)

// Options configures the shell.
type Options struct {
	// Book is an optional alias source; lines matching an alias parse
	// the stored address instead.
	Book *book.Book

	// Recorder performs the parses, capturing events when it carries a
	// file logger. Nil means parse without capture.
	Recorder *trace.Recorder

	// Registry annotates accepted addresses with vendor and model
	// names. Nil disables annotation.
	Registry *usbid.Registry
}

// Shell is the interactive parse loop.
type Shell struct {
	book     *book.Book
	recorder *trace.Recorder
	registry *usbid.Registry
	rl       *readline.Instance
}

// New creates the shell with its readline instance.
func New(opts Options) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "fisa> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	recorder := opts.Recorder
	if recorder == nil {
		recorder = trace.NewRecorder(nil)
	}

	return &Shell{
		book:     opts.Book,
		recorder: recorder,
		registry: opts.Registry,
		rl:       rl,
	}, nil
}

// Run starts the interactive loop. It returns when the user exits or
// input reaches EOF.
func (s *Shell) Run() {
	defer s.rl.Close()

	s.printHelp()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "help", "?":
			s.printHelp()

		case "list", "l":
			s.cmdList()

		case "quit", "exit", "q":
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return

		default:
			// Anything else is an address or a book alias. The whole
			// line is used: serial numbers may contain spaces.
			s.cmdParse(input)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.rl.Stdout(), `
FISA Address Shell
  Type a VISA USB resource address (or a book alias) to parse it.

  Commands:
    list    - List address book aliases
    help    - Show this help
    exit    - Leave the shell`)
}

// cmdList shows the loaded book's aliases.
func (s *Shell) cmdList() {
	if s.book == nil {
		fmt.Fprintln(s.rl.Stdout(), "No address book loaded (start with -book)")
		return
	}
	if s.book.Len() == 0 {
		fmt.Fprintln(s.rl.Stdout(), "Address book is empty")
		return
	}

	fmt.Fprintf(s.rl.Stdout(), "\nAliases (%d):\n", s.book.Len())
	for _, e := range s.book.List() {
		line := fmt.Sprintf("  %-16s %s", e.Alias, e.Address)
		if e.Description != "" {
			line += "  # " + e.Description
		}
		fmt.Fprintln(s.rl.Stdout(), line)
	}
	fmt.Fprintln(s.rl.Stdout())
}

// cmdParse resolves and parses one line.
func (s *Shell) cmdParse(input string) {
	text := input
	if s.book != nil {
		if entry, ok := s.book.Get(input); ok {
			text = entry.Address
			fmt.Fprintf(s.rl.Stdout(), "%s -> %s\n", input, text)
		}
	}

	addr, err := s.recorder.Parse(text)
	if err != nil {
		fmt.Fprintln(s.rl.Stdout(), err.Error())
		return
	}

	fmt.Fprintf(s.rl.Stdout(), "OK %s\n", addr.String())

	var extra strings.Builder
	if board, ok := addr.Board(); ok {
		fmt.Fprintf(&extra, " board=%d", board)
	}
	if iface, ok := addr.InterfaceNumber(); ok {
		fmt.Fprintf(&extra, " iface=%d", iface)
	}
	if addr.Instr() {
		extra.WriteString(" instr")
	}
	fmt.Fprintf(s.rl.Stdout(), "   vendor=0x%X model=0x%X serial=%s%s\n",
		addr.ManufacturerID(), addr.ModelCode(), addr.SerialNumber(), extra.String())

	if s.registry != nil {
		if d := s.registry.Describe(addr); d.Known() {
			fmt.Fprintf(s.rl.Stdout(), "   %s\n", d)
		}
	}
}
