// Package commands implements the fisa-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fisa-project/fisa-go/pkg/address"
	"github.com/fisa-project/fisa-go/pkg/trace"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Op      *trace.Op
	Outcome *trace.Outcome
	Kind    *address.ErrorKind
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event trace.Event) {
	// Header line: timestamp [run:id] OP OUTCOME input
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	runID := shortenRunID(event.RunID)

	fmt.Fprintf(w, "%s [run:%s] %-6s %-8s %q\n",
		ts, runID, event.Op.String(), event.Outcome.String(), event.Input)

	// Payload-specific details
	switch {
	case event.Address != nil:
		formatAddressDetails(w, event.Address)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	if event.Elapsed > 0 {
		fmt.Fprintf(w, "  Elapsed: %s\n", formatDuration(event.Elapsed))
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatAddressDetails writes the fields of an accepted address.
func formatAddressDetails(w io.Writer, rec *trace.AddressRecord) {
	fmt.Fprintf(w, "  Canonical: %s\n", rec.Canonical)
	fmt.Fprintf(w, "  Vendor: 0x%X  Model: 0x%X  Serial: %s\n",
		rec.ManufacturerID, rec.ModelCode, rec.SerialNumber)
	if rec.Board != nil {
		fmt.Fprintf(w, "  Board: %d\n", *rec.Board)
	}
	if rec.InterfaceNumber != nil {
		fmt.Fprintf(w, "  Interface: %d\n", *rec.InterfaceNumber)
	}
	if rec.Instr {
		fmt.Fprintln(w, "  INSTR")
	}
}

// formatErrorDetails writes grammar violation details.
func formatErrorDetails(w io.Writer, rec *trace.ErrorRecord) {
	fmt.Fprintf(w, "  Kind: %s\n", rec.Kind.String())
	fmt.Fprintf(w, "  Message: %s\n", rec.Message)
	if rec.Found != nil {
		fmt.Fprintf(w, "  Found: %q\n", *rec.Found)
	}
	if rec.Span != nil {
		fmt.Fprintf(w, "  Span: %d to %d\n", rec.Span.Start, rec.Span.End)
	}
	if rec.Missing != "" {
		fmt.Fprintf(w, "  Missing: %s\n", rec.Missing)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// filterEvents returns events matching the filter criteria.
func filterEvents(events []trace.Event, filter ViewFilter) []trace.Event {
	var result []trace.Event
	for _, e := range events {
		if filter.Op != nil && e.Op != *filter.Op {
			continue
		}
		if filter.Outcome != nil && e.Outcome != *filter.Outcome {
			continue
		}
		if filter.Kind != nil && (e.Error == nil || e.Error.Kind != *filter.Kind) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// ParseOpFlag parses an operation string from command-line flag (case-insensitive).
func ParseOpFlag(s string) (trace.Op, error) {
	return parseOp(s)
}

// parseOp parses an operation string (case-insensitive).
func parseOp(s string) (trace.Op, error) {
	switch strings.ToLower(s) {
	case "parse":
		return trace.OpParse, nil
	case "format":
		return trace.OpFormat, nil
	default:
		return 0, fmt.Errorf("invalid op: %s (must be parse or format)", s)
	}
}

// ParseOutcomeFlag parses an outcome string from command-line flag (case-insensitive).
func ParseOutcomeFlag(s string) (trace.Outcome, error) {
	return parseOutcome(s)
}

// parseOutcome parses an outcome string (case-insensitive).
func parseOutcome(s string) (trace.Outcome, error) {
	switch strings.ToLower(s) {
	case "accepted":
		return trace.OutcomeAccepted, nil
	case "rejected":
		return trace.OutcomeRejected, nil
	default:
		return 0, fmt.Errorf("invalid outcome: %s (must be accepted or rejected)", s)
	}
}

// ParseKindFlag parses a violation kind string from command-line flag (case-insensitive).
func ParseKindFlag(s string) (address.ErrorKind, error) {
	return parseKind(s)
}

// parseKind parses a violation kind string (case-insensitive).
func parseKind(s string) (address.ErrorKind, error) {
	switch strings.ToUpper(s) {
	case "NOT_USB_PREFIX":
		return address.KindNotUsbPrefix, nil
	case "NUMBER_PARSE_FAILURE":
		return address.KindNumberParseFailure, nil
	case "NOT_HEX_FORMAT":
		return address.KindNotHexFormat, nil
	case "INCOMPLETE_ADDRESS":
		return address.KindIncompleteAddress, nil
	case "UNEXPECTED_INSTR_MARKER":
		return address.KindUnexpectedInstrMarker, nil
	default:
		return 0, fmt.Errorf("invalid kind: %s (must be NOT_USB_PREFIX, NUMBER_PARSE_FAILURE, NOT_HEX_FORMAT, INCOMPLETE_ADDRESS, or UNEXPECTED_INSTR_MARKER)", s)
	}
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := trace.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		// Apply filter
		if filter.Op != nil && event.Op != *filter.Op {
			continue
		}
		if filter.Outcome != nil && event.Outcome != *filter.Outcome {
			continue
		}
		if filter.Kind != nil && (event.Error == nil || event.Error.Kind != *filter.Kind) {
			continue
		}

		formatEvent(output, event)
	}

	return nil
}
