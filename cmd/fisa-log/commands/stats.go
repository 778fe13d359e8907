package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fisa-project/fisa-go/pkg/address"
	"github.com/fisa-project/fisa-go/pkg/trace"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents     int
	EventsByOp      map[trace.Op]int
	EventsByOutcome map[trace.Outcome]int
	EventsByKind    map[address.ErrorKind]int
	Runs            map[string]*RunSummary
	RejectedInputs  map[string]int
	TimeRange       struct {
		Start time.Time
		End   time.Time
	}
}

// RunSummary holds statistics for a single recorder run.
type RunSummary struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Accepted  int
	Rejected  int
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := trace.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByOp:      make(map[trace.Op]int),
		EventsByOutcome: make(map[trace.Outcome]int),
		EventsByKind:    make(map[address.ErrorKind]int),
		Runs:            make(map[string]*RunSummary),
		RejectedInputs:  make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByOp[event.Op]++
		stats.EventsByOutcome[event.Outcome]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		// Track run stats
		run, ok := stats.Runs[event.RunID]
		if !ok {
			run = &RunSummary{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Runs[event.RunID] = run
		}
		run.Events++
		if event.Timestamp.After(run.LastSeen) {
			run.LastSeen = event.Timestamp
		}
		switch event.Outcome {
		case trace.OutcomeAccepted:
			run.Accepted++
		case trace.OutcomeRejected:
			run.Rejected++
		}

		// Track violations
		if event.Error != nil {
			stats.EventsByKind[event.Error.Kind]++
			stats.RejectedInputs[event.Input]++
		}
	}

	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== FISA Address Trace Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	// Total events
	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	// Events by operation
	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range []trace.Op{trace.OpParse, trace.OpFormat} {
		if count := stats.EventsByOp[op]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Events by outcome
	fmt.Fprintln(w, "Events by Outcome:")
	for _, outcome := range []trace.Outcome{trace.OutcomeAccepted, trace.OutcomeRejected} {
		if count := stats.EventsByOutcome[outcome]; count > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", outcome.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	// Rejections by violation kind
	if len(stats.EventsByKind) > 0 {
		fmt.Fprintln(w, "Rejections by Kind:")
		kinds := []address.ErrorKind{
			address.KindNotUsbPrefix,
			address.KindNumberParseFailure,
			address.KindNotHexFormat,
			address.KindIncompleteAddress,
			address.KindUnexpectedInstrMarker,
		}
		for _, kind := range kinds {
			if count := stats.EventsByKind[kind]; count > 0 {
				fmt.Fprintf(w, "  %-24s %d\n", kind.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	// Runs
	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	if len(stats.Runs) > 0 {
		// Sort by first seen time
		type runInfo struct {
			id      string
			summary *RunSummary
		}
		runs := make([]runInfo, 0, len(stats.Runs))
		for id, rs := range stats.Runs {
			runs = append(runs, runInfo{id, rs})
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].summary.FirstSeen.Before(runs[j].summary.FirstSeen)
		})

		fmt.Fprintln(w, "")
		for _, r := range runs {
			duration := r.summary.LastSeen.Sub(r.summary.FirstSeen).Round(time.Millisecond)
			shortID := r.id
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %d events, %d accepted, %d rejected, duration %s\n",
				shortID, r.summary.Events, r.summary.Accepted, r.summary.Rejected, duration)
		}
	}

	// Most frequently rejected inputs
	if len(stats.RejectedInputs) > 0 {
		type inputCount struct {
			input string
			count int
		}
		inputs := make([]inputCount, 0, len(stats.RejectedInputs))
		for input, count := range stats.RejectedInputs {
			inputs = append(inputs, inputCount{input, count})
		}
		sort.Slice(inputs, func(i, j int) bool {
			if inputs[i].count != inputs[j].count {
				return inputs[i].count > inputs[j].count
			}
			return inputs[i].input < inputs[j].input
		})
		if len(inputs) > 5 {
			inputs = inputs[:5]
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Most Rejected Inputs:")
		for _, ic := range inputs {
			fmt.Fprintf(w, "  %3dx %q\n", ic.count, ic.input)
		}
	}
}
