package trace

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes trace events to an slog.Logger.
// Useful for development when you want to see address operations in
// console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given
// slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("run_id", event.RunID),
		slog.String("op", event.Op.String()),
		slog.String("outcome", event.Outcome.String()),
		slog.String("input", event.Input),
		slog.Duration("elapsed", event.Elapsed),
	}

	// Add type-specific attributes
	switch {
	case event.Address != nil:
		attrs = append(attrs,
			slog.String("canonical", event.Address.Canonical),
			slog.String("vendor", fmt.Sprintf("0x%04X", event.Address.ManufacturerID)),
			slog.String("model", fmt.Sprintf("0x%04X", event.Address.ModelCode)),
			slog.String("serial", event.Address.SerialNumber),
		)
		if event.Address.Board != nil {
			attrs = append(attrs, slog.Uint64("board", uint64(*event.Address.Board)))
		}
		if event.Address.InterfaceNumber != nil {
			attrs = append(attrs, slog.Uint64("interface", uint64(*event.Address.InterfaceNumber)))
		}
		if event.Address.Instr {
			attrs = append(attrs, slog.Bool("instr", true))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("kind", event.Error.Kind.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Found != nil {
			attrs = append(attrs, slog.String("found", *event.Error.Found))
		}
		if event.Error.Span != nil {
			attrs = append(attrs,
				slog.Int("span_start", event.Error.Span.Start),
				slog.Int("span_end", event.Error.Span.End),
			)
		}
		if event.Error.Missing != "" {
			attrs = append(attrs, slog.String("missing", event.Error.Missing))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "address", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
