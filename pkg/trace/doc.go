// Package trace provides structured capture of address operations.
//
// This package defines the Logger interface and Event types for
// recording every parse and format an application performs. It is
// separate from operational logging (slog) - capture provides a
// complete machine-readable record for debugging grammar issues and
// analyzing what addresses a deployment actually sees.
//
// # Basic Usage
//
// Applications capture operations by routing them through a Recorder:
//
//	// For development: log to console via slog
//	rec := trace.NewRecorder(trace.NewSlogAdapter(slog.Default()))
//
//	// For production: write to binary file
//	fl, _ := trace.NewFileLogger("parses.alog")
//	rec := trace.NewRecorder(fl)
//
//	// Both: use MultiLogger
//	rec := trace.NewRecorder(trace.NewMultiLogger(
//	    trace.NewSlogAdapter(slog.Default()),
//	    fl,
//	))
//
//	addr, err := rec.Parse("USB::0x1A34::0x5678::A22-5")
//
// # Event Payloads
//
// Accepted operations carry an AddressRecord with the canonical form
// and every parsed field. Rejected parses carry an ErrorRecord with the
// violation kind, the rendered diagnostic, and the offending text and
// byte span where the grammar defines them.
//
// # File Format
//
// Trace files use CBOR encoding with .alog extension. The fisa-log CLI
// tool provides viewing, filtering, and export capabilities.
package trace
