package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/fisa-project/fisa-go/pkg/address"
)

// Recorder wraps the address operations with trace capture. Every parse
// and format performed through a Recorder emits one Event tagged with
// the Recorder's run ID, while returning exactly what the underlying
// operation returned.
//
// A Recorder is safe for concurrent use when its Logger is.
type Recorder struct {
	logger Logger
	runID  string
}

// NewRecorder creates a Recorder emitting to the given logger. A nil
// logger disables capture. The run ID is a fresh UUID.
func NewRecorder(logger Logger) *Recorder {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Recorder{
		logger: logger,
		runID:  uuid.New().String(),
	}
}

// RunID returns the UUID tagging every event this Recorder emits.
func (r *Recorder) RunID() string {
	return r.runID
}

// Parse parses an address, capturing the outcome. The returned value and
// error are exactly those of address.Parse.
func (r *Recorder) Parse(input string) (address.UsbAddress, error) {
	start := time.Now()
	addr, err := address.Parse(input)

	event := Event{
		Timestamp: start,
		RunID:     r.runID,
		Op:        OpParse,
		Input:     input,
		Elapsed:   time.Since(start),
	}
	if err != nil {
		event.Outcome = OutcomeRejected
		event.Error = NewErrorRecord(err)
	} else {
		event.Outcome = OutcomeAccepted
		event.Address = NewAddressRecord(addr)
	}
	r.logger.Log(event)

	return addr, err
}

// Format renders an address to its canonical form, capturing the result.
func (r *Recorder) Format(addr address.UsbAddress) string {
	start := time.Now()
	rendered := addr.String()

	r.logger.Log(Event{
		Timestamp: start,
		RunID:     r.runID,
		Op:        OpFormat,
		Outcome:   OutcomeAccepted,
		Input:     rendered,
		Elapsed:   time.Since(start),
		Address:   NewAddressRecord(addr),
	})

	return rendered
}
