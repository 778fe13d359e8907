// Package grammartest loads YAML corpora of address grammar cases shared
// by the parser tests and the integration suite.
package grammartest

import "fmt"

// Corpus is a collection of grammar cases read from one YAML file.
type Corpus struct {
	Cases []Case `yaml:"cases"`
}

// Case describes one input string and the outcome the parser must
// produce for it. Accept cases pin the canonical rendering; reject cases
// pin the error kind and, optionally, the offending text, its span, and
// the full rendered message.
type Case struct {
	Name    string `yaml:"name"`
	Input   string `yaml:"input"`
	Outcome string `yaml:"outcome"`

	// Accept expectations.
	Canonical string `yaml:"canonical,omitempty"`

	// Reject expectations. Found is a pointer so a corpus can pin an
	// empty offending run, as an empty hex field produces.
	Kind    string   `yaml:"kind,omitempty"`
	Found   *string  `yaml:"found,omitempty"`
	Span    *SpanPin `yaml:"span,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

// SpanPin is the expected byte range of the offending run.
type SpanPin struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Accept reports whether the case expects a successful parse.
func (c *Case) Accept() bool {
	return c.Outcome == OutcomeAccept
}

// Outcome values a case may carry.
const (
	OutcomeAccept = "accept"
	OutcomeReject = "reject"
)

// LoadError reports a corpus file that could not be read or validated.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
