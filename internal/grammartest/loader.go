package grammartest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a grammar corpus from a YAML file. Every case
// must carry a unique name, an input, and a well-formed outcome; accept
// cases must pin the canonical form and reject cases the error kind.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{File: path, Message: "reading corpus", Cause: err}
	}

	var corpus Corpus
	if err := yaml.Unmarshal(data, &corpus); err != nil {
		return nil, &LoadError{File: path, Message: "parsing corpus YAML", Cause: err}
	}

	if len(corpus.Cases) == 0 {
		return nil, &LoadError{File: path, Message: "corpus contains no cases"}
	}

	seen := make(map[string]bool, len(corpus.Cases))
	for i := range corpus.Cases {
		c := &corpus.Cases[i]
		if c.Name == "" {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("case %d has no name", i)}
		}
		if seen[c.Name] {
			return nil, &LoadError{File: path, Message: fmt.Sprintf("duplicate case name %q", c.Name)}
		}
		seen[c.Name] = true

		switch c.Outcome {
		case OutcomeAccept:
			if c.Canonical == "" {
				return nil, &LoadError{File: path, Message: fmt.Sprintf("accept case %q pins no canonical form", c.Name)}
			}
			if c.Kind != "" || c.Found != nil || c.Span != nil || c.Message != "" {
				return nil, &LoadError{File: path, Message: fmt.Sprintf("accept case %q carries reject expectations", c.Name)}
			}
		case OutcomeReject:
			if c.Kind == "" {
				return nil, &LoadError{File: path, Message: fmt.Sprintf("reject case %q pins no error kind", c.Name)}
			}
			if c.Canonical != "" {
				return nil, &LoadError{File: path, Message: fmt.Sprintf("reject case %q pins a canonical form", c.Name)}
			}
		default:
			return nil, &LoadError{File: path, Message: fmt.Sprintf("case %q has outcome %q, want %q or %q", c.Name, c.Outcome, OutcomeAccept, OutcomeReject)}
		}
	}

	return &corpus, nil
}
