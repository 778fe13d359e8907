package grammartest

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidCorpus(t *testing.T) {
	path := writeCorpus(t, `
cases:
  - name: minimal
    input: "USB::0x1A34::0x5678::A22-5"
    outcome: accept
    canonical: "USB::0x1A34::0x5678::A22-5"
  - name: wrong scheme
    input: "TCPIP::1.2.3.4::inst0::INSTR"
    outcome: reject
    kind: NOT_USB_PREFIX
    found: "TCP"
  - name: empty hex field
    input: "USB::0x1A34::::A22-5"
    outcome: reject
    kind: NUMBER_PARSE_FAILURE
    found: ""
    span: {start: 13, end: 13}
`)

	corpus, err := Load(path)
	require.NoError(t, err)
	require.Len(t, corpus.Cases, 3)

	assert.True(t, corpus.Cases[0].Accept())
	assert.Equal(t, "USB::0x1A34::0x5678::A22-5", corpus.Cases[0].Canonical)

	assert.False(t, corpus.Cases[1].Accept())
	require.NotNil(t, corpus.Cases[1].Found)
	assert.Equal(t, "TCP", *corpus.Cases[1].Found)
	assert.Nil(t, corpus.Cases[1].Span)

	// A pinned empty offending run is distinct from no pin at all.
	require.NotNil(t, corpus.Cases[2].Found)
	assert.Equal(t, "", *corpus.Cases[2].Found)
	require.NotNil(t, corpus.Cases[2].Span)
	assert.Equal(t, 13, corpus.Cases[2].Span.Start)
	assert.Equal(t, 13, corpus.Cases[2].Span.End)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	path := writeCorpus(t, "cases: [unterminated")
	_, err := Load(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Message, "parsing corpus YAML")
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{
			name:    "no cases",
			content: "cases: []",
			message: "corpus contains no cases",
		},
		{
			name: "unnamed case",
			content: `
cases:
  - input: "USB"
    outcome: reject
    kind: INCOMPLETE_ADDRESS
`,
			message: "case 0 has no name",
		},
		{
			name: "duplicate name",
			content: `
cases:
  - name: twice
    input: "USB"
    outcome: reject
    kind: INCOMPLETE_ADDRESS
  - name: twice
    input: "US"
    outcome: reject
    kind: INCOMPLETE_ADDRESS
`,
			message: `duplicate case name "twice"`,
		},
		{
			name: "accept without canonical",
			content: `
cases:
  - name: minimal
    input: "USB::0x1::0x2::s"
    outcome: accept
`,
			message: `accept case "minimal" pins no canonical form`,
		},
		{
			name: "accept with reject expectations",
			content: `
cases:
  - name: confused
    input: "USB::0x1::0x2::s"
    outcome: accept
    canonical: "USB::0x1::0x2::s"
    kind: NOT_USB_PREFIX
`,
			message: `accept case "confused" carries reject expectations`,
		},
		{
			name: "reject without kind",
			content: `
cases:
  - name: vague
    input: "US"
    outcome: reject
`,
			message: `reject case "vague" pins no error kind`,
		},
		{
			name: "unknown outcome",
			content: `
cases:
  - name: odd
    input: "USB"
    outcome: maybe
`,
			message: `case "odd" has outcome "maybe"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCorpus(t, tt.content))
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, loadErr.Message, tt.message)
		})
	}
}

func TestLoadErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &LoadError{File: "corpus.yaml", Message: "reading corpus", Cause: cause}
	assert.Equal(t, "corpus.yaml: reading corpus: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := &LoadError{File: "corpus.yaml", Message: "corpus contains no cases"}
	assert.Equal(t, "corpus.yaml: corpus contains no cases", bare.Error())
	assert.NoError(t, bare.Unwrap())
}
