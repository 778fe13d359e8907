package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fisa-project/fisa-go/pkg/address"
	"github.com/fisa-project/fisa-go/pkg/book"
	"github.com/fisa-project/fisa-go/pkg/trace"
)

func TestRunParse_Valid(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{"USB::0x1AB1::0x4CE::DS1ZA0001::INSTR"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "Canonical:       USB::0x1AB1::0x4CE::DS1ZA0001::INSTR") {
		t.Errorf("expected canonical line, got: %s", output)
	}
	if !strings.Contains(output, "0x1AB1 (Rigol Technologies)") {
		t.Errorf("expected vendor annotation, got: %s", output)
	}
	if !strings.Contains(output, "0x4CE (DS1000Z Series Oscilloscope)") {
		t.Errorf("expected model annotation, got: %s", output)
	}
	if !strings.Contains(output, "INSTR:           true") {
		t.Errorf("expected INSTR true, got: %s", output)
	}
}

func TestRunParse_OptionalFieldsAbsent(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{"USB::0x1A34::0x5678::A22-5"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, exitCode)
	}

	output := stdout.String()
	if !strings.Contains(output, "Board:           (none)") {
		t.Errorf("expected absent board, got: %s", output)
	}
	if !strings.Contains(output, "Interface:       (none)") {
		t.Errorf("expected absent interface, got: %s", output)
	}
	if !strings.Contains(output, "INSTR:           false") {
		t.Errorf("expected INSTR false, got: %s", output)
	}
}

func TestRunParse_Invalid(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{"TCPIP::192.168.1.1::INSTR"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stdout.String(), `Expected "USB" at address start`) {
		t.Errorf("expected prefix diagnostic, got: %s", stdout.String())
	}
}

func TestRunParse_JSON(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{"-json", "USB2::0x5E6::0x2110::8012345"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, exitCode)
	}

	output := stdout.String()
	if !strings.Contains(output, `"valid": true`) {
		t.Errorf("expected valid true, got: %s", output)
	}
	if !strings.Contains(output, `"canonical": "USB2::0x5E6::0x2110::8012345"`) {
		t.Errorf("expected canonical field, got: %s", output)
	}
	if !strings.Contains(output, `"board": 2`) {
		t.Errorf("expected board field, got: %s", output)
	}
	if !strings.Contains(output, `"vendor": "Keithley Instruments"`) {
		t.Errorf("expected vendor annotation, got: %s", output)
	}
}

func TestRunParse_JSONInvalid(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{"-json", "USB::0y12::0x1::s"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}

	output := stdout.String()
	if !strings.Contains(output, `"valid": false`) {
		t.Errorf("expected valid false, got: %s", output)
	}
	if !strings.Contains(output, `"kind": "NOT_HEX_FORMAT"`) {
		t.Errorf("expected kind field, got: %s", output)
	}
	if !strings.Contains(output, `"start": 5`) {
		t.Errorf("expected span start, got: %s", output)
	}
}

func TestRunParse_NoArgs(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunParse([]string{}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "address required") {
		t.Errorf("expected 'address required' in stderr, got: %s", stderr.String())
	}
}

func TestRunFormat_Canonicalizes(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"USB0::0X1ab1::0x04ce::DS1ZA0001::instr"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("expected exit code %d, got %d", exitSuccess, exitCode)
	}
	if got := stdout.String(); got != "USB0::0x1AB1::0x4CE::DS1ZA0001::INSTR\n" {
		t.Errorf("unexpected canonical output: %q", got)
	}
}

func TestRunFormat_Build(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{
		"-vendor", "0x1AB1", "-model", "0x4CE", "-serial", "DS1ZA0001", "-iface", "3", "-instr",
	}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, exitCode, stderr.String())
	}
	if got := stdout.String(); got != "USB::0x1AB1::0x4CE::DS1ZA0001::3::INSTR\n" {
		t.Errorf("unexpected built address: %q", got)
	}
}

func TestRunFormat_BuildDecimalVendor(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"-vendor", "6833", "-model", "0x4CE", "-serial", "S1"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("expected exit code %d, got %d: %s", exitSuccess, exitCode, stderr.String())
	}
	// 6833 == 0x1AB1
	if got := stdout.String(); got != "USB::0x1AB1::0x4CE::S1\n" {
		t.Errorf("unexpected built address: %q", got)
	}
}

func TestRunFormat_BuildRequiresParts(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"-vendor", "0x1AB1"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "required") {
		t.Errorf("expected missing-parts error, got: %s", stderr.String())
	}
}

func TestRunFormat_BuildRejectsDelimiterInSerial(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"-vendor", "0x1", "-model", "0x2", "-serial", "A::B"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "field delimiter") {
		t.Errorf("expected delimiter error, got: %s", stderr.String())
	}
}

func TestRunFormat_RejectsBothModes(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"-serial", "S1", "USB::0x1::0x2::s"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "not both") {
		t.Errorf("expected both-modes error, got: %s", stderr.String())
	}
}

func TestRunFormat_InvalidAddress(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{"USB::0x1::0x2"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stdout.String(), "incomplete address") {
		t.Errorf("expected incomplete diagnostic, got: %s", stdout.String())
	}
}

func TestRunFormat_NoArgs(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunFormat([]string{}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
}

func writeCheckFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "addresses.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}
	return path
}

func TestRunCheck_AllValid(t *testing.T) {
	path := writeCheckFile(t, `# bench instruments
USB::0x1AB1::0x4CE::DS1ZA0001::INSTR

USB2::0x5E6::0x2110::8012345
`)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{path}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stderr: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Checked 2 addresses: 2 ok, 0 failed") {
		t.Errorf("expected summary, got: %s", stdout.String())
	}
}

func TestRunCheck_ReportsFailures(t *testing.T) {
	path := writeCheckFile(t, `USB::0x1AB1::0x4CE::DS1ZA0001
USB::0y12::0x1::s
USB::0x1::0x2
`)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{path}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}

	output := stdout.String()
	if !strings.Contains(output, "line 2:") {
		t.Errorf("expected line 2 diagnostic, got: %s", output)
	}
	if !strings.Contains(output, "line 3:") {
		t.Errorf("expected line 3 diagnostic, got: %s", output)
	}
	if !strings.Contains(output, "Checked 3 addresses: 1 ok, 2 failed") {
		t.Errorf("expected summary, got: %s", output)
	}
}

func TestRunCheck_CapturesTrace(t *testing.T) {
	path := writeCheckFile(t, `USB::0x1AB1::0x4CE::DS1ZA0001
not an address
`)
	tracePath := filepath.Join(t.TempDir(), "session.alog")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{"-trace", tracePath, path}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}

	reader, err := trace.NewReader(tracePath)
	if err != nil {
		t.Fatalf("failed to open trace: %v", err)
	}
	defer reader.Close()

	var accepted, rejected int
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		switch event.Outcome {
		case trace.OutcomeAccepted:
			accepted++
		case trace.OutcomeRejected:
			rejected++
		}
	}
	if accepted != 1 || rejected != 1 {
		t.Errorf("expected 1 accepted and 1 rejected event, got %d/%d", accepted, rejected)
	}
}

func TestRunCheck_ResolvesAliases(t *testing.T) {
	dir := t.TempDir()

	bookPath := filepath.Join(dir, "lab.yaml")
	b := book.New()
	addr := address.MustParse("USB::0x1AB1::0x4CE::DS1ZA0001::INSTR")
	if err := b.Add("scope", addr, "bench scope"); err != nil {
		t.Fatalf("failed to add entry: %v", err)
	}
	if err := book.NewStore(bookPath).Save(b); err != nil {
		t.Fatalf("failed to save book: %v", err)
	}

	path := writeCheckFile(t, "scope\n")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{"-book", bookPath, path}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Errorf("expected exit code %d, got %d", exitSuccess, exitCode)
		t.Logf("stdout: %s\nstderr: %s", stdout.String(), stderr.String())
	}
	if !strings.Contains(stdout.String(), "1 ok, 0 failed") {
		t.Errorf("expected all ok, got: %s", stdout.String())
	}
}

func TestRunCheck_MissingInputFile(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{filepath.Join(t.TempDir(), "nope.txt")}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
}

func TestRunCheck_NoArgs(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunCheck([]string{}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "input file required") {
		t.Errorf("expected input-file error, got: %s", stderr.String())
	}
}

func TestRunBook_AddAndList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{
		"add", "-file", file, "scope", "USB::0x1ab1::0x04ce::DS1ZA0001::instr", "bench", "scope",
	}, stdout, stderr)
	if exitCode != exitSuccess {
		t.Fatalf("add failed with %d: %s", exitCode, stderr.String())
	}
	if !strings.Contains(stdout.String(), "Added scope -> USB::0x1AB1::0x4CE::DS1ZA0001::INSTR") {
		t.Errorf("expected add confirmation, got: %s", stdout.String())
	}

	stdout.Reset()
	exitCode = RunBook([]string{"list", "-file", file}, stdout, stderr)
	if exitCode != exitSuccess {
		t.Fatalf("list failed with %d: %s", exitCode, stderr.String())
	}

	output := stdout.String()
	if !strings.Contains(output, "1 entries") {
		t.Errorf("expected entry count, got: %s", output)
	}
	if !strings.Contains(output, "scope") || !strings.Contains(output, "USB::0x1AB1::0x4CE::DS1ZA0001::INSTR") {
		t.Errorf("expected entry line, got: %s", output)
	}
	if !strings.Contains(output, "# bench scope") {
		t.Errorf("expected description comment, got: %s", output)
	}
}

func TestRunBook_AddRejectsInvalidAddress(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{"add", "-file", file, "scope", "GPIB::9::INSTR"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stdout.String(), `Expected "USB"`) {
		t.Errorf("expected diagnostic, got: %s", stdout.String())
	}
}

func TestRunBook_AddDuplicate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	if exitCode := RunBook([]string{"add", "-file", file, "dmm", "USB::0x5E6::0x2110::8012345"}, stdout, stderr); exitCode != exitSuccess {
		t.Fatalf("first add failed: %s", stderr.String())
	}

	exitCode := RunBook([]string{"add", "-file", file, "dmm", "USB::0x5E6::0x2110::8012345"}, stdout, stderr)
	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "already registered") {
		t.Errorf("expected duplicate error, got: %s", stderr.String())
	}
}

func TestRunBook_RemoveThenListEmpty(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	if exitCode := RunBook([]string{"add", "-file", file, "dmm", "USB::0x5E6::0x2110::8012345"}, stdout, stderr); exitCode != exitSuccess {
		t.Fatalf("add failed: %s", stderr.String())
	}

	stdout.Reset()
	if exitCode := RunBook([]string{"remove", "-file", file, "dmm"}, stdout, stderr); exitCode != exitSuccess {
		t.Fatalf("remove failed: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Removed dmm") {
		t.Errorf("expected remove confirmation, got: %s", stdout.String())
	}

	stdout.Reset()
	if exitCode := RunBook([]string{"list", "-file", file}, stdout, stderr); exitCode != exitSuccess {
		t.Fatalf("list failed: %s", stderr.String())
	}
	if !strings.Contains(stdout.String(), "no entries") {
		t.Errorf("expected empty book, got: %s", stdout.String())
	}
}

func TestRunBook_RemoveMissing(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{"remove", "-file", file, "ghost"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "does not exist") {
		t.Errorf("expected missing-book error, got: %s", stderr.String())
	}
}

func TestRunBook_ResolveAlias(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	if exitCode := RunBook([]string{"add", "-file", file, "scope", "USB::0x1AB1::0x4CE::DS1ZA0001::INSTR"}, stdout, stderr); exitCode != exitSuccess {
		t.Fatalf("add failed: %s", stderr.String())
	}

	stdout.Reset()
	exitCode := RunBook([]string{"resolve", "-file", file, "scope"}, stdout, stderr)
	if exitCode != exitSuccess {
		t.Fatalf("resolve failed with %d: %s", exitCode, stderr.String())
	}
	if got := stdout.String(); got != "USB::0x1AB1::0x4CE::DS1ZA0001::INSTR\n" {
		t.Errorf("unexpected resolve output: %q", got)
	}
}

func TestRunBook_ResolveRawAddressWithoutBook(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{"resolve", "-file", file, "USB1::0x0957::0x0407::MY44-X"}, stdout, stderr)

	if exitCode != exitSuccess {
		t.Fatalf("resolve failed with %d: %s", exitCode, stderr.String())
	}
	if got := stdout.String(); got != "USB1::0x957::0x407::MY44-X\n" {
		t.Errorf("unexpected resolve output: %q", got)
	}
}

func TestRunBook_ResolveUnknownInput(t *testing.T) {
	file := filepath.Join(t.TempDir(), "lab.yaml")

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{"resolve", "-file", file, "ghost"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stdout.String(), `Expected "USB"`) {
		t.Errorf("expected parse diagnostic, got: %s", stdout.String())
	}
}

func TestRunBook_UnknownAction(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{"rename", "a", "b"}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "Unknown book action: rename") {
		t.Errorf("expected unknown-action error, got: %s", stderr.String())
	}
}

func TestRunBook_NoAction(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	exitCode := RunBook([]string{}, stdout, stderr)

	if exitCode != exitFailure {
		t.Errorf("expected exit code %d, got %d", exitFailure, exitCode)
	}
	if !strings.Contains(stderr.String(), "book action required") {
		t.Errorf("expected action-required error, got: %s", stderr.String())
	}
}
