// Package book manages a named collection of instrument addresses.
//
// A Book maps short aliases to resource addresses so operators can say
// "scope" instead of "USB::0x1AB1::0x04CE::DS1ZA0001::INSTR". Books
// persist as human-editable YAML through a Store; loading validates
// every entry, so a book on disk is always resolvable.
package book

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fisa-project/fisa-go/pkg/address"
)

// FormatVersion is the current version of the book file format.
const FormatVersion = 1

// Alias validation errors.
var (
	ErrAliasEmpty     = errors.New("alias must not be empty")
	ErrAliasDelimiter = errors.New("alias must not contain the address delimiter")
	ErrDuplicateAlias = errors.New("alias already registered")
	ErrNotFound       = errors.New("alias not found")
)

// Book is a named collection of instrument addresses. Entries keep
// their insertion order in the file; lookups are by exact alias.
type Book struct {
	// Version is the book file format version.
	Version int `yaml:"version"`

	// SavedAt is when the book was last saved.
	SavedAt time.Time `yaml:"saved_at"`

	// Entries lists the aliases in insertion order.
	Entries []Entry `yaml:"entries,omitempty"`
}

// Entry is one alias in the book. Address holds the canonical text
// form, which keeps the file human-editable; Validate confirms it
// parses.
type Entry struct {
	// Alias is the short name. Never empty, never contains "::".
	Alias string `yaml:"alias"`

	// Address is the canonical address text.
	Address string `yaml:"address"`

	// Description is free text about the instrument.
	Description string `yaml:"description,omitempty"`

	// AddedAt is when the alias was registered.
	AddedAt time.Time `yaml:"added_at"`
}

// UsbAddress parses the entry's stored address text.
func (e Entry) UsbAddress() (address.UsbAddress, error) {
	return address.Parse(e.Address)
}

// New creates an empty book.
func New() *Book {
	return &Book{Version: FormatVersion}
}

// checkAlias enforces the alias rules. The delimiter ban guarantees an
// alias can never collide with valid address text, which keeps Resolve
// unambiguous.
func checkAlias(alias string) error {
	if alias == "" {
		return ErrAliasEmpty
	}
	if strings.Contains(alias, "::") {
		return fmt.Errorf("%w: %q", ErrAliasDelimiter, alias)
	}
	return nil
}

// Add registers an address under an alias. The alias must be non-empty,
// free of the "::" delimiter, and not already registered.
func (b *Book) Add(alias string, addr address.UsbAddress, description string) error {
	if err := checkAlias(alias); err != nil {
		return err
	}
	if _, exists := b.Get(alias); exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
	}
	b.Entries = append(b.Entries, Entry{
		Alias:       alias,
		Address:     addr.String(),
		Description: description,
		AddedAt:     time.Now(),
	})
	return nil
}

// Remove deletes an alias from the book.
func (b *Book) Remove(alias string) error {
	for i, e := range b.Entries {
		if e.Alias == alias {
			b.Entries = append(b.Entries[:i], b.Entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNotFound, alias)
}

// Get returns the entry registered under an alias.
func (b *Book) Get(alias string) (Entry, bool) {
	for _, e := range b.Entries {
		if e.Alias == alias {
			return e, true
		}
	}
	return Entry{}, false
}

// List returns the entries sorted by alias.
func (b *Book) List() []Entry {
	out := append([]Entry(nil), b.Entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].Alias < out[j].Alias })
	return out
}

// Len returns the number of entries.
func (b *Book) Len() int {
	return len(b.Entries)
}

// Resolve turns operator input into an address: registered aliases
// resolve to their stored address, anything else is parsed as address
// text. Parse errors pass through unchanged, so callers keep the full
// diagnostics.
func (b *Book) Resolve(text string) (address.UsbAddress, error) {
	if entry, ok := b.Get(text); ok {
		return entry.UsbAddress()
	}
	return address.Parse(text)
}

// Validate checks every entry: alias rules, duplicate detection, and
// that each stored address parses.
func (b *Book) Validate() error {
	if b.Version > FormatVersion {
		return fmt.Errorf("book format version %d not supported (newest known is %d)", b.Version, FormatVersion)
	}
	seen := make(map[string]bool, len(b.Entries))
	for _, e := range b.Entries {
		if err := checkAlias(e.Alias); err != nil {
			return err
		}
		if seen[e.Alias] {
			return fmt.Errorf("%w: %q", ErrDuplicateAlias, e.Alias)
		}
		seen[e.Alias] = true
		if _, err := address.Parse(e.Address); err != nil {
			return fmt.Errorf("alias %q holds an invalid address: %w", e.Alias, err)
		}
	}
	return nil
}
