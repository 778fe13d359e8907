// Package usbid resolves USB vendor and model identifiers to
// human-readable instrument names.
//
// The registry ships embedded in the binary, so lookups never touch the
// filesystem or network. It covers common test-and-measurement vendors;
// unknown identifiers are reported as such rather than failing.
package usbid

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fisa-project/fisa-go/pkg/address"
)

//go:embed data/*.yaml
var registryFS embed.FS

const registryPath = "data/usb-ids.yaml"

// Vendor is one manufacturer entry of the registry.
type Vendor struct {
	ID     uint16
	Name   string
	Models map[uint16]string
}

// Registry maps USB vendor and product identifiers to names.
type Registry struct {
	vendors map[uint16]Vendor
}

// vendorEntry and modelEntry mirror the YAML layout.
type vendorEntry struct {
	ID     uint16       `yaml:"id"`
	Name   string       `yaml:"name"`
	Models []modelEntry `yaml:"models"`
}

type modelEntry struct {
	ID   uint16 `yaml:"id"`
	Name string `yaml:"name"`
}

type registryFile struct {
	Vendors []vendorEntry `yaml:"vendors"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

var (
	loadOnce sync.Once
	loaded   *Registry
	loadErr  error
)

// Load returns the embedded registry. The file is parsed once; later
// calls return the cached result.
func Load() (*Registry, error) {
	loadOnce.Do(func() {
		loaded, loadErr = parseRegistry()
	})
	return loaded, loadErr
}

func parseRegistry() (*Registry, error) {
	data, err := registryFS.ReadFile(registryPath)
	if err != nil {
		return nil, fmt.Errorf("reading embedded registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry YAML: %w", err)
	}

	vendors := make(map[uint16]Vendor, len(file.Vendors))
	for _, v := range file.Vendors {
		if v.Name == "" {
			return nil, fmt.Errorf("vendor 0x%04X has no name", v.ID)
		}
		if _, exists := vendors[v.ID]; exists {
			return nil, fmt.Errorf("duplicate vendor 0x%04X", v.ID)
		}

		models := make(map[uint16]string, len(v.Models))
		for _, m := range v.Models {
			if m.Name == "" {
				return nil, fmt.Errorf("vendor 0x%04X model 0x%04X has no name", v.ID, m.ID)
			}
			if _, exists := models[m.ID]; exists {
				return nil, fmt.Errorf("vendor 0x%04X has duplicate model 0x%04X", v.ID, m.ID)
			}
			models[m.ID] = m.Name
		}
		vendors[v.ID] = Vendor{ID: v.ID, Name: v.Name, Models: models}
	}

	return &Registry{vendors: vendors}, nil
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// VendorName returns the name registered for a USB vendor ID.
func (r *Registry) VendorName(id uint16) (string, bool) {
	v, ok := r.vendors[id]
	if !ok {
		return "", false
	}
	return v.Name, true
}

// ModelName returns the name registered for a vendor/model pair.
func (r *Registry) ModelName(vendor, model uint16) (string, bool) {
	v, ok := r.vendors[vendor]
	if !ok {
		return "", false
	}
	name, ok := v.Models[model]
	return name, ok
}

// Vendors returns all registered vendors sorted by ID.
func (r *Registry) Vendors() []Vendor {
	out := make([]Vendor, 0, len(r.vendors))
	for _, v := range r.vendors {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------------------------------------------------------------------
// Address annotation
// ---------------------------------------------------------------------------

// Description names the device behind an address, as far as the
// registry knows it.
type Description struct {
	// Vendor is the manufacturer name, or empty when unregistered.
	Vendor string

	// Model is the model name, or empty when unregistered.
	Model string
}

// String renders the description for display.
func (d Description) String() string {
	switch {
	case d.Vendor == "":
		return "unknown device"
	case d.Model == "":
		return d.Vendor
	default:
		return d.Vendor + " " + d.Model
	}
}

// Known reports whether the registry recognized at least the vendor.
func (d Description) Known() bool {
	return d.Vendor != ""
}

// Describe resolves an address's manufacturer ID and model code against
// the registry.
func (r *Registry) Describe(addr address.UsbAddress) Description {
	var d Description
	if name, ok := r.VendorName(addr.ManufacturerID()); ok {
		d.Vendor = name
	}
	if name, ok := r.ModelName(addr.ManufacturerID(), addr.ModelCode()); ok {
		d.Model = name
	}
	return d
}
