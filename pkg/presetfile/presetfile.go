// Package presetfile loads a back-end's preset menu from a YAML bank file
// instead of hard-coding it in Go, so a deployment can ship or override the
// "Type" menu's entries without a rebuild. The load/validate shape follows
// the same read-then-unmarshal-then-validate pattern as the example corpus's
// own YAML configuration loader.
package presetfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"puzzlecore/pkg/backend"
)

// Entry is one named preset as it appears on disk. Params is the back-end's
// own encoded parameter string (the same format EncodeParams/DecodeParams
// exchange), not a generic struct, since each back-end's parameter shape is
// private to it.
type Entry struct {
	Name    string  `yaml:"name"`
	Params  string  `yaml:"params"`
	SubMenu []Entry `yaml:"submenu,omitempty"`
}

// Bank is a full preset menu, top to bottom, as loaded from YAML.
type Bank struct {
	Presets []Entry `yaml:"presets"`
}

// Load reads and validates a preset bank from a YAML file.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a preset bank from YAML bytes already in memory,
// useful for tests and for presets embedded at build time.
func LoadFromBytes(data []byte) (*Bank, error) {
	var bk Bank
	if err := yaml.Unmarshal(data, &bk); err != nil {
		return nil, fmt.Errorf("parsing preset YAML: %w", err)
	}
	if err := bk.Validate(); err != nil {
		return nil, fmt.Errorf("validating preset bank: %w", err)
	}
	return &bk, nil
}

// Validate checks every entry, at every nesting depth, has a non-empty name
// and a non-empty encoded parameter string, and that names are unique
// within each sibling list (duplicate menu entries are a config mistake,
// not a back-end concern).
func (bk *Bank) Validate() error {
	return validateEntries(bk.Presets)
}

func validateEntries(entries []Entry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Name == "" {
			return fmt.Errorf("preset entry with empty name")
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate preset name %q", e.Name)
		}
		seen[e.Name] = true
		if e.Params == "" && len(e.SubMenu) == 0 {
			return fmt.Errorf("preset %q has neither params nor a submenu", e.Name)
		}
		if err := validateEntries(e.SubMenu); err != nil {
			return fmt.Errorf("preset %q: %w", e.Name, err)
		}
	}
	return nil
}

// Presets decodes every entry against be's own parameter type and returns
// the back-end-facing menu DefaultParams/Presets callers expect, nesting
// SubMenu entries recursively. Each entry is decoded over be.DefaultParams(),
// so a malformed params string for back-end be leaves whichever default
// values DecodeParams did not overwrite — callers that
// want stricter checking should round-trip through be.ValidateParams
// themselves, since presetfile has no way to know what "valid" means for an
// arbitrary back-end.
func (bk *Bank) Presets(be backend.Backend) []backend.Preset {
	return decodeEntries(bk.Presets, be)
}

func decodeEntries(entries []Entry, be backend.Backend) []backend.Preset {
	out := make([]backend.Preset, 0, len(entries))
	for _, e := range entries {
		preset := backend.Preset{Name: e.Name}
		if e.Params != "" {
			p := be.DefaultParams()
			be.DecodeParams(p, e.Params)
			preset.Params = p
		}
		if len(e.SubMenu) > 0 {
			preset.SubMenu = decodeEntries(e.SubMenu, be)
		}
		out = append(out, preset)
	}
	return out
}
