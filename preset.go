package kuoro

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Preset is a named, serializable snapshot of the settings shared by the
// whole voice pool: the envelope shape, the note and the free-form parameter
// bag. Presets are stored as YAML or JSON files.
type Preset struct {
	Name       string     `yaml:"name,omitempty" json:"name,omitempty"`
	Note       byte       `yaml:"note" json:"note"`
	Envelope   Envelope   `yaml:"envelope" json:"envelope"`
	Parameters Parameters `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// ParsePreset parses a preset first as JSON and, failing that, as YAML.
func ParsePreset(data []byte) (Preset, error) {
	var preset Preset
	if errJSON := json.Unmarshal(data, &preset); errJSON != nil {
		if errYaml := yaml.Unmarshal(data, &preset); errYaml != nil {
			return Preset{}, fmt.Errorf("the preset could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return preset, nil
}

// Apply broadcasts the preset to the whole pool: envelope, then note, then
// parameters. An error from a voice aborts the rest of the broadcasts.
func (p Preset) Apply(a *Allocator) error {
	if err := a.SetEnvelope(p.Envelope); err != nil {
		return fmt.Errorf("preset %v: %w", p.Name, err)
	}
	if err := a.SetNote(p.Note); err != nil {
		return fmt.Errorf("preset %v: %w", p.Name, err)
	}
	if len(p.Parameters) > 0 {
		if err := a.SetParameters(p.Parameters); err != nil {
			return fmt.Errorf("preset %v: %w", p.Name, err)
		}
	}
	return nil
}
