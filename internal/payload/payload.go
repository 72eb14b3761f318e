// Package payload defines the versioned JSON document a fit produces and
// its serialization. The schema is consumed by the runtime animation
// player; field names and shapes are a wire contract.
package payload

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/gaitfit/internal/fsutil"
)

// Version is the payload schema version this package writes.
const Version = 1

// Phase identifies which estimator strategy produced the phase
// parameterization and the length of one gait cycle.
type Phase struct {
	Mode          string  `json:"mode"`
	CycleDuration float64 `json:"cycle_duration"`
}

// Units documents the units of the fitted channels.
type Units struct {
	Rotation    string `json:"rotation"`
	Translation string `json:"translation"`
}

// Channels holds the per-axis coefficient arrays of one transform channel.
// A nil axis marshals as null: that axis was never authored and holds its
// rest value.
type Channels struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	Z []float64 `json:"z"`
}

// Bone holds the fitted coefficient sets for one bone.
type Bone struct {
	Translation Channels `json:"translation"`
	Rotation    Channels `json:"rotation"`
}

// Contacts carries the fitted foot-contact likelihood series and the
// threshold the runtime should apply when reconstructing footfalls.
type Contacts struct {
	Left      []float64 `json:"left"`
	Right     []float64 `json:"right"`
	Threshold float64   `json:"threshold"`
}

// Payload is the complete fit result for one clip.
type Payload struct {
	Version   int              `json:"version"`
	Name      string           `json:"name"`
	Duration  float64          `json:"duration"`
	Order     int              `json:"order"`
	SampleFPS int              `json:"sample_fps"`
	Phase     Phase            `json:"phase"`
	Units     Units            `json:"units"`
	Bones     map[string]*Bone `json:"bones"`
	Contacts  *Contacts        `json:"contacts,omitempty"`
}

// DefaultUnits are the units every fit emits: rotations in degrees,
// translations in the FBX local space of the source clip.
func DefaultUnits() Units {
	return Units{Rotation: "degrees", Translation: "fbx_local"}
}

// Marshal renders the payload as indented JSON. Map keys marshal sorted,
// so output is deterministic for identical fits.
func (p *Payload) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes the payload to the named file.
func Write(fs fsutil.FileSystem, path string, p *Payload) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}
	if err := fs.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Read loads and validates a payload file, for the report tooling.
func Read(fs fsutil.FileSystem, path string) (*Payload, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	if p.Version != Version {
		return nil, fmt.Errorf("unsupported payload version %d (want %d)", p.Version, Version)
	}
	return &p, nil
}
