package main

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/gaitfit/internal/fsutil"
	"github.com/banshee-data/gaitfit/internal/pipeline"
)

// diagDocument is the on-disk shape of the -diag output, consumed by the
// fit-report tool.
type diagDocument struct {
	Times        []float64 `json:"times"`
	LeftHeight   []float64 `json:"left_height"`
	RightHeight  []float64 `json:"right_height"`
	LeftContact  []float64 `json:"left_contact"`
	RightContact []float64 `json:"right_contact"`
	Phase        []float64 `json:"phase"`
}

func writeDiagnostics(fs fsutil.FileSystem, path string, diag *pipeline.Diagnostics) error {
	doc := diagDocument{
		Times:        diag.Times,
		LeftHeight:   diag.LeftHeight,
		RightHeight:  diag.RightHeight,
		LeftContact:  diag.LeftContact,
		RightContact: diag.RightContact,
		Phase:        diag.Phase,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics: %w", err)
	}
	return fs.WriteFile(path, append(data, '\n'), 0o644)
}
