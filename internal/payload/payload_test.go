package payload

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/banshee-data/gaitfit/internal/fsutil"
)

func samplePayload() *Payload {
	return &Payload{
		Version:   Version,
		Name:      "Walking",
		Duration:  1.2,
		Order:     4,
		SampleFPS: 60,
		Phase:     Phase{Mode: "left_foot_contact", CycleDuration: 1.2},
		Units:     DefaultUnits(),
		Bones: map[string]*Bone{
			"mixamorig:Hips": {
				Translation: Channels{Y: []float64{1.0, 0.1, 0, 0.05, 0, 0, 0, 0, 0}},
				Rotation:    Channels{X: []float64{3.5, 0, 0, 0, 0, 0, 0, 0, 0}},
			},
		},
		Contacts: &Contacts{
			Left:      []float64{0.9, 0.1, 0, 0, 0, 0, 0, 0, 0},
			Right:     []float64{0.1, -0.1, 0, 0, 0, 0, 0, 0, 0},
			Threshold: 0.5,
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	want := samplePayload()
	if err := Write(fs, "walk.json", want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	got, err := Read(fs, "walk.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("payload round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnauthoredAxesMarshalAsNull(t *testing.T) {
	p := samplePayload()
	data, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	bones := raw["bones"].(map[string]any)
	hips := bones["mixamorig:Hips"].(map[string]any)
	trans := hips["translation"].(map[string]any)
	if trans["y"] == nil {
		t.Error("authored y axis marshaled as null")
	}
	if trans["x"] != nil || trans["z"] != nil {
		t.Errorf("unauthored axes should marshal as null, got x=%v z=%v", trans["x"], trans["z"])
	}
}

func TestContactsOmittedWhenAbsent(t *testing.T) {
	p := samplePayload()
	p.Contacts = nil
	data, err := p.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), `"contacts"`) {
		t.Error("contacts key present despite nil contacts block")
	}
}

func TestTopLevelKeys(t *testing.T) {
	data, err := samplePayload().Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{
		"version", "name", "duration", "order", "sample_fps",
		"phase", "units", "bones", "contacts",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
	units := raw["units"].(map[string]any)
	if units["rotation"] != "degrees" || units["translation"] != "fbx_local" {
		t.Errorf("unexpected units block: %v", units)
	}
}

func TestReadRejectsUnknownVersion(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	if err := fs.WriteFile("bad.json", []byte(`{"version": 99}`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Read(fs, "bad.json"); err == nil {
		t.Error("expected error for unsupported payload version")
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	if err := fs.WriteFile("bad.json", []byte(`{not json`), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Read(fs, "bad.json"); err == nil {
		t.Error("expected error for malformed payload")
	}
}
