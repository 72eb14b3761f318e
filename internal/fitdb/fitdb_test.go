package fitdb

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/banshee-data/gaitfit/internal/payload"
)

func testPayload() *payload.Payload {
	return &payload.Payload{
		Version:   payload.Version,
		Name:      "Walking",
		Duration:  1.2,
		Order:     4,
		SampleFPS: 60,
		Phase:     payload.Phase{Mode: "left_foot_contact", CycleDuration: 1.2},
		Units:     payload.DefaultUnits(),
		Bones: map[string]*payload.Bone{
			"mixamorig:Hips": {},
		},
		Contacts: &payload.Contacts{Threshold: 0.5},
	}
}

func TestRecordAndListRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fits.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	run := Run{
		ID:         uuid.New().String(),
		AnimPath:   "walk.fbx",
		ClipName:   "Walking",
		OutputPath: "walk.json",
		Payload:    testPayload(),
	}
	if err := db.RecordRun(run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	runs, err := db.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != run.ID {
		t.Errorf("run id = %q, want %q", runs[0].ID, run.ID)
	}
	if runs[0].ClipName != "Walking" {
		t.Errorf("clip name = %q, want Walking", runs[0].ClipName)
	}
}

func TestRecordRunStoresPayloadSummary(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fits.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	run := Run{
		ID:         uuid.New().String(),
		AnimPath:   "walk.fbx",
		ClipName:   "Walking",
		OutputPath: "walk.json",
		Payload:    testPayload(),
	}
	if err := db.RecordRun(run); err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	var mode string
	var boneCount, hasContacts int
	row := db.QueryRow(`SELECT phase_mode, bone_count, has_contacts FROM fit_runs WHERE id = ?`, run.ID)
	if err := row.Scan(&mode, &boneCount, &hasContacts); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if mode != "left_foot_contact" {
		t.Errorf("phase_mode = %q, want left_foot_contact", mode)
	}
	if boneCount != 1 {
		t.Errorf("bone_count = %d, want 1", boneCount)
	}
	if hasContacts != 1 {
		t.Errorf("has_contacts = %d, want 1", hasContacts)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "fits.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	db.Close()

	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	db.Close()
}
