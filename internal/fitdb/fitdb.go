// Package fitdb records fit runs in a local sqlite database so batch
// re-fits of an animation library can be audited and compared over time.
package fitdb

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/banshee-data/gaitfit/internal/payload"
)

type FitDB struct {
	*sql.DB
}

//go:embed schema.sql
var schemaSQL string

// Run is one recorded fit invocation.
type Run struct {
	ID         string
	AnimPath   string
	ClipName   string
	OutputPath string
	Payload    *payload.Payload
}

// Open opens (creating if needed) the fit-run database at path.
func Open(path string) (*FitDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize fit database schema: %v", err)
	}

	return &FitDB{db}, nil
}

// RecordRun inserts one fit-run row summarizing the produced payload.
func (fdb *FitDB) RecordRun(run Run) error {
	query := `
		INSERT INTO fit_runs (id, anim_path, clip_name, output_path,
			duration_sec, sample_fps, fourier_order, phase_mode,
			cycle_duration_sec, bone_count, has_contacts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	p := run.Payload
	hasContacts := 0
	if p.Contacts != nil {
		hasContacts = 1
	}

	_, err := fdb.Exec(query, run.ID, run.AnimPath, run.ClipName, run.OutputPath,
		p.Duration, p.SampleFPS, p.Order, p.Phase.Mode,
		p.Phase.CycleDuration, len(p.Bones), hasContacts)
	if err != nil {
		return fmt.Errorf("failed to insert fit run: %v", err)
	}

	return nil
}

// RecentRuns returns summaries of the most recent fit runs, newest first.
func (fdb *FitDB) RecentRuns(limit int) ([]Run, error) {
	query := `
		SELECT id, anim_path, clip_name, output_path
		FROM fit_runs
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := fdb.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fit runs: %v", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.AnimPath, &r.ClipName, &r.OutputPath); err != nil {
			return nil, fmt.Errorf("failed to scan fit run: %v", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
