// gaitfit fits a cyclic Fourier representation of a gait animation clip
// from its ASCII FBX source and writes the result as a versioned JSON
// payload for the runtime animation player.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/gaitfit/internal/config"
	"github.com/banshee-data/gaitfit/internal/fitdb"
	"github.com/banshee-data/gaitfit/internal/fsutil"
	"github.com/banshee-data/gaitfit/internal/payload"
	"github.com/banshee-data/gaitfit/internal/pipeline"
	"github.com/banshee-data/gaitfit/internal/skeleton"
	"github.com/banshee-data/gaitfit/internal/version"
)

func main() {
	animPath := flag.String("anim", "", "path to the ASCII FBX animation source (required)")
	outPath := flag.String("out", "", "output payload path (default: animation path with .json extension)")
	name := flag.String("name", "Walking", "clip name recorded in the payload")
	fps := flag.Int("fps", 60, "sampling rate of the evaluation grid")
	order := flag.Int("order", 4, "fourier series order")
	skeletonPath := flag.String("skeleton", "", "skeleton resource (.json or .swift); enables contact detection")
	tuningPath := flag.String("tuning", "", "tuning overrides JSON file (defaults used when empty)")
	dbPath := flag.String("db", "", "sqlite database to record this fit run in (skipped when empty)")
	inPlace := flag.Bool("in-place", true, "pin the root's horizontal translation, stripping root motion")
	diagPath := flag.String("diag", "", "write per-sample diagnostic signals JSON to this path")
	flag.Parse()

	if *animPath == "" {
		log.Fatal("missing required -anim flag")
	}
	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(*animPath, filepath.Ext(*animPath)) + ".json"
	}

	fs := fsutil.OSFileSystem{}

	tuning := config.Defaults()
	if *tuningPath != "" {
		var err error
		tuning, err = config.Load(*tuningPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	// A missing skeleton file degrades the fit rather than failing it:
	// phase falls back to normalized time and no contacts are emitted. A
	// present but malformed skeleton is an authoring error and fatal.
	var skel *skeleton.Skeleton
	if *skeletonPath != "" {
		if !fs.Exists(*skeletonPath) {
			log.Printf("warning: skeleton %s not found, fitting without contact detection", *skeletonPath)
		} else {
			var err error
			skel, err = skeleton.Load(fs, *skeletonPath)
			if err != nil {
				log.Fatalf("failed to load skeleton: %v", err)
			}
		}
	}

	runID := uuid.New().String()
	log.Printf("gaitfit %s, fit run %s: %s -> %s", version.String(), runID, *animPath, out)

	p, diag, err := pipeline.Fit(pipeline.Options{
		AnimPath: *animPath,
		Name:     *name,
		FPS:      *fps,
		Order:    *order,
		Skeleton: skel,
		InPlace:  *inPlace,
		Tuning:   tuning,
		FS:       fs,
	}, *diagPath != "")
	if err != nil {
		log.Fatalf("fit failed: %v", err)
	}

	if err := payload.Write(fs, out, p); err != nil {
		log.Fatalf("failed to write payload: %v", err)
	}
	log.Printf("wrote %s: %d bones, phase mode %s, cycle %.3fs",
		out, len(p.Bones), p.Phase.Mode, p.Phase.CycleDuration)

	if *diagPath != "" {
		if err := writeDiagnostics(fs, *diagPath, diag); err != nil {
			log.Fatalf("failed to write diagnostics: %v", err)
		}
		log.Printf("wrote diagnostics to %s", *diagPath)
	}

	if *dbPath != "" {
		db, err := fitdb.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open fit database: %v", err)
		}
		defer db.Close()
		err = db.RecordRun(fitdb.Run{
			ID:         runID,
			AnimPath:   *animPath,
			ClipName:   *name,
			OutputPath: out,
			Payload:    p,
		})
		if err != nil {
			log.Fatalf("failed to record fit run: %v", err)
		}
	}
}
