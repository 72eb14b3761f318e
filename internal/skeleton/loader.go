package skeleton

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/banshee-data/gaitfit/internal/fsutil"
)

// schemaVersion is the only JSON skeleton schema version understood.
const schemaVersion = 1

type jsonSkeleton struct {
	Version int `json:"version"`
	Skeleton
}

// Load reads a skeleton resource, dispatching on file extension: .json for
// the declarative schema, .swift for the legacy embedded source format.
func Load(fs fsutil.FileSystem, path string) (*Skeleton, error) {
	switch ext := filepath.Ext(path); ext {
	case ".json":
		return LoadJSON(fs, path)
	case ".swift":
		return LoadSwiftSource(fs, path)
	default:
		return nil, fmt.Errorf("unsupported skeleton format %q (want .json or .swift)", ext)
	}
}

// LoadJSON reads the declarative skeleton schema.
func LoadJSON(fs fsutil.FileSystem, path string) (*Skeleton, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skeleton file: %w", err)
	}

	var doc jsonSkeleton
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse skeleton JSON: %w", err)
	}
	if doc.Version != schemaVersion {
		return nil, fmt.Errorf("unsupported skeleton schema version %d (want %d)", doc.Version, schemaVersion)
	}
	if err := doc.Skeleton.Validate(); err != nil {
		return nil, err
	}
	return &doc.Skeleton, nil
}

// The legacy format is a Swift source file whose humanoid8() function body
// declares parallel literal arrays for names, parents, rest translations
// and pre-rotations, plus a scale constant. Extraction is textual; each
// block is located by its declaration and parsed independently, and any
// missing block is a fatal configuration error.
var (
	swiftNamesRe  = regexp.MustCompile(`(?s)let names\s*=\s*\[(.*?)\]`)
	swiftParentRe = regexp.MustCompile(`(?s)let parent: \[Int\]\s*=\s*\[(.*?)\]`)
	swiftTransRe  = regexp.MustCompile(`(?s)let translations: \[SIMD3<Float>\]\s*=\s*\[(.*?)\]`)
	swiftPreRotRe = regexp.MustCompile(`(?s)let preRotations: \[SIMD3<Float>\]\s*=\s*\[(.*?)\]`)
	swiftScaleRe  = regexp.MustCompile(`let scale: Float = ([0-9.eE+-]+)`)
	swiftTripleRe = regexp.MustCompile(`SIMD3<Float>\(([^)]+)\)`)
	swiftStringRe = regexp.MustCompile(`"([^"]+)"`)
)

// LoadSwiftSource extracts the skeleton embedded in the humanoid8()
// function of a Swift source file.
func LoadSwiftSource(fs fsutil.FileSystem, path string) (*Skeleton, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skeleton source: %w", err)
	}
	text := string(data)

	start := strings.Index(text, "public static func humanoid8()")
	if start < 0 {
		return nil, fmt.Errorf("skeleton source %s: humanoid8() not found", path)
	}
	end := strings.Index(text[start:], "public static func rotationXYZDegrees")
	if end < 0 {
		end = strings.Index(text[start:], "public static func translation")
	}
	if end < 0 {
		return nil, fmt.Errorf("skeleton source %s: end of humanoid8() not found", path)
	}
	body := text[start : start+end]

	skel := &Skeleton{}

	m := swiftNamesRe.FindStringSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("skeleton source %s: names block not found", path)
	}
	for _, sm := range swiftStringRe.FindAllStringSubmatch(m[1], -1) {
		skel.Names = append(skel.Names, sm[1])
	}

	m = swiftParentRe.FindStringSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("skeleton source %s: parent block not found", path)
	}
	for _, p := range strings.Split(m[1], ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("skeleton source %s: bad parent index %q", path, p)
		}
		skel.Parents = append(skel.Parents, v)
	}

	if skel.Translations, err = parseTripleBlock(body, swiftTransRe); err != nil {
		return nil, fmt.Errorf("skeleton source %s: translations: %w", path, err)
	}
	if skel.PreRotations, err = parseTripleBlock(body, swiftPreRotRe); err != nil {
		return nil, fmt.Errorf("skeleton source %s: preRotations: %w", path, err)
	}

	m = swiftScaleRe.FindStringSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("skeleton source %s: scale not found", path)
	}
	if skel.Scale, err = strconv.ParseFloat(m[1], 64); err != nil {
		return nil, fmt.Errorf("skeleton source %s: bad scale %q", path, m[1])
	}

	if err := skel.Validate(); err != nil {
		return nil, fmt.Errorf("skeleton source %s: %w", path, err)
	}
	return skel, nil
}

func parseTripleBlock(body string, blockRe *regexp.Regexp) ([]Vec3, error) {
	m := blockRe.FindStringSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("block not found")
	}
	var out []Vec3
	for _, tm := range swiftTripleRe.FindAllStringSubmatch(m[1], -1) {
		parts := strings.Split(tm[1], ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("triple %q does not have 3 components", tm[1])
		}
		var v Vec3
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("bad component %q", p)
			}
			v[i] = f
		}
		out = append(out, v)
	}
	return out, nil
}
