package fbxtext

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/banshee-data/gaitfit/internal/monitoring"
)

// The curve data in an ASCII FBX document is spread across four record
// kinds joined by numeric ids:
//
//	Model           id -> bone name        ("LimbNode" declarations)
//	C "OP" records  curve-node id -> (model id, Lcl Translation|Rotation)
//	C "OP" records  raw-curve id  -> (curve-node id, d|X / d|Y / d|Z)
//	AnimationCurve  raw-curve id  -> (KeyTime array, KeyValueFloat array)
//
// Parsing is two-pass: first build one typed lookup table per record kind,
// then resolve the joins, dropping any chain with a missing link.
var (
	modelRe     = regexp.MustCompile(`Model:\s+(\d+),\s+"Model::([^"]+)",\s+"LimbNode"`)
	curveNodeRe = regexp.MustCompile(`C:\s+"OP",(\d+),(\d+),\s+"Lcl (Translation|Rotation)"`)
	curveBindRe = regexp.MustCompile(`C:\s+"OP",(\d+),(\d+),\s+"d\|([XYZ])"`)
	curveDataRe = regexp.MustCompile(`(?s)AnimationCurve:\s+(\d+),.*?KeyTime:\s*\*\d+\s*\{\s*a:\s*([^}]*)\}\s*KeyValueFloat:\s*\*\d+\s*\{\s*a:\s*([^}]*)\}`)
)

type curveNodeBinding struct {
	bone    string
	channel string // "translation" or "rotation"
}

type rawCurveBinding struct {
	nodeID int64
	axis   string // "x", "y" or "z"
}

// Parse extracts all resolvable bone animation curves from FBX source text.
// timeScale converts FBX ktime ticks to seconds; minDuration floors the
// returned clip duration so downstream sampling grids never degenerate.
// Zero resolvable curves is not an error: the result is an empty map and
// the floor duration.
func Parse(text string, timeScale, minDuration float64) (map[string]*BoneAnimation, float64) {
	boneNames := parseModelNames(text)
	curveNodes := parseCurveNodeBindings(text, boneNames)
	rawBindings := parseRawCurveBindings(text)
	rawCurves := parseRawCurves(text, timeScale)

	anims := make(map[string]*BoneAnimation)
	maxTime := 0.0
	resolved, dropped := 0, 0

	for curveID, bind := range rawBindings {
		curve, ok := rawCurves[curveID]
		if !ok {
			dropped++
			continue
		}
		node, ok := curveNodes[bind.nodeID]
		if !ok {
			dropped++
			continue
		}

		if n := len(curve.Times); n > 0 && curve.Times[n-1] > maxTime {
			maxTime = curve.Times[n-1]
		}

		anim := anims[node.bone]
		if anim == nil {
			anim = &BoneAnimation{}
			anims[node.bone] = anim
		}
		anim.ChannelByName(node.channel).setAxis(bind.axis, curve)
		resolved++
	}

	if dropped > 0 {
		monitoring.Logf("fbxtext: dropped %d curves with unresolved bindings (%d resolved)", dropped, resolved)
	}

	if maxTime < minDuration {
		maxTime = minDuration
	}
	return anims, maxTime
}

func parseModelNames(text string) map[int64]string {
	out := make(map[int64]string)
	for _, m := range modelRe.FindAllStringSubmatch(text, -1) {
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		out[id] = m[2]
	}
	return out
}

func parseCurveNodeBindings(text string, boneNames map[int64]string) map[int64]curveNodeBinding {
	out := make(map[int64]curveNodeBinding)
	for _, m := range curveNodeRe.FindAllStringSubmatch(text, -1) {
		nodeID, err1 := strconv.ParseInt(m[1], 10, 64)
		modelID, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		bone, ok := boneNames[modelID]
		if !ok {
			continue
		}
		out[nodeID] = curveNodeBinding{bone: bone, channel: strings.ToLower(m[3])}
	}
	return out
}

func parseRawCurveBindings(text string) map[int64]rawCurveBinding {
	out := make(map[int64]rawCurveBinding)
	for _, m := range curveBindRe.FindAllStringSubmatch(text, -1) {
		curveID, err1 := strconv.ParseInt(m[1], 10, 64)
		nodeID, err2 := strconv.ParseInt(m[2], 10, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out[curveID] = rawCurveBinding{nodeID: nodeID, axis: strings.ToLower(m[3])}
	}
	return out
}

func parseRawCurves(text string, timeScale float64) map[int64]*AnimationCurve {
	out := make(map[int64]*AnimationCurve)
	for _, m := range curveDataRe.FindAllStringSubmatch(text, -1) {
		curveID, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		times := parseFloatList(m[2])
		for i := range times {
			times[i] /= timeScale
		}
		out[curveID] = &AnimationCurve{Times: times, Values: parseFloatList(m[3])}
	}
	return out
}

// parseFloatList parses the comma-separated "a:" array payload of an FBX
// property block. Blank entries (from trailing commas or line wrapping) are
// skipped; anything unparseable invalidates only that entry.
func parseFloatList(raw string) []float64 {
	parts := strings.Split(raw, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
