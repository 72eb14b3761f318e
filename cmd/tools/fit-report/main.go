// fit-report renders an HTML report of a fitted gait payload: the
// reconstructed channel curves over one cycle, the fitted contact
// likelihoods, and (when a diagnostics file is supplied) the raw
// per-sample signals the fit was derived from.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/gaitfit/internal/fourier"
	"github.com/banshee-data/gaitfit/internal/fsutil"
	"github.com/banshee-data/gaitfit/internal/payload"
)

// reconstruction resolution across one cycle
const phaseSteps = 200

type diagDocument struct {
	Times        []float64 `json:"times"`
	LeftHeight   []float64 `json:"left_height"`
	RightHeight  []float64 `json:"right_height"`
	LeftContact  []float64 `json:"left_contact"`
	RightContact []float64 `json:"right_contact"`
	Phase        []float64 `json:"phase"`
}

func main() {
	payloadPath := flag.String("payload", "", "fitted payload JSON (required)")
	diagPath := flag.String("diag", "", "diagnostics JSON written by gaitfit -diag (optional)")
	outPath := flag.String("out", "fit-report.html", "output HTML path")
	maxBones := flag.Int("max-bones", 12, "maximum number of bone charts to render")
	flag.Parse()

	if *payloadPath == "" {
		log.Fatal("missing required -payload flag")
	}

	fs := fsutil.OSFileSystem{}
	p, err := payload.Read(fs, *payloadPath)
	if err != nil {
		log.Fatalf("failed to read payload: %v", err)
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("gait fit: %s", p.Name)

	if p.Contacts != nil {
		page.AddCharts(contactChart(p))
	}
	addBoneCharts(page, p, *maxBones)

	if *diagPath != "" {
		diag, err := readDiagnostics(fs, *diagPath)
		if err != nil {
			log.Fatalf("failed to read diagnostics: %v", err)
		}
		page.AddCharts(
			signalChart("foot height", diag.Times, map[string][]float64{
				"left": diag.LeftHeight, "right": diag.RightHeight,
			}),
			signalChart("contact likelihood", diag.Times, map[string][]float64{
				"left": diag.LeftContact, "right": diag.RightContact,
			}),
			signalChart("phase", diag.Times, map[string][]float64{
				"phase": diag.Phase,
			}),
		)
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("failed to create report file: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("failed to render report: %v", err)
	}
	log.Printf("wrote %s (%d bones, phase mode %s)", *outPath, len(p.Bones), p.Phase.Mode)
}

func readDiagnostics(fs fsutil.FileSystem, path string) (*diagDocument, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc diagDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// phaseAxis returns the shared X axis labels for reconstructed curves.
func phaseAxis() []string {
	labels := make([]string, phaseSteps+1)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.3f", float64(i)/phaseSteps)
	}
	return labels
}

// reconstruct evaluates one coefficient set across a full cycle.
func reconstruct(coeffs []float64) []opts.LineData {
	data := make([]opts.LineData, phaseSteps+1)
	for i := range data {
		phi := float64(i) / phaseSteps
		data[i] = opts.LineData{Value: fourier.Eval(coeffs, phi)}
	}
	return data
}

func newLine(title, subtitle string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "350px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	return line
}

func contactChart(p *payload.Payload) *charts.Line {
	line := newLine("foot contacts",
		fmt.Sprintf("threshold %.2f, mode %s", p.Contacts.Threshold, p.Phase.Mode))
	line.SetXAxis(phaseAxis()).
		AddSeries("left", reconstruct(p.Contacts.Left)).
		AddSeries("right", reconstruct(p.Contacts.Right))
	return line
}

func addBoneCharts(page *components.Page, p *payload.Payload, maxBones int) {
	names := make([]string, 0, len(p.Bones))
	for name := range p.Bones {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > maxBones {
		log.Printf("rendering %d of %d bones (raise -max-bones for more)", maxBones, len(names))
		names = names[:maxBones]
	}

	for _, name := range names {
		bone := p.Bones[name]
		line := newLine(name, fmt.Sprintf("order %d reconstruction over one cycle", p.Order))
		line.SetXAxis(phaseAxis())
		addChannelSeries(line, "t", bone.Translation)
		addChannelSeries(line, "r", bone.Rotation)
		page.AddCharts(line)
	}
}

func addChannelSeries(line *charts.Line, prefix string, ch payload.Channels) {
	if ch.X != nil {
		line.AddSeries(prefix+".x", reconstruct(ch.X))
	}
	if ch.Y != nil {
		line.AddSeries(prefix+".y", reconstruct(ch.Y))
	}
	if ch.Z != nil {
		line.AddSeries(prefix+".z", reconstruct(ch.Z))
	}
}

// signalChart plots raw per-sample series against clip time.
func signalChart(title string, times []float64, series map[string][]float64) *charts.Line {
	labels := make([]string, len(times))
	for i, t := range times {
		labels[i] = fmt.Sprintf("%.3f", t)
	}
	line := newLine(title, "raw per-sample signal")
	line.SetXAxis(labels)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		values := series[name]
		data := make([]opts.LineData, len(values))
		for i, v := range values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(name, data)
	}
	return line
}
