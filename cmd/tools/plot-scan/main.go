// Command plot-scan runs the opening detector and selector over a saved
// scan and writes a PNG of the result.
//
// The input is a JSON array of ranges in metres; null stands for no return.
//
//	plot-scan -in scan.json -out scan.png
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/banshee-data/gapnav/internal/config"
	"github.com/banshee-data/gapnav/internal/monitor"
	"github.com/banshee-data/gapnav/internal/nav"
	"github.com/banshee-data/gapnav/internal/sensors"
)

var (
	inPath     = flag.String("in", "", "Scan JSON file (required)")
	outPath    = flag.String("out", "scan.png", "Output PNG path")
	configPath = flag.String("config", "", "Navigation tuning JSON (default: built-in values)")
	seed       = flag.Uint64("seed", 1, "Seed for the selection coin flip")
)

func main() {
	flag.Parse()
	if *inPath == "" {
		log.Fatal("-in is required")
	}

	cfg := config.EmptyNavConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadNavConfig(*configPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	params := nav.ParamsFromConfig(cfg)
	params.Seed = *seed

	raw, err := readScan(*inPath)
	if err != nil {
		log.Fatalf("failed to read scan: %v", err)
	}
	scan := sensors.ClampScan(raw, params.MaxDistance)

	d := nav.NewNavigator(params, nil).Decide(sensors.NoObstacle(), scan)

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}
	err = monitor.RenderScanPlot(f, monitor.ScanPlot{
		Title:        fmt.Sprintf("%s: %s", *inPath, d.Command),
		Scan:         scan,
		Arcs:         d.Arcs,
		Chosen:       d.Chosen,
		HasChosen:    d.HasChosen,
		SafeDistance: params.SafeDistance,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("failed to write plot: %v", err)
	}

	fmt.Printf("openings: %v\n", d.Arcs)
	if d.HasChosen {
		fmt.Printf("chosen:   %v (centre %.1f, policy %s)\n", d.Chosen, d.Center, d.Policy)
	}
	fmt.Printf("command:  %s (%s)\n", d.Command, d.Reason)
	fmt.Printf("wrote %s\n", *outPath)
}

func readScan(path string) ([]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var vals []*float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("%s: empty scan", path)
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v == nil {
			out[i] = math.Inf(1)
			continue
		}
		out[i] = *v
	}
	return out, nil
}
