package monitor

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/gapnav/internal/nav"
	"github.com/banshee-data/gapnav/internal/sensors"
)

// ErrNoScan is returned when there is no scan to draw.
var ErrNoScan = errors.New("monitor: no scan available")

var (
	scanColor   = color.RGBA{R: 0x60, G: 0x7d, B: 0x8b, A: 0xff}
	arcColor    = color.RGBA{R: 0x26, G: 0x82, B: 0x8e, A: 0xff}
	chosenColor = color.RGBA{R: 0xff, G: 0x52, B: 0x52, A: 0xff}
	safeColor   = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
)

// ScanPlot describes one scan with its detected openings.
type ScanPlot struct {
	Title     string
	Scan      sensors.RangeScan
	Arcs      []nav.Arc
	Chosen    nav.Arc
	HasChosen bool
	// SafeDistance is drawn as a dashed threshold line when positive.
	SafeDistance float64
}

// arcSegments splits an arc into index ranges [from, to] that do not cross
// the seam.
func arcSegments(a nav.Arc, n int) [][2]int {
	if !a.Valid(n) {
		return nil
	}
	if !a.Wraps() {
		return [][2]int{{a.Start, a.End}}
	}
	return [][2]int{{a.Start, n - 1}, {0, a.End}}
}

func segmentXYs(scan sensors.RangeScan, seg [2]int) plotter.XYs {
	pts := make(plotter.XYs, 0, seg[1]-seg[0]+1)
	for i := seg[0]; i <= seg[1]; i++ {
		pts = append(pts, plotter.XY{X: float64(i), Y: scan[i]})
	}
	return pts
}

// RenderScanPlot draws sp as a PNG range-versus-index plot.
func RenderScanPlot(w io.Writer, sp ScanPlot) error {
	n := len(sp.Scan)
	if n == 0 {
		return ErrNoScan
	}

	p := plot.New()
	p.Title.Text = sp.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Range scan (%d bins, %d openings)", n, len(sp.Arcs))
	}
	p.X.Label.Text = "Index"
	p.Y.Label.Text = "Distance (m)"
	p.X.Min, p.X.Max = 0, float64(n-1)

	scanLine, err := plotter.NewLine(segmentXYs(sp.Scan, [2]int{0, n - 1}))
	if err != nil {
		return fmt.Errorf("scan line: %w", err)
	}
	scanLine.Color = scanColor
	scanLine.Width = vg.Points(1)
	p.Add(scanLine)
	p.Legend.Add("scan", scanLine)

	legend := map[string]bool{}
	for _, a := range sp.Arcs {
		c, width, label := arcColor, vg.Points(2), "opening"
		if sp.HasChosen && a == sp.Chosen {
			c, width, label = chosenColor, vg.Points(3), "chosen"
		}
		for _, seg := range arcSegments(a, n) {
			l, err := plotter.NewLine(segmentXYs(sp.Scan, seg))
			if err != nil {
				return fmt.Errorf("arc %v: %w", a, err)
			}
			l.Color = c
			l.Width = width
			p.Add(l)
			if !legend[label] {
				p.Legend.Add(label, l)
				legend[label] = true
			}
		}
	}

	if sp.SafeDistance > 0 {
		safe := plotter.NewFunction(func(float64) float64 { return sp.SafeDistance })
		safe.Color = safeColor
		safe.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(safe)
		p.Legend.Add("safe distance", safe)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(10*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
