package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"tailscale.com/tsweb"

	"github.com/banshee-data/gapnav/internal/httputil"
	"github.com/banshee-data/gapnav/internal/version"
)

// scanPlot pairs the latest scan with the last decision's arcs. Arcs from a
// decision made on a scan of another length are dropped.
func scanPlot(src Source, safeDistance float64) ScanPlot {
	sp := ScanPlot{Scan: src.Scans().Latest(), SafeDistance: safeDistance}
	if d, ok := src.LastDecision(); ok && d.ScanLen == len(sp.Scan) {
		sp.Arcs = d.Arcs
		sp.Chosen, sp.HasChosen = d.Chosen, d.HasChosen
		sp.Title = fmt.Sprintf("Tick %d: %s", d.Tick, d.Command)
	}
	return sp
}

// AttachDebugRoutes registers the navigator's endpoints under /debug/.
// safeDistance is drawn on the scan plots.
func AttachDebugRoutes(mux *http.ServeMux, src Source, safeDistance float64) {
	debug := tsweb.Debugger(mux)

	debug.KV("Version", version.String())
	debug.KV("Session", src.SessionID())
	debug.KVFunc("Tick rate (Hz)", func() any { return tickRate(src.Interval()) })
	debug.KVFunc("Ticks", func() any { return src.Ticks() })

	debug.HandleFunc("nav-state", "Navigator state (JSON)", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Snapshot(src))
	})

	debug.HandleFunc("nav-scan", "Latest scan with detected openings", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := RenderScanChart(&buf, scanPlot(src, safeDistance)); err != nil {
			writeRenderError(w, err)
			return
		}
		httputil.WriteBody(w, "text/html; charset=utf-8", buf.Bytes())
	})

	debug.HandleFunc("nav-scan.png", "Latest scan plot (PNG)", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := RenderScanPlot(&buf, scanPlot(src, safeDistance)); err != nil {
			writeRenderError(w, err)
			return
		}
		httputil.WriteBody(w, "image/png", buf.Bytes())
	})
}

func writeRenderError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNoScan) {
		httputil.NotFound(w, err.Error())
		return
	}
	httputil.InternalServerError(w, fmt.Sprintf("failed to render scan: %v", err))
}
