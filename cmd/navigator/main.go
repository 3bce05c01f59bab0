// Command navigator runs the reactive local planner: it reads lidar scans
// over UDP (or from a capture), infrared proximity over serial, and sends a
// velocity command to the motor controller on every tick.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/gapnav/internal/cmdlink"
	"github.com/banshee-data/gapnav/internal/config"
	"github.com/banshee-data/gapnav/internal/monitor"
	"github.com/banshee-data/gapnav/internal/monitoring"
	"github.com/banshee-data/gapnav/internal/nav"
	"github.com/banshee-data/gapnav/internal/proxlink"
	"github.com/banshee-data/gapnav/internal/scanlink"
	"github.com/banshee-data/gapnav/internal/sensors"
	"github.com/banshee-data/gapnav/internal/version"
)

var (
	configPath  = flag.String("config", "", "Path to navigation tuning JSON (default: built-in values)")
	listen      = flag.String("listen", "localhost:8082", "Debug HTTP listen address (empty to disable)")
	scanAddr    = flag.String("scan-addr", ":7500", "UDP address to receive lidar scan frames on")
	rcvBuf      = flag.Int("rcvbuf", 1<<20, "UDP receive buffer size in bytes")
	pcapFile    = flag.String("pcap", "", "Replay scans from a pcap capture instead of listening")
	pcapPort    = flag.Int("pcap-port", 7500, "UDP destination port to select from the capture (0 for any)")
	pcapSpeed   = flag.Float64("pcap-speed", 1.0, "Replay speed multiplier (0 for as fast as possible)")
	serialPort  = flag.String("prox-port", "", "Serial device of the proximity sensor board (empty to disable)")
	baudRate    = flag.Int("prox-baud", proxlink.DefaultBaudRate, "Proximity board baud rate")
	dataBits    = flag.Int("prox-databits", proxlink.DefaultDataBits, "Proximity board data bits (5-8)")
	stopBits    = flag.Int("prox-stopbits", proxlink.DefaultStopBits, "Proximity board stop bits (1 or 2)")
	parity      = flag.String("prox-parity", "N", "Proximity board parity (N, E or O)")
	proxInit    = flag.String("prox-init", "", "Semicolon-separated commands sent to the proximity board at startup")
	cmdAddr     = flag.String("cmd-addr", "", "UDP address of the motor controller (empty to log commands only)")
	logCommands = flag.Bool("log-commands", false, "Log commands even when sending them")
	trace       = flag.Bool("trace", false, "Log every navigation decision")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *trace {
		monitoring.SetDebugLogger(log.Printf)
	}

	cfg := config.EmptyNavConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadNavConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	params := nav.ParamsFromConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, params); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("navigator: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}

func run(ctx context.Context, cfg *config.NavConfig, params nav.Params) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	scans := sensors.NewScanBuffer(params.MaxDistance)
	prox := sensors.NewProximityState()

	publisher, closePublisher, err := newPublisher(ctx, cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	controller := nav.NewController(nav.ControllerConfig{
		Navigator: nav.NewNavigator(params, nil),
		Scans:     scans,
		Proximity: prox,
		Publisher: publisher,
	})

	var wg sync.WaitGroup
	mux := http.NewServeMux()

	if *serialPort != "" {
		reader, err := proxlink.Open(*serialPort, proxPortOptions(), prox)
		if err != nil {
			return fmt.Errorf("failed to open proximity board: %w", err)
		}
		defer reader.Close()

		for _, c := range strings.Split(*proxInit, ";") {
			if c = strings.TrimSpace(c); c == "" {
				continue
			}
			if err := reader.SendCommand(c); err != nil {
				return fmt.Errorf("failed to send %q to proximity board: %w", c, err)
			}
		}
		reader.AttachAdminRoutes(mux)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reader.Monitor(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("proximity monitor stopped: %v", err)
			}
			log.Print("proximity monitor routine terminated")
		}()
	} else {
		log.Print("No proximity board configured; all channels read as clear")
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := runScanSource(ctx, cfg, scans); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("scan source stopped: %v", err)
		}
	}()

	if *listen != "" {
		monitor.AttachDebugRoutes(mux, controller, params.SafeDistance)
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveDebug(ctx, mux)
		}()
	}

	err = controller.Run(ctx)
	cancel()
	wg.Wait()
	return err
}

func proxPortOptions() proxlink.PortOptions {
	return proxlink.PortOptions{
		BaudRate: *baudRate,
		DataBits: *dataBits,
		StopBits: *stopBits,
		Parity:   *parity,
	}
}

func newPublisher(ctx context.Context, cfg *config.NavConfig) (nav.Publisher, func(), error) {
	if *cmdAddr == "" {
		return cmdlink.NewLogPublisher(), func() {}, nil
	}

	udp, err := cmdlink.NewUDPPublisher(cmdlink.UDPConfig{
		Address:     *cmdAddr,
		LogInterval: cfg.GetStatsInterval(),
	})
	if err != nil {
		return nil, nil, err
	}
	udp.Start(ctx)

	closeFn := func() {
		if err := udp.Close(); err != nil {
			log.Printf("failed to close command link: %v", err)
		}
	}
	if *logCommands {
		return cmdlink.MultiPublisher{udp, cmdlink.NewLogPublisher()}, closeFn, nil
	}
	return udp, closeFn, nil
}

func runScanSource(ctx context.Context, cfg *config.NavConfig, sink scanlink.Sink) error {
	if *pcapFile != "" {
		f, err := os.Open(*pcapFile)
		if err != nil {
			return fmt.Errorf("failed to open capture: %w", err)
		}
		defer f.Close()

		res, err := scanlink.ReplayPCAP(ctx, f, *pcapPort, sink, scanlink.ReplayOptions{Speed: *pcapSpeed})
		log.Printf("capture replay finished: %d packets, %d scans, %d skipped", res.Packets, res.Frames, res.Skipped)
		return err
	}

	listener := scanlink.NewListener(scanlink.ListenerConfig{
		Address:     *scanAddr,
		RcvBuf:      *rcvBuf,
		LogInterval: cfg.GetStatsInterval(),
		Sink:        sink,
	})
	return listener.Start(ctx)
}

func serveDebug(ctx context.Context, mux *http.ServeMux) {
	server := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("Debug server listening on %s", *listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("debug server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down debug HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
}
