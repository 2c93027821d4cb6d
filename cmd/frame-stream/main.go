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
	"syscall"
	"time"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/stream"
)

func usage() {
	fmt.Fprintln(os.Stderr, "frame-stream [-addr :8080] [-fps 30] [-n frames] [-sim variant] [-ren variant] sim_spec renderer_spec")
	flag.PrintDefaults()
}

func main() {
	var (
		addr       = flag.String("addr", ":8080", "listen address")
		fps        = flag.Int("fps", 30, "frames per second")
		n          = flag.Int("n", 0, "frames to stream before exiting, 0 streams forever")
		maxClients = flag.Int("max-clients", 64, "connection limit, 0 for none")
		simName    = flag.String("sim", spheres3d.Optimized.String(), "simulator variant")
		renName    = flag.String("ren", spheres3d.Optimized.String(), "renderer variant")
		workers    = flag.Int("w", 0, "workers for the optimized engines, < 1 means all CPUs")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 2 || *fps <= 0 || *n < 0 {
		usage()
		os.Exit(1)
	}
	spheres3d.Debug = os.Getenv("DEBUG") != ""
	spheres3d.Workers = *workers

	sim, err := spheres3d.ParseVariant(*simName)
	if err != nil {
		log.Fatalf("frame-stream: %v", err)
	}
	ren, err := spheres3d.ParseVariant(*renName)
	if err != nil {
		log.Fatalf("frame-stream: %v", err)
	}
	ss, err := spheres3d.LoadSimulatorSpec(flag.Arg(0))
	if err != nil {
		log.Fatalf("frame-stream: %v", err)
	}
	rs, err := spheres3d.LoadRendererSpec(flag.Arg(1))
	if err != nil {
		log.Fatalf("frame-stream: %v", err)
	}

	hub := stream.NewHub(*maxClients)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: *addr, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Streaming %s on %s/ws", spheres3d.Select(sim, ren).Name, *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	in := spheres3d.Select(sim, ren).Init(rs, ss)
	defer in.Close()

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()
loop:
	for frame := 0; *n == 0 || frame < *n; frame++ {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
		start := time.Now()
		_, img := in.Frame()
		hub.Broadcast(stream.EncodeFrame(img, in.Res, uint32(frame)))
		spheres3d.DebugLog("frame %d: %s, %d clients", frame, time.Since(start), hub.Clients())
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		log.Printf("Shutdown: %v", err)
	}
}
