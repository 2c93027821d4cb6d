package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

// Environment switches: DEBUG turns on the engine counters, PNG writes a
// 16-bit PNG sequence instead of a GIF, WORKERS caps the parallel engines
// and PROFILE writes a CPU profile to cpu.out.
func main() {
	spheres3d.Debug = os.Getenv("DEBUG") != ""
	spheres3d.PNG = os.Getenv("PNG") != ""
	if w := os.Getenv("WORKERS"); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			fmt.Printf("Error: WORKERS=%q: %v\n", w, err)
			os.Exit(1)
		}
		spheres3d.Workers = n
	}

	cfg := "scenes/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := run(cfg, os.Getenv("PROFILE") != ""); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run keeps the profile deferred inside a function that returns, so cpu.out
// is flushed before main exits on error.
func run(cfg string, profile bool) error {
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return err
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}
	start := time.Now()
	spheres3d.DebugLog("Config: %s, %d CPUs, workers=%d", cfg, runtime.NumCPU(), spheres3d.Workers)
	err := spheres3d.Run(cfg)
	spheres3d.DebugLog("Total time: %s", time.Since(start))
	return err
}
