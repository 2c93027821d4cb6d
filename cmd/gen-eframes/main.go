package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

func usage() {
	fmt.Fprintln(os.Stderr, "gen-eframes [-n num_frames] [-r] [-s] sim_spec renderer_spec output_file")
	fmt.Fprintln(os.Stderr, "By default uses the reference simulator and renderer, -r and -s switch to the optimized versions.")
	flag.PrintDefaults()
}

func main() {
	var (
		n       = flag.Int("n", 12, "number of frames to record")
		optRen  = flag.Bool("r", false, "use the optimized renderer")
		optSim  = flag.Bool("s", false, "use the optimized simulator")
		workers = flag.Int("w", 0, "workers for the optimized engines, < 1 means all CPUs")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 3 || *n < 0 {
		usage()
		os.Exit(1)
	}
	spheres3d.Workers = *workers

	sim, ren := spheres3d.Reference, spheres3d.Reference
	if *optSim {
		sim = spheres3d.Optimized
	}
	if *optRen {
		ren = spheres3d.Optimized
	}

	ss, err := spheres3d.LoadSimulatorSpec(flag.Arg(0))
	if err != nil {
		log.Fatalf("gen-eframes: could not read simulate spec from %s: %v", flag.Arg(0), err)
	}
	rs, err := spheres3d.LoadRendererSpec(flag.Arg(1))
	if err != nil {
		log.Fatalf("gen-eframes: could not read render spec from %s: %v", flag.Arg(1), err)
	}

	out, err := spheres3d.Record(spheres3d.Select(sim, ren), rs, ss, *n)
	if err != nil {
		log.Fatalf("gen-eframes: %v", err)
	}
	if err := frames.WriteFile(flag.Arg(2), out); err != nil {
		log.Fatalf("gen-eframes: %v", err)
	}
}
