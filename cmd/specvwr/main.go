package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

func usage() {
	fmt.Fprintln(os.Stderr, "specvwr [-r|-s] spec")
	flag.PrintDefaults()
}

func main() {
	var (
		render   = flag.Bool("r", false, "the file is a renderer spec")
		simulate = flag.Bool("s", false, "the file is a simulator spec")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 || *render == *simulate {
		usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	if *render {
		spec, err := spheres3d.LoadRendererSpec(path)
		if err != nil {
			log.Fatalf("specvwr: failed to deserialize renderer spec: %v", err)
		}
		fmt.Println(spheres3d.DbgRendererSpec(spec))
		return
	}
	spec, err := spheres3d.LoadSimulatorSpec(path)
	if err != nil {
		log.Fatalf("specvwr: failed to deserialize simulator spec: %v", err)
	}
	fmt.Println(spheres3d.DbgSimulatorSpec(spec))
}
