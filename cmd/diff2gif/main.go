package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
)

func usage() {
	fmt.Fprintln(os.Stderr, "diff2gif [-o out] [-d delay] frames")
	flag.PrintDefaults()
}

// diff2gif turns a frames file into an animated GIF. Difference frames from
// ref-tester are drawn white where correct and red where wrong.
func main() {
	var (
		out   = flag.String("o", "out.gif", "output GIF")
		delay = flag.Int("d", 10, "delay between frames in 100ths of a second")
		gamma = flag.Float64("g", 1, "gamma applied to image frames")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 || *delay < 0 || !(*gamma > 0) {
		usage()
		os.Exit(1)
	}

	f, err := frames.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("diff2gif: %v", err)
	}
	if err := frames.SaveAnimatedGIF(f, *out, *delay, *gamma); err != nil {
		log.Fatalf("diff2gif: %v", err)
	}
}
