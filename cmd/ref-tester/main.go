package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/reftest"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

type opts struct {
	simSpec, renSpec string
	expected         string
	diffOut          string
	refOut           string
	testName         string
	frames           int
	staffRenderer    bool
	staffSimulator   bool
	reinit           bool
	tol              float64
	workers          int
}

func verdict(ok bool) string {
	if ok {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func usage() {
	fmt.Fprintln(os.Stderr, "ref-tester [-n num_frames] [-r | -s] [-i | -x expected_frames] [-o diff_output] [-j ref_out] [-c name] [-t tol] sim_spec renderer_spec")
	flag.PrintDefaults()
}

func parse() opts {
	var o opts
	flag.IntVar(&o.frames, "n", 12, "number of frames to test")
	flag.BoolVar(&o.staffRenderer, "r", false, "use the reference renderer")
	flag.BoolVar(&o.staffSimulator, "s", false, "use the reference simulator")
	flag.BoolVar(&o.reinit, "i", false, "reset the test spheres to the reference spheres every frame")
	flag.StringVar(&o.expected, "x", "", "compare against an expected frames file")
	flag.StringVar(&o.diffOut, "o", "", "write log-scaled difference frames here")
	flag.StringVar(&o.refOut, "j", "", "write the aggregate statistics here")
	flag.StringVar(&o.testName, "c", "", "concise output under this test name")
	flag.Float64Var(&o.tol, "t", 0, "per-pixel tolerance, 0 demands exact equality")
	flag.IntVar(&o.workers, "w", 0, "workers for the optimized engines, < 1 means all CPUs")
	flag.Usage = usage
	flag.Parse()

	switch {
	case flag.NArg() != 2, o.frames < 0, o.tol < 0:
		usage()
		os.Exit(1)
	case o.staffRenderer && o.staffSimulator:
		fmt.Fprintln(os.Stderr, "cannot set both -r and -s")
		usage()
		os.Exit(1)
	case o.expected != "" && o.reinit:
		fmt.Fprintln(os.Stderr, "cannot set both reinit and expected frames")
		usage()
		os.Exit(1)
	}
	o.simSpec, o.renSpec = flag.Arg(0), flag.Arg(1)
	return o
}

func (o opts) impl() spheres3d.Impl {
	sim, ren := spheres3d.Optimized, spheres3d.Optimized
	if o.staffSimulator {
		sim = spheres3d.Reference
	}
	if o.staffRenderer {
		ren = spheres3d.Reference
	}
	return spheres3d.Select(sim, ren)
}

func displayOpts(o opts) {
	fmt.Println("ref-test options:")
	fmt.Printf("\ts_spec = %s\n", o.simSpec)
	fmt.Printf("\tr_spec = %s\n", o.renSpec)
	fmt.Printf("\timpl = %s\n", o.impl().Name)
	fmt.Printf("\tn_frames = %d\n", o.frames)
	fmt.Printf("\ttolerance = %g\n", o.tol)
	if o.diffOut != "" {
		fmt.Printf("\tdiff_output = %s\n", o.diffOut)
	}
	if o.expected != "" {
		fmt.Printf("\texpected_frames = %s\n", o.expected)
	} else {
		fmt.Printf("\treinit = %t\n", o.reinit)
	}
}

func run(o opts) ([]reftest.Stats, error) {
	ss, err := spheres3d.LoadSimulatorSpec(o.simSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize simulator spec: %w", err)
	}
	rs, err := spheres3d.LoadRendererSpec(o.renSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize renderer spec: %w", err)
	}
	test := reftest.E2E{Impl: o.impl(), Render: rs, Sim: ss}
	if o.expected != "" {
		exp, err := frames.ReadFile(o.expected)
		if err != nil {
			return nil, fmt.Errorf("could not deserialize frames file %s: %w", o.expected, err)
		}
		return reftest.RunAgainstFrames(test, exp, o.frames, float32(o.tol))
	}
	ref := reftest.E2E{Impl: spheres3d.Select(spheres3d.Reference, spheres3d.Reference), Render: rs, Sim: ss}
	return reftest.RunAgainstReference(ref, test, o.reinit, o.frames, float32(o.tol))
}

func main() {
	o := parse()
	spheres3d.Workers = o.workers
	if o.testName == "" {
		displayOpts(o)
	}

	out, err := run(o)
	if err != nil {
		log.Fatalf("ref-tester: %v", err)
	}
	agg := reftest.Aggregate(out, reftest.AvgDiff)

	if o.testName != "" {
		fmt.Printf("%s: %s\n", o.testName, verdict(agg.Correct))
	} else {
		fmt.Printf("Average difference: %1.16f\nStandard deviation: %1.16f\nMinimum difference: %1.16f\nMaximum difference: %1.16f\nTest result: %s\n",
			agg.Avg, agg.StdDev, agg.Min, agg.Max, verdict(agg.Correct))
	}

	if o.diffOut != "" {
		diff, err := reftest.DiffFrames(out)
		if err != nil {
			log.Fatalf("ref-tester: %v", err)
		}
		if err := diff.LogScale(); err != nil {
			log.Fatalf("ref-tester: %v", err)
		}
		if err := frames.WriteFile(o.diffOut, diff); err != nil {
			log.Fatalf("ref-tester: failed to serialize frame difference: %v", err)
		}
	}
	if o.refOut != "" {
		f, err := os.Create(o.refOut)
		if err != nil {
			log.Fatalf("ref-tester: %v", err)
		}
		if err := reftest.WriteRefOut(f, agg); err != nil {
			_ = f.Close()
			log.Fatalf("ref-tester: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("ref-tester: %v", err)
		}
	}
	if !agg.Correct {
		os.Exit(2)
	}
}
