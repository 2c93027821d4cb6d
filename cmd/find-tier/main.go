package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/tier"
)

var (
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	greenStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	redStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)

	celebrations = []string{"yay", "woot", "boyah", "skrrt", "ayy", "yeee", "eoo"}
)

const reminder = "REMINDER: This is only timing, NOT CORRECTNESS. Ensure you also run correctness tests"

func usage() {
	fmt.Fprintln(os.Stderr, "find-tier [-m min_tier] [-M max_tier] [-b blowthroughs] [-dir tiers] [-sim variant] [-ren variant]")
	flag.PrintDefaults()
}

func printRun(r tier.Run, cutoff int64) {
	ms := r.Elapsed.Milliseconds()
	s, rn := r.Timing.Simulate.Milliseconds(), r.Timing.Render.Milliseconds()
	if r.Passed {
		fmt.Printf("%s (%s!):\tTier %d :\tRan %dx%d\timage with %d bodies in %dms (s: %d, r: %d)\n",
			passStyle.Render("PASS"), celebrations[rand.Intn(len(celebrations))],
			r.Tier, r.Width, r.Height, r.Spheres, ms, s, rn)
		return
	}
	fmt.Printf("%s (timeout):\tTier %d :\tRan %dx%d\timage with %d bodies in %dms (s: %d, r: %d) but the cutoff is %dms; used blowthrough %d\n",
		failStyle.Render("FAIL"), r.Tier, r.Width, r.Height, r.Spheres, ms, s, rn, cutoff, r.Blowthroughs)
}

func main() {
	var (
		minTier      = flag.Int("m", tier.MinTier, "first tier to run")
		maxTier      = flag.Int("M", tier.MaxTier, "last tier to run")
		blowthroughs = flag.Int("b", tier.DefaultBlowthroughs, "tiers allowed to exceed the cutoff before stopping")
		cutoff       = flag.Duration("cutoff", tier.DefaultCutoff, "time limit per tier")
		dir          = flag.String("dir", "tiers", "directory holding <tier>/r and <tier>/s spec files")
		simName      = flag.String("sim", spheres3d.Optimized.String(), "simulator variant")
		renName      = flag.String("ren", spheres3d.Optimized.String(), "renderer variant")
		workers      = flag.Int("w", 0, "workers for the optimized engines, < 1 means all CPUs")
		plot         = flag.Bool("plot", true, "plot per-tier times when done")
	)
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
		os.Exit(1)
	}
	spheres3d.Debug = os.Getenv("DEBUG") != ""
	spheres3d.Workers = *workers

	sim, err := spheres3d.ParseVariant(*simName)
	if err != nil {
		log.Fatalf("find-tier: %v", err)
	}
	ren, err := spheres3d.ParseVariant(*renName)
	if err != nil {
		log.Fatalf("find-tier: %v", err)
	}

	b := &tier.Bench{
		MinTier:      *minTier,
		MaxTier:      *maxTier,
		Blowthroughs: *blowthroughs,
		Cutoff:       *cutoff,
		Impl:         spheres3d.Select(sim, ren),
		Loader:       tier.DirLoader{Dirs: []string{*dir}, Fallback: true},
		OnRun: func(r tier.Run) {
			printRun(r, cutoff.Milliseconds())
		},
	}

	fmt.Println(redStyle.Render(reminder))
	res, err := b.Run()
	if err != nil {
		log.Fatalf("find-tier: %v", err)
	}

	if res.MaxTier < 0 {
		fmt.Println(greenStyle.Render(fmt.Sprintf("Reached no tier of %d", b.MaxTier)))
	} else {
		fmt.Println(greenStyle.Render(fmt.Sprintf("Reached tier %d of %d", res.MaxTier, b.MaxTier)))
	}
	fmt.Printf("Final tier attempted: %d\n", res.LastTier)
	fmt.Printf("Time elapsed on final tier: %d ms\n", res.LastTierTime.Milliseconds())
	fmt.Println(redStyle.Render(reminder))
	fmt.Println(greenStyle.Render(fmt.Sprintf("Blowthroughs used: %d / %d", res.BlowthroughsUsed, b.Blowthroughs)))

	if *plot && len(res.Runs) > 1 {
		ms := make([]float64, len(res.Runs))
		for i, r := range res.Runs {
			ms[i] = float64(r.Elapsed.Milliseconds())
		}
		chart := asciigraph.Plot(ms,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("ms per tier, tiers %d..%d", res.Runs[0].Tier, res.LastTier)))
		fmt.Println(graphStyle.Render(chart))
	}
}
