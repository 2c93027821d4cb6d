package tier

import (
	"fmt"
	"time"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

// Timing splits a tier's wall time between simulation and rendering.
type Timing struct {
	Simulate time.Duration
	Render   time.Duration
}

// Run is the outcome of one tier.
type Run struct {
	Tier    int
	Width   int
	Height  int
	Spheres int
	Elapsed time.Duration
	Timing  Timing
	Passed  bool
	// Blowthroughs used so far, including this run when it failed.
	Blowthroughs int
}

type Result struct {
	MaxTier          int // highest passed tier, -1 when none passed
	LastTier         int
	LastTierTime     time.Duration
	BlowthroughsUsed int
	Runs             []Run
}

// Bench runs tiers MinTier..MaxTier in order. A tier slower than Cutoff uses
// one blowthrough; the run stops once more than Blowthroughs are used.
type Bench struct {
	MinTier      int
	MaxTier      int
	Blowthroughs int
	Cutoff       time.Duration
	Impl         spheres3d.Impl
	Loader       Loader
	OnRun        func(Run)
}

func (b *Bench) validate() error {
	switch {
	case b.MinTier > b.MaxTier:
		return fmt.Errorf("min tier must be less than max tier")
	case b.MinTier < MinTier:
		return fmt.Errorf("min tier must be at least %d", MinTier)
	case b.MaxTier > MaxTier:
		return fmt.Errorf("max tier must be at most %d", MaxTier)
	case b.Blowthroughs < 0:
		return fmt.Errorf("blowthrough count must be non-negative")
	case b.Loader == nil:
		return fmt.Errorf("no tier loader")
	}
	return nil
}

// Time runs FramesPerTier frames of spec and returns the wall time and its split.
func Time(impl spheres3d.Impl, spec *Spec) (time.Duration, Timing) {
	in := impl.Init(spec.Render, spec.Sim)
	defer in.Close()
	var tm Timing
	start := time.Now()
	split := start
	for f := 0; f < FramesPerTier; f++ {
		spheres := in.Sim.Simulate()
		mid := time.Now()
		tm.Simulate += mid.Sub(split)
		in.Ren.Render(spheres)
		split = time.Now()
		tm.Render += split.Sub(mid)
	}
	return split.Sub(start), tm
}

func (b *Bench) Run() (Result, error) {
	if err := b.validate(); err != nil {
		return Result{}, err
	}
	res := Result{MaxTier: -1}
	for t := b.MinTier; t <= b.MaxTier; t++ {
		spec, err := b.Loader.Load(t)
		if err != nil {
			return res, fmt.Errorf("failed to make tier descriptor for tier %d: %w", t, err)
		}
		elapsed, tm := Time(b.Impl, spec)
		run := Run{
			Tier:    t,
			Width:   spec.Render.Resolution,
			Height:  spec.Render.Resolution,
			Spheres: len(spec.Sim.Spheres),
			Elapsed: elapsed,
			Timing:  tm,
			Passed:  elapsed <= b.Cutoff,
		}
		if run.Passed {
			res.MaxTier = t
		} else {
			res.BlowthroughsUsed++
		}
		run.Blowthroughs = res.BlowthroughsUsed
		res.Runs = append(res.Runs, run)
		res.LastTier, res.LastTierTime = t, elapsed
		spheres3d.DebugLog("tier %d: %s (s: %s, r: %s)", t, elapsed, tm.Simulate, tm.Render)
		if b.OnRun != nil {
			b.OnRun(run)
		}
		if res.BlowthroughsUsed > b.Blowthroughs {
			break
		}
	}
	return res, nil
}
