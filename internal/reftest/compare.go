package reftest

import (
	"fmt"
	"math"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

// Diff is a per-pixel difference map, one float per pixel, row-major.
type Diff struct {
	Buf    []float32
	Height int
	Width  int
}

// Stats summarises the difference between a reference image and a test image.
type Stats struct {
	Correct bool
	Avg     float32
	StdDev  float32
	Min     float32
	Max     float32
	Diff    Diff
}

func (s Stats) String() string {
	return fmt.Sprintf("avg=%g std=%g min=%g max=%g correct=%t", s.Avg, s.StdDev, s.Min, s.Max, s.Correct)
}

// CompareImages compares two height×width RGB images. The difference of a
// pixel is the mean absolute channel difference; the images are correct when
// no pixel differs by more than tol (tol 0 demands exact equality).
func CompareImages(ref, test []float32, height, width int, tol float32) Stats {
	n := height * width
	diff := make([]float32, n)
	var sum, sumSq float64
	min, max := float32(1), float32(0)
	correct := true
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			px := x + y*width
			at := px * 3
			dr := abs32(ref[at] - test[at])
			dg := abs32(ref[at+1] - test[at+1])
			db := abs32(ref[at+2] - test[at+2])
			d := (dr + dg + db) / 3
			if d > tol {
				spheres3d.DebugLog("pixel %d %d: (%f %f %f) vs (%f %f %f)", x, y, ref[at], ref[at+1], ref[at+2], test[at], test[at+1], test[at+2])
				correct = false
			}
			sum += float64(d)
			sumSq += float64(d) * float64(d)
			if d > max {
				max = d
			}
			if d < min {
				min = d
			}
			diff[px] = d
		}
	}
	s := Stats{Correct: correct, Min: min, Max: max, Diff: Diff{Buf: diff, Height: height, Width: width}}
	if n > 0 {
		N := float64(n)
		s.Avg = float32(sum / N)
		// rounding can push the variance slightly below zero
		s.StdDev = float32(math.Sqrt(math.Max(0, (sumSq-sum*sum/N)/N)))
	}
	return s
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// Aggregation combines the difference maps of several frames.
type Aggregation int

const (
	AvgDiff Aggregation = iota
	MaxDiff
	MinDiff
)

// Aggregate folds per-frame statistics into one: correct only if every
// frame is, mean of the averages, pooled standard deviation, extreme min
// and max, and a difference map combined with agg.
func Aggregate(out []Stats, agg Aggregation) Stats {
	res := Stats{Correct: true, Min: 1, Max: 0}
	if len(out) == 0 {
		return res
	}
	var avgSum, varSum float64
	for _, s := range out {
		res.Correct = res.Correct && s.Correct
		res.Max = max(res.Max, s.Max)
		res.Min = min(res.Min, s.Min)
		varSum += float64(s.StdDev) * float64(s.StdDev)
		avgSum += float64(s.Avg)
	}
	n := float64(len(out))
	res.Avg = float32(avgSum / n)
	res.StdDev = float32(math.Sqrt(varSum / n))

	first := out[0].Diff
	d := Diff{Buf: make([]float32, len(first.Buf)), Height: first.Height, Width: first.Width}
	copy(d.Buf, first.Buf)
	if agg == AvgDiff {
		for i := range d.Buf {
			d.Buf[i] /= float32(len(out))
		}
	}
	for _, s := range out[1:] {
		for i, v := range s.Diff.Buf {
			switch agg {
			case AvgDiff:
				d.Buf[i] += v / float32(len(out))
			case MaxDiff:
				d.Buf[i] = max(d.Buf[i], v)
			case MinDiff:
				d.Buf[i] = min(d.Buf[i], v)
			}
		}
	}
	res.Diff = d
	return res
}
