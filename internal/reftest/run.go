package reftest

import (
	"fmt"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

// E2E is one implementation together with the specs it starts from.
type E2E struct {
	Impl   spheres3d.Impl
	Render *spheres3d.RendererSpec
	Sim    *spheres3d.SimulatorSpec
}

// RunAgainstFrames runs test for n frames on one instance and compares each
// image with the matching expected frame.
func RunAgainstFrames(test E2E, expected *frames.Frames, n int, tol float32) ([]Stats, error) {
	res := test.Render.Resolution
	switch {
	case expected.IsDiff:
		return nil, fmt.Errorf("expected frames hold differences, not images")
	case expected.Height != res || expected.Width != res:
		return nil, fmt.Errorf("expected frames are %dx%d, renderer is %dx%d", expected.Width, expected.Height, res, res)
	case expected.Count < n:
		return nil, fmt.Errorf("expected frames hold %d frames, %d requested", expected.Count, n)
	}
	in := test.Impl.Init(test.Render, test.Sim)
	defer in.Close()
	out := make([]Stats, 0, n)
	for f := 0; f < n; f++ {
		_, img := in.Frame()
		out = append(out, CompareImages(expected.Frame(f), img, res, res, tol))
	}
	return out, nil
}

// frame initialises spec, runs a single frame and returns copies of the
// spheres and the image before tearing the instance down.
func frame(spec E2E) ([]spheres3d.Sphere, []float32) {
	in := spec.Impl.Init(spec.Render, spec.Sim)
	defer in.Close()
	spheres, img := in.Frame()
	return append([]spheres3d.Sphere(nil), spheres...), append([]float32(nil), img...)
}

// RunAgainstReference re-initialises both implementations every frame from
// the spheres each produced on the previous one. With resetSim the test side
// restarts from the reference spheres instead, so only one frame of
// divergence is ever measured.
func RunAgainstReference(ref, test E2E, resetSim bool, n int, tol float32) ([]Stats, error) {
	if ref.Render.Resolution != test.Render.Resolution {
		return nil, fmt.Errorf("reference renders %d px, test renders %d px", ref.Render.Resolution, test.Render.Resolution)
	}
	if len(ref.Sim.Spheres) != len(test.Sim.Spheres) {
		return nil, fmt.Errorf("reference has %d spheres, test has %d", len(ref.Sim.Spheres), len(test.Sim.Spheres))
	}
	res := ref.Render.Resolution
	out := make([]Stats, 0, n)
	for f := 0; f < n; f++ {
		refSpheres, refImg := frame(ref)
		testSpheres, testImg := frame(test)
		out = append(out, CompareImages(refImg, testImg, res, res, tol))

		ref.Sim = ref.Sim.WithSpheres(refSpheres)
		if resetSim {
			test.Sim = test.Sim.WithSpheres(refSpheres)
		} else {
			test.Sim = test.Sim.WithSpheres(testSpheres)
		}
	}
	return out, nil
}

// DiffFrames stacks the difference maps of out into a frames container. All
// maps must share the size of the first.
func DiffFrames(out []Stats) (*frames.Frames, error) {
	if len(out) == 0 {
		return frames.New(0, 0, 0, true), nil
	}
	d := frames.New(out[0].Diff.Height, out[0].Diff.Width, 0, true)
	for i, s := range out {
		if s.Diff.Height != d.Height || s.Diff.Width != d.Width {
			return nil, fmt.Errorf("difference map %d is %dx%d, expected %dx%d", i, s.Diff.Width, s.Diff.Height, d.Width, d.Height)
		}
		if err := d.Append(s.Diff.Buf); err != nil {
			return nil, fmt.Errorf("difference map %d: %w", i, err)
		}
	}
	return d, nil
}
