package tier

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/spheres3d"
)

const (
	MinTier             = 0
	MaxTier             = 80
	FramesPerTier       = 3
	DefaultCutoff       = 2000 * time.Millisecond
	DefaultBlowthroughs = 2
	// synthetic tiers
	StartSize    = 512
	GrowthRate   = 1.08
	StartSpheres = 8
)

// Spec is the input of one tier.
type Spec struct {
	Render *spheres3d.RendererSpec
	Sim    *spheres3d.SimulatorSpec
}

// Loader provides the spec of a tier.
type Loader interface {
	Load(tier int) (*Spec, error)
}

// DirLoader reads <dir>/<tier>/r and <dir>/<tier>/s from the first directory
// that has them. Tiers missing everywhere are generated with Synthetic when
// Fallback is set.
type DirLoader struct {
	Dirs     []string
	Fallback bool
}

func (l DirLoader) Load(tier int) (*Spec, error) {
	for _, dir := range l.Dirs {
		base := filepath.Join(dir, strconv.Itoa(tier))
		rs, err := spheres3d.LoadRendererSpec(filepath.Join(base, "r"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", tier, err)
		}
		ss, err := spheres3d.LoadSimulatorSpec(filepath.Join(base, "s"))
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", tier, err)
		}
		return &Spec{Render: rs, Sim: ss}, nil
	}
	if l.Fallback {
		spheres3d.DebugLog("tier %d: no spec files, generating one", tier)
		return Synthetic(tier), nil
	}
	return nil, fmt.Errorf("could not find renderer spec for tier %d: %w", tier, os.ErrNotExist)
}

// Synthetic builds a deterministic tier: the image side grows by GrowthRate
// every ten tiers from StartSize and the sphere count by GrowthRate every tier.
func Synthetic(tier int) *Spec {
	res := int(math.Round(StartSize * math.Pow(GrowthRate, float64(tier)/10)))
	n := int(math.Round(StartSpheres * math.Pow(GrowthRate, float64(tier))))
	return &Spec{Render: Camera(res), Sim: Population(n, int64(tier))}
}

// Camera looks down +z at a plane through the origin from z = -20.
func Camera(res int) *spheres3d.RendererSpec {
	return &spheres3d.RendererSpec{
		Resolution:   res,
		ViewportSize: 16,
		Eye:          spheres3d.Vector3{Z: -20},
		ProjPlaneU:   spheres3d.Vector3{X: 1},
		ProjPlaneV:   spheres3d.Vector3{Y: 1},
		Lights: []spheres3d.Light{
			{Pos: spheres3d.Vector3{X: 10, Y: 30, Z: -30}, Intensity: spheres3d.Color{R: 0.9, G: 0.9, B: 0.8}},
			{Pos: spheres3d.Vector3{X: -30, Y: -5, Z: -10}, Intensity: spheres3d.Color{R: 0.2, G: 0.3, B: 0.5}},
		},
	}
}

// Population places n non-overlapping spheres on a jittered cubic grid in
// front of Camera.
func Population(n int, seed int64) *spheres3d.SimulatorSpec {
	rnd := rand.New(rand.NewSource(seed))
	side := max(1, int(math.Ceil(math.Cbrt(float64(n)))))
	const cell = 2.5
	off := float32(side-1) * cell / 2
	spec := &spheres3d.SimulatorSpec{G: 0.02, Spheres: make([]spheres3d.Sphere, n)}
	for i := range spec.Spheres {
		x, y, z := i%side, (i/side)%side, i/(side*side)
		r := 0.3 + 0.5*rnd.Float32()
		jit := func() float32 { return (rnd.Float32() - 0.5) * (cell - 2*r) * 0.9 }
		spec.Spheres[i] = spheres3d.Sphere{
			Pos: spheres3d.Vector3{
				X: float32(x)*cell - off + jit(),
				Y: float32(y)*cell - off + jit(),
				Z: float32(z)*cell + 4 + jit(),
			},
			Vel:  spheres3d.Vector3{X: rnd.Float32() - 0.5, Y: rnd.Float32() - 0.5, Z: rnd.Float32() - 0.5},
			R:    r,
			Mass: r * r * r,
			Mat: spheres3d.Material{Diffuse: spheres3d.Color{
				R: 0.3 + 0.7*rnd.Float32(), G: 0.3 + 0.7*rnd.Float32(), B: 0.3 + 0.7*rnd.Float32(),
			}},
		}
	}
	return spec
}
