package spheres3d

import (
	"fmt"
	"strings"
)

// Variant names one implementation of an engine.
type Variant int

const (
	Reference Variant = iota
	Optimized
)

func (v Variant) String() string {
	switch v {
	case Reference:
		return "reference"
	case Optimized:
		return "optimized"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "reference"/"ref"/"staff" and "optimized"/"opt"/"student".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reference", "ref", "staff":
		return Reference, nil
	case "optimized", "opt", "student":
		return Optimized, nil
	}
	return 0, fmt.Errorf("unknown variant %q (want reference or optimized)", s)
}

// Impl binds one simulator variant to one renderer variant.
type Impl struct {
	Name         string
	NewSimulator func(*SimulatorSpec) Simulator
	NewRenderer  func(*RendererSpec) Renderer
}

// Select returns the implementation combining the given variants.
func Select(sim, ren Variant) Impl {
	impl := Impl{
		Name:         sim.String() + "/" + ren.String(),
		NewSimulator: NewReferenceSimulator,
		NewRenderer:  NewReferenceRenderer,
	}
	if sim == Optimized {
		impl.NewSimulator = NewOptimizedSimulator
	}
	if ren == Optimized {
		impl.NewRenderer = NewOptimizedRenderer
	}
	return impl
}

// Instance is an initialised simulator/renderer pair.
type Instance struct {
	Impl Impl
	Sim  Simulator
	Ren  Renderer
	Res  int
}

// Init constructs both engines from their specs.
func (impl Impl) Init(rs *RendererSpec, ss *SimulatorSpec) *Instance {
	return &Instance{
		Impl: impl,
		Sim:  impl.NewSimulator(ss),
		Ren:  impl.NewRenderer(rs),
		Res:  rs.Resolution,
	}
}

// Frame simulates one frame and renders it. The returned spheres and image
// are owned by the engines.
func (in *Instance) Frame() ([]Sphere, []float32) {
	spheres := in.Sim.Simulate()
	return spheres, in.Ren.Render(spheres)
}

func (in *Instance) Close() {
	in.Sim.Close()
	in.Ren.Close()
}
