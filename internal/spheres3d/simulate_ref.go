package spheres3d

// referenceSimulator is the sequential simulator every other variant is
// checked against.
type referenceSimulator struct {
	g     float64
	gen   *generations
	stats simStats
}

// NewReferenceSimulator copies the spec's spheres into a fresh double buffer.
func NewReferenceSimulator(spec *SimulatorSpec) Simulator {
	DebugLog("reference simulator: %d spheres, g=%g", len(spec.Spheres), spec.G)
	return &referenceSimulator{g: spec.G, gen: newGenerations(spec.Spheres)}
}

func (s *referenceSimulator) Simulate() []Sphere {
	gen := s.gen
	advance(gen, &s.stats,
		func(window float32) (float32, int, int) {
			return nextCollision(gen.cur, window)
		},
		func(dt float32) {
			for i := range gen.cur {
				gen.pending(i).Accel = accelOf(gen.cur, s.g, i)
			}
			for i := range gen.cur {
				step(gen.current(i), gen.pending(i), dt)
			}
		},
	)
	return gen.cur
}

func (s *referenceSimulator) Close() { s.gen.release() }
