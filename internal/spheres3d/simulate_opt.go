package spheres3d

// optimizedSimulator parallelises the O(n²) parts of a substep across
// spheres. The arithmetic per sphere is identical to the reference, so
// both produce the same generations.
type optimizedSimulator struct {
	g     float64
	gen   *generations
	stats simStats

	// per-bucket candidates of the collision scan, reused across substeps
	bucketT  []float32
	bucketJ  []int
	bucketOK []bool
}

// NewOptimizedSimulator copies the spec's spheres into a fresh double buffer.
func NewOptimizedSimulator(spec *SimulatorSpec) Simulator {
	n := len(spec.Spheres)
	DebugLog("optimized simulator: %d spheres, g=%g, workers=%d", n, spec.G, Workers)
	return &optimizedSimulator{
		g:        spec.G,
		gen:      newGenerations(spec.Spheres),
		bucketT:  make([]float32, n),
		bucketJ:  make([]int, n),
		bucketOK: make([]bool, n),
	}
}

func (s *optimizedSimulator) Simulate() []Sphere {
	advance(s.gen, &s.stats, s.nextCollision, s.integrate)
	return s.gen.cur
}

// nextCollision finds the same pair as the sequential scan. Every bucket is
// first scanned in parallel with the full window; a bucket with no hit under
// the full window has none under any smaller one, so only buckets with a hit
// are rescanned in order with the shrinking window.
func (s *optimizedSimulator) nextCollision(window float32) (float32, int, int) {
	cur := s.gen.cur
	parallelFor(len(cur), func(lo, hi int) {
		for a := lo; a < hi; a++ {
			s.bucketT[a], s.bucketJ[a], s.bucketOK[a] = scanBucket(cur, a, window)
		}
	})
	t, i, j := window, -1, -1
	for a := range cur {
		if !s.bucketOK[a] {
			continue
		}
		if i < 0 {
			// nothing accepted yet, so the full-window scan is already exact
			t, i, j = s.bucketT[a], a, s.bucketJ[a]
			continue
		}
		if ta, jb, ok := scanBucket(cur, a, t); ok {
			t, i, j = ta, a, jb
		}
	}
	return t, i, j
}

func (s *optimizedSimulator) integrate(dt float32) {
	gen := s.gen
	cur := gen.cur
	// Both writes go to next and both reads come from cur, so the
	// acceleration pass and the integration pass fuse into one.
	parallelFor(len(cur), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			next := gen.pending(i)
			next.Accel = accelOf(cur, s.g, i)
			step(&cur[i], next, dt)
		}
	})
}

func (s *optimizedSimulator) Close() {
	s.gen.release()
	s.bucketT, s.bucketJ, s.bucketOK = nil, nil, nil
}
