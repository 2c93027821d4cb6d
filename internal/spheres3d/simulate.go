package spheres3d

import "math"

// Simulator advances a sphere population one frame at a time.
type Simulator interface {
	// Simulate advances one frame and returns the current generation.
	// The slice is owned by the simulator and valid until the next
	// Simulate or Close.
	Simulate() []Sphere
	// Close releases the sphere buffers; the simulator must not be used afterwards.
	Close()
}

// frameDuration is 1/ln(n) for n > 1 so denser systems take finer steps.
func frameDuration(n int) float32 {
	if n > 1 {
		return float32(1 / math.Log(float64(n)))
	}
	return 1
}

// accelOf sums the gravitational pull of every other sphere on sphere i.
// Terms are accumulated in float64 and narrowed once.
func accelOf(spheres []Sphere, g float64, i int) Vector3 {
	var rx, ry, rz float64
	si := &spheres[i]
	for j := range spheres {
		if j == i {
			continue
		}
		sj := &spheres[j]
		iToJ := si.Pos.Sub(sj.Pos)
		jToI := iToJ.Scale(-1)
		f := jToI.Scale(float32(g * float64(sj.Mass) / math.Pow(float64(iToJ.Len()), 3)))
		rx += float64(f.X)
		ry += float64(f.Y)
		rz += float64(f.Z)
	}
	return Vector3{float32(rx), float32(ry), float32(rz)}
}

// step integrates sphere i of the current generation over dt into next.
// Velocity uses the acceleration committed by the previous substep and
// position uses the velocity before this update.
func step(cur, next *Sphere, dt float32) {
	next.Vel = cur.Vel.Add(cur.Accel.Scale(dt))
	next.Pos = cur.Pos.Add(cur.Vel.Scale(dt))
}

// collide resolves the selected collision on the committed generation.
func collide(gen *generations, i, j int) {
	if i < 0 || j < 0 {
		return
	}
	resolveCollision(gen.current(i), gen.current(j))
}

// simStats counts the work of the last frame. It is only filled in while
// Debug is set.
type simStats struct {
	frame      int
	substeps   int
	collisions int
}

// advance runs substeps until the frame budget is consumed. findNext picks
// the next collision within the window; integrate writes the next generation.
func advance(gen *generations, stats *simStats, findNext func(window float32) (float32, int, int), integrate func(dt float32)) {
	left := frameDuration(gen.len())
	substeps, collisions := 0, 0
	for float64(left) > timeEps {
		dt, i, j := findNext(left)
		integrate(dt)
		gen.commit()
		collide(gen, i, j)
		left -= dt
		substeps++
		if i >= 0 {
			collisions++
		}
	}
	if Debug {
		stats.frame++
		stats.substeps, stats.collisions = substeps, collisions
		DebugLog("frame %d: %d substeps, %d collisions, %d spheres", stats.frame, substeps, collisions, gen.len())
	}
}
