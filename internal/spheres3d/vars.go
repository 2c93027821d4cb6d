package spheres3d

var (
	Debug   = false // enables per-frame simulator and renderer counters
	PNG     = false // set to true to save a 16-bit PNG sequence instead of a GIF
	Workers = 0     // parallel workers for the optimized engines, < 1 means runtime.NumCPU()
	// Compile time checks that every variant satisfies its contract
	_ Simulator = (*referenceSimulator)(nil)
	_ Simulator = (*optimizedSimulator)(nil)
	_ Renderer  = (*referenceRenderer)(nil)
	_ Renderer  = (*optimizedRenderer)(nil)
)
