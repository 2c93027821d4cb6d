package spheres3d

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelFor splits [0,n) into at most Workers contiguous chunks and runs fn
// on each concurrently. Chunks never overlap, so fn may write index-owned
// memory without locks. It returns once every chunk is done.
func parallelFor(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	workers := Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers == 1 {
		fn(0, n)
		return
	}
	per, rem := n/workers, n%workers
	var g errgroup.Group
	lo := 0
	for w := 0; w < workers; w++ {
		hi := lo + per
		if w < rem {
			hi++
		}
		a, b := lo, hi
		g.Go(func() error {
			fn(a, b)
			return nil
		})
		lo = hi
	}
	_ = g.Wait()
}
