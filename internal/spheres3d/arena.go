package spheres3d

import "fmt"

// generations is the simulator's double buffer. Each substep reads cur,
// writes next, then commits next into cur.
type generations struct {
	cur  []Sphere
	next []Sphere
}

func newGenerations(spheres []Sphere) *generations {
	g := &generations{
		cur:  make([]Sphere, len(spheres)),
		next: make([]Sphere, len(spheres)),
	}
	copy(g.cur, spheres)
	copy(g.next, spheres)
	return g
}

func (g *generations) len() int { return len(g.cur) }

func (g *generations) check(i int) {
	if i < 0 || i >= len(g.cur) {
		panic(fmt.Sprintf("sphere index %d out of range [0,%d)", i, len(g.cur)))
	}
}

// current returns sphere i of the committed generation.
func (g *generations) current(i int) *Sphere {
	g.check(i)
	return &g.cur[i]
}

// pending returns sphere i of the generation being written.
func (g *generations) pending(i int) *Sphere {
	g.check(i)
	return &g.next[i]
}

// commit copies the pending generation into the current one.
func (g *generations) commit() { copy(g.cur, g.next) }

func (g *generations) release() {
	g.cur = nil
	g.next = nil
}
