package spheres3d

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
)

// SimulatorSpec is the immutable input of a simulation.
//
// Text format (whitespace separated):
//
//	g n_spheres
//	r mass px py pz vx vy vz red green blue reflection   (n_spheres times)
type SimulatorSpec struct {
	G       float64
	Spheres []Sphere
}

// RendererSpec is the immutable input of a renderer.
//
// Text format (whitespace separated):
//
//	resolution viewport_size
//	eye_x eye_y eye_z
//	u_x u_y u_z
//	v_x v_y v_z
//	n_lights
//	px py pz red green blue   (n_lights times)
type RendererSpec struct {
	Resolution   int
	ViewportSize float32
	Eye          Vector3
	ProjPlaneU   Vector3
	ProjPlaneV   Vector3
	Lights       []Light
}

// Clone returns a deep copy of the spec.
func (s *SimulatorSpec) Clone() *SimulatorSpec {
	out := *s
	out.Spheres = append([]Sphere(nil), s.Spheres...)
	return &out
}

// Clone returns a deep copy of the spec.
func (s *RendererSpec) Clone() *RendererSpec {
	out := *s
	out.Lights = append([]Light(nil), s.Lights...)
	return &out
}

// WithSpheres returns a copy of the spec whose spheres are replaced by a copy of spheres.
func (s *SimulatorSpec) WithSpheres(spheres []Sphere) *SimulatorSpec {
	return &SimulatorSpec{G: s.G, Spheres: append([]Sphere(nil), spheres...)}
}

type tokenReader struct {
	sc  *bufio.Scanner
	pos int
}

func newTokenReader(r io.Reader) *tokenReader {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return &tokenReader{sc: sc}
}

func (t *tokenReader) next(field string) (string, error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return "", fmt.Errorf("reading %s: %w", field, err)
		}
		return "", fmt.Errorf("reading %s: %w", field, io.ErrUnexpectedEOF)
	}
	t.pos++
	return t.sc.Text(), nil
}

func (t *tokenReader) float32(field string) (float32, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("token %d (%s): %w", t.pos, field, err)
	}
	return float32(v), nil
}

func (t *tokenReader) float64(field string) (float64, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("token %d (%s): %w", t.pos, field, err)
	}
	return v, nil
}

func (t *tokenReader) count(field string) (int, error) {
	tok, err := t.next(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("token %d (%s): %w", t.pos, field, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("token %d (%s): negative count %d", t.pos, field, v)
	}
	return v, nil
}

func (t *tokenReader) floats(field string, dst ...*float32) error {
	for _, p := range dst {
		v, err := t.float32(field)
		if err != nil {
			return err
		}
		*p = v
	}
	return nil
}

// ParseSimulatorSpec reads a simulation spec in text format.
// Accelerations start at zero.
func ParseSimulatorSpec(r io.Reader) (*SimulatorSpec, error) {
	t := newTokenReader(r)
	g, err := t.float64("g")
	if err != nil {
		return nil, err
	}
	n, err := t.count("n_spheres")
	if err != nil {
		return nil, err
	}
	spec := &SimulatorSpec{G: g, Spheres: make([]Sphere, n)}
	for i := range spec.Spheres {
		s := &spec.Spheres[i]
		field := fmt.Sprintf("sphere #%d", i)
		if err := t.floats(field,
			&s.R, &s.Mass,
			&s.Pos.X, &s.Pos.Y, &s.Pos.Z,
			&s.Vel.X, &s.Vel.Y, &s.Vel.Z,
			&s.Mat.Diffuse.R, &s.Mat.Diffuse.G, &s.Mat.Diffuse.B,
			&s.Mat.Reflection,
		); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// ParseRendererSpec reads a render spec in text format.
func ParseRendererSpec(r io.Reader) (*RendererSpec, error) {
	t := newTokenReader(r)
	res, err := t.count("resolution")
	if err != nil {
		return nil, err
	}
	spec := &RendererSpec{Resolution: res}
	if err := t.floats("viewport_size", &spec.ViewportSize); err != nil {
		return nil, err
	}
	if err := t.floats("eye", &spec.Eye.X, &spec.Eye.Y, &spec.Eye.Z); err != nil {
		return nil, err
	}
	if err := t.floats("proj_plane_u", &spec.ProjPlaneU.X, &spec.ProjPlaneU.Y, &spec.ProjPlaneU.Z); err != nil {
		return nil, err
	}
	if err := t.floats("proj_plane_v", &spec.ProjPlaneV.X, &spec.ProjPlaneV.Y, &spec.ProjPlaneV.Z); err != nil {
		return nil, err
	}
	n, err := t.count("n_lights")
	if err != nil {
		return nil, err
	}
	spec.Lights = make([]Light, n)
	for i := range spec.Lights {
		L := &spec.Lights[i]
		if err := t.floats(fmt.Sprintf("light #%d", i),
			&L.Pos.X, &L.Pos.Y, &L.Pos.Z,
			&L.Intensity.R, &L.Intensity.G, &L.Intensity.B,
		); err != nil {
			return nil, err
		}
	}
	return spec, nil
}

// LoadSimulatorSpec parses the simulation spec stored at path.
func LoadSimulatorSpec(path string) (*SimulatorSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	spec, err := ParseSimulatorSpec(f)
	if err != nil {
		return nil, fmt.Errorf("simulator spec %s: %w", path, err)
	}
	return spec, nil
}

// LoadRendererSpec parses the render spec stored at path.
func LoadRendererSpec(path string) (*RendererSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	spec, err := ParseRendererSpec(f)
	if err != nil {
		return nil, fmt.Errorf("renderer spec %s: %w", path, err)
	}
	return spec, nil
}

func fmtF(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

// WriteSimulatorSpec writes spec in the text format read by ParseSimulatorSpec.
// Values are written with the shortest representation that parses back exactly.
func WriteSimulatorSpec(w io.Writer, spec *SimulatorSpec) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %d\n", strconv.FormatFloat(spec.G, 'g', -1, 64), len(spec.Spheres))
	for i := range spec.Spheres {
		s := &spec.Spheres[i]
		fmt.Fprintf(bw, "%s %s %s %s %s %s %s %s %s %s %s %s\n",
			fmtF(s.R), fmtF(s.Mass),
			fmtF(s.Pos.X), fmtF(s.Pos.Y), fmtF(s.Pos.Z),
			fmtF(s.Vel.X), fmtF(s.Vel.Y), fmtF(s.Vel.Z),
			fmtF(s.Mat.Diffuse.R), fmtF(s.Mat.Diffuse.G), fmtF(s.Mat.Diffuse.B),
			fmtF(s.Mat.Reflection))
	}
	return bw.Flush()
}

// WriteRendererSpec writes spec in the text format read by ParseRendererSpec.
func WriteRendererSpec(w io.Writer, spec *RendererSpec) error {
	bw := bufio.NewWriter(w)
	vec := func(v Vector3) string { return fmtF(v.X) + " " + fmtF(v.Y) + " " + fmtF(v.Z) }
	fmt.Fprintf(bw, "%d %s\n", spec.Resolution, fmtF(spec.ViewportSize))
	fmt.Fprintf(bw, "%s\n%s\n%s\n", vec(spec.Eye), vec(spec.ProjPlaneU), vec(spec.ProjPlaneV))
	fmt.Fprintf(bw, "%d\n", len(spec.Lights))
	for _, L := range spec.Lights {
		fmt.Fprintf(bw, "%s %s %s %s\n", vec(L.Pos), fmtF(L.Intensity.R), fmtF(L.Intensity.G), fmtF(L.Intensity.B))
	}
	return bw.Flush()
}
