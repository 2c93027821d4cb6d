package spheres3d

import (
	"fmt"
	"strings"
)

const tabWidth = 4

func DbgVector(v Vector3) string {
	return fmt.Sprintf("Vector { .x = %e, .y = %e, .z = %e }", v.X, v.Y, v.Z)
}

func DbgColor(c Color) string {
	return fmt.Sprintf("Color { .red = %f, .green = %f, .blue = %f }", c.R, c.G, c.B)
}

func dbgMaterial(m Material, indent int) string {
	pad := strings.Repeat(" ", indent)
	return fmt.Sprintf("Material {\n%s\t.diffuse = %s\n%s\t.reflection = %f\n%s}",
		pad, DbgColor(m.Diffuse), pad, m.Reflection, pad)
}

func DbgMaterial(m Material) string { return dbgMaterial(m, 0) }

func dbgSphere(s *Sphere, indent int, first bool) string {
	pad := strings.Repeat(" ", indent)
	lead := ""
	if first {
		lead = pad
	}
	return fmt.Sprintf("%sSphere {\n%s\t.pos = %s\n%s\t.vel = %s\n%s\t.accel = %s\n%s\t.r = %e\n%s\t.mass = %e\n%s\t.mat = %s\n%s}",
		lead,
		pad, DbgVector(s.Pos),
		pad, DbgVector(s.Vel),
		pad, DbgVector(s.Accel),
		pad, s.R,
		pad, s.Mass,
		pad, dbgMaterial(s.Mat, indent+tabWidth),
		pad)
}

func DbgSphere(s *Sphere) string { return dbgSphere(s, 0, false) }

func dbgLight(l *Light, indent int, first bool) string {
	pad := strings.Repeat(" ", indent)
	lead := ""
	if first {
		lead = pad
	}
	return fmt.Sprintf("%sLight {\n%s\t.pos = %s,\n%s\t.intensity = %s\n%s}",
		lead, pad, DbgVector(l.Pos), pad, DbgColor(l.Intensity), pad)
}

func DbgLight(l *Light) string { return dbgLight(l, 0, false) }

// dbgList renders n items one per line, each followed by a comma.
func dbgList(n, indent int, item func(i, indent int) string) string {
	if n == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		b.WriteString("\n")
		b.WriteString(item(i, indent+tabWidth))
		b.WriteString(",")
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(" ", indent))
	b.WriteString("]")
	return b.String()
}

func DbgSimulatorSpec(spec *SimulatorSpec) string {
	spheres := dbgList(len(spec.Spheres), tabWidth, func(i, indent int) string {
		return dbgSphere(&spec.Spheres[i], indent, true)
	})
	return fmt.Sprintf("SimulateState {\n\t.spheres = %s\n\t.n_spheres = %d\n\t.g = %f\n}",
		spheres, len(spec.Spheres), spec.G)
}

func DbgRendererSpec(spec *RendererSpec) string {
	lights := dbgList(len(spec.Lights), tabWidth, func(i, indent int) string {
		return dbgLight(&spec.Lights[i], indent, true)
	})
	return fmt.Sprintf("RenderState {\n\t.resolution = %d\n\t.eye = %s\n\t.proj_plane_u = %s\n\t.proj_plane_v = %s\n\t.viewport_size = %f\n\t.lights = %s\n\t.n_lights = %d\n}",
		spec.Resolution, DbgVector(spec.Eye), DbgVector(spec.ProjPlaneU), DbgVector(spec.ProjPlaneV),
		spec.ViewportSize, lights, len(spec.Lights))
}
