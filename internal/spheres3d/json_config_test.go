package spheres3d

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
)

const inlineCfg = `{
  "g": 0.1,
  "spheres": [
    {"pos": {"x": -2, "y": 0, "z": 10}, "vel": {"x": 1}, "r": 1, "mass": 1, "diffuse": {"r": 1, "g": 0.2, "b": 0.2}},
    {"pos": {"x": 2, "y": 0, "z": 10}, "vel": {"x": -1}, "r": 1, "mass": 1, "diffuse": {"r": 0.2, "g": 0.2, "b": 1}}
  ],
  "camera": {"resolution": 16, "viewportSize": 6, "eye": {"z": -8}, "u": {"x": 1}, "v": {"y": 1}},
  "lights": [{"pos": {"y": 20, "z": -20}, "intensity": {"r": 1, "g": 1, "b": 1}}],
  "frames": 3,
  "simulator": "reference",
  "gifOut": "%s",
  "framesOut": "%s"
}`

func writeCfg(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeCfg(t, `{"spheres": [{"r": 1, "mass": 1}], "camera": {"resolution": 8, "viewportSize": 1, "u": {"x": 1}, "v": {"y": 1}}}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Frames != Frames || cfg.GIFOut != GIFOut || cfg.GIFDelay != GIFDelay || cfg.Gamma != Gamma {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.Simulator != "optimized" || cfg.Renderer != "optimized" {
		t.Fatalf("variants default to optimized: %+v", cfg)
	}
	if _, err := loadConfig(writeCfg(t, `{"frames": 2}`)); err == nil {
		t.Fatal("expected an error for a config without spheres")
	}
}

func TestConfigSpecsValidation(t *testing.T) {
	if _, err := (SphereCfg{R: 0, Mass: 1}).Build(); err == nil {
		t.Fatal("expected an error for r = 0")
	}
	if _, err := (CameraCfg{Resolution: 8, ViewportSize: 1, U: Vector3{1, 0, 0}, V: Vector3{2, 0, 0}}).Build(nil); err == nil {
		t.Fatal("expected an error for parallel u and v")
	}
	cfg := &Config{Spheres: []SphereCfg{{R: 1, Mass: 1}}}
	if _, _, err := cfg.Specs(); err == nil || !strings.Contains(err.Error(), "camera") {
		t.Fatalf("expected a missing camera error, got %v", err)
	}
}

func TestRunInlineConfig(t *testing.T) {
	dir := t.TempDir()
	gifPath := filepath.Join(dir, "out.gif")
	framesPath := filepath.Join(dir, "out.frames")
	cfgPath := writeCfg(t, strings.Replace(strings.Replace(inlineCfg, "%s", gifPath, 1), "%s", framesPath, 1))
	if err := Run(cfgPath); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(gifPath); err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	f, err := frames.ReadFile(framesPath)
	if err != nil {
		t.Fatal(err)
	}
	if f.Count != 3 || f.Width != 16 || f.IsDiff {
		t.Fatalf("unexpected frames header %+v", f)
	}
}

func TestRecordMatchesFrames(t *testing.T) {
	ss, rs := crowd(10, 1), testCamera(12)
	rec, err := Record(Select(Optimized, Optimized), rs, ss, 2)
	if err != nil {
		t.Fatal(err)
	}
	in := Select(Reference, Reference).Init(rs, ss)
	defer in.Close()
	for f := 0; f < 2; f++ {
		_, img := in.Frame()
		if n, _ := diffCount(img, rec.Frame(f)); n != 0 {
			t.Fatalf("frame %d differs in %d floats", f, n)
		}
	}
}

// shortRenderer returns fewer floats than a frame holds.
type shortRenderer struct{}

func (shortRenderer) Render([]Sphere) []float32 { return make([]float32, 5) }
func (shortRenderer) Close() {}

func TestRecordRejectsWrongImageSize(t *testing.T) {
	impl := Select(Reference, Reference)
	impl.NewRenderer = func(*RendererSpec) Renderer { return shortRenderer{} }
	if _, err := Record(impl, testCamera(4), headOn(), 2); err == nil {
		t.Fatal("expected an error for a short image")
	}
}
