package spheres3d

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
)

// Record runs n frames on a fresh instance and collects every image. It fails
// when a renderer returns an image of the wrong size.
func Record(impl Impl, rs *RendererSpec, ss *SimulatorSpec, n int) (*frames.Frames, error) {
	in := impl.Init(rs, ss)
	defer in.Close()
	out := frames.New(rs.Resolution, rs.Resolution, 0, false)
	out.Buf = make([]float32, 0, out.FloatsPerFrame()*n)
	for f := 0; f < n; f++ {
		_, img := in.Frame()
		if err := out.Append(img); err != nil {
			return nil, fmt.Errorf("%s frame %d: %w", impl.Name, f, err)
		}
	}
	return out, nil
}

func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	ss, rs, err := cfg.Specs()
	if err != nil {
		return err
	}
	sim, err := ParseVariant(cfg.Simulator)
	if err != nil {
		return err
	}
	ren, err := ParseVariant(cfg.Renderer)
	if err != nil {
		return err
	}
	if cfg.Workers > 0 {
		Workers = cfg.Workers
	}
	impl := Select(sim, ren)
	DebugLog("Implementation: %s, %d spheres, %dx%d, %d frames", impl.Name, len(ss.Spheres), rs.Resolution, rs.Resolution, cfg.Frames)

	start := time.Now()
	out, err := Record(impl, rs, ss, cfg.Frames)
	if err != nil {
		return err
	}
	DebugLog("Frames: %d, time: %s", cfg.Frames, time.Since(start))

	if cfg.FramesOut != "" {
		if err := frames.WriteFile(cfg.FramesOut, out); err != nil {
			return err
		}
		DebugLog("Saved frames: %s", cfg.FramesOut)
	}

	if PNG {
		prefix := strings.Replace(cfg.GIFOut, ".gif", "", 1)
		prefix = strings.Replace(prefix, "gifs/", "pngs/", 1)
		if err := frames.SavePNGSequence16(out, prefix, cfg.Gamma); err != nil {
			return err
		}
		DebugLog("Saved PNG sequence with prefix: %s", prefix)
		return nil
	}
	if err := frames.SaveAnimatedGIF(out, cfg.GIFOut, cfg.GIFDelay, cfg.Gamma); err != nil {
		return err
	}
	DebugLog("Saved animated GIF: %s", cfg.GIFOut)
	return nil
}
