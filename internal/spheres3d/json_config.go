package spheres3d

import (
	"encoding/json"
	"fmt"
	"os"
)

type SphereCfg struct {
	Pos        Vector3 `json:"pos"`
	Vel        Vector3 `json:"vel"`
	R          float32 `json:"r"`
	Mass       float32 `json:"mass"`
	Diffuse    Color   `json:"diffuse"`
	Reflection float32 `json:"reflection,omitempty"`
}

type LightCfg struct {
	Pos       Vector3 `json:"pos"`
	Intensity Color   `json:"intensity"`
}

// CameraCfg is an inline render spec.
type CameraCfg struct {
	Resolution   int     `json:"resolution"`
	ViewportSize float32 `json:"viewportSize"`
	Eye          Vector3 `json:"eye"`
	U            Vector3 `json:"u"`
	V            Vector3 `json:"v"`
}

type Config struct {
	// Spec files in the text format. When empty, the inline fields below are used.
	SimSpec    string `json:"simSpec,omitempty"`
	RenderSpec string `json:"renderSpec,omitempty"`

	G       float64     `json:"g,omitempty"`
	Spheres []SphereCfg `json:"spheres,omitempty"`
	Camera  *CameraCfg  `json:"camera,omitempty"`
	Lights  []LightCfg  `json:"lights,omitempty"`

	Frames    int     `json:"frames,omitempty"`
	Simulator string  `json:"simulator,omitempty"`
	Renderer  string  `json:"renderer,omitempty"`
	Workers   int     `json:"workers,omitempty"`
	FramesOut string  `json:"framesOut,omitempty"`
	GIFOut    string  `json:"gifOut"`
	GIFDelay  int     `json:"gifDelay,omitempty"`
	Gamma     float64 `json:"gamma,omitempty"`
}

// Build validates the sphere. Radius and mass must be positive.
func (c SphereCfg) Build() (Sphere, error) {
	if !(c.R > 0) || !(c.Mass > 0) {
		return Sphere{}, fmt.Errorf("sphere needs r > 0 and mass > 0, got r=%g mass=%g", c.R, c.Mass)
	}
	return Sphere{
		Pos:  c.Pos,
		Vel:  c.Vel,
		R:    c.R,
		Mass: c.Mass,
		Mat:  Material{Diffuse: c.Diffuse, Reflection: c.Reflection},
	}, nil
}

func (c CameraCfg) Build(lights []LightCfg) (*RendererSpec, error) {
	if c.Resolution <= 0 {
		return nil, fmt.Errorf("camera resolution must be positive, got %d", c.Resolution)
	}
	if !(c.ViewportSize > 0) {
		return nil, fmt.Errorf("camera viewportSize must be positive, got %g", c.ViewportSize)
	}
	if c.U.Cross(c.V).IsZero() {
		return nil, fmt.Errorf("camera u and v must span a plane")
	}
	spec := &RendererSpec{
		Resolution:   c.Resolution,
		ViewportSize: c.ViewportSize,
		Eye:          c.Eye,
		ProjPlaneU:   c.U,
		ProjPlaneV:   c.V,
	}
	for _, L := range lights {
		spec.Lights = append(spec.Lights, Light(L))
	}
	return spec, nil
}

// Specs loads or builds both engine specs.
func (cfg *Config) Specs() (*SimulatorSpec, *RendererSpec, error) {
	var (
		ss  *SimulatorSpec
		rs  *RendererSpec
		err error
	)
	if cfg.SimSpec != "" {
		if ss, err = LoadSimulatorSpec(cfg.SimSpec); err != nil {
			return nil, nil, err
		}
	} else {
		ss = &SimulatorSpec{G: cfg.G}
		for i, sc := range cfg.Spheres {
			s, err := sc.Build()
			if err != nil {
				return nil, nil, fmt.Errorf("sphere #%d: %w", i, err)
			}
			ss.Spheres = append(ss.Spheres, s)
		}
	}
	switch {
	case cfg.RenderSpec != "":
		if rs, err = LoadRendererSpec(cfg.RenderSpec); err != nil {
			return nil, nil, err
		}
	case cfg.Camera != nil:
		if rs, err = cfg.Camera.Build(cfg.Lights); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("config has neither renderSpec nor camera")
	}
	return ss, rs, nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	// Defaults / validation
	if cfg.Frames <= 0 {
		cfg.Frames = Frames
	}
	if cfg.Simulator == "" {
		cfg.Simulator = Optimized.String()
	}
	if cfg.Renderer == "" {
		cfg.Renderer = Optimized.String()
	}
	if cfg.GIFOut == "" {
		cfg.GIFOut = GIFOut
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
	if cfg.SimSpec == "" && len(cfg.Spheres) == 0 {
		return nil, fmt.Errorf("config has no spheres")
	}
	DebugLog("Loaded config from %s: frames=%d, sim=%s, render=%s, gamma=%f", path, cfg.Frames, cfg.Simulator, cfg.Renderer, cfg.Gamma)
	return &cfg, nil
}
