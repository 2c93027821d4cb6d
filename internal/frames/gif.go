package frames

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Diff pixels that are wrong at all start at this palette index, so even
// tiny errors are visibly red.
const diffBaseRed = 80

// DiffPalette fades from white (index 0, correct) to full red (index 255).
func DiffPalette() color.Palette {
	white := colorful.Color{R: 1, G: 1, B: 1}
	red := colorful.Color{R: 1, G: 0, B: 0}
	p := make(color.Palette, 256)
	for i := range p {
		r, g, b := white.BlendRgb(red, float64(i)/255).RGB255()
		p[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// diffIndex maps a (log scaled) difference in [0, 1] to a palette index.
// Index 255 is avoided.
func diffIndex(v float32) uint8 {
	if v == 0 {
		return 0
	}
	c := int(float64(v) * (254 - diffBaseRed))
	c = max(0, min(c, 254-diffBaseRed))
	return uint8(c + diffBaseRed)
}

// SaveAnimatedGIF writes one GIF frame per stored frame.
// delay is in 100ths of a second (e.g., 10 => 10 fps).
// Images are gamma corrected (e.g., 0.7 brightens) and dithered onto the
// Plan9 palette; difference maps use the white-to-red DiffPalette.
func SaveAnimatedGIF(f *Frames, path string, delay int, gamma float64) error {
	if f == nil {
		return ErrNil
	}
	W, H, N := f.Width, f.Height, f.Count

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, N),
		Delay:     make([]int, 0, N),
		LoopCount: 0,
	}
	rgba := image.NewNRGBA(image.Rect(0, 0, W, H))
	diffPal := DiffPalette()

	// helper: channel value in [0,1] → 0..255 with gamma
	toByte := func(v float32) uint8 {
		if v <= 0 {
			return 0
		}
		n := math.Min(float64(v), 1)
		if gamma != 1 {
			n = math.Pow(n, 1.0/gamma)
		}
		return uint8(math.Round(n * 255))
	}

	for k := 0; k < N; k++ {
		if k%max(1, N/100) == 0 { // ~1% steps
			percent := float64(k+1) * 100 / float64(N)
			fmt.Printf("[GIF] %.2f%%\n", percent)
		}
		frame := f.Frame(k)

		if f.IsDiff {
			pimg := image.NewPaletted(image.Rect(0, 0, W, H), diffPal)
			for j := 0; j < H; j++ {
				// flip Y so up is up
				row := (H - 1 - j) * pimg.Stride
				for i := 0; i < W; i++ {
					pimg.Pix[row+i] = diffIndex(frame[i+j*W])
				}
			}
			out.Image = append(out.Image, pimg)
			out.Delay = append(out.Delay, delay)
			continue
		}

		// 1) fill RGBA (flip Y so up is up)
		for j := 0; j < H; j++ {
			rowOff := (H - 1 - j) * rgba.Stride
			for i := 0; i < W; i++ {
				idx := (i + j*W) * 3
				p := rowOff + i*4
				rgba.Pix[p+0] = toByte(frame[idx+0])
				rgba.Pix[p+1] = toByte(frame[idx+1])
				rgba.Pix[p+2] = toByte(frame[idx+2])
				rgba.Pix[p+3] = 255
			}
		}

		// 2) Quantize to paletted for GIF
		pimg := image.NewPaletted(rgba.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), rgba, image.Point{})

		out.Image = append(out.Image, pimg)
		out.Delay = append(out.Delay, delay)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return gif.EncodeAll(file, out)
}
