package frames

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
)

// SavePNGSequence16 writes one 16-bit PNG per frame, named
// <prefix>_<k>.png with k zero padded to the frame count.
// Difference maps are written as greyscale.
func SavePNGSequence16(f *Frames, prefix string, gamma float64) error {
	if f == nil {
		return ErrNil
	}
	W, H, N := f.Width, f.Height, f.Count
	per := f.FloatsPerPixel()
	if err := os.MkdirAll(filepath.Dir(prefix), 0o755); err != nil {
		return err
	}

	// Helper: value in [0,1] -> [0..65535] with gamma.
	toU16 := func(v float32) uint16 {
		if v <= 0 {
			return 0
		}
		n := math.Min(float64(v), 1)
		if gamma != 1 {
			n = math.Pow(n, 1.0/gamma)
		}
		return uint16(math.Round(n * 65535.0))
	}

	width := 1
	if N > 1 {
		width = int(math.Log10(float64(N-1))) + 1
	}

	step := 1
	if N >= 100 {
		step = N / 100
	}

	img := image.NewNRGBA64(image.Rect(0, 0, W, H))
	for k := 0; k < N; k++ {
		if k%step == 0 {
			percent := float64(k+1) * 100 / float64(N)
			fmt.Printf("[PNG]  %.2f%%\n", percent)
		}
		frame := f.Frame(k)

		// Fill the 16-bit image (flip Y so up is up).
		const pxBytes = 8
		for j := 0; j < H; j++ {
			rowOff := (H - 1 - j) * img.Stride
			for i := 0; i < W; i++ {
				base := (i + j*W) * per
				r := toU16(frame[base])
				g, b := r, r
				if per == 3 {
					g = toU16(frame[base+1])
					b = toU16(frame[base+2])
				}
				p := rowOff + i*pxBytes
				// NRGBA64 stores big-endian uint16 per channel: R,G, B, A.
				img.Pix[p+0], img.Pix[p+1] = uint8(r>>8), uint8(r)
				img.Pix[p+2], img.Pix[p+3] = uint8(g>>8), uint8(g)
				img.Pix[p+4], img.Pix[p+5] = uint8(b>>8), uint8(b)
				img.Pix[p+6], img.Pix[p+7] = 0xFF, 0xFF
			}
		}

		full := fmt.Sprintf("%s_%0*d.png", prefix, width, k)
		file, err := os.Create(full)
		if err != nil {
			return err
		}
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(file, img); err != nil {
			file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return err
		}
	}
	return nil
}
