package reftest

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/nhkhiemSWE/3D-SphereStimulation/internal/frames"
)

// RefOutMagic opens a serialised aggregate Stats.
//
// Layout (little-endian): u64 magic, f32 avg, f32 std_dev, f32 min, f32 max,
// u8 correct, u64 height, u64 width, height*width f32 difference map.
const RefOutMagic uint64 = 0x782d928c37a220de

type refOutHeader struct {
	Magic   uint64
	Avg     float32
	StdDev  float32
	Min     float32
	Max     float32
	Correct bool
	Height  uint64
	Width   uint64
}

// WriteRefOut serialises s. It shares the sentinel errors of the frames
// container.
func WriteRefOut(w io.Writer, s Stats) error {
	if w == nil {
		return frames.ErrNil
	}
	if len(s.Diff.Buf) != s.Diff.Height*s.Diff.Width {
		return fmt.Errorf("%w: difference map has %d floats for %dx%d", frames.ErrWroteTooFew, len(s.Diff.Buf), s.Diff.Width, s.Diff.Height)
	}
	bw := bufio.NewWriter(w)
	h := refOutHeader{
		Magic: RefOutMagic, Avg: s.Avg, StdDev: s.StdDev, Min: s.Min, Max: s.Max, Correct: s.Correct,
		Height: uint64(s.Diff.Height), Width: uint64(s.Diff.Width),
	}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("%w: %w", frames.ErrWroteTooFew, err)
	}
	if err := binary.Write(bw, binary.LittleEndian, s.Diff.Buf); err != nil {
		return fmt.Errorf("%w: %w", frames.ErrWroteTooFew, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", frames.ErrWroteTooFew, err)
	}
	return nil
}

// ReadRefOut decodes what WriteRefOut wrote and rejects trailing bytes.
func ReadRefOut(r io.Reader) (Stats, error) {
	if r == nil {
		return Stats{}, frames.ErrNil
	}
	br := bufio.NewReader(r)
	var magic uint64
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", frames.ErrReadTooFew, err)
	}
	if magic != RefOutMagic {
		return Stats{}, fmt.Errorf("%w: got %#x", frames.ErrHeaderMismatch, magic)
	}
	h := refOutHeader{Magic: magic}
	for _, field := range []any{&h.Avg, &h.StdDev, &h.Min, &h.Max, &h.Correct, &h.Height, &h.Width} {
		if err := binary.Read(br, binary.LittleEndian, field); err != nil {
			return Stats{}, fmt.Errorf("%w: %w", frames.ErrReadTooFew, err)
		}
	}
	const maxPixels = 1 << 28
	if h.Height > maxPixels || h.Width > maxPixels || h.Height*h.Width > maxPixels {
		return Stats{}, fmt.Errorf("%w: %dx%d difference map", frames.ErrHeaderMismatch, h.Width, h.Height)
	}
	s := Stats{Correct: h.Correct, Avg: h.Avg, StdDev: h.StdDev, Min: h.Min, Max: h.Max,
		Diff: Diff{Height: int(h.Height), Width: int(h.Width), Buf: make([]float32, h.Height*h.Width)}}
	if err := binary.Read(br, binary.LittleEndian, s.Diff.Buf); err != nil {
		return Stats{}, fmt.Errorf("%w: %w", frames.ErrReadTooFew, err)
	}
	if _, err := br.ReadByte(); err == nil {
		return Stats{}, frames.ErrTooMuchData
	} else if !errors.Is(err, io.EOF) {
		return Stats{}, err
	}
	return s, nil
}
