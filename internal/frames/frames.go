package frames

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

// Magic opens every frames file.
const Magic uint64 = 0xdd62fd16ef82c162

// readChunk bounds how many floats are allocated ahead of the data actually
// present, so a corrupt header cannot force a huge allocation.
const readChunk = 1 << 16

var (
	ErrHeaderMismatch = errors.New("frames: header mismatch")
	ErrReadTooFew     = errors.New("frames: read too few items")
	ErrTooMuchData    = errors.New("frames: too much data")
	ErrWroteTooFew    = errors.New("frames: wrote too few items")
	ErrNil            = errors.New("frames: nil argument")
)

// Frames is a sequence of equally sized images (3 floats per pixel) or
// difference maps (1 float per pixel), stored row-major and back to back.
type Frames struct {
	IsDiff bool
	Height int
	Width  int
	Count  int
	Buf    []float32
}

// New allocates count zeroed frames.
func New(height, width, count int, isDiff bool) *Frames {
	f := &Frames{IsDiff: isDiff, Height: height, Width: width, Count: count}
	f.Buf = make([]float32, f.FloatsPerFrame()*count)
	return f
}

func (f *Frames) FloatsPerPixel() int {
	if f.IsDiff {
		return 1
	}
	return 3
}

func (f *Frames) FloatsPerFrame() int { return f.FloatsPerPixel() * f.Height * f.Width }

// Frame returns the i-th frame as a sub-slice of Buf.
func (f *Frames) Frame(i int) []float32 {
	n := f.FloatsPerFrame()
	return f.Buf[i*n : (i+1)*n]
}

// Append adds one frame copied from img.
func (f *Frames) Append(img []float32) error {
	if len(img) != f.FloatsPerFrame() {
		return fmt.Errorf("frame has %d floats, expected %d", len(img), f.FloatsPerFrame())
	}
	f.Buf = append(f.Buf, img...)
	f.Count++
	return nil
}

// LogScale maps every difference above 1e-8 onto [0, 1] logarithmically,
// so 1e-8 maps to 0 and 1 maps to 1/(1-ln 1e-8). Smaller values are kept.
func (f *Frames) LogScale() error {
	if !f.IsDiff {
		return errors.New("log scale applies to difference frames only")
	}
	logEps := float32(math.Log(1e-8))
	logMax := 1 - logEps
	for i, px := range f.Buf {
		if px > 1e-8 {
			f.Buf[i] = float32((math.Log(float64(px)) - float64(logEps)) / float64(logMax))
		}
	}
	return nil
}

type header struct {
	Magic  uint64
	IsDiff bool
	Height uint64
	Width  uint64
	Count  uint64
}

// Read decodes one frames container and requires r to end right after it.
func Read(r io.Reader) (*Frames, error) {
	if r == nil {
		return nil, ErrNil
	}
	br := bufio.NewReader(r)
	var h header
	if err := binary.Read(br, binary.LittleEndian, &h.Magic); err != nil {
		return nil, fmt.Errorf("%w: magic: %w", ErrReadTooFew, err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: got %#x", ErrHeaderMismatch, h.Magic)
	}
	for _, field := range []any{&h.IsDiff, &h.Height, &h.Width, &h.Count} {
		if err := binary.Read(br, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("%w: header: %w", ErrReadTooFew, err)
		}
	}

	f := &Frames{IsDiff: h.IsDiff}
	want, ok := totalFloats(h, uint64(f.FloatsPerPixel()))
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d x %d frames overflows", ErrHeaderMismatch, h.Height, h.Width, h.Count)
	}
	f.Height, f.Width, f.Count = int(h.Height), int(h.Width), int(h.Count)

	f.Buf = make([]float32, 0, min(want, readChunk))
	chunk := make([]float32, min(want, readChunk))
	for left := want; left > 0; {
		n := min(left, readChunk)
		if err := binary.Read(br, binary.LittleEndian, chunk[:n]); err != nil {
			return nil, fmt.Errorf("%w: expected %d floats: %w", ErrReadTooFew, want, err)
		}
		f.Buf = append(f.Buf, chunk[:n]...)
		left -= n
	}
	if _, err := br.ReadByte(); err == nil {
		return nil, ErrTooMuchData
	} else if !errors.Is(err, io.EOF) {
		return nil, err
	}
	return f, nil
}

// totalFloats is height*width*count*perPixel if it fits an int.
func totalFloats(h header, perPixel uint64) (int, bool) {
	total := perPixel
	for _, d := range []uint64{h.Height, h.Width, h.Count} {
		if d != 0 && total > math.MaxInt/d {
			return 0, false
		}
		total *= d
	}
	return int(total), true
}

// Write encodes f. The buffer must hold exactly Count frames.
func Write(w io.Writer, f *Frames) error {
	if w == nil || f == nil {
		return ErrNil
	}
	want := f.FloatsPerFrame() * f.Count
	if len(f.Buf) < want {
		return fmt.Errorf("%w: buffer has %d floats, header needs %d", ErrWroteTooFew, len(f.Buf), want)
	}
	if len(f.Buf) > want {
		return fmt.Errorf("%w: buffer has %d floats, header needs %d", ErrTooMuchData, len(f.Buf), want)
	}
	bw := bufio.NewWriter(w)
	h := header{Magic: Magic, IsDiff: f.IsDiff, Height: uint64(f.Height), Width: uint64(f.Width), Count: uint64(f.Count)}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWroteTooFew, err)
	}
	if err := binary.Write(bw, binary.LittleEndian, f.Buf); err != nil {
		return fmt.Errorf("%w: data: %w", ErrWroteTooFew, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrWroteTooFew, err)
	}
	return nil
}

func ReadFile(path string) (*Frames, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile creates the parent directory if needed.
func WriteFile(path string, f *Frames) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(file, f); err != nil {
		file.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return file.Close()
}
