package frames

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func tinyFrames() *Frames {
	f := New(2, 3, 2, false)
	for i := range f.Buf {
		f.Buf[i] = float32(i) / float32(len(f.Buf))
	}
	return f
}

func TestWriteReadRoundTrip(t *testing.T) {
	f := tinyFrames()
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.Len(), 33+4*len(f.Buf); got != want {
		t.Fatalf("encoded size %d, want %d", got, want)
	}
	g, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if g.IsDiff != f.IsDiff || g.Height != f.Height || g.Width != f.Width || g.Count != f.Count {
		t.Fatalf("header mismatch: got %+v", g)
	}
	for i := range f.Buf {
		if math.Float32bits(g.Buf[i]) != math.Float32bits(f.Buf[i]) {
			t.Fatalf("float %d: got %v want %v", i, g.Buf[i], f.Buf[i])
		}
	}
}

func TestHeaderLayout(t *testing.T) {
	f := New(4, 5, 1, true)
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if m := binary.LittleEndian.Uint64(b[0:8]); m != Magic {
		t.Fatalf("magic %#x", m)
	}
	if b[8] != 1 {
		t.Fatalf("is_diff byte %d", b[8])
	}
	if h, w, n := binary.LittleEndian.Uint64(b[9:17]), binary.LittleEndian.Uint64(b[17:25]), binary.LittleEndian.Uint64(b[25:33]); h != 4 || w != 5 || n != 1 {
		t.Fatalf("dims %d %d %d", h, w, n)
	}
	if len(b) != 33+4*20 {
		t.Fatalf("diff frames should use one float per pixel, size %d", len(b))
	}
}

func TestReadBadMagic(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(0x1234))
	// A header claiming a huge body must still fail on the magic first.
	buf.Write(make([]byte, 25))
	if _, err := Read(&buf); !errors.Is(err, ErrHeaderMismatch) {
		t.Fatalf("expected ErrHeaderMismatch, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, tinyFrames()); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	if _, err := Read(bytes.NewReader(b[:len(b)-2])); !errors.Is(err, ErrReadTooFew) {
		t.Fatalf("expected ErrReadTooFew, got %v", err)
	}
	if _, err := Read(bytes.NewReader(b[:12])); !errors.Is(err, ErrReadTooFew) {
		t.Fatalf("expected ErrReadTooFew on short header, got %v", err)
	}
}

func TestReadTrailingData(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, tinyFrames()); err != nil {
		t.Fatal(err)
	}
	buf.WriteByte(0)
	if _, err := Read(&buf); !errors.Is(err, ErrTooMuchData) {
		t.Fatalf("expected ErrTooMuchData, got %v", err)
	}
}

func TestReadHugeHeaderDoesNotAllocate(t *testing.T) {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, Magic)
	buf.WriteByte(0)
	for _, d := range []uint64{1 << 20, 1 << 20, 1 << 10} {
		_ = binary.Write(&buf, binary.LittleEndian, d)
	}
	if _, err := Read(&buf); !errors.Is(err, ErrReadTooFew) {
		t.Fatalf("expected ErrReadTooFew, got %v", err)
	}
}

func TestWriteErrors(t *testing.T) {
	if err := Write(&bytes.Buffer{}, nil); !errors.Is(err, ErrNil) {
		t.Fatalf("expected ErrNil, got %v", err)
	}
	if _, err := Read(nil); !errors.Is(err, ErrNil) {
		t.Fatalf("expected ErrNil, got %v", err)
	}
	f := tinyFrames()
	f.Count = 3
	if err := Write(&bytes.Buffer{}, f); !errors.Is(err, ErrWroteTooFew) {
		t.Fatalf("expected ErrWroteTooFew, got %v", err)
	}
	f.Count = 1
	if err := Write(&bytes.Buffer{}, f); !errors.Is(err, ErrTooMuchData) {
		t.Fatalf("expected ErrTooMuchData, got %v", err)
	}
}

func TestFileHelpers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.frames")
	f := tinyFrames()
	if err := WriteFile(path, f); err != nil {
		t.Fatal(err)
	}
	g, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Buf) != len(f.Buf) {
		t.Fatalf("got %d floats, want %d", len(g.Buf), len(f.Buf))
	}
}

func TestAppend(t *testing.T) {
	f := New(1, 2, 0, false)
	if err := f.Append([]float32{1, 2, 3, 4, 5, 6}); err != nil {
		t.Fatal(err)
	}
	if err := f.Append([]float32{1}); err == nil {
		t.Fatal("expected size error")
	}
	if f.Count != 1 || f.Frame(0)[5] != 6 {
		t.Fatalf("unexpected frames %+v", f)
	}
}

func TestLogScale(t *testing.T) {
	f := New(1, 4, 1, true)
	copy(f.Buf, []float32{0, 1e-9, 1, 1e-4})
	if err := f.LogScale(); err != nil {
		t.Fatal(err)
	}
	if f.Buf[0] != 0 || f.Buf[1] != 1e-9 {
		t.Fatalf("values at or below 1e-8 must be kept: %v", f.Buf[:2])
	}
	logEps := float64(float32(math.Log(1e-8)))
	want := float32(-logEps / (1 - logEps))
	if math.Abs(float64(f.Buf[2]-want)) > 1e-6 {
		t.Fatalf("log scale of 1: got %v want %v", f.Buf[2], want)
	}
	if !(f.Buf[3] > 0 && f.Buf[3] < f.Buf[2]) {
		t.Fatalf("log scale must be monotone: %v", f.Buf)
	}
	if err := New(1, 1, 1, false).LogScale(); err == nil {
		t.Fatal("expected error for image frames")
	}
}

func TestDiffPalette(t *testing.T) {
	p := DiffPalette()
	for _, i := range []int{0, 1, 80, 254, 255} {
		r, g, b, _ := p[i].RGBA()
		if r>>8 != 255 || g>>8 != uint32(255-i) || b>>8 != uint32(255-i) {
			t.Fatalf("entry %d = %d %d %d", i, r>>8, g>>8, b>>8)
		}
	}
}

func TestDiffIndex(t *testing.T) {
	cases := []struct {
		v    float32
		want uint8
	}{
		{0, 0},
		{1e-9, diffBaseRed},
		{0.5, diffBaseRed + 87},
		{1, 254},
		{7, 254},
		{-1, diffBaseRed},
	}
	for _, c := range cases {
		if got := diffIndex(c.v); got != c.want {
			t.Fatalf("diffIndex(%v) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestSaveAnimatedGIF(t *testing.T) {
	for _, f := range []*Frames{tinyFrames(), New(2, 2, 3, true)} {
		tmp := filepath.Join(t.TempDir(), "out.gif")
		if err := SaveAnimatedGIF(f, tmp, 5, 0.8); err != nil {
			t.Fatal(err)
		}
		if _, err := os.Stat(tmp); err != nil {
			t.Fatalf("gif not written: %v", err)
		}
	}
}

func TestSavePNGSequence16(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "frame")
	if err := SavePNGSequence16(tinyFrames(), prefix, 0.8); err != nil {
		t.Fatal(err)
	}
	// Two frames => "_0.png" and "_1.png"
	for _, name := range []string{prefix + "_0.png", prefix + "_1.png"} {
		if _, err := os.Stat(name); err != nil {
			t.Fatalf("png not written: %v", err)
		}
	}
}
