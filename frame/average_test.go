package frame

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/bits"
	"testing"

	"colorvision/argb"
)

func TestAverageMidGray(t *testing.T) {
	c := NewConverter(4, 4)
	got, err := c.Average(uniformNV21(4, 4, 128, 128, 128), 4, 4, Viewport(1, 1, 3, 3))
	if err != nil {
		t.Fatalf("Average failed: %v", err)
	}

	if got != argb.RGB(128, 128, 128) {
		t.Errorf("Average = %+v, want (128,128,128)", got)
	}
	if h := got.Hex(); h != "#ff808080" {
		t.Errorf("Hex() = %q, want #ff808080", h)
	}
}

func TestAverageFullFrame(t *testing.T) {
	const width, height = 12, 8
	buf := randomNV21(width, height, 42)

	pix, err := DecodeNV21(nil, buf, width, height)
	if err != nil {
		t.Fatalf("DecodeNV21 failed: %v", err)
	}

	var r, g, b uint64
	for _, p := range pix {
		c := argb.FromPixel(p)
		r += uint64(c.R)
		g += uint64(c.G)
		b += uint64(c.B)
	}
	n := uint64(len(pix))
	want := argb.Color{A: 0xFF, R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}

	got, err := NewConverter(0, 0).Average(buf, width, height, image.Rect(0, 0, width, height))
	if err != nil {
		t.Fatalf("Average failed: %v", err)
	}
	if got != want {
		t.Errorf("Average over full frame = %+v, want %+v", got, want)
	}
}

func TestAverageSinglePixel(t *testing.T) {
	const width, height = 6, 4
	buf := randomNV21(width, height, 3)

	pix, err := DecodeNV21(nil, buf, width, height)
	if err != nil {
		t.Fatalf("DecodeNV21 failed: %v", err)
	}

	var c Converter
	for y := range height {
		for x := range width {
			got, err := c.Average(buf, width, height, Viewport(x, y, x+1, y+1))
			if err != nil {
				t.Fatalf("Average(%d,%d) failed: %v", x, y, err)
			}
			if want := argb.FromPixel(pix[y*width+x]); got != want {
				t.Errorf("Average(%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestAverageViewportErrors(t *testing.T) {
	buf := uniformNV21(4, 4, 128, 128, 128)
	tests := []struct {
		name string
		vp   image.Rectangle
	}{
		{name: "empty", vp: Viewport(1, 1, 1, 3)},
		{name: "reversed", vp: Viewport(3, 3, 1, 1)},
		{name: "right edge", vp: Viewport(2, 0, 5, 2)},
		{name: "negative", vp: Viewport(-1, 0, 2, 2)},
		{name: "bottom edge", vp: Viewport(0, 3, 2, 5)},
	}

	c := NewConverter(4, 4)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Average(buf, 4, 4, tt.vp); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if _, err := c.Average(buf[:len(buf)-1], 4, 4, Viewport(0, 0, 1, 1)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for short buffer, got %v", err)
	}
}

func TestAverageOverflowingSize(t *testing.T) {
	half := 1 << (bits.UintSize / 2)
	sizes := [][2]int{
		{half, half},
		{half / 2, half * 2},
		{math.MaxInt &^ 1, 2},
	}

	buf := uniformNV21(2, 2, 128, 128, 128)
	for _, size := range sizes {
		if _, err := NewConverter(0, 0).Average(buf, size[0], size[1], Viewport(0, 0, 2, 2)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Average(%dx%d) expected ErrInvalidInput, got %v", size[0], size[1], err)
		}
		if _, err := AverageDecoded(make([]uint32, 4), size[0], size[1], Viewport(0, 0, 2, 2)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("AverageDecoded(%dx%d) expected ErrInvalidInput, got %v", size[0], size[1], err)
		}
		if c := NewConverter(size[0], size[1]); c == nil {
			t.Errorf("NewConverter(%dx%d) returned nil", size[0], size[1])
		}
		if err := CheckSize(size[0], size[1]); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("CheckSize(%dx%d) expected ErrInvalidInput, got %v", size[0], size[1], err)
		}
	}
}

func TestAverageDecodedShortPixels(t *testing.T) {
	_, err := AverageDecoded(make([]uint32, 3), 2, 2, Viewport(0, 0, 1, 1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestConverterReusesScratch(t *testing.T) {
	c := NewConverter(8, 8)
	first, err := c.Decode(uniformNV21(8, 8, 50, 128, 128), 8, 8)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := c.Decode(uniformNV21(8, 8, 90, 128, 128), 8, 8)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if &first[0] != &second[0] {
		t.Error("Expected both decodes to share the scratch buffer")
	}
	if second[0] != 0xFF5A5A5A {
		t.Errorf("pixel 0 = %#08x, want 0xff5a5a5a", second[0])
	}
}

func TestCenteredViewport(t *testing.T) {
	tests := []struct {
		width, height, vw, vh int
		want                  image.Rectangle
	}{
		{width: 640, height: 360, vw: 40, vh: 40, want: image.Rect(300, 160, 340, 200)},
		{width: 4, height: 4, vw: 1, vh: 1, want: image.Rect(2, 2, 3, 3)},
		{width: 4, height: 4, vw: 10, vh: 10, want: image.Rect(0, 0, 4, 4)},
	}

	for _, tt := range tests {
		if got := CenteredViewport(tt.width, tt.height, tt.vw, tt.vh); got != tt.want {
			t.Errorf("CenteredViewport(%d, %d, %d, %d) = %v, want %v", tt.width, tt.height, tt.vw, tt.vh, got, tt.want)
		}
	}
}

func TestEncodeNV21RoundTrip(t *testing.T) {
	colors := []color.RGBA{
		{R: 128, G: 128, B: 128, A: 255},
		{R: 200, G: 50, B: 100, A: 255},
		{R: 20, G: 180, B: 60, A: 255},
		{R: 30, G: 40, B: 220, A: 255},
	}

	for _, want := range colors {
		img := image.NewRGBA(image.Rect(0, 0, 4, 4))
		for i := 0; i < len(img.Pix); i += 4 {
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = want.R, want.G, want.B, want.A
		}

		buf, width, height, err := EncodeNV21(nil, img)
		if err != nil {
			t.Fatalf("EncodeNV21 failed: %v", err)
		}
		if width != 4 || height != 4 || len(buf) != BufferSize(4, 4) {
			t.Fatalf("EncodeNV21 returned %dx%d with %d bytes", width, height, len(buf))
		}

		got, err := NewConverter(width, height).Average(buf, width, height, image.Rect(0, 0, width, height))
		if err != nil {
			t.Fatalf("Average failed: %v", err)
		}
		if !near(got.R, want.R) || !near(got.G, want.G) || !near(got.B, want.B) {
			t.Errorf("round trip of %+v gave %+v", want, got)
		}
	}
}

func TestEncodeNV21OddSize(t *testing.T) {
	_, _, _, err := EncodeNV21(nil, image.NewRGBA(image.Rect(0, 0, 3, 4)))
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		src          image.Rectangle
		maxW, maxH   int
		wantW, wantH int
	}{
		{src: image.Rect(0, 0, 100, 51), maxW: 40, maxH: 40, wantW: 40, wantH: 20},
		{src: image.Rect(0, 0, 50, 200), maxW: 640, maxH: 100, wantW: 24, wantH: 100},
		{src: image.Rect(0, 0, 3, 3), maxW: 0, maxH: 0, wantW: 2, wantH: 2},
		{src: image.Rect(10, 10, 31, 21), maxW: 640, maxH: 360, wantW: 20, wantH: 10},
	}

	for _, tt := range tests {
		got := Fit(image.NewRGBA(tt.src), tt.maxW, tt.maxH).Bounds()
		if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
			t.Errorf("Fit(%v, %d, %d) = %dx%d, want %dx%d", tt.src, tt.maxW, tt.maxH, got.Dx(), got.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}
