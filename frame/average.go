package frame

import (
	"fmt"
	"image"

	"colorvision/argb"
)

// Viewport builds a rectangle from its edges without reordering them, so a
// reversed rectangle stays degenerate and is rejected by CheckViewport.
func Viewport(left, top, right, bottom int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: left, Y: top},
		Max: image.Point{X: right, Y: bottom},
	}
}

// CenteredViewport returns a vw x vh rectangle centred on the frame, clipped
// to the frame bounds.
func CenteredViewport(width, height, vw, vh int) image.Rectangle {
	left := width/2 - vw/2
	top := height/2 - vh/2
	vp := Viewport(left, top, left+vw, top+vh)
	return vp.Intersect(image.Rect(0, 0, width, height))
}

// CheckViewport rejects empty viewports and viewports reaching outside a
// width x height frame.
func CheckViewport(vp image.Rectangle, width, height int) error {
	if vp.Empty() {
		return fmt.Errorf("%w: viewport %v is empty", ErrInvalidInput, vp)
	}
	if !vp.In(image.Rect(0, 0, width, height)) {
		return fmt.Errorf("%w: viewport %v is outside %dx%d frame", ErrInvalidInput, vp, width, height)
	}
	return nil
}

// AverageDecoded computes the channel-wise mean of already decoded pixels
// inside vp. The mean is truncated and the result is opaque.
func AverageDecoded(pix []uint32, width, height int, vp image.Rectangle) (argb.Color, error) {
	size, err := pixelCount(width, height)
	if err != nil {
		return argb.Color{}, err
	}
	if len(pix) < size {
		return argb.Color{}, fmt.Errorf("%w: %d pixels do not cover a %dx%d frame", ErrInvalidInput, len(pix), width, height)
	}
	if err := CheckViewport(vp, width, height); err != nil {
		return argb.Color{}, err
	}

	var r, g, b uint64
	for y := vp.Min.Y; y < vp.Max.Y; y++ {
		line := pix[y*width+vp.Min.X : y*width+vp.Max.X]
		for _, p := range line {
			r += uint64(p >> 16 & 0xFF)
			g += uint64(p >> 8 & 0xFF)
			b += uint64(p & 0xFF)
		}
	}

	n := uint64(vp.Dx() * vp.Dy())
	return argb.Color{
		A: 0xFF,
		R: uint8(r / n),
		G: uint8(g / n),
		B: uint8(b / n),
	}, nil
}
