package frame

import (
	"fmt"
	"image"
	"image/color"

	"colorvision/argb"

	"golang.org/x/image/draw"
)

// EncodeNV21 converts an even sized image into an NV21 buffer, returning the
// buffer and the frame size. Chroma of every 2x2 block is the rounded mean of
// its four samples. dst is reused when it has enough capacity.
func EncodeNV21(dst []byte, img image.Image) ([]byte, int, int, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return dst, 0, 0, fmt.Errorf("%w: cannot encode %dx%d image", ErrInvalidInput, width, height)
	}

	size := BufferSize(width, height)
	if cap(dst) < size {
		dst = make([]byte, size)
	} else {
		dst = dst[:size]
	}

	lumaSize := width * height
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x += 2 {
			var cbSum, crSum int
			for dy := range 2 {
				for dx := range 2 {
					c := argb.Model.Convert(img.At(bounds.Min.X+x+dx, bounds.Min.Y+y+dy)).(argb.Color)
					luma, cb, cr := color.RGBToYCbCr(c.R, c.G, c.B)
					dst[(y+dy)*width+x+dx] = luma
					cbSum += int(cb)
					crSum += int(cr)
				}
			}

			i := lumaSize + (y/2)*width + x
			dst[i] = uint8((crSum + 2) / 4)
			dst[i+1] = uint8((cbSum + 2) / 4)
		}
	}

	return dst, width, height, nil
}

// Fit scales img down to fit in maxWidth x maxHeight keeping its aspect
// ratio, with both output dimensions rounded down to even numbers. A
// non-positive bound leaves that dimension unconstrained.
func Fit(img image.Image, maxWidth, maxHeight int) *image.RGBA {
	src := img.Bounds()
	srcWidth := float64(src.Dx())
	srcHeight := float64(src.Dy())

	scale := 1.0
	if maxWidth > 0 && srcWidth > float64(maxWidth) {
		scale = float64(maxWidth) / srcWidth
	}
	if maxHeight > 0 && srcHeight*scale > float64(maxHeight) {
		scale = float64(maxHeight) / srcHeight
	}

	width := max(2, int(srcWidth*scale)&^1)
	height := max(2, int(srcHeight*scale)&^1)

	dest := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, src, draw.Src, nil)
	return dest
}
