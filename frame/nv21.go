// Package frame decodes NV21 camera frames and averages their colour over a
// viewport.
//
// An NV21 buffer holds a full resolution luma plane of width*height bytes
// followed by a half resolution chroma plane of interleaved V,U pairs, one
// pair per 2x2 block of luma samples.
package frame

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// BT.601 full range coefficients.
const (
	rFromV = 1.402
	gFromU = 0.344
	gFromV = 0.714
	bFromU = 1.772
)

// maxPixels keeps width*height*3 within int.
const maxPixels = math.MaxInt / 3

// BufferSize returns the number of bytes an NV21 frame of the given size takes.
// The size must have passed CheckSize.
func BufferSize(width, height int) int {
	return width * height * 3 / 2
}

// pixelCount returns width*height, failing when either side is not positive
// or the product does not fit.
func pixelCount(width, height int) (int, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: frame size %dx%d is not positive", ErrInvalidInput, width, height)
	} else if width > maxPixels/height {
		return 0, fmt.Errorf("%w: frame size %dx%d is too large", ErrInvalidInput, width, height)
	}
	return width * height, nil
}

// CheckSize rejects frame sizes NV21 cannot describe: non positive, odd or
// too large to address.
func CheckSize(width, height int) error {
	if _, err := pixelCount(width, height); err != nil {
		return err
	}
	if width%2 != 0 || height%2 != 0 {
		return fmt.Errorf("%w: frame size %dx%d is not even", ErrInvalidInput, width, height)
	}
	return nil
}

func checkFrame(buf []byte, width, height int) error {
	if err := CheckSize(width, height); err != nil {
		return err
	}

	if need := BufferSize(width, height); len(buf) < need {
		return fmt.Errorf("%w: frame buffer holds %d bytes, %dx%d needs %d", ErrInvalidInput, len(buf), width, height, need)
	}
	return nil
}

// DecodeNV21 converts buf into width*height opaque pixels packed as
// A<<24 | R<<16 | G<<8 | B, in row-major order.
//
// dst is reused when it has enough capacity, otherwise a new slice is
// allocated. buf is only read and is not retained.
func DecodeNV21(dst []uint32, buf []byte, width, height int) ([]uint32, error) {
	if err := checkFrame(buf, width, height); err != nil {
		return dst, err
	}

	size := width * height
	if cap(dst) < size {
		dst = make([]uint32, size)
	} else {
		dst = dst[:size]
	}

	for row := 0; row < height; row += 2 {
		chroma := buf[size+(row/2)*width : size+(row/2+1)*width]
		top := row * width
		bottom := top + width
		for col := 0; col < width; col += 2 {
			v := float64(int(chroma[col]) - 128)
			u := float64(int(chroma[col+1]) - 128)

			rv := rFromV * v
			guv := gFromU*u + gFromV*v
			bu := bFromU * u

			dst[top+col] = yuvPixel(buf[top+col], rv, guv, bu)
			dst[top+col+1] = yuvPixel(buf[top+col+1], rv, guv, bu)
			dst[bottom+col] = yuvPixel(buf[bottom+col], rv, guv, bu)
			dst[bottom+col+1] = yuvPixel(buf[bottom+col+1], rv, guv, bu)
		}
	}

	return dst, nil
}

// yuvPixel takes the chroma contributions already scaled by their
// coefficients, so one 2x2 block shares a single set of multiplications.
func yuvPixel(luma uint8, rv, guv, bu float64) uint32 {
	y := float64(luma)
	r := clampChannel(y + rv)
	g := clampChannel(y - guv)
	b := clampChannel(y + bu)
	return 0xFF000000 | r<<16 | g<<8 | b
}

func clampChannel(x float64) uint32 {
	if x <= 0 {
		return 0
	} else if x >= 255 {
		return 255
	}
	return uint32(x)
}
