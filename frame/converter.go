package frame

import (
	"image"

	"colorvision/argb"
)

// Converter decodes frames into a scratch buffer that is kept between calls,
// so a steady stream of same sized frames allocates only once.
//
// A Converter is not safe for concurrent use; give each frame producer its
// own.
type Converter struct {
	pix []uint32
}

// NewConverter returns a Converter with scratch space for a width x height
// frame, or none when the size is invalid. The zero Converter is also usable
// and allocates on first decode.
func NewConverter(width, height int) *Converter {
	c := &Converter{}
	if size, err := pixelCount(width, height); err == nil {
		c.pix = make([]uint32, 0, size)
	}
	return c
}

// Decode converts buf into the scratch buffer and returns it. The returned
// slice is only valid until the next call on c.
func (c *Converter) Decode(buf []byte, width, height int) ([]uint32, error) {
	pix, err := DecodeNV21(c.pix, buf, width, height)
	if err != nil {
		return nil, err
	}
	c.pix = pix
	return pix, nil
}

// Average decodes buf and returns the mean colour inside vp.
func (c *Converter) Average(buf []byte, width, height int, vp image.Rectangle) (argb.Color, error) {
	if err := checkFrame(buf, width, height); err != nil {
		return argb.Color{}, err
	}
	if err := CheckViewport(vp, width, height); err != nil {
		return argb.Color{}, err
	}

	pix, err := c.Decode(buf, width, height)
	if err != nil {
		return argb.Color{}, err
	}
	return AverageDecoded(pix, width, height, vp)
}
