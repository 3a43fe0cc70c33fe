// Package argb holds the 8-bit ARGB colour value shared by frame decoding and
// colour naming.
package argb

import (
	"fmt"
	"image/color"
)

// Color is an immutable 8 bits per channel colour. Its packed pixel layout is
// A<<24 | R<<16 | G<<8 | B.
type Color struct {
	A uint8
	R uint8
	G uint8
	B uint8
}

var _ color.Color = Color{}

// Model converts any color.Color into a Color, un-premultiplying alpha.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if ac, ok := c.(Color); ok {
		return ac
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{A: n.A, R: n.R, G: n.G, B: n.B}
}

// RGB returns an opaque colour, clamping every channel to [0,255].
func RGB(r, g, b int) Color {
	return ARGB(0xFF, r, g, b)
}

// ARGB returns a colour, clamping every channel to [0,255].
func ARGB(a, r, g, b int) Color {
	return Color{
		A: clamp(a),
		R: clamp(r),
		G: clamp(g),
		B: clamp(b),
	}
}

// FromPixel unpacks a pixel word in A<<24 | R<<16 | G<<8 | B layout.
func FromPixel(p uint32) Color {
	return Color{
		A: uint8(p >> 24),
		R: uint8(p >> 16),
		G: uint8(p >> 8),
		B: uint8(p),
	}
}

func (c Color) Pixel() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Key packs only the colour channels, ignoring alpha.
func (c Color) Key() uint32 {
	return c.Pixel() & 0x00FFFFFF
}

func (c Color) Opaque() bool {
	return c.A == 0xFF
}

// Hex returns the lowercase #aarrggbb form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}

// HexRGB returns the lowercase #rrggbb form.
func (c Color) HexRGB() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return c.Hex()
}

// RGBA implements color.Color.
func (c Color) RGBA() (uint32, uint32, uint32, uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

// ParseHex reads #rgb, #rrggbb or #aarrggbb.
func ParseHex(s string) (Color, error) {
	c := Color{A: 0xFF}
	var err error
	switch len(s) {
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
	case 7:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.A, &c.R, &c.G, &c.B)
	default:
		return Color{}, fmt.Errorf("invalid colour %q, should be #RGB, #RRGGBB or #AARRGGBB", s)
	}
	if err != nil {
		return Color{}, fmt.Errorf("could not read colour %q: %w", s, err)
	}

	return c, nil
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	} else if v > 255 {
		return 255
	}
	return uint8(v)
}
