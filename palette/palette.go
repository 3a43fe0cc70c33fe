// Package palette holds named reference colours and resolves arbitrary
// colours to the nearest named entry.
package palette

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"colorvision/argb"
	"colorvision/okcolor"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotInitialized     = errors.New("palette not initialized")
	ErrAlreadyInitialized = errors.New("palette already initialized")
	ErrInitInProgress     = errors.New("palette initialization in progress")
	ErrEmptyPalette       = errors.New("palette has no colours")
)

type Entry struct {
	Name  string
	Color argb.Color
}

// Palette is an ordered, immutable list of named colours. Lookups never
// modify it, so one Palette may be shared by any number of goroutines.
type Palette struct {
	name    string
	entries []Entry
	lab     []okcolor.Lab
}

// New copies entries into a Palette. Entry order is kept and decides ties in
// nearest colour lookups.
func New(name string, entries []Entry) (*Palette, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyPalette, name)
	}

	p := &Palette{
		name:    name,
		entries: make([]Entry, len(entries)),
		lab:     make([]okcolor.Lab, len(entries)),
	}
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("%w: entry %d of palette %q has no name", ErrInvalidInput, i, name)
		}
		e.Color.A = 0xFF
		p.entries[i] = e
		p.lab[i] = labOf(e.Color)
	}

	return p, nil
}

func (p *Palette) Name() string {
	return p.name
}

func (p *Palette) Len() int {
	return len(p.entries)
}

func (p *Palette) Entry(i int) Entry {
	return p.entries[i]
}

// Entries returns a copy of the palette entries.
func (p *Palette) Entries() []Entry {
	return append([]Entry(nil), p.entries...)
}

// Colors returns the palette colours in order, without names.
func (p *Palette) Colors() color.Palette {
	pal := make(color.Palette, len(p.entries))
	for i, e := range p.entries {
		pal[i] = e.Color
	}
	return pal
}

// Index returns the entry closest to c by squared euclidean RGB distance and
// that distance. The first entry reaching the minimum wins.
func (p *Palette) Index(c argb.Color) (int, int) {
	ret, bestSum := 0, math.MaxInt
	for i, v := range p.entries {
		dr := int(c.R) - int(v.Color.R)
		dg := int(c.G) - int(v.Color.G)
		db := int(c.B) - int(v.Color.B)
		sum := dr*dr + dg*dg + db*db
		if sum < bestSum {
			if sum == 0 {
				return i, 0
			}
			ret, bestSum = i, sum
		}
	}
	return ret, bestSum
}

// IndexLab is Index measured in OKLab instead of RGB.
func (p *Palette) IndexLab(c argb.Color) (int, float64) {
	lc := labOf(c)
	ret, bestSum := 0, math.MaxFloat64
	for i, v := range p.lab {
		sum := lc.Dist2(v)
		if sum < bestSum {
			if sum == 0 {
				return i, 0
			}
			ret, bestSum = i, sum
		}
	}
	return ret, bestSum
}

func labOf(c argb.Color) okcolor.Lab {
	c.A = 0xFF
	return okcolor.FromColor(c)
}
