// Package lookup implements the name and palette commands, which query the
// loaded palette directly without any frame decoding.
package lookup

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"colorvision/argb"
	"colorvision/palette"

	"github.com/alecthomas/kong"
)

type NameCmd struct {
	Color  []string   `arg:"" help:"Colour to name, as three channel values 'R G B' or a #rgb/#rrggbb hex code"`
	Parsed argb.Color `kong:"-"`
	Out    io.Writer  `kong:"-"`
}

func (c *NameCmd) Validate(kctx *kong.Context) error {
	col, err := parseColor(c.Color)
	if err != nil {
		return err
	}
	c.Parsed = col
	return nil
}

func (c *NameCmd) Run(resolver *palette.Resolver) error {
	m, err := resolver.Match(c.Parsed)
	if err != nil {
		return fmt.Errorf("could not name %s: %w", c.Parsed.HexRGB(), err)
	}
	slog.Debug("resolved", "color", c.Parsed.HexRGB(), "name", m.Name, "match", m.Color.HexRGB(), "distance", m.Distance)

	_, err = fmt.Fprintf(output(c.Out), "%s\t%s\t%s\n", m.Name, c.Parsed.HexRGB(), m.Color.HexRGB())
	return err
}

func parseColor(args []string) (argb.Color, error) {
	switch len(args) {
	case 1:
		return argb.ParseHex(args[0])
	case 3:
		var v [3]int
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return argb.Color{}, fmt.Errorf("invalid channel value %q: %w", a, err)
			} else if n < 0 || n > 255 {
				return argb.Color{}, fmt.Errorf("channel value %d outside [0,255]", n)
			}
			v[i] = n
		}
		return argb.RGB(v[0], v[1], v[2]), nil
	default:
		return argb.Color{}, fmt.Errorf("expected 'R G B' or a hex code, got %d arguments", len(args))
	}
}

type PaletteCmd struct {
	Out      string    `help:"Write the loaded palette to this file instead of listing it: .pal for RIFF PAL, .yaml or .yml for a named palette"`
	Embedded bool      `help:"List the names of the built in palettes" default:"false"`
	Writer   io.Writer `kong:"-"`
}

func (c *PaletteCmd) Validate(kctx *kong.Context) error {
	if c.Out == "" {
		return nil
	}

	out, err := filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid output path %q: %w", c.Out, err)
	}
	switch ext := strings.ToLower(filepath.Ext(out)); ext {
	case ".pal", ".yaml", ".yml":
	default:
		return fmt.Errorf("unsupported palette format %q", ext)
	}
	c.Out = out
	return nil
}

func (c *PaletteCmd) Run(resolver *palette.Resolver) error {
	w := output(c.Writer)

	if c.Embedded {
		names, err := palette.Embedded()
		if err != nil {
			return err
		}
		for _, n := range names {
			if _, err := fmt.Fprintln(w, n); err != nil {
				return err
			}
		}
		return nil
	}

	p := resolver.Palette()
	if p == nil {
		return palette.ErrNotInitialized
	}

	if c.Out != "" {
		return c.export(p)
	}

	for _, e := range p.Entries() {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Color.HexRGB(), e.Name); err != nil {
			return err
		}
	}
	return nil
}

func (c *PaletteCmd) export(p *palette.Palette) (err error) {
	outFile, err := os.Create(c.Out)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", c.Out, err)
	}
	defer func() {
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("could not close %q: %w", c.Out, closeErr)
		}
	}()

	switch strings.ToLower(filepath.Ext(c.Out)) {
	case ".pal":
		_, err = palette.WriteRIFF(outFile, p)
	default:
		err = palette.WriteYAML(outFile, p)
	}
	if err != nil {
		return err
	}

	slog.Info("palette exported", "palette", p.Name(), "colors", p.Len(), "file", c.Out)
	return nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
