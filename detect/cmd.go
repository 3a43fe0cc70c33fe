// Package detect implements the detect command: it averages a viewport of
// every input frame to one colour and names it against the loaded palette.
package detect

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"colorvision/argb"
	"colorvision/frame"
	"colorvision/palette"
	"colorvision/parallel"

	"github.com/alecthomas/kong"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

type CLICmd struct {
	Files    []string        `arg:"" help:"NV21 frame dumps or, with --images, image files to analyse"`
	Images   bool            `help:"Inputs are encoded images (gif, jpeg, png, bmp, tiff, webp) instead of NV21 dumps" default:"false"`
	Width    int             `help:"Frame width of NV21 dumps; for images, the width they are fitted into" default:"640" group:"frame"`
	Height   int             `help:"Frame height of NV21 dumps; for images, the height they are fitted into" default:"360" group:"frame"`
	Viewport string          `help:"Viewport as left,top,right,bottom. Overrides --size" group:"viewport"`
	Size     string          `help:"Size of the viewport centred on the frame, as WxH" default:"40x40" group:"viewport"`
	Swatch   string          `help:"Folder to write a swatch of each detected colour to. Relative to the current folder if not absolute" group:"output"`
	Format   string          `help:"Swatch image format" enum:"png,bmp,tiff" default:"png" group:"output"`
	Rect     image.Rectangle `kong:"-"`
	SizeW    int             `kong:"-"`
	SizeH    int             `kong:"-"`
	Out      io.Writer       `kong:"-"`
}

// Result describes one analysed frame.
type Result struct {
	File     string
	Width    int
	Height   int
	Viewport image.Rectangle
	Color    argb.Color
	Match    palette.Match
	Swatch   string
}

func (c *CLICmd) Validate(kctx *kong.Context) error {
	if len(c.Files) == 0 {
		return fmt.Errorf("no input files")
	}

	if !c.Images {
		if err := frame.CheckSize(c.Width, c.Height); err != nil {
			return fmt.Errorf("invalid frame size: %w", err)
		}
	}

	if c.Viewport != "" {
		vp, err := parseViewport(c.Viewport)
		if err != nil {
			return err
		}
		if !c.Images {
			if err := frame.CheckViewport(vp, c.Width, c.Height); err != nil {
				return err
			}
		}
		c.Rect = vp
	} else {
		w, h, err := parseSize(c.Size)
		if err != nil {
			return err
		}
		c.SizeW, c.SizeH = w, h
	}

	if c.Swatch != "" {
		swatchDir, err := filepath.Abs(c.Swatch)
		if err != nil {
			return fmt.Errorf("invalid swatch path %q: %w", c.Swatch, err)
		}
		c.Swatch = swatchDir

		sources := make(map[string]string, len(c.Files))
		for _, fileName := range c.Files {
			name := swatchName(fileName, c.Format)
			if prev, ok := sources[name]; ok {
				return fmt.Errorf("inputs %q and %q would both write swatch %q", prev, fileName, name)
			}
			sources[name] = fileName
		}
	}

	return nil
}

// scratch is the per-worker state reused from one file to the next.
type scratch struct {
	conv *frame.Converter
	raw  []byte
}

func (c *CLICmd) Run(pool *parallel.Pool, resolver *palette.Resolver) error {
	if c.Swatch != "" {
		if err := os.MkdirAll(c.Swatch, 0o755); err != nil {
			return fmt.Errorf("unable to create swatch folder %q: %w", c.Swatch, err)
		}
	}

	// Scratch grows to the first frame a worker decodes.
	workers := make([]scratch, pool.Workers)
	for i := range workers {
		workers[i].conv = &frame.Converter{}
	}

	results := make([]*Result, len(c.Files))
	var processedCount, errCount atomic.Uint64
	for i, fileName := range c.Files {
		pool.Do(func(worker int) {
			logger := slog.Default().With("file", fileName)

			res, err := c.analyze(&workers[worker], resolver, fileName)
			if err != nil {
				errCount.Add(1)
				logger.Error("could not analyse frame", "error", err)
				return
			}

			logger.Debug("detected", "color", res.Color.Hex(), "name", res.Match.Name,
				"distance", res.Match.Distance, "viewport", res.Viewport)
			results[i] = res
			processedCount.Add(1)
		})
	}

	pool.Wait(true)

	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	for _, res := range results {
		if res == nil {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t%d\t%d\t%d\n", res.File, res.Match.Name, res.Color.HexRGB(),
			res.Color.R, res.Color.G, res.Color.B); err != nil {
			return fmt.Errorf("could not write results: %w", err)
		}
	}

	processed := processedCount.Load()
	errors := errCount.Load()
	hits, misses := resolver.Stats()
	slog.Info("stats", "processed", processed, "errors", errors,
		"total", processed+errors, "cache_hits", hits, "cache_misses", misses)

	if errors > 0 {
		return fmt.Errorf("error processing %d files", errors)
	}
	return nil
}

func (c *CLICmd) analyze(s *scratch, resolver *palette.Resolver, fileName string) (*Result, error) {
	var err error
	width, height := c.Width, c.Height
	if c.Images {
		s.raw, width, height, err = loadImage(s.raw, fileName, c.Width, c.Height)
	} else {
		s.raw, err = readFrame(s.raw, fileName)
	}
	if err != nil {
		return nil, err
	}

	vp := c.Rect
	if vp.Empty() {
		vp = frame.CenteredViewport(width, height, c.SizeW, c.SizeH)
	}

	col, err := s.conv.Average(s.raw, width, height, vp)
	if err != nil {
		return nil, fmt.Errorf("could not average %dx%d frame: %w", width, height, err)
	}

	m, err := resolver.Match(col)
	if err != nil {
		return nil, fmt.Errorf("could not name %s: %w", col.HexRGB(), err)
	}

	res := &Result{
		File:     fileName,
		Width:    width,
		Height:   height,
		Viewport: vp,
		Color:    col,
		Match:    m,
	}

	if c.Swatch != "" {
		if res.Swatch, err = saveSwatch(col, c.Format, c.Swatch, fileName); err != nil {
			return nil, fmt.Errorf("could not save swatch: %w", err)
		}
	}

	return res, nil
}

// readFrame reads a whole NV21 dump into buf, growing it when needed.
func readFrame(buf []byte, fileName string) ([]byte, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return buf, fmt.Errorf("could not open frame: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return buf, fmt.Errorf("could not stat frame: %w", err)
	}

	size := int(info.Size())
	if cap(buf) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}

	if _, err := io.ReadFull(f, buf); err != nil {
		return buf, fmt.Errorf("could not read frame: %w", err)
	}
	return buf, nil
}

// loadImage decodes an image, fits it into maxWidth x maxHeight and encodes
// it as NV21 into buf.
func loadImage(buf []byte, fileName string, maxWidth, maxHeight int) ([]byte, int, int, error) {
	imgFile, err := os.Open(fileName)
	if err != nil {
		return buf, 0, 0, fmt.Errorf("could not open image: %w", err)
	}
	defer imgFile.Close()

	img, _, err := image.Decode(imgFile)
	if err != nil {
		return buf, 0, 0, fmt.Errorf("could not decode image: %w", err)
	}

	return frame.EncodeNV21(buf, frame.Fit(img, maxWidth, maxHeight))
}
