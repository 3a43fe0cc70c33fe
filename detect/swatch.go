package detect

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"colorvision/argb"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

const swatchSize = 64

func swatchImage(c argb.Color) image.Image {
	dest := image.NewRGBA(image.Rect(0, 0, swatchSize, swatchSize))
	draw.Draw(dest, dest.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return dest
}

// swatchName is the file name of the swatch saved for srcName.
func swatchName(srcName, outType string) string {
	base := filepath.Base(srcName)
	return fmt.Sprintf("%s.%s", strings.TrimSuffix(base, filepath.Ext(base)), outType)
}

// saveSwatch writes a swatch of c next to the other swatches in destDir,
// named after the source file. The image goes to a temporary file first and
// is renamed into place once fully encoded.
func saveSwatch(c argb.Color, outType, destDir, srcName string) (destName string, err error) {
	destName = swatchName(srcName, outType)

	outFile, err := os.CreateTemp(destDir, destName)
	if err != nil {
		return "", fmt.Errorf("could not create temporary destination %q: %w", destName, err)
	}
	canRename := false
	defer func() {
		if defErr := outFile.Sync(); defErr != nil && err == nil {
			err = fmt.Errorf("could not flush temporary destination %q: %w", destName, defErr)
		}
		if defErr := outFile.Close(); defErr != nil && err == nil {
			err = fmt.Errorf("could not close temporary destination %q: %w", destName, defErr)
		}

		if canRename && err == nil {
			if defErr := os.Rename(outFile.Name(), filepath.Join(destDir, destName)); defErr != nil {
				err = fmt.Errorf("could not rename destination file %q: %w", destName, defErr)
			}
		} else {
			os.Remove(outFile.Name())
		}
	}()

	img := swatchImage(c)
	switch outType {
	case "png":
		enc := png.Encoder{
			CompressionLevel: png.BestCompression,
			BufferPool:       pngPool,
		}
		if err = enc.Encode(outFile, img); err != nil {
			return "", fmt.Errorf("could not encode PNG destination %q: %w", destName, err)
		}
	case "bmp":
		if err = bmp.Encode(outFile, img); err != nil {
			return "", fmt.Errorf("could not encode BMP destination %q: %w", destName, err)
		}
	case "tiff":
		if err = tiff.Encode(outFile, img, nil); err != nil {
			return "", fmt.Errorf("could not encode TIFF destination %q: %w", destName, err)
		}
	default:
		return "", fmt.Errorf("unsupported swatch format: %s", outType)
	}

	canRename = true
	return destName, nil
}

type pngEncoderBufferPool struct {
	pool sync.Pool
}

func (p *pngEncoderBufferPool) Get() *png.EncoderBuffer {
	return p.pool.Get().(*png.EncoderBuffer)
}

func (p *pngEncoderBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

var pngPool = &pngEncoderBufferPool{
	pool: sync.Pool{
		New: func() any {
			return &png.EncoderBuffer{}
		},
	},
}
