package palette

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"colorvision/argb"

	"gopkg.in/yaml.v3"
)

// DefaultName is the embedded palette used when no palette is requested.
const DefaultName = "css"

//go:embed data/*.yaml
var embedded embed.FS

// Loader produces a palette for Resolver.Init.
type Loader func() (*Palette, error)

// Static wraps an already built palette.
func Static(p *Palette) Loader {
	return func() (*Palette, error) {
		return p, nil
	}
}

// Named loads an embedded palette by name, or a palette file when name is a
// path to one.
func Named(name string) Loader {
	return func() (*Palette, error) {
		return Load(name)
	}
}

// Embedded lists the names of the built in palettes.
func Embedded() ([]string, error) {
	files, err := embedded.ReadDir("data")
	if err != nil {
		return nil, fmt.Errorf("could not list embedded palettes: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(f.Name(), ".yaml"))
	}
	return names, nil
}

// Load resolves name to an embedded palette first, then to a .yaml, .yml or
// RIFF .pal file. An empty name selects DefaultName.
func Load(name string) (*Palette, error) {
	if name == "" {
		name = DefaultName
	}

	if data, err := embedded.ReadFile("data/" + name + ".yaml"); err == nil {
		return ReadYAML(bytes.NewReader(data))
	}

	return LoadFile(name)
}

// LoadFile reads a palette file, choosing the format by extension.
func LoadFile(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open palette %q: %w", path, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		p, err := ReadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", path, err)
		}
		return p, nil
	case ".pal":
		p, err := ReadRIFF(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), f)
		if err != nil {
			return nil, fmt.Errorf("palette %q: %w", path, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported palette format %q", ext)
	}
}

type yamlPalette struct {
	Name   string      `yaml:"name"`
	Colors []yamlEntry `yaml:"colors"`
}

type yamlEntry struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// ReadYAML parses a named palette:
//
//	name: css
//	colors:
//	  - {name: Alice Blue, hex: "#f0f8ff"}
func ReadYAML(r io.Reader) (*Palette, error) {
	var doc yamlPalette
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode palette: %w", err)
	}

	entries := make([]Entry, len(doc.Colors))
	for i, e := range doc.Colors {
		c, err := argb.ParseHex(e.Hex)
		if err != nil {
			return nil, fmt.Errorf("%w: colour %d (%q) of palette %q: %w", ErrInvalidInput, i, e.Name, doc.Name, err)
		}
		entries[i] = Entry{Name: e.Name, Color: c}
	}

	return New(doc.Name, entries)
}

// WriteYAML stores p in the format ReadYAML reads.
func WriteYAML(w io.Writer, p *Palette) error {
	doc := yamlPalette{
		Name:   p.Name(),
		Colors: make([]yamlEntry, p.Len()),
	}
	for i, e := range p.entries {
		doc.Colors[i] = yamlEntry{Name: e.Name, Hex: e.Color.HexRGB()}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("could not encode palette: %w", err)
	}
	return enc.Close()
}
