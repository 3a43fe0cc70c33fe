package palette

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"colorvision/argb"
)

type Metric int

const (
	// MetricRGB measures squared euclidean distance over 8-bit RGB channels.
	MetricRGB Metric = iota
	// MetricOKLab measures squared euclidean distance in OKLab.
	MetricOKLab
)

func (m Metric) String() string {
	switch m {
	case MetricRGB:
		return "rgb"
	case MetricOKLab:
		return "oklab"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// ParseMetric is the inverse of Metric.String.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "rgb", "":
		return MetricRGB, nil
	case "oklab":
		return MetricOKLab, nil
	default:
		return 0, fmt.Errorf("%w: unknown metric %q", ErrInvalidInput, s)
	}
}

// Match is the outcome of resolving one colour.
type Match struct {
	Name     string
	Color    argb.Color // the palette colour that matched
	Index    int
	Distance float64
}

type Option func(*Resolver)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithMetric(m Metric) Option {
	return func(r *Resolver) {
		r.metric = m
	}
}

// Resolver names colours by their nearest palette entry. It reports
// ErrNotInitialized until Init has loaded a palette, after which it is safe
// for concurrent use.
//
// Results are memoised per RGB triple for the resolver's lifetime. The cache
// stores the index a full scan produced, so cached and uncached lookups agree.
type Resolver struct {
	logger *slog.Logger
	metric Metric

	pal     atomic.Pointer[Palette]
	loading atomic.Bool
	cache   sync.Map // uint32 rgb key -> int entry index

	hits   atomic.Uint64
	misses atomic.Uint64
}

func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init runs load and makes its palette available to lookups. A failed load
// leaves the resolver uninitialized so Init may be retried. Init returns
// ErrAlreadyInitialized once a palette is loaded, and ErrInitInProgress while
// another Init is still loading.
func (r *Resolver) Init(load Loader) error {
	if r.Ready() {
		return ErrAlreadyInitialized
	}
	if !r.loading.CompareAndSwap(false, true) {
		if r.Ready() {
			return ErrAlreadyInitialized
		}
		return ErrInitInProgress
	}

	p, err := load()
	if err == nil && (p == nil || p.Len() == 0) {
		err = ErrEmptyPalette
	}
	if err != nil {
		r.loading.Store(false)
		return fmt.Errorf("could not initialize resolver: %w", err)
	}

	r.pal.Store(p)
	r.logger.Info("palette loaded", "palette", p.Name(), "colors", p.Len(), "metric", r.metric)
	return nil
}

// InitAsync runs Init on its own goroutine. The returned channel receives
// Init's result and is then closed.
func (r *Resolver) InitAsync(load Loader) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- r.Init(load)
	}()
	return done
}

func (r *Resolver) Ready() bool {
	return r.pal.Load() != nil
}

// Palette returns the loaded palette, or nil before Init completes.
func (r *Resolver) Palette() *Palette {
	return r.pal.Load()
}

// Resolve returns the name of the palette entry nearest to (red, green, blue).
func (r *Resolver) Resolve(red, green, blue int) (string, error) {
	if !r.Ready() {
		return "", ErrNotInitialized
	}
	for _, v := range [...]int{red, green, blue} {
		if v < 0 || v > 255 {
			return "", fmt.Errorf("%w: channel value %d outside [0,255]", ErrInvalidInput, v)
		}
	}

	m, err := r.Match(argb.RGB(red, green, blue))
	if err != nil {
		return "", err
	}
	return m.Name, nil
}

// Match resolves c, ignoring its alpha.
func (r *Resolver) Match(c argb.Color) (Match, error) {
	p := r.pal.Load()
	if p == nil {
		return Match{}, ErrNotInitialized
	}

	key := c.Key()
	if v, ok := r.cache.Load(key); ok {
		r.hits.Add(1)
		return r.match(p, c, v.(int)), nil
	}

	r.misses.Add(1)
	idx := r.index(p, c)
	r.cache.Store(key, idx)
	return r.match(p, c, idx), nil
}

// Stats reports cache hits and misses since construction.
func (r *Resolver) Stats() (hits, misses uint64) {
	return r.hits.Load(), r.misses.Load()
}

func (r *Resolver) index(p *Palette, c argb.Color) int {
	if r.metric == MetricOKLab {
		i, _ := p.IndexLab(c)
		return i
	}
	i, _ := p.Index(c)
	return i
}

func (r *Resolver) match(p *Palette, c argb.Color, idx int) Match {
	e := p.Entry(idx)
	var dist float64
	if r.metric == MetricOKLab {
		dist = p.lab[idx].Dist2(labOf(c))
	} else {
		dr := int(c.R) - int(e.Color.R)
		dg := int(c.G) - int(e.Color.G)
		db := int(c.B) - int(e.Color.B)
		dist = float64(dr*dr + dg*dg + db*db)
	}

	return Match{
		Name:     e.Name,
		Color:    e.Color,
		Index:    idx,
		Distance: dist,
	}
}
