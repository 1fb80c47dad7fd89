package invert

import "github.com/cwbudde/algo-ilt/ilt/tikhonov"

// AlphaMode names a regularization-strength selection strategy.
type AlphaMode string

// Selection strategies.
const (
	AlphaFixed  AlphaMode = "fixed"
	AlphaLCurve AlphaMode = "lcurve"
	AlphaGCV    AlphaMode = "gcv"
)

type axisRange struct {
	lo, hi float64
	bins   int
}

type config struct {
	mode  AlphaMode
	alpha float64
	order int
	grid  []float64

	output   axisRange
	indirect axisRange

	saveDir string
	warnf   func(format string, args ...any)
	solver  tikhonov.NNLS
}

func defaultConfig() config {
	return config{
		mode:  AlphaGCV,
		order: 2,
		output: axisRange{
			bins: 128,
		},
		indirect: axisRange{
			bins: 64,
		},
	}
}

// Option configures an inversion run.
type Option func(*config)

// WithAlpha fixes the regularization strength instead of selecting it
// automatically. The value is validated by the solver: zero, negative or
// non-finite strengths surface tikhonov.ErrBadAlpha from the inversion.
func WithAlpha(v float64) Option {
	return func(c *config) {
		c.mode = AlphaFixed
		c.alpha = v
	}
}

// WithAlphaLCurve selects the regularization strength at the L-curve corner.
func WithAlphaLCurve() Option {
	return func(c *config) {
		c.mode = AlphaLCurve
	}
}

// WithAlphaGCV selects the regularization strength by generalized
// cross-validation. This is the default.
func WithAlphaGCV() Option {
	return func(c *config) {
		c.mode = AlphaGCV
	}
}

// WithOrder sets the smoothness-penalty order (0 ridge, 1 first difference,
// 2 second difference).
func WithOrder(order int) Option {
	return func(c *config) {
		c.order = order
	}
}

// WithGrid overrides the candidate grid used by automatic selection.
func WithGrid(grid []float64) Option {
	cp := append([]float64(nil), grid...)
	return func(c *config) {
		c.grid = cp
	}
}

// WithRange overrides the output solution-axis range. For two-dimension
// inversions it applies to the direct dimension.
func WithRange(lo, hi float64) Option {
	return func(c *config) {
		if lo > 0 && hi > lo {
			c.output.lo, c.output.hi = lo, hi
		}
	}
}

// WithIndirectRange overrides the indirect-dimension solution-axis range of
// a two-dimension inversion.
func WithIndirectRange(lo, hi float64) Option {
	return func(c *config) {
		if lo > 0 && hi > lo {
			c.indirect.lo, c.indirect.hi = lo, hi
		}
	}
}

// WithBins sets the number of solution bins (direct dimension for 2D).
func WithBins(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.output.bins = n
		}
	}
}

// WithIndirectBins sets the number of indirect-dimension solution bins.
func WithIndirectBins(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.indirect.bins = n
		}
	}
}

// WithSave persists the solution and selection diagnostics as CSV files in
// dir after a successful inversion.
func WithSave(dir string) Option {
	return func(c *config) {
		c.saveDir = dir
	}
}

// WithWarnf installs an advisory hook for non-fatal warnings (low SNR).
// The library never prints on its own.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(c *config) {
		c.warnf = f
	}
}

// WithSolver swaps the non-negative least-squares backend.
func WithSolver(s tikhonov.NNLS) Option {
	return func(c *config) {
		if s != nil {
			c.solver = s
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
