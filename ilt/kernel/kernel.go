package kernel

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Sequence identifies a pulse-sequence family.
type Sequence string

// Built-in sequences.
const (
	// IR is inversion recovery: s(t) = 1 - 2*exp(-t/T).
	IR Sequence = "IR"
	// SR is saturation recovery: s(t) = 1 - exp(-t/T).
	SR Sequence = "SR"
	// CPMG is a spin-echo train: s(t) = exp(-t/T).
	CPMG Sequence = "CPMG"
	// PFG is a pulsed-gradient diffusion experiment: s(b) = exp(-b*D).
	// The acquisition axis carries the gradient b-factor.
	PFG Sequence = "PFG"
	// IRCPMG is the combined two-dimension experiment with inversion
	// recovery in the indirect dimension and a CPMG train in the direct one.
	IRCPMG Sequence = "IRCPMG"
)

// Equation evaluates the forward model at one acquisition coordinate t and
// one solution coordinate T. Implementations must be pure.
type Equation func(t, T float64) float64

type entry struct {
	eq       Equation
	indirect Sequence
	direct   Sequence
}

var (
	regMu    sync.RWMutex
	registry = map[Sequence]entry{}
)

func init() {
	Register(IR, func(t, T float64) float64 { return 1 - 2*math.Exp(-t/T) })
	Register(SR, func(t, T float64) float64 { return 1 - math.Exp(-t/T) })
	Register(CPMG, func(t, T float64) float64 { return math.Exp(-t / T) })
	Register(PFG, func(b, D float64) float64 { return math.Exp(-b * D) })
	RegisterCombined(IRCPMG, IR, CPMG)
}

// Register installs or replaces the kernel equation for a sequence tag.
func Register(seq Sequence, eq Equation) {
	regMu.Lock()
	registry[seq] = entry{eq: eq}
	regMu.Unlock()
}

// RegisterCombined installs a two-dimension sequence tag built from two
// registered one-dimension sequences.
func RegisterCombined(seq, indirect, direct Sequence) {
	regMu.Lock()
	registry[seq] = entry{indirect: indirect, direct: direct}
	regMu.Unlock()
}

// Components resolves a combined two-dimension tag into its indirect and
// direct one-dimension sequences.
func Components(seq Sequence) (indirect, direct Sequence, err error) {
	regMu.RLock()
	e, ok := registry[seq]
	regMu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrUnknownSequence, seq)
	}
	if e.indirect == "" {
		return "", "", fmt.Errorf("%w: %q", ErrNotCombined, seq)
	}
	return e.indirect, e.direct, nil
}

// Sequences returns the registered sequence tags in sorted order.
func Sequences() []Sequence {
	regMu.RLock()
	out := make([]Sequence, 0, len(registry))
	for seq := range registry {
		out = append(out, seq)
	}
	regMu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func equation(seq Sequence) (Equation, error) {
	regMu.RLock()
	e, ok := registry[seq]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSequence, seq)
	}
	if e.eq == nil {
		return nil, fmt.Errorf("%w: %q", ErrCombined, seq)
	}
	return e.eq, nil
}

// Kernel is the dense forward-model matrix for one (sequence, acquisition
// axis, solution axis) triple. It is built once and never mutated.
type Kernel struct {
	Seq Sequence
	// X is the acquisition axis (time, b-factor); one entry per matrix row.
	X []float64
	// T is the solution axis (relaxation time, diffusion coefficient); one
	// entry per matrix column.
	T []float64
	// M holds the evaluated forward model, len(X) x len(T).
	M *mat.Dense
}

// Dims returns the matrix shape (observations, solution bins).
func (k *Kernel) Dims() (rows, cols int) {
	return k.M.Dims()
}

// Build evaluates the forward model of seq on the acquisition axis x and the
// solution axis X, returning the dense len(x) x len(X) kernel matrix.
//
// x entries must be finite and non-negative (acquisition usually starts at
// t=0); X entries must be finite and strictly positive.
func Build(seq Sequence, x, X []float64) (*Kernel, error) {
	eq, err := equation(seq)
	if err != nil {
		return nil, err
	}
	if err := validateAcquisitionAxis(x); err != nil {
		return nil, err
	}
	if err := validateSolutionAxis(X); err != nil {
		return nil, err
	}

	m := mat.NewDense(len(x), len(X), nil)
	for i, t := range x {
		row := m.RawRowView(i)
		for j, T := range X {
			row[j] = eq(t, T)
		}
	}

	return &Kernel{
		Seq: seq,
		X:   append([]float64(nil), x...),
		T:   append([]float64(nil), X...),
		M:   m,
	}, nil
}

// LogAxis returns n log10-spaced values from lo to hi inclusive.
// It returns nil unless 0 < lo < hi and n >= 2.
func LogAxis(lo, hi float64, n int) []float64 {
	if n < 2 || lo <= 0 || hi <= lo {
		return nil
	}
	out := make([]float64, n)
	llo, lhi := math.Log10(lo), math.Log10(hi)
	step := (lhi - llo) / float64(n-1)
	for i := range out {
		out[i] = math.Pow(10, llo+step*float64(i))
	}
	return out
}
