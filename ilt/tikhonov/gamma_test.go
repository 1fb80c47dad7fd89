package tikhonov

import (
	"errors"
	"testing"
)

func TestSmoothnessOperatorStructure(t *testing.T) {
	t.Run("order 0 identity", func(t *testing.T) {
		g, err := SmoothnessOperator(4, 0)
		if err != nil {
			t.Fatalf("SmoothnessOperator: %v", err)
		}
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				want := 0.0
				if i == j {
					want = 1
				}
				if g.At(i, j) != want {
					t.Fatalf("(%d,%d) = %v, want %v", i, j, g.At(i, j), want)
				}
			}
		}
	})

	t.Run("order 1 annihilates constants", func(t *testing.T) {
		g, err := SmoothnessOperator(5, 1)
		if err != nil {
			t.Fatalf("SmoothnessOperator: %v", err)
		}
		for i := 0; i < 5; i++ {
			sum := 0.0
			for j := 0; j < 5; j++ {
				sum += g.At(i, j)
			}
			if sum != 0 {
				t.Fatalf("row %d sums to %v, want 0", i, sum)
			}
		}
	})

	t.Run("order 2 annihilates ramps", func(t *testing.T) {
		g, err := SmoothnessOperator(6, 2)
		if err != nil {
			t.Fatalf("SmoothnessOperator: %v", err)
		}
		for i := 0; i < 6; i++ {
			sum := 0.0
			for j := 0; j < 6; j++ {
				sum += g.At(i, j) * float64(j)
			}
			if sum != 0 {
				t.Fatalf("row %d applied to ramp gives %v, want 0", i, sum)
			}
		}
	})
}

func TestSmoothnessOperatorSquare(t *testing.T) {
	for order := 0; order <= 2; order++ {
		g, err := SmoothnessOperator(7, order)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		r, c := g.Dims()
		if r != 7 || c != 7 {
			t.Fatalf("order %d: dims %dx%d, want 7x7", order, r, c)
		}
	}
}

func TestSmoothnessOperatorCached(t *testing.T) {
	a, err := SmoothnessOperator(9, 2)
	if err != nil {
		t.Fatalf("SmoothnessOperator: %v", err)
	}
	b, err := SmoothnessOperator(9, 2)
	if err != nil {
		t.Fatalf("SmoothnessOperator: %v", err)
	}
	if a != b {
		t.Fatal("same (size, order) must return the cached operator")
	}
}

func TestSmoothnessOperator2DStaysInsideGrid(t *testing.T) {
	const rows, cols = 3, 4

	for order := 1; order <= 2; order++ {
		g, err := SmoothnessOperator2D(rows, cols, order)
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		n, m := g.Dims()
		if n != rows*cols || m != rows*cols {
			t.Fatalf("order %d: dims %dx%d, want %dx%d", order, n, m, rows*cols, rows*cols)
		}

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if g.At(i, j) == 0 {
					continue
				}
				switch d := j - i; {
				case d == 0 || d == cols || d == -cols:
					// Same bin, or the neighbor above/below in the grid.
				case d == 1 || d == -1:
					// Horizontal neighbors must share a solution row; a
					// nonzero entry here across a row boundary smooths the
					// end of one row into the start of the next.
					if i/cols != j/cols {
						t.Fatalf("order %d: entry (%d,%d) couples adjacent solution rows", order, i, j)
					}
				default:
					t.Fatalf("order %d: entry (%d,%d) is outside the grid stencil", order, i, j)
				}
			}
		}
	}
}

func TestSmoothnessOperator2DOrderZeroIdentity(t *testing.T) {
	g, err := SmoothnessOperator2D(2, 3, 0)
	if err != nil {
		t.Fatalf("SmoothnessOperator2D: %v", err)
	}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if g.At(i, j) != want {
				t.Fatalf("(%d,%d) = %v, want %v", i, j, g.At(i, j), want)
			}
		}
	}
}

func TestSmoothnessOperator2DCached(t *testing.T) {
	a, err := SmoothnessOperator2D(5, 7, 2)
	if err != nil {
		t.Fatalf("SmoothnessOperator2D: %v", err)
	}
	b, err := SmoothnessOperator2D(5, 7, 2)
	if err != nil {
		t.Fatalf("SmoothnessOperator2D: %v", err)
	}
	if a != b {
		t.Fatal("same (shape, order) must return the cached operator")
	}
}

func TestSmoothnessOperatorBadOrder(t *testing.T) {
	for _, order := range []int{-1, 3} {
		if _, err := SmoothnessOperator(4, order); !errors.Is(err, ErrBadOrder) {
			t.Fatalf("order %d: err = %v, want ErrBadOrder", order, err)
		}
	}
}
