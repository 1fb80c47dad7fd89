package tikhonov

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

type gammaKey struct {
	n, order int
}

type gamma2DKey struct {
	rows, cols, order int
}

var (
	gammaMu      sync.RWMutex
	gammaCache   = map[gammaKey]*mat.Dense{}
	gamma2DCache = map[gamma2DKey]*mat.Dense{}
)

// SmoothnessOperator returns the square n x n discrete-derivative matrix of
// the given order: identity for 0, first differences for 1, second
// differences for 2. Difference stencils occupy the interior rows; the
// boundary rows are zero.
//
// Operators depend only on (n, order) and are cached; callers must treat the
// returned matrix as read-only.
func SmoothnessOperator(n, order int) (*mat.Dense, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: size %d", ErrBadOrder, n)
	}
	if order < 0 || order > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadOrder, order)
	}

	key := gammaKey{n, order}
	gammaMu.RLock()
	g, ok := gammaCache[key]
	gammaMu.RUnlock()
	if ok {
		return g, nil
	}

	g = mat.NewDense(n, n, nil)
	switch order {
	case 0:
		for i := 0; i < n; i++ {
			g.Set(i, i, 1)
		}
	case 1:
		for i := 0; i+1 < n; i++ {
			g.Set(i, i, -1)
			g.Set(i, i+1, 1)
		}
	case 2:
		for i := 1; i+1 < n; i++ {
			g.Set(i, i-1, 1)
			g.Set(i, i, -2)
			g.Set(i, i+1, 1)
		}
	}

	gammaMu.Lock()
	gammaCache[key] = g
	gammaMu.Unlock()
	return g, nil
}

// SmoothnessOperator2D returns the square (rows*cols) x (rows*cols) penalty
// for a row-major vectorized solution matrix of the given shape. Order 0 is
// the identity. Orders 1 and 2 combine the per-axis operators as the
// Kronecker sum kron(I, G_cols) + kron(G_rows, I): every stencil stays
// inside one solution row or one solution column. A plain 1D operator on the
// vectorized solution would instead couple the last bin of each row to the
// first bin of the next.
//
// Operators are cached like their 1D counterparts; callers must treat the
// returned matrix as read-only.
func SmoothnessOperator2D(rows, cols, order int) (*mat.Dense, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: shape %dx%d", ErrBadOrder, rows, cols)
	}
	if order < 0 || order > 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadOrder, order)
	}

	key := gamma2DKey{rows, cols, order}
	gammaMu.RLock()
	g, ok := gamma2DCache[key]
	gammaMu.RUnlock()
	if ok {
		return g, nil
	}

	n := rows * cols
	g = mat.NewDense(n, n, nil)
	if order == 0 {
		for i := 0; i < n; i++ {
			g.Set(i, i, 1)
		}
	} else {
		gr, err := SmoothnessOperator(rows, order)
		if err != nil {
			return nil, err
		}
		gc, err := SmoothnessOperator(cols, order)
		if err != nil {
			return nil, err
		}

		// kron(I_rows, G_cols): differences along each solution row.
		for p := 0; p < rows; p++ {
			for i := 0; i < cols; i++ {
				for j := 0; j < cols; j++ {
					if v := gc.At(i, j); v != 0 {
						g.Set(p*cols+i, p*cols+j, v)
					}
				}
			}
		}
		// kron(G_rows, I_cols): differences along each solution column.
		for i := 0; i < rows; i++ {
			for j := 0; j < rows; j++ {
				v := gr.At(i, j)
				if v == 0 {
					continue
				}
				for q := 0; q < cols; q++ {
					r, c := i*cols+q, j*cols+q
					g.Set(r, c, g.At(r, c)+v)
				}
			}
		}
	}

	gammaMu.Lock()
	gamma2DCache[key] = g
	gammaMu.Unlock()
	return g, nil
}
