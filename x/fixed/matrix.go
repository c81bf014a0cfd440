package fixed

// Flags is a sticky, OR-only error word accumulated across a sequence of
// matrix operations, letting a caller inspect the outcome after a batch
// of arithmetic instead of aborting mid-computation.
type Flags uint8

const (
	// DimErr is set when an operation was attempted on mismatched shapes.
	DimErr Flags = 1 << iota
	// Overflow marks an arithmetic failure. The matrix operations in this
	// package never set it and do not detect wraparound; kalmanfx sets it
	// on an observation whose innovation covariance cannot be inverted.
	Overflow
)

// Has reports whether f contains all bits of other.
func (f Flags) Has(other Flags) bool { return f&other == other }

// Matrix is a dense, row-major Q16.16 matrix, with a sticky Flags word
// instead of panicking on every arithmetic edge case.
type Matrix struct {
	rows, cols int
	data       []Scalar
	flags      Flags
}

// NewMatrix allocates a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic("fixed: matrix dimensions must be positive")
	}
	return &Matrix{rows: rows, cols: cols, data: make([]Scalar, rows*cols)}
}

// Identity returns an n x n identity matrix.
func Identity(n int) *Matrix {
	m := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, One)
	}
	return m
}

// Diag returns a square matrix with d on the diagonal and zero elsewhere.
func Diag(d ...Scalar) *Matrix {
	n := len(d)
	m := NewMatrix(n, n)
	for i, v := range d {
		m.Set(i, i, v)
	}
	return m
}

// Rows and Cols report the matrix shape.
func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// Flags returns the sticky error flags accumulated so far.
func (m *Matrix) Flags() Flags { return m.flags }

// ClearFlags resets the sticky error flags.
func (m *Matrix) ClearFlags() { m.flags = 0 }

func (m *Matrix) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("fixed: matrix index out of range")
	}
	return i*m.cols + j
}

// At returns the value at (i, j).
func (m *Matrix) At(i, j int) Scalar { return m.data[m.index(i, j)] }

// Set writes v at (i, j).
func (m *Matrix) Set(i, j int, v Scalar) { m.data[m.index(i, j)] = v }

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols, data: make([]Scalar, len(m.data)), flags: m.flags}
	copy(out.data, m.data)
	return out
}

// CopyFrom overwrites m's contents with src's. Panics on shape mismatch,
// since mismatched shapes here are always a caller bug, not recoverable
// data.
func (m *Matrix) CopyFrom(src *Matrix) {
	if m.rows != src.rows || m.cols != src.cols {
		panic("fixed: CopyFrom shape mismatch")
	}
	copy(m.data, src.data)
}

func sameShape(a, b *Matrix) bool { return a.rows == b.rows && a.cols == b.cols }

// MAdd sets dest = a + b, setting DimErr in dest's flags and leaving dest
// unmodified if shapes disagree.
func MAdd(dest, a, b *Matrix) {
	if !sameShape(a, b) || !sameShape(dest, a) {
		dest.flags |= DimErr
		return
	}
	for i := range dest.data {
		dest.data[i] = a.data[i] + b.data[i]
	}
}

// MAddScaled sets dest = a + b*s, matching mf16_add_scaled for matrices.
func MAddScaled(dest, a, b *Matrix, s Scalar) {
	if !sameShape(a, b) || !sameShape(dest, a) {
		dest.flags |= DimErr
		return
	}
	for i := range dest.data {
		dest.data[i] = a.data[i] + Mul(b.data[i], s)
	}
}

// MSub sets dest = a - b.
func MSub(dest, a, b *Matrix) {
	if !sameShape(a, b) || !sameShape(dest, a) {
		dest.flags |= DimErr
		return
	}
	for i := range dest.data {
		dest.data[i] = a.data[i] - b.data[i]
	}
}

// MMul sets dest = a * b (matrix product). dest must not alias a or b.
func MMul(dest, a, b *Matrix) {
	if a.cols != b.rows || dest.rows != a.rows || dest.cols != b.cols {
		dest.flags |= DimErr
		return
	}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.cols; j++ {
			var acc Scalar
			for k := 0; k < a.cols; k++ {
				acc += Mul(a.At(i, k), b.At(k, j))
			}
			dest.Set(i, j, acc)
		}
	}
}

// MMulTransposeB sets dest = a * b^T, avoiding an explicit transpose
// allocation on the hot Kalman gain path (P*H^T).
func MMulTransposeB(dest, a, b *Matrix) {
	if a.cols != b.cols || dest.rows != a.rows || dest.cols != b.rows {
		dest.flags |= DimErr
		return
	}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < b.rows; j++ {
			var acc Scalar
			for k := 0; k < a.cols; k++ {
				acc += Mul(a.At(i, k), b.At(j, k))
			}
			dest.Set(i, j, acc)
		}
	}
}

// MTranspose sets dest = a^T. dest must not alias a.
func MTranspose(dest, a *Matrix) {
	if dest.rows != a.cols || dest.cols != a.rows {
		dest.flags |= DimErr
		return
	}
	for i := 0; i < a.rows; i++ {
		for j := 0; j < a.cols; j++ {
			dest.Set(j, i, a.At(i, j))
		}
	}
}

// MScale sets dest = a * s.
func MScale(dest, a *Matrix, s Scalar) {
	if !sameShape(dest, a) {
		dest.flags |= DimErr
		return
	}
	for i := range dest.data {
		dest.data[i] = Mul(a.data[i], s)
	}
}
