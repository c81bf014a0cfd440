// Package kalmanfx implements the linear Kalman filter primitives the
// fusion estimator is built from: a
// New/SetState/SetCovarianceDiag/Predict/Correct surface over preallocated
// working matrices, running entirely on fixed.Matrix/fixed.Scalar instead
// of floating point, with Joseph-form covariance correction for numerical
// robustness under fixed-point rounding.
package kalmanfx

import "github.com/itohio/fusion-core/x/fixed"

// Filter is an uncontrolled (no input vector) linear Kalman filter over an
// n-dimensional state. It owns its working matrices so Predict never
// allocates; Observation.Correct allocates one scratch matrix per call
// for the inversion.
type Filter struct {
	n int

	x     *fixed.Matrix // n x 1 state
	aMat  *fixed.Matrix // n x n state transition
	P     *fixed.Matrix // n x n covariance
	Q     *fixed.Matrix // n x n process noise

	tempNN  *fixed.Matrix
	tempNN2 *fixed.Matrix
	tempN   *fixed.Matrix
}

// New builds an uncontrolled filter over n states. A, P and Q must all be
// n x n; they are cloned into the filter, not aliased, so the caller is
// free to keep mutating the originals afterward.
func New(n int, A, P, Q *fixed.Matrix) *Filter {
	if A.Rows() != n || A.Cols() != n || P.Rows() != n || P.Cols() != n || Q.Rows() != n || Q.Cols() != n {
		panic("kalmanfx: A, P and Q must be n x n")
	}
	f := &Filter{
		n:       n,
		x:       fixed.NewMatrix(n, 1),
		aMat:    A.Clone(),
		P:       P.Clone(),
		Q:       Q.Clone(),
		tempNN:  fixed.NewMatrix(n, n),
		tempNN2: fixed.NewMatrix(n, n),
		tempN:   fixed.NewMatrix(n, 1),
	}
	return f
}

// N returns the state dimension.
func (f *Filter) N() int { return f.n }

// State returns the current state vector as an n x 1 matrix view; callers
// must not retain it across a Predict/Correct call.
func (f *Filter) State() *fixed.Matrix { return f.x }

// SetState overwrites the state vector with x (n x 1).
func (f *Filter) SetState(x *fixed.Matrix) {
	if x.Rows() != f.n || x.Cols() != 1 {
		panic("kalmanfx: state vector must be n x 1")
	}
	f.x.CopyFrom(x)
}

// SetStateAt directly writes a single state component, used by the
// bootstrap path which seeds the filter from a raw sample instead of
// running a correction step.
func (f *Filter) SetStateAt(i int, v fixed.Scalar) { f.x.Set(i, 0, v) }

// StateAt reads a single state component.
func (f *Filter) StateAt(i int) fixed.Scalar { return f.x.At(i, 0) }

// Covariance returns the covariance matrix.
func (f *Filter) Covariance() *fixed.Matrix { return f.P }

// SetCovarianceDiag overwrites P with a fresh diagonal matrix.
func (f *Filter) SetCovarianceDiag(d ...fixed.Scalar) {
	if len(d) != f.n {
		panic("kalmanfx: covariance diagonal length mismatch")
	}
	for i := 0; i < f.n; i++ {
		for j := 0; j < f.n; j++ {
			if i == j {
				f.P.Set(i, j, d[i])
			} else {
				f.P.Set(i, j, 0)
			}
		}
	}
}

// A returns the state transition matrix directly (not a copy), so a
// caller can mutate a handful of cells in place (as the fusion package's
// time-varying A needs every predict step) without reconstructing it.
func (f *Filter) A() *fixed.Matrix { return f.aMat }

// SetA overwrites the whole state transition matrix. The fusion package
// does not use it: it rewrites the cells of its time-varying A (built from
// the current axis estimate) in place through A.
func (f *Filter) SetA(A *fixed.Matrix) {
	if A.Rows() != f.n || A.Cols() != f.n {
		panic("kalmanfx: A must be n x n")
	}
	f.aMat.CopyFrom(A)
}

// Predict advances the state and covariance one step: x = A*x, P = A*P*A^T + Q.
func (f *Filter) Predict() {
	fixed.MMul(f.tempN, f.aMat, f.x)
	f.x.CopyFrom(f.tempN)
	fixed.MMul(f.tempNN, f.aMat, f.P)
	fixed.MMulTransposeB(f.tempNN2, f.tempNN, f.aMat)
	fixed.MAdd(f.P, f.tempNN2, f.Q)
}

// Flags reports the sticky error flags accumulated on the filter's own
// matrices (A, P, Q, x). Observation-side flags are reported separately by
// Observation.Flags.
func (f *Filter) Flags() fixed.Flags {
	return f.x.Flags() | f.aMat.Flags() | f.P.Flags() | f.Q.Flags()
}
