package fusion

import (
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/kalmanfx"
)

// Predict advances both filters by dt: the state-transition matrix is
// refreshed from the current axis estimate, the state and covariance are
// advanced through it, and the axis row is re-orthonormalized (sanitise)
// to keep it unit length.
//
// A single matrix-vector multiply x=A*x is algebraically the same step as
// the explicit cross-product integrator (d_c = gyro x axis, c += d_c*dt;
// only the fixed-point rounding order differs) because A's off-diagonal block is built
// from the pre-step axis components for that reason; keeping the update as
// one linear step lets it share the Kalman primitive's Predict instead of
// a bespoke integrator.
func (e *Estimator) Predict(dt fixed.Scalar) {
	updateStateMatrixFromState(e.attitude, dt)
	e.attitude.Predict()
	sanitise(e.attitude)

	updateStateMatrixFromState(e.orientation, dt)
	e.orientation.Predict()
	sanitise(e.orientation)
}

// updateStateMatrixFromState writes the six nonzero off-diagonal entries
// of A from f's current axis row (state components 0..2). The diagonal
// stays 1 for the life of the filter.
func updateStateMatrixFromState(f *kalmanfx.Filter, dt fixed.Scalar) {
	c1 := f.StateAt(0)
	c2 := f.StateAt(1)
	c3 := f.StateAt(2)

	A := f.A()
	A.Set(0, 4, fixed.Mul(c3, dt))
	A.Set(0, 5, -fixed.Mul(c2, dt))
	A.Set(1, 3, -fixed.Mul(c3, dt))
	A.Set(1, 5, fixed.Mul(c1, dt))
	A.Set(2, 3, fixed.Mul(c2, dt))
	A.Set(2, 4, -fixed.Mul(c1, dt))
}

// sanitise re-normalizes f's axis row (state components 0..2) to unit
// length after every predict and correct step.
func sanitise(f *kalmanfx.Filter) {
	v := fixed.NewVector3(f.StateAt(0), f.StateAt(1), f.StateAt(2))
	n := v.Normalized()
	f.SetStateAt(0, n.X())
	f.SetStateAt(1, n.Y())
	f.SetStateAt(2, n.Z())
}
