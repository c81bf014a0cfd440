package fusion

import "github.com/itohio/fusion-core/x/fixed"

// projectMagnetometer recovers an "east" axis orthogonal to the attitude
// filter's current "down" estimate via the TRIAD construction: cross the
// magnetometer reading with the down axis, then renormalize.
//
// The magnetometer singularity fallback (rejecting projections where the
// magnetometer reading is nearly parallel to down) is implemented but
// disabled unless Tuning.RejectMagSingularity is set, since the projection
// degrades gracefully near the pole only when the caller opts in.
func (e *Estimator) projectMagnetometer(m fixed.Vector3) fixed.Vector3 {
	down := fixed.NewVector3(
		e.attitude.StateAt(0),
		e.attitude.StateAt(1),
		e.attitude.StateAt(2),
	).Normalized()

	if e.tuning.RejectMagSingularity {
		cosAngle := fixed.Abs(m.Normalized().Dot(down))
		if cosAngle >= fixed.Sub(fixed.One, e.tuning.SingularityCosThreshold) {
			// Magnetometer reading nearly parallel to down: the cross
			// product below would be numerically degenerate. Fall back to
			// the filter's current east estimate rather than projecting
			// garbage into it.
			return fixed.NewVector3(
				e.orientation.StateAt(0),
				e.orientation.StateAt(1),
				e.orientation.StateAt(2),
			)
		}
	}

	return m.Cross(down).Normalized()
}
