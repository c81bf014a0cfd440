package fusion

import "github.com/itohio/fusion-core/x/fixed"

const quarter fixed.Scalar = fixed.One / 4

// FetchQuaternion returns the current orientation as a unit quaternion
// (w, x, y, z), computed with the trace-based (Shepperd) method from the
// DCM assembled out of the two filters' axis rows. A non-trace extraction
// exists in some ports of this construction but is known to flip
// rotation-axis signs near pitch 0 degrees and yaw 180 degrees, so only
// the trace-based method is implemented here.
func (e *Estimator) FetchQuaternion() [4]fixed.Scalar {
	m10 := e.orientation.StateAt(0)
	m11 := e.orientation.StateAt(1)
	m12 := e.orientation.StateAt(2)

	m20 := -e.attitude.StateAt(0)
	m21 := -e.attitude.StateAt(1)
	m22 := -e.attitude.StateAt(2)

	row1 := fixed.NewVector3(m10, m11, m12)
	row2 := fixed.NewVector3(m20, m21, m22)
	row0 := row1.Cross(row2).Normalized()
	m00, m01, m02 := row0.X(), row0.Y(), row0.Z()

	var qw, qx, qy, qz fixed.Scalar
	trace := m00 + m11 + m22

	switch {
	case trace > 0:
		s := fixed.Div(fixed.Half, fixed.Sqrt(fixed.One+trace))
		qw = fixed.Div(quarter, s)
		qx = fixed.Mul(m21-m12, s)
		qy = fixed.Mul(m02-m20, s)
		qz = fixed.Mul(m10-m01, s)
	case m00 >= m11 && m00 >= m22:
		s := 2 * fixed.Sqrt(fixed.ZeroOrValue(fixed.One+m00-m11-m22))
		qw = fixed.Div(m21-m12, s)
		qx = fixed.Mul(quarter, s)
		qy = fixed.Div(m01+m10, s)
		qz = fixed.Div(m02+m20, s)
	case m11 >= m22:
		s := 2 * fixed.Sqrt(fixed.ZeroOrValue(fixed.One+m11-m00-m22))
		qw = fixed.Div(m02-m20, s)
		qx = fixed.Div(m01+m10, s)
		qy = fixed.Mul(quarter, s)
		qz = fixed.Div(m12+m21, s)
	default:
		s := 2 * fixed.Sqrt(fixed.ZeroOrValue(fixed.One+m22-m00-m11))
		qw = fixed.Div(m10-m01, s)
		qx = fixed.Div(m02+m20, s)
		qy = fixed.Div(m12+m21, s)
		qz = fixed.Mul(quarter, s)
	}

	q := fixed.NewVector3(qx, qy, qz)
	full := quatNorm(qw, q)
	return full
}

// quatNorm normalizes (w, x, y, z) to unit length.
func quatNorm(w fixed.Scalar, v fixed.Vector3) [4]fixed.Scalar {
	n := fixed.Sqrt(fixed.Sq(w) + v.SumSqr())
	if n == 0 {
		return [4]fixed.Scalar{fixed.One, 0, 0, 0}
	}
	return [4]fixed.Scalar{
		fixed.Div(w, n),
		fixed.Div(v.X(), n),
		fixed.Div(v.Y(), n),
		fixed.Div(v.Z(), n),
	}
}
