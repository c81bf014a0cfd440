package fixed

// Vector3 is a fixed-size Q16.16 3-vector with value semantics: cheap to
// copy, no heap allocation.
type Vector3 [3]Scalar

// NewVector3 builds a Vector3 from three scalars.
func NewVector3(x, y, z Scalar) Vector3 { return Vector3{x, y, z} }

// X, Y and Z are the axis accessors.
func (v Vector3) X() Scalar { return v[0] }
func (v Vector3) Y() Scalar { return v[1] }
func (v Vector3) Z() Scalar { return v[2] }

// Add returns v+o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v-o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s Scalar) Vector3 {
	return Vector3{Mul(v[0], s), Mul(v[1], s), Mul(v[2], s)}
}

// AddScaled returns v + o*s, matching mf16_add_scaled in the original
// firmware: a single fused multiply-add.
func (v Vector3) AddScaled(o Vector3, s Scalar) Vector3 {
	return Vector3{
		v[0] + Mul(o[0], s),
		v[1] + Mul(o[1], s),
		v[2] + Mul(o[2], s),
	}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) Scalar {
	return Mul(v[0], o[0]) + Mul(v[1], o[1]) + Mul(v[2], o[2])
}

// Cross returns the cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		Mul(v[1], o[2]) - Mul(v[2], o[1]),
		Mul(v[2], o[0]) - Mul(v[0], o[2]),
		Mul(v[0], o[1]) - Mul(v[1], o[0]),
	}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 { return Vector3{-v[0], -v[1], -v[2]} }

// SumSqr returns the sum of squares of the components.
func (v Vector3) SumSqr() Scalar { return Sq(v[0]) + Sq(v[1]) + Sq(v[2]) }

// Norm returns the Euclidean norm of v.
func (v Vector3) Norm() Scalar { return Sqrt(v.SumSqr()) }

// Normalized returns v scaled to unit length. Panics if v is the zero
// vector, since normalizing a zero vector is a programmer/data error the
// caller must have already guarded against (matching the firmware's
// implicit assumption that norm3 is never called on a degenerate sample).
func (v Vector3) Normalized() Vector3 {
	n := v.Norm()
	if n == 0 {
		panic("fixed: cannot normalize zero vector")
	}
	return Vector3{Div(v[0], n), Div(v[1], n), Div(v[2], n)}
}
