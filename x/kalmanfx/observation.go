package kalmanfx

import "github.com/itohio/fusion-core/x/fixed"

// Observation bundles a measurement model (H, R) together with the scratch
// matrices its correction step needs, mirroring the way the original
// firmware pairs one kalman16_observation_t per sensor (kfm_accel,
// kfm_magneto, kfm_gyro) with the single shared filter it corrects.
type Observation struct {
	n, m int

	H *fixed.Matrix // m x n measurement matrix
	R *fixed.Matrix // m x m measurement noise

	hx   *fixed.Matrix // m x 1: H*x
	y    *fixed.Matrix // m x 1: innovation
	ht   *fixed.Matrix // n x m: H^T
	pht  *fixed.Matrix // n x m: P*H^T
	hpht *fixed.Matrix // m x m: H*P*H^T
	s    *fixed.Matrix // m x m: innovation covariance
	sInv *fixed.Matrix // m x m: S^-1
	k    *fixed.Matrix // n x m: Kalman gain
	ky   *fixed.Matrix // n x 1: K*y
	kh   *fixed.Matrix // n x n: K*H
	imkh *fixed.Matrix // n x n: I - K*H
	imkt *fixed.Matrix // n x n: (I-K*H)^T
	p1   *fixed.Matrix // n x n: (I-KH)*P
	p2   *fixed.Matrix // n x n: (I-KH)*P*(I-KH)^T
	kr   *fixed.Matrix // n x m: K*R
	kt   *fixed.Matrix // m x n: K^T
	krkt *fixed.Matrix // n x n: K*R*K^T

	flags fixed.Flags
}

// NewObservation builds an observation with n states and m measurements. H
// must be m x n and R must be m x m; both are cloned.
func NewObservation(n, m int, H, R *fixed.Matrix) *Observation {
	if H.Rows() != m || H.Cols() != n || R.Rows() != m || R.Cols() != m {
		panic("kalmanfx: H must be m x n and R must be m x m")
	}
	return &Observation{
		n: n, m: m,
		H:    H.Clone(),
		R:    R.Clone(),
		hx:   fixed.NewMatrix(m, 1),
		y:    fixed.NewMatrix(m, 1),
		ht:   fixed.NewMatrix(n, m),
		pht:  fixed.NewMatrix(n, m),
		hpht: fixed.NewMatrix(m, m),
		s:    fixed.NewMatrix(m, m),
		sInv: fixed.NewMatrix(m, m),
		k:    fixed.NewMatrix(n, m),
		ky:   fixed.NewMatrix(n, 1),
		kh:   fixed.NewMatrix(n, n),
		imkh: fixed.NewMatrix(n, n),
		imkt: fixed.NewMatrix(n, n),
		p1:   fixed.NewMatrix(n, n),
		p2:   fixed.NewMatrix(n, n),
		kr:   fixed.NewMatrix(n, m),
		kt:   fixed.NewMatrix(m, n),
		krkt: fixed.NewMatrix(n, n),
	}
}

// SetRDiag overwrites R with a fresh diagonal matrix, used by the noise
// tuning steps (tune_measurement_noise / update_measurement_noise) which
// rewrite R wholesale before every correction rather than adapting it
// incrementally.
func (o *Observation) SetRDiag(d ...fixed.Scalar) {
	if len(d) != o.m {
		panic("kalmanfx: R diagonal length mismatch")
	}
	for i := 0; i < o.m; i++ {
		for j := 0; j < o.m; j++ {
			if i == j {
				o.R.Set(i, j, d[i])
			} else {
				o.R.Set(i, j, 0)
			}
		}
	}
}

// Flags reports the sticky error flags accumulated by this observation's
// own matrices plus whatever Correct accumulated internally.
func (o *Observation) Flags() fixed.Flags {
	return o.flags | o.H.Flags() | o.R.Flags()
}

// Correct runs one measurement update of f against observation z (an m x 1
// matrix) through this observation's H/R, using Joseph-form covariance
// correction:
//
//	y = z - H*x
//	S = H*P*H^T + R
//	K = P*H^T*S^-1
//	x = x + K*y
//	P = (I-KH)*P*(I-KH)^T + K*R*K^T
//
// Joseph form is used instead of the algebraically-equivalent P=(I-KH)*P
// because it stays symmetric and positive semi-definite under fixed-point
// rounding, where the simple form can drift.
func (o *Observation) Correct(f *Filter, z *fixed.Matrix) {
	if f.n != o.n {
		o.flags |= fixed.DimErr
		return
	}
	if z.Rows() != o.m || z.Cols() != 1 {
		o.flags |= fixed.DimErr
		return
	}

	fixed.MMul(o.hx, o.H, f.x)
	fixed.MSub(o.y, z, o.hx)

	fixed.MTranspose(o.ht, o.H)
	fixed.MMul(o.pht, f.P, o.ht)
	fixed.MMul(o.hpht, o.H, o.pht)
	fixed.MAdd(o.s, o.hpht, o.R)

	if !invert(o.sInv, o.s) {
		o.flags |= fixed.Overflow
		return
	}

	fixed.MMul(o.k, o.pht, o.sInv)
	fixed.MMul(o.ky, o.k, o.y)
	fixed.MAdd(f.x, f.x, o.ky)

	fixed.MMul(o.kh, o.k, o.H)
	identityMinus(o.imkh, o.kh)
	fixed.MTranspose(o.imkt, o.imkh)

	fixed.MMul(o.p1, o.imkh, f.P)
	fixed.MMul(o.p2, o.p1, o.imkt)

	fixed.MMul(o.kr, o.k, o.R)
	fixed.MTranspose(o.kt, o.k)
	fixed.MMul(o.krkt, o.kr, o.kt)

	fixed.MAdd(f.P, o.p2, o.krkt)

	o.flags |= f.Flags()
}

// identityMinus sets dest = I - src (src and dest may alias).
func identityMinus(dest, src *fixed.Matrix) {
	n := src.Rows()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := -src.At(i, j)
			if i == j {
				v += fixed.One
			}
			dest.Set(i, j, v)
		}
	}
}

// invert computes dest = src^-1 via Gauss-Jordan elimination over Q16.16,
// allocating an n x 2n working matrix on each call. Returns false only
// when a pivot column is exactly zero (no check for near-singular input),
// in which case dest is left unmodified.
func invert(dest, src *fixed.Matrix) bool {
	n := src.Rows()
	aug := fixed.NewMatrix(n, 2*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			aug.Set(i, j, src.At(i, j))
		}
		aug.Set(i, n+i, fixed.One)
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := fixed.Abs(aug.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := fixed.Abs(aug.At(r, col)); v > best {
				best = v
				pivot = r
			}
		}
		if best == 0 {
			return false
		}
		if pivot != col {
			for j := 0; j < 2*n; j++ {
				a, b := aug.At(col, j), aug.At(pivot, j)
				aug.Set(col, j, b)
				aug.Set(pivot, j, a)
			}
		}
		pv := aug.At(col, col)
		for j := 0; j < 2*n; j++ {
			aug.Set(col, j, fixed.Div(aug.At(col, j), pv))
		}
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := aug.At(r, col)
			if factor == 0 {
				continue
			}
			for j := 0; j < 2*n; j++ {
				aug.Set(r, j, aug.At(r, j)-fixed.Mul(factor, aug.At(col, j)))
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dest.Set(i, j, aug.At(i, n+j))
		}
	}
	return true
}
