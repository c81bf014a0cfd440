package fixed

// Fixed-point atan2/asin via CORDIC rotation, the standard integer-only
// technique for transcendental functions without floating point. All
// arithmetic stays in Q16.16 integers.

// cordicAngles holds atan(2^-i) for i = 0..15 in Q16.16.
var cordicAngles = [16]Scalar{
	51472, 30386, 16055, 8150,
	4091, 2047, 1024, 512,
	256, 128, 64, 32,
	16, 8, 4, 2,
}

// Atan2 returns atan2(y, x) in radians, Q16.16, range (-Pi, Pi].
func Atan2(y, x Scalar) Scalar {
	if x == 0 && y == 0 {
		return 0
	}

	negate := x < 0
	if negate {
		x = -x
		y = -y
	}

	var z Scalar
	cx, cy := x, y
	for i := 0; i < len(cordicAngles); i++ {
		shift := uint(i)
		if cy > 0 {
			nx := cx + (cy >> shift)
			ny := cy - (cx >> shift)
			cx, cy = nx, ny
			z += cordicAngles[i]
		} else if cy < 0 {
			nx := cx - (cy >> shift)
			ny := cy + (cx >> shift)
			cx, cy = nx, ny
			z -= cordicAngles[i]
		}
	}

	if negate {
		// y was negated above: y <= 0 here means the original y >= 0.
		if y <= 0 {
			return z + Pi
		}
		return z - Pi
	}
	return z
}

// Asin returns asin(a) in radians, Q16.16, for a in [-1, 1]. Implemented as
// atan2(a, sqrt(1-a^2)), which stays well-conditioned across the whole
// domain including near +/-1.
func Asin(a Scalar) Scalar {
	a = Clamp(a, -One, One)
	underRoot := ZeroOrValue(Sub(One, Sq(a)))
	return Atan2(a, Sqrt(underRoot))
}
