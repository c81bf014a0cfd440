package fixed_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/fusion-core/x/fixed"
)

func TestMulDivRoundTrip(t *testing.T) {
	a := fixed.FromFloat32(2.5)
	b := fixed.FromFloat32(4.0)
	require.InDelta(t, 10.0, fixed.Mul(a, b).ToFloat32(), 0.001)
	require.InDelta(t, 0.625, fixed.Div(a, b).ToFloat32(), 0.001)
}

func TestSqrt(t *testing.T) {
	require.InDelta(t, 3.0, fixed.Sqrt(fixed.FromFloat32(9)).ToFloat32(), 0.01)
	require.InDelta(t, 1.4142, fixed.Sqrt(fixed.FromFloat32(2)).ToFloat32(), 0.01)
	require.Equal(t, fixed.Scalar(0), fixed.Sqrt(0))
}

func TestSign(t *testing.T) {
	require.Equal(t, fixed.One, fixed.Sign(fixed.FromFloat32(5)))
	require.Equal(t, -fixed.One, fixed.Sign(fixed.FromFloat32(-5)))
	require.Equal(t, fixed.One, fixed.Sign(0))
	require.Equal(t, fixed.Scalar(0), fixed.SignEx(0))
}

func TestAtan2Quadrants(t *testing.T) {
	cases := []struct {
		y, x     float32
		expected float32
	}{
		{0, 1, 0},
		{1, 0, 1.5708},
		{0, -1, 3.14159},
		{-1, 0, -1.5708},
		{1, 1, 0.7854},
	}
	for _, c := range cases {
		got := fixed.Atan2(fixed.FromFloat32(c.y), fixed.FromFloat32(c.x)).ToFloat32()
		require.InDelta(t, c.expected, got, 0.01)
	}
}

func TestAsin(t *testing.T) {
	require.InDelta(t, 0.0, fixed.Asin(0).ToFloat32(), 0.01)
	require.InDelta(t, 1.5708, fixed.Asin(fixed.One).ToFloat32(), 0.01)
	require.InDelta(t, -1.5708, fixed.Asin(-fixed.One).ToFloat32(), 0.01)
	require.InDelta(t, 0.5236, fixed.Asin(fixed.FromFloat32(0.5)).ToFloat32(), 0.01)
}

func TestVector3NormalizeAndCross(t *testing.T) {
	v := fixed.NewVector3(fixed.FromFloat32(3), fixed.FromFloat32(4), 0)
	require.InDelta(t, 5.0, v.Norm().ToFloat32(), 0.01)

	n := v.Normalized()
	require.InDelta(t, 1.0, n.Norm().ToFloat32(), 0.01)

	x := fixed.NewVector3(fixed.One, 0, 0)
	y := fixed.NewVector3(0, fixed.One, 0)
	z := x.Cross(y)
	require.InDelta(t, 0.0, z.X().ToFloat32(), 0.01)
	require.InDelta(t, 0.0, z.Y().ToFloat32(), 0.01)
	require.InDelta(t, 1.0, z.Z().ToFloat32(), 0.01)
}

func TestMatrixMulIdentity(t *testing.T) {
	m := fixed.NewMatrix(2, 2)
	m.Set(0, 0, fixed.FromFloat32(1))
	m.Set(0, 1, fixed.FromFloat32(2))
	m.Set(1, 0, fixed.FromFloat32(3))
	m.Set(1, 1, fixed.FromFloat32(4))

	id := fixed.Identity(2)
	dest := fixed.NewMatrix(2, 2)
	fixed.MMul(dest, id, m)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, m.At(i, j).ToFloat32(), dest.At(i, j).ToFloat32(), 0.001)
		}
	}
}

func TestMatrixDimErrFlag(t *testing.T) {
	a := fixed.NewMatrix(2, 3)
	b := fixed.NewMatrix(2, 2)
	dest := fixed.NewMatrix(2, 3)
	fixed.MAdd(dest, a, b)
	require.True(t, dest.Flags().Has(fixed.DimErr))
}
