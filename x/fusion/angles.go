package fusion

import "github.com/itohio/fusion-core/x/fixed"

// FetchAngles returns the current roll, pitch and yaw in radians, matching
// fusion_fetch_angles. pitch is in [-pi/2, pi/2]; roll and yaw are in
// [-pi, pi].
func (e *Estimator) FetchAngles() (roll, pitch, yaw fixed.Scalar) {
	c31 := e.attitude.StateAt(0)
	c32 := e.attitude.StateAt(1)
	c33 := e.attitude.StateAt(2)

	pitch = -fixed.Asin(c31)
	roll = -fixed.Atan2(c32, -c33)

	c21 := e.orientation.StateAt(0)
	c22 := e.orientation.StateAt(1)
	c23 := e.orientation.StateAt(2)

	c11 := fixed.Mul(c22, c33) - fixed.Mul(c23, c32)
	yaw = fixed.Atan2(c21, -c11)

	return roll, pitch, yaw
}
