package fusion

import (
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/kalmanfx"
)

// Update consumes whatever accelerometer/gyroscope/magnetometer samples
// have been latched since the last call, bootstraps either filter's axis
// row on first use of the corresponding sensor, runs the appropriate
// measurement correction, and clears the accelerometer/magnetometer
// have-flags.
//
// dt is accepted for symmetry with Predict and because a future tuning
// scheme might need it, but is currently unused: the measurement
// corrections do not scale R by dt, a deliberate choice since the
// measurement noise reflects sensor characteristics rather than the
// sampling interval, not an oversight.
func (e *Estimator) Update(dt fixed.Scalar) {
	_ = dt

	switch e.policy {
	case PolicyGyroOnly:
		e.updateAttitudeGyro()
		e.updateOrientationGyro()
	case PolicyAccelOnly:
		e.updateAttitudeFromAccelOrGyro()
		e.updateOrientationGyro()
	default:
		e.updateAttitudeFromAccelOrGyro()
		e.updateOrientationFromMagOrGyro()
	}

	e.haveAccel = false
	e.haveMag = false
}

func (e *Estimator) updateAttitudeFromAccelOrGyro() {
	if !e.haveAccel {
		e.updateAttitudeGyro()
		return
	}
	if !e.attitudeBootstrapped {
		if e.accelerationDisturbed() {
			// Never seed the axis estimate from a disturbed sample; wait
			// for a clean one instead of bootstrapping toward garbage.
			e.updateAttitudeGyro()
			return
		}
		d := e.down()
		e.attitude.SetStateAt(0, d.X())
		e.attitude.SetStateAt(1, d.Y())
		e.attitude.SetStateAt(2, d.Z())
		e.attitudeBootstrapped = true
	}
	e.updateAttitude()
}

// down converts the latched accelerometer sample into the body-frame
// "down" direction. A stationary accelerometer measures the reaction to
// gravity (it reads +1g "up" when level), so the axis FetchAngles and
// FetchQuaternion treat as "down" is the negated, normalized reading.
func (e *Estimator) down() fixed.Vector3 {
	return e.accel.Normalized().Neg()
}

func (e *Estimator) updateOrientationFromMagOrGyro() {
	// The orientation filter must never use or bootstrap from the
	// magnetometer ahead of the attitude filter, since the TRIAD
	// projection needs a meaningful "down" estimate to cross with the
	// magnetometer sample. Without one yet, fall back to gyro-only even
	// though a magnetometer sample is latched.
	if !e.haveMag || !e.attitudeBootstrapped {
		e.updateOrientationGyro()
		return
	}
	if !e.orientationBootstrapped {
		p := e.projectMagnetometer(e.mag)
		e.orientation.SetStateAt(0, p.X())
		e.orientation.SetStateAt(1, p.Y())
		e.orientation.SetStateAt(2, p.Z())
		e.orientationBootstrapped = true
	}
	e.updateOrientation()
}

// updateAttitudeGyro corrects the attitude filter from the gyroscope
// alone, used whenever no accelerometer sample is available, under
// PolicyGyroOnly, or when an acceleration disturbance is detected.
func (e *Estimator) updateAttitudeGyro() {
	z := fixed.NewMatrix(gyroObservations, 1)
	z.Set(0, 0, e.gyro.X())
	z.Set(1, 0, e.gyro.Y())
	z.Set(2, 0, e.gyro.Z())
	e.obsGyro.Correct(e.attitude, z)
	sanitise(e.attitude)
}

func (e *Estimator) updateOrientationGyro() {
	z := fixed.NewMatrix(gyroObservations, 1)
	z.Set(0, 0, e.gyro.X())
	z.Set(1, 0, e.gyro.Y())
	z.Set(2, 0, e.gyro.Z())
	e.obsGyro.Correct(e.orientation, z)
	sanitise(e.orientation)
}

// accelerationDisturbed reports whether the latched accelerometer sample's
// magnitude deviates from 1g by at least the configured threshold.
func (e *Estimator) accelerationDisturbed() bool {
	dev := fixed.Abs(e.accel.Norm() - fixed.One)
	return dev >= e.tuning.AttitudeThreshold
}

// updateAttitude corrects the attitude filter from the accelerometer and
// gyroscope together, falling back to gyro-only correction when the
// accelerometer reading looks disturbed by non-gravitational
// acceleration.
func (e *Estimator) updateAttitude() {
	if e.accelerationDisturbed() {
		e.updateAttitudeGyro()
		return
	}

	n := e.down()
	e.tuneAxisGyroNoise(e.obsAccel, e.tuning.RAxis)

	z := fixed.NewMatrix(fullObservations, 1)
	z.Set(0, 0, n.X())
	z.Set(1, 0, n.Y())
	z.Set(2, 0, n.Z())
	z.Set(3, 0, e.gyro.X())
	z.Set(4, 0, e.gyro.Y())
	z.Set(5, 0, e.gyro.Z())

	e.obsAccel.Correct(e.attitude, z)
	sanitise(e.attitude)
}

// updateOrientation corrects the orientation filter from the
// magnetometer projection and gyroscope together.
func (e *Estimator) updateOrientation() {
	p := e.projectMagnetometer(e.mag)
	e.tuneAxisGyroNoise(e.obsMagneto, e.tuning.RProjection)

	z := fixed.NewMatrix(fullObservations, 1)
	z.Set(0, 0, p.X())
	z.Set(1, 0, p.Y())
	z.Set(2, 0, p.Z())
	z.Set(3, 0, e.gyro.X())
	z.Set(4, 0, e.gyro.Y())
	z.Set(5, 0, e.gyro.Z())

	e.obsMagneto.Correct(e.orientation, z)
	sanitise(e.orientation)
}

// tuneAxisGyroNoise rewrites o's R diagonal before a correction: the axis
// block gets axisR*alpha1 (the caller picks RAxis or RProjection
// depending on which observation this is), the gyro block always gets
// RGyro*alpha2.
func (e *Estimator) tuneAxisGyroNoise(o *kalmanfx.Observation, axisBase fixed.Scalar) {
	axis := fixed.Mul(axisBase, e.tuning.Alpha1)
	gyro := fixed.Mul(e.tuning.RGyro, e.tuning.Alpha2)
	o.SetRDiag(axis, axis, axis, gyro, gyro, gyro)
}
