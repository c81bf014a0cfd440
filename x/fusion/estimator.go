// Package fusion implements the coupled attitude/orientation Kalman
// estimator: two 6-state filters (one tracking the "down" axis plus
// angular velocity, one tracking the "east" axis plus angular velocity)
// fed by accelerometer, gyroscope and magnetometer samples, all in Q16.16
// fixed point.
//
// Every filter, observation model and latched sample lives as a field on
// a single owning Estimator rather than as package-level state, so a
// process can run more than one independent estimator at a time.
package fusion

import (
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/kalmanfx"
)

const (
	attitudeStates    = 6
	orientationStates = 6
	gyroObservations  = 3
	fullObservations  = 6
)

// Estimator owns both coupled filters, their observation models, the
// latched sensor samples and the bootstrap state. It is not safe for
// concurrent use; callers that need to share one across goroutines must
// serialize access themselves.
type Estimator struct {
	policy Policy
	tuning Tuning

	attitude    *kalmanfx.Filter
	orientation *kalmanfx.Filter

	obsAccel   *kalmanfx.Observation
	obsMagneto *kalmanfx.Observation
	obsGyro    *kalmanfx.Observation // shared by both filters, m=3

	accel fixed.Vector3
	gyro  fixed.Vector3
	mag   fixed.Vector3

	haveAccel bool
	haveGyro  bool
	haveMag   bool

	attitudeBootstrapped    bool
	orientationBootstrapped bool
}

// New builds a fully initialized Estimator: both filters seeded with the
// canonical default orientation (level, stationary, heading north — down
// = -Z, east = +Y in the axis convention FetchAngles/FetchQuaternion
// expect; see the down method's doc comment) and both observation models
// seeded with the default tuning constants.
func New(opts ...Option) *Estimator {
	e := defaultOptions()
	applyOptions(&e, opts...)

	e.attitude = newFilter(attitudeStates, e.tuning)
	e.orientation = newFilter(orientationStates, e.tuning)

	e.attitude.SetStateAt(0, 0)
	e.attitude.SetStateAt(1, 0)
	e.attitude.SetStateAt(2, -fixed.One) // down = -Z

	e.orientation.SetStateAt(0, 0)
	e.orientation.SetStateAt(1, fixed.One) // east = +Y
	e.orientation.SetStateAt(2, 0)

	e.obsGyro = newGyroObservation(e.tuning)
	e.obsAccel = newFullObservation(e.tuning)
	e.obsMagneto = newFullObservation(e.tuning)

	return &e
}

func newFilter(n int, t Tuning) *kalmanfx.Filter {
	A := fixed.Identity(n)
	P := fixed.Diag(5*fixed.One, 5*fixed.One, 5*fixed.One, fixed.One, fixed.One, fixed.One)
	Q := fixed.Diag(t.QAxis, t.QAxis, t.QAxis, t.QGyro, t.QGyro, t.QGyro)
	f := kalmanfx.New(n, A, P, Q)
	updateStateMatrixFromState(f, fixed.One) // initial dT
	return f
}

func newFullObservation(t Tuning) *kalmanfx.Observation {
	H := fixed.Identity(fullObservations)
	R := fixed.Diag(t.RAxis, t.RAxis, t.RAxis, t.RGyro, t.RGyro, t.RGyro)
	return kalmanfx.NewObservation(attitudeStates, fullObservations, H, R)
}

func newGyroObservation(t Tuning) *kalmanfx.Observation {
	H := fixed.NewMatrix(gyroObservations, attitudeStates)
	H.Set(0, 3, fixed.One)
	H.Set(1, 4, fixed.One)
	H.Set(2, 5, fixed.One)
	R := fixed.Diag(t.RGyro, t.RGyro, t.RGyro)
	return kalmanfx.NewObservation(attitudeStates, gyroObservations, H, R)
}

// SetAccelerometer latches a new accelerometer sample for the next Update.
func (e *Estimator) SetAccelerometer(v fixed.Vector3) {
	e.accel = v
	e.haveAccel = true
}

// SetGyroscope latches a new gyroscope sample. The have-flag it sets is
// retained (never cleared by Update) rather than consumed by the
// branching logic: it lets a caller query whether any gyroscope sample has
// been latched, and does not gate fusion behavior.
func (e *Estimator) SetGyroscope(v fixed.Vector3) {
	e.gyro = v
	e.haveGyro = true
}

// SetMagnetometer latches a new magnetometer sample for the next Update.
func (e *Estimator) SetMagnetometer(v fixed.Vector3) {
	e.mag = v
	e.haveMag = true
}

// HaveGyroscope reports whether a gyroscope sample has ever been latched.
func (e *Estimator) HaveGyroscope() bool { return e.haveGyro }

// Flags reports the sticky fixed-point error flags accumulated across both
// filters and all three observation models.
func (e *Estimator) Flags() fixed.Flags {
	return e.attitude.Flags() | e.orientation.Flags() |
		e.obsAccel.Flags() | e.obsMagneto.Flags() | e.obsGyro.Flags()
}
