// Package sensors defines the driver boundary the fusion estimator
// consumes Q16.16 samples through, so it never talks to a bus directly. A
// reference MPU6050-backed implementation is provided for the
// accelerometer/gyroscope pair.
package sensors

import "github.com/itohio/fusion-core/x/fixed"

// Accelerometer reads a Q16.16 acceleration sample in units of standard
// gravity (1g ~= fixed.One on each axis when level and at rest).
type Accelerometer interface {
	ReadAccelerometer() (fixed.Vector3, error)
}

// Gyroscope reads a Q16.16 angular velocity sample in radians/second.
type Gyroscope interface {
	ReadGyroscope() (fixed.Vector3, error)
}

// Magnetometer reads a Q16.16 magnetic field sample. Units are arbitrary:
// the fusion estimator only ever uses the sample's direction, never its
// magnitude.
type Magnetometer interface {
	ReadMagnetometer() (fixed.Vector3, error)
}

// IMU groups all three readings, which is what a typical 9-DoF breakout
// board (accelerometer+gyroscope+magnetometer on one bus) exposes.
type IMU interface {
	Accelerometer
	Gyroscope
	Magnetometer
}
