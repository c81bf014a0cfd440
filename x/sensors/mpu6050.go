package sensors

import (
	"github.com/itohio/fusion-core/x/devices/mpu6050"
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/options"
)

// MPU6050Options configures the raw-to-Q16.16 scale factors for an
// MPU6050Sensor, which depend on the full-scale range the device was
// configured with (Device.Configure hardcodes +/-2g and +/-250 deg/s, the
// defaults below).
type MPU6050Options struct {
	// AccelScale converts a raw int16 reading to Q16.16 g, one multiply.
	AccelScale fixed.Scalar
	// GyroScale converts a raw int16 reading to Q16.16 rad/s, one multiply.
	GyroScale fixed.Scalar
}

func defaultMPU6050Options() MPU6050Options {
	return MPU6050Options{
		AccelScale: 4, // +/-2g over int16: (2g/32768)*65536 = 4
		GyroScale:  9, // +/-250 deg/s over int16, in rad/s: ~8.73, rounded
	}
}

// WithAccelScale overrides the accelerometer raw-to-Q16.16 scale factor,
// for boards configured with a wider full-scale range than +/-2g.
func WithAccelScale(s fixed.Scalar) options.Option {
	return func(cfg interface{}) { cfg.(*MPU6050Options).AccelScale = s }
}

// WithGyroScale overrides the gyroscope raw-to-Q16.16 scale factor.
func WithGyroScale(s fixed.Scalar) options.Option {
	return func(cfg interface{}) { cfg.(*MPU6050Options).GyroScale = s }
}

// MPU6050Sensor adapts an x/devices/mpu6050.Device to the Accelerometer
// and Gyroscope interfaces, converting its raw int16 register reads into
// Q16.16 scalars at the boundary.
type MPU6050Sensor struct {
	dev  *mpu6050.Device
	opts MPU6050Options
}

// NewMPU6050Sensor wraps dev (already Configure()d by the caller).
func NewMPU6050Sensor(dev *mpu6050.Device, opts ...options.Option) *MPU6050Sensor {
	cfg := defaultMPU6050Options()
	options.ApplyOptions(&cfg, opts...)
	return &MPU6050Sensor{dev: dev, opts: cfg}
}

// ReadAccelerometer implements Accelerometer.
func (s *MPU6050Sensor) ReadAccelerometer() (fixed.Vector3, error) {
	d, err := s.dev.ReadAccelerometer()
	if err != nil {
		return fixed.Vector3{}, err
	}
	return fixed.NewVector3(
		fixed.Scalar(int32(d.X))*s.opts.AccelScale,
		fixed.Scalar(int32(d.Y))*s.opts.AccelScale,
		fixed.Scalar(int32(d.Z))*s.opts.AccelScale,
	), nil
}

// ReadGyroscope implements Gyroscope.
func (s *MPU6050Sensor) ReadGyroscope() (fixed.Vector3, error) {
	d, err := s.dev.ReadGyroscope()
	if err != nil {
		return fixed.Vector3{}, err
	}
	return fixed.NewVector3(
		fixed.Scalar(int32(d.X))*s.opts.GyroScale,
		fixed.Scalar(int32(d.Y))*s.opts.GyroScale,
		fixed.Scalar(int32(d.Z))*s.opts.GyroScale,
	), nil
}
