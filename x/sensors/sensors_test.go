package sensors_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itohio/fusion-core/x/devices/mpu6050"
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/sensors"
)

// fakeI2CBus answers every Tx with a fixed 6-byte big-endian int16 triple,
// regardless of which register was requested, enough to exercise
// MPU6050Sensor's raw-to-Q16.16 conversion without real hardware.
type fakeI2CBus struct {
	x, y, z int16
}

func (f *fakeI2CBus) ReadRegister(addr, r uint8, buf []byte) error  { return nil }
func (f *fakeI2CBus) WriteRegister(addr, r uint8, buf []byte) error { return nil }
func (f *fakeI2CBus) Tx(addr uint16, w, r []byte) error {
	if len(r) >= 6 {
		binary.BigEndian.PutUint16(r[0:2], uint16(f.x))
		binary.BigEndian.PutUint16(r[2:4], uint16(f.y))
		binary.BigEndian.PutUint16(r[4:6], uint16(f.z))
	}
	return nil
}

func TestMPU6050SensorAccelerometerScaling(t *testing.T) {
	bus := &fakeI2CBus{x: 16384, y: 0, z: 0} // half of int16 full scale = 1g at +/-2g range
	dev := mpu6050.New(bus, mpu6050.DefaultAddress)
	s := sensors.NewMPU6050Sensor(dev)

	v, err := s.ReadAccelerometer()
	require.NoError(t, err)
	require.InDelta(t, 1.0, v.X().ToFloat32(), 0.01)
	require.InDelta(t, 0.0, v.Y().ToFloat32(), 0.01)
	require.InDelta(t, 0.0, v.Z().ToFloat32(), 0.01)
}

func TestMPU6050SensorGyroscopeScaling(t *testing.T) {
	bus := &fakeI2CBus{x: 0, y: 1000, z: 0}
	dev := mpu6050.New(bus, mpu6050.DefaultAddress)
	s := sensors.NewMPU6050Sensor(dev)

	v, err := s.ReadGyroscope()
	require.NoError(t, err)
	require.Equal(t, fixed.Scalar(1000)*9, v.Y())
}
