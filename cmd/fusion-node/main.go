// Command fusion-node is the run-loop shape for a real deployment: open an
// I2C-connected MPU6050, feed it through the fusion estimator at a fixed
// rate, and stream the result out over a framed telemetry encoder. No
// magnetometer driver is wired up, so it runs the estimator under
// PolicyAccelOnly. This command exists to show how sensors, fusion and
// telemetry compose into an owning run loop, not as a hardware bring-up
// guide.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/itohio/fusion-core/pkg/logger"
	"github.com/itohio/fusion-core/x/config"
	"github.com/itohio/fusion-core/x/devices"
	"github.com/itohio/fusion-core/x/devices/mpu6050"
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/fusion"
	"github.com/itohio/fusion-core/x/sensors"
	"github.com/itohio/fusion-core/x/telemetry"
)

func main() {
	i2cDevice := flag.String("i2c", "/dev/i2c-1", "I2C device path for the MPU6050")
	i2cAddr := flag.Uint("addr", mpu6050.DefaultAddress, "MPU6050 I2C address")
	tuningPath := flag.String("tuning", "", "optional path to a tuning YAML override")
	rate := flag.Duration("rate", 10*time.Millisecond, "sensor poll / predict-update period")
	flag.Parse()

	bus, err := devices.NewI2C(*i2cDevice)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("fusion-node: opening I2C bus")
	}

	dev := mpu6050.New(bus, uint8(*i2cAddr))
	if err := dev.Configure(); err != nil {
		logger.Log.Fatal().Err(err).Msg("fusion-node: configuring MPU6050")
	}

	imu := sensors.NewMPU6050Sensor(dev)

	opts := []fusion.Option{fusion.WithPolicy(fusion.PolicyAccelOnly)}
	if *tuningPath != "" {
		doc, err := config.Load(*tuningPath)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("fusion-node: loading tuning")
		}
		opts = append(opts, fusion.WithTuning(doc.Tuning()))
	}
	est := fusion.New(opts...)

	session := telemetry.NewSession(uuid.New())
	enc := telemetry.NewEncoder(io.Writer(os.Stdout), session)
	logger.Log.Info().Str("session", telemetry.ShortTag(session)).Msg("fusion-node: starting")

	dt := fixed.FromFloat32(float32(rate.Seconds()))
	ticker := time.NewTicker(*rate)
	defer ticker.Stop()

	for range ticker.C {
		a, err := imu.ReadAccelerometer()
		if err != nil {
			logger.Log.Error().Err(err).Msg("fusion-node: reading accelerometer")
			continue
		}
		g, err := imu.ReadGyroscope()
		if err != nil {
			logger.Log.Error().Err(err).Msg("fusion-node: reading gyroscope")
			continue
		}

		est.SetAccelerometer(a)
		est.SetGyroscope(g)
		est.Predict(dt)
		est.Update(dt)

		roll, pitch, yaw := est.FetchAngles()
		if err := enc.WriteAngles(roll, pitch, yaw); err != nil {
			logger.Log.Error().Err(err).Msg("fusion-node: writing telemetry frame")
		}
	}
}
