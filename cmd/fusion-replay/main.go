// Command fusion-replay replays a CSV-logged sensor session through the
// fusion estimator and prints the resulting attitude at every row. The CSV
// format is semicolon-delimited:
// time;ax;ay;az;gx;gy;gz;mx;my;mz
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chewxy/math32"

	"github.com/itohio/fusion-core/pkg/logger"
	"github.com/itohio/fusion-core/x/config"
	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/fusion"
)

type row struct {
	t                float32
	ax, ay, az       float32
	gx, gy, gz       float32
	mx, my, mz       float32
}

func readCSV(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []row
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) != 10 {
			continue
		}
		var r row
		vals := make([]float32, 10)
		for i, s := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
			if err != nil {
				return nil, fmt.Errorf("fusion-replay: parsing field %d of %q: %w", i, line, err)
			}
			vals[i] = float32(v)
		}
		r.t, r.ax, r.ay, r.az = vals[0], vals[1], vals[2], vals[3]
		r.gx, r.gy, r.gz = vals[4], vals[5], vals[6]
		r.mx, r.my, r.mz = vals[7], vals[8], vals[9]
		rows = append(rows, r)
	}
	return rows, scanner.Err()
}

func main() {
	csvPath := flag.String("csv", "", "path to a sensor-log CSV file")
	tuningPath := flag.String("tuning", "", "optional path to a tuning YAML override")
	flag.Parse()

	if *csvPath == "" {
		logger.Log.Fatal().Msg("fusion-replay: -csv is required")
	}

	rows, err := readCSV(*csvPath)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("fusion-replay: reading CSV")
	}

	var opts []fusion.Option
	if *tuningPath != "" {
		doc, err := config.Load(*tuningPath)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("fusion-replay: loading tuning")
		}
		opts = append(opts, fusion.WithTuning(doc.Tuning()), fusion.WithPolicy(doc.Policy()))
	}

	est := fusion.New(opts...)

	var lastT float32
	for i, r := range rows {
		dt := r.t - lastT
		lastT = r.t
		if i == 0 {
			dt = 0
		}

		est.SetAccelerometer(toVec(r.ax, r.ay, r.az))
		est.SetGyroscope(toVec(r.gx, r.gy, r.gz))
		est.SetMagnetometer(toVec(r.mx, r.my, r.mz))

		dtFixed := fixed.FromFloat32(dt)
		est.Predict(dtFixed)
		est.Update(dtFixed)

		roll, pitch, yaw := est.FetchAngles()
		fmt.Printf("%.3f roll=%.4f pitch=%.4f yaw=%.4f\n",
			r.t,
			float64(toDeg(roll)), float64(toDeg(pitch)), float64(toDeg(yaw)))
	}

	if flags := est.Flags(); flags != 0 {
		logger.Log.Warn().Uint8("flags", uint8(flags)).Msg("fusion-replay: sticky arithmetic flags set during replay")
	}
}

func toVec(x, y, z float32) fixed.Vector3 {
	return fixed.NewVector3(fixed.FromFloat32(x), fixed.FromFloat32(y), fixed.FromFloat32(z))
}

func toDeg(rad fixed.Scalar) float32 {
	return rad.ToFloat32() * (180 / math32.Pi)
}
