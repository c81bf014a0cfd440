package telemetry

import (
	"github.com/mr-tron/base58"
	"go.bug.st/serial"

	"github.com/itohio/fusion-core/pkg/logger"
)

// OpenSerialPort opens portName at baud and returns an io.Writer suitable
// for NewEncoder, for streaming frames off-device over a UART link
// independent of the estimation core itself.
func OpenSerialPort(portName string, baud int) (serial.Port, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, err
	}
	logger.Log.Info().Str("port", portName).Int("baud", baud).Msg("telemetry: serial port opened")
	return port, nil
}

// ShortTag returns a short, human-readable base58 tag for a session ID,
// used in log lines instead of the full UUID.
func ShortTag(session Session) string {
	return base58.Encode(session.ID[:6])
}
