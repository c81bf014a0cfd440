package telemetry

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/itohio/fusion-core/x/fixed"
)

// ErrBadMagic is returned when a frame's magic bytes don't match, meaning
// the stream is desynchronized or not a telemetry stream at all.
var ErrBadMagic = errors.New("telemetry: bad frame magic")

// Frame is a decoded telemetry frame.
type Frame struct {
	Kind      FrameKind
	Seq       uint32
	SessionID uuid.UUID
	Payload   []byte
}

// Decoder reads framed telemetry frames from an underlying io.Reader, the
// counterpart to Encoder, used by tests to round-trip what Encoder writes.
type Decoder struct {
	r io.Reader
}

// NewDecoder builds a Decoder over r.
func NewDecoder(r io.Reader) *Decoder { return &Decoder{r: r} }

// ReadFrame reads and parses the next frame, or returns io.EOF once the
// underlying reader is exhausted between frames.
func (d *Decoder) ReadFrame() (Frame, error) {
	header := make([]byte, 2+1+4+16+2)
	if _, err := io.ReadFull(d.r, header); err != nil {
		return Frame{}, err
	}
	if binary.BigEndian.Uint16(header[0:2]) != magic {
		return Frame{}, ErrBadMagic
	}

	var f Frame
	f.Kind = FrameKind(header[2])
	f.Seq = binary.BigEndian.Uint32(header[3:7])
	copy(f.SessionID[:], header[7:23])

	n := binary.BigEndian.Uint16(header[23:25])
	if n > 0 {
		f.Payload = make([]byte, n)
		if _, err := io.ReadFull(d.r, f.Payload); err != nil {
			return Frame{}, err
		}
	}
	return f, nil
}

// DecodeAngles interprets f.Payload as a FrameAngles body.
func DecodeAngles(f Frame) (roll, pitch, yaw fixed.Scalar, err error) {
	if f.Kind != FrameAngles || len(f.Payload) != 12 {
		return 0, 0, 0, errors.New("telemetry: not an angles frame")
	}
	roll = fixed.Scalar(binary.BigEndian.Uint32(f.Payload[0:4]))
	pitch = fixed.Scalar(binary.BigEndian.Uint32(f.Payload[4:8]))
	yaw = fixed.Scalar(binary.BigEndian.Uint32(f.Payload[8:12]))
	return roll, pitch, yaw, nil
}

// DecodeQuaternion interprets f.Payload as a FrameQuaternion body.
func DecodeQuaternion(f Frame) (q [4]fixed.Scalar, err error) {
	if f.Kind != FrameQuaternion || len(f.Payload) != 16 {
		return q, errors.New("telemetry: not a quaternion frame")
	}
	for i := range q {
		q[i] = fixed.Scalar(binary.BigEndian.Uint32(f.Payload[i*4 : i*4+4]))
	}
	return q, nil
}
