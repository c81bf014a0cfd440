// Package telemetry streams fused orientation estimates off-device over a
// length-prefixed framed byte protocol carried over an io.Writer/io.Reader
// pair, independent of the estimation core itself.
package telemetry

import (
	"encoding/binary"
	"io"

	"github.com/google/uuid"

	"github.com/itohio/fusion-core/x/fixed"
)

// FrameKind distinguishes payload shapes on the wire.
type FrameKind uint8

const (
	// FrameAngles carries roll, pitch, yaw as three Q16.16 int32s.
	FrameAngles FrameKind = iota + 1
	// FrameQuaternion carries w, x, y, z as four Q16.16 int32s.
	FrameQuaternion
)

const magic uint16 = 0xF5A5

// Session stamps every frame an Encoder writes with a shared run
// identifier, so a downstream log aggregator can tell two replay runs
// apart even if their timestamps overlap.
type Session struct {
	ID uuid.UUID
}

// NewSession creates a session tagged with id (typically uuid.New(),
// generated by the caller since this package never calls time/rand
// itself).
func NewSession(id uuid.UUID) Session { return Session{ID: id} }

// Encoder writes framed telemetry frames to an underlying io.Writer (a
// serial port, a file, a network socket).
type Encoder struct {
	w       io.Writer
	session Session
	seq     uint32
}

// NewEncoder builds an Encoder over w, stamping every frame with session.
func NewEncoder(w io.Writer, session Session) *Encoder {
	return &Encoder{w: w, session: session}
}

// frame layout: magic(2) kind(1) seq(4) sessionID(16) len(2) payload(len)
func (e *Encoder) write(kind FrameKind, payload []byte) error {
	header := make([]byte, 2+1+4+16+2)
	binary.BigEndian.PutUint16(header[0:2], magic)
	header[2] = byte(kind)
	binary.BigEndian.PutUint32(header[3:7], e.seq)
	copy(header[7:23], e.session.ID[:])
	binary.BigEndian.PutUint16(header[23:25], uint16(len(payload)))
	e.seq++

	if _, err := e.w.Write(header); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := e.w.Write(payload)
	return err
}

// WriteAngles encodes and writes a FrameAngles frame.
func (e *Encoder) WriteAngles(roll, pitch, yaw fixed.Scalar) error {
	payload := make([]byte, 12)
	binary.BigEndian.PutUint32(payload[0:4], uint32(roll))
	binary.BigEndian.PutUint32(payload[4:8], uint32(pitch))
	binary.BigEndian.PutUint32(payload[8:12], uint32(yaw))
	return e.write(FrameAngles, payload)
}

// WriteQuaternion encodes and writes a FrameQuaternion frame.
func (e *Encoder) WriteQuaternion(q [4]fixed.Scalar) error {
	payload := make([]byte, 16)
	for i, v := range q {
		binary.BigEndian.PutUint32(payload[i*4:i*4+4], uint32(v))
	}
	return e.write(FrameQuaternion, payload)
}
