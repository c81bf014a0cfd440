package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/telemetry"
)

func TestEncodeDecodeAnglesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	session := telemetry.NewSession(uuid.New())
	enc := telemetry.NewEncoder(&buf, session)

	roll := fixed.FromFloat32(0.5236)
	pitch := fixed.FromFloat32(-0.1)
	yaw := fixed.FromFloat32(1.5708)
	require.NoError(t, enc.WriteAngles(roll, pitch, yaw))

	dec := telemetry.NewDecoder(&buf)
	frame, err := dec.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, telemetry.FrameAngles, frame.Kind)
	require.Equal(t, session.ID, frame.SessionID)

	gotRoll, gotPitch, gotYaw, err := telemetry.DecodeAngles(frame)
	require.NoError(t, err)
	require.Equal(t, roll, gotRoll)
	require.Equal(t, pitch, gotPitch)
	require.Equal(t, yaw, gotYaw)
}

func TestEncodeDecodeQuaternionRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	session := telemetry.NewSession(uuid.New())
	enc := telemetry.NewEncoder(&buf, session)

	q := [4]fixed.Scalar{fixed.One, 0, 0, 0}
	require.NoError(t, enc.WriteQuaternion(q))

	dec := telemetry.NewDecoder(&buf)
	frame, err := dec.ReadFrame()
	require.NoError(t, err)
	require.Equal(t, telemetry.FrameQuaternion, frame.Kind)

	got, err := telemetry.DecodeQuaternion(frame)
	require.NoError(t, err)
	require.Equal(t, q, got)
}

func TestDecoderSequenceNumbersIncrement(t *testing.T) {
	var buf bytes.Buffer
	session := telemetry.NewSession(uuid.New())
	enc := telemetry.NewEncoder(&buf, session)

	for i := 0; i < 3; i++ {
		require.NoError(t, enc.WriteAngles(0, 0, 0))
	}

	dec := telemetry.NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		frame, err := dec.ReadFrame()
		require.NoError(t, err)
		require.Equal(t, uint32(i), frame.Seq)
	}
}

func TestDecoderBadMagic(t *testing.T) {
	buf := bytes.NewBuffer(make([]byte, 25))
	dec := telemetry.NewDecoder(buf)
	_, err := dec.ReadFrame()
	require.ErrorIs(t, err, telemetry.ErrBadMagic)
}
