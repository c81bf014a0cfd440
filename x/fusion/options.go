package fusion

import "github.com/itohio/fusion-core/x/fixed"

// Policy selects which sensor inputs the estimator is allowed to use on
// its measurement-update path, as a single runtime value so one binary
// can run any of the three modes and a test can exercise all of them
// without a rebuild.
type Policy int

const (
	// PolicyFull runs the normal accelerometer+magnetometer+gyroscope
	// fusion.
	PolicyFull Policy = iota
	// PolicyGyroOnly ignores accelerometer and magnetometer samples even
	// when present, correcting both filters from gyroscope data alone.
	PolicyGyroOnly
	// PolicyAccelOnly ignores magnetometer samples; the orientation
	// filter runs gyro-only while the attitude filter still fuses the
	// accelerometer normally.
	PolicyAccelOnly
)

// Tuning holds the noise and threshold constants the estimator uses,
// broken out so they can be overridden without touching estimator
// internals (loaded from YAML by the config package).
type Tuning struct {
	RAxis       fixed.Scalar
	RProjection fixed.Scalar
	RGyro       fixed.Scalar
	QAxis       fixed.Scalar
	QGyro       fixed.Scalar
	Alpha1      fixed.Scalar
	Alpha2      fixed.Scalar

	AttitudeThreshold        fixed.Scalar
	SingularityCosThreshold  fixed.Scalar
	RejectMagSingularity     bool
}

// DefaultTuning returns conservative noise/threshold constants, expressed
// directly as Q16.16 integers (value*65536, rounded) rather than produced
// by a floating-point conversion at runtime.
func DefaultTuning() Tuning {
	return Tuning{
		RAxis:                   3277,   // 0.05
		RProjection:             1311,   // 0.02
		RGyro:                   1311,   // 0.02
		QAxis:                   0,      // 0
		QGyro:                   fixed.One,
		Alpha1:                  327680, // 5
		Alpha2:                  52429,  // 0.8
		AttitudeThreshold:       9175,   // 0.14
		SingularityCosThreshold: 11380,  // 0.17365
		RejectMagSingularity:    false,
	}
}

// Option configures an Estimator at construction time, the usual
// functional-options idiom.
type Option func(cfg *Estimator)

func defaultOptions() Estimator {
	return Estimator{
		policy: PolicyFull,
		tuning: DefaultTuning(),
	}
}

func applyOptions(e *Estimator, opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
}

// WithPolicy overrides which sensor inputs the estimator uses.
func WithPolicy(p Policy) Option {
	return func(e *Estimator) { e.policy = p }
}

// WithTuning overrides the full set of noise/threshold constants.
func WithTuning(t Tuning) Option {
	return func(e *Estimator) { e.tuning = t }
}

// WithMagnetometerSingularityRejection toggles the TRIAD-projection
// singularity fallback. It defaults to off: the fallback has no test
// coverage for mid-flight gimbal behavior, so it must be opted into
// explicitly rather than silently enabled.
func WithMagnetometerSingularityRejection(enabled bool) Option {
	return func(e *Estimator) { e.tuning.RejectMagSingularity = enabled }
}
