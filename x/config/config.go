// Package config loads the fusion estimator's tuning constants from YAML,
// so the default noise/threshold values can be overridden per-deployment
// without a rebuild.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/itohio/fusion-core/x/fixed"
	"github.com/itohio/fusion-core/x/fusion"
)

// Document is the on-disk shape of a tuning override file. Fields left at
// their zero value are NOT treated as "use the default" — a caller that
// wants partial overrides should start from fusion.DefaultTuning(),
// marshal it, edit the fields it cares about, and load that.
type Document struct {
	RAxis                   float64 `yaml:"r_axis"`
	RProjection             float64 `yaml:"r_projection"`
	RGyro                   float64 `yaml:"r_gyro"`
	QAxis                   float64 `yaml:"q_axis"`
	QGyro                   float64 `yaml:"q_gyro"`
	Alpha1                  float64 `yaml:"alpha1"`
	Alpha2                  float64 `yaml:"alpha2"`
	AttitudeThreshold       float64 `yaml:"attitude_threshold"`
	SingularityCosThreshold float64 `yaml:"singularity_cos_threshold"`
	RejectMagSingularity    bool    `yaml:"reject_mag_singularity"`
	PolicyName              string  `yaml:"policy"`
}

// FromTuning converts a fusion.Tuning into its YAML document form, for
// writing out a starting point a deployment can edit.
func FromTuning(t fusion.Tuning) Document {
	return Document{
		RAxis:                   float64(t.RAxis.ToFloat32()),
		RProjection:             float64(t.RProjection.ToFloat32()),
		RGyro:                   float64(t.RGyro.ToFloat32()),
		QAxis:                   float64(t.QAxis.ToFloat32()),
		QGyro:                   float64(t.QGyro.ToFloat32()),
		Alpha1:                  float64(t.Alpha1.ToFloat32()),
		Alpha2:                  float64(t.Alpha2.ToFloat32()),
		AttitudeThreshold:       float64(t.AttitudeThreshold.ToFloat32()),
		SingularityCosThreshold: float64(t.SingularityCosThreshold.ToFloat32()),
		RejectMagSingularity:    t.RejectMagSingularity,
	}
}

// Tuning converts a Document into a fusion.Tuning, quantizing every field
// to Q16.16 at this single I/O boundary.
func (d Document) Tuning() fusion.Tuning {
	return fusion.Tuning{
		RAxis:                   fixed.FromFloat32(float32(d.RAxis)),
		RProjection:             fixed.FromFloat32(float32(d.RProjection)),
		RGyro:                   fixed.FromFloat32(float32(d.RGyro)),
		QAxis:                   fixed.FromFloat32(float32(d.QAxis)),
		QGyro:                   fixed.FromFloat32(float32(d.QGyro)),
		Alpha1:                  fixed.FromFloat32(float32(d.Alpha1)),
		Alpha2:                  fixed.FromFloat32(float32(d.Alpha2)),
		AttitudeThreshold:       fixed.FromFloat32(float32(d.AttitudeThreshold)),
		SingularityCosThreshold: fixed.FromFloat32(float32(d.SingularityCosThreshold)),
		RejectMagSingularity:    d.RejectMagSingularity,
	}
}

// Policy parses the document's policy string, defaulting to
// fusion.PolicyFull for an empty or unrecognized value.
func (d Document) Policy() fusion.Policy {
	switch d.PolicyName {
	case "gyro_only":
		return fusion.PolicyGyroOnly
	case "accel_only":
		return fusion.PolicyAccelOnly
	default:
		return fusion.PolicyFull
	}
}

// Load reads and parses a tuning document from path.
func Load(path string) (Document, error) {
	var doc Document
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, err
	}
	return doc, nil
}

// Save writes doc to path as YAML.
func Save(path string, doc Document) error {
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
