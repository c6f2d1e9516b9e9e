// Package calibrate derives a catalog scale factor from landmark pairs
// measured on a model and on the physical specimen.
package calibrate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

var (
	// ErrNoMeasurements is returned when no landmark pairs are given.
	ErrNoMeasurements = errors.New("no measurements")
	// ErrZeroDistance is returned when a landmark pair coincides on the model.
	ErrZeroDistance = errors.New("landmarks coincide on model")
)

// Measurement is one landmark pair in model units together with the
// distance between the same landmarks on the specimen.
type Measurement struct {
	A, B           math.Vec3
	RealDistanceMM float64
}

// ModelDistance returns the distance between the landmarks in model units.
func (m Measurement) ModelDistance() float64 {
	return float64(m.A.Distance(m.B))
}

// Ratio returns real/model distance for this pair.
func (m Measurement) Ratio() (float64, error) {
	d := m.ModelDistance()
	if d == 0 {
		return 0, ErrZeroDistance
	}
	if m.RealDistanceMM <= 0 {
		return 0, fmt.Errorf("real distance must be positive, got %v", m.RealDistanceMM)
	}
	return m.RealDistanceMM / d, nil
}

// ScaleFactor returns the mean real/model distance ratio over ms.
func ScaleFactor(ms []Measurement) (float64, error) {
	if len(ms) == 0 {
		return 0, ErrNoMeasurements
	}

	var sum float64
	for i, m := range ms {
		r, err := m.Ratio()
		if err != nil {
			return 0, fmt.Errorf("measurement %d: %w", i+1, err)
		}
		sum += r
	}
	return sum / float64(len(ms)), nil
}

// ParseMeasurement reads "x1,y1,z1,x2,y2,z2" model coordinates and a real
// distance in millimetres.
func ParseMeasurement(points string, realMM float64) (Measurement, error) {
	fields := strings.Split(points, ",")
	if len(fields) != 6 {
		return Measurement{}, fmt.Errorf("expected 6 coordinates, got %d in %q", len(fields), points)
	}

	var v [6]float32
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 32)
		if err != nil {
			return Measurement{}, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		v[i] = float32(n)
	}

	return Measurement{
		A:              math.Vec3{X: v[0], Y: v[1], Z: v[2]},
		B:              math.Vec3{X: v[3], Y: v[4], Z: v[5]},
		RealDistanceMM: realMM,
	}, nil
}
