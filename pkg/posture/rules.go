package posture

import (
	"fmt"
	"math"
	"strings"
)

//PostureType is the kind of movement the uploaded video shows
type PostureType int

const (
	Squat PostureType = iota + 1
	Sitting
)

func (p PostureType) String() string {
	switch p {
	case Squat:
		return "squat"
	case Sitting:
		return "sitting"
	default:
		return "unknown"
	}
}

//ParsePostureType converts a request value into a PostureType
func ParsePostureType(s string) (PostureType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "squat":
		return Squat, nil
	case "sitting":
		return Sitting, nil
	}

	return 0, &ValidationError{Field: "posture type", Value: s}
}

//Default limits of the rule table
const (
	DefaultSquatBackAngle   = 150.0
	DefaultSquatKneeToeDiff = 0.03
	DefaultSittingBackAngle = 160.0
	DefaultSittingNeckAngle = 150.0
)

//Thresholds is the rule table. A frame is bad when any of its posture's
//angles falls below the limit or, for squats, when the knee travels past
//the toe by more than SquatKneeToeDiff of the frame width.
type Thresholds struct {
	SquatBackAngle   float64
	SquatKneeToeDiff float64
	SittingBackAngle float64
	SittingNeckAngle float64
}

//DefaultThresholds returns the stock rule table
func DefaultThresholds() Thresholds {
	return Thresholds{
		SquatBackAngle:   DefaultSquatBackAngle,
		SquatKneeToeDiff: DefaultSquatKneeToeDiff,
		SittingBackAngle: DefaultSittingBackAngle,
		SittingNeckAngle: DefaultSittingNeckAngle,
	}
}

//Validate checks that every limit can actually be compared against a feature
func (t Thresholds) Validate() error {
	angles := []struct {
		name  string
		value float64
	}{
		{"squat back angle", t.SquatBackAngle},
		{"sitting back angle", t.SittingBackAngle},
		{"sitting neck angle", t.SittingNeckAngle},
	}
	for _, a := range angles {
		if math.IsNaN(a.value) || a.value < 0 || a.value > 180 {
			return fmt.Errorf("Thresholds: %s must be within [0,180], got %v", a.name, a.value)
		}
	}

	if math.IsNaN(t.SquatKneeToeDiff) || math.IsInf(t.SquatKneeToeDiff, 0) {
		return fmt.Errorf("Thresholds: squat knee-toe diff must be finite, got %v", t.SquatKneeToeDiff)
	}

	return nil
}

//Classify reports whether the features describe bad posture for the given type
func (t Thresholds) Classify(pt PostureType, f FeatureBundle) bool {
	switch pt {
	case Squat:
		return f.BackAngle < t.SquatBackAngle || f.KneeToeDiff > t.SquatKneeToeDiff
	case Sitting:
		return f.BackAngle < t.SittingBackAngle || f.NeckAngle < t.SittingNeckAngle
	}

	return false
}
