package posture

import "github.com/golang/geo/r2"

//Classifier judges single frames for one posture type
type Classifier struct {
	posture    PostureType
	thresholds Thresholds
}

//NewClassifier returns a Classifier applying thresholds to frames of posture pt
func NewClassifier(pt PostureType, thresholds Thresholds) Classifier {
	return Classifier{posture: pt, thresholds: thresholds}
}

//PostureType returns the posture this classifier judges
func (c Classifier) PostureType() PostureType {
	return c.posture
}

//ClassifyFrame classifies the frame with the given 1-based index.
//It returns false when the frame has to be skipped: no person was detected
//or one of the joints the posture needs is missing.
func (c Classifier) ClassifyFrame(index int, lm LandmarkSet) (FrameVerdict, bool) {
	if lm == nil {
		return FrameVerdict{}, false
	}

	features, ok := c.features(lm)
	if !ok {
		return FrameVerdict{}, false
	}

	verdict := FrameVerdict{
		Frame:     index,
		IsBad:     c.thresholds.Classify(c.posture, features),
		BackAngle: round2(features.BackAngle),
	}

	switch c.posture {
	case Squat:
		diff := round2(features.KneeToeDiff)
		verdict.KneeToeDiff = &diff
	case Sitting:
		neck := round2(features.NeckAngle)
		verdict.NeckAngle = &neck
	}

	return verdict, true
}

func (c Classifier) features(lm LandmarkSet) (FeatureBundle, bool) {
	shoulder, ok := lm[LeftShoulder]
	if !ok {
		return FeatureBundle{}, false
	}
	hip, ok := lm[LeftHip]
	if !ok {
		return FeatureBundle{}, false
	}

	switch c.posture {
	case Squat:
		knee, ok := lm[LeftKnee]
		if !ok {
			return FeatureBundle{}, false
		}
		toe, ok := firstOf(lm, LeftToe, LeftAnkle)
		if !ok {
			return FeatureBundle{}, false
		}

		return FeatureBundle{
			BackAngle:   Angle(shoulder, hip, knee),
			KneeToeDiff: Offset(knee, toe),
		}, true

	case Sitting:
		knee, ok := lm[LeftKnee]
		if !ok {
			return FeatureBundle{}, false
		}
		head, ok := firstOf(lm, LeftEar, Nose)
		if !ok {
			return FeatureBundle{}, false
		}

		return FeatureBundle{
			BackAngle: Angle(shoulder, hip, knee),
			NeckAngle: Angle(head, shoulder, hip),
		}, true
	}

	return FeatureBundle{}, false
}

//firstOf returns the first of the given joints present in lm
func firstOf(lm LandmarkSet, joints ...Landmark) (r2.Point, bool) {
	for _, j := range joints {
		if p, ok := lm[j]; ok {
			return p, true
		}
	}

	return r2.Point{}, false
}
