package posture

import "github.com/golang/geo/r2"

//Landmark names a body joint reported by a pose estimator
type Landmark int

const (
	Nose Landmark = iota
	Neck
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftToe
	RightToe
)

var landmarkNames = map[Landmark]string{
	Nose:          "nose",
	Neck:          "neck",
	LeftEye:       "left_eye",
	RightEye:      "right_eye",
	LeftEar:       "left_ear",
	RightEar:      "right_ear",
	LeftShoulder:  "left_shoulder",
	RightShoulder: "right_shoulder",
	LeftElbow:     "left_elbow",
	RightElbow:    "right_elbow",
	LeftWrist:     "left_wrist",
	RightWrist:    "right_wrist",
	LeftHip:       "left_hip",
	RightHip:      "right_hip",
	LeftKnee:      "left_knee",
	RightKnee:     "right_knee",
	LeftAnkle:     "left_ankle",
	RightAnkle:    "right_ankle",
	LeftHeel:      "left_heel",
	RightHeel:     "right_heel",
	LeftToe:       "left_toe",
	RightToe:      "right_toe",
}

func (l Landmark) String() string {
	if name, ok := landmarkNames[l]; ok {
		return name
	}
	return "unknown"
}

//LandmarkSet maps joints to normalized image coordinates ([0,1], origin top-left).
//A nil set means no person was detected in the frame.
type LandmarkSet map[Landmark]r2.Point

//FeatureBundle holds the geometric features computed for one frame.
//KneeToeDiff is only meaningful for squats and NeckAngle only for sitting.
type FeatureBundle struct {
	BackAngle   float64
	KneeToeDiff float64
	NeckAngle   float64
}

//FrameVerdict is the classification of one frame with a detected person
type FrameVerdict struct {
	Frame       int      `json:"frame"`
	IsBad       bool     `json:"-"`
	BackAngle   float64  `json:"back_angle"`
	KneeToeDiff *float64 `json:"knee_toe_diff,omitempty"`
	NeckAngle   *float64 `json:"neck_angle,omitempty"`
}

//ReportSummary aggregates features over every frame with a detected person
type ReportSummary struct {
	DetectedFrames int     `json:"detected_frames"`
	BadFrames      int     `json:"bad_frames"`
	BadRatio       float64 `json:"bad_ratio"`
	MeanBackAngle  float64 `json:"mean_back_angle"`
	MinBackAngle   float64 `json:"min_back_angle"`
}

//VideoReport is the outcome of classifying a whole video
type VideoReport struct {
	TotalCheckedFrames int            `json:"total_checked_frames"`
	BadPostureFrames   []FrameVerdict `json:"bad_posture_frames"`
	Summary            ReportSummary  `json:"summary"`
}
