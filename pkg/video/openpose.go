package video

import (
	"errors"
	"fmt"
	"image"

	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"github.com/golang/geo/r2"
	"gocv.io/x/gocv"
)

//cocoParts is the keypoint order of the COCO-trained OpenPose graph (heatmap index -> joint)
var cocoParts = []posture.Landmark{
	posture.Nose,
	posture.Neck,
	posture.RightShoulder,
	posture.RightElbow,
	posture.RightWrist,
	posture.LeftShoulder,
	posture.LeftElbow,
	posture.LeftWrist,
	posture.RightHip,
	posture.RightKnee,
	posture.RightAnkle,
	posture.LeftHip,
	posture.LeftKnee,
	posture.LeftAnkle,
	posture.RightEye,
	posture.LeftEye,
	posture.RightEar,
	posture.LeftEar,
}

//torso joints, at least one must be found for the frame to count as a detected person
var torsoParts = []posture.Landmark{
	posture.Neck,
	posture.LeftShoulder,
	posture.RightShoulder,
	posture.LeftHip,
	posture.RightHip,
}

//OpenPoseConfig describes the network input and the heatmap acceptance threshold
type OpenPoseConfig struct {
	ModelPath     string
	InputWidth    int
	InputHeight   int
	MinConfidence float32
}

//OpenPoseEstimator finds body joints with an OpenPose Tensorflow graph.
//It holds the loaded network and must not be used by two goroutines at once.
type OpenPoseEstimator struct {
	net gocv.Net
	cfg OpenPoseConfig
}

//NewOpenPoseEstimator loads the network from cfg.ModelPath
func NewOpenPoseEstimator(cfg OpenPoseConfig) (*OpenPoseEstimator, error) {
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		return nil, fmt.Errorf("NewOpenPoseEstimator: Invalid input size %dx%d", cfg.InputWidth, cfg.InputHeight)
	}

	net := gocv.ReadNetFromTensorflow(cfg.ModelPath)
	if net.Empty() {
		return nil, errors.New("NewOpenPoseEstimator: Could not load model '" + cfg.ModelPath + "'")
	}

	return &OpenPoseEstimator{net: net, cfg: cfg}, nil
}

//Detect returns the joints found in frame with normalized coordinates, or nil if no person was found
func (e *OpenPoseEstimator) Detect(frame *gocv.Mat) posture.LandmarkSet {
	if frame == nil || frame.Empty() {
		return nil
	}

	blob := gocv.BlobFromImage(*frame, 1.0, image.Pt(e.cfg.InputWidth, e.cfg.InputHeight), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	e.net.SetInput(blob, "")
	prob := e.net.Forward("")
	defer prob.Close()

	s := prob.Size()
	if len(s) != 4 || s[1] < len(cocoParts) {
		return nil
	}
	h, w := s[2], s[3]

	landmarks := make(posture.LandmarkSet)
	for i, part := range cocoParts {
		heatmap, err := prob.FromPtr(h, w, gocv.MatTypeCV32F, 0, i)
		if err != nil {
			continue
		}

		_, conf, _, pt := gocv.MinMaxLoc(heatmap)
		heatmap.Close()

		if conf > e.cfg.MinConfidence {
			landmarks[part] = normalize(pt, w, h)
		}
	}

	for _, part := range torsoParts {
		if _, ok := landmarks[part]; ok {
			return landmarks
		}
	}

	return nil
}

//Close releases the network
func (e *OpenPoseEstimator) Close() error {
	return e.net.Close()
}

//normalize maps a heatmap cell to [0,1] image coordinates
func normalize(pt image.Point, w, h int) r2.Point {
	return r2.Point{
		X: (float64(pt.X) + 0.5) / float64(w),
		Y: (float64(pt.Y) + 0.5) / float64(h),
	}
}
