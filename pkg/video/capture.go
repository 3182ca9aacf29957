package video

import (
	"fmt"

	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"gocv.io/x/gocv"
)

//capture reads frames from a video file through OpenCV. The returned Mat is
//reused between calls to Next and is only valid until the next call.
type capture struct {
	path   string
	cap    *gocv.VideoCapture
	frame  gocv.Mat
	closed bool
}

//OpenCapture opens the video file at path as a frame source
func OpenCapture(path string) (posture.FrameSource[*gocv.Mat], error) {
	cap, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("OpenCapture: Could not open '%s', got '%v'", path, err)
	}

	if !cap.IsOpened() {
		cap.Close()
		return nil, fmt.Errorf("OpenCapture: No decoder for '%s'", path)
	}

	return &capture{path: path, cap: cap, frame: gocv.NewMat()}, nil
}

func (c *capture) Next() (*gocv.Mat, bool, error) {
	if c.closed {
		return nil, false, fmt.Errorf("Next: capture of '%s' already closed", c.path)
	}

	if !c.cap.Read(&c.frame) || c.frame.Empty() { //end of stream
		return nil, false, nil
	}

	return &c.frame, true, nil
}

func (c *capture) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	c.frame.Close()
	return c.cap.Close()
}
