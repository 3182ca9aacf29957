package posture

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

//FrameSource yields decoded frames in order. Next returns false once the
//video is exhausted. Close must be safe to call more than once.
type FrameSource[F any] interface {
	Next() (F, bool, error)
	Close() error
}

//Estimator finds body landmarks in a frame. A nil result means no person was detected.
type Estimator[F any] interface {
	Detect(frame F) LandmarkSet
}

//State is the lifecycle stage of an Aggregator
type State int

const (
	StateInit State = iota
	StateReading
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateReading:
		return "reading"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

//Aggregator classifies one video frame by frame and builds its report.
//An Aggregator is single-use.
type Aggregator[F any] struct {
	classifier Classifier
	estimator  Estimator[F]
	state      State

	frames     int
	bad        []FrameVerdict
	backAngles []float64
}

//NewAggregator returns an Aggregator that runs frames through estimator and classifier
func NewAggregator[F any](classifier Classifier, estimator Estimator[F]) *Aggregator[F] {
	return &Aggregator[F]{classifier: classifier, estimator: estimator, state: StateInit}
}

//State returns the current lifecycle stage
func (a *Aggregator[F]) State() State {
	return a.state
}

//Run opens the video through open, classifies every frame and returns the report.
//The frame source is closed on every return path. Any failure to open or read
//the video is returned as a *DecodeError and no report is produced.
func (a *Aggregator[F]) Run(open func() (FrameSource[F], error)) (*VideoReport, error) {
	if a.state != StateInit {
		return nil, ErrAggregatorUsed
	}

	src, err := open()
	if err != nil {
		a.state = StateFailed
		return nil, asDecodeError(err)
	}
	defer src.Close()

	a.state = StateReading
	a.bad = make([]FrameVerdict, 0)

	for {
		frame, ok, err := src.Next()
		if err != nil {
			a.state = StateFailed
			return nil, asDecodeError(err)
		}
		if !ok {
			break
		}
		a.frames++

		verdict, classified := a.classifier.ClassifyFrame(a.frames, a.estimator.Detect(frame))
		if !classified {
			continue
		}

		a.backAngles = append(a.backAngles, verdict.BackAngle)
		if verdict.IsBad {
			a.bad = append(a.bad, verdict)
		}
	}

	a.state = StateDone

	return &VideoReport{
		TotalCheckedFrames: a.frames,
		BadPostureFrames:   a.bad,
		Summary:            a.summary(),
	}, nil
}

func (a *Aggregator[F]) summary() ReportSummary {
	s := ReportSummary{
		DetectedFrames: len(a.backAngles),
		BadFrames:      len(a.bad),
	}
	if s.DetectedFrames == 0 {
		return s
	}

	s.BadRatio = round2(float64(s.BadFrames) / float64(s.DetectedFrames))
	s.MeanBackAngle = round2(stat.Mean(a.backAngles, nil))
	s.MinBackAngle = floats.Min(a.backAngles)

	return s
}

func asDecodeError(err error) error {
	if de, ok := err.(*DecodeError); ok {
		return de
	}
	return &DecodeError{Err: err}
}
