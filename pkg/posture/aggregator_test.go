package posture

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//fakeSource yields one landmark set per frame; the frame itself is its landmark set
type fakeSource struct {
	frames []LandmarkSet
	pos    int
	failAt int
	closed int
}

func (s *fakeSource) Next() (LandmarkSet, bool, error) {
	if s.failAt > 0 && s.pos+1 == s.failAt {
		return nil, false, errors.New("corrupt packet")
	}
	if s.pos >= len(s.frames) {
		return nil, false, nil
	}
	f := s.frames[s.pos]
	s.pos++
	return f, true, nil
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type passthroughEstimator struct {
	calls int
}

func (e *passthroughEstimator) Detect(frame LandmarkSet) LandmarkSet {
	e.calls++
	return frame
}

func runVideo(t *testing.T, pt PostureType, src *fakeSource) (*VideoReport, error) {
	t.Helper()
	agg := NewAggregator[LandmarkSet](NewClassifier(pt, DefaultThresholds()), &passthroughEstimator{})
	return agg.Run(func() (FrameSource[LandmarkSet], error) { return src, nil })
}

func repeat(lm LandmarkSet, n int) []LandmarkSet {
	frames := make([]LandmarkSet, n)
	for i := range frames {
		frames[i] = lm
	}
	return frames
}

func TestAggregatorAllGood(t *testing.T) {
	t.Parallel()

	src := &fakeSource{frames: repeat(squatPose(170, 0), 10)}
	report, err := runVideo(t, Squat, src)
	require.NoError(t, err)

	assert.Equal(t, 10, report.TotalCheckedFrames)
	assert.Empty(t, report.BadPostureFrames)
	assert.NotNil(t, report.BadPostureFrames)
	assert.Equal(t, 10, report.Summary.DetectedFrames)
	assert.Equal(t, 170.0, report.Summary.MeanBackAngle)
	assert.Equal(t, 1, src.closed)
}

func TestAggregatorBadSquatFrame(t *testing.T) {
	t.Parallel()

	frames := repeat(squatPose(170, 0), 8)
	frames[4] = squatPose(140, 0)

	report, err := runVideo(t, Squat, &fakeSource{frames: frames})
	require.NoError(t, err)

	require.Len(t, report.BadPostureFrames, 1)
	assert.Equal(t, 5, report.BadPostureFrames[0].Frame)
	assert.Equal(t, 140.0, report.BadPostureFrames[0].BackAngle)
	assert.Equal(t, 140.0, report.Summary.MinBackAngle)
	assert.Equal(t, 1, report.Summary.BadFrames)
}

func TestAggregatorBadNeck(t *testing.T) {
	t.Parallel()

	frames := repeat(sittingPose(170, 165), 4)
	frames[2] = sittingPose(170, 120)

	report, err := runVideo(t, Sitting, &fakeSource{frames: frames})
	require.NoError(t, err)

	require.Len(t, report.BadPostureFrames, 1)
	assert.Equal(t, 3, report.BadPostureFrames[0].Frame)
	assert.Equal(t, 120.0, *report.BadPostureFrames[0].NeckAngle)
}

func TestAggregatorCountsFramesWithoutPerson(t *testing.T) {
	t.Parallel()

	frames := []LandmarkSet{nil, squatPose(140, 0), nil, squatPose(120, 0.2), nil}
	report, err := runVideo(t, Squat, &fakeSource{frames: frames})
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalCheckedFrames)
	assert.Equal(t, 2, report.Summary.DetectedFrames)
	require.Len(t, report.BadPostureFrames, 2)

	prev := 0
	for _, v := range report.BadPostureFrames {
		assert.Greater(t, v.Frame, prev)
		assert.LessOrEqual(t, v.Frame, report.TotalCheckedFrames)
		prev = v.Frame
	}
}

func TestAggregatorIdempotent(t *testing.T) {
	t.Parallel()

	frames := []LandmarkSet{squatPose(140, 0), nil, squatPose(165, 0.05), squatPose(170, 0)}

	first, err := runVideo(t, Squat, &fakeSource{frames: frames})
	require.NoError(t, err)
	second, err := runVideo(t, Squat, &fakeSource{frames: frames})
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("reports differ (-first +second):\n%s", diff)
	}
}

func TestAggregatorOpenFailure(t *testing.T) {
	t.Parallel()

	est := &passthroughEstimator{}
	agg := NewAggregator[LandmarkSet](NewClassifier(Squat, DefaultThresholds()), est)

	report, err := agg.Run(func() (FrameSource[LandmarkSet], error) {
		return nil, errors.New("unsupported codec")
	})
	assert.Nil(t, report)

	var derr *DecodeError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, StateFailed, agg.State())
	assert.Zero(t, est.calls)
}

func TestAggregatorReadFailureReleasesSource(t *testing.T) {
	t.Parallel()

	src := &fakeSource{frames: repeat(squatPose(140, 0), 5), failAt: 3}
	agg := NewAggregator[LandmarkSet](NewClassifier(Squat, DefaultThresholds()), &passthroughEstimator{})

	report, err := agg.Run(func() (FrameSource[LandmarkSet], error) { return src, nil })
	assert.Nil(t, report)

	var derr *DecodeError
	assert.True(t, errors.As(err, &derr))
	assert.Equal(t, 1, src.closed)
	assert.Equal(t, StateFailed, agg.State())
}

func TestAggregatorSingleUse(t *testing.T) {
	t.Parallel()

	agg := NewAggregator[LandmarkSet](NewClassifier(Squat, DefaultThresholds()), &passthroughEstimator{})
	open := func() (FrameSource[LandmarkSet], error) { return &fakeSource{}, nil }

	report, err := agg.Run(open)
	require.NoError(t, err)
	assert.Zero(t, report.TotalCheckedFrames)
	assert.Equal(t, StateDone, agg.State())

	_, err = agg.Run(open)
	assert.ErrorIs(t, err, ErrAggregatorUsed)
}
