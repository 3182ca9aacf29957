package analyzer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"github.com/chenBenjamin97/posture-analyzer/pkg/utils"
	"github.com/google/uuid"
)

//Record is a stored video report together with the request that produced it
type Record struct {
	ID          string    `json:"id"`
	PostureType string    `json:"posture_type"`
	CreatedAt   time.Time `json:"created_at"`
	posture.VideoReport
}

//ReportStore persists finished reports
type ReportStore interface {
	Save(ctx context.Context, rec *Record) error
}

//Opener opens the video file at path as a frame source
type Opener[F any] func(path string) (posture.FrameSource[F], error)

//Config holds what an Analyzer needs besides its collaborators
type Config struct {
	TempDir    string
	Thresholds posture.Thresholds
}

//Analyzer classifies uploaded videos. It is safe for concurrent use: every
//call owns its temp file, its aggregator and its checked-out estimator.
type Analyzer[F any] struct {
	open  Opener[F]
	pool  *Pool[F]
	store ReportStore
	cfg   Config
	now   func() time.Time
}

//New returns an Analyzer. store may be nil, in which case reports are not persisted.
func New[F any](cfg Config, open Opener[F], pool *Pool[F], store ReportStore) *Analyzer[F] {
	return &Analyzer[F]{
		open:  open,
		pool:  pool,
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

//Analyze classifies the video read from r for the given posture type.
//An unknown posture type is reported as *posture.ValidationError before
//anything is read, a video that cannot be decoded as *posture.DecodeError.
func (a *Analyzer[F]) Analyze(ctx context.Context, r io.Reader, postureType string) (*Record, error) {
	pt, err := posture.ParsePostureType(postureType)
	if err != nil {
		return nil, err
	}

	videoPath, err := a.spool(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(videoPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Analyze: Could not remove '%s', got '%v'", videoPath, err)
		}
	}()

	estimator, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("Analyze: could not acquire pose estimator: %w", err)
	}
	defer a.pool.Release(estimator)

	start := a.now()
	agg := posture.NewAggregator[F](posture.NewClassifier(pt, a.cfg.Thresholds), estimator)
	report, err := agg.Run(func() (posture.FrameSource[F], error) {
		src, err := a.open(videoPath)
		if err != nil {
			return nil, &posture.DecodeError{Path: videoPath, Err: err}
		}
		return src, nil
	})
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:          uuid.NewString(),
		PostureType: pt.String(),
		CreatedAt:   a.now().UTC(),
		VideoReport: *report,
	}
	log.Printf("Analyze: %s video '%s' done in %v: %d frames checked, %d bad", pt, rec.ID, a.now().Sub(start), report.TotalCheckedFrames, len(report.BadPostureFrames))

	if a.store != nil {
		if err := a.store.Save(ctx, rec); err != nil {
			log.Printf("Analyze: Could not save report '%s', got '%v'", rec.ID, err)
		}
	}

	return rec, nil
}

//spool writes r into a new temp file owned by the caller
func (a *Analyzer[F]) spool(r io.Reader) (string, error) {
	f, err := os.CreateTemp(a.cfg.TempDir, utils.UploadPattern)
	if err != nil {
		return "", fmt.Errorf("Analyze: could not create temp file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("Analyze: could not write upload: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("Analyze: could not write upload: %w", err)
	}

	return f.Name(), nil
}
