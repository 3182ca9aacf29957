package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/chenBenjamin97/posture-analyzer/pkg/analyzer"
	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(id string, createdAt time.Time) *analyzer.Record {
	diff := 0.05
	return &analyzer.Record{
		ID:          id,
		PostureType: "squat",
		CreatedAt:   createdAt,
		VideoReport: posture.VideoReport{
			TotalCheckedFrames: 30,
			BadPostureFrames: []posture.FrameVerdict{
				{Frame: 7, IsBad: true, BackAngle: 141.25, KneeToeDiff: &diff},
			},
			Summary: posture.ReportSummary{DetectedFrames: 28, BadFrames: 1, BadRatio: 0.04, MeanBackAngle: 163.1, MinBackAngle: 141.25},
		},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("a1", time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, "a1")
	require.NoError(t, err)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Errorf("stored record differs (-want +got):\n%s", diff)
	}
}

func TestGetUnknown(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveDuplicateID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := testRecord("dup", time.Now().UTC())
	require.NoError(t, s.Save(ctx, rec))
	assert.Error(t, s.Save(ctx, rec))
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, s.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Minute))))
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].ID)
	assert.Equal(t, "second", entries[1].ID)
	assert.Equal(t, 1, entries[0].BadFrames)
	assert.Equal(t, 30, entries[0].TotalCheckedFrames)
	assert.True(t, entries[0].CreatedAt.Equal(base.Add(2*time.Minute)))
}

func TestListEmpty(t *testing.T) {
	s := openTestStore(t)

	entries, err := s.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
