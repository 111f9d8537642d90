package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bmharper/cimg/v2"
	"github.com/buscount/buscount/pkg/dbh"
	"github.com/buscount/buscount/server/detect"
	"github.com/buscount/buscount/server/framedb"
	"github.com/buscount/buscount/server/video"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

// fakeSource fabricates a fixed number of frames at a constant frame rate.
type fakeSource struct {
	frameRate float64
	nFrames   int
	index     int
	timestamp float64
	closes    int
}

func (s *fakeSource) FrameRate() float64 { return s.frameRate }
func (s *fakeSource) FrameCount() int    { return s.nFrames }

func (s *fakeSource) NextFrame() (*cimg.Image, bool) {
	if s.index >= s.nFrames {
		return nil, false
	}
	if s.frameRate > 0 {
		s.timestamp = float64(s.index) / s.frameRate
	} else {
		s.timestamp = float64(s.index)
	}
	s.index++
	return cimg.NewImage(64, 48, cimg.PixelFormatRGB), true
}

func (s *fakeSource) CurrentTimestamp() float64 { return s.timestamp }
func (s *fakeSource) Close()                    { s.closes++ }

// fakeDetector returns a fixed set of boxes, optionally failing on chosen calls.
type fakeDetector struct {
	boxes  []detect.Detection
	failOn map[int]bool // 1-based call ordinal -> fail
	calls  int
}

func (d *fakeDetector) DetectFaces(img *cimg.Image) ([]detect.Detection, error) {
	d.calls++
	if d.failOn[d.calls] {
		return nil, errors.New("detector offline")
	}
	return d.boxes, nil
}

func (d *fakeDetector) Close() {}

func newTestDB(t *testing.T) *framedb.FrameDB {
	dbPath := filepath.Join(t.TempDir(), "frames.sqlite")
	db, err := framedb.NewFrameDB(logs.NewTestingLog(t), dbh.MakeSqliteConfig(dbPath), 0)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func newWorkDir(t *testing.T) string {
	wd := filepath.Join(t.TempDir(), "run")
	require.NoError(t, os.MkdirAll(wd, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(wd, "uploaded_video.mp4"), []byte("x"), 0666))
	return wd
}

func openFake(src *fakeSource) video.OpenFunc {
	return func(path string) (video.FrameSource, error) {
		return src, nil
	}
}

func TestRunProducesSampledRecords(t *testing.T) {
	db := newTestDB(t)
	src := &fakeSource{frameRate: 30, nFrames: 95}
	det := &fakeDetector{boxes: []detect.Detection{
		{Box: detect.Rect{X: 5, Y: 5, Width: 10, Height: 10}, Confidence: 0.9},
		{Box: detect.Rect{X: 30, Y: 8, Width: 12, Height: 12}, Confidence: 0.8},
	}}
	wd := newWorkDir(t)

	p := NewPipeline(logs.NewTestingLog(t), db, det, openFake(src), 1.0)
	p.Run(filepath.Join(wd, "uploaded_video.mp4"), wd)

	// 95 frames at 30fps sampled at 1Hz: frames 0, 30, 60, 90
	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	for i, rec := range recs {
		require.Equal(t, 2, rec.CountOfPeople)
		require.NotEmpty(t, rec.FrameData)
		if i > 0 {
			require.Greater(t, rec.ID, recs[i-1].ID)
			require.GreaterOrEqual(t, rec.Timestamp, recs[i-1].Timestamp)
		}
	}
	require.InDelta(t, 0.0, recs[0].Timestamp, 1e-9)
	require.InDelta(t, 3.0, recs[3].Timestamp, 1e-9)

	require.Equal(t, 1, src.closes)
	require.NoDirExists(t, wd)
}

func TestDetectorFailureSkipsFrameOnly(t *testing.T) {
	db := newTestDB(t)
	// 300 frames at 30fps: 10 selected frames, detector fails on the 5th
	src := &fakeSource{frameRate: 30, nFrames: 300}
	det := &fakeDetector{failOn: map[int]bool{5: true}}
	wd := newWorkDir(t)

	p := NewPipeline(logs.NewTestingLog(t), db, det, openFake(src), 1.0)
	p.Run(filepath.Join(wd, "uploaded_video.mp4"), wd)

	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Len(t, recs, 9)
	require.Equal(t, 10, det.calls)
	require.Equal(t, 1, src.closes)
	require.NoDirExists(t, wd)
}

func TestUnreadableVideoProducesNoRecords(t *testing.T) {
	db := newTestDB(t)
	wd := newWorkDir(t)
	open := func(path string) (video.FrameSource, error) {
		return nil, errors.New("moov atom not found")
	}

	p := NewPipeline(logs.NewTestingLog(t), db, &fakeDetector{}, open, 1.0)
	p.Run(filepath.Join(wd, "uploaded_video.mp4"), wd)

	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Empty(t, recs)
	require.NoDirExists(t, wd)
}

func TestStoreFailureAbortsRunAndReleasesResources(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "frames.sqlite")
	db, err := framedb.NewFrameDB(logs.NewTestingLog(t), dbh.MakeSqliteConfig(dbPath), 0)
	require.NoError(t, err)
	db.Close() // every AddFrame from here on fails

	src := &fakeSource{frameRate: 30, nFrames: 300}
	wd := newWorkDir(t)

	p := NewPipeline(logs.NewTestingLog(t), db, &fakeDetector{}, openFake(src), 1.0)
	p.Run(filepath.Join(wd, "uploaded_video.mp4"), wd)

	// The first insert fails, so only one detection call happened
	require.Equal(t, 1, src.closes)
	require.NoDirExists(t, wd)
}

func TestZeroFrameRateProcessesEveryFrame(t *testing.T) {
	db := newTestDB(t)
	src := &fakeSource{frameRate: 0, nFrames: 7}
	wd := newWorkDir(t)

	p := NewPipeline(logs.NewTestingLog(t), db, &fakeDetector{}, openFake(src), 1.0)
	p.Run(filepath.Join(wd, "uploaded_video.mp4"), wd)

	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Len(t, recs, 7)
	require.NoDirExists(t, wd)
}
