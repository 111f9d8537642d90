package framedb

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/buscount/buscount/pkg/dbh"
	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

func createTestDB(t *testing.T) *FrameDB {
	dbPath := filepath.Join(t.TempDir(), "test-frames.sqlite")
	db, err := NewFrameDB(logs.NewTestingLog(t), dbh.MakeSqliteConfig(dbPath), 0)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func addFrames(t *testing.T, db *FrameDB, n int) {
	for i := 0; i < n; i++ {
		rec := &FrameRecord{
			FrameData:     fmt.Sprintf("ZnJhbWUtJXY=%v", i),
			CountOfPeople: i % 3,
			Timestamp:     float64(i),
		}
		require.NoError(t, db.AddFrame(rec))
		require.Equal(t, int64(i+1), rec.ID)
	}
}

func TestAddFrameAssignsIncreasingIDs(t *testing.T) {
	db := createTestDB(t)
	addFrames(t, db, 5)
	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Len(t, recs, 5)
	for i := 1; i < len(recs); i++ {
		require.Greater(t, recs[i].ID, recs[i-1].ID)
		require.GreaterOrEqual(t, recs[i].Timestamp, recs[i-1].Timestamp)
	}
}

func TestFramesPaging(t *testing.T) {
	db := createTestDB(t)
	addFrames(t, db, 9)

	page1, err := db.Frames(1)
	require.NoError(t, err)
	require.Len(t, page1, 4)
	require.Equal(t, int64(1), page1[0].ID)
	require.Equal(t, int64(4), page1[3].ID)

	page2, err := db.Frames(2)
	require.NoError(t, err)
	require.Len(t, page2, 4)
	require.Equal(t, int64(5), page2[0].ID)
	require.Equal(t, int64(8), page2[3].ID)

	page3, err := db.Frames(3)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	require.Equal(t, int64(9), page3[0].ID)

	_, err = db.Frames(4)
	require.ErrorIs(t, err, ErrNoRecordsForPage)

	_, err = db.Frames(0)
	require.ErrorIs(t, err, ErrInvalidPage)
	_, err = db.Frames(-1)
	require.ErrorIs(t, err, ErrInvalidPage)

	// Reads are idempotent
	again, err := db.Frames(2)
	require.NoError(t, err)
	require.Equal(t, page2, again)
}

func TestEmptyStore(t *testing.T) {
	db := createTestDB(t)

	recs, err := db.AllFrames()
	require.NoError(t, err)
	require.Empty(t, recs)

	_, err = db.Frames(1)
	require.ErrorIs(t, err, ErrNoRecordsForPage)

	n, err := db.Count()
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}
