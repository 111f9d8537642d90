// Package framedb is the durable store of processed frame records.
// The pipeline worker is the only writer; the HTTP query path reads
// concurrently. Every insert is atomic and visible as soon as AddFrame
// returns.
package framedb

import (
	"errors"
	"fmt"

	"github.com/buscount/buscount/pkg/dbh"
	"github.com/cyclopcam/logs"
	"gorm.io/gorm"
)

// PageSize is the number of frame records returned per page by Frames().
const PageSize = 4

var (
	// ErrInvalidPage means the requested page number is not a positive integer.
	ErrInvalidPage = errors.New("Invalid page number")
	// ErrNoRecordsForPage means the requested page lies beyond the stored records.
	ErrNoRecordsForPage = errors.New("Frames not found for the specified page")
)

// FrameDB stores FrameRecords.
type FrameDB struct {
	log logs.Log
	db  *gorm.DB
}

// NewFrameDB opens or creates the frame database, and runs migrations.
func NewFrameDB(log logs.Log, dbc dbh.DBConfig, flags dbh.DBConnectFlags) (*FrameDB, error) {
	log.Infof("Opening frame DB (%v)", dbc.LogSafeDescription())
	db, err := dbh.OpenDB(log, dbc, Migrations(log), flags)
	if err != nil {
		return nil, fmt.Errorf("Failed to open frame database: %w", err)
	}
	return &FrameDB{
		log: log,
		db:  db,
	}, nil
}

func (f *FrameDB) Close() {
	if sqlDB, err := f.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// AddFrame inserts a new immutable frame record, and fills in its store-assigned ID.
// IDs are monotonically increasing in insertion order.
func (f *FrameDB) AddFrame(rec *FrameRecord) error {
	if err := f.db.Create(rec).Error; err != nil {
		return fmt.Errorf("Failed to insert frame record: %w", err)
	}
	return nil
}

// Frames returns one page of frame records, ordered by ID ascending.
// Pages are 1-based and PageSize records long.
func (f *FrameDB) Frames(page int) ([]FrameRecord, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	recs := []FrameRecord{}
	offset := (page - 1) * PageSize
	if err := f.db.Order("id").Offset(offset).Limit(PageSize).Find(&recs).Error; err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, ErrNoRecordsForPage
	}
	return recs, nil
}

// AllFrames returns every frame record, oldest first.
func (f *FrameDB) AllFrames() ([]FrameRecord, error) {
	recs := []FrameRecord{}
	if err := f.db.Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Count returns the total number of stored frame records.
func (f *FrameDB) Count() (int64, error) {
	var n int64
	if err := f.db.Model(&FrameRecord{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
