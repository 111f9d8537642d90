package framedb

// BaseModel is our base class for a GORM model.
// The default GORM Model uses int, but we prefer int64
type BaseModel struct {
	ID int64 `gorm:"primaryKey" json:"id"`
}

// FrameRecord is one sampled frame of one uploaded video, after annotation.
// FrameData is the base64 encoding of the JPEG-compressed annotated frame,
// so the stored bytes are already transport-safe.
// Records are immutable once written. The store only ever inserts and reads,
// and insertion order matches temporal order within a single video.
type FrameRecord struct {
	BaseModel
	FrameData     string  `json:"frame"`
	CountOfPeople int     `json:"count_of_people"`
	Timestamp     float64 `json:"timestamp"` // Presentation time in seconds, from the container clock
}

func (FrameRecord) TableName() string {
	return "frame"
}
