package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadEvent is one accepted (non-deduplicated) read of an article. The table is
// append-only: rows are never updated or deleted, and the daily aggregation job
// only ever reads them.
type ReadEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ArticleID string    `gorm:"size:36;index;not null" json:"article_id"`
	ReaderID  *string   `gorm:"size:36" json:"reader_id,omitempty"` // nil for guests
	ReadAt    time.Time `gorm:"index;not null" json:"read_at"`
}

// BeforeCreate assigns the UUID and the server-side timestamp.
func (e *ReadEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ReadAt.IsZero() {
		e.ReadAt = time.Now().UTC()
	}
	return nil
}
