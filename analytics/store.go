package analytics

import (
	"context"

	"gorm.io/gorm"

	"github.com/inkpress/newswire/models"
)

// EventStore appends accepted reads to the durable event log. It performs no
// deduplication; callers go through the DedupGate first.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore constructs an EventStore over an existing database handle.
func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// Record appends one ReadEvent with a server-assigned id and timestamp.
func (s *EventStore) Record(ctx context.Context, articleID string, readerID *string) error {
	event := models.ReadEvent{
		ArticleID: articleID,
		ReaderID:  readerID,
	}
	return s.db.WithContext(ctx).Create(&event).Error
}
