package analytics

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Recorder runs the read-tracking pipeline: dedup gate, durable event append, then a
// queue notification. Recording is best effort; no failure here may ever surface to
// the reader who triggered it.
type Recorder struct {
	gate       *DedupGate
	store      *EventStore
	dispatcher *Dispatcher
	log        *zap.SugaredLogger
}

func NewRecorder(gate *DedupGate, store *EventStore, dispatcher *Dispatcher, logger *zap.Logger) *Recorder {
	return &Recorder{
		gate:       gate,
		store:      store,
		dispatcher: dispatcher,
		log:        logger.Sugar(),
	}
}

// Record applies the dedup window and, if the read passes, appends the event and
// notifies the queue. All errors are logged and swallowed.
func (r *Recorder) Record(ctx context.Context, articleID string, readerID *string, ip string) {
	if !r.gate.Allow(ctx, articleID, readerID, ip) {
		return
	}

	if err := r.store.Record(ctx, articleID, readerID); err != nil {
		r.log.Errorf("record read for article %s: %v", articleID, err)
		return
	}

	if err := r.dispatcher.PublishRead(articleID, time.Now().UTC()); err != nil {
		r.log.Errorf("publish read for article %s: %v", articleID, err)
	}
}

// RecordAsync fires Record on a fresh goroutine so the caller's response latency is
// untouched. The context deliberately detaches from the request, which is usually
// cancelled before the write completes.
func (r *Recorder) RecordAsync(articleID string, readerID *string, ip string) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.log.Errorf("read recording panic for article %s: %v", articleID, rec)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r.Record(ctx, articleID, readerID, ip)
	}()
}
