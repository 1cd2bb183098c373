package analytics

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkpress/newswire/models"
)

// Aggregator recomputes per-article daily view counts from the raw read event log.
// Runs are idempotent: each pass counts the full UTC day from scratch and replaces the
// stored value, so overlapping or repeated runs for the same date converge.
type Aggregator struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAggregator constructs an Aggregator over an existing database handle.
func NewAggregator(db *gorm.DB, logger *zap.Logger) *Aggregator {
	return &Aggregator{db: db, log: logger.Sugar()}
}

type articleCount struct {
	ArticleID string
	ViewCount int64
}

// Aggregate counts read events inside the UTC day containing date and upserts one
// DailyAnalytics row per article that had at least one read. Articles without events
// get no row; absence means zero by convention. A failed upsert for one article is
// logged and the rest of the batch continues.
func (a *Aggregator) Aggregate(ctx context.Context, date time.Time) error {
	day := DayOf(date)
	start := day
	end := day.Add(24*time.Hour - time.Millisecond)

	var counts []articleCount
	err := a.db.WithContext(ctx).
		Model(&models.ReadEvent{}).
		Select("article_id, COUNT(*) AS view_count").
		Where("read_at >= ? AND read_at <= ?", start, end).
		Group("article_id").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("count read events for %s: %w", day.Format("2006-01-02"), err)
	}

	failed := 0
	for _, c := range counts {
		row := models.DailyAnalytics{
			ArticleID: c.ArticleID,
			Date:      day,
			ViewCount: c.ViewCount,
		}
		// Full replace keyed by (article_id, date); a single conditional write avoids
		// racing a concurrent run for the same date.
		err := a.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "article_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"view_count": c.ViewCount,
				"updated_at": time.Now().UTC(),
			}),
		}).Create(&row).Error
		if err != nil {
			failed++
			a.log.Errorf("daily analytics upsert failed article=%s date=%s: %v",
				c.ArticleID, day.Format("2006-01-02"), err)
		}
	}

	a.log.Infof("daily analytics aggregated: %d articles processed (%d failed) for %s",
		len(counts), failed, day.Format("2006-01-02"))
	return nil
}

// DayOf truncates a timestamp to its UTC calendar day (midnight).
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
