package models

import "time"

// DailyAnalytics stores the per-article view count for one UTC calendar day, as of the
// last aggregation pass. ViewCount is replaced wholesale on every run covering the same
// day, never incremented, so reruns and backfills converge on the same value. Articles
// with zero reads on a day get no row at all.
type DailyAnalytics struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID string    `gorm:"size:36;index:idx_article_date,unique;not null" json:"article_id"`
	Date      time.Time `gorm:"index:idx_article_date,unique;not null" json:"date"` // UTC midnight
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName avoids the awkward auto-pluralisation of "analytics".
func (DailyAnalytics) TableName() string {
	return "daily_analytics"
}
