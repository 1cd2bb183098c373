package analytics

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/inkpress/newswire/models"
)

// DashboardItem is one article row on the author dashboard.
type DashboardItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	TotalViews int64     `json:"totalViews"`
}

// Dashboard composes per-article lifetime view totals for an author. Totals are summed
// from daily_analytics at read time rather than stored, so a re-aggregated day is
// reflected immediately.
type Dashboard struct {
	db *gorm.DB
}

func NewDashboard(db *gorm.DB) *Dashboard {
	return &Dashboard{db: db}
}

// ForAuthor returns one page of the author's live articles, newest first, each carrying
// its total view count. Articles with no analytics rows report zero views.
func (d *Dashboard) ForAuthor(ctx context.Context, authorID string, page, size int) ([]DashboardItem, int64, error) {
	base := d.db.WithContext(ctx).Model(&models.Article{}).
		Where("author_id = ? AND deleted_at IS NULL", authorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []models.Article
	if err := base.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}

	items := make([]DashboardItem, 0, len(articles))
	if len(articles) == 0 {
		return items, total, nil
	}

	ids := make([]string, 0, len(articles))
	for _, a := range articles {
		ids = append(ids, a.ID)
	}

	type viewTotal struct {
		ArticleID  string
		TotalViews int64
	}
	var totals []viewTotal
	if err := d.db.WithContext(ctx).Model(&models.DailyAnalytics{}).
		Select("article_id, SUM(view_count) AS total_views").
		Where("article_id IN ?", ids).
		Group("article_id").
		Find(&totals).Error; err != nil {
		return nil, 0, err
	}

	views := make(map[string]int64, len(totals))
	for _, t := range totals {
		views[t.ArticleID] = t.TotalViews
	}

	for _, a := range articles {
		items = append(items, DashboardItem{
			ID:         a.ID,
			Title:      a.Title,
			Category:   a.Category,
			Status:     a.Status,
			CreatedAt:  a.CreatedAt,
			TotalViews: views[a.ID],
		})
	}

	return items, total, nil
}
