package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/inkpress/newswire/models"
)

func insertArticle(t *testing.T, db *gorm.DB, a models.Article) models.Article {
	t.Helper()
	require.NoError(t, db.Create(&a).Error)
	return a
}

func insertDaily(t *testing.T, db *gorm.DB, articleID string, date time.Time, views int64) {
	t.Helper()
	row := models.DailyAnalytics{ArticleID: articleID, Date: date, ViewCount: views}
	require.NoError(t, db.Create(&row).Error)
}

func TestDashboardSumsDailyTotals(t *testing.T) {
	db := newTestDB(t)
	dash := NewDashboard(db)

	a := insertArticle(t, db, models.Article{Title: "First", Category: "tech", Status: models.StatusPublished, AuthorID: "author-1"})
	day1 := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	insertDaily(t, db, a.ID, day1, 5)
	insertDaily(t, db, a.ID, day2, 7)

	items, total, err := dash.ForAuthor(context.Background(), "author-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.EqualValues(t, 12, items[0].TotalViews)
	assert.Equal(t, "First", items[0].Title)
}

func TestDashboardZeroViewsWithoutAnalytics(t *testing.T) {
	db := newTestDB(t)
	dash := NewDashboard(db)

	insertArticle(t, db, models.Article{Title: "Quiet", Category: "tech", Status: models.StatusDraft, AuthorID: "author-1"})

	items, total, err := dash.ForAuthor(context.Background(), "author-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.EqualValues(t, 0, items[0].TotalViews)
}

func TestDashboardExcludesDeletedAndOtherAuthors(t *testing.T) {
	db := newTestDB(t)
	dash := NewDashboard(db)

	now := time.Now().UTC()
	insertArticle(t, db, models.Article{Title: "Mine", Category: "tech", Status: models.StatusPublished, AuthorID: "author-1"})
	insertArticle(t, db, models.Article{Title: "Deleted", Category: "tech", Status: models.StatusPublished, AuthorID: "author-1", DeletedAt: &now})
	insertArticle(t, db, models.Article{Title: "Theirs", Category: "tech", Status: models.StatusPublished, AuthorID: "author-2"})

	items, total, err := dash.ForAuthor(context.Background(), "author-1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "Mine", items[0].Title)
}

func TestDashboardPagination(t *testing.T) {
	db := newTestDB(t)
	dash := NewDashboard(db)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		insertArticle(t, db, models.Article{
			Title:     "Article",
			Category:  "tech",
			Status:    models.StatusPublished,
			AuthorID:  "author-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	items, total, err := dash.ForAuthor(context.Background(), "author-1", 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, items, 2)
}
