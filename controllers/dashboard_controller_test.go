package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/newswire/models"
)

func TestAuthorDashboardTotals(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	author := createUser(t, db, "author@example.com", models.RoleAuthor)
	article := createArticle(t, db, models.Article{Title: "Tracked", AuthorID: author.ID})

	day1 := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.DailyAnalytics{ArticleID: article.ID, Date: day1, ViewCount: 5}).Error)
	require.NoError(t, db.Create(&models.DailyAnalytics{ArticleID: article.ID, Date: day2, ViewCount: 7}).Error)

	w := doJSON(r, http.MethodGet, "/api/v1/author/dashboard", tokenFor(t, author), nil)
	requireStatus(t, w, http.StatusOK)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["TotalSize"])

	items := body["Object"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Tracked", item["title"])
	assert.EqualValues(t, 12, item["totalViews"])
}

func TestAuthorDashboardRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	r := newTestRouter(t, db)
	reader := createUser(t, db, "reader@example.com", models.RoleReader)

	w := doJSON(r, http.MethodGet, "/api/v1/author/dashboard", "", nil)
	requireStatus(t, w, http.StatusUnauthorized)

	w = doJSON(r, http.MethodGet, "/api/v1/author/dashboard", tokenFor(t, reader), nil)
	requireStatus(t, w, http.StatusForbidden)
}
