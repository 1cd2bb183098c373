package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/newswire/analytics"
	"github.com/inkpress/newswire/middleware"
	"github.com/inkpress/newswire/models"
	"github.com/inkpress/newswire/utils"
)

const (
	maxTitleLength   = 150
	minContentLength = 50
)

// ArticleController handles article authoring, the public feed and single-article reads.
type ArticleController struct {
	db       *gorm.DB
	recorder *analytics.Recorder
}

func NewArticleController(db *gorm.DB, recorder *analytics.Recorder) *ArticleController {
	return &ArticleController{db: db, recorder: recorder}
}

func pageParams(ctx *gin.Context) (int, int) {
	page, size := 1, 10
	if v := strings.TrimSpace(ctx.Query("page")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(ctx.Query("size")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			size = n
		}
	}
	return page, size
}

func validStatus(status string) bool {
	return status == models.StatusDraft || status == models.StatusPublished
}

// Create stores a new article owned by the authenticated author.
func (c *ArticleController) Create(ctx *gin.Context) {
	type request struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
		Status   string `json:"status"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Title = utils.SanitizeTitle(req.Title)
	req.Content = utils.SanitizeContent(req.Content)
	req.Category = strings.TrimSpace(req.Category)
	if req.Status == "" {
		req.Status = models.StatusDraft
	}

	var errs []string
	if req.Title == "" || len([]rune(req.Title)) > maxTitleLength {
		errs = append(errs, "title is required and must be at most 150 characters")
	}
	if len([]rune(req.Content)) < minContentLength {
		errs = append(errs, "content must be at least 50 characters")
	}
	if req.Category == "" {
		errs = append(errs, "category is required")
	}
	if !validStatus(req.Status) {
		errs = append(errs, "status must be Draft or Published")
	}
	if len(errs) > 0 {
		utils.Error(ctx, http.StatusBadRequest, "validation failed", errs...)
		return
	}

	article := models.Article{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Status:   req.Status,
		AuthorID: middleware.UserID(ctx),
	}
	if err := c.db.Create(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create article")
		return
	}

	utils.Success(ctx, http.StatusCreated, "article created", article)
}

// MyArticles lists the caller's own articles, newest first. Soft-deleted articles are
// excluded unless includeDeleted=true.
func (c *ArticleController) MyArticles(ctx *gin.Context) {
	page, size := pageParams(ctx)
	authorID := middleware.UserID(ctx)

	query := c.db.Model(&models.Article{}).Where("author_id = ?", authorID)
	if !strings.EqualFold(ctx.Query("includeDeleted"), "true") {
		query = query.Where("deleted_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count articles")
		return
	}

	var articles []models.Article
	if err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list articles")
		return
	}

	utils.Paginated(ctx, "articles retrieved", articles, page, size, total)
}

// Update applies a partial edit to an article the caller owns.
func (c *ArticleController) Update(ctx *gin.Context) {
	type request struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Category *string `json:"category"`
		Status   *string `json:"status"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	article, ok := c.ownedArticle(ctx)
	if !ok {
		return
	}

	var errs []string
	updates := map[string]interface{}{}
	if req.Title != nil {
		title := utils.SanitizeTitle(*req.Title)
		if title == "" || len([]rune(title)) > maxTitleLength {
			errs = append(errs, "title must be at most 150 characters")
		} else {
			updates["title"] = title
		}
	}
	if req.Content != nil {
		content := utils.SanitizeContent(*req.Content)
		if len([]rune(content)) < minContentLength {
			errs = append(errs, "content must be at least 50 characters")
		} else {
			updates["content"] = content
		}
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		if category == "" {
			errs = append(errs, "category must not be empty")
		} else {
			updates["category"] = category
		}
	}
	if req.Status != nil {
		if !validStatus(*req.Status) {
			errs = append(errs, "status must be Draft or Published")
		} else {
			updates["status"] = *req.Status
		}
	}
	if len(errs) > 0 {
		utils.Error(ctx, http.StatusBadRequest, "validation failed", errs...)
		return
	}
	if len(updates) == 0 {
		utils.Success(ctx, http.StatusOK, "article unchanged", article)
		return
	}

	if err := c.db.Model(&article).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update article")
		return
	}

	utils.Success(ctx, http.StatusOK, "article updated", article)
}

// SoftDelete marks an owned article as deleted. The row and its analytics remain.
func (c *ArticleController) SoftDelete(ctx *gin.Context) {
	article, ok := c.ownedArticle(ctx)
	if !ok {
		return
	}

	now := time.Now().UTC()
	if err := c.db.Model(&article).Update("deleted_at", now).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete article")
		return
	}

	utils.Success(ctx, http.StatusOK, "article deleted", nil)
}

// PublicFeed lists published, non-deleted articles with optional category, author and
// free-text filters.
func (c *ArticleController) PublicFeed(ctx *gin.Context) {
	page, size := pageParams(ctx)

	query := c.db.Model(&models.Article{}).
		Where("status = ? AND deleted_at IS NULL", models.StatusPublished)

	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if author := strings.TrimSpace(ctx.Query("author")); author != "" {
		query = query.Joins("JOIN users ON users.id = articles.author_id").
			Where("LOWER(users.name) LIKE ?", "%"+strings.ToLower(author)+"%")
	}
	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to count articles")
		return
	}

	var articles []models.Article
	if err := query.Preload("Author").Order("articles.created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list articles")
		return
	}

	utils.Paginated(ctx, "articles retrieved", articles, page, size, total)
}

// GetByID returns a single article. Missing rows return 404, soft-deleted rows 410.
// A successful read is recorded off the request path; recording can never change the
// response.
func (c *ArticleController) GetByID(ctx *gin.Context) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing article id")
		return
	}

	var article models.Article
	if err := c.db.Preload("Author").Where("id = ?", id).First(&article).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to get article")
		return
	}

	if article.Deleted() {
		utils.Error(ctx, http.StatusGone, "article has been removed")
		return
	}

	var readerID *string
	if uid := middleware.UserID(ctx); uid != "" {
		readerID = &uid
	}
	c.recorder.RecordAsync(article.ID, readerID, ctx.ClientIP())

	utils.Success(ctx, http.StatusOK, "article retrieved", article)
}

// ownedArticle loads the :id article and enforces ownership. It writes the error
// response itself when the lookup fails.
func (c *ArticleController) ownedArticle(ctx *gin.Context) (models.Article, bool) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing article id")
		return models.Article{}, false
	}

	var article models.Article
	if err := c.db.Where("id = ?", id).First(&article).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, "article not found")
			return models.Article{}, false
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to get article")
		return models.Article{}, false
	}

	// soft-deleted articles are not editable; they look missing to mutation endpoints
	if article.Deleted() {
		utils.Error(ctx, http.StatusNotFound, "article not found")
		return models.Article{}, false
	}

	if article.AuthorID != middleware.UserID(ctx) {
		utils.Error(ctx, http.StatusForbidden, "you do not own this article")
		return models.Article{}, false
	}

	return article, true
}
