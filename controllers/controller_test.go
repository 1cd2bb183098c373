package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/inkpress/newswire/analytics"
	"github.com/inkpress/newswire/middleware"
	"github.com/inkpress/newswire/models"
	"github.com/inkpress/newswire/utils"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "controller-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Article{}, &models.ReadEvent{}, &models.DailyAnalytics{}))
	return db
}

// newTestRouter wires the API surface the way the real router does, minus access
// logging and rate limiting.
func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zap.NewNop()
	gate := analytics.NewDedupGate(client, 10*time.Second, logger)
	store := analytics.NewEventStore(db)
	aggregator := analytics.NewAggregator(db, logger)

	dispatcher, err := analytics.NewDispatcher(analytics.DispatcherOptions{
		MaxRetries:     1,
		InitialBackoff: 10 * time.Millisecond,
	}, aggregator, logger)
	require.NoError(t, err)
	t.Cleanup(dispatcher.Close)

	recorder := analytics.NewRecorder(gate, store, dispatcher, logger)
	dashboard := analytics.NewDashboard(db)

	authController := NewAuthController(db)
	articleController := NewArticleController(db, recorder)
	dashboardController := NewDashboardController(dashboard)

	r := gin.New()
	api := r.Group("/api/v1")
	api.POST("/auth/signup", authController.Signup)
	api.POST("/auth/login", authController.Login)
	api.GET("/articles", articleController.PublicFeed)
	api.GET("/articles/:id", middleware.OptionalAuth(), articleController.GetByID)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleAuthor))
	protected.POST("/articles", articleController.Create)
	protected.GET("/articles/me", articleController.MyArticles)
	protected.PUT("/articles/:id", articleController.Update)
	protected.DELETE("/articles/:id", articleController.SoftDelete)
	protected.GET("/author/dashboard", dashboardController.AuthorDashboard)

	return r
}

func createUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()

	hash, err := utils.HashPassword("Passw0rd!")
	require.NoError(t, err)

	user := models.User{Name: "Test User", Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Role, time.Hour)
	require.NoError(t, err)
	return token
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "unexpected status, body: %s", w.Body.String())
}
