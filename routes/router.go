package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/newswire/analytics"
	"github.com/inkpress/newswire/config"
	"github.com/inkpress/newswire/controllers"
	"github.com/inkpress/newswire/middleware"
	"github.com/inkpress/newswire/models"
	"github.com/inkpress/newswire/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, recorder *analytics.Recorder, dashboard *analytics.Dashboard) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.AccessLog(utils.Logger))
	r.Use(middleware.Recovery(utils.Logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, http.StatusOK, "ok", gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	articleController := controllers.NewArticleController(db, recorder)
	dashboardController := controllers.NewDashboardController(dashboard)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)

	articlesGroup := api.Group("/articles")
	articlesGroup.GET("", articleController.PublicFeed)
	articlesGroup.GET("/:id", middleware.OptionalAuth(), articleController.GetByID)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RequireRole(models.RoleAuthor), middleware.RateLimitMiddleware())
	protected.POST("/articles", articleController.Create)
	protected.GET("/articles/me", articleController.MyArticles)
	protected.PUT("/articles/:id", articleController.Update)
	protected.DELETE("/articles/:id", articleController.SoftDelete)
	protected.GET("/author/dashboard", dashboardController.AuthorDashboard)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
