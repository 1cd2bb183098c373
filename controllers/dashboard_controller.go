package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/newswire/analytics"
	"github.com/inkpress/newswire/middleware"
	"github.com/inkpress/newswire/utils"
)

// DashboardController serves the author analytics dashboard.
type DashboardController struct {
	dashboard *analytics.Dashboard
}

func NewDashboardController(dashboard *analytics.Dashboard) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// AuthorDashboard returns one page of the caller's articles with lifetime view totals.
func (d *DashboardController) AuthorDashboard(ctx *gin.Context) {
	page, size := pageParams(ctx)

	items, total, err := d.dashboard.ForAuthor(ctx.Request.Context(), middleware.UserID(ctx), page, size)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	utils.Paginated(ctx, "dashboard retrieved", items, page, size, total)
}
