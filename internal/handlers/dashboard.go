package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/services"
)

type DashboardHandler struct {
	catalogService services.CatalogService
}

func NewDashboardHandler(catalogService services.CatalogService) *DashboardHandler {
	return &DashboardHandler{catalogService: catalogService}
}

func (dh *DashboardHandler) Stats(c *gin.Context) {
	stats, err := dh.catalogService.DashboardStats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
