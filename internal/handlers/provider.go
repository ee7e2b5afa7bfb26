package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/services"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type ProviderHandler struct {
	catalogService services.CatalogService
}

func NewProviderHandler(catalogService services.CatalogService) *ProviderHandler {
	return &ProviderHandler{catalogService: catalogService}
}

func (ph *ProviderHandler) List(c *gin.Context) {
	providers, err := ph.catalogService.ListProviders(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers, "count": len(providers)})
}

func (ph *ProviderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	provider, err := ph.catalogService.GetProvider(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (ph *ProviderHandler) Create(c *gin.Context) {
	var req struct {
		Name         string `json:"name" binding:"required"`
		Category     string `json:"category"`
		WebsiteURL   string `json:"website_url"`
		ChangelogURL string `json:"changelog_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
		return
	}
	provider, err := ph.catalogService.UpsertProvider(c.Request.Context(), &types.Provider{
		ID:           uuid.New(),
		Name:         req.Name,
		Category:     req.Category,
		WebsiteURL:   req.WebsiteURL,
		ChangelogURL: req.ChangelogURL,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, provider)
}
