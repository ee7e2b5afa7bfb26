package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/services"
)

type UpdateHandler struct {
	watcherService services.WatcherService
}

func NewUpdateHandler(watcherService services.WatcherService) *UpdateHandler {
	return &UpdateHandler{watcherService: watcherService}
}

func (uh *UpdateHandler) List(c *gin.Context) {
	filter := repos.UpdateFilter{Provider: c.Query("provider")}
	if v := c.Query("processed"); v != "" {
		processed := v == "true"
		filter.Processed = &processed
	}
	updates, err := uh.watcherService.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updates": updates, "count": len(updates)})
}

func (uh *UpdateHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	update, err := uh.watcherService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, update)
}

func (uh *UpdateHandler) Fetch(c *gin.Context) {
	useSimulated := c.Query("simulated") != "false"
	updates, err := uh.watcherService.FetchAll(c.Request.Context(), useSimulated)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_updates": updates, "count": len(updates)})
}
