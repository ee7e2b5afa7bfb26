package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/repos"
)

type AuditLogHandler struct {
	auditRepo repos.AuditLogRepo
}

func NewAuditLogHandler(auditRepo repos.AuditLogRepo) *AuditLogHandler {
	return &AuditLogHandler{auditRepo: auditRepo}
}

func (ah *AuditLogHandler) List(c *gin.Context) {
	filter := repos.AuditLogFilter{
		EntityType: c.Query("entity_type"),
		Action:     c.Query("action"),
	}
	logs, err := ah.auditRepo.List(c.Request.Context(), nil, filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}

func (ah *AuditLogHandler) ByEntity(c *gin.Context) {
	id, ok := parseID(c, "entityId")
	if !ok {
		return
	}
	logs, err := ah.auditRepo.GetByEntity(c.Request.Context(), nil, c.Param("entityType"), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "count": len(logs)})
}
