package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/services"
	"github.com/myaicademy/curriculum-ops/internal/types"
)

type ImpactReportHandler struct {
	reviewService   services.ReviewService
	analyzerService services.AnalyzerService
	watcherService  services.WatcherService
}

func NewImpactReportHandler(reviewService services.ReviewService, analyzerService services.AnalyzerService, watcherService services.WatcherService) *ImpactReportHandler {
	return &ImpactReportHandler{
		reviewService:   reviewService,
		analyzerService: analyzerService,
		watcherService:  watcherService,
	}
}

func (ih *ImpactReportHandler) List(c *gin.Context) {
	filter := repos.ImpactReportFilter{
		Status:            c.Query("status"),
		Provider:          c.Query("provider"),
		RecommendedAction: c.Query("action"),
	}
	reports, err := ih.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
}

func (ih *ImpactReportHandler) Stats(c *gin.Context) {
	stats, err := ih.analyzerService.Stats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (ih *ImpactReportHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	report, err := ih.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Analyze runs the analyzer for one update, or for every unprocessed
// update when no update_id is given.
func (ih *ImpactReportHandler) Analyze(c *gin.Context) {
	var req struct {
		UpdateID string `json:"update_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
		return
	}

	if req.UpdateID == "" {
		reports, err := ih.analyzerService.AnalyzeAllUnprocessed(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports, "count": len(reports)})
		return
	}

	id, err := uuid.Parse(req.UpdateID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update_id", "code": "bad_request"})
		return
	}
	update, err := ih.watcherService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	report, err := ih.analyzerService.Analyze(c.Request.Context(), update)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ih *ImpactReportHandler) Approve(c *gin.Context) {
	ih.transition(c, ih.reviewService.Approve)
}

func (ih *ImpactReportHandler) Reject(c *gin.Context) {
	ih.transition(c, ih.reviewService.Reject)
}

func (ih *ImpactReportHandler) Done(c *gin.Context) {
	ih.transition(c, ih.reviewService.MarkDone)
}

func (ih *ImpactReportHandler) Assign(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Assignee string `json:"assignee" binding:"required"`
		Actor    string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignee is required", "code": "bad_request"})
		return
	}
	report, err := ih.reviewService.Assign(c.Request.Context(), id, req.Assignee, req.Actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (ih *ImpactReportHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID, actor string) (*types.ImpactReport, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Actor string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
		return
	}
	report, err := fn(c.Request.Context(), id, req.Actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
