package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/services"
)

type CourseGenHandler struct {
	synthesizer services.CourseSynthesizer
}

func NewCourseGenHandler(synthesizer services.CourseSynthesizer) *CourseGenHandler {
	return &CourseGenHandler{synthesizer: synthesizer}
}

func (cg *CourseGenHandler) Generate(c *gin.Context) {
	var req struct {
		ReportIDs   []string `json:"report_ids"`
		AllApproved bool     `json:"all_approved"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ReportIDs))
	for _, raw := range req.ReportIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id: " + raw, "code": "bad_request"})
			return
		}
		ids = append(ids, id)
	}

	result, err := cg.synthesizer.GenerateFromReports(c.Request.Context(), ids, req.AllApproved)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
