package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/services"
)

type LessonHandler struct {
	catalogService services.CatalogService
}

func NewLessonHandler(catalogService services.CatalogService) *LessonHandler {
	return &LessonHandler{catalogService: catalogService}
}

func (lh *LessonHandler) List(c *gin.Context) {
	filter := repos.LessonFilter{
		Level:        c.Query("level"),
		ProviderName: c.Query("provider"),
	}
	lessons, err := lh.catalogService.ListLessons(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons, "count": len(lessons)})
}

func (lh *LessonHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lesson, err := lh.catalogService.GetLesson(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (lh *LessonHandler) Search(c *gin.Context) {
	lessons, err := lh.catalogService.SearchLessons(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons, "count": len(lessons)})
}
