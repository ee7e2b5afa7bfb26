package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/services"
)

type CourseHandler struct {
	catalogService services.CatalogService
}

func NewCourseHandler(catalogService services.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

func (ch *CourseHandler) List(c *gin.Context) {
	filter := repos.CourseFilter{
		Track: c.Query("track"),
		Level: c.Query("level"),
	}
	courses, err := ch.catalogService.ListCourses(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "count": len(courses)})
}

func (ch *CourseHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	course, err := ch.catalogService.GetCourse(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (ch *CourseHandler) Lessons(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	lessons, err := ch.catalogService.GetCourseLessons(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons, "count": len(lessons)})
}
