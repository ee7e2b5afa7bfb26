package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/myaicademy/curriculum-ops/internal/services"
)

// statusFor maps service sentinel errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, services.ErrConfig):
		return http.StatusInternalServerError, "config_error"
	case errors.Is(err, services.ErrParse):
		return http.StatusBadGateway, "parse_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondErr(c *gin.Context, err error) {
	status, code := statusFor(err)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param, "code": "bad_request"})
		return uuid.Nil, false
	}
	return id, true
}
