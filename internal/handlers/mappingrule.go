package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myaicademy/curriculum-ops/internal/repos"
	"github.com/myaicademy/curriculum-ops/internal/services"
)

type MappingRuleHandler struct {
	ruleService services.MappingRuleService
}

func NewMappingRuleHandler(ruleService services.MappingRuleService) *MappingRuleHandler {
	return &MappingRuleHandler{ruleService: ruleService}
}

func (mh *MappingRuleHandler) List(c *gin.Context) {
	filter := repos.MappingRuleFilter{QuestionID: c.Query("question_id")}
	if v := c.Query("active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}
	rules, err := mh.ruleService.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules, "count": len(rules)})
}

func (mh *MappingRuleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	rule, err := mh.ruleService.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (mh *MappingRuleHandler) Create(c *gin.Context) {
	var req services.MappingRuleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id and answer_value are required", "code": "bad_request"})
		return
	}
	rule, err := mh.ruleService.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (mh *MappingRuleHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		services.MappingRuleChanges
		Actor string `json:"actor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "bad_request"})
		return
	}
	rule, err := mh.ruleService.Update(c.Request.Context(), id, req.MappingRuleChanges, req.Actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (mh *MappingRuleHandler) History(c *gin.Context) {
	rules, err := mh.ruleService.VersionHistory(c.Request.Context(), c.Param("questionId"), c.Param("answerValue"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": rules, "count": len(rules)})
}
