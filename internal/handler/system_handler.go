package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/pkg/response"
	"github.com/nexushr/nexushr/internal/service"
)

type SystemHandler struct {
	documents *service.DocumentService
}

func NewSystemHandler(documents *service.DocumentService) *SystemHandler {
	return &SystemHandler{documents: documents}
}

func (h *SystemHandler) Health(c *gin.Context) {
	payload := gin.H{
		"status":            "healthy",
		"documents_loaded":  0,
		"ready_for_queries": false,
	}
	if stats, err := h.documents.Stats(c.Request.Context()); err == nil {
		payload["documents_loaded"] = stats.DocumentCount
		payload["ready_for_queries"] = stats.DocumentCount > 0
	}
	response.Success(c, payload)
}

func (h *SystemHandler) Info(c *gin.Context) {
	response.Success(c, gin.H{
		"name":        "nexushr",
		"description": "HR document assistant",
		"auth":        "bearer",
		"roles":       []string{"admin", "hr_manager", "employee"},
	})
}
