package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/model"
	"github.com/nexushr/nexushr/internal/pkg/response"
	"github.com/nexushr/nexushr/internal/service"
)

type ChatHandler struct {
	query *service.QueryService
}

func NewChatHandler(query *service.QueryService) *ChatHandler {
	return &ChatHandler{query: query}
}

type queryRequest struct {
	Question       string               `json:"question"`
	ChatHistory    []model.ChatExchange `json:"chat_history"`
	IncludeSources *bool                `json:"include_sources"`
}

func (h *ChatHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	includeSources := true
	if req.IncludeSources != nil {
		includeSources = *req.IncludeSources
	}
	result, err := h.query.Answer(c.Request.Context(), req.Question, req.ChatHistory, includeSources)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, result)
}

type questionRequest struct {
	Question string `json:"question"`
}

func (h *ChatHandler) ClassifyIntent(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	response.Success(c, gin.H{"intent": h.query.ClassifyIntent(req.Question)})
}

func (h *ChatHandler) Suggest(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	response.Success(c, gin.H{"suggestions": h.query.Suggest(req.Question)})
}
