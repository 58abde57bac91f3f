package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/application/chat"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/interfaces/http/middleware"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

type ChatHandler struct {
	service *chat.Service
	logger  logger.Logger
}

func NewChatHandler(service *chat.Service, log logger.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: log}
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.service.Ask(c.Request.Context(), c.GetString(middleware.CtxUserID), req.Message)
	if err != nil {
		h.logger.Error("chat failed", logger.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant is unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply":    reply.Message,
		"products": toProductResponses(reply.Products),
	})
}
