package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/middleware"
	"github.com/linkup-social/linkup-backend/internal/service"
)

// ChatHandler handles chat history HTTP requests
type ChatHandler struct {
	service service.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service service.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// History handles GET /chat/history/:userId
func (h *ChatHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 50
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "invalid before timestamp", err)
			return
		}
		before = &t
	}

	history, err := h.service.GetHistory(userID, uint(otherID), page, limit, before)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// Conversations handles GET /chat/conversations
func (h *ChatHandler) Conversations(c *gin.Context) {
	userID := middleware.GetUserID(c)

	conversations, err := h.service.GetConversations(userID)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, conversations, nil)
}

// MarkRead handles PATCH /chat/read/:userId
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	if err := h.service.MarkAsRead(userID, uint(otherID)); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"message": "Messages marked as read"}, nil)
}
