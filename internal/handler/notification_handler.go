package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
	"github.com/linkup-social/linkup-backend/internal/middleware"
	"github.com/linkup-social/linkup-backend/internal/service"
)

// NotificationHandler handles notification HTTP requests
type NotificationHandler struct {
	service service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// Create handles POST /notifications — domain-event ingress from the post
// service (likes, comments).
func (h *NotificationHandler) Create(c *gin.Context) {
	var req domain.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	notification, err := h.service.Create(&req)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	// Self-notification is a silent no-op.
	common.SuccessResponse(c, notification, nil)
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	itemsPerPage := 10
	if n, err := strconv.Atoi(c.Query("items_per_page")); err == nil && n > 0 {
		itemsPerPage = n
	}

	list, err := h.service.List(userID, page, itemsPerPage)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := middleware.GetUserID(c)

	count, err := h.service.UnreadCount(userID)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"unreadCount": count}, nil)
}

// MarkRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid notification id", err)
		return
	}

	if err := h.service.MarkAsRead(uint(id), userID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"message": "Notification marked as read"}, nil)
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.service.MarkAllAsRead(userID); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"message": "All notifications marked as read"}, nil)
}
