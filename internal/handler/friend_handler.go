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

// FriendHandler handles friendship HTTP requests
type FriendHandler struct {
	service service.FriendService
}

// NewFriendHandler creates a new FriendHandler
func NewFriendHandler(service service.FriendService) *FriendHandler {
	return &FriendHandler{service: service}
}

// SendRequest handles POST /friend/request
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	friendship, err := h.service.SendRequest(userID, req.AddresseeID)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, friendship, nil)
}

// Respond handles POST /friend/respond
func (h *FriendHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req domain.RespondFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	friendship, err := h.service.Respond(userID, req.FriendshipID, req.Action)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, friendship, nil)
}

// Unfriend handles DELETE /friend/:friendId
func (h *FriendHandler) Unfriend(c *gin.Context) {
	userID := middleware.GetUserID(c)

	friendID, err := strconv.ParseUint(c.Param("friendId"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid friend id", err)
		return
	}

	if err := h.service.Unfriend(userID, uint(friendID)); err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"message": "Unfriended successfully"}, nil)
}

// Block handles POST /friend/block/:userId
func (h *FriendHandler) Block(c *gin.Context) {
	userID := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	friendship, err := h.service.Block(userID, uint(targetID))
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, friendship, nil)
}

// List handles GET /friend/list
func (h *FriendHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)

	page := 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}
	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	friends, meta, err := h.service.ListFriends(userID, page, limit)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, friends, meta)
}

// Pending handles GET /friend/pending
func (h *FriendHandler) Pending(c *gin.Context) {
	userID := middleware.GetUserID(c)

	requests, err := h.service.ListPending(userID)
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, requests, nil)
}

// Status handles GET /friend/status/:userId
func (h *FriendHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)

	otherID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid user id", err)
		return
	}

	status, err := h.service.Status(userID, uint(otherID))
	if err != nil {
		common.ServiceErrorResponse(c, err)
		return
	}
	common.SuccessResponse(c, status, nil)
}
