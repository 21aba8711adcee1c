package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/linkup-social/linkup-backend/internal/common"
	"github.com/linkup-social/linkup-backend/internal/domain"
)

// --- Mock FriendService ---

type mockFriendService struct {
	mock.Mock
}

func (m *mockFriendService) SendRequest(requesterID, addresseeID uint) (*domain.Friendship, error) {
	args := m.Called(requesterID, addresseeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *mockFriendService) Respond(userID, friendshipID uint, action string) (*domain.Friendship, error) {
	args := m.Called(userID, friendshipID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *mockFriendService) Unfriend(userID, friendID uint) error {
	return m.Called(userID, friendID).Error(0)
}

func (m *mockFriendService) Block(userID, targetID uint) (*domain.Friendship, error) {
	args := m.Called(userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *mockFriendService) AreFriends(userA, userB uint) (bool, error) {
	args := m.Called(userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *mockFriendService) Status(userA, userB uint) (*domain.FriendshipStatusResponse, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendshipStatusResponse), args.Error(1)
}

func (m *mockFriendService) ListFriends(userID uint, page, limit int) ([]*domain.FriendResponse, *common.Meta, error) {
	args := m.Called(userID, page, limit)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]*domain.FriendResponse), args.Get(1).(*common.Meta), args.Error(2)
}

func (m *mockFriendService) ListPending(userID uint) ([]*domain.PendingRequestResponse, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PendingRequestResponse), args.Error(1)
}

func setupFriendRouter(svc *mockFriendService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFriendHandler(svc)

	router := gin.New()
	// Stand-in for the JWT middleware: every request acts as user 1.
	router.Use(func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Next()
	})
	router.POST("/friend/request", h.SendRequest)
	router.POST("/friend/respond", h.Respond)
	router.DELETE("/friend/:friendId", h.Unfriend)
	router.POST("/friend/block/:userId", h.Block)
	router.GET("/friend/status/:userId", h.Status)
	return router
}

func TestSendRequestHandler_Success(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("SendRequest", uint(1), uint(2)).
		Return(&domain.Friendship{ID: 10, RequesterID: 1, AddresseeID: 2, Status: domain.FriendshipPending}, nil)

	body := bytes.NewBufferString(`{"addresseeId":2}`)
	req := httptest.NewRequest(http.MethodPost, "/friend/request", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
}

func TestSendRequestHandler_InvalidBody(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/friend/request", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "SendRequest", mock.Anything, mock.Anything)
}

func TestSendRequestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"addressee missing", common.ErrUserNotFound, http.StatusNotFound},
		{"already sent", common.ErrRequestAlreadySent, http.StatusConflict},
		{"already friends", common.ErrAlreadyFriends, http.StatusConflict},
		{"pair blocked", common.ErrPairBlocked, http.StatusConflict},
		{"concurrent modification", common.ErrStaleFriendship, http.StatusConflict},
		{"self request", common.ErrSelfRequest, http.StatusBadRequest},
		{"infrastructure failure", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockFriendService)
			router := setupFriendRouter(svc)

			svc.On("SendRequest", uint(1), uint(2)).Return(nil, tt.serviceErr)

			req := httptest.NewRequest(http.MethodPost, "/friend/request", bytes.NewBufferString(`{"addresseeId":2}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSendRequestHandler_MasksInternalError(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("SendRequest", uint(1), uint(2)).Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodPost, "/friend/request", bytes.NewBufferString(`{"addresseeId":2}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestRespondHandler_NotAddressee(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("Respond", uint(1), uint(10), "accept").Return(nil, common.ErrNotAddressee)

	req := httptest.NewRequest(http.MethodPost, "/friend/respond",
		bytes.NewBufferString(`{"friendshipId":10,"action":"accept"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondHandler_RejectsUnknownAction(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/friend/respond",
		bytes.NewBufferString(`{"friendshipId":10,"action":"maybe"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Binding validation catches the bad action before the service is reached.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Respond", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnfriendHandler_NotFriends(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("Unfriend", uint(1), uint(2)).Return(common.ErrNotFriends)

	req := httptest.NewRequest(http.MethodDelete, "/friend/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnfriendHandler_InvalidID(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/friend/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Unfriend", mock.Anything, mock.Anything)
}

func TestBlockHandler_Success(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("Block", uint(1), uint(2)).
		Return(&domain.Friendship{ID: 10, RequesterID: 1, AddresseeID: 2, Status: domain.FriendshipBlocked}, nil)

	req := httptest.NewRequest(http.MethodPost, "/friend/block/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"blocked"`)
}

func TestStatusHandler_NoRelationship(t *testing.T) {
	svc := new(mockFriendService)
	router := setupFriendRouter(svc)

	svc.On("Status", uint(1), uint(2)).
		Return(&domain.FriendshipStatusResponse{Status: nil, Message: "No friendship exists"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/friend/status/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":null`)
}
