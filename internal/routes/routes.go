package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/linkup-social/linkup-backend/internal/handler"
	"github.com/linkup-social/linkup-backend/internal/middleware"
	"github.com/linkup-social/linkup-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	chatHandler *handler.ChatHandler,
	friendHandler *handler.FriendHandler,
	notificationHandler *handler.NotificationHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	// Realtime channel; identity travels in the handshake, not a header.
	router.GET("/ws", wsHandler.Handle)

	api := router.Group("/api", middleware.JWTAuth(jwtManager))

	chat := api.Group("/chat")
	chat.GET("/history/:userId", chatHandler.History)
	chat.GET("/conversations", chatHandler.Conversations)
	chat.PATCH("/read/:userId", chatHandler.MarkRead)

	friend := api.Group("/friend")
	friend.POST("/request", friendHandler.SendRequest)
	friend.POST("/respond", friendHandler.Respond)
	friend.DELETE("/:friendId", friendHandler.Unfriend)
	friend.POST("/block/:userId", friendHandler.Block)
	friend.GET("/list", friendHandler.List)
	friend.GET("/pending", friendHandler.Pending)
	friend.GET("/status/:userId", friendHandler.Status)

	notifications := api.Group("/notifications")
	notifications.POST("", notificationHandler.Create)
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread-count", notificationHandler.UnreadCount)
	notifications.PATCH("/:id/read", notificationHandler.MarkRead)
	notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
}
