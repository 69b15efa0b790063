package routes

import (
	"github.com/gin-gonic/gin"

	chathandlers "github.com/deskpulse/deskpulse/internal/interfaces/http/handlers/chat"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
)

// ChatRouteConfig holds dependencies for ticket chat routes.
type ChatRouteConfig struct {
	ChatHandler      *chathandlers.ChatHandler
	BroadcastHandler *chathandlers.BroadcastHandler
	AuthMiddleware   *middleware.AuthMiddleware
	// PushEnabled registers the push endpoints. Without it clients poll check-new.
	PushEnabled bool
}

// SetupChatRoutes configures chat polling routes and, when push delivery is
// enabled, the channel handshake and WebSocket relay.
func SetupChatRoutes(engine *gin.Engine, cfg *ChatRouteConfig) {
	chat := engine.Group("/tickets/:ticket/chat")
	chat.Use(cfg.AuthMiddleware.RequireAuth())
	{
		chat.GET("", cfg.ChatHandler.ListMessages)
		chat.POST("", cfg.ChatHandler.SendMessage)
		chat.GET("/check-new", cfg.ChatHandler.CheckNewMessages)
		chat.POST("/mark-read", cfg.ChatHandler.MarkRead)
	}

	engine.GET("/chat/unread-count", cfg.AuthMiddleware.RequireAuth(), cfg.ChatHandler.UnreadCount)

	if !cfg.PushEnabled || cfg.BroadcastHandler == nil {
		return
	}

	engine.POST("/broadcasting/auth", cfg.AuthMiddleware.RequireAuth(), cfg.BroadcastHandler.AuthorizeChannel)
	// Browsers cannot set headers on a WebSocket handshake, so the token may ride in ?token=.
	engine.GET("/ws/tickets/:ticket", cfg.AuthMiddleware.RequireQueryAuth(), cfg.BroadcastHandler.TicketWS)
}
