package http

import (
	"github.com/deskpulse/deskpulse/internal/interfaces/http/handlers"
	chatHandlers "github.com/deskpulse/deskpulse/internal/interfaces/http/handlers/chat"
	ticketHandlers "github.com/deskpulse/deskpulse/internal/interfaces/http/handlers/ticket"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	healthHandler *handlers.HealthHandler

	// Auth
	authHandler *handlers.AuthHandler

	// Ticket
	ticketHandler *ticketHandlers.TicketHandler

	// Chat
	chatHandler      *chatHandlers.ChatHandler
	broadcastHandler *chatHandlers.BroadcastHandler
}

func (c *Container) newHandlers() *allHandlers {
	log := c.log
	ucs := c.ucs

	c.permissionMiddleware = middleware.NewPermissionMiddleware(ucs.permissions, log)

	var pinger handlers.Pinger
	if sqlDB, err := c.db.DB(); err == nil {
		pinger = sqlDB
	} else {
		log.Warnw("health check will not ping the database", "error", err)
	}

	h := &allHandlers{
		healthHandler: handlers.NewHealthHandler(pinger, log),
		authHandler: handlers.NewAuthHandler(
			ucs.registerUC, ucs.loginUC, ucs.logoutUC, ucs.getCurrentUserUC, log,
		),
		ticketHandler: ticketHandlers.NewTicketHandler(
			ucs.createTicketUC,
			ucs.listTicketsUC,
			ucs.getTicketUC,
			ucs.updateTicketUC,
			ucs.deleteTicketUC,
			ucs.assignTicketUC,
			ucs.addCommentUC,
			ucs.deleteCommentUC,
			log,
		),
		chatHandler: chatHandlers.NewChatHandler(
			ucs.listMessagesUC,
			ucs.sendMessageUC,
			ucs.checkNewMessagesUC,
			ucs.markReadUC,
			ucs.getUnreadCountUC,
			log,
		),
	}

	if c.cfg.Delivery.PushEnabled() {
		h.broadcastHandler = chatHandlers.NewBroadcastHandler(
			ucs.authorizeChannelUC, c.ticketHub, c.cfg.Server.AllowedOrigins, log.Named("broadcast"),
		)
	}

	return h
}
