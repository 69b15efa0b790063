package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	tickethandlers "github.com/deskpulse/deskpulse/internal/interfaces/http/handlers/ticket"
	"github.com/deskpulse/deskpulse/internal/interfaces/http/middleware"
)

type TicketRouteConfig struct {
	TicketHandler        *tickethandlers.TicketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

func SetupTicketRoutes(engine *gin.Engine, config *TicketRouteConfig) {
	tickets := engine.Group("/tickets")
	tickets.Use(config.AuthMiddleware.RequireAuth())
	{
		tickets.POST("",
			config.TicketHandler.CreateTicket)
		tickets.GET("",
			config.TicketHandler.ListTickets)

		// Specific action endpoints
		tickets.POST("/:ticket/assign",
			config.PermissionMiddleware.RequirePermission(permission.ResourceTickets, permission.ActionAssign),
			config.TicketHandler.AssignTicket)
		tickets.POST("/:ticket/comments",
			config.TicketHandler.AddComment)

		tickets.GET("/:ticket",
			config.TicketHandler.GetTicket)
		tickets.PUT("/:ticket",
			config.TicketHandler.UpdateTicket)
		tickets.PATCH("/:ticket",
			config.TicketHandler.UpdateTicket)
		tickets.DELETE("/:ticket",
			config.TicketHandler.DeleteTicket)
	}

	comments := engine.Group("/comments")
	comments.Use(config.AuthMiddleware.RequireAuth())
	{
		comments.DELETE("/:comment",
			config.TicketHandler.DeleteComment)
	}
}
