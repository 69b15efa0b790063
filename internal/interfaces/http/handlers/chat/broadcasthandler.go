package chat

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/deskpulse/deskpulse/internal/application/chat/usecases"
	"github.com/deskpulse/deskpulse/internal/infrastructure/services"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxInboundSize = 4096
)

// ChannelAuthRequest binds from JSON or a urlencoded form, as push clients send either.
type ChannelAuthRequest struct {
	SocketID    string `json:"socket_id" form:"socket_id" validate:"required"`
	ChannelName string `json:"channel_name" form:"channel_name" validate:"required"`
}

// BroadcastHandler serves the push side of chat delivery: channel
// subscription handshakes and the WebSocket relay.
type BroadcastHandler struct {
	authorizeUC usecases.AuthorizeChannelExecutor
	hub         *services.TicketHub
	upgrader    websocket.Upgrader
	logger      logger.Interface
}

// NewBroadcastHandler creates a BroadcastHandler. WebSocket upgrades are
// accepted from allowedOrigins only; "*" admits any origin.
func NewBroadcastHandler(
	authorizeUC usecases.AuthorizeChannelExecutor,
	hub *services.TicketHub,
	allowedOrigins []string,
	log logger.Interface,
) *BroadcastHandler {
	return &BroadcastHandler{
		authorizeUC: authorizeUC,
		hub:         hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log,
	}
}

// AuthorizeChannel handles POST /broadcasting/auth
func (h *BroadcastHandler) AuthorizeChannel(c *gin.Context) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ChannelAuthRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warnw("invalid request body for channel auth", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("The given data was invalid."))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.authorizeUC.Execute(c.Request.Context(), usecases.AuthorizeChannelCommand{
		Principal:   p,
		SocketID:    req.SocketID,
		ChannelName: req.ChannelName,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// TicketWS handles GET /ws/tickets/:ticket
func (h *BroadcastHandler) TicketWS(c *gin.Context) {
	p, ticketID, ok := principalAndTicket(c)
	if !ok {
		return
	}

	if err := h.authorizeUC.AuthorizeTicket(c.Request.Context(), p, ticketID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("failed to upgrade ticket websocket",
			"error", err,
			"ticket_id", ticketID,
			"user_id", p.UserID,
		)
		return
	}

	conn := h.hub.Register(ticketID, p.UserID)
	if conn == nil {
		_ = ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		ws.Close()
		return
	}

	go h.writePump(ws, conn)
	h.readPump(ws, conn)
}

// readPump drains client frames so control messages are processed. Clients
// only listen; inbound data frames are discarded.
func (h *BroadcastHandler) readPump(ws *websocket.Conn, conn *services.TicketConn) {
	defer func() {
		h.hub.Unregister(conn)
		ws.Close()
	}()

	ws.SetReadLimit(maxInboundSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warnw("ticket websocket read error",
					"error", err,
					"ticket_id", conn.TicketID,
					"user_id", conn.UserID,
				)
			}
			return
		}
	}
}

func (h *BroadcastHandler) writePump(ws *websocket.Conn, conn *services.TicketConn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case payload, ok := <-conn.Send:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Warnw("failed to write to ticket websocket",
					"error", err,
					"ticket_id", conn.TicketID,
					"user_id", conn.UserID,
				)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
