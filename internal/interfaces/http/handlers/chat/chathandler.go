// Package chat provides HTTP handlers for ticket chat delivery and read state.
package chat

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/application/chat/usecases"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils"
)

const ticketParam = "ticket"

type ChatHandler struct {
	listMessagesUC usecases.ListMessagesExecutor
	sendMessageUC  usecases.SendMessageExecutor
	checkNewUC     usecases.CheckNewMessagesExecutor
	markReadUC     usecases.MarkReadExecutor
	unreadCountUC  usecases.GetUnreadCountExecutor
	logger         logger.Interface
}

func NewChatHandler(
	listMessagesUC usecases.ListMessagesExecutor,
	sendMessageUC usecases.SendMessageExecutor,
	checkNewUC usecases.CheckNewMessagesExecutor,
	markReadUC usecases.MarkReadExecutor,
	unreadCountUC usecases.GetUnreadCountExecutor,
	logger logger.Interface,
) *ChatHandler {
	return &ChatHandler{
		listMessagesUC: listMessagesUC,
		sendMessageUC:  sendMessageUC,
		checkNewUC:     checkNewUC,
		markReadUC:     markReadUC,
		unreadCountUC:  unreadCountUC,
		logger:         logger,
	}
}

type SendMessageRequest struct {
	Message string `json:"message"`
}

// ListMessages handles GET /tickets/:ticket/chat
func (h *ChatHandler) ListMessages(c *gin.Context) {
	p, ticketID, ok := principalAndTicket(c)
	if !ok {
		return
	}

	result, err := h.listMessagesUC.Execute(c.Request.Context(), usecases.ListMessagesQuery{
		TicketID:  ticketID,
		Principal: p,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// SendMessage handles POST /tickets/:ticket/chat
func (h *ChatHandler) SendMessage(c *gin.Context) {
	p, ticketID, ok := principalAndTicket(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.logger.Warnw("invalid request body for send message", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewFieldValidationError("message", "The message field must be a string."))
		return
	}

	result, err := h.sendMessageUC.Execute(c.Request.Context(), usecases.SendMessageCommand{
		TicketID:  ticketID,
		Principal: p,
		Message:   req.Message,
	})
	if err != nil {
		utils.CauseErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// CheckNewMessages handles GET /tickets/:ticket/chat/check-new
func (h *ChatHandler) CheckNewMessages(c *gin.Context) {
	p, ticketID, ok := principalAndTicket(c)
	if !ok {
		return
	}

	lastMessageID, err := parseLastMessageID(c.Query("last_message_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.checkNewUC.Execute(c.Request.Context(), usecases.CheckNewMessagesQuery{
		TicketID:      ticketID,
		Principal:     p,
		LastMessageID: lastMessageID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// MarkRead handles POST /tickets/:ticket/chat/mark-read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	p, ticketID, ok := principalAndTicket(c)
	if !ok {
		return
	}

	result, err := h.markReadUC.Execute(c.Request.Context(), usecases.MarkReadCommand{
		TicketID:  ticketID,
		Principal: p,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Debugw("chat messages marked read", "ticket_id", ticketID, "user_id", p.UserID, "updated", result.Updated)
	utils.MessageResponse(c, http.StatusOK, "Messages marked as read")
}

// UnreadCount handles GET /chat/unread-count
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.unreadCountUC.Execute(c.Request.Context(), usecases.GetUnreadCountQuery{Principal: p})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// parseLastMessageID accepts an absent value as 0 and otherwise requires a
// non-negative integer.
func parseLastMessageID(raw string) (uint, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.NewFieldValidationError("last_message_id", "The last message id field must be a non-negative integer.")
	}
	return uint(id), nil
}

// principalAndTicket writes the error response itself and reports ok=false on failure.
func principalAndTicket(c *gin.Context) (authorization.Principal, uint, bool) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return p, 0, false
	}

	ticketID, err := utils.ParseIDParam(c, ticketParam, constants.ErrMsgTicketNotFound)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return p, 0, false
	}
	return p, ticketID, true
}
