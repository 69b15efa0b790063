package ticket

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/deskpulse/deskpulse/internal/application/ticket/usecases"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
	"github.com/deskpulse/deskpulse/internal/shared/utils"
)

const (
	ticketParam  = "ticket"
	commentParam = "comment"
)

type TicketHandler struct {
	createTicketUC  usecases.CreateTicketExecutor
	listTicketsUC   usecases.ListTicketsExecutor
	getTicketUC     usecases.GetTicketExecutor
	updateTicketUC  usecases.UpdateTicketExecutor
	deleteTicketUC  usecases.DeleteTicketExecutor
	assignTicketUC  usecases.AssignTicketExecutor
	addCommentUC    usecases.AddCommentExecutor
	deleteCommentUC usecases.DeleteCommentExecutor
	logger          logger.Interface
}

func NewTicketHandler(
	createTicketUC usecases.CreateTicketExecutor,
	listTicketsUC usecases.ListTicketsExecutor,
	getTicketUC usecases.GetTicketExecutor,
	updateTicketUC usecases.UpdateTicketExecutor,
	deleteTicketUC usecases.DeleteTicketExecutor,
	assignTicketUC usecases.AssignTicketExecutor,
	addCommentUC usecases.AddCommentExecutor,
	deleteCommentUC usecases.DeleteCommentExecutor,
	logger logger.Interface,
) *TicketHandler {
	return &TicketHandler{
		createTicketUC:  createTicketUC,
		listTicketsUC:   listTicketsUC,
		getTicketUC:     getTicketUC,
		updateTicketUC:  updateTicketUC,
		deleteTicketUC:  deleteTicketUC,
		assignTicketUC:  assignTicketUC,
		addCommentUC:    addCommentUC,
		deleteCommentUC: deleteCommentUC,
		logger:          logger,
	}
}

// CreateTicket handles POST /tickets
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	multipartForm := strings.HasPrefix(c.ContentType(), "multipart/form-data")

	var req CreateTicketRequest
	if multipartForm {
		err = c.ShouldBind(&req)
	} else {
		err = bindJSON(c, &req)
	}
	if err != nil {
		h.logger.Warnw("invalid request body for create ticket", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("The given data was invalid."))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := req.ToCommand(p)

	if multipartForm {
		header, err := c.FormFile("attachment")
		switch {
		case err == nil:
			file, openErr := header.Open()
			if openErr != nil {
				h.logger.Warnw("failed to open uploaded attachment", "error", openErr)
				utils.ErrorResponseWithError(c, errors.NewFieldValidationError("attachment", "The attachment failed to upload."))
				return
			}
			defer file.Close()
			cmd.Attachment = toAttachmentUpload(header, file)
		case err != http.ErrMissingFile:
			h.logger.Warnw("invalid attachment upload", "error", err)
			utils.ErrorResponseWithError(c, errors.NewFieldValidationError("attachment", "The attachment failed to upload."))
			return
		}
	}

	result, err := h.createTicketUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// ListTickets handles GET /tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("The given data was invalid."))
		return
	}

	result, err := h.listTicketsUC.Execute(c.Request.Context(), req.ToQuery(p))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// GetTicket handles GET /tickets/:ticket
func (h *TicketHandler) GetTicket(c *gin.Context) {
	p, ticketID, ok := h.principalAndTicket(c)
	if !ok {
		return
	}

	result, err := h.getTicketUC.Execute(c.Request.Context(), usecases.GetTicketQuery{
		TicketID:  ticketID,
		Principal: p,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// UpdateTicket handles PUT/PATCH /tickets/:ticket
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	p, ticketID, ok := h.principalAndTicket(c)
	if !ok {
		return
	}

	var req UpdateTicketRequest
	if err := bindJSON(c, &req); err != nil {
		h.logger.Warnw("invalid request body for update ticket", "ticket_id", ticketID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("The given data was invalid."))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.updateTicketUC.Execute(c.Request.Context(), req.ToCommand(ticketID, p))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// DeleteTicket handles DELETE /tickets/:ticket
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	p, ticketID, ok := h.principalAndTicket(c)
	if !ok {
		return
	}

	err := h.deleteTicketUC.Execute(c.Request.Context(), usecases.DeleteTicketCommand{
		TicketID:  ticketID,
		Principal: p,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Ticket deleted successfully")
}

// AssignTicket handles POST /tickets/:ticket/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	p, ticketID, ok := h.principalAndTicket(c)
	if !ok {
		return
	}

	var req AssignTicketRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewFieldValidationError("admin_id", "The admin id field must be an integer."))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.assignTicketUC.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		TicketID:  ticketID,
		Principal: p,
		AdminID:   req.AdminID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, result)
}

// AddComment handles POST /tickets/:ticket/comments
func (h *TicketHandler) AddComment(c *gin.Context) {
	p, ticketID, ok := h.principalAndTicket(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := bindJSON(c, &req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewFieldValidationError("content", "The content field must be a string."))
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.addCommentUC.Execute(c.Request.Context(), usecases.AddCommentCommand{
		TicketID:  ticketID,
		Principal: p,
		Content:   req.Content,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}

// DeleteComment handles DELETE /comments/:comment
func (h *TicketHandler) DeleteComment(c *gin.Context) {
	p, err := utils.RequirePrincipal(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	commentID, err := utils.ParseIDParam(c, commentParam, constants.ErrMsgCommentNotFound)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err = h.deleteCommentUC.Execute(c.Request.Context(), usecases.DeleteCommentCommand{
		CommentID: commentID,
		Principal: p,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.MessageResponse(c, http.StatusOK, "Comment deleted successfully")
}

// principalAndTicket writes the error response itself and reports ok=false on failure.
func (h *TicketHandler) principalAndTicket(c *gin.Context) (authorization.Principal, uint, bool) {
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

// bindJSON treats an empty body as an empty object so validation reports
// the missing fields.
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func toAttachmentUpload(header *multipart.FileHeader, file multipart.File) *usecases.AttachmentUpload {
	return &usecases.AttachmentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
}
