package ticket

import (
	"github.com/deskpulse/deskpulse/internal/application/ticket/usecases"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

// CreateTicketRequest binds from JSON or a multipart form.
type CreateTicketRequest struct {
	Subject     string `json:"subject" form:"subject" validate:"required,max=255"`
	Description string `json:"description" form:"description" validate:"required"`
	Category    string `json:"category" form:"category" validate:"required,oneof=technical billing general feature_request"`
	Priority    string `json:"priority" form:"priority" validate:"required,oneof=low medium high urgent"`
}

func (r *CreateTicketRequest) ToCommand(p authorization.Principal) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Principal:   p,
		Subject:     r.Subject,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
	}
}

// UpdateTicketRequest is a partial update; absent fields stay unchanged.
type UpdateTicketRequest struct {
	Subject     *string `json:"subject" validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty"`
	Category    *string `json:"category" validate:"omitempty,oneof=technical billing general feature_request"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
}

func (r *UpdateTicketRequest) ToCommand(ticketID uint, p authorization.Principal) usecases.UpdateTicketCommand {
	return usecases.UpdateTicketCommand{
		TicketID:    ticketID,
		Principal:   p,
		Subject:     r.Subject,
		Description: r.Description,
		Category:    r.Category,
		Priority:    r.Priority,
		Status:      r.Status,
	}
}

type AssignTicketRequest struct {
	AdminID uint `json:"admin_id" validate:"required"`
}

type AddCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

type ListTicketsRequest struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
	Category string `form:"category"`
}

func (r *ListTicketsRequest) ToQuery(p authorization.Principal) usecases.ListTicketsQuery {
	return usecases.ListTicketsQuery{
		Principal: p,
		Status:    r.Status,
		Priority:  r.Priority,
		Category:  r.Category,
	}
}
