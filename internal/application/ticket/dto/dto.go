package dto

import (
	"time"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
)

type UserSummaryDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type CommentDTO struct {
	ID        uint            `json:"id"`
	TicketID  uint            `json:"ticket_id"`
	UserID    uint            `json:"user_id"`
	Content   string          `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	User      *UserSummaryDTO `json:"user,omitempty"`
}

type TicketDTO struct {
	ID              uint            `json:"id"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description"`
	DescriptionHTML string          `json:"description_html,omitempty"`
	Category        string          `json:"category"`
	Priority        string          `json:"priority"`
	Status          string          `json:"status"`
	Attachment      *string         `json:"attachment"`
	AttachmentURL   *string         `json:"attachment_url,omitempty"`
	UserID          uint            `json:"user_id"`
	AssignedAdminID *uint           `json:"assigned_admin_id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	User            *UserSummaryDTO `json:"user,omitempty"`
	AssignedAdmin   *UserSummaryDTO `json:"assigned_admin,omitempty"`
	Comments        []CommentDTO    `json:"comments,omitempty"`
}

func ToUserSummaryDTO(u *user.User) *UserSummaryDTO {
	if u == nil {
		return nil
	}
	return &UserSummaryDTO{ID: u.ID(), Name: u.Name(), Role: u.Role().String()}
}

// ToTicketDTO maps the ticket. users resolves owner and assignee profiles and may be nil.
func ToTicketDTO(t *ticket.Ticket, users map[uint]*user.User) *TicketDTO {
	if t == nil {
		return nil
	}

	d := &TicketDTO{
		ID:              t.ID(),
		Subject:         t.Subject(),
		Description:     t.Description(),
		Category:        t.Category().String(),
		Priority:        t.Priority().String(),
		Status:          t.Status().String(),
		Attachment:      t.Attachment(),
		UserID:          t.UserID(),
		AssignedAdminID: t.AssignedAdminID(),
		CreatedAt:       t.CreatedAt(),
		UpdatedAt:       t.UpdatedAt(),
	}

	if users != nil {
		d.User = ToUserSummaryDTO(users[t.UserID()])
		if id := t.AssignedAdminID(); id != nil {
			d.AssignedAdmin = ToUserSummaryDTO(users[*id])
		}
	}
	return d
}

func ToCommentDTO(c *ticket.Comment, author *user.User) CommentDTO {
	return CommentDTO{
		ID:        c.ID(),
		TicketID:  c.TicketID(),
		UserID:    c.UserID(),
		Content:   c.Content(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
		User:      ToUserSummaryDTO(author),
	}
}
