package usecases

import (
	"context"
	"io"

	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) ([]*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*dto.TicketDTO, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error)
}

type DeleteCommentExecutor interface {
	Execute(ctx context.Context, cmd DeleteCommentCommand) error
}

// BlobStore holds ticket attachments.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

// Notifier tells people about ticket changes. Calls run in the background.
type Notifier interface {
	NotifyAssigned(ctx context.Context, t *ticket.Ticket, assignee *user.User) error
	NotifyStatusChanged(ctx context.Context, t *ticket.Ticket, owner *user.User) error
}

// PermissionChecker answers role capability questions.
type PermissionChecker interface {
	Can(ctx context.Context, p authorization.Principal, resource permission.Resource, action permission.Action) bool
}

// MarkdownRenderer renders descriptions to sanitized HTML.
type MarkdownRenderer interface {
	Render(source string) (string, error)
}
