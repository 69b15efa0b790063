package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/application/access"
	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type GetTicketQuery struct {
	TicketID  uint
	Principal authorization.Principal
}

type GetTicketUseCase struct {
	guard       *access.Guard
	commentRepo ticket.CommentRepository
	userRepo    user.Repository
	renderer    MarkdownRenderer
	blobs       BlobStore
	logger      logger.Interface
}

func NewGetTicketUseCase(
	guard *access.Guard,
	commentRepo ticket.CommentRepository,
	userRepo user.Repository,
	renderer MarkdownRenderer,
	blobs BlobStore,
	logger logger.Interface,
) *GetTicketUseCase {
	return &GetTicketUseCase{
		guard:       guard,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		renderer:    renderer,
		blobs:       blobs,
		logger:      logger,
	}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := uc.guard.Authorize(ctx, query.Principal, query.TicketID)
	if err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to load comments", "ticket_id", t.ID(), "error", err)
		return nil, errors.NewInternalError("failed to load comments", err.Error())
	}

	ids := ticketUserIDs(t)
	for _, c := range comments {
		ids = append(ids, c.UserID())
	}
	users, err := loadUsers(ctx, uc.userRepo, ids)
	if err != nil {
		uc.logger.Warnw("failed to load ticket users", "ticket_id", t.ID(), "error", err)
	}

	result := dto.ToTicketDTO(t, users)
	result.Comments = make([]dto.CommentDTO, 0, len(comments))
	for _, c := range comments {
		result.Comments = append(result.Comments, dto.ToCommentDTO(c, users[c.UserID()]))
	}

	if uc.renderer != nil {
		html, err := uc.renderer.Render(t.Description())
		if err != nil {
			uc.logger.Warnw("failed to render description", "ticket_id", t.ID(), "error", err)
		} else {
			result.DescriptionHTML = html
		}
	}

	if key := t.Attachment(); key != nil && uc.blobs != nil {
		url, err := uc.blobs.PresignGet(ctx, *key)
		if err != nil {
			uc.logger.Warnw("failed to presign attachment", "ticket_id", t.ID(), "error", err)
		} else {
			result.AttachmentURL = &url
		}
	}

	return result, nil
}
