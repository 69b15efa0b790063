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

type AddCommentCommand struct {
	TicketID  uint
	Principal authorization.Principal
	Content   string
}

type AddCommentUseCase struct {
	guard       *access.Guard
	commentRepo ticket.CommentRepository
	userRepo    user.Repository
	logger      logger.Interface
}

func NewAddCommentUseCase(
	guard *access.Guard,
	commentRepo ticket.CommentRepository,
	userRepo user.Repository,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		guard:       guard,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing add comment use case", "ticket_id", cmd.TicketID, "user_id", cmd.Principal.UserID)

	if _, err := uc.guard.Authorize(ctx, cmd.Principal, cmd.TicketID); err != nil {
		return nil, err
	}

	comment, err := ticket.NewComment(cmd.TicketID, cmd.Principal.UserID, cmd.Content)
	if err != nil {
		return nil, errors.NewFieldValidationError("content", err.Error())
	}

	if err := uc.commentRepo.Save(ctx, comment); err != nil {
		uc.logger.Errorw("failed to save comment", "ticket_id", cmd.TicketID, "error", err)
		return nil, errors.NewInternalError("failed to save comment", err.Error())
	}

	author, err := uc.userRepo.GetByID(ctx, cmd.Principal.UserID)
	if err != nil {
		uc.logger.Warnw("failed to load comment author", "user_id", cmd.Principal.UserID, "error", err)
	}

	uc.logger.Infow("comment added successfully", "comment_id", comment.ID(), "ticket_id", cmd.TicketID)
	result := dto.ToCommentDTO(comment, author)
	return &result, nil
}
