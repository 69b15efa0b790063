package usecases

import (
	"context"

	"github.com/deskpulse/deskpulse/internal/domain/permission"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

type DeleteCommentCommand struct {
	CommentID uint
	Principal authorization.Principal
}

type DeleteCommentUseCase struct {
	commentRepo ticket.CommentRepository
	permissions PermissionChecker
	logger      logger.Interface
}

func NewDeleteCommentUseCase(
	commentRepo ticket.CommentRepository,
	permissions PermissionChecker,
	logger logger.Interface,
) *DeleteCommentUseCase {
	return &DeleteCommentUseCase{
		commentRepo: commentRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Execute lets the author, or a role with comments:delete_any, remove a comment.
func (uc *DeleteCommentUseCase) Execute(ctx context.Context, cmd DeleteCommentCommand) error {
	c, err := uc.commentRepo.GetByID(ctx, cmd.CommentID)
	if err != nil {
		uc.logger.Errorw("failed to load comment", "comment_id", cmd.CommentID, "error", err)
		return errors.NewInternalError("failed to load comment", err.Error())
	}
	if c == nil {
		return errors.NewNotFoundError(constants.ErrMsgCommentNotFound)
	}

	if !c.IsAuthoredBy(cmd.Principal) &&
		!uc.permissions.Can(ctx, cmd.Principal, permission.ResourceComments, permission.ActionDeleteAny) {
		uc.logger.Warnw("comment delete denied", "comment_id", cmd.CommentID, "user_id", cmd.Principal.UserID)
		return errors.NewForbiddenError("Unauthorized")
	}

	if err := uc.commentRepo.Delete(ctx, c.ID()); err != nil {
		uc.logger.Errorw("failed to delete comment", "comment_id", c.ID(), "error", err)
		return errors.NewInternalError("failed to delete comment", err.Error())
	}

	uc.logger.Infow("comment deleted successfully", "comment_id", c.ID(), "ticket_id", c.TicketID())
	return nil
}
