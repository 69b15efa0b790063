package usecases

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/deskpulse/deskpulse/internal/application/ticket/dto"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	"github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// AttachmentUpload is an uploaded file waiting to be stored.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type CreateTicketCommand struct {
	Principal   authorization.Principal
	Subject     string
	Description string
	Category    string
	Priority    string
	Attachment  *AttachmentUpload
}

type CreateTicketUseCase struct {
	ticketRepo ticket.TicketRepository
	userRepo   user.Repository
	blobs      BlobStore
	logger     logger.Interface
}

// NewCreateTicketUseCase wires the use case. blobs may be nil when storage is disabled.
func NewCreateTicketUseCase(
	ticketRepo ticket.TicketRepository,
	userRepo user.Repository,
	blobs BlobStore,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		blobs:      blobs,
		logger:     logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "subject", cmd.Subject, "user_id", cmd.Principal.UserID)

	newTicket, err := ticket.NewTicket(
		cmd.Subject,
		cmd.Description,
		vo.Category(cmd.Category),
		vo.Priority(cmd.Priority),
		cmd.Principal.UserID,
	)
	if err != nil {
		uc.logger.Warnw("invalid create ticket command", "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	var storedKey string
	if cmd.Attachment != nil {
		key, err := uc.storeAttachment(ctx, cmd.Attachment)
		if err != nil {
			return nil, err
		}
		storedKey = key
		newTicket.SetAttachment(key)
	}

	if err := uc.ticketRepo.Save(ctx, newTicket); err != nil {
		uc.logger.Errorw("failed to save ticket", "error", err)
		if storedKey != "" {
			uc.removeAttachment(ctx, storedKey)
		}
		return nil, errors.NewInternalError("failed to create ticket", err.Error())
	}

	uc.logger.Infow("ticket created successfully", "ticket_id", newTicket.ID(), "user_id", newTicket.UserID())

	users, err := loadUsers(ctx, uc.userRepo, ticketUserIDs(newTicket))
	if err != nil {
		uc.logger.Warnw("failed to load ticket owner", "ticket_id", newTicket.ID(), "error", err)
	}
	return dto.ToTicketDTO(newTicket, users), nil
}

func (uc *CreateTicketUseCase) storeAttachment(ctx context.Context, a *AttachmentUpload) (string, error) {
	if uc.blobs == nil {
		return "", errors.NewFieldValidationError("attachment", "Attachments are not enabled.")
	}
	if a.Size > constants.MaxAttachmentBytes {
		return "", errors.NewFieldValidationError("attachment",
			fmt.Sprintf("The attachment field must not be greater than %d kilobytes.", constants.MaxAttachmentBytes/1024))
	}

	key := fmt.Sprintf("tickets/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(a.Filename)))
	if err := uc.blobs.Put(ctx, key, a.Body, a.Size, a.ContentType); err != nil {
		uc.logger.Errorw("failed to store attachment", "key", key, "error", err)
		return "", errors.NewInternalError("failed to store attachment", err.Error())
	}
	return key, nil
}

func (uc *CreateTicketUseCase) removeAttachment(ctx context.Context, key string) {
	if err := uc.blobs.Remove(ctx, key); err != nil {
		uc.logger.Warnw("failed to remove orphaned attachment", "key", key, "error", err)
	}
}
