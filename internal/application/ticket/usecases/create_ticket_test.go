package usecases

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/shared/constants"
	apperrors "github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func TestCreateTicketUseCase_Execute(t *testing.T) {
	t.Run("applies defaults and embeds the owner", func(t *testing.T) {
		repo := &mockTicketRepository{}
		uc := NewCreateTicketUseCase(repo, defaultUsers(), nil, logger.NewNopLogger())

		result, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "  VPN keeps dropping ",
			Description: "Every ten minutes",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(1), result.ID)
		assert.Equal(t, "VPN keeps dropping", result.Subject)
		assert.Equal(t, "general", result.Category)
		assert.Equal(t, "medium", result.Priority)
		assert.Equal(t, "open", result.Status)
		assert.Nil(t, result.AssignedAdminID)
		require.NotNil(t, result.User)
		assert.Equal(t, "Olivia Owner", result.User.Name)
	})

	t.Run("missing subject is a validation error", func(t *testing.T) {
		uc := NewCreateTicketUseCase(&mockTicketRepository{}, defaultUsers(), nil, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "   ",
			Description: "body",
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("attachment is rejected when storage is disabled", func(t *testing.T) {
		uc := NewCreateTicketUseCase(&mockTicketRepository{}, defaultUsers(), nil, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "Screenshot",
			Description: "See attached",
			Attachment:  &AttachmentUpload{Filename: "shot.png", Size: 10, Body: strings.NewReader("png")},
		})

		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Contains(t, appErr.Fields, "attachment")
	})

	t.Run("oversized attachment is rejected before upload", func(t *testing.T) {
		blobs := &mockBlobStore{}
		uc := NewCreateTicketUseCase(&mockTicketRepository{}, defaultUsers(), blobs, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "Logs",
			Description: "Huge log file",
			Attachment:  &AttachmentUpload{Filename: "app.log", Size: constants.MaxAttachmentBytes + 1, Body: strings.NewReader("")},
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsValidationError(err))
		assert.Empty(t, blobs.stored)
	})

	t.Run("stores attachment under a generated key", func(t *testing.T) {
		var contentType string
		blobs := &mockBlobStore{
			PutFunc: func(ctx context.Context, key string, body io.Reader, size int64, ct string) error {
				contentType = ct
				return nil
			},
		}
		uc := NewCreateTicketUseCase(&mockTicketRepository{}, defaultUsers(), blobs, logger.NewNopLogger())

		result, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "Screenshot",
			Description: "See attached",
			Attachment:  &AttachmentUpload{Filename: "Shot.PNG", ContentType: "image/png", Size: 3, Body: strings.NewReader("png")},
		})

		require.NoError(t, err)
		require.Len(t, blobs.stored, 1)
		require.NotNil(t, result.Attachment)
		assert.Equal(t, blobs.stored[0], *result.Attachment)
		assert.True(t, strings.HasPrefix(*result.Attachment, "tickets/"))
		assert.True(t, strings.HasSuffix(*result.Attachment, ".png"))
		assert.Equal(t, "image/png", contentType)
	})

	t.Run("save failure removes the uploaded attachment", func(t *testing.T) {
		blobs := &mockBlobStore{}
		repo := &mockTicketRepository{
			SaveFunc: func(ctx context.Context, tk *ticket.Ticket) error {
				return errors.New("db down")
			},
		}
		uc := NewCreateTicketUseCase(repo, defaultUsers(), blobs, logger.NewNopLogger())

		_, err := uc.Execute(context.Background(), CreateTicketCommand{
			Principal:   owner,
			Subject:     "Screenshot",
			Description: "See attached",
			Attachment:  &AttachmentUpload{Filename: "shot.png", Size: 3, Body: strings.NewReader("png")},
		})

		require.Error(t, err)
		assert.Equal(t, blobs.stored, blobs.removed)
	})
}
