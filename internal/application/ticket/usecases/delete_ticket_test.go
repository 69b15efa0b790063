package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/deskpulse/deskpulse/internal/shared/errors"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func TestDeleteTicketUseCase_Execute(t *testing.T) {
	key := "tickets/abc.pdf"

	t.Run("owner deletes inside a transaction and the attachment is removed", func(t *testing.T) {
		tk := newOpenTicket(nil, &key)
		repo := singleTicketRepo(tk)
		var deleted uint
		repo.DeleteFunc = func(ctx context.Context, ticketID uint) error {
			deleted = ticketID
			return nil
		}
		tx := &mockTransactor{}
		blobs := &mockBlobStore{}
		uc := NewDeleteTicketUseCase(repo, tx, blobs, logger.NewNopLogger())

		err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 1, Principal: owner})

		require.NoError(t, err)
		assert.Equal(t, uint(1), deleted)
		assert.Equal(t, 1, tx.calls)
		assert.Equal(t, []string{key}, blobs.removed)
	})

	t.Run("assigned non-admin cannot delete", func(t *testing.T) {
		tk := newOpenTicket(nil, nil)
		uc := NewDeleteTicketUseCase(singleTicketRepo(tk), &mockTransactor{}, nil, logger.NewNopLogger())

		err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 1, Principal: outsider})

		require.Error(t, err)
		assert.True(t, apperrors.IsForbiddenError(err))
	})

	t.Run("failed delete keeps the attachment", func(t *testing.T) {
		tk := newOpenTicket(nil, &key)
		repo := singleTicketRepo(tk)
		repo.DeleteFunc = func(ctx context.Context, ticketID uint) error {
			return errors.New("constraint violation")
		}
		blobs := &mockBlobStore{}
		uc := NewDeleteTicketUseCase(repo, &mockTransactor{}, blobs, logger.NewNopLogger())

		err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 1, Principal: admin})

		require.Error(t, err)
		assert.Empty(t, blobs.removed)
	})

	t.Run("missing ticket is not found", func(t *testing.T) {
		uc := NewDeleteTicketUseCase(&mockTicketRepository{}, &mockTransactor{}, nil, logger.NewNopLogger())

		err := uc.Execute(context.Background(), DeleteTicketCommand{TicketID: 1, Principal: admin})

		require.Error(t, err)
		assert.True(t, apperrors.IsNotFoundError(err))
	})
}
