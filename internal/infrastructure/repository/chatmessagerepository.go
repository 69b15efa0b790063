package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/infrastructure/persistence/mappers"
	"github.com/deskpulse/deskpulse/internal/infrastructure/persistence/models"
	"github.com/deskpulse/deskpulse/internal/shared/db"
)

// ChatMessageRepository is the gorm-backed message log and read-state tracker.
type ChatMessageRepository struct {
	db     *gorm.DB
	mapper mappers.ChatMessageMapper
}

func NewChatMessageRepository(db *gorm.DB) *ChatMessageRepository {
	return &ChatMessageRepository{
		db:     db,
		mapper: mappers.NewChatMessageMapper(),
	}
}

var _ chat.MessageRepository = (*ChatMessageRepository)(nil)

func (r *ChatMessageRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*chat.Message, error) {
	var list []*models.ChatMessageModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("User").
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *ChatMessageRepository) Append(ctx context.Context, msg *chat.Message) error {
	model := r.mapper.ToModel(msg)
	model.IsRead = false
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Omit("User").Create(model).Error; err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	if err := msg.SetID(model.ID); err != nil {
		return err
	}

	var sender models.UserModel
	if err := tx.Select("id", "name", "role").First(&sender, model.UserID).Error; err != nil {
		return fmt.Errorf("failed to load message sender: %w", err)
	}
	msg.AttachSender(mappers.SenderFromModel(&sender))
	return nil
}

func (r *ChatMessageRepository) ListSince(ctx context.Context, ticketID uint, cursor uint) ([]*chat.Message, error) {
	var list []*models.ChatMessageModel

	err := db.GetTxFromContext(ctx, r.db).
		Preload("User").
		Where("ticket_id = ? AND id > ?", ticketID, cursor).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list new chat messages: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

// MarkReadForViewer flips the flag in one set-based UPDATE. Repeated calls change nothing.
func (r *ChatMessageRepository) MarkReadForViewer(ctx context.Context, ticketID uint, viewerID uint) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChatMessageModel{}).
		Where("ticket_id = ? AND user_id <> ? AND is_read = ?", ticketID, viewerID, false).
		Updates(map[string]interface{}{
			"is_read":    true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark chat messages read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ChatMessageRepository) CountUnreadForUser(ctx context.Context, userID uint) (int64, error) {
	var count int64

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChatMessageModel{}).
		Joins("JOIN tickets ON tickets.id = chat_messages.ticket_id").
		Where("chat_messages.is_read = ? AND chat_messages.user_id <> ?", false, userID).
		Where("(tickets.user_id = ? OR tickets.assigned_admin_id = ?)", userID, userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread chat messages: %w", err)
	}
	return count, nil
}
