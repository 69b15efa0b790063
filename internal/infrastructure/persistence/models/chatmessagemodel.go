package models

import (
	"time"

	"github.com/deskpulse/deskpulse/internal/shared/constants"
)

// ChatMessageModel is one row of a ticket's chat log. (ticket_id, id) serves
// the cursor poll; (ticket_id, is_read, user_id) serves mark-read and unread counts.
type ChatMessageModel struct {
	ID        uint      `gorm:"primaryKey;index:idx_chat_ticket_id,priority:2"`
	TicketID  uint      `gorm:"not null;index:idx_chat_ticket_id,priority:1;index:idx_chat_ticket_read_user,priority:1"`
	UserID    uint      `gorm:"not null;index;index:idx_chat_ticket_read_user,priority:3"`
	Message   string    `gorm:"type:text;not null"`
	IsRead    bool      `gorm:"not null;default:false;index:idx_chat_ticket_read_user,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User UserModel `gorm:"foreignKey:UserID"`
}

func (ChatMessageModel) TableName() string {
	return constants.TableChatMessages
}
