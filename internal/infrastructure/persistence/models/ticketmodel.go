package models

import (
	"time"

	"github.com/deskpulse/deskpulse/internal/shared/constants"
)

type TicketModel struct {
	ID              uint    `gorm:"primaryKey"`
	Subject         string  `gorm:"size:255;not null"`
	Description     string  `gorm:"type:text;not null"`
	Category        string  `gorm:"size:32;not null;default:general;index"`
	Priority        string  `gorm:"size:16;not null;default:medium;index"`
	Status          string  `gorm:"size:16;not null;default:open;index"`
	Attachment      *string `gorm:"size:255"`
	UserID          uint    `gorm:"not null;index"`
	AssignedAdminID *uint   `gorm:"index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type CommentModel struct {
	ID        uint   `gorm:"primaryKey"`
	TicketID  uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Content   string `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CommentModel) TableName() string {
	return constants.TableTicketComments
}
