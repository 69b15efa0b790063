package http

import (
	"gorm.io/gorm"

	"github.com/deskpulse/deskpulse/internal/domain/chat"
	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	"github.com/deskpulse/deskpulse/internal/infrastructure/repository"
	"github.com/deskpulse/deskpulse/internal/shared/db"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	userRepo    user.Repository
	ticketRepo  ticket.TicketRepository
	commentRepo ticket.CommentRepository
	messageRepo chat.MessageRepository
	txMgr       *db.TransactionManager
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(gdb *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		userRepo:    repository.NewUserRepository(gdb, log),
		ticketRepo:  repository.NewTicketRepository(gdb),
		commentRepo: repository.NewCommentRepository(gdb),
		messageRepo: repository.NewChatMessageRepository(gdb),
		txMgr:       db.NewTransactionManager(gdb),
	}
}
