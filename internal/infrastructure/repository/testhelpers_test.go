package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deskpulse/deskpulse/internal/domain/ticket"
	vo "github.com/deskpulse/deskpulse/internal/domain/ticket/valueobjects"
	"github.com/deskpulse/deskpulse/internal/domain/user"
	uservo "github.com/deskpulse/deskpulse/internal/domain/user/valueobjects"
	"github.com/deskpulse/deskpulse/internal/infrastructure/persistence/models"
	"github.com/deskpulse/deskpulse/internal/shared/authorization"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(
		&models.UserModel{},
		&models.TicketModel{},
		&models.CommentModel{},
		&models.ChatMessageModel{},
	))
	return database
}

func createTestUser(t *testing.T, repo *UserRepository, name, email string, role authorization.UserRole) *user.User {
	t.Helper()

	addr, err := uservo.NewEmail(email)
	require.NoError(t, err)
	u, err := user.NewUser(name, addr, "hash", role)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createTestTicket(t *testing.T, repo *TicketRepository, ownerID uint, assigneeID *uint) *ticket.Ticket {
	t.Helper()

	tk, err := ticket.NewTicket("Test ticket", "Test description", vo.CategoryTechnical, vo.PriorityHigh, ownerID)
	require.NoError(t, err)
	if assigneeID != nil {
		require.NoError(t, tk.AssignTo(*assigneeID))
	}
	require.NoError(t, repo.Save(context.Background(), tk))
	return tk
}

func newTestUserRepository(database *gorm.DB) *UserRepository {
	return NewUserRepository(database, logger.NewNopLogger())
}
