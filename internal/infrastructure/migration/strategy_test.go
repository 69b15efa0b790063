package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func TestGooseStrategy_UpAndDown(t *testing.T) {
	db := setupTestDB(t)
	s := NewGooseStrategy("sqlite", logger.NewNopLogger())

	pending, err := s.Pending(db)
	require.NoError(t, err)
	assert.True(t, pending)

	require.NoError(t, s.Migrate(db))

	for _, table := range []string{"users", "tickets", "ticket_comments", "chat_messages"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	version, err := s.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	pending, err = s.Pending(db)
	require.NoError(t, err)
	assert.False(t, pending)

	// Re-running is a no-op.
	require.NoError(t, s.Migrate(db))

	require.NoError(t, s.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable("chat_messages"))
	assert.True(t, db.Migrator().HasTable("tickets"))
}

func TestGooseStrategy_SchemaMatchesModels(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, NewGooseStrategy("sqlite", logger.NewNopLogger()).Migrate(db))

	require.NoError(t, db.Exec(
		"INSERT INTO users (name, email, password, role) VALUES ('A', 'a@example.com', 'x', 'user')").Error)
	require.NoError(t, db.Exec(
		"INSERT INTO tickets (subject, description, user_id) VALUES ('s', 'd', 1)").Error)
	require.NoError(t, db.Exec(
		"INSERT INTO chat_messages (ticket_id, user_id, message) VALUES (1, 1, 'hi')").Error)

	var unread int64
	require.NoError(t, db.Table("chat_messages").Where("is_read = ?", false).Count(&unread).Error)
	assert.Equal(t, int64(1), unread)
}

func TestGormAutoMigrateStrategy(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormAutoMigrateStrategy(logger.NewNopLogger())

	require.NoError(t, s.Migrate(db))
	assert.Equal(t, "gorm_auto_migrate", s.GetName())
	assert.True(t, db.Migrator().HasTable("chat_messages"))
}

func TestChatMessageIndexes(t *testing.T) {
	want := map[string][]string{
		"idx_chat_ticket_id":        {"ticket_id", "id"},
		"idx_chat_ticket_read_user": {"ticket_id", "is_read", "user_id"},
	}

	strategies := map[string]Strategy{
		"goose":        NewGooseStrategy("sqlite", logger.NewNopLogger()),
		"auto migrate": NewGormAutoMigrateStrategy(logger.NewNopLogger()),
	}

	for name, s := range strategies {
		t.Run(name, func(t *testing.T) {
			db := setupTestDB(t)
			require.NoError(t, s.Migrate(db))

			for index, columns := range want {
				assert.Equal(t, columns, indexColumns(t, db, index), index)
			}
		})
	}
}

func indexColumns(t *testing.T, db *gorm.DB, index string) []string {
	t.Helper()
	rows, err := db.Raw("SELECT name FROM pragma_index_info(?) ORDER BY seqno", index).Rows()
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		require.NoError(t, rows.Scan(&column))
		columns = append(columns, column)
	}
	require.NoError(t, rows.Err())
	return columns
}
