package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/shared/config"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: t.TempDir() + "/test.db"}

	db, err := Open(cfg)
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}

func TestSqliteDSN(t *testing.T) {
	assert.Contains(t, sqliteDSN(""), "memory")
	assert.Contains(t, sqliteDSN(":memory:"), "memory")
	assert.Equal(t, "file:/tmp/a.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("/tmp/a.db"))
}

func TestCloseWithoutInit(t *testing.T) {
	assert.NoError(t, Close())
}
