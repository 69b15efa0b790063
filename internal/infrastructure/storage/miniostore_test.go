package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:   true,
		Endpoint:  "http://localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "ticket-attachments",
	}
}

func TestNewMinioBlobStore_DefaultsPresignTTL(t *testing.T) {
	store, err := NewMinioBlobStore(testConfig(), logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, store.presignTTL)

	cfg := testConfig()
	cfg.PresignMinutes = 5
	store, err = NewMinioBlobStore(cfg, logger.NewNopLogger())
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, store.presignTTL)
}

// Presigning is computed locally and needs no running server.
func TestMinioBlobStore_PresignGet(t *testing.T) {
	cfg := testConfig()
	cfg.Endpoint = "https://s3.example.com"
	cfg.UseSSL = true
	// A fixed region skips the bucket location lookup.
	cfg.Region = "us-east-1"
	store, err := NewMinioBlobStore(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	raw, err := store.PresignGet(context.Background(), "attachments/2024/abc.pdf")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "s3.example.com", u.Host)
	assert.Equal(t, "/ticket-attachments/attachments/2024/abc.pdf", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}
