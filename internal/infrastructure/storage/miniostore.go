package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/deskpulse/deskpulse/internal/shared/config"
	"github.com/deskpulse/deskpulse/internal/shared/logger"
)

const defaultPresignTTL = 15 * time.Minute

// MinioBlobStore keeps ticket attachments in an S3-compatible bucket.
type MinioBlobStore struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
	logger     logger.Interface
}

func NewMinioBlobStore(cfg config.StorageConfig, log logger.Interface) (*MinioBlobStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ttl := time.Duration(cfg.PresignMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	return &MinioBlobStore{
		client:     client,
		bucket:     cfg.Bucket,
		presignTTL: ttl,
		logger:     log,
	}, nil
}

// EnsureBucket creates the attachment bucket when it does not exist yet.
func (s *MinioBlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.Infow("attachment bucket created", "bucket", s.bucket)
	return nil
}

func (s *MinioBlobStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store attachment %s: %w", key, err)
	}
	return nil
}

func (s *MinioBlobStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove attachment %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a time-limited download URL for the attachment.
func (s *MinioBlobStore) PresignGet(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign attachment %s: %w", key, err)
	}
	return u.String(), nil
}
