package storage

import (
	"context"
	"io"
	"net/url"
	"time"

	"filevault-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// MinioStore talks to an S3-compatible endpoint. Every call carries a
// bounded timeout so a stalled storage backend cannot hang a request.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	presign time.Duration
	timeout time.Duration
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, err
	}

	store := &MinioStore{
		client:  client,
		bucket:  cfg.Bucket,
		presign: time.Duration(cfg.PresignTTLSeconds) * time.Second,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	if err := store.ensureBucket(cfg.Region); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *MinioStore) ensureBucket(region string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Info().Str("bucket", s.bucket).Msg("Creating storage bucket")
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: region})
}

// Put streams an object to the bucket.
func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Object upload failed")
	}
	return err
}

// PresignedGet mints a time-limited download URL for an object.
func (s *MinioStore) PresignedGet(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presign, url.Values{})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Presign failed")
		return "", err
	}
	return u.String(), nil
}
