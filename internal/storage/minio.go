package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/eclatdining/eclat-api/internal/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// ErrNotConfigured is returned when no MinIO endpoint is set.
	ErrNotConfigured = errors.New("media storage not configured")
	// ErrNoPublicBaseURL is returned when MEDIA_PUBLIC_BASE_URL is missing.
	// Gallery records keep the URL forever, so it has to be a stable one.
	ErrNoPublicBaseURL = errors.New("media public base URL not configured")
)

// MinIOStorage stores gallery media in a MinIO/S3 bucket.
type MinIOStorage struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(ctx context.Context, cfg config.MediaConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}
	if cfg.PublicBaseURL == "" {
		return nil, ErrNoPublicBaseURL
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket, publicBaseURL: cfg.PublicBaseURL}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Upload stores the object under key and returns its permanent public URL.
func (s *MinIOStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return PublicURL(s.publicBaseURL, s.bucket, key), nil
}

// PublicURL joins a public base URL, bucket and object key.
func PublicURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + path.Join(bucket, key)
}

// GalleryKey builds a unique object key for an uploaded gallery file,
// keeping the uploaded file extension.
func GalleryKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("gallery/%s/%s%s", now.UTC().Format("2006/01"), uuid.NewString(), ext)
}
