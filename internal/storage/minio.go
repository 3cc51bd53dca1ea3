package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zoecc/passbox-api/internal/config"
)

var ErrBlobNotFound = errors.New("blob not found")

// UploadURLPrefix is the public path uploaded images are served under.
// Item image URLs beginning with it reference blobs we own and clean up;
// anything else is an external link we leave alone.
const UploadURLPrefix = "/api/uploads/"

// BlobInfo describes a stored object.
type BlobInfo struct {
	ContentType string
	Size        int64
}

// BlobStore is the object storage surface the services depend on.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) error
	Get(ctx context.Context, filename string) (io.ReadCloser, BlobInfo, error)
	// DeleteIfExists removes a blob and reports whether it was present.
	// It never fails: orphaned blobs are preferable to failed deletes of
	// the rows that reference them.
	DeleteIfExists(ctx context.Context, filename string) bool
}

// LocalUploadName extracts the object name from an image URL that points
// at our own upload endpoint, or returns "" for external URLs.
func LocalUploadName(imageURL string) string {
	if name, ok := strings.CutPrefix(imageURL, UploadURLPrefix); ok {
		return name
	}
	return ""
}

type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(ctx context.Context, cfg config.MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioStorage) Put(ctx context.Context, filename, contentType string, r io.Reader, size int64) error {
	_, err := s.client.PutObject(ctx, s.bucket, filename, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}
	return nil
}

func (s *MinioStorage) Get(ctx context.Context, filename string) (io.ReadCloser, BlobInfo, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, filename, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, BlobInfo{}, ErrBlobNotFound
		}
		return nil, BlobInfo{}, fmt.Errorf("failed to stat blob: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, BlobInfo{}, fmt.Errorf("failed to fetch blob: %w", err)
	}

	return obj, BlobInfo{ContentType: stat.ContentType, Size: stat.Size}, nil
}

func (s *MinioStorage) DeleteIfExists(ctx context.Context, filename string) bool {
	if filename == "" {
		return false
	}
	_, err := s.client.StatObject(ctx, s.bucket, filename, minio.StatObjectOptions{})
	if err != nil {
		return false
	}
	return s.client.RemoveObject(ctx, s.bucket, filename, minio.RemoveObjectOptions{}) == nil
}
