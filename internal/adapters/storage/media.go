package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"eventhub/internal/domain"
)

// MinioConfig holds configuration for the MinIO media store.
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// MediaConfig holds configuration for creating a media store.
type MediaConfig struct {
	Provider string // "minio" or "local"
	LocalDir string
	Minio    MinioConfig
}

// NewMediaStore creates a media store from config. Provider "minio" stores
// objects in a MinIO bucket (created if missing); "local" or unknown writes
// files under LocalDir.
func NewMediaStore(config MediaConfig) (domain.MediaStore, error) {
	switch config.Provider {
	case "minio":
		client, err := minio.New(config.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(config.Minio.AccessKeyID, config.Minio.SecretAccessKey, ""),
			Secure: config.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
		ctx := context.Background()
		exists, err := client.BucketExists(ctx, config.Minio.Bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, config.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket: %w", err)
			}
		}
		return &minioStore{client: client, bucket: config.Minio.Bucket}, nil
	case "local":
		return &localStore{dir: config.LocalDir}, nil
	default:
		log.Printf("[MEDIA] Unknown media provider %q, using local", config.Provider)
		return &localStore{dir: config.LocalDir}, nil
	}
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func (s *minioStore) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %q: %w", key, err)
	}
	return key, nil
}

func (s *minioStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

type localStore struct {
	dir string
}

func (s *localStore) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	// Keys are forward-slash paths like "users/user_<id>/<name>"; refuse
	// anything that would escape the media root.
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	path := filepath.Join(s.dir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return key, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid media key %q", key)
	}
	return os.Remove(filepath.Join(s.dir, clean))
}
