package minio

import (
	"context"
	"fmt"
	"io"
	"time"

	"pet-adoption/internal/platform/breaker"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/media"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicBase es la URL desde la que se sirven los objetos (CDN o el propio endpoint).
	PublicBase string
}

// Store implementa media.BlobStore sobre MinIO/S3 compatible.
type Store struct {
	client *minio.Client
	bucket string
	urls   media.PublicURL
	cb     *gobreaker.CircuitBreaker
}

// New conecta y crea el bucket si no existe.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		urls:   media.PublicURL{Base: publicBase(cfg)},
		cb:     breaker.New("blob-minio", log),
	}, nil
}

func publicBase(cfg Config) string {
	if cfg.PublicBase != "" {
		return cfg.PublicBase
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.urls.URL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Store) KeyFromURL(url string) (string, bool) {
	return s.urls.Key(url)
}

// Ping lo usa /health/ready.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}
