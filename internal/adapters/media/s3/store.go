package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"pet-adoption/internal/platform/breaker"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/media"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker"
)

type Config struct {
	Region          string
	Bucket          string
	Endpoint        string // opcional (S3 compatible)
	AccessKeyID     string // opcional; si falta se usa la cadena default de AWS
	SecretAccessKey string
	PathStyle       bool
	PublicBase      string
}

// Store implementa media.BlobStore sobre AWS S3.
type Store struct {
	client *s3.Client
	bucket string
	urls   media.PublicURL
	cb     *gobreaker.CircuitBreaker
}

func New(ctx context.Context, cfg Config, log logger.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		urls:   media.PublicURL{Base: publicBase(cfg, region)},
		cb:     breaker.New("blob-s3", log),
	}, nil
}

func publicBase(cfg Config, region string) string {
	if cfg.PublicBase != "" {
		return cfg.PublicBase
	}
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:        aws.String(s.bucket),
			Key:           aws.String(key),
			Body:          r,
			ContentLength: aws.Int64(size),
			ContentType:   aws.String(contentType),
		})
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.urls.URL(key), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

func (s *Store) KeyFromURL(url string) (string, bool) {
	return s.urls.Key(url)
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}
