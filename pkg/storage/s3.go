package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	internalConfig "github.com/koaestudio/koa-photos-backend/internal/config"
)

// S3Storage presigns full-resolution originals kept in an S3-compatible bucket
// (Cloudflare R2, MinIO, AWS).
type S3Storage struct {
	presigner *s3.PresignClient
	bucket    string
	ttl       time.Duration
}

func NewS3Storage(ctx context.Context, cfg internalConfig.S3Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		ttl:       cfg.PresignTTL,
	}, nil
}

// ResolveURL returns absolute URLs unchanged and presigns a GET for anything
// else, treating it as an object key ("s3://bucket/" prefixes are stripped).
func (s *S3Storage) ResolveURL(ctx context.Context, location string) (string, error) {
	if isAbsoluteURL(location) {
		return location, nil
	}

	key := strings.TrimPrefix(location, "s3://"+s.bucket+"/")
	key = strings.TrimPrefix(key, "/")

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return req.URL, nil
}

// PassthroughResolver is used when no bucket is configured: stored URLs are
// already public.
type PassthroughResolver struct{}

func (PassthroughResolver) ResolveURL(_ context.Context, location string) (string, error) {
	return location, nil
}

func isAbsoluteURL(location string) bool {
	return strings.HasPrefix(location, "https://") || strings.HasPrefix(location, "http://")
}
