package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cenkalti/backoff/v4"
	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"go.uber.org/zap"
)

type S3Options struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	opts     S3Options
	log      *zap.SugaredLogger
}

// NewS3Store supports AWS and S3 compatible servers such as MinIO when
// Endpoint is set.
func NewS3Store(ctx context.Context, o S3Options, log *zap.SugaredLogger) (*S3Store, error) {
	loaders := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loaders = append(loaders, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.UsePathStyle
	})
	return &S3Store{
		client:   client,
		uploader: manager.NewUploader(client),
		opts:     o,
		log:      log,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist, retrying while the
// object store is starting up.
func (s *S3Store) EnsureBucket(ctx context.Context, maxElapsed time.Duration) error {
	op := func() error {
		if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.opts.Bucket)}); err == nil {
			return nil
		}
		_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.opts.Bucket)})
		var owned *types.BucketAlreadyOwnedByYou
		if err == nil || errors.As(err, &owned) {
			s.log.Infow("media bucket ready", "bucket", s.opts.Bucket)
			return nil
		}
		return err
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = maxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

func (s *S3Store) Validate(contentType string, size int) error {
	return Validate(contentType, size)
}

func (s *S3Store) objectURL(key string) string {
	switch {
	case s.opts.PublicBaseURL != "":
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + key
	case s.opts.Endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.opts.Endpoint, "/"), s.opts.Bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
	}
}

// baseURL is the prefix every issued object URL starts with.
func (s *S3Store) baseURL() string {
	return strings.TrimSuffix(s.objectURL(""), "/")
}

func (s *S3Store) Owner(url string) (string, bool) {
	_, owner, ok := splitObjectURL(s.baseURL(), url)
	return owner, ok
}

func (s *S3Store) upload(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func (s *S3Store) Put(ctx context.Context, ownerID string, data []byte, contentType string) (domain.Media, error) {
	if err := Validate(contentType, len(data)); err != nil {
		return domain.Media{}, err
	}
	key, err := newKey(ownerID, contentType)
	if err != nil {
		return domain.Media{}, err
	}
	if err := s.upload(ctx, key, normalize(contentType), data); err != nil {
		return domain.Media{}, domain.StorageError("failed to upload media", err)
	}
	m := newMedia(contentType, s.objectURL(key))

	if m.Type == domain.MediaImage {
		// thumbnails are best effort; undecodable formats such as webp are skipped
		if thumb, err := generateThumbnail(data); err == nil {
			tk := thumbnailKey(key)
			if err := s.upload(ctx, tk, "image/jpeg", thumb); err == nil {
				m.ThumbnailURL = s.objectURL(tk)
			} else {
				s.log.Warnw("thumbnail upload failed", "key", tk, "err", err)
			}
		}
	}
	return m, nil
}

// Delete removes the object behind url and its thumbnail. Deleting a
// missing object succeeds; URLs outside the bucket are rejected.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key, err := keyFor(s.baseURL(), url)
	if err != nil {
		return err
	}
	keys := []string{key}
	if isImageKey(key) {
		keys = append(keys, thumbnailKey(key))
	}
	for _, k := range keys {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.opts.Bucket),
			Key:    aws.String(k),
		})
		if err != nil {
			return domain.StorageError("failed to delete media", err)
		}
	}
	return nil
}
