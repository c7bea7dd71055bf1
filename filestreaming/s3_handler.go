// Package filestreaming publishes bulk download files to S3 and lists them.
package filestreaming

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fedspend/spendapi/domain"
	"github.com/gabriel-vasile/mimetype"
)

// timestampEpoch is subtracted from upload times to keep timestamped names short.
const timestampEpoch = 1500000000

// Client is the subset of the S3 API the handler needs.
type Client interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Handler lists and uploads the files of the bulk download bucket.
type S3Handler struct {
	client   Client
	bucket   string
	region   string
	endpoint string
	logger   log.Interface
	now      func() time.Time
}

// NewS3Handler returns a handler for bucket in region.
func NewS3Handler(client Client, bucket, region string, options ...func(*S3Handler) error) (*S3Handler, error) {
	if bucket == "" {
		return nil, fmt.Errorf("creating s3 handler: bucket name is empty")
	}
	handler := &S3Handler{
		client: client,
		bucket: bucket,
		region: region,
		logger: log.Log,
		now:    time.Now,
	}
	for _, option := range options {
		if err := option(handler); err != nil {
			return nil, fmt.Errorf("applying option on s3 handler : %w", err)
		}
	}
	return handler, nil
}

// WithEndpoint makes simple URLs point at endpoint instead of the regional AWS host.
func WithEndpoint(endpoint string) func(*S3Handler) error {
	return func(handler *S3Handler) error {
		if endpoint == "" {
			return nil
		}
		parsed, err := url.Parse(endpoint)
		if err != nil {
			return fmt.Errorf("parsing endpoint %s : %w", endpoint, err)
		}
		if parsed.Host == "" {
			return fmt.Errorf("endpoint %s has no host", endpoint)
		}
		handler.endpoint = parsed.Host
		return nil
	}
}

// WithLogger sets the logger used for listing failures.
func WithLogger(logger log.Interface) func(*S3Handler) error {
	return func(handler *S3Handler) error {
		if logger != nil {
			handler.logger = logger
		}
		return nil
	}
}

// WithClock sets the time source used for timestamped filenames.
func WithClock(now func() time.Time) func(*S3Handler) error {
	return func(handler *S3Handler) error {
		handler.now = now
		return nil
	}
}

// Bucket returns the bucket name.
func (handler *S3Handler) Bucket() string {
	return handler.bucket
}

// ServerName returns the host serving the bucket.
func (handler *S3Handler) ServerName() string {
	switch {
	case handler.endpoint != "":
		return handler.endpoint
	case handler.region == "" || handler.region == "us-east-1":
		return "s3.amazonaws.com"
	default:
		return "s3." + handler.region + ".amazonaws.com"
	}
}

// SimpleURL returns the unsigned download URL of fileName.
func (handler *S3Handler) SimpleURL(fileName string) string {
	return fmt.Sprintf("https://%s/%s/%s", handler.ServerName(), handler.bucket, fileName)
}

// ListFiles returns every object under prefix, following continuation tokens.
func (handler *S3Handler) ListFiles(ctx context.Context, prefix string) ([]domain.BulkFile, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(handler.bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	files := make([]domain.BulkFile, 0)
	paginator := s3.NewListObjectsV2Paginator(handler.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing objects of %s: %w", handler.bucket, err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			files = append(files, domain.BulkFile{
				FileName:     key,
				URL:          handler.SimpleURL(key),
				Size:         aws.ToInt64(object.Size),
				LastModified: aws.ToTime(object.LastModified),
			})
		}
	}
	return files, nil
}

// FileList is ListFiles for callers that always want a list: failures are logged and
// yield an empty list.
func (handler *S3Handler) FileList(ctx context.Context, prefix string) []domain.BulkFile {
	files, err := handler.ListFiles(ctx, prefix)
	if err != nil {
		handler.logger.WithFields(log.Fields{"bucket": handler.bucket, "region": handler.region}).
			WithError(err).Error("listing bulk download files")
		return []domain.BulkFile{}
	}
	return files
}

// TimestampedFilename prefixes fileName with the current time so uploads do not collide.
func (handler *S3Handler) TimestampedFilename(fileName string) string {
	micros := handler.now().UnixMicro() - timestampEpoch*1_000_000
	return fmt.Sprintf("%d_%06d_%s", micros/1_000_000, micros%1_000_000, fileName)
}

// Upload stores data under key with a content type sniffed from the data.
func (handler *S3Handler) Upload(ctx context.Context, key string, data []byte) error {
	contentType := mimetype.Detect(data).String()
	_, err := handler.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(handler.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading %s to %s: %w", key, handler.bucket, err)
	}
	return nil
}

// UploadFile uploads the file at filePath under a timestamped version of its base name
// and returns the key it was stored under.
func (handler *S3Handler) UploadFile(ctx context.Context, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filePath, err)
	}
	key := handler.TimestampedFilename(filepath.Base(filePath))
	if err := handler.Upload(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}
