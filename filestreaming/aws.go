package filestreaming

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// awsOptions holds optional overrides for AWS config loading.
type awsOptions struct {
	profile  string
	region   string
	endpoint string
}

// AWSOption customizes how the S3 client is built.
// With no options the shell environment and shared config chain are inherited.
type AWSOption func(*awsOptions)

// WithProfile sets the shared config profile.
func WithProfile(profile string) AWSOption {
	return func(o *awsOptions) { o.profile = profile }
}

// WithRegion sets the region override.
func WithRegion(region string) AWSOption {
	return func(o *awsOptions) { o.region = region }
}

// WithEndpointURL points the client at an S3 compatible endpoint, using path style addressing.
func WithEndpointURL(endpoint string) AWSOption {
	return func(o *awsOptions) { o.endpoint = endpoint }
}

// NewS3Client loads the default AWS config and builds an S3 client from it.
func NewS3Client(ctx context.Context, opts ...AWSOption) (*s3.Client, error) {
	var o awsOptions
	for _, opt := range opts {
		opt(&o)
	}

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = aws.String(o.endpoint)
			so.UsePathStyle = true
		}
	}), nil
}
