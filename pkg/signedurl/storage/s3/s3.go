package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hadwinjiang/s3-signed-url/pkg/signedurl"
)

// Config options for the S3 signer backend
type Config struct {
	Region          string // AWS region
	AccessKeyID     string // AWS access key ID
	SecretAccessKey string // AWS secret access key
	Endpoint        string // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool   // Use path-style addressing (default: false)
}

// Signer issues presigned GET URLs against AWS S3 or an S3-compatible
// service. Unlike a blob store, it is not bound to a single bucket; the
// bucket arrives with each request.
type Signer struct {
	presignClient *s3.PresignClient
}

// New creates a new S3 presigning backend
func New(config Config) (*Signer, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	// Set up AWS config
	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Configure S3 client options
	var s3Options []func(*s3.Options)

	// Custom endpoint for S3-compatible services (MinIO, etc.)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Options...)

	return &Signer{
		presignClient: s3.NewPresignClient(client),
	}, nil
}

// SignGetObject returns a presigned URL granting temporary read access to
// s3://bucket/key. No retries are performed; a single signing attempt is
// made and its outcome classified.
func (s *Signer) SignGetObject(ctx context.Context, bucket, key string, expiresIn time.Duration, downloadFilename string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}

	// Set response content disposition if filename is provided
	if downloadFilename != "" {
		input.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", downloadFilename))
	}

	result, err := s.presignClient.PresignGetObject(ctx, input, func(opts *s3.PresignOptions) {
		opts.Expires = expiresIn
	})

	if err != nil {
		return "", classify("presign get object", bucket, key, err)
	}

	return result.URL, nil
}

// classify translates SDK failures into the package sentinel taxonomy so
// the core service can map them without importing AWS types. Anything
// unrecognized stays opaque and ends up as an internal error upstream.
func classify(op, bucket, key string, err error) error {
	cause := err

	var noSuchBucket *types.NoSuchBucket
	var notFound *types.NotFound

	var apiErr smithy.APIError
	switch {
	case errors.As(err, &noSuchBucket), errors.As(err, &notFound):
		cause = fmt.Errorf("%w: %v", signedurl.ErrBucketNotFound, err)
	case errors.As(err, &apiErr):
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException", "AllAccessDisabled":
			cause = fmt.Errorf("%w: %v", signedurl.ErrAccessDenied, err)
		case "NoSuchBucket", "NotFound":
			cause = fmt.Errorf("%w: %v", signedurl.ErrBucketNotFound, err)
		case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException":
			cause = fmt.Errorf("%w: %v", signedurl.ErrSlowDown, err)
		}
	}

	return &signedurl.SignError{Bucket: bucket, Key: key, Op: op, Err: cause}
}
