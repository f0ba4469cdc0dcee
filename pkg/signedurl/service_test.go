package signedurl

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSigner counts invocations and returns a scripted outcome. It is
// used to assert that invalid locators never reach the signing capability.
type recordingSigner struct {
	calls      int
	lastBucket string
	lastKey    string
	lastExpiry time.Duration
	url        string
	err        error
}

func (r *recordingSigner) SignGetObject(ctx context.Context, bucket, key string, expiresIn time.Duration, downloadFilename string) (string, error) {
	r.calls++
	r.lastBucket = bucket
	r.lastKey = key
	r.lastExpiry = expiresIn
	if r.err != nil {
		return "", r.err
	}
	if r.url != "" {
		return r.url, nil
	}
	return fmt.Sprintf("https://example.com/%s/%s?signature=test", bucket, key), nil
}

func newTestService(t *testing.T, signer URLSigner, opts ...Option) Service {
	t.Helper()
	svc, err := New(append([]Option{WithSigner(signer)}, opts...)...)
	require.NoError(t, err)
	return svc
}

func TestNew_RequiresSigner(t *testing.T) {
	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signer is required")
}

func TestNew_RejectsNonPositiveExpiry(t *testing.T) {
	_, err := New(WithSigner(&recordingSigner{}), WithExpiry(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expiry must be positive")
}

func TestSignDownload_CompositePath(t *testing.T) {
	signer := &recordingSigner{}
	svc := newTestService(t, signer)

	result, err := svc.SignDownload(context.Background(), SignRequest{
		S3Path: "s3://my-bucket/path/to/file.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, signer.calls)
	assert.Equal(t, "my-bucket", signer.lastBucket)
	assert.Equal(t, "path/to/file.txt", signer.lastKey)
	assert.Equal(t, DefaultExpiry, signer.lastExpiry)

	assert.Equal(t, "my-bucket", result.Bucket)
	assert.Equal(t, "path/to/file.txt", result.Key)
	assert.Equal(t, 3600, result.ExpiresIn)
	assert.NotEmpty(t, result.URL)
}

func TestSignDownload_BucketAndKeyPair(t *testing.T) {
	signer := &recordingSigner{}
	svc := newTestService(t, signer)

	result, err := svc.SignDownload(context.Background(), SignRequest{
		Bucket: "my-bucket",
		Key:    "file.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, signer.calls)
	assert.Equal(t, "my-bucket", result.Bucket)
	assert.Equal(t, "file.txt", result.Key)
}

func TestSignDownload_CompositePathWinsOverPair(t *testing.T) {
	signer := &recordingSigner{}
	svc := newTestService(t, signer)

	_, err := svc.SignDownload(context.Background(), SignRequest{
		S3Path: "s3://path-bucket/path-key",
		Bucket: "pair-bucket",
		Key:    "pair-key",
	})
	require.NoError(t, err)

	assert.Equal(t, "path-bucket", signer.lastBucket)
	assert.Equal(t, "path-key", signer.lastKey)
}

func TestSignDownload_ConfiguredExpiry(t *testing.T) {
	signer := &recordingSigner{}
	svc := newTestService(t, signer, WithExpiry(15*time.Minute))

	result, err := svc.SignDownload(context.Background(), SignRequest{
		Bucket: "my-bucket",
		Key:    "file.txt",
	})
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, signer.lastExpiry)
	assert.Equal(t, 900, result.ExpiresIn)
}

func TestSignDownload_ValidationFailuresSkipSigner(t *testing.T) {
	tests := []struct {
		name         string
		req          SignRequest
		wantCategory ErrorCategory
	}{
		{
			name:         "invalid bucket in composite path",
			req:          SignRequest{S3Path: "s3://bad_bucket!/x"},
			wantCategory: CategoryInvalidBucketName,
		},
		{
			name:         "malformed composite path",
			req:          SignRequest{S3Path: "not-a-path"},
			wantCategory: CategoryInvalidFormat,
		},
		{
			name:         "invalid bucket in pair",
			req:          SignRequest{Bucket: "Bad_Bucket", Key: "file.txt"},
			wantCategory: CategoryInvalidBucketName,
		},
		{
			name:         "whitespace key in pair",
			req:          SignRequest{Bucket: "my-bucket", Key: "   "},
			wantCategory: CategoryInvalidObjectKey,
		},
		{
			name:         "no parameters",
			req:          SignRequest{},
			wantCategory: CategoryMissingParameters,
		},
		{
			name:         "bucket without key",
			req:          SignRequest{Bucket: "my-bucket"},
			wantCategory: CategoryMissingParameters,
		},
		{
			name:         "key without bucket",
			req:          SignRequest{Key: "file.txt"},
			wantCategory: CategoryMissingParameters,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &recordingSigner{}
			svc := newTestService(t, signer)

			_, err := svc.SignDownload(context.Background(), tt.req)
			require.Error(t, err)

			var rerr *RequestError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantCategory, rerr.Category)
			assert.Zero(t, signer.calls, "signer must not be invoked for invalid input")
		})
	}
}

func TestSignDownload_SignerFailureClassification(t *testing.T) {
	tests := []struct {
		name           string
		signerErr      error
		wantCategory   ErrorCategory
		wantRetryAfter bool
	}{
		{
			name:         "access denied",
			signerErr:    fmt.Errorf("presign: %w", ErrAccessDenied),
			wantCategory: CategoryAccessDenied,
		},
		{
			name:         "bucket not found",
			signerErr:    fmt.Errorf("presign: %w", ErrBucketNotFound),
			wantCategory: CategoryBucketNotFound,
		},
		{
			name:           "throttled",
			signerErr:      fmt.Errorf("presign: %w", ErrSlowDown),
			wantCategory:   CategoryTooManyRequests,
			wantRetryAfter: true,
		},
		{
			name:         "unrecognized failure",
			signerErr:    errors.New("connection reset by peer"),
			wantCategory: CategoryInternalError,
		},
		{
			name: "wrapped in sign error",
			signerErr: &SignError{
				Bucket: "my-bucket",
				Key:    "file.txt",
				Op:     "presign get object",
				Err:    fmt.Errorf("%w: NoSuchBucket", ErrBucketNotFound),
			},
			wantCategory: CategoryBucketNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signer := &recordingSigner{err: tt.signerErr}
			svc := newTestService(t, signer)

			_, err := svc.SignDownload(context.Background(), SignRequest{
				Bucket: "my-bucket",
				Key:    "file.txt",
			})
			require.Error(t, err)

			var rerr *RequestError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, tt.wantCategory, rerr.Category)
			if tt.wantRetryAfter {
				assert.Positive(t, rerr.RetryAfter)
			} else {
				assert.Zero(t, rerr.RetryAfter)
			}
		})
	}
}

// The generic message shields callers from internal failure detail.
func TestSignDownload_InternalErrorHidesDetail(t *testing.T) {
	signer := &recordingSigner{err: errors.New("credential chain exhausted: secret detail")}
	svc := newTestService(t, signer)

	_, err := svc.SignDownload(context.Background(), SignRequest{
		Bucket: "my-bucket",
		Key:    "file.txt",
	})
	require.Error(t, err)

	var rerr *RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, CategoryInternalError, rerr.Category)
	assert.NotContains(t, rerr.Message, "secret detail")
}
