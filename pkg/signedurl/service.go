package signedurl

import (
	"context"
	"time"
)

// Service defines the main interface for the signed-url library
type Service interface {
	// SignDownload resolves the locator in req, signs a time-limited
	// download URL for it, and returns the result. Failures are returned
	// as *RequestError values carrying a category and a client-safe
	// message.
	SignDownload(ctx context.Context, req SignRequest) (*SignedURL, error)
}

// URLSigner is the external signing capability: it produces a time-limited
// authenticated URL for reading one object. Implementations report
// recognized failures by wrapping the package sentinel errors
// (ErrAccessDenied, ErrBucketNotFound, ErrSlowDown).
type URLSigner interface {
	// SignGetObject signs a GET for the given bucket and key. A non-empty
	// downloadFilename requests an attachment content disposition under
	// that name; empty leaves the disposition untouched.
	SignGetObject(ctx context.Context, bucket, key string, expiresIn time.Duration, downloadFilename string) (string, error)
}

// SignRequest carries one client request for a signed download URL.
// Exactly one input shape must be satisfied: either S3Path, or both Bucket
// and Key. S3Path wins when both shapes are supplied.
type SignRequest struct {
	// S3Path is a composite "s3://bucket/key" locator path.
	S3Path string

	// Bucket and Key identify the object directly when S3Path is not used.
	Bucket string
	Key    string

	// Filename optionally forces an attachment disposition on the signed
	// URL so browsers save the object under this name.
	Filename string
}

// SignedURL is the successful outcome of a sign request.
type SignedURL struct {
	URL       string
	Bucket    string
	Key       string
	ExpiresIn int // seconds the URL remains valid
}
