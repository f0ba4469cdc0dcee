package signedurl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultExpiry is the signed-URL lifetime used when none is configured.
const DefaultExpiry = 3600 * time.Second

// retryAfterHint is the retry delay, in seconds, advertised on throttled
// responses. The service never retries on the caller's behalf.
const retryAfterHint = 60

// service implements the Service interface
type service struct {
	signer    URLSigner
	expiresIn time.Duration
	logger    *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithSigner sets the URL signer backend for the service
func WithSigner(signer URLSigner) Option {
	return func(s *service) {
		s.signer = signer
	}
}

// WithExpiry sets the signed-URL lifetime. The value is fixed for the
// lifetime of the service.
func WithExpiry(d time.Duration) Option {
	return func(s *service) {
		s.expiresIn = d
	}
}

// WithLogger sets the operational logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		expiresIn: DefaultExpiry,
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.signer == nil {
		return nil, fmt.Errorf("url signer is required")
	}
	if s.expiresIn <= 0 {
		return nil, fmt.Errorf("expiry must be positive, got %v", s.expiresIn)
	}

	return s, nil
}

// SignDownload resolves and validates the request locator, then asks the
// signer for a URL. Locator failures never reach the signer.
func (s *service) SignDownload(ctx context.Context, req SignRequest) (*SignedURL, error) {
	locator, rerr := s.resolveLocator(req)
	if rerr != nil {
		return nil, rerr
	}

	url, err := s.signer.SignGetObject(ctx, locator.Bucket, locator.Key, s.expiresIn, req.Filename)
	if err != nil {
		return nil, s.classifySignFailure(locator, err)
	}

	return &SignedURL{
		URL:       url,
		Bucket:    locator.Bucket,
		Key:       locator.Key,
		ExpiresIn: int(s.expiresIn / time.Second),
	}, nil
}

// resolveLocator picks the request input shape and validates it. The
// composite path takes precedence; otherwise bucket and key must both be
// present and are validated independently.
func (s *service) resolveLocator(req SignRequest) (Locator, *RequestError) {
	switch {
	case req.S3Path != "":
		locator, err := ParseLocatorPath(req.S3Path)
		if err != nil {
			var rerr *RequestError
			if !errors.As(err, &rerr) {
				rerr = &RequestError{Category: CategoryInvalidInput, Message: err.Error()}
			}
			return Locator{}, rerr
		}
		return locator, nil

	case req.Bucket != "" && req.Key != "":
		if !ValidateBucketName(req.Bucket) {
			return Locator{}, &RequestError{Category: CategoryInvalidBucketName, Message: bucketRuleMessage}
		}
		if !ValidateObjectKey(req.Key) {
			return Locator{}, &RequestError{Category: CategoryInvalidObjectKey, Message: keyRuleMessage}
		}
		return Locator{Bucket: req.Bucket, Key: req.Key}, nil

	default:
		return Locator{}, &RequestError{
			Category: CategoryMissingParameters,
			Message:  "request must include either s3Path or both bucket and key",
		}
	}
}

// classifySignFailure maps a signer error onto the client-facing failure
// taxonomy. Unrecognized failures collapse to InternalError with a generic
// message; their detail goes only to the operational log.
func (s *service) classifySignFailure(locator Locator, err error) *RequestError {
	switch {
	case errors.Is(err, ErrAccessDenied):
		return &RequestError{
			Category: CategoryAccessDenied,
			Message:  "access to the requested object was denied",
			Err:      err,
		}
	case errors.Is(err, ErrBucketNotFound):
		// Deliberately a client-input failure, not a 404: the bucket name
		// came from the request.
		return &RequestError{
			Category: CategoryBucketNotFound,
			Message:  fmt.Sprintf("bucket %q does not exist", locator.Bucket),
			Err:      err,
		}
	case errors.Is(err, ErrSlowDown):
		return &RequestError{
			Category:   CategoryTooManyRequests,
			Message:    "storage service is throttling requests, retry later",
			RetryAfter: retryAfterHint,
			Err:        err,
		}
	default:
		s.logger.Error("failed to sign download URL",
			"path", FormatLocatorPath(locator.Bucket, locator.Key),
			"error", err)
		return &RequestError{
			Category: CategoryInternalError,
			Message:  "an internal error occurred",
			Err:      err,
		}
	}
}
