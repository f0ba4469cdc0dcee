package signedurl

import (
	"errors"
	"fmt"
)

// ErrorCategory is the domain type for request failure categories.
type ErrorCategory string

// Failure category constants (typed). Each category maps to exactly one
// HTTP status; the mapping lives in the transport layer.
const (
	CategoryInvalidRequestBody ErrorCategory = "InvalidRequestBody"
	CategoryInvalidInput       ErrorCategory = "InvalidInput"
	CategoryInvalidFormat      ErrorCategory = "InvalidFormat"
	CategoryInvalidBucketName  ErrorCategory = "InvalidBucketName"
	CategoryInvalidObjectKey   ErrorCategory = "InvalidObjectKey"
	CategoryMissingParameters  ErrorCategory = "MissingParameters"
	CategoryBucketNotFound     ErrorCategory = "BucketNotFound"
	CategoryAccessDenied       ErrorCategory = "AccessDenied"
	CategoryTooManyRequests    ErrorCategory = "TooManyRequests"
	CategoryInternalError      ErrorCategory = "InternalError"
)

// Sentinel errors a URLSigner reports so the service can classify
// downstream signing failures without knowing backend specifics.
var (
	// ErrAccessDenied indicates the storage service refused access
	ErrAccessDenied = errors.New("access denied by storage service")

	// ErrBucketNotFound indicates the target bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrSlowDown indicates the storage service is throttling requests
	ErrSlowDown = errors.New("storage service rate limit exceeded")
)

// RequestError is a categorized failure surfaced to API clients. Message is
// safe to echo in a response body; Err holds the underlying cause and is
// written only to the operational log.
type RequestError struct {
	Category   ErrorCategory
	Message    string
	RetryAfter int // seconds; set only for CategoryTooManyRequests
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// SignError represents an error from a signer backend operation
type SignError struct {
	Bucket string
	Key    string
	Op     string
	Err    error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("sign operation %s failed for s3://%s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
}

func (e *SignError) Unwrap() error {
	return e.Err
}
