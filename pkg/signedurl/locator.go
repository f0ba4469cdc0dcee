package signedurl

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// LocatorScheme is the URI scheme prefix for composite locator paths.
	LocatorScheme = "s3://"

	// BucketNameMinLength is the minimum allowed S3 bucket name length.
	BucketNameMinLength = 3

	// BucketNameMaxLength is the maximum allowed S3 bucket name length.
	BucketNameMaxLength = 63

	// ObjectKeyMaxBytes is the maximum UTF-8 encoded object key length.
	ObjectKeyMaxBytes = 1024
)

// Locator is a validated (bucket, key) pair identifying a storage object.
// It is a plain value scoped to a single request and is never persisted.
type Locator struct {
	Bucket string
	Key    string
}

// bucketNameRegexp enforces the character-level S3 bucket naming rules:
// lowercase letters, digits, hyphens, and dots, starting and ending with a
// letter or digit. Length and the dot rules are checked separately.
var bucketNameRegexp = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)

// ipv4Regexp matches dotted-decimal IPv4-shaped names, which S3 forbids.
var ipv4Regexp = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// Human-readable rule summaries used in rejection messages.
const (
	bucketRuleMessage = "bucket name must be 3-63 characters of lowercase letters, numbers, dots, and hyphens, must start and end with a letter or number, and cannot look like an IP address"
	keyRuleMessage    = "object key must be a non-empty string of at most 1024 bytes"
)

// ValidateBucketName reports whether candidate satisfies S3 bucket naming
// rules: 3-63 characters drawn from [a-z0-9.-], first and last characters
// in [a-z0-9], no adjacent dots, and not shaped like an IPv4 address.
//
// Reference: https://docs.aws.amazon.com/AmazonS3/latest/userguide/bucketnamingrules.html
func ValidateBucketName(candidate string) bool {
	if len(candidate) < BucketNameMinLength || len(candidate) > BucketNameMaxLength {
		return false
	}
	if !bucketNameRegexp.MatchString(candidate) {
		return false
	}
	if strings.Contains(candidate, "..") {
		return false
	}
	if ipv4Regexp.MatchString(candidate) {
		return false
	}
	return true
}

// ValidateObjectKey reports whether candidate is a usable object key: not
// empty or whitespace-only, with a UTF-8 encoding of at most 1024 bytes.
// Trimming is only used to detect whitespace-only input; the raw key is
// what a signer receives.
func ValidateObjectKey(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	return len(candidate) <= ObjectKeyMaxBytes
}

// ParseLocatorPath decomposes a composite "s3://bucket/key" path into a
// validated Locator. Checks run in a fixed order and short-circuit on the
// first failure, so a given input always fails with the same category:
// InvalidInput, then InvalidFormat, then InvalidBucketName, then
// InvalidObjectKey. The returned error is always a *RequestError.
//
// Only the first "/" after the scheme separates bucket from key; the key
// keeps any further slashes verbatim.
func ParseLocatorPath(path string) (Locator, error) {
	if path == "" {
		return Locator{}, &RequestError{Category: CategoryInvalidInput, Message: "path must be a non-empty string"}
	}

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return Locator{}, &RequestError{Category: CategoryInvalidInput, Message: "path cannot be empty or only whitespace"}
	}

	if !strings.HasPrefix(trimmed, LocatorScheme) {
		return Locator{}, &RequestError{Category: CategoryInvalidFormat, Message: "path must start with s3:// protocol"}
	}

	rest := trimmed[len(LocatorScheme):]
	idx := strings.IndexByte(rest, '/')
	if idx == -1 {
		return Locator{}, &RequestError{Category: CategoryInvalidFormat, Message: "path must include object key after bucket name"}
	}
	if idx == 0 {
		return Locator{}, &RequestError{Category: CategoryInvalidFormat, Message: "bucket name cannot be empty"}
	}

	bucket := rest[:idx]
	key := rest[idx+1:]

	if !ValidateBucketName(bucket) {
		return Locator{}, &RequestError{Category: CategoryInvalidBucketName, Message: bucketRuleMessage}
	}
	if !ValidateObjectKey(key) {
		return Locator{}, &RequestError{Category: CategoryInvalidObjectKey, Message: keyRuleMessage}
	}

	return Locator{Bucket: bucket, Key: key}, nil
}

// FormatLocatorPath renders a bucket and key as a composite path for
// display and logging. It performs no validation and is not a guaranteed
// inverse of ParseLocatorPath: parsing splits at the first "/" only, so a
// bucket-like value containing a slash will not survive a round trip.
func FormatLocatorPath(bucket, key string) string {
	return fmt.Sprintf("%s%s/%s", LocatorScheme, bucket, key)
}
