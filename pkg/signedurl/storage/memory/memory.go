package memory

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Signer is an in-memory implementation of the signedurl.URLSigner
// interface. It fabricates deterministic-shaped "memory://" URLs and can be
// scripted to fail for specific buckets, which makes every downstream error
// path reachable in tests without a storage service.
type Signer struct {
	mu       sync.RWMutex
	failures map[string]error
}

// New creates a new in-memory signer
func New() *Signer {
	return &Signer{
		failures: make(map[string]error),
	}
}

// FailWith makes every subsequent sign attempt for bucket return err.
func (s *Signer) FailWith(bucket string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[bucket] = err
}

// SignGetObject returns a fake signed URL of the form
// memory://bucket/key?token=...&expires=... with a random token standing in
// for a real signature.
func (s *Signer) SignGetObject(ctx context.Context, bucket, key string, expiresIn time.Duration, downloadFilename string) (string, error) {
	s.mu.RLock()
	err := s.failures[bucket]
	s.mu.RUnlock()
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("token", uuid.New().String())
	query.Set("expires", strconv.Itoa(int(expiresIn/time.Second)))
	if downloadFilename != "" {
		query.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadFilename))
	}

	signed := url.URL{
		Scheme:   "memory",
		Host:     bucket,
		Path:     "/" + key,
		RawQuery: query.Encode(),
	}
	return signed.String(), nil
}
