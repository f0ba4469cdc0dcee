// Package signedurl provides a small library for issuing time-limited
// signed download URLs for objects held in S3-compatible storage.
//
// It exposes a single Service interface that resolves a client-supplied
// storage locator (either a composite "s3://bucket/key" path or an explicit
// bucket/key pair), validates it against S3 naming rules, and delegates URL
// signing to a pluggable URLSigner backend. Signer implementations (AWS S3
// presigning, in-memory for tests) are provided under subpackages.
//
// All failures surface as categorized *RequestError values so that a thin
// transport layer can map them deterministically to wire responses without
// inspecting free-form error text.
package signedurl
