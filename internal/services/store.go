package services

import (
	"context"
	"time"

	"github.com/damacus/iron-presign/internal/models"
)

// ObjectStore is the outbound contract with the backing object store.
// Implementations parse vendor metadata into typed values so callers never see raw headers.
type ObjectStore interface {
	// HeadMetadata performs one metadata-only lookup. Missing objects wrap ErrNotFound.
	HeadMetadata(ctx context.Context, bucket, key string) (models.ObjectMetadata, error)
	// SignGet presigns a GET for key valid for ttl. No network call is made.
	SignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

// Credentials holds the connection details for a store client
type Credentials struct {
	Endpoint     string `json:"endpoint"`
	Region       string `json:"region"`
	AccessKey    string `json:"accessKey"`
	SecretKey    string `json:"secretKey"`
	SessionToken string `json:"sessionToken,omitempty"`
	// Secure overrides TLS detection from the endpoint when non-nil
	Secure *bool `json:"secure,omitempty"`
}
