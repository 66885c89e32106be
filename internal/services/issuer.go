package services

import (
	"context"
	"time"

	"github.com/damacus/iron-presign/internal/metrics"
	"github.com/damacus/iron-presign/internal/models"
)

// DefaultLinkTTL is how long an issued link stays valid
const DefaultLinkTTL = 60 * time.Second

// Issuer signs short-lived GET links
type Issuer struct {
	store   ObjectStore
	bucket  string
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewIssuer returns an issuer; a non-positive ttl means DefaultLinkTTL
func NewIssuer(store ObjectStore, bucket string, ttl time.Duration, m *metrics.Metrics) *Issuer {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &Issuer{store: store, bucket: bucket, ttl: ttl, metrics: m}
}

// TTL is the fixed expiry window of every link
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a link for key. Callers must only pass keys the policy allowed.
func (i *Issuer) Issue(ctx context.Context, key models.ObjectKey) (models.SignedLink, error) {
	start := time.Now()
	url, err := i.store.SignGet(ctx, i.bucket, string(key), i.ttl)
	i.metrics.ObserveStoreCall("sign", start, err)
	if err != nil {
		return models.SignedLink{}, newError(KindSigningError, "Failed to sign download link", err)
	}

	return models.SignedLink{
		URL:              url,
		ExpiresInSeconds: int(i.ttl / time.Second),
	}, nil
}
