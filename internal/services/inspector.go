package services

import (
	"context"
	"errors"
	"time"

	"github.com/damacus/iron-presign/internal/metrics"
	"github.com/damacus/iron-presign/internal/models"
)

// Inspector fetches storage tier and restore state for one object
type Inspector struct {
	store   ObjectStore
	bucket  string
	metrics *metrics.Metrics
}

func NewInspector(store ObjectStore, bucket string, m *metrics.Metrics) *Inspector {
	return &Inspector{store: store, bucket: bucket, metrics: m}
}

// Inspect performs a single metadata lookup. No retries.
func (i *Inspector) Inspect(ctx context.Context, key models.ObjectKey) (models.ObjectMetadata, error) {
	if !key.Valid() {
		return models.ObjectMetadata{}, newError(KindInvalidRequest, "Missing key", nil)
	}

	start := time.Now()
	meta, err := i.store.HeadMetadata(ctx, i.bucket, string(key))
	i.metrics.ObserveStoreCall("head", start, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.ObjectMetadata{}, newError(KindNotFound, "The specified key does not exist.", err)
		}
		return models.ObjectMetadata{}, newError(KindStoreError, "Failed to read object metadata", err)
	}

	if meta.Tier == "" {
		meta.Tier = models.TierStandard
	}
	meta.Key = key
	return meta, nil
}
