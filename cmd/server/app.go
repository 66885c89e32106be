package main

import (
	"context"
	"fmt"

	"github.com/damacus/iron-presign/internal/config"
	"github.com/damacus/iron-presign/internal/metrics"
	"github.com/damacus/iron-presign/internal/policy"
	"github.com/damacus/iron-presign/internal/services"
)

const defaultMinioRegion = "us-east-1"

// newStore builds the configured object store client. Credentials are resolved once here.
func newStore(ctx context.Context, cfg config.StoreConfig) (services.ObjectStore, error) {
	creds := services.Credentials{
		Endpoint:     cfg.Endpoint,
		Region:       cfg.Region,
		AccessKey:    cfg.AccessKey,
		SecretKey:    cfg.SecretKey,
		SessionToken: cfg.SessionToken,
	}
	if cfg.UseSSLSet {
		secure := cfg.UseSSL
		creds.Secure = &secure
	}

	switch cfg.Backend {
	case config.BackendMinio:
		// without a region minio-go looks it up over the network before signing
		if creds.Region == "" {
			creds.Region = defaultMinioRegion
		}
		store, err := services.NewMinioStore(&services.RealMinioFactory{}, creds)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.BackendS3:
		store, err := services.NewS3Store(ctx, creds)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

// newPresignService wires inspector, policy and issuer around store
func newPresignService(cfg *config.Config, store services.ObjectStore, m *metrics.Metrics) *services.PresignService {
	gate := policy.New(policy.ParseTiers(cfg.Policy.GatedTiers)...)
	inspector := services.NewInspector(store, cfg.Store.Bucket, m)
	issuer := services.NewIssuer(store, cfg.Store.Bucket, cfg.Link.TTL, m)
	return services.NewPresignService(inspector, gate, issuer, m)
}
