package main

import (
	"context"
	"testing"
	"time"

	"github.com/damacus/iron-presign/internal/config"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Backends(t *testing.T) {
	base := config.StoreConfig{
		Endpoint:  "localhost:9000",
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    testBucket,
	}

	t.Run("minio", func(t *testing.T) {
		cfg := base
		cfg.Backend = config.BackendMinio
		store, err := newStore(context.Background(), cfg)
		require.NoError(t, err)
		assert.IsType(t, &services.MinioStore{}, store)
	})

	t.Run("s3", func(t *testing.T) {
		cfg := base
		cfg.Backend = config.BackendS3
		store, err := newStore(context.Background(), cfg)
		require.NoError(t, err)
		assert.IsType(t, &services.S3Store{}, store)

		url, err := store.SignGet(context.Background(), testBucket, "hot.txt", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=60")
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := base
		cfg.Backend = "gcs"
		store, err := newStore(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, store)
	})
}

func TestNewPresignService_UsesConfiguredTTL(t *testing.T) {
	client := new(MockMinioClient)
	creds := services.Credentials{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123"}
	factory := new(MockMinioFactory)
	factory.On("NewClient", creds).Return(client, nil)
	store, err := services.NewMinioStore(factory, creds)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Link.TTL = 5 * time.Minute
	cfg.Policy.GatedTiers = "GLACIER,DEEP_ARCHIVE"

	client.On("StatObject", mock.Anything, testBucket, "deep.bin", mock.Anything).
		Return(minio.ObjectInfo{Key: "deep.bin", StorageClass: "DEEP_ARCHIVE"}, nil)
	client.On("StatObject", mock.Anything, testBucket, "hot.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "hot.txt"}, nil)
	client.On("PresignedGetObject", mock.Anything, testBucket, "hot.txt", 5*time.Minute, mock.Anything).
		Return(signedURL(t, "hot.txt"), nil)

	svc := newPresignService(cfg, store, nil)

	_, err = svc.Presign(context.Background(), "deep.bin")
	assert.Equal(t, services.KindBlockedByPolicy, services.KindOf(err))

	out, err := svc.Presign(context.Background(), "hot.txt")
	require.NoError(t, err)
	assert.Equal(t, 300, out.Link.ExpiresInSeconds)
	client.AssertExpectations(t)
}
