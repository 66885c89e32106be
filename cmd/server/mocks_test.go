package main

import (
	"context"
	"net/url"
	"time"

	"github.com/damacus/iron-presign/internal/models"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
)

// MockMinioClient implements services.MinioClient
type MockMinioClient struct {
	mock.Mock
}

func (m *MockMinioClient) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*url.URL), args.Error(1)
}

// MockMinioFactory implements services.MinioClientFactory
type MockMinioFactory struct {
	mock.Mock
}

func (m *MockMinioFactory) NewClient(creds services.Credentials) (services.MinioClient, error) {
	args := m.Called(creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(services.MinioClient), args.Error(1)
}

// MockPresigner implements handlers.Presigner
type MockPresigner struct {
	mock.Mock
}

func (m *MockPresigner) Presign(ctx context.Context, key models.ObjectKey) (services.Outcome, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(services.Outcome), args.Error(1)
}
