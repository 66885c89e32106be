package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/damacus/iron-presign/internal/models"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient is an interface for the S3 methods we use
type MinioClient interface {
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// MinioClientFactory creates authenticated clients
type MinioClientFactory interface {
	NewClient(creds Credentials) (MinioClient, error)
}

// WrappedMinioClient wraps minio.Client to implement our interface
type WrappedMinioClient struct {
	client *minio.Client
}

func (c *WrappedMinioClient) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return c.client.StatObject(ctx, bucketName, objectName, opts)
}

func (c *WrappedMinioClient) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	return c.client.PresignedGetObject(ctx, bucketName, objectName, expires, reqParams)
}

// RealMinioFactory is the production implementation
type RealMinioFactory struct{}

// shouldUseSSL determines if SSL should be used based on the endpoint.
// Returns false for localhost, 127.0.0.1, and docker service names.
func shouldUseSSL(endpoint string) bool {
	// Local development endpoints
	if endpoint == "localhost:9000" || endpoint == "127.0.0.1:9000" {
		return false
	}
	// Docker service names (minio:9000, minio1:9000, minio2:9000, etc.)
	// Only match simple hostnames without dots (not domain names like minio.example.com)
	if strings.HasPrefix(endpoint, "minio") && !strings.Contains(strings.Split(endpoint, ":")[0], ".") && strings.Contains(endpoint, ":9000") {
		return false
	}
	return true
}

// endpointHost strips a scheme from endpoint; minio-go wants host[:port]
func endpointHost(endpoint string) (host string, secure *bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		t := true
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), &t
	case strings.HasPrefix(endpoint, "http://"):
		f := false
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), &f
	}
	return strings.TrimSuffix(endpoint, "/"), nil
}

func (f *RealMinioFactory) NewClient(creds Credentials) (MinioClient, error) {
	host, schemeSecure := endpointHost(creds.Endpoint)

	secure := shouldUseSSL(host)
	if schemeSecure != nil {
		secure = *schemeSecure
	}
	if creds.Secure != nil {
		secure = *creds.Secure
	}

	client, err := minio.New(host, &minio.Options{
		Creds:  credentials.NewStaticV4(creds.AccessKey, creds.SecretKey, creds.SessionToken),
		Secure: secure,
		Region: creds.Region,
	})
	if err != nil {
		return nil, err
	}
	return &WrappedMinioClient{client: client}, nil
}

// MinioStore adapts a MinioClient to ObjectStore
type MinioStore struct {
	client MinioClient
}

// NewMinioStore builds the client once; it is shared by all requests
func NewMinioStore(factory MinioClientFactory, creds Credentials) (*MinioStore, error) {
	client, err := factory.NewClient(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	return &MinioStore{client: client}, nil
}

func (s *MinioStore) HeadMetadata(ctx context.Context, bucket, key string) (models.ObjectMetadata, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isMinioNotFound(err) {
			return models.ObjectMetadata{}, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return models.ObjectMetadata{}, fmt.Errorf("stat object: %w", err)
	}

	return models.ObjectMetadata{
		Key:          models.ObjectKey(key),
		Tier:         models.NormalizeTier(info.StorageClass),
		Restore:      restoreFromMinio(info.Restore),
		Size:         info.Size,
		LastModified: info.LastModified,
	}, nil
}

func (s *MinioStore) SignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", errors.New("presign returned no URL")
	}
	return u.String(), nil
}

// restoreFromMinio maps minio-go's parsed x-amz-restore header.
// minio-go rejects a malformed header in StatObject, which surfaces as a store error.
func restoreFromMinio(r *minio.RestoreInfo) models.RestoreStatus {
	switch {
	case r == nil:
		return models.RestoreNotRequested
	case r.OngoingRestore:
		return models.RestoreInProgress
	default:
		return models.RestoreCompleted
	}
}

func isMinioNotFound(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	if resp.StatusCode == http.StatusNotFound {
		return true
	}
	return resp.Code == "NoSuchKey" || resp.Code == "NotFound"
}

var _ ObjectStore = (*MinioStore)(nil)
