package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/damacus/iron-presign/internal/config"
	"github.com/damacus/iron-presign/internal/handlers"
	"github.com/damacus/iron-presign/internal/metrics"
	"github.com/damacus/iron-presign/internal/models"
	"github.com/damacus/iron-presign/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testBucket = "demo"

func testConfig() *config.Config {
	return &config.Config{
		Store:  config.StoreConfig{Backend: config.BackendMinio, Endpoint: "localhost:9000", Bucket: testBucket},
		Link:   config.LinkConfig{TTL: 60 * time.Second},
		Policy: config.PolicyConfig{GatedTiers: "GLACIER"},
	}
}

// newJourneyServer wires the real pipeline around a mocked MinIO client
func newJourneyServer(t *testing.T, client *MockMinioClient) (*echo.Echo, *prometheus.Registry) {
	t.Helper()

	creds := services.Credentials{Endpoint: "localhost:9000", AccessKey: "minio", SecretKey: "minio123"}
	factory := new(MockMinioFactory)
	factory.On("NewClient", creds).Return(client, nil)

	store, err := services.NewMinioStore(factory, creds)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	return newServer(newPresignService(testConfig(), store, m), reg, nil), reg
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func signedURL(t *testing.T, key string) *url.URL {
	t.Helper()
	u, err := url.Parse("http://localhost:9000/" + testBucket + "/" + key + "?X-Amz-Expires=60&X-Amz-Signature=abc")
	require.NoError(t, err)
	return u
}

func TestPresignJourney(t *testing.T) {
	client := new(MockMinioClient)
	e, _ := newJourneyServer(t, client)

	client.On("StatObject", mock.Anything, testBucket, "hot.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "hot.txt", StorageClass: "STANDARD", Size: 42}, nil)
	client.On("PresignedGetObject", mock.Anything, testBucket, "hot.txt", 60*time.Second, mock.Anything).
		Return(signedURL(t, "hot.txt"), nil)

	client.On("StatObject", mock.Anything, testBucket, "cold.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "cold.txt", StorageClass: "GLACIER"}, nil)

	client.On("StatObject", mock.Anything, testBucket, "thawing.txt", mock.Anything).
		Return(minio.ObjectInfo{
			Key:          "thawing.txt",
			StorageClass: "GLACIER",
			Restore:      &minio.RestoreInfo{OngoingRestore: true},
		}, nil)

	client.On("StatObject", mock.Anything, testBucket, "thawed.txt", mock.Anything).
		Return(minio.ObjectInfo{
			Key:          "thawed.txt",
			StorageClass: "GLACIER",
			Restore:      &minio.RestoreInfo{OngoingRestore: false, ExpiryTime: time.Now().Add(24 * time.Hour)},
		}, nil)
	client.On("PresignedGetObject", mock.Anything, testBucket, "thawed.txt", 60*time.Second, mock.Anything).
		Return(signedURL(t, "thawed.txt"), nil)

	// Step A: standard object gets a link
	rec := get(e, "/presigned?key=hot.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	var ok handlers.PresignResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Contains(t, ok.URL, "/demo/hot.txt")
	assert.Equal(t, "STANDARD", ok.StorageClass)
	assert.Equal(t, 60, ok.ExpiresIn)

	// Step B: archived object without restore is refused
	rec = get(e, "/presigned?key=cold.txt")
	require.Equal(t, http.StatusConflict, rec.Code)
	var blocked handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocked))
	assert.Equal(t, "InvalidObjectState", blocked.Error)
	assert.Equal(t, "Object is archived (GLACIER). Restore required before download.", blocked.Message)
	assert.Equal(t, "GLACIER", blocked.StorageClass)
	assert.Equal(t, "not-requested", blocked.RestoreStatus)

	// Step C: restore still running is refused
	rec = get(e, "/api/get-presigned?key=thawing.txt")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &blocked))
	assert.Equal(t, "in-progress", blocked.RestoreStatus)

	// Step D: restored archive gets a link through the alias route
	rec = get(e, "/api/get-presigned?key=thawed.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ok))
	assert.Equal(t, "GLACIER", ok.StorageClass)
	assert.Contains(t, ok.URL, "/demo/thawed.txt")

	client.AssertNotCalled(t, "PresignedGetObject", mock.Anything, testBucket, "cold.txt", mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "PresignedGetObject", mock.Anything, testBucket, "thawing.txt", mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestPresignJourney_MissingKey(t *testing.T) {
	client := new(MockMinioClient)
	e, _ := newJourneyServer(t, client)

	for _, target := range []string{"/presigned", "/presigned?key=", "/api/get-presigned"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, `{"error":"Missing key"}`, rec.Body.String(), target)
	}

	client.AssertNotCalled(t, "StatObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPresignJourney_StoreFailures(t *testing.T) {
	client := new(MockMinioClient)
	e, _ := newJourneyServer(t, client)

	client.On("StatObject", mock.Anything, testBucket, "missing.txt", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound})
	client.On("StatObject", mock.Anything, testBucket, "broken.txt", mock.Anything).
		Return(minio.ObjectInfo{}, errors.New("connection refused"))

	rec := get(e, "/presigned?key=missing.txt")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body handlers.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NotFound", body.Error)

	rec = get(e, "/presigned?key=broken.txt")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "StoreError", body.Error)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestServerHealthAndHeaders(t *testing.T) {
	e := newServer(new(MockPresigner), nil, nil)

	rec := get(e, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	// metrics are not mounted without a gatherer
	rec = get(e, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerExposesDecisionMetrics(t *testing.T) {
	client := new(MockMinioClient)
	e, _ := newJourneyServer(t, client)

	client.On("StatObject", mock.Anything, testBucket, "cold.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "cold.txt", StorageClass: "GLACIER"}, nil)

	require.Equal(t, http.StatusConflict, get(e, "/presigned?key=cold.txt").Code)

	rec := get(e, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `iron_presign_decisions_total{outcome="blocked",storage_class="GLACIER"} 1`)
	assert.Contains(t, string(body), `iron_presign_store_request_duration_seconds_count{operation="head",result="ok"} 1`)
}

func TestPresignJourney_RequiresToken(t *testing.T) {
	presigner := new(MockPresigner)
	presigner.On("Presign", mock.Anything, models.ObjectKey("hot.txt")).Return(services.Outcome{
		Eligibility: models.EligibilityResult{Allowed: true, Tier: models.TierStandard},
		Link:        &models.SignedLink{URL: "https://example.com/signed", ExpiresInSeconds: 60},
	}, nil)

	e := newServer(presigner, nil, services.NewAuthService([]string{"s3cret"}))

	// health stays public
	assert.Equal(t, http.StatusOK, get(e, "/health").Code)

	rec := get(e, "/presigned?key=hot.txt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	presigner.AssertNotCalled(t, "Presign", mock.Anything, mock.Anything)

	req := httptest.NewRequest(http.MethodGet, "/presigned?key=hot.txt", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer s3cret")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://example.com/signed")
}
