package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/damacus/iron-presign/internal/models"
)

// S3HeadAPI is the subset of *s3.Client used for metadata lookups
type S3HeadAPI interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3PresignAPI is the subset of *s3.PresignClient used for signing
type S3PresignAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store implements ObjectStore on the AWS SDK
type S3Store struct {
	head    S3HeadAPI
	presign S3PresignAPI
}

// NewS3StoreWithAPI wires pre-built clients, mainly for tests
func NewS3StoreWithAPI(head S3HeadAPI, presign S3PresignAPI) *S3Store {
	return &S3Store{head: head, presign: presign}
}

// NewS3Store builds an S3 client from static credentials.
// Retries are disabled: one failed call ends the request.
func NewS3Store(ctx context.Context, creds Credentials) (*S3Store, error) {
	awsCfg, err := buildAWSConfig(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(endpointURL(creds))
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		head:    client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func buildAWSConfig(ctx context.Context, creds Credentials) (aws.Config, error) {
	var optFns []func(*awsconfig.LoadOptions) error

	if creds.Region != "" {
		optFns = append(optFns, awsconfig.WithRegion(creds.Region))
	}

	if creds.AccessKey != "" && creds.SecretKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				creds.AccessKey,
				creds.SecretKey,
				creds.SessionToken,
			),
		))
	}

	optFns = append(optFns, awsconfig.WithRetryMaxAttempts(1))

	return awsconfig.LoadDefaultConfig(ctx, optFns...)
}

// endpointURL adds a scheme to a bare host[:port] endpoint
func endpointURL(creds Credentials) string {
	if strings.HasPrefix(creds.Endpoint, "http://") || strings.HasPrefix(creds.Endpoint, "https://") {
		return creds.Endpoint
	}
	secure := shouldUseSSL(creds.Endpoint)
	if creds.Secure != nil {
		secure = *creds.Secure
	}
	if secure {
		return "https://" + creds.Endpoint
	}
	return "http://" + creds.Endpoint
}

func (s *S3Store) HeadMetadata(ctx context.Context, bucket, key string) (models.ObjectMetadata, error) {
	out, err := s.head.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return models.ObjectMetadata{}, fmt.Errorf("%s/%s: %w", bucket, key, ErrNotFound)
		}
		return models.ObjectMetadata{}, fmt.Errorf("head object%s: %w", apiErrorCode(err), err)
	}

	return models.ObjectMetadata{
		Key:          models.ObjectKey(key),
		Tier:         models.NormalizeTier(string(out.StorageClass)),
		Restore:      models.ParseRestoreStatus(aws.ToString(out.Restore)),
		Size:         aws.ToInt64(out.ContentLength),
		LastModified: aws.ToTime(out.LastModified),
	}, nil
}

func (s *S3Store) SignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	if req == nil || req.URL == "" {
		return "", errors.New("presign returned no URL")
	}
	return req.URL, nil
}

// isNotFoundError checks if an error is a not found error
func isNotFoundError(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey"
	}
	return false
}

// apiErrorCode formats the service error code for messages, e.g. " (AccessDenied)"
func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		return " (" + apiErr.ErrorCode() + ")"
	}
	return ""
}

var _ ObjectStore = (*S3Store)(nil)
