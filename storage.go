package main

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3ObjectInfo struct {
	Bucket string
	Key    string
}

// ObjectStore is the read side of object storage used by the pipeline.
type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]S3ObjectInfo, error)
}

type S3Api interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
	ListObjectsV2WithContext(ctx aws.Context, input *s3.ListObjectsV2Input, opts ...request.Option) (*s3.ListObjectsV2Output, error)
}

type S3Store struct {
	client S3Api
}

func NewS3Store(sess *session.Session) *S3Store {
	return &S3Store{client: s3.New(sess)}
}

func (s *S3Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj.Body, nil
}

func (s *S3Store) ListObjects(ctx context.Context, bucket, prefix string) ([]S3ObjectInfo, error) {
	var objects []S3ObjectInfo
	var continuationToken *string
	for {
		resp, err := s.client.ListObjectsV2WithContext(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, item := range resp.Contents {
			objects = append(objects, S3ObjectInfo{
				Bucket: bucket,
				Key:    aws.StringValue(item.Key),
			})
		}

		if !aws.BoolValue(resp.IsTruncated) {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	return objects, nil
}

// minioClient is the subset of *minio.Client used by MinioStore.
type minioClient interface {
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// MinioStore reads from S3-compatible endpoints such as a local MinIO or Cloudflare R2.
type MinioStore struct {
	client minioClient
}

func NewMinioStore(config Config) (*MinioStore, error) {
	client, err := minio.New(config.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.StorageAccessKeyID, config.StorageSecretAccessKey, ""),
		Secure: config.StorageUseSSL,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client for %s: %w", config.StorageEndpoint, err)
	}

	return &MinioStore{client: client}, nil
}

func (s *MinioStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	// minio defers the request until first use; Stat surfaces missing objects and auth errors here.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

func (s *MinioStore) ListObjects(ctx context.Context, bucket, prefix string) ([]S3ObjectInfo, error) {
	// Cancelling stops the listing goroutine if we return early on an error.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var objects []S3ObjectInfo
	for item := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if item.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", item.Err)
		}
		objects = append(objects, S3ObjectInfo{Bucket: bucket, Key: item.Key})
	}

	return objects, nil
}

// NewObjectStore picks the MinIO client when an explicit endpoint is configured, otherwise the AWS SDK.
func NewObjectStore(config Config) (ObjectStore, error) {
	if config.StorageEndpoint != "" {
		return NewMinioStore(config)
	}
	sess, err := session.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3Store(sess), nil
}
