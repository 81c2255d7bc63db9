package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store is a CollectionStore backed by an S3 bucket. Each collection lives
// as a single JSON object under its key, so every write replaces the whole
// collection.
type S3Store struct {
	client     *s3.Client
	bucketName string
	keyPrefix  string
	region     string
}

// S3StoreConfig holds configuration for the S3 store
type S3StoreConfig struct {
	BucketName string
	KeyPrefix  string
	Region     string
	Profile    string // AWS profile to use
}

// NewS3Store creates an S3 store from the default AWS configuration. The
// bucket comes from S3_BUCKET_NAME with a development default.
func NewS3Store(ctx context.Context) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	bucketName := os.Getenv("S3_BUCKET_NAME")
	if bucketName == "" {
		bucketName = "date-night-planner-data"
	}

	return &S3Store{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
		keyPrefix:  "collections/",
		region:     cfg.Region,
	}, nil
}

// NewS3StoreWithConfig creates an S3 store with custom configuration
func NewS3StoreWithConfig(ctx context.Context, storeConfig S3StoreConfig) (*S3Store, error) {
	var cfg aws.Config
	var err error

	if storeConfig.Profile != "" {
		cfg, err = config.LoadDefaultConfig(
			ctx,
			config.WithSharedConfigProfile(storeConfig.Profile),
		)
	} else {
		cfg, err = config.LoadDefaultConfig(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if storeConfig.Region != "" {
		cfg.Region = storeConfig.Region
	}

	return &S3Store{
		client:     s3.NewFromConfig(cfg),
		bucketName: storeConfig.BucketName,
		keyPrefix:  storeConfig.KeyPrefix,
		region:     cfg.Region,
	}, nil
}

// GetCollection downloads one collection document from S3
func (s *S3Store) GetCollection(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.objectKey(key)),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound") {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("failed to download collection from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	return data, nil
}

// PutCollection uploads one collection document to S3, replacing any
// previous version
func (s *S3Store) PutCollection(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(s.objectKey(key)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"uploaded-by": "date-night-planner",
			"upload-time": time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to upload collection to S3: %w", err)
	}

	return nil
}

// GetBucketName returns the configured bucket name
func (s *S3Store) GetBucketName() string {
	return s.bucketName
}

// GetRegion returns the AWS region in use
func (s *S3Store) GetRegion() string {
	return s.region
}

func (s *S3Store) objectKey(key string) string {
	return s.keyPrefix + strings.TrimPrefix(key, "/")
}
