package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// R2Storage stores blobs in a Cloudflare R2 bucket through the S3 API.
type R2Storage struct {
	client     *s3.Client
	bucketName string
}

func NewR2Storage() (*R2Storage, error) {
	r2AccountId := os.Getenv("R2_ACCOUNT_ID")
	r2AccessKeyId := os.Getenv("R2_ACCESS_KEY_ID")
	r2AccessKeySecret := os.Getenv("R2_ACCESS_KEY_SECRET")
	bucketName := os.Getenv("R2_BUCKET_NAME")

	if r2AccountId == "" || r2AccessKeyId == "" || r2AccessKeySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("missing required R2 configuration")
	}

	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2AccountId),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithEndpointResolverWithOptions(customResolver),
		config.WithCredentialsProvider(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     r2AccessKeyId,
				SecretAccessKey: r2AccessKeySecret,
			}, nil
		})),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load R2 config: %w", err)
	}

	return &R2Storage{
		client:     s3.NewFromConfig(cfg),
		bucketName: bucketName,
	}, nil
}

func (r *R2Storage) objectKey(userID uint, key string) string {
	return fmt.Sprintf("user_%d/%s", userID, key)
}

func (r *R2Storage) Upload(ctx context.Context, file io.Reader, userID uint, key string) (string, error) {
	metadata := map[string]string{
		"user-id":     fmt.Sprintf("%d", userID),
		"upload-time": time.Now().UTC().Format(time.RFC3339),
	}

	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:   aws.String(r.bucketName),
		Key:      aws.String(r.objectKey(userID, key)),
		Body:     file,
		Metadata: metadata,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to R2: %w", err)
	}

	return key, nil
}

func (r *R2Storage) Open(ctx context.Context, userID uint, key string) (io.ReadCloser, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(r.objectKey(userID, key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read from R2: %w", err)
	}
	return out.Body, nil
}

func (r *R2Storage) Exists(ctx context.Context, userID uint, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(r.objectKey(userID, key)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check R2 object: %w", err)
	}
	return true, nil
}

func (r *R2Storage) Delete(ctx context.Context, userID uint, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(r.objectKey(userID, key)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}
