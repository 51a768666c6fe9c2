package storage

import (
	"Lote-Tracker/internal/utils"
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gofiber/fiber/v2/log"
)

type (
	// AwsS3 mirrors uploaded images to a bucket. When no bucket is configured
	// every operation is a no-op and Enabled reports false.
	AwsS3 interface {
		Enabled() bool
		PutObject(ctx context.Context, key string, body []byte, contentType string) error
		DeleteObject(ctx context.Context, key string) error
		DeletePrefix(ctx context.Context, prefix string) error
	}

	s3API interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
		DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
		ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	}

	awsS3 struct {
		client s3API
		bucket string
	}
)

func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	if bucket == "" {
		log.Info("AWS_S3_BUCKET not set, image archive disabled")
		return &awsS3{}
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(utils.GetConfig("AWS_S3_REGION")),
	}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Errorf("failed to load AWS config, image archive disabled: %v", err)
		return &awsS3{}
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

func newAwsS3WithClient(client s3API, bucket string) AwsS3 {
	return &awsS3{client: client, bucket: bucket}
}

// BatchPrefix is the key prefix under which every image of a batch is stored.
func BatchPrefix(batchID string) string {
	return fmt.Sprintf("lotes/%s/", batchID)
}

func ImageKey(batchID string, imageID int64, nombre string) string {
	return fmt.Sprintf("%s%d-%s", BatchPrefix(batchID), imageID, nombre)
}

func (a *awsS3) Enabled() bool {
	return a.client != nil && a.bucket != ""
}

func (a *awsS3) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	if !a.Enabled() {
		return nil
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (a *awsS3) DeleteObject(ctx context.Context, key string) error {
	if !a.Enabled() {
		return nil
	}

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

func (a *awsS3) DeletePrefix(ctx context.Context, prefix string) error {
	if !a.Enabled() {
		return nil
	}

	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects %s: %w", prefix, err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		objects := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objects = append(objects, types.ObjectIdentifier{Key: obj.Key})
		}
		if _, err := a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(a.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		}); err != nil {
			return fmt.Errorf("delete objects %s: %w", prefix, err)
		}
	}
	return nil
}
