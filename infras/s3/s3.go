package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"etm/config"
	"etm/infras/otel"
	"etm/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrFileName = "file_name"
	otelAttrBucket   = "bucket"
)

var ErrNotConfigured = errors.New("object storage not configured")

type S3 interface {
	UploadFile(ctx context.Context, directory, fileName, contentType string, body io.Reader, size int64) (url string, err error)
	DeleteFile(ctx context.Context, objectName string) error
	GetObjectNameFromURL(url string) (objectName string)
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) bucket() string {
	return svc.config.External.S3.BucketName
}

// UploadFile stores body under directory/fileName and returns its public URL.
func (svc *s3Impl) UploadFile(ctx context.Context, directory, fileName, contentType string, body io.Reader, size int64) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if svc.client == nil {
		return constant.Empty, ErrNotConfigured
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName: fileName,
		otelAttrBucket:   svc.bucket(),
	})

	objectKey := path.Join(directory, fileName)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket()),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if svc.client == nil {
		return ErrNotConfigured
	}

	scope.SetAttributes(map[string]any{
		otelAttrFileName: objectName,
		otelAttrBucket:   svc.bucket(),
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket()),
		Key:    aws.String(objectName),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL strips the public domain or the API bucket prefix from url.
func (svc *s3Impl) GetObjectNameFromURL(url string) (objectName string) {
	publicDomain := strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/")
	if publicDomain != "" {
		if name, ok := strings.CutPrefix(url, publicDomain+"/"); ok {
			return name
		}
	}

	apiEndpoint := strings.TrimSuffix(svc.config.External.S3.APIEndpoint, "/")
	if apiEndpoint != "" {
		if name, ok := strings.CutPrefix(url, fmt.Sprintf("%s/%s/", apiEndpoint, svc.bucket())); ok {
			return name
		}
	}

	return constant.Empty
}

func (svc *s3Impl) publicURL(objectKey string) string {
	publicDomain := strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/")
	if publicDomain == "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(svc.config.External.S3.APIEndpoint, "/"), svc.bucket(), objectKey)
	}

	return fmt.Sprintf("%s/%s", publicDomain, objectKey)
}

// New builds an S3 compatible client. Without a bucket every call returns ErrNotConfigured.
func New(config *config.Config, otel otel.Otel) S3 {
	svc := &s3Impl{
		config: config,
		otel:   otel,
	}

	if config.External.S3.BucketName == "" {
		log.Info().Msg("S3 bucket not configured, avatar upload disabled")

		return svc
	}

	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(config.External.S3.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")

		return svc
	}

	endpoint := config.External.S3.APIEndpoint

	svc.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return svc
}
