package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"vprime/config"
	"vprime/infras/otel"
	"vprime/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// s3API is the subset of the S3 client used for uploads.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Store struct {
	client s3API
	config *config.Config
	otel   otel.Otel
}

func NewS3(cfg *config.Config, ot otel.Otel) ObjectStore {
	storage := cfg.External.Storage

	staticProvider := credentials.NewStaticCredentialsProvider(
		storage.S3.AccessKeyID,
		storage.S3.SecretAccessKey,
		"",
	)

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.TODO(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(storage.S3.Region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storage.S3.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(storage.S3.APIEndpoint)
		}
		o.UsePathStyle = true
	})

	log.Info().Str("endpoint", storage.S3.APIEndpoint).Msg("S3 object store initialized")

	return &s3Store{
		client: client,
		config: cfg,
		otel:   ot,
	}
}

func (svc *s3Store) Put(ctx context.Context, bucket, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".s3.Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey:   key,
		otelAttrBucket:      bucket,
		otelAttrContentType: contentType,
		otelAttrSize:        len(data),
	})

	if len(data) == 0 {
		return constant.Empty, ErrEmptyObject
	}

	body := bytes.NewReader(data)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(body.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("failed to upload file to S3")

		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return svc.PublicURL(bucket, key), nil
}

func (svc *s3Store) PublicURL(bucket, key string) string {
	base := svc.config.External.Storage.PublicDomain
	if base == "" {
		base = svc.config.External.Storage.S3.APIEndpoint
	}

	return publicURL(base, bucket, key)
}
