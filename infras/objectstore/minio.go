package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"vprime/config"
	"vprime/infras/otel"
	"vprime/shared/constant"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type minioStore struct {
	client *minio.Client
	config *config.Config
	otel   otel.Otel
}

func NewMinio(cfg *config.Config, ot otel.Otel) ObjectStore {
	settings := cfg.External.Storage.Minio

	client, err := minio.New(settings.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(settings.AccessKey, settings.SecretKey, ""),
		Secure: settings.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("endpoint", settings.Endpoint).Msg("Failed to initialize MinIO client")
	}

	store := &minioStore{
		client: client,
		config: cfg,
		otel:   ot,
	}

	if err := store.ensureBucket(context.Background(), cfg.Media.DefaultBucket); err != nil {
		log.Error().Err(err).Str("bucket", cfg.Media.DefaultBucket).Msg("Failed to ensure default bucket")
	}

	log.Info().Str("endpoint", settings.Endpoint).Msg("MinIO object store initialized")

	return store
}

func (m *minioStore) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := m.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err = m.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

func (m *minioStore) Put(ctx context.Context, bucket, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := m.otel.NewScope(ctx, constant.OtelStorageScopeName, constant.OtelStorageScopeName+".minio.Put")
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

	_, err = m.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("failed to upload file to MinIO")

		return constant.Empty, fmt.Errorf("failed to put object: %w", err)
	}

	return m.PublicURL(bucket, key), nil
}

func (m *minioStore) PublicURL(bucket, key string) string {
	base := m.config.External.Storage.PublicDomain
	if base == "" {
		scheme := "http://"
		if m.config.External.Storage.Minio.UseSSL {
			scheme = "https://"
		}

		base = scheme + m.config.External.Storage.Minio.Endpoint
	}

	return publicURL(base, bucket, key)
}
