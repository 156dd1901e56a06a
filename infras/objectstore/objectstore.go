package objectstore

//go:generate go run go.uber.org/mock/mockgen -source=./objectstore.go -destination=./mocks/objectstore_mock.go -package=mocks

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"vprime/config"
	"vprime/infras/otel"

	"github.com/rs/zerolog/log"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"

	otelAttrObjectKey   = "object_key"
	otelAttrBucket      = "bucket"
	otelAttrContentType = "content_type"
	otelAttrSize        = "size"
)

var ErrEmptyObject = errors.New("object body is empty")

// ObjectStore writes named blobs into logical buckets and resolves their public URL.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key, contentType string, data []byte) (url string, err error)
	PublicURL(bucket, key string) string
}

// New selects the driver configured in EXTERNAL_STORAGE_DRIVER. Unknown drivers fall back to s3.
func New(cfg *config.Config, ot otel.Otel) ObjectStore {
	switch strings.ToLower(cfg.External.Storage.Driver) {
	case DriverMinio:
		return NewMinio(cfg, ot)
	case DriverS3, "":
		return NewS3(cfg, ot)
	default:
		log.Warn().Str("driver", cfg.External.Storage.Driver).Msg("Unknown storage driver, using s3")

		return NewS3(cfg, ot)
	}
}

// publicURL joins base, bucket and key, escaping each key segment.
func publicURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.Join(segments, "/")
}
