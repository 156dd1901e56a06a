package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Media=MockMediaService

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"vprime/config"
	"vprime/infras/objectstore"
	"vprime/infras/otel"
	"vprime/internal/domains/media/model"
	"vprime/internal/domains/media/processor"
	"vprime/shared/constant"
	"vprime/shared/failure"
	"vprime/shared/timezone"
	"vprime/shared/validator"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	defaultConcurrency = 4
	bucketRule         = "required,max=63,hostname_rfc1123"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

type Media interface {
	Upload(ctx context.Context, bucket string, file model.File) (string, error)
	Process(ctx context.Context, bucket string, file model.File) (string, error)
	ProcessAll(ctx context.Context, bucket string, files []model.File) ([]string, error)
}

type serviceImpl struct {
	store     objectstore.ObjectStore
	processor processor.Processor
	cfg       *config.Config
	otel      otel.Otel
}

func New(store objectstore.ObjectStore, processor processor.Processor, cfg *config.Config, otel otel.Otel) Media {
	return &serviceImpl{
		store:     store,
		processor: processor,
		cfg:       cfg,
		otel:      otel,
	}
}

// ObjectKey names a stored blob <unix-millis>-<sanitized base><ext>.
func ObjectKey(file model.File, millis int64) string {
	return strconv.FormatInt(millis, 10) + "-" + unsafeKeyChars.ReplaceAllString(file.BaseName()+file.Extension(), "_")
}

func (s *serviceImpl) bucket(bucket string) (string, error) {
	if bucket == constant.Empty {
		bucket = s.cfg.Media.DefaultBucket
	}

	if err := validator.ValidateVar(bucket, bucketRule); err != nil {
		return constant.Empty, failure.BadRequestFromString("invalid bucket name: " + bucket)
	}

	return bucket, nil
}

func (s *serviceImpl) Upload(ctx context.Context, bucket string, file model.File) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelMediaScopeName, constant.OtelMediaScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket, err = s.bucket(bucket)
	if err != nil {
		return constant.Empty, err
	}

	if file.Size() == 0 {
		return constant.Empty, failure.BadRequestFromString("file is empty")
	}

	key := ObjectKey(file, timezone.Now().UnixMilli())

	url, err = s.store.Put(ctx, bucket, key, file.ContentType, file.Data)
	if err != nil {
		log.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("failed to upload image")

		return constant.Empty, fmt.Errorf("failed to upload %s: %w", file.Name, err)
	}

	log.Info().Str("bucket", bucket).Str("key", key).Int64("size", file.Size()).Msg("image uploaded")

	return url, nil
}

// Process runs watermark, compression and upload in sequence.
func (s *serviceImpl) Process(ctx context.Context, bucket string, file model.File) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelMediaScopeName, constant.OtelMediaScopeName+".Process")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	watermarked, err := s.processor.Watermark(file)
	if err != nil {
		log.Error().Err(err).Str("file", file.Name).Msg("failed to watermark image")

		if errors.Is(err, processor.ErrDecodeImage) || errors.Is(err, processor.ErrUnsupportedType) || errors.Is(err, processor.ErrImageTooLarge) {
			return constant.Empty, failure.BadRequest(err)
		}

		return constant.Empty, fmt.Errorf("failed to watermark %s: %w", file.Name, err)
	}

	if err := ctx.Err(); err != nil {
		return constant.Empty, err
	}

	compressed := s.processor.CompressOrOriginal(watermarked)

	if err := ctx.Err(); err != nil {
		return constant.Empty, err
	}

	return s.Upload(ctx, bucket, compressed)
}

// ProcessAll runs one pipeline per file with bounded concurrency. URLs keep the input
// order. The first failure cancels the rest and fails the batch.
func (s *serviceImpl) ProcessAll(ctx context.Context, bucket string, files []model.File) (urls []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelMediaScopeName, constant.OtelMediaScopeName+".ProcessAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(files) == 0 {
		return []string{}, nil
	}

	if _, err := s.bucket(bucket); err != nil {
		return nil, err
	}

	limit := s.cfg.Media.UploadConcurrency
	if limit < 1 {
		limit = defaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	urls = make([]string, len(files))

	for i, file := range files {
		g.Go(func() error {
			url, err := s.Process(gctx, bucket, file)
			if err != nil {
				return err
			}

			urls[i] = url

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Int("files", len(files)).Msg("batch upload failed")

		return nil, err
	}

	return urls, nil
}
