package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Testimonial=MockTestimonialService

import (
	"context"
	"fmt"
	"strconv"
	"vprime/config"
	"vprime/infras/kafka"
	"vprime/infras/otel"
	"vprime/internal/domains/testimonial/model"
	"vprime/internal/domains/testimonial/model/dto"
	"vprime/internal/domains/testimonial/repository"
	"vprime/shared"
	"vprime/shared/cache"
	"vprime/shared/constant"
	gDto "vprime/shared/dto"
	"vprime/shared/failure"
	"vprime/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetAllTestimonial     = "testimonial:get_all"
	cacheTestimonialGeneration = "testimonial:generation"

	EventTestimonialDeleted = "testimonial.deleted"
)

type Testimonial interface {
	List(ctx context.Context, req gDto.QueryParams) (dto.ListTestimonialsResponse, error)
	Create(ctx context.Context, req dto.CreateTestimonialRequest) (dto.TestimonialResponse, error)
	Delete(ctx context.Context, id int64) (dto.TestimonialResponse, error)
}

type serviceImpl struct {
	repo  repository.Testimonial
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	kafka kafka.Client
}

func New(repo repository.Testimonial, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Testimonial {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		kafka: kafka,
	}
}

// List always returns the newest testimonials first.
func (s *serviceImpl) List(ctx context.Context, req gDto.QueryParams) (res dto.ListTestimonialsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.Page < 1 {
		req.Page = constant.DefaultValuePage
	}

	if req.Limit < 1 {
		req.Limit = max(s.cfg.App.Testimonial.DefaultLimit, 1)
	}

	req.Search = constant.Empty
	req.SortBy = model.TableName + "." + constant.DefaultValueSortBy
	req.SortDir = gDto.SortDirDesc

	filter := gDto.FilterGroup{}

	generation, genErr := shared.CacheGeneration(ctx, s.cache, cacheTestimonialGeneration)
	if genErr != nil {
		log.Warn().Err(genErr).Msg("testimonial cache bypassed")
	}

	cacheKey := shared.BuildCacheKeyWithQuery(shared.BuildCacheKey(cacheGetAllTestimonial, generation), req, filter)

	if genErr == nil && s.cache.Get(ctx, cacheKey, &res) == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for testimonials")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count testimonials")

		return res, fmt.Errorf("failed to count testimonials: %w", err)
	}

	testimonials := []model.Testimonial{}

	if req.Offset() < total {
		testimonials, err = s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get testimonials")

			return res, fmt.Errorf("failed to get testimonials: %w", err)
		}
	}

	res.FromModels(testimonials, total, req)

	if genErr == nil {
		if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save testimonials to cache")
		}
	}

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateTestimonialRequest) (res dto.TestimonialResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	testimonial, err := s.repo.InsertReturning(ctx, req.ToModel(user))
	if err != nil {
		log.Error().Err(err).Msg("failed to create testimonial")

		return res, fmt.Errorf("failed to create testimonial: %w", err)
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.FromModel(testimonial)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (res dto.TestimonialResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".testimonial.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	testimonial, err := s.repo.DeleteReturning(ctx, shared.FilterByID(strconv.FormatInt(id, 10), model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete testimonial")

		return res, fmt.Errorf("failed to delete testimonial: %w", err)
	}

	if testimonial.ID == 0 {
		return res, failure.NotFound("testimonial not found")
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.FromModel(testimonial)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	message := kafka.Message{
		Key: strconv.FormatInt(testimonial.ID, 10),
		Value: kafka.Event{
			Type:       EventTestimonialDeleted,
			OccurredAt: timezone.Stamp(timezone.Now()),
			Payload: dto.DeletedEvent{
				ID:             testimonial.ID,
				ReviewImageURL: testimonial.ReviewImageURL,
				DeletedBy:      user,
			},
		},
	}

	if err := s.kafka.SendMessages(context.WithoutCancel(ctx), s.cfg.Kafka.Topics.Testimonial, message); err != nil {
		log.Error().Err(err).Int64("id", testimonial.ID).Msg("failed to publish testimonial event")
	}

	return res, nil
}

// invalidate retires every cached testimonial page. The write is already committed when it fails.
func (s *serviceImpl) invalidate(ctx context.Context) error {
	if err := shared.BumpCacheGeneration(ctx, s.cache, cacheTestimonialGeneration); err != nil {
		return failure.InternalError(fmt.Errorf("testimonial cache invalidation: %w", err))
	}

	return nil
}
