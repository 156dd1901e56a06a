package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks -mock_names=Project=MockProjectService

import (
	"context"
	"fmt"
	"vprime/config"
	"vprime/infras/kafka"
	"vprime/infras/otel"
	"vprime/internal/domains/project/model"
	"vprime/internal/domains/project/model/dto"
	"vprime/internal/domains/project/repository"
	"vprime/shared"
	"vprime/shared/cache"
	"vprime/shared/constant"
	gDto "vprime/shared/dto"
	"vprime/shared/failure"
	"vprime/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetProject        = "project:get"
	cacheGetAllProject     = "project:get_all"
	cacheProjectGeneration = "project:generation"

	EventProjectCreated = "project.created"
	EventProjectDeleted = "project.deleted"

	errProjectNotFound = "project not found"
)

type Project interface {
	List(ctx context.Context, req gDto.QueryParams) (dto.ListProjectsResponse, error)
	GetBySlug(ctx context.Context, slug string) (dto.ProjectResponse, error)
	Create(ctx context.Context, req dto.CreateProjectRequest) (dto.ProjectResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateProjectRequest) (dto.ProjectResponse, error)
	Delete(ctx context.Context, id int64) (dto.ProjectResponse, error)
	Like(ctx context.Context, id int64) (dto.LikeResponse, error)
}

type serviceImpl struct {
	repo  repository.Project
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	kafka kafka.Client
}

func New(repo repository.Project, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, kafka kafka.Client) Project {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		kafka: kafka,
	}
}

func idFilter(id int64) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldID,
				Operator: gDto.FilterOperatorEq,
				Value:    id,
				Table:    model.TableName,
			},
		},
	}
}

// searchFilter matches car_model or description case-insensitively.
func searchFilter(search string) gDto.FilterGroup {
	if search == constant.Empty {
		return gDto.FilterGroup{}
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldCarModel,
						Operator: gDto.FilterOperatorLike,
						Value:    search,
						Table:    model.TableName,
					},
					gDto.Filter{
						Field:    model.FieldDescription,
						Operator: gDto.FilterOperatorLike,
						Value:    search,
						Table:    model.TableName,
					},
				},
			},
		},
	}
}

func (s *serviceImpl) normalizeParams(req gDto.QueryParams) gDto.QueryParams {
	if req.Page < 1 {
		req.Page = constant.DefaultValuePage
	}

	if req.Limit < 1 {
		req.Limit = s.cfg.App.Gallery.DefaultLimit
		if req.Limit < 1 {
			req.Limit = constant.DefaultValueLimit
		}
	}

	if req.SortDir != gDto.SortDirAsc {
		req.SortDir = gDto.SortDirDesc
	}

	req.SortBy = model.TableName + "." + constant.DefaultValueSortBy

	return req
}

func (s *serviceImpl) List(ctx context.Context, req gDto.QueryParams) (res dto.ListProjectsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.List")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req = s.normalizeParams(req)
	filter := searchFilter(req.Search)

	cacheKey := constant.Empty
	if prefix, ok := s.cachePrefix(ctx, cacheGetAllProject); ok {
		cacheKey = shared.BuildCacheKeyWithQuery(prefix, req, filter)
	}

	if s.cached(ctx, cacheKey, &res) {
		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count projects")

		return res, fmt.Errorf("failed to count projects: %w", err)
	}

	projects := []model.Project{}

	// Out of range pages skip the query and come back empty.
	if req.Offset() < total {
		projects, err = s.repo.GetAll(ctx, req, filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to get projects")

			return res, fmt.Errorf("failed to get projects: %w", err)
		}
	}

	res.FromModels(projects, total, req)
	s.remember(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetBySlug(ctx context.Context, slug string) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.GetBySlug")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := constant.Empty
	if prefix, ok := s.cachePrefix(ctx, cacheGetProject); ok {
		cacheKey = shared.BuildCacheKey(prefix, slug)
	}

	if s.cached(ctx, cacheKey, &res) {
		return res, nil
	}

	project, err := s.repo.Get(ctx, shared.FilterByID(slug, model.FieldSlug, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("failed to get project")

		return res, fmt.Errorf("failed to get project: %w", err)
	}

	if project.ID == 0 {
		return res, failure.NotFound(errProjectNotFound)
	}

	res.FromModel(project)
	s.remember(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateProjectRequest) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	project, err := s.repo.InsertReturning(ctx, req.ToModel(user))
	if err != nil {
		log.Error().Err(err).Msg("failed to create project")

		return res, fmt.Errorf("failed to create project: %w", err)
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.FromModel(project)

	s.publish(ctx, project.Slug, EventProjectCreated, dto.CreatedEvent{
		ID:        project.ID,
		Slug:      project.Slug,
		CarModel:  project.CarModel,
		CreatedAt: timezone.Stamp(project.CreatedAt),
	})

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateProjectRequest) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	updatedFields := shared.TransformFields(req, user)

	project, err := s.repo.UpdateReturning(ctx, updatedFields, idFilter(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to update project")

		return res, fmt.Errorf("failed to update project: %w", err)
	}

	if project.ID == 0 {
		return res, failure.NotFound(errProjectNotFound)
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.FromModel(project)

	return res, nil
}

// Delete removes the row and returns it. Referenced blobs stay in the object store;
// their URLs travel on the project.deleted event.
func (s *serviceImpl) Delete(ctx context.Context, id int64) (res dto.ProjectResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	project, err := s.repo.DeleteReturning(ctx, idFilter(id))
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to delete project")

		return res, fmt.Errorf("failed to delete project: %w", err)
	}

	if project.ID == 0 {
		return res, failure.NotFound(errProjectNotFound)
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.FromModel(project)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	s.publish(ctx, project.Slug, EventProjectDeleted, dto.DeletedEvent{
		ID:        project.ID,
		Slug:      project.Slug,
		ImageURLs: project.ImageURLs(),
		DeletedBy: user,
	})

	return res, nil
}

func (s *serviceImpl) Like(ctx context.Context, id int64) (res dto.LikeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".project.Like")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	project, err := s.repo.IncrementLikes(ctx, id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("failed to like project")

		return res, fmt.Errorf("failed to like project: %w", err)
	}

	if project.ID == 0 {
		return res, failure.NotFound(errProjectNotFound)
	}

	if err = s.invalidate(ctx); err != nil {
		return res, err
	}

	res.Likes = project.Likes

	return res, nil
}

// cachePrefix scopes prefix to the current cache generation. ok is false when the generation
// cannot be read; the caller then neither reads nor saves cache entries.
func (s *serviceImpl) cachePrefix(ctx context.Context, prefix string) (string, bool) {
	generation, err := shared.CacheGeneration(ctx, s.cache, cacheProjectGeneration)
	if err != nil {
		log.Warn().Err(err).Msg("project cache bypassed")

		return constant.Empty, false
	}

	return shared.BuildCacheKey(prefix, generation), true
}

func (s *serviceImpl) cached(ctx context.Context, key string, res any) bool {
	if key == constant.Empty {
		return false
	}

	if err := s.cache.Get(ctx, key, res); err != nil {
		return false
	}

	log.Debug().Str("cacheKey", key).Msg("cache hit for projects")

	return true
}

func (s *serviceImpl) remember(ctx context.Context, key string, res any) {
	if key == constant.Empty {
		return
	}

	if err := s.cache.Save(ctx, key, res, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save projects to cache")
	}
}

// invalidate retires every cached project read. The write is already committed when it fails.
func (s *serviceImpl) invalidate(ctx context.Context) error {
	if err := shared.BumpCacheGeneration(ctx, s.cache, cacheProjectGeneration); err != nil {
		return failure.InternalError(fmt.Errorf("project cache invalidation: %w", err))
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, key, event string, payload any) {
	message := kafka.Message{
		Key: key,
		Value: kafka.Event{
			Type:       event,
			OccurredAt: timezone.Stamp(timezone.Now()),
			Payload:    payload,
		},
	}

	// The row is already committed, so a client hanging up must not drop the event.
	if err := s.kafka.SendMessages(context.WithoutCancel(ctx), s.cfg.Kafka.Topics.Project, message); err != nil {
		log.Error().Err(err).Str("event", event).Str("key", key).Msg("failed to publish project event")
	}
}
