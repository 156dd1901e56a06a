package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vprime/infras/otel"
	"vprime/infras/postgres"
	"vprime/internal/domains/project/model"
	"vprime/shared/constant"
	gDto "vprime/shared/dto"
	"vprime/shared/logger"
	gRepo "vprime/shared/repository"
)

const incrementLikesQuery = "UPDATE projects SET likes = likes + 1 WHERE id = $1 RETURNING id, slug, likes"

type Project interface {
	InsertReturning(ctx context.Context, model model.Project) (model.Project, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Project, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Project, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateReturning(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (model.Project, error)
	DeleteReturning(ctx context.Context, filter gDto.FilterGroup) (model.Project, error)
	IncrementLikes(ctx context.Context, id int64) (model.Project, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Project]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Project {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Project](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// IncrementLikes bumps the counter in a single statement so concurrent likes never lose an update.
// Only ID, Slug and Likes are populated. A zero ID means no row matched.
func (r *repositoryImpl) IncrementLikes(ctx context.Context, id int64) (model.Project, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".project.IncrementLikes")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, incrementLikesQuery)

	var project model.Project

	err := r.db.Write.GetContext(ctx, &project, incrementLikesQuery, id)
	if errors.Is(err, sql.ErrNoRows) {
		return project, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return project, fmt.Errorf("failed to increment likes (%s): %w", model.EntityName, err)
	}

	return project, nil
}
