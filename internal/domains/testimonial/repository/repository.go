package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"vprime/infras/otel"
	"vprime/infras/postgres"
	"vprime/internal/domains/testimonial/model"
	gDto "vprime/shared/dto"
	gRepo "vprime/shared/repository"
)

type Testimonial interface {
	InsertReturning(ctx context.Context, model model.Testimonial) (model.Testimonial, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Testimonial, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	DeleteReturning(ctx context.Context, filter gDto.FilterGroup) (model.Testimonial, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Testimonial]
}

func New(db *postgres.Connection, otel otel.Otel) Testimonial {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Testimonial](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}
