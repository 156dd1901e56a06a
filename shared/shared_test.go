package shared_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"vprime/shared"
	"vprime/shared/cache"
	cacheMocks "vprime/shared/cache/mocks"
	"vprime/shared/constant"
	"vprime/shared/dto"
	"vprime/shared/failure"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{total: 0, limit: 6, want: 0},
		{total: 1, limit: 6, want: 1},
		{total: 6, limit: 6, want: 1},
		{total: 7, limit: 6, want: 2},
		{total: 12, limit: 6, want: 2},
		{total: 10, limit: 0, want: 0},
		{total: -1, limit: 6, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		CarModel    *string `db:"car_model"`
		Description *string `db:"description"`
		Likes       *int    `db:"likes"`
		Year        int     `db:"production_year"`
		Secret      string  `db:"-"`
		Untagged    string
	}

	model := "BMW E90"
	likes := 0

	fields := shared.TransformFields(patch{
		CarModel: &model,
		Likes:    &likes,
		Secret:   "hidden",
		Untagged: "ignored",
	}, "admin-1")

	assert.Equal(t, "BMW E90", fields["car_model"])
	assert.Equal(t, 0, fields["likes"], "a supplied zero is kept")
	assert.NotContains(t, fields, "description")
	assert.NotContains(t, fields, "production_year")
	assert.NotContains(t, fields, "-")
	assert.NotContains(t, fields, "Untagged")
	assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])
	assert.IsType(t, time.Time{}, fields[constant.FieldModifiedAt])
	assert.Len(t, fields, 4)
}

func TestFilterByID(t *testing.T) {
	got := shared.FilterByID("42", "id", "projects")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{dto.Filter{Field: "id", Value: "42", Operator: dto.FilterOperatorEq, Table: "projects"}},
	}, got)

	where, args := got.GetWhereClause()
	assert.Equal(t, "(projects.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "42"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "project:get", shared.BuildCacheKey("project:get"))
	assert.Equal(t, "project:get:audi-a6-1700000000000", shared.BuildCacheKey("project:get", "audi-a6-1700000000000"))
	assert.Equal(t, "limiter:127.0.0.1:curl", shared.BuildCacheKey("limiter", "127.0.0.1", "curl"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	search := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorOr,
		Filters: []any{
			dto.Filter{Field: "car_model", Value: "audi", Operator: dto.FilterOperatorLike},
			dto.Filter{Field: "description", Value: "audi", Operator: dto.FilterOperatorLike},
		},
	}
	params := dto.QueryParams{Page: 2, Limit: 6, SortBy: "created_at", SortDir: dto.SortDirDesc}

	first := shared.BuildCacheKeyWithQuery("project:get_all", params, search)
	second := shared.BuildCacheKeyWithQuery("project:get_all", params, search)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "project:get_all:2:6:created_at:DESC")

	otherPage := params
	otherPage.Page = 3
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("project:get_all", otherPage, search))

	otherSearch := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorOr,
		Filters: []any{
			dto.Filter{Field: "car_model", Value: "bmw", Operator: dto.FilterOperatorLike},
			dto.Filter{Field: "description", Value: "bmw", Operator: dto.FilterOperatorLike},
		},
	}
	assert.NotEqual(t, first, shared.BuildCacheKeyWithQuery("project:get_all", params, otherSearch))
}

func TestCacheGeneration(t *testing.T) {
	tests := []struct {
		name    string
		mock    func(c *cacheMocks.MockRedisCache)
		want    string
		wantErr bool
	}{
		{
			name: "missing counter is generation zero",
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), "project:generation", gomock.Any()).Return(fmt.Errorf("getting: %w", cache.Nil))
			},
			want: "0",
		},
		{
			name: "stored counter",
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), "project:generation", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
					*value.(*int64) = 12

					return nil
				})
			},
			want: "12",
		},
		{
			name: "cache outage",
			mock: func(c *cacheMocks.MockRedisCache) {
				c.EXPECT().Get(gomock.Any(), "project:generation", gomock.Any()).Return(errors.New("redis down"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.mock(mockCache)

			got, err := shared.CacheGeneration(context.Background(), mockCache, "project:generation")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBumpCacheGeneration(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Increment(gomock.Any(), "project:generation", 0).Return(int64(3), nil)
	mockCache.EXPECT().Increment(gomock.Any(), "project:generation", 0).Return(int64(0), errors.New("redis down"))

	assert.NoError(t, shared.BumpCacheGeneration(context.Background(), mockCache, "project:generation"))
	assert.Error(t, shared.BumpCacheGeneration(context.Background(), mockCache, "project:generation"))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    int64
		wantErr bool
	}{
		{name: "numeric key", key: "42", want: 42},
		{name: "zero", key: "0", wantErr: true},
		{name: "negative", key: "-3", wantErr: true},
		{name: "slug", key: "audi-a6-c7-1700000000000", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := shared.ParseID(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, failure.InvalidIDParam)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}
