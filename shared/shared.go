package shared

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"vprime/shared/cache"
	"vprime/shared/constant"
	"vprime/shared/dto"
	"vprime/shared/failure"
	"vprime/shared/timezone"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// CalculateTotalPage returns ceil(total/limit). An empty result set has zero pages.
func CalculateTotalPage(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}

	return (total + limit - 1) / limit
}

// TransformFields maps the `db` tagged fields of a patch struct to their new values and stamps the
// modification audit columns. Zero fields and nil pointers are left out, so a pointer field set to
// its zero value still counts as supplied. Pointers are dereferenced.
func TransformFields(patch any, actor string) map[string]any {
	val := reflect.ValueOf(patch)
	typ := val.Type()
	fields := make(map[string]any, val.NumField()+2)

	for i := range val.NumField() {
		column := typ.Field(i).Tag.Get("db")
		field := val.Field(i)

		if column == constant.Empty || column == "-" || field.IsZero() {
			continue
		}

		if field.Kind() == reflect.Pointer {
			field = field.Elem()
		}

		fields[column] = field.Interface()
	}

	fields[constant.FieldModifiedAt] = timezone.Now()
	fields[constant.FieldModifiedBy] = actor

	return fields
}

// ParseID converts a path key into a positive serial id.
func ParseID(key string) (int64, error) {
	id, err := strconv.ParseInt(key, 10, 64)
	if err != nil || id < 1 {
		return 0, failure.InvalidIDParam
	}

	return id, nil
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins the prefix and parts with ":".
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a cache key from the listing parameters and the filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	values := make([]string, 0, len(args))
	for _, k := range slices.Sorted(maps.Keys(args)) {
		values = append(values, fmt.Sprintf("%s=%v", k, args[k]))
	}

	return BuildCacheKey(prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		strings.ToLower(strings.Join(strings.Fields(where), " ")),
		strings.Join(values, "&"),
	)
}

// CacheGeneration reads the generation counter stored under key. Readers put it in their cache keys,
// so bumping it retires everything saved before. A missing counter is generation 0.
func CacheGeneration(ctx context.Context, c cache.RedisCache, key string) (string, error) {
	var generation int64
	if err := c.Get(ctx, key, &generation); err != nil && !errors.Is(err, cache.Nil) {
		return constant.Empty, fmt.Errorf("reading cache generation %q: %w", key, err)
	}

	return strconv.FormatInt(generation, 10), nil
}

// BumpCacheGeneration retires every entry keyed with the current generation under key.
func BumpCacheGeneration(ctx context.Context, c cache.RedisCache, key string) error {
	if _, err := c.Increment(ctx, key, 0); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to bump cache generation")

		return fmt.Errorf("bumping cache generation %q: %w", key, err)
	}

	return nil
}
