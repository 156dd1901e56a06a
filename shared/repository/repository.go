// Package repository holds the generic postgres table access shared by every domain.
// Columns come from the `db` tags of T; fields tagged `insert:"-"` are left to the store.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"vprime/infras/otel"
	"vprime/infras/postgres"
	"vprime/shared/constant"
	"vprime/shared/dto"
	"vprime/shared/logger"

	"github.com/jmoiron/sqlx"
)

// ErrRequiredFilter guards statements that would otherwise touch every row.
var ErrRequiredFilter = errors.New("a filter is required")

const (
	argLimit  = "limit"
	argOffset = "offset"

	setArgPrefix = "set_"
)

type Repository[T any] struct {
	db         *postgres.Connection
	otel       otel.Otel
	entity     string
	table      string
	primary    string
	columns    []string
	insertable []string
}

func NewRepository[T any](entity, table, primary string, db *postgres.Connection, ot otel.Otel) Repository[T] {
	columns, insertable := tagColumns(reflect.TypeFor[T]())

	return Repository[T]{
		db:         db,
		otel:       ot,
		entity:     entity,
		table:      table,
		primary:    primary,
		columns:    columns,
		insertable: insertable,
	}
}

func (r *Repository[T]) Insert(ctx context.Context, row T) (err error) {
	query := r.insertQuery(false)

	ctx, scope := r.scope(ctx, "Insert", query)
	defer func() { finish(scope, err) }()

	if _, err = r.db.Write.NamedExecContext(ctx, query, row); err != nil {
		return r.wrap("insert", err)
	}

	return nil
}

// InsertReturning inserts row and scans back the stored version, store assigned ids and defaults included.
func (r *Repository[T]) InsertReturning(ctx context.Context, row T) (stored T, err error) {
	query := r.insertQuery(true)

	ctx, scope := r.scope(ctx, "InsertReturning", query)
	defer func() { finish(scope, err) }()

	found, err := namedGet(ctx, r.db.Write, &stored, query, row)
	if err == nil && !found {
		err = sql.ErrNoRows
	}

	if err != nil {
		return stored, r.wrap("insert", err)
	}

	return stored, nil
}

func (r *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (exist bool, err error) {
	where, args := BuildWhereClause(filter)
	if where == constant.Empty {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", r.table, where)

	ctx, scope := r.scope(ctx, "Exist", query)
	defer func() { finish(scope, err) }()

	if _, err = namedGet(ctx, r.db.Read, &exist, query, args); err != nil {
		return false, r.wrap("check existence of", err)
	}

	return exist, nil
}

// Get returns the first row matching filter, or the zero value when none does.
func (r *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (row T, err error) {
	where, args := BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", r.selectList(columns), r.table, where)

	ctx, scope := r.scope(ctx, "Get", query)
	defer func() { finish(scope, err) }()

	if _, err = namedGet(ctx, r.db.Read, &row, query, args); err != nil {
		return row, r.wrap("get", err)
	}

	return row, nil
}

// GetAll pages through the rows matching filter. A zero page with a positive limit returns the first limit rows.
func (r *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) (rows []T, err error) {
	where, args := BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s%s%s", r.selectList(columns), r.table, where, r.orderBy(params), paginate(params, args))

	ctx, scope := r.scope(ctx, "GetAll", query)
	defer func() { finish(scope, err) }()

	stmt, err := r.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, r.wrap("prepare list of", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &rows, args); err != nil {
		return nil, r.wrap("list", err)
	}

	return rows, nil
}

func (r *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (count int, err error) {
	where, args := BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", r.table, r.primary, r.table, where)

	ctx, scope := r.scope(ctx, "Count", query)
	defer func() { finish(scope, err) }()

	if _, err = namedGet(ctx, r.db.Read, &count, query, args); err != nil {
		return 0, r.wrap("count", err)
	}

	return count, nil
}

func (r *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (err error) {
	query, args, err := r.updateQuery(fields, filter, false)
	if err != nil {
		return err
	}

	ctx, scope := r.scope(ctx, "Update", query)
	defer func() { finish(scope, err) }()

	if _, err = r.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return r.wrap("update", err)
	}

	return nil
}

// UpdateReturning applies fields to the rows matching filter and returns the first one updated.
// The zero value means nothing matched.
func (r *Repository[T]) UpdateReturning(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (row T, err error) {
	query, args, err := r.updateQuery(fields, filter, true)
	if err != nil {
		return row, err
	}

	ctx, scope := r.scope(ctx, "UpdateReturning", query)
	defer func() { finish(scope, err) }()

	if _, err = namedGet(ctx, r.db.Write, &row, query, args); err != nil {
		return row, r.wrap("update", err)
	}

	return row, nil
}

// DeleteReturning removes the rows matching filter and returns the first one removed.
// The zero value means nothing matched.
func (r *Repository[T]) DeleteReturning(ctx context.Context, filter dto.FilterGroup) (row T, err error) {
	where, args := BuildWhereClause(filter)
	if where == constant.Empty {
		return row, ErrRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s%s RETURNING %s", r.table, where, strings.Join(r.columns, ", "))

	ctx, scope := r.scope(ctx, "DeleteReturning", query)
	defer func() { finish(scope, err) }()

	if _, err = namedGet(ctx, r.db.Write, &row, query, args); err != nil {
		return row, r.wrap("delete", err)
	}

	return row, nil
}

// BuildWhereClause renders filter as " WHERE ..." with its named arguments. An empty filter yields "".
func BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == constant.Empty {
		return constant.Empty, map[string]any{}
	}

	return " WHERE " + where, args
}

func (r *Repository[T]) insertQuery(returning bool) string {
	placeholders := make([]string, len(r.insertable))
	for i, col := range r.insertable {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", r.table, strings.Join(r.insertable, ", "), strings.Join(placeholders, ", "))
	if returning {
		query += " RETURNING " + strings.Join(r.columns, ", ")
	}

	return query
}

// updateQuery sorts the assignments so the same change always renders the same statement.
// New values are bound under a prefix so they never shadow the filter arguments.
func (r *Repository[T]) updateQuery(fields map[string]any, filter dto.FilterGroup, returning bool) (string, map[string]any, error) {
	where, args := BuildWhereClause(filter)
	if where == constant.Empty {
		return constant.Empty, nil, ErrRequiredFilter
	}

	if len(fields) == 0 {
		return constant.Empty, nil, fmt.Errorf("update %s: no fields to set", r.entity)
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s%s", col, setArgPrefix, col))
		args[setArgPrefix+col] = fields[col]
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", r.table, strings.Join(assignments, ", "), where)
	if returning {
		query += " RETURNING " + strings.Join(r.columns, ", ")
	}

	return query, args, nil
}

// selectList qualifies the requested columns with the table name. No columns means all of them.
func (r *Repository[T]) selectList(only []string) string {
	list := make([]string, 0, len(r.columns))

	for _, col := range r.columns {
		if len(only) > 0 && !slices.Contains(only, col) {
			continue
		}

		list = append(list, r.table+"."+col)
	}

	return strings.Join(list, ", ")
}

// orderBy breaks ties on the primary key in the same direction so equal sort values keep a stable order across pages.
func (r *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == constant.Empty || params.SortDir == constant.Empty {
		return constant.Empty
	}

	primary := r.table + "." + r.primary
	if params.SortBy == primary || params.SortBy == r.primary {
		return fmt.Sprintf(" ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	return fmt.Sprintf(" ORDER BY %s %s, %s %s", params.SortBy, params.SortDir, primary, params.SortDir)
}

func paginate(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return constant.Empty
	}

	args[argLimit] = params.Limit
	if params.Page <= 0 {
		return " LIMIT :limit"
	}

	args[argOffset] = (params.Page - 1) * params.Limit

	return " LIMIT :limit OFFSET :offset"
}

func (r *Repository[T]) scope(ctx context.Context, op, query string) (context.Context, otel.Scope) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, r.entity, op))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	return ctx, scope
}

func finish(scope otel.Scope, err error) {
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)
	}

	scope.End()
}

func (r *Repository[T]) wrap(action string, err error) error {
	return fmt.Errorf("%s %s: %w", action, r.entity, err)
}

// namedGet scans a single row into dest. found is false when the statement matched nothing.
func namedGet(ctx context.Context, db *sqlx.DB, dest any, query string, arg any) (found bool, err error) {
	stmt, err := db.PrepareNamedContext(ctx, query)
	if err != nil {
		return false, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, dest, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return err == nil, err
}

// tagColumns walks T's fields, embedded structs included, collecting `db` tags in declaration order.
func tagColumns(t reflect.Type) (columns, insertable []string) {
	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			nested, nestedInsert := tagColumns(field.Type)
			columns = append(columns, nested...)
			insertable = append(insertable, nestedInsert...)

			continue
		}

		name := field.Tag.Get("db")
		if name == constant.Empty || name == "-" {
			continue
		}

		columns = append(columns, name)
		if field.Tag.Get("insert") != "-" {
			insertable = append(insertable, name)
		}
	}

	return columns, insertable
}
