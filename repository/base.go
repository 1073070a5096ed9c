/*
 * Copyright 2026 matejhozlar.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/matejhozlar/rowkit/database"
	"github.com/matejhozlar/rowkit/naming"
	"github.com/matejhozlar/rowkit/query"
	"github.com/matejhozlar/rowkit/types"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	def     Definition[T]
	db      *bun.DB
	sqlDB   *sql.DB
	conn    Conn
	builder *query.Builder
	mapper  *Mapper
	logger  database.Logger
}

// New returns a generic repository for the configured entity, backed by the
// provided Bun DB. Statements are executed through the embedded *sql.DB so
// values are always bound server-side as positional parameters.
func New[T any](db *bun.DB, def Definition[T]) (Repository[T], error) {
	def, err := def.normalize()
	if err != nil {
		return nil, err
	}

	names := naming.New(def.Overrides)
	style := query.StyleNumbered
	if db.Dialect().Name() != dialect.PG {
		// question placeholders bind by text position, which every
		// supported driver handles uniformly
		style = query.StyleQuestion
	}

	return &baseRepositoryImpl[T]{
		def:     def,
		db:      db,
		sqlDB:   db.DB,
		conn:    db.DB,
		builder: query.NewBuilder(names, style),
		mapper:  NewMapper(names),
		logger:  database.GetLogger(),
	}, nil
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) Find(ctx context.Context, id types.Fields) (*T, error) {
	p, err := r.builder.Identifier(id)
	if err != nil {
		return nil, err
	}
	stmt, err := r.builder.SelectOne(r.def.Table, p)
	if err != nil {
		return nil, err
	}
	entities, err := r.queryEntities(ctx, "find", stmt)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, nil
	}
	return entities[0], nil
}

func (r *baseRepositoryImpl[T]) Get(ctx context.Context, id types.Fields) (*T, error) {
	entity, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, &NotFoundError{Entity: r.def.Name, Criteria: id}
	}
	return entity, nil
}

func (r *baseRepositoryImpl[T]) Exists(ctx context.Context, id types.Fields) (bool, error) {
	p, err := r.builder.Identifier(id)
	if err != nil {
		return false, err
	}
	stmt, err := r.builder.Exists(r.def.Table, p)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := r.queryScalar(ctx, "exists", stmt, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, values types.Fields) error {
	stmt, err := r.builder.Insert(r.def.Table, values, false)
	if err != nil {
		return err
	}
	_, err = r.exec(ctx, "create", stmt)
	return err
}

func (r *baseRepositoryImpl[T]) CreateAndReturn(ctx context.Context, values types.Fields) (*T, error) {
	if err := r.requireFeature(feature.Returning, "createAndReturn"); err != nil {
		return nil, err
	}
	stmt, err := r.builder.Insert(r.def.Table, values, true)
	if err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "createAndReturn", stmt)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, id, set types.Fields) error {
	p, err := r.builder.Identifier(id)
	if err != nil {
		return err
	}
	stmt, err := r.builder.Update(r.def.Table, p, set, false)
	if err != nil {
		return err
	}
	affected, err := r.exec(ctx, "update", stmt)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: r.def.Name, Criteria: id}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) UpdateAndReturn(ctx context.Context, id, set types.Fields) (*T, error) {
	if err := r.requireFeature(feature.Returning, "updateAndReturn"); err != nil {
		return nil, err
	}
	p, err := r.builder.Identifier(id)
	if err != nil {
		return nil, err
	}
	stmt, err := r.builder.Update(r.def.Table, p, set, true)
	if err != nil {
		return nil, err
	}
	entities, err := r.queryEntities(ctx, "updateAndReturn", stmt)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, &NotFoundError{Entity: r.def.Name, Criteria: id}
	}
	return entities[0], nil
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id types.Fields) error {
	p, err := r.builder.Identifier(id)
	if err != nil {
		return err
	}
	stmt, err := r.builder.Delete(r.def.Table, p)
	if err != nil {
		return err
	}
	affected, err := r.exec(ctx, "delete", stmt)
	if err != nil {
		return err
	}
	if affected == 0 {
		return &NotFoundError{Entity: r.def.Name, Criteria: id}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) FindAll(ctx context.Context, filters types.Fields, opts *types.ListOptions) ([]*T, error) {
	p, err := r.builder.Filter(filters)
	if err != nil {
		return nil, err
	}
	stmt, err := r.builder.Select(r.def.Table, p, opts)
	if err != nil {
		return nil, err
	}
	return r.queryEntities(ctx, "findAll", stmt)
}

func (r *baseRepositoryImpl[T]) UpdateAll(ctx context.Context, set, filters types.Fields) (int64, error) {
	// empty filters are a deliberate whole-table update
	p, err := r.builder.Filter(filters)
	if err != nil {
		return 0, err
	}
	stmt, err := r.builder.Update(r.def.Table, p, set, false)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, "updateAll", stmt)
}

func (r *baseRepositoryImpl[T]) DeleteAll(ctx context.Context, filters types.Fields) (int64, error) {
	p, err := r.builder.Filter(filters)
	if err != nil {
		return 0, err
	}
	if p.Empty() {
		return 0, ErrEmptyFilter
	}
	stmt, err := r.builder.Delete(r.def.Table, p)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, "deleteAll", stmt)
}

func (r *baseRepositoryImpl[T]) Drop(ctx context.Context) (int64, error) {
	stmt, err := r.builder.Delete(r.def.Table, query.True)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, "drop", stmt)
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filters types.Fields) (int64, error) {
	p, err := r.builder.Filter(filters)
	if err != nil {
		return 0, err
	}
	stmt, err := r.builder.Count(r.def.Table, p)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := r.queryScalar(ctx, "count", stmt, &count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	pagination := types.NewDefaultPagination[T](page.GetPage(), page.GetPageSize())
	total, err := r.Count(ctx, page.GetFilter())
	if err != nil || total == 0 {
		return pagination, err
	}
	items, err := r.FindAll(ctx, page.GetFilter(), page.ListOptions())
	if err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = items
	return pagination, nil
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, values types.Fields, conflictFields, updateFields []string) (*T, error) {
	if err := r.requireFeature(feature.InsertOnConflict, "upsert"); err != nil {
		return nil, err
	}
	stmt, err := r.builder.Upsert(r.def.Table, values, conflictFields, updateFields)
	if err != nil {
		return nil, err
	}
	return r.queryOne(ctx, "upsert", stmt)
}

func (r *baseRepositoryImpl[T]) Raw(ctx context.Context, queryText string, args ...any) ([]*T, error) {
	return r.queryEntities(ctx, "raw", query.Stmt{SQL: queryText, Args: args})
}

func (r *baseRepositoryImpl[T]) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: begin transaction on %s: %w", r.def.Table, err)
	}
	return tx, nil
}

func (r *baseRepositoryImpl[T]) WithTx(tx *sql.Tx) Repository[T] {
	scoped := *r
	scoped.conn = tx
	return &scoped
}

func (r *baseRepositoryImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(ctx, r.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Error("Transaction rollback failed", "table", r.def.Table, "error", rbErr)
		}
		return err
	}
	return tx.Commit()
}

// queryEntities runs a row-returning statement and maps every row to an
// entity, preserving order.
func (r *baseRepositoryImpl[T]) queryEntities(ctx context.Context, op string, stmt query.Stmt) ([]*T, error) {
	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	r.logQuery(op, stmt, start)
	if err != nil {
		return nil, r.storeError(op, stmt.SQL, err)
	}
	defer func() { _ = rows.Close() }()

	records, err := r.mapper.Records(rows)
	if err != nil {
		return nil, r.storeError(op, stmt.SQL, err)
	}

	entities := make([]*T, 0, len(records))
	for _, rec := range records {
		entity, err := r.def.Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("repository: decode %s row: %w", r.def.Name, err)
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// queryOne runs a statement expected to return exactly one row.
func (r *baseRepositoryImpl[T]) queryOne(ctx context.Context, op string, stmt query.Stmt) (*T, error) {
	entities, err := r.queryEntities(ctx, op, stmt)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return nil, r.storeError(op, stmt.SQL, sql.ErrNoRows)
	}
	return entities[0], nil
}

// queryScalar runs a statement returning a single one-column row.
func (r *baseRepositoryImpl[T]) queryScalar(ctx context.Context, op string, stmt query.Stmt, dest any) error {
	start := time.Now()
	rows, err := r.conn.QueryContext(ctx, stmt.SQL, stmt.Args...)
	r.logQuery(op, stmt, start)
	if err != nil {
		return r.storeError(op, stmt.SQL, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return r.storeError(op, stmt.SQL, err)
		}
		return r.storeError(op, stmt.SQL, sql.ErrNoRows)
	}
	if err := rows.Scan(dest); err != nil {
		return r.storeError(op, stmt.SQL, err)
	}
	return rows.Err()
}

func (r *baseRepositoryImpl[T]) exec(ctx context.Context, op string, stmt query.Stmt) (int64, error) {
	start := time.Now()
	res, err := r.conn.ExecContext(ctx, stmt.SQL, stmt.Args...)
	r.logQuery(op, stmt, start)
	if err != nil {
		return 0, r.storeError(op, stmt.SQL, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, r.storeError(op, stmt.SQL, err)
	}
	return affected, nil
}

// logQuery reports an executed statement through the database logger. Bun
// query hooks never see statements issued on the raw connection, so this is
// the layer's own query log, gated on the same configuration knobs.
func (r *baseRepositoryImpl[T]) logQuery(op string, stmt query.Stmt, start time.Time) {
	enabled, slowTime := database.QueryLogSettings()
	if !enabled && slowTime <= 0 {
		return
	}
	duration := time.Since(start)
	if enabled {
		r.logger.Debug("Query executed", "table", r.def.Table, "op", op,
			"duration", duration, "query", stmt.SQL, "args", stmt.Args)
	}
	if slowTime > 0 && duration > slowTime {
		r.logger.Warn("Database slow query detected:", "table", r.def.Table, "op", op,
			"duration", duration, "slow_threshold", slowTime, "query", stmt.SQL)
	}
}

func (r *baseRepositoryImpl[T]) storeError(op, queryText string, err error) error {
	r.logger.Error("Store operation failed", "table", r.def.Table, "op", op, "error", err)
	return wrapStoreError(r.def.Table, queryText, err)
}

func (r *baseRepositoryImpl[T]) requireFeature(f feature.Feature, op string) error {
	if !r.db.HasFeature(f) {
		return fmt.Errorf("repository: %s is not supported by the %s dialect", op, r.db.Dialect().Name())
	}
	return nil
}
