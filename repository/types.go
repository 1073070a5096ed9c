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

	"github.com/matejhozlar/rowkit/types"

	"github.com/uptrace/bun/schema"
)

// Conn executes a parameterized statement against the store. Both *sql.DB
// and *sql.Tx satisfy it; the repository never needs more than this from a
// connection.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CrudRepository defines the single-row operations for a generic entity
// type. Identifier mappings must contain at least one field; an empty
// identifier is rejected before any statement is issued.
type CrudRepository[T any] interface {
	// Find returns the entity matching the identifier, or nil when no row
	// matches.
	Find(ctx context.Context, id types.Fields) (*T, error)

	// Get returns the entity matching the identifier, or a *NotFoundError
	// when no row matches.
	Get(ctx context.Context, id types.Fields) (*T, error)

	// Exists reports whether a row matches the identifier.
	Exists(ctx context.Context, id types.Fields) (bool, error)

	// Create inserts a new row from the given field values.
	Create(ctx context.Context, values types.Fields) error

	// CreateAndReturn inserts a new row and returns the created entity.
	CreateAndReturn(ctx context.Context, values types.Fields) (*T, error)

	// Update mutates the row matching the identifier. A zero-row match is
	// a *NotFoundError.
	Update(ctx context.Context, id, set types.Fields) error

	// UpdateAndReturn mutates the row matching the identifier and returns
	// the updated entity. A zero-row match is a *NotFoundError.
	UpdateAndReturn(ctx context.Context, id, set types.Fields) (*T, error)

	// Delete removes the row matching the identifier. A zero-row match is
	// a *NotFoundError.
	Delete(ctx context.Context, id types.Fields) error

	// Upsert inserts the given values or, on a conflict over the given
	// target fields, updates the listed fields (all inserted fields when
	// updateFields is empty), returning the resulting entity.
	Upsert(ctx context.Context, values types.Fields, conflictFields, updateFields []string) (*T, error)

	// Raw executes the given statement text with positional values and maps
	// the resulting rows to entities. It bypasses all builders; the caller
	// owns the statement's correctness.
	Raw(ctx context.Context, query string, args ...any) ([]*T, error)
}

// BulkRepository defines the zero-or-more-row operations.
type BulkRepository[T any] interface {
	// FindAll returns the entities matching the optional filters, windowed
	// and ordered by opts.
	FindAll(ctx context.Context, filters types.Fields, opts *types.ListOptions) ([]*T, error)

	// UpdateAll mutates every row matching the filters and returns the
	// affected count. Empty filters deliberately update the whole table.
	UpdateAll(ctx context.Context, set, filters types.Fields) (int64, error)

	// DeleteAll removes every row matching the filters and returns the
	// affected count. Empty filters are rejected with ErrEmptyFilter before
	// any statement is issued.
	DeleteAll(ctx context.Context, filters types.Fields) (int64, error)

	// Drop removes every row in the table and returns the deleted count.
	Drop(ctx context.Context) (int64, error)

	// Count returns the number of rows matching the optional filters.
	Count(ctx context.Context, filters types.Fields) (int64, error)

	// Page returns one page of entities plus the total matching count.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)
}

// TransactionRepository scopes repository operations to a transaction.
type TransactionRepository[T any] interface {
	// RunInTx runs fn inside a transaction: commit on success, rollback on
	// error or panic, release on every exit path.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository[T]) error) error

	// Begin opens a transaction on a dedicated session and hands ownership
	// to the caller, who must Commit or Rollback it. Prefer RunInTx.
	Begin(ctx context.Context) (*sql.Tx, error)

	// WithTx returns a repository view bound to the given transaction.
	WithTx(tx *sql.Tx) Repository[T]
}

// Repository combines the CRUD, bulk, and transactional operation surfaces
// for one configured entity.
type Repository[T any] interface {
	CrudRepository[T]
	BulkRepository[T]
	TransactionRepository[T]
	Dialect() schema.Dialect
}
