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

// Package rowkit provides generic, type-safe access to relational entities.
// The root Service facade binds an entity definition to the globally
// initialized database; the repository package exposes the same operations
// over an explicit connection.
package rowkit

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/matejhozlar/rowkit/database"
	"github.com/matejhozlar/rowkit/repository"
	"github.com/matejhozlar/rowkit/types"
)

// ErrDatabaseNotInitialized is returned by Service operations invoked before
// database.InitDB has connected the global database.
var ErrDatabaseNotInitialized = errors.New("rowkit: database not initialized, call database.InitDB first")

type Service[T any] interface {
	// Find returns the entity matching the identifier, or nil when no row
	// matches.
	Find(ctx context.Context, id types.Fields) (*T, error)

	// Get returns the entity matching the identifier, failing with a
	// not-found error when no row matches.
	Get(ctx context.Context, id types.Fields) (*T, error)

	// Exists reports whether a row matches the identifier.
	Exists(ctx context.Context, id types.Fields) (bool, error)

	// Create inserts a new row from the given field values.
	Create(ctx context.Context, values types.Fields) error

	// CreateAndReturn inserts a new row and returns the created entity.
	CreateAndReturn(ctx context.Context, values types.Fields) (*T, error)

	// Update mutates the row matching the identifier.
	Update(ctx context.Context, id, set types.Fields) error

	// UpdateAndReturn mutates the row matching the identifier and returns the
	// updated entity.
	UpdateAndReturn(ctx context.Context, id, set types.Fields) (*T, error)

	// Delete removes the row matching the identifier.
	Delete(ctx context.Context, id types.Fields) error

	// Upsert inserts values or updates the listed fields on conflict over the
	// target fields, returning the resulting entity.
	Upsert(ctx context.Context, values types.Fields, conflictFields, updateFields []string) (*T, error)

	// Raw executes a raw statement with positional values and maps the rows
	// to entities.
	Raw(ctx context.Context, query string, args ...any) ([]*T, error)

	// FindAll returns the entities matching the optional filters.
	FindAll(ctx context.Context, filters types.Fields, opts *types.ListOptions) ([]*T, error)

	// UpdateAll mutates every matching row and returns the affected count.
	UpdateAll(ctx context.Context, set, filters types.Fields) (int64, error)

	// DeleteAll removes every matching row and returns the affected count.
	DeleteAll(ctx context.Context, filters types.Fields) (int64, error)

	// Drop removes every row in the table and returns the deleted count.
	Drop(ctx context.Context) (int64, error)

	// Count returns the number of rows matching the optional filters.
	Count(ctx context.Context, filters types.Fields) (int64, error)

	// Page returns a paginated list of entities.
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error)

	// RunInTx runs fn inside a transaction scoped to this entity.
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository[T]) error) error

	// Begin opens a caller-owned transaction.
	Begin(ctx context.Context) (*sql.Tx, error)

	// WithTx returns a repository view bound to the given transaction.
	WithTx(tx *sql.Tx) (repository.Repository[T], error)
}

type baseServiceImpl[T any] struct {
	def  repository.Definition[T]
	repo repository.Repository[T]
	err  error
	once sync.Once
}

// NewService returns a default Service implementation using the generic
// repository backed by the global database connection. The repository binds
// lazily on first use, so services may be declared before InitDB runs.
func NewService[T any](def repository.Definition[T]) Service[T] {
	return &baseServiceImpl[T]{def: def}
}

func (s *baseServiceImpl[T]) baseRepo() (repository.Repository[T], error) {
	// checked outside the once so an early call does not pin the failure
	db := database.GetDB()
	if db == nil {
		return nil, ErrDatabaseNotInitialized
	}
	s.once.Do(func() {
		s.repo, s.err = repository.New[T](db, s.def)
	})
	return s.repo, s.err
}

func (s *baseServiceImpl[T]) Find(ctx context.Context, id types.Fields) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Find(ctx, id)
}

func (s *baseServiceImpl[T]) Get(ctx context.Context, id types.Fields) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

func (s *baseServiceImpl[T]) Exists(ctx context.Context, id types.Fields) (bool, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return false, err
	}
	return repo.Exists(ctx, id)
}

func (s *baseServiceImpl[T]) Create(ctx context.Context, values types.Fields) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Create(ctx, values)
}

func (s *baseServiceImpl[T]) CreateAndReturn(ctx context.Context, values types.Fields) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.CreateAndReturn(ctx, values)
}

func (s *baseServiceImpl[T]) Update(ctx context.Context, id, set types.Fields) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Update(ctx, id, set)
}

func (s *baseServiceImpl[T]) UpdateAndReturn(ctx context.Context, id, set types.Fields) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.UpdateAndReturn(ctx, id, set)
}

func (s *baseServiceImpl[T]) Delete(ctx context.Context, id types.Fields) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, id)
}

func (s *baseServiceImpl[T]) Upsert(ctx context.Context, values types.Fields, conflictFields, updateFields []string) (*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Upsert(ctx, values, conflictFields, updateFields)
}

func (s *baseServiceImpl[T]) Raw(ctx context.Context, query string, args ...any) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Raw(ctx, query, args...)
}

func (s *baseServiceImpl[T]) FindAll(ctx context.Context, filters types.Fields, opts *types.ListOptions) ([]*T, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.FindAll(ctx, filters, opts)
}

func (s *baseServiceImpl[T]) UpdateAll(ctx context.Context, set, filters types.Fields) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.UpdateAll(ctx, set, filters)
}

func (s *baseServiceImpl[T]) DeleteAll(ctx context.Context, filters types.Fields) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.DeleteAll(ctx, filters)
}

func (s *baseServiceImpl[T]) Drop(ctx context.Context) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Drop(ctx)
}

func (s *baseServiceImpl[T]) Count(ctx context.Context, filters types.Fields) (int64, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return 0, err
	}
	return repo.Count(ctx, filters)
}

func (s *baseServiceImpl[T]) Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Page(ctx, page)
}

func (s *baseServiceImpl[T]) RunInTx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository[T]) error) error {
	repo, err := s.baseRepo()
	if err != nil {
		return err
	}
	return repo.RunInTx(ctx, fn)
}

func (s *baseServiceImpl[T]) Begin(ctx context.Context) (*sql.Tx, error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.Begin(ctx)
}

func (s *baseServiceImpl[T]) WithTx(tx *sql.Tx) (repository.Repository[T], error) {
	repo, err := s.baseRepo()
	if err != nil {
		return nil, err
	}
	return repo.WithTx(tx), nil
}
