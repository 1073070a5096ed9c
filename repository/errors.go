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
	"errors"
	"fmt"
	"strings"

	"github.com/matejhozlar/rowkit/database"
	"github.com/matejhozlar/rowkit/types"
)

// ErrEmptyFilter is returned when a bulk delete is attempted with an empty
// filter set. A whole-table delete must go through Drop.
var ErrEmptyFilter = errors.New("repository: empty filter on bulk delete")

// NotFoundError reports that a required single-row operation matched zero
// rows.
type NotFoundError struct {
	Entity   string
	Criteria types.Fields
}

func (e *NotFoundError) Error() string {
	if len(e.Criteria) == 0 {
		return fmt.Sprintf("%s: not found", e.Entity)
	}
	parts := make([]string, len(e.Criteria))
	for i, f := range e.Criteria {
		parts[i] = fmt.Sprintf("%s=%v", f.Name, f.Value)
	}
	return fmt.Sprintf("%s: not found (%s)", e.Entity, strings.Join(parts, ", "))
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConstraintError reports that the store rejected a mutation due to a
// uniqueness, foreign-key, not-null, or check violation. Constraint carries
// the violated constraint's name when the driver exposes it.
type ConstraintError struct {
	Table      string
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: constraint %s violated: %v", e.Table, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: constraint violated: %v", e.Table, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// QueryError wraps any other store-level failure, carrying the failed
// statement for diagnostics.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v (statement: %s)", e.Err, e.Query)
}

func (e *QueryError) Unwrap() error { return e.Err }

// wrapStoreError classifies a store-level failure into the error taxonomy.
func wrapStoreError(table, queryText string, err error) error {
	if is, kind := database.IsSqlError(err); is && kind.ConstraintViolation() {
		return &ConstraintError{
			Table:      table,
			Constraint: database.ConstraintName(err),
			Err:        err,
		}
	}
	return &QueryError{Query: queryText, Err: err}
}
