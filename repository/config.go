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
	"fmt"

	"github.com/matejhozlar/rowkit/query"
	"github.com/matejhozlar/rowkit/types"
)

// Definition fixes one entity's access configuration. It is validated at
// construction and never mutated afterwards.
type Definition[T any] struct {
	// Name is the entity name used in errors; defaults to Table.
	Name string

	// Table is the storage table name.
	Table string

	// Overrides maps domain field names to storage column names for fields
	// the default naming rewrite cannot handle (acronyms, legacy columns).
	Overrides map[string]string

	// Decode converts a mapped record into the entity type. It may be nil
	// when T is types.Record, in which case records pass through untouched.
	Decode func(types.Record) (*T, error)
}

func (d Definition[T]) normalize() (Definition[T], error) {
	if !query.ValidIdent(d.Table) {
		return d, fmt.Errorf("repository: table name %q is not a valid identifier", d.Table)
	}
	if d.Name == "" {
		d.Name = d.Table
	}
	if d.Decode == nil {
		if _, ok := any((*T)(nil)).(*types.Record); !ok {
			return d, fmt.Errorf("repository: definition for table %q needs a Decode function", d.Table)
		}
		d.Decode = func(rec types.Record) (*T, error) {
			entity := any(rec).(T)
			return &entity, nil
		}
	}
	return d, nil
}
