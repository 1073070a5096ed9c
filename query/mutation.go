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

package query

import (
	"errors"
	"strings"

	"github.com/matejhozlar/rowkit/types"
)

// ErrEmptyMutation is returned when a create or update mapping has no
// entries to write.
var ErrEmptyMutation = errors.New("query: empty mutation set")

// insertClauses renders the column list and placeholder list of an INSERT,
// placeholders numbered from 1 in mapping order.
func (b *Builder) insertClauses(values types.Fields) (columns, placeholders string, args []any, err error) {
	if len(values) == 0 {
		return "", "", nil, ErrEmptyMutation
	}
	cols := make([]string, 0, len(values))
	phs := make([]string, 0, len(values))
	args = make([]any, 0, len(values))
	for _, f := range values {
		column, err := b.column(f.Name)
		if err != nil {
			return "", "", nil, err
		}
		args = append(args, f.Value)
		cols = append(cols, column)
		phs = append(phs, b.placeholder(len(args)))
	}
	return strings.Join(cols, ", "), strings.Join(phs, ", "), args, nil
}

// setClause renders the SET assignments of an UPDATE. Identifier (or
// filter) values are always bound first, so placeholder numbering continues
// after offset: the n-th assignment binds argument position offset+n.
func (b *Builder) setClause(values types.Fields, offset int) (string, []any, error) {
	if len(values) == 0 {
		return "", nil, ErrEmptyMutation
	}
	assigns := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for _, f := range values {
		column, err := b.column(f.Name)
		if err != nil {
			return "", nil, err
		}
		args = append(args, f.Value)
		assigns = append(assigns, column+" = "+b.placeholder(offset+len(args)))
	}
	return strings.Join(assigns, ", "), args, nil
}

// conflictClause renders an ON CONFLICT target and its DO UPDATE SET list.
// Every column named in updateFields is overwritten with the proposed
// (EXCLUDED) value; when updateFields is empty every inserted field is.
func (b *Builder) conflictClause(values types.Fields, conflictFields, updateFields []string) (string, error) {
	if len(conflictFields) == 0 {
		return "", errors.New("query: upsert requires at least one conflict target field")
	}
	targets := make([]string, 0, len(conflictFields))
	for _, f := range conflictFields {
		column, err := b.column(f)
		if err != nil {
			return "", err
		}
		targets = append(targets, column)
	}

	if len(updateFields) == 0 {
		updateFields = values.Names()
	}
	sets := make([]string, 0, len(updateFields))
	for _, f := range updateFields {
		column, err := b.column(f)
		if err != nil {
			return "", err
		}
		sets = append(sets, column+" = EXCLUDED."+column)
	}

	return " ON CONFLICT (" + strings.Join(targets, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", "), nil
}
