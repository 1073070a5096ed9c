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

// ErrEmptyIdentifier is returned when an identifier mapping has no entries.
// Single-row operations reject it before any statement is issued.
var ErrEmptyIdentifier = errors.New("query: empty identifier")

// Predicate is a parameterized boolean condition plus its ordered values.
// The zero value is the True sentinel: it matches every row and renders no
// WHERE clause.
type Predicate struct {
	Cond string
	Args []any
}

// True is the empty-predicate sentinel. It is a named value rather than a
// magic "1=1" string so builder output stays structurally inspectable.
var True = Predicate{}

// Empty reports whether the predicate is the True sentinel.
func (p Predicate) Empty() bool { return p.Cond == "" }

// where renders the predicate as a WHERE clause with a leading space, or
// the empty string for the True sentinel.
func (p Predicate) where() string {
	if p.Empty() {
		return ""
	}
	return " WHERE " + p.Cond
}

// Identifier builds an identifier-style predicate: every entry is included
// verbatim and an empty mapping is rejected with ErrEmptyIdentifier.
// Entries become column = placeholder conditions joined with AND,
// placeholders numbered from 1 in mapping order.
func (b *Builder) Identifier(id types.Fields) (Predicate, error) {
	if len(id) == 0 {
		return True, ErrEmptyIdentifier
	}
	return b.conjunction(id, false)
}

// Filter builds a filter-style predicate: entries whose value is
// types.Absent are skipped, explicit nil entries are bound as NULL values,
// and when nothing remains the True sentinel is returned.
func (b *Builder) Filter(filters types.Fields) (Predicate, error) {
	return b.conjunction(filters, true)
}

func (b *Builder) conjunction(fields types.Fields, skipAbsent bool) (Predicate, error) {
	conds := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		if skipAbsent && f.Value == types.Absent {
			continue
		}
		column, err := b.column(f.Name)
		if err != nil {
			return True, err
		}
		args = append(args, f.Value)
		conds = append(conds, column+" = "+b.placeholder(len(args)))
	}
	if len(conds) == 0 {
		return True, nil
	}
	return Predicate{Cond: strings.Join(conds, " AND "), Args: args}, nil
}
