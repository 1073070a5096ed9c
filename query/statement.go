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
	"fmt"

	"github.com/matejhozlar/rowkit/types"
)

// Stmt is a complete statement: SQL text plus the ordered argument values
// to bind.
type Stmt struct {
	SQL  string
	Args []any
}

func (b *Builder) table(name string) (string, error) {
	if !ValidIdent(name) {
		return "", fmt.Errorf("query: table name %q is not a valid identifier", name)
	}
	return name, nil
}

// Select builds SELECT * FROM table with the filter predicate and optional
// ORDER BY / LIMIT / OFFSET, appended in that fixed order. ORDER BY takes
// no placeholder; LIMIT and OFFSET each take the next placeholder after the
// filter parameters when requested.
func (b *Builder) Select(table string, p Predicate, opts *types.ListOptions) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	sql := "SELECT * FROM " + t + p.where()
	args := append([]any(nil), p.Args...)

	if opts.HasOrder() {
		column, err := b.column(opts.OrderBy)
		if err != nil {
			return Stmt{}, err
		}
		dir, err := direction(opts.Direction)
		if err != nil {
			return Stmt{}, err
		}
		sql += " ORDER BY " + column + " " + dir
	}
	if opts.HasLimit() {
		args = append(args, opts.Limit)
		sql += " LIMIT " + b.placeholder(len(args))
	}
	if opts.HasOffset() {
		args = append(args, opts.Offset)
		sql += " OFFSET " + b.placeholder(len(args))
	}
	return Stmt{SQL: sql, Args: args}, nil
}

// SelectOne builds the single-row lookup used by find and get.
func (b *Builder) SelectOne(table string, p Predicate) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{
		SQL:  "SELECT * FROM " + t + p.where() + " LIMIT 1",
		Args: append([]any(nil), p.Args...),
	}, nil
}

// Exists builds SELECT EXISTS(SELECT 1 FROM table WHERE cond).
func (b *Builder) Exists(table string, p Predicate) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{
		SQL:  "SELECT EXISTS(SELECT 1 FROM " + t + p.where() + ")",
		Args: append([]any(nil), p.Args...),
	}, nil
}

// Count builds SELECT COUNT(*) FROM table with the filter predicate.
func (b *Builder) Count(table string, p Predicate) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{
		SQL:  "SELECT COUNT(*) FROM " + t + p.where(),
		Args: append([]any(nil), p.Args...),
	}, nil
}

// Insert builds INSERT INTO table (cols) VALUES (placeholders), optionally
// with RETURNING *.
func (b *Builder) Insert(table string, values types.Fields, returning bool) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	columns, placeholders, args, err := b.insertClauses(values)
	if err != nil {
		return Stmt{}, err
	}
	sql := "INSERT INTO " + t + " (" + columns + ") VALUES (" + placeholders + ")"
	if returning {
		sql += " RETURNING *"
	}
	return Stmt{SQL: sql, Args: args}, nil
}

// Update builds UPDATE table SET assignments WHERE cond, optionally with
// RETURNING *. The bound argument array is the predicate values followed by
// the set values; set placeholders are numbered accordingly. Under
// StyleQuestion the argument array follows statement text order instead
// (set values first), since question placeholders bind by position.
func (b *Builder) Update(table string, p Predicate, set types.Fields, returning bool) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	assigns, setArgs, err := b.setClause(set, len(p.Args))
	if err != nil {
		return Stmt{}, err
	}
	sql := "UPDATE " + t + " SET " + assigns + p.where()
	if returning {
		sql += " RETURNING *"
	}

	var args []any
	if b.style == StyleQuestion {
		args = append(append(args, setArgs...), p.Args...)
	} else {
		args = append(append(args, p.Args...), setArgs...)
	}
	return Stmt{SQL: sql, Args: args}, nil
}

// Delete builds DELETE FROM table WHERE cond. With the True sentinel the
// WHERE clause is omitted and every row is deleted; callers gate that path.
func (b *Builder) Delete(table string, p Predicate) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	return Stmt{
		SQL:  "DELETE FROM " + t + p.where(),
		Args: append([]any(nil), p.Args...),
	}, nil
}

// Upsert builds INSERT ... ON CONFLICT (targets) DO UPDATE SET ... RETURNING *.
// Conflict targets and the optional update-field subset are resolved through
// the naming transform like every other identifier.
func (b *Builder) Upsert(table string, values types.Fields, conflictFields, updateFields []string) (Stmt, error) {
	t, err := b.table(table)
	if err != nil {
		return Stmt{}, err
	}
	columns, placeholders, args, err := b.insertClauses(values)
	if err != nil {
		return Stmt{}, err
	}
	conflict, err := b.conflictClause(values, conflictFields, updateFields)
	if err != nil {
		return Stmt{}, err
	}
	sql := "INSERT INTO " + t + " (" + columns + ") VALUES (" + placeholders + ")" + conflict + " RETURNING *"
	return Stmt{SQL: sql, Args: args}, nil
}

func direction(d types.Direction) (string, error) {
	switch d {
	case "", types.Ascending:
		return "ASC", nil
	case types.Descending:
		return "DESC", nil
	default:
		return "", fmt.Errorf("query: invalid sort direction %q", string(d))
	}
}
