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
	"database/sql"

	"github.com/matejhozlar/rowkit/naming"
	"github.com/matejhozlar/rowkit/types"
)

// Mapper converts storage rows into domain records by renaming keys through
// the naming transform. Values are passed through exactly as the driver
// returned them; type conversion is the driver's job, not this layer's.
type Mapper struct {
	names *naming.Transform
}

// NewMapper returns a Mapper over the given naming transform.
func NewMapper(names *naming.Transform) *Mapper {
	if names == nil {
		names = naming.New(nil)
	}
	return &Mapper{names: names}
}

// Entity converts one column-keyed row into a field-keyed record.
func (m *Mapper) Entity(row map[string]any) types.Record {
	rec := make(types.Record, len(row))
	for column, value := range row {
		rec[m.names.Field(column)] = value
	}
	return rec
}

// Row converts one field-keyed record into a column-keyed row.
func (m *Mapper) Row(rec types.Record) map[string]any {
	row := make(map[string]any, len(rec))
	for field, value := range rec {
		row[m.names.Column(field)] = value
	}
	return row
}

// Records drains rows into field-keyed records, preserving row order and
// cardinality. Zero rows yield an empty, non-nil slice.
func (m *Mapper) Records(rows *sql.Rows) ([]types.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fields := make([]string, len(columns))
	for i, column := range columns {
		fields[i] = m.names.Field(column)
	}

	records := make([]types.Record, 0, 4)
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec := make(types.Record, len(columns))
		for i, field := range fields {
			rec[field] = values[i]
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
