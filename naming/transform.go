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

// Package naming converts between the camelCase field names used by domain
// entities and the snake_case column names used by the relational schema.
//
// Resolution order is always: explicit override table first, default string
// rewrite second. The default rewrite opens a new word at every ASCII
// uppercase letter and never at a digit, so "channelID" becomes
// "channel_i_d". Fields containing acronyms or other consecutive capitals
// are therefore not round-trippable by the default rule and must be listed
// in the override table.
package naming

import "strings"

// Transform is a bidirectional field/column name mapping fixed at
// construction. It is read-only afterwards and safe for concurrent use.
type Transform struct {
	toColumn map[string]string
	toField  map[string]string
}

// New builds a Transform from an optional override table keyed by domain
// field name. Overrides take precedence over the default rewrite in both
// directions.
func New(overrides map[string]string) *Transform {
	t := &Transform{
		toColumn: make(map[string]string, len(overrides)),
		toField:  make(map[string]string, len(overrides)),
	}
	for field, column := range overrides {
		t.toColumn[field] = column
		t.toField[column] = field
	}
	return t
}

// Column resolves a domain field name to its storage column name.
func (t *Transform) Column(field string) string {
	if column, ok := t.toColumn[field]; ok {
		return column
	}
	return ToSnake(field)
}

// Field resolves a storage column name to its domain field name.
func (t *Transform) Field(column string) string {
	if field, ok := t.toField[column]; ok {
		return field
	}
	return ToCamel(column)
}

// Columns resolves a list of field names, preserving order.
func (t *Transform) Columns(fields []string) []string {
	columns := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = t.Column(field)
	}
	return columns
}

// ToSnake rewrites a camelCase name to snake_case. Every uppercase letter
// opens a new word; digits and other runes are copied through unchanged.
func ToSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamel rewrites a snake_case name to camelCase. An underscore is
// consumed and the following letter upper-cased; leading and trailing
// underscores are kept as-is.
func ToCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upper := false
	for i, r := range s {
		if r == '_' && i > 0 && i+1 < len(s) {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			b.WriteRune(r - ('a' - 'A'))
			upper = false
			continue
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}
