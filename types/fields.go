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

// Package types holds the value types shared across the access layer:
// ordered field→value mappings, records, listing options, and JSON column
// helpers.
package types

// absent is the type of the Absent marker.
type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent marks a field entry that should be skipped by filter-style
// matching. It is distinct from nil: a nil value is an intentional SQL NULL
// and is bound as a parameter, while an Absent value never reaches the
// store.
var Absent any = absent{}

// Field is a single domain field name paired with a value.
type Field struct {
	Name  string
	Value any
}

// F is shorthand for constructing a Field.
func F(name string, value any) Field {
	return Field{Name: name, Value: value}
}

// Fields is an ordered field→value mapping. Order is part of the contract:
// generated placeholders are numbered in the order entries appear here, so
// callers building identifiers, filters, and mutation sets control the
// final parameter order.
type Fields []Field

// NewFields builds a Fields list from the given entries.
func NewFields(fields ...Field) Fields {
	return Fields(fields)
}

// Get returns the value for name and whether it is present.
func (f Fields) Get(name string) (any, bool) {
	for _, e := range f {
		if e.Name == name {
			return e.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for name in place, or appends a new entry when
// name is not present. The position of an existing entry is preserved.
func (f Fields) Set(name string, value any) Fields {
	for i, e := range f {
		if e.Name == name {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Name: name, Value: value})
}

// Names returns the field names in order.
func (f Fields) Names() []string {
	names := make([]string, len(f))
	for i, e := range f {
		names[i] = e.Name
	}
	return names
}

// Values returns the field values in order.
func (f Fields) Values() []any {
	values := make([]any, len(f))
	for i, e := range f {
		values[i] = e.Value
	}
	return values
}

// Record is an unordered field→value map. Row mapping produces Records
// keyed by domain field names; values are passed through exactly as the
// store driver returned them.
type Record map[string]any
