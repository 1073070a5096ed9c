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
	"strconv"

	"github.com/matejhozlar/rowkit/naming"
)

// Style selects the placeholder syntax of the target store.
type Style int

const (
	// StyleNumbered emits $1, $2, … placeholders bound by number
	// (PostgreSQL). Placeholder numbers always match each value's position
	// in the final argument array regardless of where the placeholder
	// appears in the statement text.
	StyleNumbered Style = iota

	// StyleQuestion emits ? placeholders bound by textual order
	// (MySQL, SQLite). Statements whose clauses bind out of text order,
	// such as UPDATE, reorder the returned argument array to match.
	StyleQuestion
)

// Builder assembles statements for one entity's table using a fixed naming
// transform and placeholder style. It is stateless across calls and safe
// for concurrent use.
type Builder struct {
	style Style
	names *naming.Transform
}

// NewBuilder returns a Builder over the given naming transform.
func NewBuilder(names *naming.Transform, style Style) *Builder {
	if names == nil {
		names = naming.New(nil)
	}
	return &Builder{style: style, names: names}
}

// Style returns the builder's placeholder style.
func (b *Builder) Style() Style { return b.style }

// Names returns the builder's naming transform.
func (b *Builder) Names() *naming.Transform { return b.names }

// placeholder renders the placeholder for the value at 1-based position n
// of the bound argument array.
func (b *Builder) placeholder(n int) string {
	if b.style == StyleQuestion {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// column resolves a domain field name to a validated column identifier.
func (b *Builder) column(field string) (string, error) {
	column := b.names.Column(field)
	if !ValidIdent(column) {
		return "", fmt.Errorf("query: column name %q (from field %q) is not a valid identifier", column, field)
	}
	return column, nil
}

// ValidIdent reports whether s is a bare SQL identifier: an ASCII letter or
// underscore followed by letters, digits, or underscores. Identifiers that
// fail this check never reach statement text.
func ValidIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
