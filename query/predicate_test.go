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
	"reflect"
	"testing"

	"github.com/matejhozlar/rowkit/naming"
	"github.com/matejhozlar/rowkit/types"
)

func numbered() *Builder { return NewBuilder(naming.New(nil), StyleNumbered) }

func TestIdentifierOrdering(t *testing.T) {
	p, err := numbered().Identifier(types.NewFields(
		types.F("a", 1),
		types.F("b", 2),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cond != "a = $1 AND b = $2" {
		t.Errorf("Cond = %q", p.Cond)
	}
	if !reflect.DeepEqual(p.Args, []any{1, 2}) {
		t.Errorf("Args = %v", p.Args)
	}
}

func TestIdentifierEmpty(t *testing.T) {
	_, err := numbered().Identifier(nil)
	if !errors.Is(err, ErrEmptyIdentifier) {
		t.Fatalf("err = %v, want ErrEmptyIdentifier", err)
	}
}

func TestIdentifierNamingTransform(t *testing.T) {
	b := NewBuilder(naming.New(map[string]string{"channelID": "channel_id"}), StyleNumbered)
	p, err := b.Identifier(types.NewFields(
		types.F("channelID", "c1"),
		types.F("createdAt", "now"),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cond != "channel_id = $1 AND created_at = $2" {
		t.Errorf("Cond = %q", p.Cond)
	}
}

func TestFilterSkipsAbsent(t *testing.T) {
	p, err := numbered().Filter(types.NewFields(
		types.F("a", types.Absent),
		types.F("b", 2),
		types.F("c", types.Absent),
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cond != "b = $1" {
		t.Errorf("Cond = %q", p.Cond)
	}
	if !reflect.DeepEqual(p.Args, []any{2}) {
		t.Errorf("Args = %v", p.Args)
	}
}

func TestFilterExplicitNullIsBound(t *testing.T) {
	p, err := numbered().Filter(types.NewFields(types.F("deletedAt", nil)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cond != "deleted_at = $1" {
		t.Errorf("Cond = %q", p.Cond)
	}
	if len(p.Args) != 1 || p.Args[0] != nil {
		t.Errorf("Args = %v, want one nil", p.Args)
	}
}

func TestFilterEmptyIsTrueSentinel(t *testing.T) {
	for _, filters := range []types.Fields{
		nil,
		types.NewFields(types.F("a", types.Absent)),
	} {
		p, err := numbered().Filter(filters)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.Empty() {
			t.Errorf("Filter(%v) = %+v, want True sentinel", filters, p)
		}
		if !reflect.DeepEqual(p, True) {
			t.Errorf("Filter(%v) not structurally equal to True", filters)
		}
	}
}

func TestQuestionStylePlaceholders(t *testing.T) {
	b := NewBuilder(naming.New(nil), StyleQuestion)
	p, err := b.Identifier(types.NewFields(types.F("a", 1), types.F("b", 2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Cond != "a = ? AND b = ?" {
		t.Errorf("Cond = %q", p.Cond)
	}
}

func TestIdentifierRejectsUnsafeColumn(t *testing.T) {
	// override table maps to something that is not a bare identifier
	b := NewBuilder(naming.New(map[string]string{"evil": "x; DROP TABLE t"}), StyleNumbered)
	if _, err := b.Identifier(types.NewFields(types.F("evil", 1))); err == nil {
		t.Fatal("expected invalid identifier error")
	}
}
