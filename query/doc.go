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

// Package query assembles parameterized SQL statements from ordered
// field→value mappings. Column and table identifiers only ever come from
// the naming transform and are validated against a strict identifier
// grammar; values only ever flow through positional parameters.
//
// The parameter-order contract: placeholders are numbered by each value's
// position in the final bound argument array, which for UPDATE and DELETE
// statements is always the identifier (or filter) values followed by the
// mutation values.
package query
