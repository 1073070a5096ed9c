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

package types

// Direction selects the sort order of a listing.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// ListOptions controls ordering and windowing of bulk reads. The zero value
// applies no ordering and no window. OrderBy is a domain field name and is
// resolved through the naming transform; Direction defaults to Ascending.
type ListOptions struct {
	OrderBy   string
	Direction Direction
	Limit     int
	Offset    int
}

// HasLimit reports whether a LIMIT clause was requested.
func (o *ListOptions) HasLimit() bool { return o != nil && o.Limit > 0 }

// HasOffset reports whether an OFFSET clause was requested.
func (o *ListOptions) HasOffset() bool { return o != nil && o.Offset > 0 }

// HasOrder reports whether an ORDER BY clause was requested.
func (o *ListOptions) HasOrder() bool { return o != nil && o.OrderBy != "" }

// PageRequest describes a page-numbered listing with an optional filter and
// ordering.
type PageRequest struct {
	page     int
	pageSize int
	filter   Fields
	orderBy  string
	dir      Direction
}

// NewPageRequest constructs a PageRequest with filter and order settings.
func NewPageRequest(page, pageSize int, filter Fields, orderBy string, dir Direction) *PageRequest {
	return &PageRequest{page: page, pageSize: pageSize, filter: filter, orderBy: orderBy, dir: dir}
}

// NewDefaultPageRequest constructs a PageRequest with no filter or ordering.
func NewDefaultPageRequest(page, pageSize int) *PageRequest {
	return NewPageRequest(page, pageSize, nil, "", Ascending)
}

func (p *PageRequest) GetPage() int {
	if p.page < 1 {
		p.page = 1
	}
	return p.page
}

func (p *PageRequest) GetPageSize() int {
	if p.pageSize < 1 {
		p.pageSize = 10
	}
	return p.pageSize
}

func (p *PageRequest) GetFilter() Fields { return p.filter }

// ListOptions converts the page request into the window applied to FindAll.
func (p *PageRequest) ListOptions() *ListOptions {
	return &ListOptions{
		OrderBy:   p.orderBy,
		Direction: p.dir,
		Limit:     p.GetPageSize(),
		Offset:    (p.GetPage() - 1) * p.GetPageSize(),
	}
}

// Pagination holds paged result items along with pagination metadata.
type Pagination[T any] struct {
	Page     int
	PageSize int
	Total    int64
	Items    []*T
}

// NewDefaultPagination constructs an empty pagination container.
func NewDefaultPagination[T any](page, pageSize int) *Pagination[T] {
	return &Pagination[T]{Page: page, PageSize: pageSize, Items: make([]*T, 0)}
}
