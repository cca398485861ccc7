package qase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Page is one window of a list response.
type Page[T any] struct {
	Total    int `json:"total"`
	Filtered int `json:"filtered"`
	Count    int `json:"count"`
	Entities []T `json:"entities"`
}

// PageFunc fetches the window at offset and returns its entities together
// with the total the window is measured against.
type PageFunc[T any] func(ctx context.Context, limit, offset int) ([]T, int, error)

// ListAll accumulates every entity from a paginated list, starting at
// offset, until offset+limit covers the reported total.
//
// It is all-or-nothing: if any page fails, ListAll returns nil and the
// error, never a partial result. A page with no entities ends the loop even
// if the reported total claims more.
func ListAll[T any](ctx context.Context, limit, offset int, fetch PageFunc[T]) ([]T, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	all := make([]T, 0)
	for {
		items, total, err := fetch(ctx, limit, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if offset+limit >= total || len(items) == 0 {
			return all, nil
		}
		offset += limit
	}
}

// ListOptions narrows a list call. Limit is the page size (default 100);
// Offset is where accumulation starts. Filters are sent as plain query
// parameters, e.g. {"suite_id": "3"}.
type ListOptions struct {
	Limit   int
	Offset  int
	Search  string
	Filters map[string]string
}

func (o ListOptions) query(limit, offset int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if o.Search != "" {
		q.Set("search", o.Search)
	}
	for k, v := range o.Filters {
		q.Set(k, v)
	}
	return q
}

func (c *Client) limitFor(opts ListOptions) int {
	if opts.Limit > 0 {
		return opts.Limit
	}
	return c.pageSize
}

// listProject is the shared GET-a-page implementation for project-scoped
// collections, which measure pagination against the filtered count.
func listProject[T any](ctx context.Context, c *Client, path string, opts ListOptions) ([]T, error) {
	return ListAll(ctx, c.limitFor(opts), opts.Offset, func(ctx context.Context, limit, offset int) ([]T, int, error) {
		var page Page[T]
		if err := c.do(ctx, http.MethodGet, path, opts.query(limit, offset), nil, &page); err != nil {
			return nil, 0, err
		}
		return page.Entities, page.Filtered, nil
	})
}
