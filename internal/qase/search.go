package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Search runs a QQL query and returns every matching entity as raw JSON;
// entity shapes vary with the queried type. Pagination is measured
// against the total count.
func (c *Client) Search(ctx context.Context, query string, opts ListOptions) ([]json.RawMessage, error) {
	if query == "" {
		return nil, fmt.Errorf("search: query is required")
	}
	out, err := ListAll(ctx, c.limitFor(opts), opts.Offset, func(ctx context.Context, limit, offset int) ([]json.RawMessage, int, error) {
		q := url.Values{}
		q.Set("query", query)
		q.Set("limit", strconv.Itoa(limit))
		q.Set("offset", strconv.Itoa(offset))
		var page Page[json.RawMessage]
		if err := c.do(ctx, http.MethodGet, c.endpoints.Search(), q, nil, &page); err != nil {
			return nil, 0, err
		}
		return page.Entities, page.Total, nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return out, nil
}
