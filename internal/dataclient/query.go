package dataclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Query builds one table-scoped request. Filters use the service's
// operator syntax (only eq is needed here).
type Query struct {
	c          *Client
	table      string
	selectCols string
	filters    []filter
	order      []string
	limit      int
}

type filter struct {
	column string
	value  string
}

func newQuery(c *Client, table string) *Query {
	return &Query{c: c, table: table, selectCols: "*"}
}

// Select restricts the returned columns, e.g. "key, value, type".
func (q *Query) Select(cols string) *Query {
	q.selectCols = strings.ReplaceAll(cols, " ", "")
	return q
}

// Eq adds an equality filter on a column.
func (q *Query) Eq(column, value string) *Query {
	q.filters = append(q.filters, filter{column: column, value: value})
	return q
}

// Order appends a sort column. Multiple calls sort by the columns in order.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Get fetches the matching rows into dest (a pointer to a slice).
func (q *Query) Get(ctx context.Context, dest any) error {
	q.logCall("select")
	return q.c.do(ctx, http.MethodGet, q.url(true), nil, nil, dest)
}

// Insert creates one row or an array of rows. When dest is non-nil the
// inserted rows are returned into it.
func (q *Query) Insert(ctx context.Context, rows, dest any) error {
	q.logCall("insert")
	return q.c.do(ctx, http.MethodPost, q.url(false), q.preferHeader(dest), rows, dest)
}

// Update applies the field set to all rows matching the filters. When dest
// is non-nil the updated rows are returned into it.
func (q *Query) Update(ctx context.Context, fields, dest any) error {
	q.logCall("update")
	return q.c.do(ctx, http.MethodPatch, q.url(false), q.preferHeader(dest), fields, dest)
}

// Delete removes all rows matching the filters.
func (q *Query) Delete(ctx context.Context) error {
	q.logCall("delete")
	return q.c.do(ctx, http.MethodDelete, q.url(false), nil, nil, nil)
}

func (q *Query) url(withSelect bool) string {
	params := url.Values{}
	if withSelect && q.selectCols != "" {
		params.Set("select", q.selectCols)
	}
	for _, f := range q.filters {
		params.Add(f.column, "eq."+f.value)
	}
	if len(q.order) > 0 {
		params.Set("order", strings.Join(q.order, ","))
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	u := fmt.Sprintf("%s/rest/v1/%s", q.c.baseURL, q.table)
	if encoded := params.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (q *Query) preferHeader(dest any) map[string]string {
	if dest == nil {
		return nil
	}
	return map[string]string{"Prefer": "return=representation"}
}

func (q *Query) logCall(operation string) {
	q.c.log.Debug().
		Str("operation", operation).
		Str("table", q.table).
		Msg("data service call")
}
