package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"pbmcp/internal/domain"
)

// ListOptions are forwarded verbatim to the backend; no client-side filtering
// or pagination happens here.
type ListOptions struct {
	Page      int
	PerPage   int
	Filter    string
	Sort      string
	Expand    string
	Fields    string
	SkipTotal bool
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	page := o.Page
	if page <= 0 {
		page = domain.DefaultPage
	}
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = domain.DefaultPerPage
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(perPage))
	if o.Filter != "" {
		q.Set("filter", o.Filter)
	}
	if o.Sort != "" {
		q.Set("sort", o.Sort)
	}
	if o.Expand != "" {
		q.Set("expand", o.Expand)
	}
	if o.Fields != "" {
		q.Set("fields", o.Fields)
	}
	if o.SkipTotal {
		q.Set("skipTotal", "1")
	}
	return q
}

// RecordOptions apply to single-record reads and writes.
type RecordOptions struct {
	Expand string
	Fields string
}

func (o RecordOptions) query() url.Values {
	q := url.Values{}
	if o.Expand != "" {
		q.Set("expand", o.Expand)
	}
	if o.Fields != "" {
		q.Set("fields", o.Fields)
	}
	return q
}

func (c *Client) ListRecords(ctx context.Context, collection string, opts ListOptions) (json.RawMessage, error) {
	const op = "list_records"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodGet,
		path:   recordsPath(collection),
		query:  opts.query(),
	})
}

type listPage struct {
	Items []json.RawMessage `json:"items"`
}

// GetFullList pages through the collection until exhausted and returns the
// combined items as a JSON array. batch controls the page size.
func (c *Client) GetFullList(ctx context.Context, collection string, batch int, opts ListOptions) (json.RawMessage, error) {
	const op = "get_full_list"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if batch <= 0 {
		batch = 200
	}

	var items []json.RawMessage
	for page := 1; ; page++ {
		pageOpts := opts
		pageOpts.Page = page
		pageOpts.PerPage = batch
		pageOpts.SkipTotal = true

		var result listPage
		err := c.send(ctx, op, request{
			method: http.MethodGet,
			path:   recordsPath(collection),
			query:  pageOpts.query(),
		}, &result)
		if err != nil {
			return nil, err
		}
		items = append(items, result.Items...)
		if len(result.Items) < batch {
			break
		}
	}

	if items == nil {
		items = []json.RawMessage{}
	}
	combined, err := json.Marshal(items)
	if err != nil {
		return nil, domain.E(domain.CodeInternal, op, "encode combined list", err)
	}
	return combined, nil
}

// GetFirstListItem returns the first record matching filter, or NOT_FOUND.
func (c *Client) GetFirstListItem(ctx context.Context, collection, filter string, opts RecordOptions) (json.RawMessage, error) {
	const op = "get_first_list_item"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "filter", filter); err != nil {
		return nil, err
	}

	var result listPage
	err := c.send(ctx, op, request{
		method: http.MethodGet,
		path:   recordsPath(collection),
		query: ListOptions{
			Page:      1,
			PerPage:   1,
			Filter:    filter,
			Expand:    opts.Expand,
			Fields:    opts.Fields,
			SkipTotal: true,
		}.query(),
	}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, domain.E(domain.CodeNotFound, op, "no record found matching the provided filter", nil)
	}
	return result.Items[0], nil
}

func (c *Client) GetRecord(ctx context.Context, collection, id string, opts RecordOptions) (json.RawMessage, error) {
	const op = "get_record"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "id", id); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodGet,
		path:   recordsPath(collection) + "/" + escapePath(id),
		query:  opts.query(),
	})
}

func (c *Client) CreateRecord(ctx context.Context, collection string, data map[string]any, opts RecordOptions) (json.RawMessage, error) {
	const op = "create_record"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   recordsPath(collection),
		query:  opts.query(),
		body:   data,
	})
}

func (c *Client) UpdateRecord(ctx context.Context, collection, id string, data map[string]any, opts RecordOptions) (json.RawMessage, error) {
	const op = "update_record"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "id", id); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodPatch,
		path:   recordsPath(collection) + "/" + escapePath(id),
		query:  opts.query(),
		body:   data,
	})
}

func (c *Client) DeleteRecord(ctx context.Context, collection, id string) error {
	const op = "delete_record"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "id", id); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodDelete,
		path:   recordsPath(collection) + "/" + escapePath(id),
	}, nil)
}
