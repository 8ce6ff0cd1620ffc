package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"

	"pbmcp/internal/domain"
)

// Batch accumulates sub-requests and submits them as one grouped /api/batch
// call. Whatever atomicity the group has is the backend's contract; nothing
// is rolled back here on partial failure.
type Batch struct {
	client   *Client
	requests []batchRequest
}

type batchRequest struct {
	Method string         `json:"method"`
	URL    string         `json:"url"`
	Body   map[string]any `json:"body,omitempty"`
}

func (c *Client) NewBatch() *Batch {
	return &Batch{client: c}
}

func (b *Batch) Create(collection string, data map[string]any) *Batch {
	b.requests = append(b.requests, batchRequest{
		Method: http.MethodPost,
		URL:    recordsPath(collection),
		Body:   data,
	})
	return b
}

func (b *Batch) Update(collection, id string, data map[string]any) *Batch {
	b.requests = append(b.requests, batchRequest{
		Method: http.MethodPatch,
		URL:    recordsPath(collection) + "/" + escapePath(id),
		Body:   data,
	})
	return b
}

func (b *Batch) Delete(collection, id string) *Batch {
	b.requests = append(b.requests, batchRequest{
		Method: http.MethodDelete,
		URL:    recordsPath(collection) + "/" + escapePath(id),
	})
	return b
}

// Upsert uses the records PUT form: the backend creates or updates depending
// on whether the body carries a matching id.
func (b *Batch) Upsert(collection string, data map[string]any) *Batch {
	b.requests = append(b.requests, batchRequest{
		Method: http.MethodPut,
		URL:    recordsPath(collection),
		Body:   data,
	})
	return b
}

func (b *Batch) Len() int {
	return len(b.requests)
}

func (b *Batch) Send(ctx context.Context) (json.RawMessage, error) {
	const op = "batch"
	if len(b.requests) == 0 {
		return nil, domain.E(domain.CodeInvalidArgument, op, "batch requires at least one request", nil)
	}
	return b.client.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/batch",
		body:   map[string]any{"requests": b.requests},
	})
}
