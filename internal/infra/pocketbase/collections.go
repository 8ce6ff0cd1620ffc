package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ListCollections(ctx context.Context, opts ListOptions) (json.RawMessage, error) {
	return c.sendRaw(ctx, "list_collections", request{
		method: http.MethodGet,
		path:   "/api/collections",
		query:  opts.query(),
	})
}

func (c *Client) GetCollection(ctx context.Context, nameOrID string) (json.RawMessage, error) {
	const op = "get_collection"
	if err := requireField(op, "collection", nameOrID); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodGet,
		path:   collectionPath(nameOrID),
	})
}

func (c *Client) CreateCollection(ctx context.Context, data map[string]any) (json.RawMessage, error) {
	return c.sendRaw(ctx, "create_collection", request{
		method: http.MethodPost,
		path:   "/api/collections",
		body:   data,
	})
}

func (c *Client) UpdateCollection(ctx context.Context, nameOrID string, data map[string]any) (json.RawMessage, error) {
	const op = "update_collection"
	if err := requireField(op, "collection", nameOrID); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodPatch,
		path:   collectionPath(nameOrID),
		body:   data,
	})
}

func (c *Client) DeleteCollection(ctx context.Context, nameOrID string) error {
	const op = "delete_collection"
	if err := requireField(op, "collection", nameOrID); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodDelete,
		path:   collectionPath(nameOrID),
	}, nil)
}

// TruncateCollection deletes every record in the collection server-side.
func (c *Client) TruncateCollection(ctx context.Context, nameOrID string) error {
	const op = "truncate_collection"
	if err := requireField(op, "collection", nameOrID); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodDelete,
		path:   collectionPath(nameOrID) + "/truncate",
	}, nil)
}

func (c *Client) ImportCollections(ctx context.Context, collections []map[string]any, deleteMissing bool) error {
	return c.send(ctx, "import_collections", request{
		method: http.MethodPut,
		path:   "/api/collections/import",
		body: map[string]any{
			"collections":   collections,
			"deleteMissing": deleteMissing,
		},
	}, nil)
}

// CollectionScaffolds returns the backend's per-type collection field
// scaffolds (base, auth, view).
func (c *Client) CollectionScaffolds(ctx context.Context) (json.RawMessage, error) {
	return c.sendRaw(ctx, "get_collection_scaffolds", request{
		method: http.MethodGet,
		path:   "/api/collections/meta/scaffolds",
	})
}
