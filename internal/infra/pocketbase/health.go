package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	return c.sendRaw(ctx, "check_health", request{
		method: http.MethodGet,
		path:   "/api/health",
	})
}
