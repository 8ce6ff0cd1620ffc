package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (c *Client) ListLogs(ctx context.Context, opts ListOptions) (json.RawMessage, error) {
	return c.sendRaw(ctx, "list_logs", request{
		method: http.MethodGet,
		path:   "/api/logs",
		query:  opts.query(),
	})
}

func (c *Client) GetLog(ctx context.Context, id string) (json.RawMessage, error) {
	const op = "get_log"
	if err := requireField(op, "id", id); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodGet,
		path:   "/api/logs/" + escapePath(id),
	})
}

// LogsStats returns hourly aggregated request counts, optionally filtered.
func (c *Client) LogsStats(ctx context.Context, filter string) (json.RawMessage, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	return c.sendRaw(ctx, "get_logs_stats", request{
		method: http.MethodGet,
		path:   "/api/logs/stats",
		query:  q,
	})
}
