package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ListCrons(ctx context.Context) (json.RawMessage, error) {
	return c.sendRaw(ctx, "list_cron_jobs", request{
		method: http.MethodGet,
		path:   "/api/crons",
	})
}

// RunCron triggers a registered cron job immediately.
func (c *Client) RunCron(ctx context.Context, jobID string) error {
	const op = "run_cron_job"
	if err := requireField(op, "jobId", jobID); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/crons/" + escapePath(jobID),
	}, nil)
}
