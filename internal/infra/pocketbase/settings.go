package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

func (c *Client) Settings(ctx context.Context, fields string) (json.RawMessage, error) {
	q := url.Values{}
	if fields != "" {
		q.Set("fields", fields)
	}
	return c.sendRaw(ctx, "get_settings", request{
		method: http.MethodGet,
		path:   "/api/settings",
		query:  q,
	})
}

func (c *Client) UpdateSettings(ctx context.Context, patch map[string]any) (json.RawMessage, error) {
	return c.sendRaw(ctx, "update_settings", request{
		method: http.MethodPatch,
		path:   "/api/settings",
		body:   patch,
	})
}

// TestS3 verifies the configured S3 filesystem ("storage" or "backups").
func (c *Client) TestS3(ctx context.Context, filesystem string) error {
	const op = "test_s3"
	if filesystem == "" {
		filesystem = "storage"
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/settings/test/s3",
		body:   map[string]any{"filesystem": filesystem},
	}, nil)
}

// TestEmail sends a test email using one of the backend's templates
// (verification, password-reset, email-change, otp).
func (c *Client) TestEmail(ctx context.Context, collection, email, template string) error {
	const op = "test_email"
	if err := requireField(op, "email", email); err != nil {
		return err
	}
	if template == "" {
		template = "verification"
	}
	body := map[string]any{
		"email":    email,
		"template": template,
	}
	if collection != "" {
		body["collection"] = collection
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/settings/test/email",
		body:   body,
	}, nil)
}
