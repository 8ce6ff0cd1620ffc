package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"
)

func (c *Client) ListBackups(ctx context.Context) (json.RawMessage, error) {
	return c.sendRaw(ctx, "list_backups", request{
		method: http.MethodGet,
		path:   "/api/backups",
	})
}

// CreateBackup starts a new backup. name is optional; the backend generates
// one when empty.
func (c *Client) CreateBackup(ctx context.Context, name string) error {
	body := map[string]any{}
	if name != "" {
		body["name"] = name
	}
	return c.send(ctx, "create_backup", request{
		method: http.MethodPost,
		path:   "/api/backups",
		body:   body,
	}, nil)
}

func (c *Client) DeleteBackup(ctx context.Context, key string) error {
	const op = "delete_backup"
	if err := requireField(op, "key", key); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodDelete,
		path:   "/api/backups/" + escapePath(key),
	}, nil)
}

// RestoreBackup restores the named backup; the backend restarts afterwards.
func (c *Client) RestoreBackup(ctx context.Context, key string) error {
	const op = "restore_backup"
	if err := requireField(op, "key", key); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/backups/" + escapePath(key) + "/restore",
	}, nil)
}

// BackupDownloadURL requests a file token and builds the authenticated
// download URL for the named backup.
func (c *Client) BackupDownloadURL(ctx context.Context, key string) (string, error) {
	const op = "get_backup_download_url"
	if err := requireField(op, "key", key); err != nil {
		return "", err
	}
	token, err := c.FileToken(ctx)
	if err != nil {
		return "", err
	}
	return c.baseURL + "/api/backups/" + escapePath(key) + "?token=" + token, nil
}
