package pocketbase

import (
	"context"
	"net/http"
	"net/url"

	"pbmcp/internal/domain"
)

// FileURLOptions tune the generated file access URL.
type FileURLOptions struct {
	// Thumb is a thumbnail spec such as "100x300" or "100x300t".
	Thumb string
	// Download forces a content-disposition attachment response.
	Download bool
	// Token is a short-lived file token for protected files.
	Token string
}

// FileURL builds the access URL for a stored file. No network call is made.
func (c *Client) FileURL(collection, recordID, filename string, opts FileURLOptions) string {
	target := c.baseURL + "/api/files/" +
		escapePath(collection) + "/" +
		escapePath(recordID) + "/" +
		escapePath(filename)

	q := url.Values{}
	if opts.Thumb != "" {
		q.Set("thumb", opts.Thumb)
	}
	if opts.Download {
		q.Set("download", "1")
	}
	if opts.Token != "" {
		q.Set("token", opts.Token)
	}
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	return target
}

// FileToken requests a short-lived token for accessing protected files.
// Requires an authenticated session.
func (c *Client) FileToken(ctx context.Context) (string, error) {
	const op = "get_file_token"
	var resp struct {
		Token string `json:"token"`
	}
	err := c.send(ctx, op, request{
		method: http.MethodPost,
		path:   "/api/files/token",
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", domain.E(domain.CodeInternal, op, "file token response missing token", nil)
	}
	return resp.Token, nil
}
