package pocketbase

import (
	"context"
	"encoding/json"
	"net/http"

	"pbmcp/internal/domain"
)

type authResponse struct {
	Token  string          `json:"token"`
	Record json.RawMessage `json:"record"`
}

// storeAuth parses an auth response body and replaces the session token.
func (c *Client) storeAuth(op string, body json.RawMessage) error {
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.E(domain.CodeInternal, op, "decode auth response", err)
	}
	if resp.Token == "" {
		return domain.E(domain.CodeInternal, op, "auth response missing token", nil)
	}
	c.auth.Set(resp.Token, resp.Record)
	return nil
}

// AuthWithPassword authenticates against an auth collection and stores the
// returned token for subsequent requests.
func (c *Client) AuthWithPassword(ctx context.Context, collection, identity, password string) (json.RawMessage, error) {
	const op = "auth_with_password"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "identity", identity); err != nil {
		return nil, err
	}
	if err := requireField(op, "password", password); err != nil {
		return nil, err
	}
	body, err := c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/auth-with-password",
		body: map[string]any{
			"identity": identity,
			"password": password,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := c.storeAuth(op, body); err != nil {
		return nil, err
	}
	return body, nil
}

// AuthRefresh re-issues the current token. Requires an authenticated session.
func (c *Client) AuthRefresh(ctx context.Context, collection string) (json.RawMessage, error) {
	const op = "auth_refresh"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	body, err := c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/auth-refresh",
	})
	if err != nil {
		return nil, err
	}
	if err := c.storeAuth(op, body); err != nil {
		return nil, err
	}
	return body, nil
}

// OAuth2Provider is one provider entry from the auth methods listing.
type OAuth2Provider struct {
	Name          string `json:"name"`
	DisplayName   string `json:"displayName"`
	State         string `json:"state"`
	AuthURL       string `json:"authURL"`
	CodeVerifier  string `json:"codeVerifier"`
	CodeChallenge string `json:"codeChallenge"`
}

// AuthMethods is the subset of the auth methods listing the adapter inspects;
// Raw carries the untouched backend response.
type AuthMethods struct {
	OAuth2 struct {
		Enabled   bool             `json:"enabled"`
		Providers []OAuth2Provider `json:"providers"`
	} `json:"oauth2"`
	Raw json.RawMessage `json:"-"`
}

func (c *Client) ListAuthMethods(ctx context.Context, collection string) (*AuthMethods, error) {
	const op = "list_auth_methods"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	body, err := c.sendRaw(ctx, op, request{
		method: http.MethodGet,
		path:   collectionPath(collection) + "/auth-methods",
	})
	if err != nil {
		return nil, err
	}
	methods := &AuthMethods{Raw: body}
	if err := json.Unmarshal(body, methods); err != nil {
		return nil, domain.E(domain.CodeInternal, op, "decode auth methods", err)
	}
	return methods, nil
}

// RequestOTP asks the backend to email a one-time password; the response
// carries the otpId needed by AuthWithOTP.
func (c *Client) RequestOTP(ctx context.Context, collection, email string) (json.RawMessage, error) {
	const op = "request_otp"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "email", email); err != nil {
		return nil, err
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/request-otp",
		body:   map[string]any{"email": email},
	})
}

func (c *Client) AuthWithOTP(ctx context.Context, collection, otpID, password string) (json.RawMessage, error) {
	const op = "auth_with_otp"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "otpId", otpID); err != nil {
		return nil, err
	}
	if err := requireField(op, "password", password); err != nil {
		return nil, err
	}
	body, err := c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/auth-with-otp",
		body: map[string]any{
			"otpId":    otpID,
			"password": password,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := c.storeAuth(op, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) RequestPasswordReset(ctx context.Context, collection, email string) error {
	const op = "request_password_reset"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "email", email); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/request-password-reset",
		body:   map[string]any{"email": email},
	}, nil)
}

func (c *Client) ConfirmPasswordReset(ctx context.Context, collection, token, password, passwordConfirm string) error {
	const op = "confirm_password_reset"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "token", token); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/confirm-password-reset",
		body: map[string]any{
			"token":           token,
			"password":        password,
			"passwordConfirm": passwordConfirm,
		},
	}, nil)
}

func (c *Client) RequestVerification(ctx context.Context, collection, email string) error {
	const op = "request_verification"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "email", email); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/request-verification",
		body:   map[string]any{"email": email},
	}, nil)
}

func (c *Client) ConfirmVerification(ctx context.Context, collection, token string) error {
	const op = "confirm_verification"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "token", token); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/confirm-verification",
		body:   map[string]any{"token": token},
	}, nil)
}

func (c *Client) RequestEmailChange(ctx context.Context, collection, newEmail string) error {
	const op = "request_email_change"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "newEmail", newEmail); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/request-email-change",
		body:   map[string]any{"newEmail": newEmail},
	}, nil)
}

func (c *Client) ConfirmEmailChange(ctx context.Context, collection, token, password string) error {
	const op = "confirm_email_change"
	if err := requireCollection(op, collection); err != nil {
		return err
	}
	if err := requireField(op, "token", token); err != nil {
		return err
	}
	return c.send(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/confirm-email-change",
		body: map[string]any{
			"token":    token,
			"password": password,
		},
	}, nil)
}

// Impersonate issues a token for another record without replacing the current
// session. durationSeconds <= 0 uses the backend default.
func (c *Client) Impersonate(ctx context.Context, collection, id string, durationSeconds int) (json.RawMessage, error) {
	const op = "impersonate"
	if err := requireCollection(op, collection); err != nil {
		return nil, err
	}
	if err := requireField(op, "id", id); err != nil {
		return nil, err
	}
	body := map[string]any{}
	if durationSeconds > 0 {
		body["duration"] = durationSeconds
	}
	return c.sendRaw(ctx, op, request{
		method: http.MethodPost,
		path:   collectionPath(collection) + "/impersonate/" + escapePath(id),
		body:   body,
	})
}
