package server

import (
	"context"
	"fmt"

	"pbmcp/internal/domain"
	"pbmcp/internal/infra/pocketbase"
)

// defaultAuthCollection is assumed when an auth tool omits the collection.
const defaultAuthCollection = "users"

func orDefaultCollection(collection string) string {
	if collection == "" {
		return defaultAuthCollection
	}
	return collection
}

type authWithPasswordArgs struct {
	Identity   string `json:"identity" jsonschema:"username or email"`
	Password   string `json:"password" jsonschema:"account password"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users; use _superusers for admin)"`
}

type authCollectionArgs struct {
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type authWithOAuth2Args struct {
	Provider   string `json:"provider" jsonschema:"OAuth2 provider name, e.g. google or github"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type emailArgs struct {
	Email      string `json:"email" jsonschema:"account email address"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type authWithOTPArgs struct {
	OTPID      string `json:"otpId" jsonschema:"otp request id returned by request_otp"`
	Password   string `json:"password" jsonschema:"the one-time password"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type confirmPasswordResetArgs struct {
	Token           string `json:"token" jsonschema:"password reset token from the email"`
	Password        string `json:"password" jsonschema:"new password"`
	PasswordConfirm string `json:"passwordConfirm" jsonschema:"new password confirmation"`
	Collection      string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type confirmVerificationArgs struct {
	Token      string `json:"token" jsonschema:"verification token from the email"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type requestEmailChangeArgs struct {
	NewEmail   string `json:"newEmail" jsonschema:"the new email address"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type confirmEmailChangeArgs struct {
	Token      string `json:"token" jsonschema:"email change token from the email"`
	Password   string `json:"password" jsonschema:"current account password"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type impersonateArgs struct {
	ID         string `json:"id" jsonschema:"record id to impersonate"`
	Duration   int    `json:"duration,omitempty" jsonschema:"token duration in seconds (backend default when omitted)"`
	Collection string `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
}

type createUserArgs struct {
	Email           string         `json:"email" jsonschema:"email for the new account"`
	Password        string         `json:"password" jsonschema:"password for the new account"`
	PasswordConfirm string         `json:"passwordConfirm" jsonschema:"password confirmation"`
	Collection      string         `json:"collection,omitempty" jsonschema:"auth collection (defaults to users)"`
	Data            map[string]any `json:"data,omitempty" jsonschema:"additional record fields"`
}

func (s *Server) registerAuthTools() {
	addTool(s, "auth_with_password",
		"Authenticate with identity and password; the returned token is used by subsequent tool calls.",
		func(ctx context.Context, in authWithPasswordArgs) (string, error) {
			raw, err := s.client.AuthWithPassword(ctx, orDefaultCollection(in.Collection), in.Identity, in.Password)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "auth_refresh",
		"Refresh the current authentication token.",
		func(ctx context.Context, in authCollectionArgs) (string, error) {
			raw, err := s.client.AuthRefresh(ctx, orDefaultCollection(in.Collection))
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "list_auth_methods",
		"List the authentication methods enabled for an auth collection.",
		func(ctx context.Context, in authCollectionArgs) (string, error) {
			methods, err := s.client.ListAuthMethods(ctx, orDefaultCollection(in.Collection))
			if err != nil {
				return "", err
			}
			return pretty(methods.Raw), nil
		})

	addTool(s, "auth_with_oauth2",
		"Get the authorization URL for an enabled OAuth2 provider.",
		func(ctx context.Context, in authWithOAuth2Args) (string, error) {
			collection := orDefaultCollection(in.Collection)
			methods, err := s.client.ListAuthMethods(ctx, collection)
			if err != nil {
				return "", err
			}
			for _, provider := range methods.OAuth2.Providers {
				if provider.Name == in.Provider {
					return fmt.Sprintf("Provider: %s\nAuth URL: %s\nState: %s\nCode verifier: %s",
						provider.Name, provider.AuthURL, provider.State, provider.CodeVerifier), nil
				}
			}
			return "", domain.E(domain.CodeNotFound, "auth_with_oauth2",
				fmt.Sprintf("OAuth2 provider %q not found for collection %q", in.Provider, collection), nil)
		})

	addTool(s, "request_otp",
		"Request a one-time password email; returns the otpId used by auth_with_otp.",
		func(ctx context.Context, in emailArgs) (string, error) {
			raw, err := s.client.RequestOTP(ctx, orDefaultCollection(in.Collection), in.Email)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "auth_with_otp",
		"Authenticate with a previously requested one-time password.",
		func(ctx context.Context, in authWithOTPArgs) (string, error) {
			raw, err := s.client.AuthWithOTP(ctx, orDefaultCollection(in.Collection), in.OTPID, in.Password)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "request_password_reset",
		"Send a password reset email.",
		func(ctx context.Context, in emailArgs) (string, error) {
			collection := orDefaultCollection(in.Collection)
			if err := s.client.RequestPasswordReset(ctx, collection, in.Email); err != nil {
				return "", err
			}
			return fmt.Sprintf("Password reset email sent to %s", in.Email), nil
		})

	addTool(s, "confirm_password_reset",
		"Confirm a password reset with the emailed token.",
		func(ctx context.Context, in confirmPasswordResetArgs) (string, error) {
			err := s.client.ConfirmPasswordReset(ctx, orDefaultCollection(in.Collection),
				in.Token, in.Password, in.PasswordConfirm)
			if err != nil {
				return "", err
			}
			return "Password reset confirmed", nil
		})

	addTool(s, "request_verification",
		"Send an account verification email.",
		func(ctx context.Context, in emailArgs) (string, error) {
			if err := s.client.RequestVerification(ctx, orDefaultCollection(in.Collection), in.Email); err != nil {
				return "", err
			}
			return fmt.Sprintf("Verification email sent to %s", in.Email), nil
		})

	addTool(s, "confirm_verification",
		"Confirm an account verification with the emailed token.",
		func(ctx context.Context, in confirmVerificationArgs) (string, error) {
			if err := s.client.ConfirmVerification(ctx, orDefaultCollection(in.Collection), in.Token); err != nil {
				return "", err
			}
			return "Verification confirmed", nil
		})

	addTool(s, "request_email_change",
		"Request an email change for the authenticated record.",
		func(ctx context.Context, in requestEmailChangeArgs) (string, error) {
			if err := s.client.RequestEmailChange(ctx, orDefaultCollection(in.Collection), in.NewEmail); err != nil {
				return "", err
			}
			return fmt.Sprintf("Email change requested for %s", in.NewEmail), nil
		})

	addTool(s, "confirm_email_change",
		"Confirm an email change with the emailed token.",
		func(ctx context.Context, in confirmEmailChangeArgs) (string, error) {
			err := s.client.ConfirmEmailChange(ctx, orDefaultCollection(in.Collection), in.Token, in.Password)
			if err != nil {
				return "", err
			}
			return "Email change confirmed", nil
		})

	addTool(s, "impersonate",
		"Issue a token for another auth record without replacing the current session. Requires superuser authentication.",
		func(ctx context.Context, in impersonateArgs) (string, error) {
			raw, err := s.client.Impersonate(ctx, orDefaultCollection(in.Collection), in.ID, in.Duration)
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})

	addTool(s, "create_user",
		"Create a new auth record with email and password. Requires superuser authentication for locked collections.",
		func(ctx context.Context, in createUserArgs) (string, error) {
			data := map[string]any{
				"email":           in.Email,
				"password":        in.Password,
				"passwordConfirm": in.PasswordConfirm,
			}
			for key, value := range in.Data {
				if _, reserved := data[key]; !reserved {
					data[key] = value
				}
			}
			raw, err := s.client.CreateRecord(ctx, orDefaultCollection(in.Collection), data,
				pocketbase.RecordOptions{})
			if err != nil {
				return "", err
			}
			return pretty(raw), nil
		})
}
