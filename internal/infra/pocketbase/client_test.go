package pocketbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, zap.NewNop(), opts...)
}

func TestAuthWithPassword_StoresToken(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/collections/users/auth-with-password", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice@example.com", body["identity"])

		fmt.Fprint(w, `{"token":"tok-1","record":{"id":"r1"}}`)
	}))

	raw, err := client.AuthWithPassword(context.Background(), "users", "alice@example.com", "secret")
	require.NoError(t, err)
	require.Contains(t, string(raw), "tok-1")
	require.Equal(t, "tok-1", client.AuthToken())
	require.JSONEq(t, `{"id":"r1"}`, string(client.AuthRecord()))

	client.ClearAuth()
	require.Empty(t, client.AuthToken())
}

func TestDo_SendsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/collections/users/auth-with-password" {
			fmt.Fprint(w, `{"token":"tok-2","record":{}}`)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"items":[]}`)
	}))

	_, err := client.AuthWithPassword(context.Background(), "users", "a", "b")
	require.NoError(t, err)

	_, err = client.ListRecords(context.Background(), "posts", ListOptions{})
	require.NoError(t, err)
	require.Equal(t, "tok-2", gotAuth)
}

func TestAPIError_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   domain.ErrorCode
	}{
		{http.StatusBadRequest, domain.CodeInvalidArgument},
		{http.StatusUnauthorized, domain.CodeUnauthenticated},
		{http.StatusForbidden, domain.CodePermissionDenied},
		{http.StatusNotFound, domain.CodeNotFound},
		{http.StatusServiceUnavailable, domain.CodeUnavailable},
		{http.StatusInternalServerError, domain.CodeInternal},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status_%d", tc.status), func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, `{"status":`+fmt.Sprint(tc.status)+`,"message":"nope"}`)
			}))

			_, err := client.GetRecord(context.Background(), "posts", "p1", RecordOptions{})
			require.Error(t, err)
			code, ok := domain.CodeFrom(err)
			require.True(t, ok)
			require.Equal(t, tc.code, code)
			require.Contains(t, domain.MessageFrom(err), "nope")
		})
	}
}

func TestAPIError_IncludesValidationData(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":400,"message":"Failed to create record.","data":{"title":{"code":"validation_required"}}}`)
	}))

	_, err := client.CreateRecord(context.Background(), "posts", map[string]any{}, RecordOptions{})
	require.Error(t, err)
	msg := domain.MessageFrom(err)
	require.Contains(t, msg, "Failed to create record.")
	require.Contains(t, msg, "validation_required")
}

func TestListRecords_QueryEncoding(t *testing.T) {
	var gotQuery map[string][]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		fmt.Fprint(w, `{"items":[]}`)
	}))

	_, err := client.ListRecords(context.Background(), "posts", ListOptions{
		Filter: `status = "active"`,
		Sort:   "-created",
		Expand: "author",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, gotQuery["page"])
	require.Equal(t, []string{"30"}, gotQuery["perPage"])
	require.Equal(t, []string{`status = "active"`}, gotQuery["filter"])
	require.Equal(t, []string{"-created"}, gotQuery["sort"])
	require.Equal(t, []string{"author"}, gotQuery["expand"])
}

func TestListRecords_MissingCollection(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", zap.NewNop())

	_, err := client.ListRecords(context.Background(), "  ", ListOptions{})
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidArgument, code)
}

func TestGetFullList_Pages(t *testing.T) {
	var pages []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			fmt.Fprint(w, `{"items":[{"id":"a"},{"id":"b"}]}`)
		default:
			fmt.Fprint(w, `{"items":[{"id":"c"}]}`)
		}
	}))

	raw, err := client.GetFullList(context.Background(), "posts", 2, ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, pages)

	var items []map[string]string
	require.NoError(t, json.Unmarshal(raw, &items))
	require.Len(t, items, 3)
	require.Equal(t, "c", items[2]["id"])
}

func TestGetFirstListItem_NotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	}))

	_, err := client.GetFirstListItem(context.Background(), "posts", `id = "x"`, RecordOptions{})
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeNotFound, code)
	require.Contains(t, domain.MessageFrom(err), "no record found")
}

func TestBatch_SendBodyShape(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/batch", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `[]`)
	}))

	_, err := client.NewBatch().
		Create("posts", map[string]any{"title": "one"}).
		Update("posts", "p1", map[string]any{"title": "two"}).
		Delete("posts", "p2").
		Upsert("posts", map[string]any{"id": "p3"}).
		Send(context.Background())
	require.NoError(t, err)

	requests, ok := got["requests"].([]any)
	require.True(t, ok)
	require.Len(t, requests, 4)

	first := requests[0].(map[string]any)
	require.Equal(t, "POST", first["method"])
	require.Equal(t, "/api/collections/posts/records", first["url"])

	second := requests[1].(map[string]any)
	require.Equal(t, "PATCH", second["method"])
	require.Equal(t, "/api/collections/posts/records/p1", second["url"])

	third := requests[2].(map[string]any)
	require.Equal(t, "DELETE", third["method"])
	require.NotContains(t, third, "body")

	fourth := requests[3].(map[string]any)
	require.Equal(t, "PUT", fourth["method"])
}

func TestBatch_EmptyRejected(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", zap.NewNop())

	_, err := client.NewBatch().Send(context.Background())
	require.Error(t, err)
	code, ok := domain.CodeFrom(err)
	require.True(t, ok)
	require.Equal(t, domain.CodeInvalidArgument, code)
}

func TestFileURL(t *testing.T) {
	client := NewClient("http://localhost:8090/", zap.NewNop())

	url := client.FileURL("posts", "r1", "photo.png", FileURLOptions{})
	require.Equal(t, "http://localhost:8090/api/files/posts/r1/photo.png", url)

	url = client.FileURL("posts", "r1", "photo.png", FileURLOptions{
		Thumb:    "100x300",
		Download: true,
	})
	require.Contains(t, url, "thumb=100x300")
	require.Contains(t, url, "download=1")
}

func TestImpersonate_DoesNotReplaceSession(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/collections/users/auth-with-password" {
			fmt.Fprint(w, `{"token":"mine","record":{}}`)
			return
		}
		require.Equal(t, "/api/collections/users/impersonate/u2", r.URL.Path)
		fmt.Fprint(w, `{"token":"theirs","record":{"id":"u2"}}`)
	}))

	_, err := client.AuthWithPassword(context.Background(), "users", "a", "b")
	require.NoError(t, err)

	raw, err := client.Impersonate(context.Background(), "users", "u2", 0)
	require.NoError(t, err)
	require.Contains(t, string(raw), "theirs")
	require.Equal(t, "mine", client.AuthToken())
}

func TestSendRaw_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"status":503,"message":"busy"}`)
			return
		}
		fmt.Fprint(w, `{"items":[]}`)
	}), WithRetry())

	_, err := client.ListRecords(context.Background(), "posts", ListOptions{})
	require.NoError(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestSendRaw_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":400,"message":"bad"}`)
	}), WithRetry())

	_, err := client.ListRecords(context.Background(), "posts", ListOptions{})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestSendRaw_NoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":503,"message":"busy"}`)
	}))

	_, err := client.ListRecords(context.Background(), "posts", ListOptions{})
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestListAuthMethods_ParsesProviders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/users/auth-methods", r.URL.Path)
		fmt.Fprint(w, `{"oauth2":{"enabled":true,"providers":[{"name":"google","authURL":"https://accounts.google.com/x","state":"s1","codeVerifier":"v1"}]}}`)
	}))

	methods, err := client.ListAuthMethods(context.Background(), "users")
	require.NoError(t, err)
	require.True(t, methods.OAuth2.Enabled)
	require.Len(t, methods.OAuth2.Providers, 1)
	require.Equal(t, "google", methods.OAuth2.Providers[0].Name)
	require.NotEmpty(t, methods.Raw)
}

func TestBackupDownloadURL(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files/token", r.URL.Path)
		fmt.Fprint(w, `{"token":"file-tok"}`)
	}))

	url, err := client.BackupDownloadURL(context.Background(), "pb_backup.zip")
	require.NoError(t, err)
	require.Contains(t, url, "/api/backups/pb_backup.zip")
	require.Contains(t, url, "token=file-tok")
}
