package server

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pbmcp/internal/infra/hookstore"
	"pbmcp/internal/infra/pocketbase"
)

// connectServer builds a server against the given fake backend handler and
// returns a client session over in-memory transports.
func connectServer(t *testing.T, handler http.Handler) (*Server, *mcp.ClientSession) {
	t.Helper()

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	srv, err := New(Options{
		Client: pocketbase.NewClient(backend.URL, zap.NewNop()),
		Hooks:  hookstore.NewStore(t.TempDir(), zap.NewNop()),
		Logger: zap.NewNop(),
	})
	require.NoError(t, err)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := srv.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return srv, clientSession
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func noBackend(t *testing.T) http.Handler {
	return http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected backend request: %s %s", r.Method, r.URL.Path)
	})
}

func TestListTools_MatchesCatalog(t *testing.T) {
	srv, session := connectServer(t, noBackend(t))

	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		require.NotEmpty(t, tool.Description, "tool %q has no description", tool.Name)
	}
	require.Empty(t, cmp.Diff(srv.ToolNames(), names))
}

func TestListTools_CoversEveryArea(t *testing.T) {
	srv, _ := connectServer(t, noBackend(t))

	catalog := map[string]struct{}{}
	for _, name := range srv.ToolNames() {
		catalog[name] = struct{}{}
	}
	for _, name := range []string{
		"list_collections", "import_collections",
		"list_records", "batch_upsert",
		"auth_with_password", "impersonate", "create_user",
		"get_file_url", "get_file_token",
		"list_logs", "run_cron_job",
		"get_settings", "restore_backup", "check_health",
		"list_hooks", "create_hook_template",
	} {
		_, ok := catalog[name]
		require.True(t, ok, "missing tool %q", name)
	}
}

func TestCallTool_UnknownToolEnvelope(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "nonexistent_tool", nil)
	require.True(t, isError)
	require.Equal(t, "Error: Unknown tool: nonexistent_tool", text)
}

func TestCallTool_BackendErrorEnvelope(t *testing.T) {
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"status":404,"message":"The requested resource wasn't found."}`)
	}))

	text, isError := callTool(t, session, "get_record", map[string]any{
		"collection": "posts",
		"id":         "missing",
	})
	require.True(t, isError)
	require.True(t, strings.HasPrefix(text, "Error: "), "got %q", text)
	require.Contains(t, text, "wasn't found")
}

func TestListRecords_PrettyOutput(t *testing.T) {
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/posts/records", r.URL.Path)
		fmt.Fprint(w, `{"page":1,"items":[{"id":"a"}]}`)
	}))

	text, isError := callTool(t, session, "list_records", map[string]any{"collection": "posts"})
	require.False(t, isError)
	require.Contains(t, text, "\n  \"page\": 1")
}

func TestDeleteRecord_Confirmation(t *testing.T) {
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))

	text, isError := callTool(t, session, "delete_record", map[string]any{
		"collection": "posts",
		"id":         "p1",
	})
	require.False(t, isError)
	require.Equal(t, `Deleted record "p1" from collection "posts"`, text)
}

func TestAuthWithOAuth2_ProviderNotFound(t *testing.T) {
	var calls int
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.Equal(t, "/api/collections/users/auth-methods", r.URL.Path)
		fmt.Fprint(w, `{"oauth2":{"enabled":true,"providers":[{"name":"github"}]}}`)
	}))

	text, isError := callTool(t, session, "auth_with_oauth2", map[string]any{"provider": "google"})
	require.True(t, isError)
	require.Contains(t, text, `OAuth2 provider "google" not found`)
	require.Equal(t, 1, calls)
}

func TestAuthWithOAuth2_ProviderFound(t *testing.T) {
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"oauth2":{"enabled":true,"providers":[{"name":"google","authURL":"https://accounts.google.com/x","state":"s1","codeVerifier":"v1"}]}}`)
	}))

	text, isError := callTool(t, session, "auth_with_oauth2", map[string]any{"provider": "google"})
	require.False(t, isError)
	require.Contains(t, text, "Auth URL: https://accounts.google.com/x")
	require.Contains(t, text, "State: s1")
}

func TestHookTools_RoundTrip(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "create_hook", map[string]any{
		"filename": "main.pb.js",
		"content":  `console.log("hi")`,
	})
	require.False(t, isError)
	require.Contains(t, text, "main.pb.js")

	text, isError = callTool(t, session, "read_hook", map[string]any{"filename": "main.pb.js"})
	require.False(t, isError)
	require.Equal(t, `console.log("hi")`, text)

	text, isError = callTool(t, session, "list_hooks", nil)
	require.False(t, isError)
	require.Contains(t, text, "main.pb.js")

	text, isError = callTool(t, session, "delete_hook", map[string]any{"filename": "main.pb.js"})
	require.False(t, isError)
	require.Equal(t, `Deleted hook "main.pb.js"`, text)

	text, isError = callTool(t, session, "read_hook", map[string]any{"filename": "main.pb.js"})
	require.True(t, isError)
	require.Contains(t, text, "not found")
}

func TestCreateHook_SuffixEnforced(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "create_hook", map[string]any{
		"filename": "main.js",
		"content":  "x",
	})
	require.True(t, isError)
	require.Contains(t, text, "must end with")
}

func TestCreateHookTemplate(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "create_hook_template", map[string]any{
		"type":       "custom-route",
		"collection": "ping",
	})
	require.False(t, isError)
	require.Contains(t, text, `routerAdd("GET", "/api/ping"`)

	text, isError = callTool(t, session, "create_hook_template", map[string]any{
		"type":       "bogus",
		"collection": "ping",
	})
	require.True(t, isError)
	require.Contains(t, text, `unknown template type "bogus"`)
}

func TestCreateHookTemplate_RecordValidationSubstitution(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "create_hook_template", map[string]any{
		"type":       "record-validation",
		"collection": "posts",
	})
	require.False(t, isError)
	require.Contains(t, text, `"posts"`)
	require.NotContains(t, text, "__NAME__")
}

func TestBatchCreate_SingleGroupedCall(t *testing.T) {
	var batchCalls int
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/batch", r.URL.Path)
		batchCalls++
		fmt.Fprint(w, `[{"status":200},{"status":200}]`)
	}))

	_, isError := callTool(t, session, "batch_create", map[string]any{
		"collection": "posts",
		"records": []map[string]any{
			{"title": "one"},
			{"title": "two"},
		},
	})
	require.False(t, isError)
	require.Equal(t, 1, batchCalls)
}

func TestBatchUpdate_MissingIDRejected(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "batch_update", map[string]any{
		"collection": "posts",
		"records": []map[string]any{
			{"title": "no id here"},
		},
	})
	require.True(t, isError)
	require.Contains(t, text, "missing an id")
}

func TestGetFileURL_NoBackendCall(t *testing.T) {
	_, session := connectServer(t, noBackend(t))

	text, isError := callTool(t, session, "get_file_url", map[string]any{
		"collection": "posts",
		"recordId":   "r1",
		"filename":   "photo.png",
		"thumb":      "100x300",
	})
	require.False(t, isError)
	require.Contains(t, text, "/api/files/posts/r1/photo.png")
	require.Contains(t, text, "thumb=100x300")
}

func TestAuthSessionSharedAcrossTools(t *testing.T) {
	var gotAuth string
	_, session := connectServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/collections/_superusers/auth-with-password":
			fmt.Fprint(w, `{"token":"admin-tok","record":{}}`)
		case "/api/settings":
			gotAuth = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"meta":{}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))

	_, isError := callTool(t, session, "auth_with_password", map[string]any{
		"collection": "_superusers",
		"identity":   "admin@example.com",
		"password":   "secret",
	})
	require.False(t, isError)

	_, isError = callTool(t, session, "get_settings", nil)
	require.False(t, isError)
	require.Equal(t, "admin-tok", gotAuth)
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Client: pocketbase.NewClient("http://127.0.0.1:0", zap.NewNop())})
	require.Error(t, err)
}
