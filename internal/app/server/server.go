// Package server exposes the PocketBase adapter as an MCP tool server. Every
// tool is a typed, schema-described pass-through to the backend client or the
// hook file store; the dispatch envelope renders all failures as text.
package server

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"pbmcp/internal/infra/hookstore"
	"pbmcp/internal/infra/pocketbase"
)

const serverName = "pocketbase-mcp"

type Options struct {
	Client  *pocketbase.Client
	Hooks   *hookstore.Store
	Logger  *zap.Logger
	Version string
}

type Server struct {
	client   *pocketbase.Client
	hooks    *hookstore.Store
	logger   *zap.Logger
	mcp      *mcp.Server
	registry map[string]struct{}
	initErr  error
}

func New(opts Options) (*Server, error) {
	if opts.Client == nil {
		return nil, errors.New("pocketbase client is required")
	}
	if opts.Hooks == nil {
		return nil, errors.New("hook store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	version := opts.Version
	if version == "" {
		version = "0.1.0"
	}

	s := &Server{
		client:   opts.Client,
		hooks:    opts.Hooks,
		logger:   logger.Named("server"),
		registry: make(map[string]struct{}),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, &mcp.ServerOptions{
		HasTools: true,
	})
	s.mcp.AddReceivingMiddleware(s.dispatchMiddleware())

	s.registerCollectionTools()
	s.registerRecordTools()
	s.registerAuthTools()
	s.registerFileTools()
	s.registerLogTools()
	s.registerSettingsTools()
	s.registerHookTools()

	if s.initErr != nil {
		return nil, s.initErr
	}
	s.logger.Info("tool catalog registered", zap.Int("tools", len(s.registry)))
	return s, nil
}

// ToolNames returns the registered tool names, sorted.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run serves MCP over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("server starting (stdio transport)", zap.String("base_url", s.client.BaseURL()))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

type HTTPOptions struct {
	Addr         string
	Path         string
	JSONResponse bool
}

const httpShutdownTimeout = 5 * time.Second

// RunStreamableHTTP serves MCP over streamable HTTP until ctx is done.
func (s *Server) RunStreamableHTTP(ctx context.Context, opts HTTPOptions) error {
	path := opts.Path
	if path == "" {
		path = "/mcp"
	}
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: opts.JSONResponse})

	mux := http.NewServeMux()
	mux.Handle(path, handler)
	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()
	s.logger.Info("server starting (streamable http transport)",
		zap.String("addr", opts.Addr),
		zap.String("path", path),
		zap.String("base_url", s.client.BaseURL()))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
