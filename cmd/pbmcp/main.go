package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pbmcp/internal/app/server"
	"pbmcp/internal/infra/config"
	"pbmcp/internal/infra/hookstore"
	"pbmcp/internal/infra/pocketbase"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "0.1.0"

type serverOptions struct {
	baseURL          string
	hooksDir         string
	transport        string
	httpAddr         string
	httpPath         string
	httpJSONResponse bool
	retry            bool
	logger           *zap.Logger
}

func main() {
	opts := serverOptions{
		transport: "stdio",
		httpAddr:  "127.0.0.1:8091",
		httpPath:  "/mcp",
		logger:    zap.NewNop(),
	}

	root := &cobra.Command{
		Use:   "pbmcp",
		Short: "MCP server exposing a PocketBase backend as tools",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg := zap.NewProductionConfig()
			// stdout carries the stdio transport; logs must not interleave.
			cfg.OutputPaths = []string{"stderr"}
			log, err := cfg.Build()
			if err != nil {
				return err
			}
			opts.logger = log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = opts.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			baseURL := strings.TrimSpace(opts.baseURL)
			if baseURL == "" {
				baseURL = config.Resolve(opts.logger)
			}

			var clientOpts []pocketbase.Option
			if opts.retry {
				clientOpts = append(clientOpts, pocketbase.WithRetry())
			}
			client := pocketbase.NewClient(baseURL, opts.logger, clientOpts...)
			hooks := hookstore.NewStore(opts.hooksDir, opts.logger)

			srv, err := server.New(server.Options{
				Client:  client,
				Hooks:   hooks,
				Logger:  opts.logger,
				Version: version,
			})
			if err != nil {
				return err
			}

			switch opts.transport {
			case "stdio":
				err = srv.Run(ctx)
			case "streamable-http":
				if err := validateHTTPOptions(opts); err != nil {
					return err
				}
				err = srv.RunStreamableHTTP(ctx, server.HTTPOptions{
					Addr:         opts.httpAddr,
					Path:         opts.httpPath,
					JSONResponse: opts.httpJSONResponse,
				})
			default:
				return fmt.Errorf("unsupported transport: %s", opts.transport)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}

	root.PersistentFlags().StringVar(&opts.baseURL, "url", "", "PocketBase base URL (overrides config file and environment)")
	root.PersistentFlags().StringVar(&opts.hooksDir, "hooks-dir", "", "pb_hooks directory for hook tools (defaults to ./pb_hooks)")
	root.PersistentFlags().StringVar(&opts.transport, "transport", opts.transport, "server transport (stdio or streamable-http)")
	root.PersistentFlags().StringVar(&opts.httpAddr, "http-addr", opts.httpAddr, "streamable HTTP listen address")
	root.PersistentFlags().StringVar(&opts.httpPath, "http-path", opts.httpPath, "streamable HTTP endpoint path")
	root.PersistentFlags().BoolVar(&opts.httpJSONResponse, "http-json-response", false, "use application/json responses instead of SSE")
	root.PersistentFlags().BoolVar(&opts.retry, "retry", false, "retry backend requests that fail with transient errors")

	if err := root.Execute(); err != nil {
		opts.logger.Fatal("command failed", zap.Error(err))
	}
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

func validateHTTPOptions(opts serverOptions) error {
	if strings.TrimSpace(opts.httpAddr) == "" {
		return errors.New("http address is required")
	}
	if !isLocalhostAddr(opts.httpAddr) {
		return errors.New("streamable HTTP must bind to a localhost address")
	}
	return nil
}

func isLocalhostAddr(addr string) bool {
	host := addr
	if strings.Contains(addr, ":") {
		if h, _, err := net.SplitHostPort(addr); err == nil {
			host = h
		}
	}
	host = strings.TrimSpace(host)
	if host == "" || host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback()
}
