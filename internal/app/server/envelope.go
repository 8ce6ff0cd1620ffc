package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

// addTool registers one tool with a schema derived from In and wraps the
// handler in the response envelope: success is the handler's text, any error
// becomes a protocol-level success whose payload is "Error: <message>". A
// failing tool call never surfaces as a protocol error.
func addTool[In any](s *Server, name, description string, run func(context.Context, In) (string, error)) {
	if _, dup := s.registry[name]; dup {
		s.initErr = fmt.Errorf("duplicate tool registration: %s", name)
		return
	}
	schema, err := jsonschema.For[In](nil)
	if err != nil {
		s.initErr = fmt.Errorf("schema for %s: %w", name, err)
		return
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        name,
		Description: description,
		InputSchema: schema,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		text, err := run(ctx, in)
		if err != nil {
			s.logger.Debug("tool call failed", zap.String("tool", name), zap.Error(err))
			return errorResult(err), nil, nil
		}
		return textResult(text), nil, nil
	})
	s.registry[name] = struct{}{}
}

// dispatchMiddleware intercepts tools/call for names outside the registry and
// returns the unknown-tool envelope instead of a protocol error.
func (s *Server) dispatchMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method == "tools/call" {
				if call, ok := req.(*mcp.CallToolRequest); ok && call.Params != nil {
					if _, known := s.registry[call.Params.Name]; !known {
						s.logger.Warn("unknown tool requested", zap.String("tool", call.Params.Name))
						return errorResult(domain.E(domain.CodeNotFound, "dispatch",
							fmt.Sprintf("Unknown tool: %s", call.Params.Name), nil)), nil
					}
				}
			}
			return next(ctx, method, req)
		}
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + domain.MessageFrom(err)}},
	}
}

// pretty re-indents a raw backend response for display. Invalid JSON is
// passed through untouched.
func pretty(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
