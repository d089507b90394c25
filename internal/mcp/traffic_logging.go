package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps debug payloads; ingested batches can be large.
const maxLoggedPayload = 2048

// requestIDHeader matches the HTTP transport's request ID header.
const requestIDHeader = "X-Request-ID"

// trafficLoggingMiddleware logs every tool call at info with its outcome and
// duration. At debug it also logs raw request and response payloads for
// every method.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil {
				return next(ctx, method, req)
			}

			attrs := []any{"direction", direction, "method", method}
			if id := requestID(req); id != "" {
				attrs = append(attrs, "request_id", id)
			}
			if id := sessionID(req); id != "" {
				attrs = append(attrs, "session_id", id)
			}
			tool := toolName(method, req)
			if tool != "" {
				attrs = append(attrs, "tool", tool)
			}

			debug := logger.Enabled(ctx, slog.LevelDebug)
			if debug {
				logger.Debug("mcp traffic", append(attrs, "stage", "request", "params", formatPayload(params(req)))...)
			}

			start := time.Now()
			result, err := next(ctx, method, req)
			elapsed := time.Since(start)

			if tool != "" {
				logToolCall(ctx, logger, attrs, result, err, elapsed)
			}
			if debug && !strings.HasPrefix(method, "notifications/") {
				out := append(attrs, "stage", "response", "result", formatPayload(result))
				if err != nil {
					out = append(out, "error", err)
				}
				logger.Debug("mcp traffic", out...)
			}
			return result, err
		}
	}
}

func logToolCall(ctx context.Context, logger *slog.Logger, attrs []any, result sdkmcp.Result, err error, elapsed time.Duration) {
	attrs = append(attrs, "duration_ms", elapsed.Milliseconds())
	if r, ok := result.(*sdkmcp.CallToolResult); ok && r != nil && r.IsError {
		logger.Log(ctx, slog.LevelWarn, "mcp tool call failed", append(attrs, "error", toolErrorText(r))...)
		return
	}
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "mcp tool call failed", append(attrs, "error", err)...)
		return
	}
	logger.Info("mcp tool call", attrs...)
}

// toolName returns the called tool for tools/call requests.
func toolName(method string, req sdkmcp.Request) string {
	if method != "tools/call" {
		return ""
	}
	switch p := params(req).(type) {
	case *sdkmcp.CallToolParamsRaw:
		if p != nil {
			return p.Name
		}
	case *sdkmcp.CallToolParams:
		if p != nil {
			return p.Name
		}
	}
	return ""
}

func toolErrorText(r *sdkmcp.CallToolResult) string {
	for _, c := range r.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

// requestID is only present for requests that arrived over HTTP.
func requestID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	extra := req.GetExtra()
	if extra == nil || extra.Header == nil {
		return ""
	}
	return extra.Header.Get(requestIDHeader)
}

// sessionID tolerates requests whose session is not set yet.
func sessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func params(req sdkmcp.Request) (p any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			p = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s... (%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
