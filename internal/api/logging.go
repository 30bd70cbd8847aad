package api

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csrent/csrent-cli/internal/log"
)

const maxLoggedBody = 1000

// LoggingClient wraps a Doer and records every exchange. Request lines are
// logged at debug; headers and error bodies only at trace.
type LoggingClient struct {
	wrapped Doer
	logger  *slog.Logger
}

func NewLoggingClient(wrapped Doer, logger *slog.Logger) *LoggingClient {
	if wrapped == nil {
		wrapped = &http.Client{}
	}
	return &LoggingClient{wrapped: wrapped, logger: logger}
}

func (c *LoggingClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if c.logger == nil || !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}

	logger := c.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
	)
	trace := logger.Enabled(ctx, log.LevelTrace)
	if trace {
		logger.LogAttrs(ctx, log.LevelTrace, "http request",
			slog.Any("headers", redact(req.Header)),
			slog.Int64("content_length", req.ContentLength),
		)
	}

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		logger.LogAttrs(ctx, slog.LevelDebug, "http request failed",
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	attrs := []slog.Attr{
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	}
	if trace {
		attrs = append(attrs, slog.Any("headers", redact(resp.Header)))
		if resp.StatusCode >= 400 {
			if body, ok := peekBody(resp); ok && body != "" {
				attrs = append(attrs, slog.String("error_body", body))
			}
		}
	}
	logger.LogAttrs(ctx, slog.LevelDebug, "http response", attrs...)
	return resp, nil
}

func redact(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		key := strings.ToLower(k)
		if key == "authorization" || key == "cookie" || key == "set-cookie" || strings.Contains(key, "token") {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// peekBody reads the response body and puts an equivalent reader back.
func peekBody(resp *http.Response) (string, bool) {
	if resp.Body == nil {
		return "", false
	}
	b, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(b))
	if err != nil {
		return "", false
	}
	if len(b) > maxLoggedBody {
		return string(b[:maxLoggedBody]) + "... [truncated]", true
	}
	return string(b), true
}
