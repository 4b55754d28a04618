package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folio/pkg/observability"
)

// debugHooks reports fetch, HTTP and cache events as debug log lines.
// They are registered only under --verbose.
type debugHooks struct {
	logger *log.Logger
}

func registerDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetFetchHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnFetchStart(_ context.Context, sig string) {
	h.logger.Debug("fetch start", "signature", sig)
}

func (h debugHooks) OnFetchComplete(_ context.Context, sig string, count int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "signature", sig, "duration", d.Round(time.Millisecond), "error", err)
		return
	}
	h.logger.Debug("fetch done", "signature", sig, "count", count, "duration", d.Round(time.Millisecond))
}

func (h debugHooks) OnJoin(_ context.Context, sig string) {
	h.logger.Debug("fetch joined", "signature", sig)
}

func (h debugHooks) OnSuppressed(_ context.Context, resetAt time.Time) {
	h.logger.Debug("fetch suppressed", "resets", resetAt.Format(time.Kitchen))
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path,
		"status", status, "duration", d.Round(time.Millisecond))
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
