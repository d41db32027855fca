// Package logger provides the structured, levelled application logger built
// on log/slog.
//
// Handlers retrieve a logger already tagged with the request ID:
//
//	log := logger.WithCtx(r.Context())
//	log.Info("order created", "order_id", order.ID)
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/kasir/config"
)

// L is the process-wide base logger. It defaults to a text handler on stdout
// until Setup is called.
var L = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

// Setup configures L from cfg: JSON at info level in production, text at
// debug level otherwise. When LOG_MONGO_URI is set, records are also shipped
// to MongoDB. The returned func flushes and closes any sink.
func Setup(cfg *config.Config) (func(), error) {
	handler := newHandler(os.Stdout, cfg.IsProduction())
	closer := func() {}

	if cfg.LogMongoURI != "" {
		mh, err := NewMongoHandler(cfg.LogMongoURI, cfg.LogMongoDB, "logs")
		if err != nil {
			return closer, fmt.Errorf("logger: %w", err)
		}
		handler = NewMultiHandler(handler, mh)
		closer = mh.Close
	}

	L = slog.New(handler)
	slog.SetDefault(L)
	return closer, nil
}

func newHandler(w io.Writer, production bool) slog.Handler {
	if production {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
}

type ctxKey struct{}

// WithCtx returns the per-request logger stored by the Logger middleware,
// or the base logger when there is none.
func WithCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores log into ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
