package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fhuszti/medias-conversion-ms/internal/api_context"
)

const service = "medias-conversion-ms"

var (
	std      *slog.Logger
	timeZero time.Time
)

type attrsKey struct{}

// WithAttrs returns a context whose log lines carry args (key/value pairs or
// slog.Attr) in addition to any already attached.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	prev, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	r := slog.NewRecord(timeZero, 0, "", 0)
	r.Add(args...)

	attrs := make([]slog.Attr, 0, len(prev)+r.NumAttrs())
	attrs = append(attrs, prev...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// contextAttrHandler appends the caller (uid), the conversion (cid) and any
// WithAttrs values found in the record context.
type contextAttrHandler struct{ h slog.Handler }

func (c contextAttrHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return c.h.Enabled(ctx, lvl)
}

func (c contextAttrHandler) Handle(ctx context.Context, r slog.Record) error {
	uid, ok := api_context.AuthUserIDFromContext(ctx)
	if !ok {
		uid = "system"
	}
	r.AddAttrs(slog.String("uid", uid))
	if cid, ok := api_context.ConversionIDFromContext(ctx); ok {
		r.AddAttrs(slog.String("cid", cid.String()))
	}
	if extra, ok := ctx.Value(attrsKey{}).([]slog.Attr); ok {
		r.AddAttrs(extra...)
	}
	return c.h.Handle(ctx, r)
}

func (c contextAttrHandler) WithAttrs(a []slog.Attr) slog.Handler {
	return contextAttrHandler{h: c.h.WithAttrs(a)}
}

func (c contextAttrHandler) WithGroup(n string) slog.Handler {
	return contextAttrHandler{h: c.h.WithGroup(n)}
}

// Init configures the process logger on stdout from the environment:
//
//	LOG_FORMAT    json|text (default: json)
//	LOG_LEVEL     debug|info|warn|error (default: info)
//	LOG_SOURCE    true|false (default: false)
func Init() {
	InitWriter(os.Stdout)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(os.Getenv("LOG_LEVEL")),
		AddSource: parseBool(os.Getenv("LOG_SOURCE")),
	}

	var base slog.Handler = slog.NewJSONHandler(w, opts)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		base = slog.NewTextHandler(w, opts)
	}

	// svc first so it prints before the context attributes in TextHandler.
	std = slog.New(contextAttrHandler{h: base}).With("svc", service)
	slog.SetDefault(std)

	// third-party log.Printf output has no ctx, so no uid
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(base, slog.LevelInfo).Writer())
}

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func active() *slog.Logger {
	if std != nil {
		return std
	}
	return slog.Default()
}

func Info(ctx context.Context, msg string, attrs ...any) {
	active().Log(ctx, slog.LevelInfo, msg, attrs...)
}
func Warn(ctx context.Context, msg string, attrs ...any) {
	active().Log(ctx, slog.LevelWarn, msg, attrs...)
}
func Error(ctx context.Context, msg string, attrs ...any) {
	active().Log(ctx, slog.LevelError, msg, attrs...)
}
func Debug(ctx context.Context, msg string, attrs ...any) {
	active().Log(ctx, slog.LevelDebug, msg, attrs...)
}

func Infof(ctx context.Context, format string, a ...any)  { logf(ctx, slog.LevelInfo, format, a) }
func Warnf(ctx context.Context, format string, a ...any)  { logf(ctx, slog.LevelWarn, format, a) }
func Errorf(ctx context.Context, format string, a ...any) { logf(ctx, slog.LevelError, format, a) }
func Debugf(ctx context.Context, format string, a ...any) { logf(ctx, slog.LevelDebug, format, a) }

func logf(ctx context.Context, lvl slog.Level, format string, a []any) {
	l := active()
	if !l.Enabled(ctx, lvl) {
		return
	}
	l.Log(ctx, lvl, fmt.Sprintf(format, a...))
}
