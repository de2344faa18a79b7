package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	appCtx "github.com/baechuer/france-explorer/internal/pkg/context"
)

const serviceName = "france-explorer"

// Logger is the process-wide logger. It discards everything until Init runs.
var Logger zerolog.Logger = zerolog.Nop()

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures Logger from LOG_LEVEL (default info) and
// LOG_FORMAT ("json" or "console", default console).
func InitWithWriter(w io.Writer) {
	Logger = New(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	zlog.Logger = Logger
}

// New builds a logger without touching the globals.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// WithCtx returns Logger enriched with the request id and client ip found
// in ctx.
func WithCtx(ctx context.Context) *zerolog.Logger {
	lc := Logger.With()
	if id := appCtx.GetRequestID(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if ip := appCtx.GetClientIP(ctx); ip != "" {
		lc = lc.Str("client_ip", ip)
	}
	l := lc.Logger()
	return &l
}
