package utility

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// ContextKeyLogger holds the request-scoped *zerolog.Logger in the echo context.
	ContextKeyLogger = "logger"
	// ContextKeyRequestID holds the request id in the echo context.
	ContextKeyRequestID = "request_id"
)

// SetupLogger configures the global zerolog logger. format "console" gives
// human-readable output; anything else writes JSON lines to stdout.
func SetupLogger(level, format string) {
	var out io.Writer = os.Stdout
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	if err != nil {
		log.Warn().Str("level", level).Msg("Unknown LOG_LEVEL, using info")
	}
}

// LoggerFromContext returns the request-scoped logger, or the global logger
// when the request did not pass through the logger middleware.
func LoggerFromContext(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(ContextKeyLogger).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return &log.Logger
}

// GetRealIP returns the client address recorded in request logs: the first
// X-Forwarded-For hop, then X-Real-IP, then the connection's peer address.
func GetRealIP(c echo.Context) string {
	req := c.Request()
	if first, _, _ := strings.Cut(req.Header.Get(echo.HeaderXForwardedFor), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(req.Header.Get(echo.HeaderXRealIP)); ip != "" {
		return ip
	}
	return c.RealIP()
}
