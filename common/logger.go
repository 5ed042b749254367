package common

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// LogConfig captures options for configuring the global logger.
type LogConfig struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stdout)
	Service string    // optional service name attached to every log entry
}

var (
	logOnce sync.Once
	baseLog zerolog.Logger
)

// ConfigureLogger initialises the global zerolog logger exactly once.
func ConfigureLogger(cfg LogConfig) {
	logOnce.Do(func() {
		level := zerolog.InfoLevel
		if cfg.Level != "" {
			if parsed, err := zerolog.ParseLevel(cfg.Level); err == nil {
				level = parsed
			}
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = time.RFC3339

		writer := cfg.Output
		if writer == nil {
			writer = os.Stdout
		}

		service := cfg.Service
		if service == "" {
			service = "movie-catalog"
		}

		baseLog = zerolog.New(writer).With().
			Timestamp().
			Str("service", service).
			Logger()
	})
}

// Logger returns the configured base logger
func Logger() zerolog.Logger {
	ConfigureLogger(LogConfig{})
	return baseLog
}

// WithComponent returns a child logger annotated with the given component name.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

// RequestLogger logs one line per request in place of gin's default logger
func RequestLogger() gin.HandlerFunc {
	log := WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("request_id", c.GetString("request_id")).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
