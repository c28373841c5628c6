package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Business logic logging methods

// LogReservationCreated logs a committed reservation
func (l *Logger) LogReservationCreated(ctx context.Context, code, packageCode, origin string, seats int) {
	l.Logger.InfoContext(ctx,
		"Reservation Created",
		slog.String("reservation_code", code),
		slog.String("package_code", packageCode),
		slog.String("origin", origin),
		slog.Int("seats", seats),
	)
}

// LogReservationCancelled logs a cancelled reservation
func (l *Logger) LogReservationCancelled(ctx context.Context, code string, seatsReleased int) {
	l.Logger.InfoContext(ctx,
		"Reservation Cancelled",
		slog.String("reservation_code", code),
		slog.Int("seats_released", seatsReleased),
	)
}

// LogCapacityRejected logs a checkout rejected for lack of seats
func (l *Logger) LogCapacityRejected(ctx context.Context, packageCode, date string, requested, remaining int) {
	l.Logger.InfoContext(ctx,
		"Capacity Rejected",
		slog.String("package_code", packageCode),
		slog.String("date", date),
		slog.Int("requested", requested),
		slog.Int("remaining", remaining),
	)
}

// LogCapacityInvariantViolated logs a ledger invariant violation. This is a
// bug signal, never a user error.
func (l *Logger) LogCapacityInvariantViolated(ctx context.Context, packageID, date string, reserved, total, delta int) {
	l.Logger.ErrorContext(ctx,
		"CAPACITY INVARIANT VIOLATED",
		slog.String("package_id", packageID),
		slog.String("date", date),
		slog.Int("reserved", reserved),
		slog.Int("total", total),
		slog.Int("delta", delta),
	)
}

// LogHoldCreated logs a new integration hold
func (l *Logger) LogHoldCreated(ctx context.Context, holdID, packageCode string, expiresAt time.Time) {
	l.Logger.InfoContext(ctx,
		"Hold Created",
		slog.String("hold_id", holdID),
		slog.String("package_code", packageCode),
		slog.Time("expires_at", expiresAt),
	)
}

// LogHoldConfirmed logs a hold converted into a reservation
func (l *Logger) LogHoldConfirmed(ctx context.Context, holdID, reservationCode string) {
	l.Logger.InfoContext(ctx,
		"Hold Confirmed",
		slog.String("hold_id", holdID),
		slog.String("reservation_code", reservationCode),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
