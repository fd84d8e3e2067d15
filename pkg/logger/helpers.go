package logger

import (
	"time"
)

// LogRequest logs an API request and its outcome
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration":    duration,
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		l.DebugWithFields("HTTP request completed", fields)
	case statusCode >= 400 && statusCode < 500:
		l.WarnWithFields("HTTP request client error", fields)
	case statusCode >= 500:
		l.ErrorWithFields("HTTP request server error", fields)
	}
}

// LogRateLimit logs a rate limiter pause
func LogRateLimit(l Logger, reason string, wait time.Duration, callsRemaining int) {
	l.WithFields(map[string]interface{}{
		"reason":          reason,
		"wait":            wait,
		"calls_remaining": callsRemaining,
		"action":          "rate_limited",
	}).Debug("Cycle limit hit, sleeping")
}

// LogDownload logs a single asset download
func LogDownload(l Logger, key string, index, total int, err error) {
	fields := map[string]interface{}{
		"key":   key,
		"index": index,
		"total": total,
	}

	entry := l.WithFields(fields)
	if err != nil {
		entry.WithError(err).Error("Download failed")
		return
	}
	entry.Debug("Download completed")
}

// LogStateChange logs a transition of the download run
func LogStateChange(l Logger, theme string, from, to string) {
	l.WithFields(map[string]interface{}{
		"theme": theme,
		"from":  from,
		"to":    to,
	}).Info("Run state changed")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
