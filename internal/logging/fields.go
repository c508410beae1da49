package logging

import "log/slog"

// Common field names for consistent logging across the pipeline.
const (
	FieldSource   = "source"
	FieldCount    = "count"
	FieldPass     = "pass"
	FieldDuration = "duration_ms"
	FieldError    = "error"
	FieldReportID = "report_id"
)

// Source returns a slog attribute for the intelligence source name.
func Source(name string) slog.Attr {
	return slog.String(FieldSource, name)
}

// Count returns a slog attribute for a record count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Pass returns a slog attribute for a correlation pass name.
func Pass(name string) slog.Attr {
	return slog.String(FieldPass, name)
}

// Duration returns a slog attribute for duration in milliseconds.
func Duration(ms int64) slog.Attr {
	return slog.Int64(FieldDuration, ms)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// ReportID returns a slog attribute for an analysis report ID.
func ReportID(id string) slog.Attr {
	return slog.String(FieldReportID, id)
}
