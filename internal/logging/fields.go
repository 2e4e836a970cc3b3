package logging

import "log/slog"

// Common field names for consistent logging across the service.
const (
	FieldService = "service"
	FieldError   = "error"
	FieldEventID = "event_id"
	FieldDate    = "date"
	FieldCount   = "count"
	FieldIP      = "ip"
	FieldChannel = "channel"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}

// EventID returns a slog attribute for an event ID.
func EventID(id string) slog.Attr {
	return slog.String(FieldEventID, id)
}

// Date returns a slog attribute for a calendar-date key.
func Date(date string) slog.Attr {
	return slog.String(FieldDate, date)
}

// Count returns a slog attribute for an item count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// IP returns a slog attribute for a client address.
func IP(ip string) slog.Attr {
	return slog.String(FieldIP, ip)
}

// Channel returns a slog attribute for a notification channel type.
func Channel(name string) slog.Attr {
	return slog.String(FieldChannel, name)
}
