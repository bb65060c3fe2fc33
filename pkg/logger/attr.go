package logger

import (
	"log/slog"
	"time"
)

// Error records err under "error". A nil err yields an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// FormID records the controller instance identifier.
func FormID(id string) slog.Attr {
	return slog.String("form_id", id)
}

// SessionID records the host session identifier.
func SessionID(id string) slog.Attr {
	return slog.String("session_id", id)
}

// Field records a form field name.
func Field(name string) slog.Attr {
	return slog.String("field", name)
}

// Event records the input event kind (blur, change, submit).
func Event(kind string) slog.Attr {
	return slog.String("event", kind)
}

// Version records the model map version.
func Version(v uint64) slog.Attr {
	return slog.Uint64("version", v)
}

// ErrorCount records how many validation errors were reported.
func ErrorCount(n int) slog.Attr {
	return slog.Int("error_count", n)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}
