package logging

import (
	"context"
	"log/slog"
	"strings"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldScanID is the key for the inventory scan identifier.
	FieldScanID = "scan_id"
	// FieldPath is the key for media file paths.
	FieldPath = "path"
	// FieldStreamKind is the key for audio/video/subtitle stream kinds.
	FieldStreamKind = "stream_kind"
	// FieldStreamIndex is the key for kind-relative stream indices.
	FieldStreamIndex = "stream_index"
	// FieldEventType classifies warnings, e.g. "file_skipped".
	FieldEventType = "event_type"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

type scanIDKey struct{}

// WithScanID stores the scan identifier on ctx.
func WithScanID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, scanIDKey{}, id)
}

// ScanIDFromContext returns the scan identifier stored by WithScanID.
func ScanIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(scanIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with structured fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := ScanIDFromContext(ctx); ok {
		return logger.With(String(FieldScanID, id))
	}
	return logger
}
