package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// maxInlineValues is the largest []float64 attribute rendered in full.
// Longer vectors are replaced with a count placeholder; distributions
// can carry thousands of points and would drown the log line.
const maxInlineValues = 8

// NumericHandler wraps an slog.Handler to normalize numeric attributes.
// Float values are rendered with four fractional digits, matching the
// report output, and long float vectors are elided to a count.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Call sites keep passing raw floats and slices
type NumericHandler struct {
	// handler is the underlying slog handler that receives the
	// normalized records.
	handler slog.Handler
}

// NewNumericHandler creates a NumericHandler wrapping the given handler.
// If handler is nil, the returned NumericHandler uses slog.Default().Handler().
func NewNumericHandler(handler slog.Handler) *NumericHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &NumericHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *NumericHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle normalizes the record's attributes and passes it on.
func (h *NumericHandler) Handle(ctx context.Context, r slog.Record) error {
	normalized := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		normalized.AddAttrs(h.normalizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, normalized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are normalized before being added.
func (h *NumericHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	normalized := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		normalized[i] = h.normalizeAttr(a)
	}
	return &NumericHandler{handler: h.handler.WithAttrs(normalized)}
}

// WithGroup returns a new handler with the given group name.
func (h *NumericHandler) WithGroup(name string) slog.Handler {
	return &NumericHandler{handler: h.handler.WithGroup(name)}
}

// normalizeAttr normalizes a single attribute, recursively handling groups.
func (h *NumericHandler) normalizeAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		normalized := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			normalized[i] = h.normalizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(normalized...)}
	}

	switch a.Value.Kind() {
	case slog.KindFloat64:
		return slog.String(a.Key, fmt.Sprintf("%.4f", a.Value.Float64()))
	case slog.KindAny:
		if values, ok := a.Value.Any().([]float64); ok {
			return slog.String(a.Key, formatVector(values))
		}
	}

	return a
}

// formatVector renders a float vector, eliding long ones to a count.
func formatVector(values []float64) string {
	if len(values) > maxInlineValues {
		return fmt.Sprintf("[%d values]", len(values))
	}

	s := "["
	for i, v := range values {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%.4e", v)
	}
	return s + "]"
}

// NewLogger creates a new slog.Logger with numeric normalization.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or
// passed to components that accept *slog.Logger.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	return slog.New(NewNumericHandler(textHandler))
}
