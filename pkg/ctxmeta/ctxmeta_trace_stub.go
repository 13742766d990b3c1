//go:build !otel || gopls

package ctxmeta

import "context"

// Сборка без тега `otel`: trace/span отсутствуют.
func TraceIDFromContext(context.Context) (string, bool) { return "", false }
func SpanIDFromContext(context.Context) (string, bool)  { return "", false }

func TraceFields(context.Context) (traceID, spanID string, ok bool) { return "", "", false }
