//go:build otel && !gopls

package ctxmeta

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// В сборке с тегом `otel` trace/span берутся из активного спана
// (в том числе спана запроса к провайдеру погоды).

func spanContext(ctx context.Context) (trace.SpanContext, bool) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	return sc, sc.IsValid()
}

func TraceIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.TraceID().String(), true
}

func SpanIDFromContext(ctx context.Context) (string, bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", false
	}
	return sc.SpanID().String(), true
}

// TraceFields — trace и span одним вызовом (для полей логгера).
func TraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc, ok := spanContext(ctx)
	if !ok {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
