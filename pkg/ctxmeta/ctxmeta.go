// Пакет ctxmeta — нейтральный слой для работы с метаданными запроса,
// которые прокидываются через context.Context (request_id, fetch_token, trace_id).
// HTTP-слой, сессия и логгер зависят от небольшого общего пакета, но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемые типы — чтобы избежать коллизий).
	KeyRequestID  ctxKey = "request_id"
	KeyFetchToken ctxKey = "fetch_token"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(KeyRequestID).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithFetchToken кладёт токен запроса погоды в контекст (0 — токена нет, ничего не делает).
func WithFetchToken(ctx context.Context, token uint64) context.Context {
	if ctx == nil || token == 0 {
		return ctx
	}
	return context.WithValue(ctx, KeyFetchToken, token)
}

// FetchTokenFromContext достаёт токен запроса погоды.
func FetchTokenFromContext(ctx context.Context) (uint64, bool) {
	if ctx == nil {
		return 0, false
	}
	if v, ok := ctx.Value(KeyFetchToken).(uint64); ok && v != 0 {
		return v, true
	}
	return 0, false
}
