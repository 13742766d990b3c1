package httpx

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimit — читает limit из query; нечисловое значение даёт дефолт, остальное зажимается в [1, maxLimit].
func ParseLimit(c *gin.Context, defaultLimit, maxLimit int) int {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return ClampInt(defaultLimit, 1, maxLimit)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ClampInt(defaultLimit, 1, maxLimit)
	}
	return ClampInt(v, 1, maxLimit)
}

// QueryFlag — булев флаг из query: "1", "true", "yes", "on" (без учёта регистра).
// Флаг без значения (?async) тоже считается включённым.
func QueryFlag(c *gin.Context, key string) bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "1", "true", "yes", "on":
		return true
	}
	return false
}
